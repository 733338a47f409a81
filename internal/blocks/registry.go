package blocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrUnknownType     = errors.New("blocks: unknown content type")
	ErrPayloadMismatch = errors.New("blocks: payload does not match content type")
	ErrInvalidJSON     = errors.New("blocks: json block holds invalid json")
)

// Codec converts between stored values and the canonical payload of one type.
//
// Normalize must accept any decoded value and never fail; Denormalize must
// return a string, float64, bool or nil.
type Codec struct {
	Empty       func() Payload
	Normalize   func(raw any) Payload
	Denormalize func(payload Payload) (any, error)
}

// Registry is the lookup table from content type to codec.
type Registry struct {
	codecs map[ContentType]Codec
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared registry holding the built-in codecs.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry constructs a registry populated with every built-in type.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[ContentType]Codec, len(AllTypes))}
	r.codecs[TypeHeading] = headingCodec()
	r.codecs[TypeText] = richTextCodec()
	r.codecs[TypeQuote] = richTextCodec()
	r.codecs[TypeNumber] = numberCodec()
	r.codecs[TypeURL] = valueCodec("value", "url", "href")
	r.codecs[TypeDate] = valueCodec("value", "date")
	r.codecs[TypeDateTime] = valueCodec("value", "datetime", "date")
	r.codecs[TypeBoolean] = booleanCodec()
	r.codecs[TypeContact] = contactCodec()
	r.codecs[TypeMultiselect] = multiselectCodec()
	r.codecs[TypeImage] = imageCodec()
	r.codecs[TypeGallery] = galleryCodec()
	r.codecs[TypeCarousel] = galleryCodec()
	r.codecs[TypePartners] = partnersCodec()
	r.codecs[TypeFile] = fileCodec()
	r.codecs[TypeVideo] = mediaCodec(videoURL)
	r.codecs[TypeAudio] = mediaCodec(strings.TrimSpace)
	r.codecs[TypeList] = listCodec()
	r.codecs[TypeTable] = tableCodec()
	r.codecs[TypeAccordion] = accordionCodec()
	r.codecs[TypeTabs] = tabsCodec()
	r.codecs[TypeRelatedEntities] = relatedCodec()
	r.codecs[TypeJSON] = jsonCodec()
	r.codecs[TypeSeparator] = separatorCodec()
	return r
}

// Codec returns the codec registered for t.
func (r *Registry) Codec(t ContentType) (Codec, bool) {
	codec, ok := r.codecs[t]
	return codec, ok
}

// Empty returns the default payload of t.
func (r *Registry) Empty(t ContentType) (Payload, error) {
	codec, ok := r.codecs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return codec.Empty(), nil
}

// Normalize converts a stored value to the canonical payload of t. Malformed
// input yields the empty payload; only an unknown type is an error.
func (r *Registry) Normalize(t ContentType, raw any) (payload Payload, err error) {
	codec, ok := r.codecs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	defer func() {
		if recover() != nil {
			payload, err = codec.Empty(), nil
		}
	}()
	if raw == nil {
		return codec.Empty(), nil
	}
	payload = codec.Normalize(raw)
	if payload == nil {
		payload = codec.Empty()
	}
	return payload, nil
}

// Denormalize converts payload to its storage value. A nil payload stores the
// empty value of t.
func (r *Registry) Denormalize(t ContentType, payload Payload) (any, error) {
	codec, ok := r.codecs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	if payload == nil {
		payload = codec.Empty()
	}
	return codec.Denormalize(payload)
}

// EmptyValue is the storage value written for a field that has no block.
func (r *Registry) EmptyValue(t ContentType) (any, error) {
	return r.Denormalize(t, nil)
}

func mismatch(want ContentType, got Payload) error {
	return fmt.Errorf("%w: %s cannot store %T", ErrPayloadMismatch, want, got)
}

func headingCodec() Codec {
	return Codec{
		Empty: func() Payload { return HeadingPayload{} },
		Normalize: func(raw any) Payload {
			return HeadingPayload{Text: scalarText(raw, "text", "content", "value")}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(HeadingPayload)
			if !ok {
				return nil, mismatch(TypeHeading, p)
			}
			return v.Text, nil
		},
	}
}

func richTextCodec() Codec {
	return Codec{
		Empty: func() Payload { return RichTextPayload{} },
		Normalize: func(raw any) Payload {
			return RichTextPayload{Content: scalarText(raw, "content", "text", "value")}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(RichTextPayload)
			if !ok {
				return nil, mismatch(TypeText, p)
			}
			return v.Content, nil
		},
	}
}

func numberCodec() Codec {
	return Codec{
		Empty: func() Payload { return NumberPayload{} },
		Normalize: func(raw any) Payload {
			value := canonical(raw)
			if _, ok := value.(bool); ok {
				return NumberPayload{}
			}
			return NumberPayload{Value: strings.TrimSpace(scalarText(value, "value", "number"))}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(NumberPayload)
			if !ok {
				return nil, mismatch(TypeNumber, p)
			}
			text := strings.TrimSpace(v.Value)
			if text == "" {
				return nil, nil
			}
			if f, ok := parseFinite(text); ok {
				return f, nil
			}
			return text, nil
		},
	}
}

func valueCodec(fields ...string) Codec {
	return Codec{
		Empty: func() Payload { return ValuePayload{} },
		Normalize: func(raw any) Payload {
			return ValuePayload{Value: strings.TrimSpace(scalarText(raw, fields...))}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(ValuePayload)
			if !ok {
				return nil, fmt.Errorf("%w: value block cannot store %T", ErrPayloadMismatch, p)
			}
			return strings.TrimSpace(v.Value), nil
		},
	}
}

func booleanCodec() Codec {
	return Codec{
		Empty: func() Payload { return BooleanPayload{} },
		Normalize: func(raw any) Payload {
			if m, ok := asMap(raw); ok {
				return BooleanPayload{Value: asBool(m["value"])}
			}
			return BooleanPayload{Value: asBool(raw)}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(BooleanPayload)
			if !ok {
				return nil, mismatch(TypeBoolean, p)
			}
			return v.Value, nil
		},
	}
}

func contactCodec() Codec {
	return Codec{
		Empty: func() Payload { return ContactPayload{IconType: IconLibrary} },
		Normalize: func(raw any) Payload {
			m, ok := asMap(raw)
			if !ok {
				text, _ := asString(raw)
				return ContactPayload{Value: strings.TrimSpace(text), IconType: IconLibrary}
			}
			return ContactPayload{
				Value:    field(m, "value", "text"),
				Icon:     field(m, "icon"),
				IconType: iconType(field(m, "iconType")),
			}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(ContactPayload)
			if !ok {
				return nil, mismatch(TypeContact, p)
			}
			v.IconType = iconType(v.IconType)
			return encodeJSON(v)
		},
	}
}

func iconType(raw string) string {
	if raw == IconUpload {
		return IconUpload
	}
	return IconLibrary
}

func multiselectCodec() Codec {
	return Codec{
		Empty: func() Payload { return MultiselectPayload{Values: []string{}, Links: []string{}} },
		Normalize: func(raw any) Payload {
			out := MultiselectPayload{}
			if m, ok := asMap(raw); ok {
				out.Values = stringList(m["values"], "value", "label")
				out.LinkEnabled = asBool(m["linkEnabled"])
				out.Links = stringList(m["links"], "url", "href")
			} else if list, ok := asSlice(raw); ok {
				out.Values = stringList(list, "value", "label")
			} else if text, ok := asString(raw); ok && strings.TrimSpace(text) != "" {
				out.Values = []string{strings.TrimSpace(text)}
			}
			out.Values = ensureStrings(out.Values)
			out.Links = fitWidth(out.Links, len(out.Values))
			return out
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(MultiselectPayload)
			if !ok {
				return nil, mismatch(TypeMultiselect, p)
			}
			values := ensureStrings(v.Values)
			links := []string{}
			if v.LinkEnabled {
				links = fitWidth(v.Links, len(values))
			}
			return encodeJSON(MultiselectPayload{Values: values, LinkEnabled: v.LinkEnabled, Links: links})
		},
	}
}

func urlOrNil(url string) any {
	if url = strings.TrimSpace(url); url == "" {
		return nil
	}
	return url
}

func imageCodec() Codec {
	return Codec{
		Empty: func() Payload { return ImagePayload{} },
		Normalize: func(raw any) Payload {
			return ImagePayload{URL: strings.TrimSpace(scalarText(raw, "url", "src", "image"))}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(ImagePayload)
			if !ok {
				return nil, mismatch(TypeImage, p)
			}
			return urlOrNil(v.URL), nil
		},
	}
}

// imageList reads a persisted image list from an array, a JSON array string,
// an object holding the list under one of names, or a single URL.
func imageList(raw any, names ...string) []string {
	value := unwrap(raw)
	if m, ok := value.(map[string]any); ok {
		for _, name := range names {
			if list, ok := m[name]; ok {
				return nonEmpty(stringList(list, "url", "src"))
			}
		}
		return []string{}
	}
	if _, ok := value.([]any); ok {
		return nonEmpty(stringList(value, "url", "src"))
	}
	if text, ok := value.(string); ok {
		return nonEmpty([]string{text})
	}
	return []string{}
}

func galleryCodec() Codec {
	return Codec{
		Empty: func() Payload { return GalleryPayload{Images: []string{}} },
		Normalize: func(raw any) Payload {
			return GalleryPayload{Images: imageList(raw, "images", "items")}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(GalleryPayload)
			if !ok {
				return nil, mismatch(TypeGallery, p)
			}
			return encodeJSON(nonEmpty(v.Images))
		},
	}
}

func partnersCodec() Codec {
	return Codec{
		Empty: func() Payload { return PartnersPayload{Logos: []string{}} },
		Normalize: func(raw any) Payload {
			return PartnersPayload{Logos: imageList(raw, "logos", "images", "items")}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(PartnersPayload)
			if !ok {
				return nil, mismatch(TypePartners, p)
			}
			return encodeJSON(nonEmpty(v.Logos))
		},
	}
}

func fileCodec() Codec {
	return Codec{
		Empty: func() Payload { return FilePayload{} },
		Normalize: func(raw any) Payload {
			if m, ok := asMap(raw); ok {
				url := strings.TrimSpace(field(m, "url", "src"))
				title := field(m, "title", "name")
				if title == "" {
					title = fileTitle(url)
				}
				return FilePayload{Title: title, URL: url}
			}
			url := strings.TrimSpace(scalarText(raw, "url"))
			return FilePayload{Title: fileTitle(url), URL: url}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(FilePayload)
			if !ok {
				return nil, mismatch(TypeFile, p)
			}
			return urlOrNil(v.URL), nil
		},
	}
}

func fileTitle(url string) string {
	if url == "" {
		return ""
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	base := path.Base(url)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func mediaCodec(clean func(string) string) Codec {
	return Codec{
		Empty: func() Payload { return MediaPayload{} },
		Normalize: func(raw any) Payload {
			return MediaPayload{URL: clean(scalarText(raw, "url", "src"))}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(MediaPayload)
			if !ok {
				return nil, fmt.Errorf("%w: media block cannot store %T", ErrPayloadMismatch, p)
			}
			return urlOrNil(clean(v.URL)), nil
		},
	}
}

func listCodec() Codec {
	return Codec{
		Empty: func() Payload { return ListPayload{Items: []string{}} },
		Normalize: func(raw any) Payload {
			value := unwrap(raw)
			switch v := value.(type) {
			case map[string]any:
				return ListPayload{
					Items:   ensureStrings(stringList(v["items"], "text", "content")),
					Ordered: asBool(v["ordered"]),
				}
			case []any:
				// the plain array encoding carries no ordered flag
				return ListPayload{Items: ensureStrings(stringList(v, "text", "content"))}
			case string:
				return ListPayload{Items: nonEmpty(strings.Split(v, "\n"))}
			}
			return ListPayload{Items: []string{}}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(ListPayload)
			if !ok {
				return nil, mismatch(TypeList, p)
			}
			return encodeJSON(ListPayload{Items: ensureStrings(v.Items), Ordered: v.Ordered})
		},
	}
}

func tableRows(raw any) [][]string {
	items, ok := asSlice(raw)
	if !ok {
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		if _, isList := item.([]any); isList {
			rows = append(rows, stringList(item))
			continue
		}
		if s, ok := asString(item); ok {
			rows = append(rows, []string{s})
		}
	}
	return rows
}

// NormalizeTable fits every row to the header width. Without headers the
// widest row decides the width and blank headers are synthesized.
func NormalizeTable(t TablePayload) TablePayload {
	headers := ensureStrings(append([]string(nil), t.Headers...))
	if len(headers) == 0 {
		width := 0
		for _, row := range t.Rows {
			width = max(width, len(row))
		}
		headers = make([]string, width)
	}
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = fitWidth(row, len(headers))
	}
	return TablePayload{Headers: headers, Rows: rows}
}

func tableCodec() Codec {
	return Codec{
		Empty: func() Payload { return TablePayload{Headers: []string{}, Rows: [][]string{}} },
		Normalize: func(raw any) Payload {
			value := unwrap(raw)
			switch v := value.(type) {
			case map[string]any:
				return NormalizeTable(TablePayload{
					Headers: stringList(v["headers"], "label", "title"),
					Rows:    tableRows(v["rows"]),
				})
			case []any:
				rows := tableRows(v)
				if len(rows) == 0 {
					return TablePayload{Headers: []string{}, Rows: [][]string{}}
				}
				return NormalizeTable(TablePayload{Headers: rows[0], Rows: rows[1:]})
			}
			return TablePayload{Headers: []string{}, Rows: [][]string{}}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(TablePayload)
			if !ok {
				return nil, mismatch(TypeTable, p)
			}
			return encodeJSON(NormalizeTable(v))
		},
	}
}

func objectList(raw any, names ...string) []map[string]any {
	value := unwrap(raw)
	if m, ok := value.(map[string]any); ok {
		value = nil
		for _, name := range names {
			if nested, ok := m[name]; ok {
				value = unwrap(nested)
				break
			}
		}
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func accordionCodec() Codec {
	return Codec{
		Empty: func() Payload { return AccordionPayload{Items: []AccordionItem{}} },
		Normalize: func(raw any) Payload {
			items := []AccordionItem{}
			for _, m := range objectList(raw, "items") {
				items = append(items, AccordionItem{
					Title:   field(m, "title", "label"),
					Content: field(m, "content", "text"),
				})
			}
			return AccordionPayload{Items: items}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(AccordionPayload)
			if !ok {
				return nil, mismatch(TypeAccordion, p)
			}
			if v.Items == nil {
				v.Items = []AccordionItem{}
			}
			return encodeJSON(v.Items)
		},
	}
}

func tabsCodec() Codec {
	return Codec{
		Empty: func() Payload { return TabsPayload{Tabs: []TabEntry{}} },
		Normalize: func(raw any) Payload {
			tabs := []TabEntry{}
			for _, m := range objectList(raw, "tabs", "items") {
				tabs = append(tabs, TabEntry{
					Label:   field(m, "label", "title"),
					Content: field(m, "content", "text"),
				})
			}
			return TabsPayload{Tabs: tabs}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(TabsPayload)
			if !ok {
				return nil, mismatch(TypeTabs, p)
			}
			if v.Tabs == nil {
				v.Tabs = []TabEntry{}
			}
			return encodeJSON(v.Tabs)
		},
	}
}

func entityIDs(raw any) []EntityID {
	items, ok := asSlice(raw)
	if !ok {
		return nil
	}
	ids := make([]EntityID, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			item = m["id"]
		}
		if s, ok := asString(item); ok {
			ids = append(ids, EntityID(strings.TrimSpace(s)))
		}
	}
	return ids
}

// CleanSelection drops blank and repeated ids and keeps display items only for
// selected ids, in selection order.
func CleanSelection(p RelatedEntitiesPayload) RelatedEntitiesPayload {
	seen := make(map[EntityID]struct{}, len(p.SelectedIDs))
	ids := make([]EntityID, 0, len(p.SelectedIDs))
	for _, id := range p.SelectedIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	items := make([]RelatedItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := p.Item(id); ok {
			items = append(items, item)
		}
	}
	p.SelectedIDs = ids
	p.SelectedItems = items
	return p
}

func relatedCodec() Codec {
	empty := func() RelatedEntitiesPayload {
		return RelatedEntitiesPayload{SelectedIDs: []EntityID{}, SelectedItems: []RelatedItem{}}
	}
	return Codec{
		Empty: func() Payload { return empty() },
		Normalize: func(raw any) Payload {
			out := empty()
			value := unwrap(raw)
			switch v := value.(type) {
			case map[string]any:
				out.ResourceSlug = field(v, "resourceSlug", "resource")
				out.ResourceLabel = field(v, "resourceLabel")
				out.SelectedIDs = entityIDs(v["selectedIds"])
				for _, m := range objectList(v["selectedItems"]) {
					id, _ := asString(m["id"])
					out.SelectedItems = append(out.SelectedItems, RelatedItem{
						ID:    EntityID(strings.TrimSpace(id)),
						Label: field(m, "label"),
						Image: field(m, "image"),
					})
				}
			case []any:
				out.SelectedIDs = entityIDs(v)
			case string, float64:
				if ids := entityIDs([]any{v}); len(ids) > 0 && ids[0] != "" {
					out.SelectedIDs = ids
				}
			}
			return CleanSelection(out)
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(RelatedEntitiesPayload)
			if !ok {
				return nil, mismatch(TypeRelatedEntities, p)
			}
			return encodeJSON(CleanSelection(v))
		},
	}
}

func jsonCodec() Codec {
	return Codec{
		Empty: func() Payload { return JSONPayload{} },
		Normalize: func(raw any) Payload {
			switch v := canonical(raw).(type) {
			case string:
				return JSONPayload{Value: v}
			case nil:
				return JSONPayload{}
			default:
				encoded, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return JSONPayload{}
				}
				return JSONPayload{Value: string(encoded)}
			}
		},
		Denormalize: func(p Payload) (any, error) {
			v, ok := p.(JSONPayload)
			if !ok {
				return nil, mismatch(TypeJSON, p)
			}
			if strings.TrimSpace(v.Value) == "" {
				return "", nil
			}
			if !json.Valid([]byte(v.Value)) {
				return nil, ErrInvalidJSON
			}
			return v.Value, nil
		},
	}
}

func separatorCodec() Codec {
	return Codec{
		Empty:     func() Payload { return SeparatorPayload{} },
		Normalize: func(any) Payload { return SeparatorPayload{} },
		Denormalize: func(p Payload) (any, error) {
			if _, ok := p.(SeparatorPayload); !ok {
				return nil, mismatch(TypeSeparator, p)
			}
			return nil, nil
		},
	}
}
