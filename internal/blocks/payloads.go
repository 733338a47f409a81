package blocks

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Payload is the closed set of type-specific block data shapes.
type Payload interface {
	isPayload()
}

// HeadingPayload backs heading blocks.
type HeadingPayload struct {
	Text string `json:"text"`
}

// RichTextPayload backs text and quote blocks. Content holds markup.
type RichTextPayload struct {
	Content string `json:"content"`
}

// NumberPayload keeps the editor input verbatim so partial entries survive edits.
type NumberPayload struct {
	Value string `json:"value"`
}

// ValuePayload backs url, date and datetime blocks.
type ValuePayload struct {
	Value string `json:"value"`
}

// BooleanPayload backs boolean blocks.
type BooleanPayload struct {
	Value bool `json:"value"`
}

// Icon sources for contact blocks.
const (
	IconLibrary = "library"
	IconUpload  = "upload"
)

// ContactPayload backs contact blocks.
type ContactPayload struct {
	Value    string `json:"value"`
	Icon     string `json:"icon"`
	IconType string `json:"iconType"`
}

// MultiselectPayload backs multiselect blocks. Links only matter when LinkEnabled.
type MultiselectPayload struct {
	Values      []string `json:"values"`
	LinkEnabled bool     `json:"linkEnabled"`
	Links       []string `json:"links"`
}

// ImagePayload backs image blocks. A not yet uploaded file lives in the asset tracker.
type ImagePayload struct {
	URL string `json:"url"`
}

// GalleryPayload backs gallery and carousel blocks.
type GalleryPayload struct {
	Images []string `json:"images"`
}

// PartnersPayload backs partners blocks.
type PartnersPayload struct {
	Logos []string `json:"logos"`
}

// FilePayload backs file blocks. Title is cosmetic and not persisted.
type FilePayload struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MediaPayload backs video and audio blocks.
type MediaPayload struct {
	URL string `json:"url"`
}

// ListPayload backs list blocks.
type ListPayload struct {
	Items   []string `json:"items"`
	Ordered bool     `json:"ordered"`
}

// TablePayload backs table blocks. Every row has len(Headers) cells.
type TablePayload struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// AccordionItem is one collapsible entry.
type AccordionItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AccordionPayload backs accordion blocks.
type AccordionPayload struct {
	Items []AccordionItem `json:"items"`
}

// TabEntry is one tab.
type TabEntry struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// TabsPayload backs tabs blocks.
type TabsPayload struct {
	Tabs []TabEntry `json:"tabs"`
}

// EntityID identifies a foreign record. Integer ids are encoded as JSON numbers
// so they survive a round trip through backends that use numeric keys.
type EntityID string

func (id EntityID) MarshalJSON() ([]byte, error) {
	raw := string(id)
	if isCanonicalInt(raw) {
		return []byte(raw), nil
	}
	return json.Marshal(raw)
}

func (id *EntityID) UnmarshalJSON(data []byte) error {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	text, _ := asString(decoded)
	*id = EntityID(strings.TrimSpace(text))
	return nil
}

// RelatedItem is the display data of one selected foreign record.
type RelatedItem struct {
	ID    EntityID `json:"id"`
	Label string   `json:"label"`
	Image string   `json:"image"`
}

// RelatedEntitiesPayload backs relatedEntities blocks.
type RelatedEntitiesPayload struct {
	ResourceSlug  string        `json:"resourceSlug"`
	ResourceLabel string        `json:"resourceLabel"`
	SelectedIDs   []EntityID    `json:"selectedIds"`
	SelectedItems []RelatedItem `json:"selectedItems"`
}

// Item returns the display data for id, if present.
func (p RelatedEntitiesPayload) Item(id EntityID) (RelatedItem, bool) {
	for _, item := range p.SelectedItems {
		if item.ID == id {
			return item, true
		}
	}
	return RelatedItem{}, false
}

// JSONPayload backs json blocks. Value is raw text validated on denormalization.
type JSONPayload struct {
	Value string `json:"value"`
}

// SeparatorPayload backs separator blocks and carries no data.
type SeparatorPayload struct{}

func (HeadingPayload) isPayload()         {}
func (RichTextPayload) isPayload()        {}
func (NumberPayload) isPayload()          {}
func (ValuePayload) isPayload()           {}
func (BooleanPayload) isPayload()         {}
func (ContactPayload) isPayload()         {}
func (MultiselectPayload) isPayload()     {}
func (ImagePayload) isPayload()           {}
func (GalleryPayload) isPayload()         {}
func (PartnersPayload) isPayload()        {}
func (FilePayload) isPayload()            {}
func (MediaPayload) isPayload()           {}
func (ListPayload) isPayload()            {}
func (TablePayload) isPayload()           {}
func (AccordionPayload) isPayload()       {}
func (TabsPayload) isPayload()            {}
func (RelatedEntitiesPayload) isPayload() {}
func (JSONPayload) isPayload()            {}
func (SeparatorPayload) isPayload()       {}

func isCanonicalInt(raw string) bool {
	if raw == "" || len(raw) > 18 {
		return false
	}
	if raw != "0" && (strings.HasPrefix(raw, "0") || strings.HasPrefix(raw, "-0")) {
		return false
	}
	_, err := strconv.ParseInt(raw, 10, 64)
	return err == nil
}
