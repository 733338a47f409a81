package blocks_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-cms-console/internal/blocks"
)

func payloadSamples() map[blocks.ContentType]blocks.Payload {
	return map[blocks.ContentType]blocks.Payload{
		blocks.TypeHeading:     blocks.HeadingPayload{Text: "Hello"},
		blocks.TypeText:        blocks.RichTextPayload{Content: "<p>Body</p>"},
		blocks.TypeQuote:       blocks.RichTextPayload{Content: "Quoted"},
		blocks.TypeNumber:      blocks.NumberPayload{Value: "0"},
		blocks.TypeURL:         blocks.ValuePayload{Value: "https://example.test"},
		blocks.TypeDate:        blocks.ValuePayload{Value: "2024-05-01"},
		blocks.TypeDateTime:    blocks.ValuePayload{Value: "2024-05-01T10:30"},
		blocks.TypeBoolean:     blocks.BooleanPayload{Value: false},
		blocks.TypeContact:     blocks.ContactPayload{Value: "+1 555", Icon: "phone", IconType: blocks.IconLibrary},
		blocks.TypeMultiselect: blocks.MultiselectPayload{Values: []string{"a", "b"}, LinkEnabled: true, Links: []string{"/a"}},
		blocks.TypeImage:       blocks.ImagePayload{URL: "/uploads/a.png"},
		blocks.TypeGallery:     blocks.GalleryPayload{Images: []string{"/uploads/a.png", "/uploads/b.png"}},
		blocks.TypeCarousel:    blocks.GalleryPayload{Images: []string{"/uploads/c.jpg"}},
		blocks.TypePartners:    blocks.PartnersPayload{Logos: []string{"/uploads/logo.svg"}},
		blocks.TypeFile:        blocks.FilePayload{Title: "Price list", URL: "/uploads/prices.pdf"},
		blocks.TypeVideo:       blocks.MediaPayload{URL: "https://vkvideo.ru/x"},
		blocks.TypeAudio:       blocks.MediaPayload{URL: "/uploads/track.mp3"},
		blocks.TypeList:        blocks.ListPayload{Items: []string{"one", "two"}, Ordered: true},
		blocks.TypeTable:       blocks.TablePayload{Headers: []string{"A", "B", "C"}, Rows: [][]string{{"1", "2", "3"}}},
		blocks.TypeAccordion:   blocks.AccordionPayload{Items: []blocks.AccordionItem{{Title: "Q", Content: "A"}}},
		blocks.TypeTabs:        blocks.TabsPayload{Tabs: []blocks.TabEntry{{Label: "L", Content: "C"}}},
		blocks.TypeRelatedEntities: blocks.RelatedEntitiesPayload{
			ResourceSlug:  "news",
			ResourceLabel: "News",
			SelectedIDs:   []blocks.EntityID{"12", "abc"},
			SelectedItems: []blocks.RelatedItem{{ID: "12", Label: "Twelve"}},
		},
		blocks.TypeJSON:      blocks.JSONPayload{Value: `{"a":1}`},
		blocks.TypeSeparator: blocks.SeparatorPayload{},
	}
}

func TestRoundTripIsIdempotentForEveryType(t *testing.T) {
	registry := blocks.NewRegistry()
	samples := payloadSamples()
	for _, typ := range blocks.AllTypes {
		sample, ok := samples[typ]
		if !ok {
			t.Fatalf("expected sample payload for %s", typ)
		}
		first, err := registry.Denormalize(typ, sample)
		if err != nil {
			t.Fatalf("%s: denormalize: %v", typ, err)
		}
		normalized, err := registry.Normalize(typ, first)
		if err != nil {
			t.Fatalf("%s: normalize: %v", typ, err)
		}
		second, err := registry.Denormalize(typ, normalized)
		if err != nil {
			t.Fatalf("%s: second denormalize: %v", typ, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s: expected %#v got %#v", typ, first, second)
		}
	}
}

func TestRoundTripFromHistoricalEncodings(t *testing.T) {
	registry := blocks.NewRegistry()
	cases := []struct {
		typ blocks.ContentType
		raw any
	}{
		{blocks.TypeHeading, map[string]any{"text": "Object heading"}},
		{blocks.TypeHeading, `{"text":"Encoded heading"}`},
		{blocks.TypeNumber, "12.50"},
		{blocks.TypeNumber, 7},
		{blocks.TypeBoolean, "true"},
		{blocks.TypeContact, "plain value"},
		{blocks.TypeMultiselect, []any{"x", "y"}},
		{blocks.TypeGallery, `["/a.png","","/b.png"]`},
		{blocks.TypeGallery, []string{"/c.png"}},
		{blocks.TypeCarousel, map[string]any{"images": []any{"/d.png"}}},
		{blocks.TypeFile, "/docs/report.pdf"},
		{blocks.TypeList, `["x","y"]`},
		{blocks.TypeList, map[string]any{"items": []any{"a"}, "ordered": true}},
		{blocks.TypeTable, []any{[]any{"A", "B"}, []any{"1"}}},
		{blocks.TypeAccordion, `[{"title":"t","content":"c"}]`},
		{blocks.TypeTabs, map[string]any{"tabs": []any{map[string]any{"title": "T", "content": "C"}}}},
		{blocks.TypeRelatedEntities, []any{1.0, "abc", 1.0}},
		{blocks.TypeJSON, map[string]any{"nested": true}},
	}
	for _, tc := range cases {
		payload, err := registry.Normalize(tc.typ, tc.raw)
		if err != nil {
			t.Fatalf("%s: normalize: %v", tc.typ, err)
		}
		first, err := registry.Denormalize(tc.typ, payload)
		if err != nil {
			t.Fatalf("%s: denormalize: %v", tc.typ, err)
		}
		again, _ := registry.Normalize(tc.typ, first)
		second, err := registry.Denormalize(tc.typ, again)
		if err != nil {
			t.Fatalf("%s: second denormalize: %v", tc.typ, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s from %#v: expected %#v got %#v", tc.typ, tc.raw, first, second)
		}
	}
}

func TestDenormalizeOnlyProducesScalars(t *testing.T) {
	registry := blocks.NewRegistry()
	for typ, sample := range payloadSamples() {
		value, err := registry.Denormalize(typ, sample)
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		switch value.(type) {
		case nil, string, float64, bool:
		default:
			t.Fatalf("%s: expected scalar storage value got %T", typ, value)
		}
	}
}

func TestBooleanFalseStaysFalse(t *testing.T) {
	registry := blocks.NewRegistry()
	value, _ := registry.Denormalize(blocks.TypeBoolean, blocks.BooleanPayload{Value: false})
	if value != false {
		t.Fatalf("expected false got %#v", value)
	}
	payload, _ := registry.Normalize(blocks.TypeBoolean, value)
	if payload.(blocks.BooleanPayload).Value {
		t.Fatalf("expected false after normalize")
	}
}

func TestNumberStorage(t *testing.T) {
	registry := blocks.NewRegistry()
	cases := []struct {
		input string
		want  any
	}{
		{"12.50", 12.5},
		{"", nil},
		{"  ", nil},
		{"abc", "abc"},
		{"0", 0.0},
		{"NaN", "NaN"},
	}
	for _, tc := range cases {
		got, err := registry.Denormalize(blocks.TypeNumber, blocks.NumberPayload{Value: tc.input})
		if err != nil {
			t.Fatalf("%q: %v", tc.input, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q: expected %#v got %#v", tc.input, tc.want, got)
		}
	}
}

func TestVideoExtractsIframeSource(t *testing.T) {
	registry := blocks.NewRegistry()
	payload, _ := registry.Normalize(blocks.TypeVideo, `<iframe src="https://vkvideo.ru/x"></iframe>`)
	if got := payload.(blocks.MediaPayload).URL; got != "https://vkvideo.ru/x" {
		t.Fatalf("expected iframe src got %q", got)
	}

	payload, _ = registry.Normalize(blocks.TypeVideo, "https://vkvideo.ru/y")
	if got := payload.(blocks.MediaPayload).URL; got != "https://vkvideo.ru/y" {
		t.Fatalf("expected bare url to pass through got %q", got)
	}

	value, _ := registry.Denormalize(blocks.TypeVideo, blocks.MediaPayload{URL: `<iframe width="560" src="https://vkvideo.ru/z"></iframe>`})
	if value != "https://vkvideo.ru/z" {
		t.Fatalf("expected embed to be reduced on store got %#v", value)
	}
}

func TestTableRowsFitHeaders(t *testing.T) {
	registry := blocks.NewRegistry()
	payload, _ := registry.Normalize(blocks.TypeTable, `{"headers":["A","B"],"rows":[["1"],["1","2","3"]]}`)
	table := payload.(blocks.TablePayload)
	want := [][]string{{"1", ""}, {"1", "2"}}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Fatalf("expected %v got %v", want, table.Rows)
	}

	payload, _ = registry.Normalize(blocks.TypeTable, map[string]any{"rows": []any{[]any{"x"}, []any{"y", "z"}}})
	table = payload.(blocks.TablePayload)
	if len(table.Headers) != 2 || len(table.Rows[0]) != 2 {
		t.Fatalf("expected headers synthesized to widest row got %v / %v", table.Headers, table.Rows)
	}
}

func TestListPlainArrayResetsOrdered(t *testing.T) {
	registry := blocks.NewRegistry()
	payload, _ := registry.Normalize(blocks.TypeList, `["a","b"]`)
	list := payload.(blocks.ListPayload)
	if list.Ordered {
		t.Fatalf("expected ordered flag to reset for the plain array encoding")
	}
	if !reflect.DeepEqual(list.Items, []string{"a", "b"}) {
		t.Fatalf("expected items preserved got %v", list.Items)
	}
}

func TestListWritesObjectForm(t *testing.T) {
	registry := blocks.NewRegistry()
	value, err := registry.Denormalize(blocks.TypeList, blocks.ListPayload{Items: []string{"a"}, Ordered: true})
	if err != nil {
		t.Fatalf("denormalize: %v", err)
	}
	if value != `{"items":["a"],"ordered":true}` {
		t.Fatalf("expected object form got %v", value)
	}
	if !blocks.IsEncodedJSON(`["a"]`) || blocks.IsEncodedJSON("plain") {
		t.Fatalf("unexpected embedded json detection")
	}
}

func TestMultiselectLinksOnlyStoredWhenEnabled(t *testing.T) {
	registry := blocks.NewRegistry()
	value, _ := registry.Denormalize(blocks.TypeMultiselect, blocks.MultiselectPayload{
		Values: []string{"a"},
		Links:  []string{"/a"},
	})
	if value != `{"values":["a"],"linkEnabled":false,"links":[]}` {
		t.Fatalf("unexpected multiselect storage %#v", value)
	}
}

func TestRelatedIdsKeepNumericEncoding(t *testing.T) {
	registry := blocks.NewRegistry()
	value, _ := registry.Denormalize(blocks.TypeRelatedEntities, blocks.RelatedEntitiesPayload{
		ResourceSlug: "news",
		SelectedIDs:  []blocks.EntityID{"7", "", "7", "x-1"},
	})
	want := `{"resourceSlug":"news","resourceLabel":"","selectedIds":[7,"x-1"],"selectedItems":[]}`
	if value != want {
		t.Fatalf("expected %s got %v", want, value)
	}
}

func TestMalformedInputFallsBackToEmpty(t *testing.T) {
	registry := blocks.NewRegistry()
	cases := []struct {
		typ blocks.ContentType
		raw any
	}{
		{blocks.TypeTable, "{not json"},
		{blocks.TypeGallery, 42},
		{blocks.TypeAccordion, "plain"},
		{blocks.TypeContact, []any{1, 2}},
		{blocks.TypeRelatedEntities, map[string]any{"selectedIds": "oops"}},
		{blocks.TypeNumber, true},
		{blocks.TypeImage, func() {}},
	}
	for _, tc := range cases {
		payload, err := registry.Normalize(tc.typ, tc.raw)
		if err != nil {
			t.Fatalf("%s: expected no error got %v", tc.typ, err)
		}
		empty, _ := registry.Empty(tc.typ)
		if !reflect.DeepEqual(payload, empty) {
			t.Fatalf("%s: expected empty payload got %#v", tc.typ, payload)
		}
	}
}

func TestJSONBlockRejectsInvalidText(t *testing.T) {
	registry := blocks.NewRegistry()
	_, err := registry.Denormalize(blocks.TypeJSON, blocks.JSONPayload{Value: "{broken"})
	if !errors.Is(err, blocks.ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON got %v", err)
	}
}

func TestUnknownTypeAndMismatch(t *testing.T) {
	registry := blocks.NewRegistry()
	if _, err := registry.Normalize("widget", "x"); !errors.Is(err, blocks.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType got %v", err)
	}
	if _, err := registry.Denormalize(blocks.TypeHeading, blocks.ImagePayload{}); !errors.Is(err, blocks.ErrPayloadMismatch) {
		t.Fatalf("expected ErrPayloadMismatch got %v", err)
	}
}

func TestStripTags(t *testing.T) {
	cases := map[string]string{
		"<p>  </p>":                   "",
		"<p>&nbsp;</p>":               "",
		"<h1>Hi <b>there</b></h1>":    "Hi there",
		"plain":                       "plain",
		"<script>alert(1)</script>ok": "ok",
		"<p><img src=\"/a.png\"></p>": "",
	}
	for input, want := range cases {
		if got := blocks.StripTags(input); got != want {
			t.Fatalf("%q: expected %q got %q", input, want, got)
		}
	}
}

func TestReindexKeepsInputUntouched(t *testing.T) {
	list := []blocks.Block{{ID: "a", Order: 5}, {ID: "b", Order: 9}}
	out := blocks.Reindex(list)
	if out[0].Order != 0 || out[1].Order != 1 {
		t.Fatalf("expected dense orders got %d,%d", out[0].Order, out[1].Order)
	}
	if list[0].Order != 5 {
		t.Fatalf("expected input untouched")
	}
	if blocks.FindBlock(out, "b") != 1 || blocks.FindBlock(out, "zz") != -1 {
		t.Fatalf("unexpected FindBlock result")
	}
}
