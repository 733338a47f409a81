package blocks

import (
	"sort"
	"strings"

	"github.com/goliatone/go-cms-console/internal/identity"
	"github.com/goliatone/go-cms-console/internal/keys"
)

// ContentType tags the shape of a block payload.
type ContentType string

const (
	TypeHeading         ContentType = "heading"
	TypeText            ContentType = "text"
	TypeQuote           ContentType = "quote"
	TypeNumber          ContentType = "number"
	TypeURL             ContentType = "url"
	TypeDate            ContentType = "date"
	TypeDateTime        ContentType = "datetime"
	TypeBoolean         ContentType = "boolean"
	TypeContact         ContentType = "contact"
	TypeMultiselect     ContentType = "multiselect"
	TypeImage           ContentType = "image"
	TypeGallery         ContentType = "gallery"
	TypeCarousel        ContentType = "carousel"
	TypePartners        ContentType = "partners"
	TypeFile            ContentType = "file"
	TypeVideo           ContentType = "video"
	TypeAudio           ContentType = "audio"
	TypeList            ContentType = "list"
	TypeTable           ContentType = "table"
	TypeAccordion       ContentType = "accordion"
	TypeTabs            ContentType = "tabs"
	TypeRelatedEntities ContentType = "relatedEntities"
	TypeJSON            ContentType = "json"
	TypeSeparator       ContentType = "separator"
)

// AllTypes lists every supported content type in registry order.
var AllTypes = []ContentType{
	TypeHeading, TypeText, TypeQuote, TypeNumber, TypeURL, TypeDate, TypeDateTime,
	TypeBoolean, TypeContact, TypeMultiselect, TypeImage, TypeGallery, TypeCarousel,
	TypePartners, TypeFile, TypeVideo, TypeAudio, TypeList, TypeTable, TypeAccordion,
	TypeTabs, TypeRelatedEntities, TypeJSON, TypeSeparator,
}

// ParseContentType resolves a raw type tag. Unknown tags report false.
func ParseContentType(raw string) (ContentType, bool) {
	candidate := ContentType(strings.TrimSpace(raw))
	for _, t := range AllTypes {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

func (t ContentType) String() string { return string(t) }

// FieldDefinition is one admin-authored element of a resource schema.
//
// Key is the storage key pinned when the definition was first saved. Once set,
// relabeling the field no longer changes where its value is stored.
type FieldDefinition struct {
	Type     ContentType `json:"type"`
	Order    int         `json:"order"`
	Label    string      `json:"label"`
	Required bool        `json:"required,omitempty"`
	Key      string      `json:"key,omitempty"`
}

// KeySource adapts the definition for key resolution.
func (d FieldDefinition) KeySource() keys.Source {
	return keys.Source{Type: string(d.Type), Order: d.Order, Label: d.Label, Key: d.Key}
}

// LegacyKey returns the "{type}-{order}" key used by records written before labels were slugged.
func (d FieldDefinition) LegacyKey() string {
	return keys.Legacy(string(d.Type), d.Order)
}

// ResolveKeys returns the unique storage key of every definition, aligned with defs.
func ResolveKeys(defs []FieldDefinition) []string {
	sources := make([]keys.Source, len(defs))
	for i, def := range defs {
		sources[i] = def.KeySource()
	}
	return keys.ResolveUnique(sources)
}

// BoundField pairs a definition with its resolved key and synthetic block id.
type BoundField struct {
	Definition FieldDefinition
	Key        string
	BlockID    string
}

// BindFields resolves keys over defs in their given order and returns the
// fields sorted by definition order. The block ids depend only on key, type
// and order, so repeated calls yield the same ids.
func BindFields(defs []FieldDefinition) []BoundField {
	resolved := ResolveKeys(defs)
	fields := make([]BoundField, len(defs))
	for i, def := range defs {
		fields[i] = BoundField{
			Definition: def,
			Key:        resolved[i],
			BlockID:    identity.FieldBlockID(resolved[i], string(def.Type), def.Order),
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Definition.Order < fields[j].Definition.Order
	})
	return fields
}

// Block is the editor-side unit: one schema-bound field or one free-form block.
type Block struct {
	ID    string      `json:"id"`
	Type  ContentType `json:"type"`
	Order int         `json:"order"`
	Label string      `json:"label"`
	Data  Payload     `json:"data"`
}

// WithData returns a copy of the block carrying payload.
func (b Block) WithData(payload Payload) Block {
	b.Data = payload
	return b
}

// Reindex assigns dense zero-based orders following slice position.
// The input is left untouched.
func Reindex(list []Block) []Block {
	out := make([]Block, len(list))
	for i, block := range list {
		block.Order = i
		out[i] = block
	}
	return out
}

// FindBlock returns the index of the block with id, or -1.
func FindBlock(list []Block, id string) int {
	for i, block := range list {
		if block.ID == id {
			return i
		}
	}
	return -1
}
