package records

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-console/internal/blocks"
)

// StoredBlock is the persisted form of a free-form block. Value holds the
// denormalized scalar.
type StoredBlock struct {
	ID    string             `json:"id"`
	Type  blocks.ContentType `json:"type"`
	Order int                `json:"order"`
	Label string             `json:"label"`
	Value any                `json:"value"`
}

// Record is one persisted entity of a resource. Values are keyed by the
// derived (or legacy) key of each definition and are always scalar or null.
type Record struct {
	bun.BaseModel `bun:"table:console_records,alias:r"`

	ID               uuid.UUID              `bun:",pk,type:uuid" json:"id"`
	Resource         string                 `bun:"resource,notnull" json:"resource"`
	Values           map[string]any         `bun:"field_values,type:jsonb,notnull" json:"values"`
	IsPublished      bool                   `bun:"is_published,notnull,default:false" json:"isPublished"`
	AdditionalBlocks map[string]StoredBlock `bun:"additional_blocks,type:jsonb" json:"additionalBlocks,omitempty"`
	CreatedAt        time.Time              `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time              `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// ResourceSchema is the ordered field structure of a resource.
type ResourceSchema struct {
	bun.BaseModel `bun:"table:console_resource_schemas,alias:rs"`

	ID          uuid.UUID                `bun:",pk,type:uuid" json:"id"`
	Resource    string                   `bun:"resource,notnull,unique" json:"resource"`
	Label       string                   `bun:"label" json:"label,omitempty"`
	Definitions []blocks.FieldDefinition `bun:"definitions,type:jsonb,notnull" json:"definitions"`
	CreatedAt   time.Time                `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time                `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Keys returns the storage key of every definition, aligned with Definitions.
func (s *ResourceSchema) Keys() []string {
	if s == nil {
		return nil
	}
	return blocks.ResolveKeys(s.Definitions)
}

func cloneRecord(rec *Record) *Record {
	if rec == nil {
		return nil
	}
	cloned := *rec
	cloned.Values = maps.Clone(rec.Values)
	cloned.AdditionalBlocks = maps.Clone(rec.AdditionalBlocks)
	if cloned.Values == nil {
		cloned.Values = map[string]any{}
	}
	return &cloned
}

func cloneSchema(schema *ResourceSchema) *ResourceSchema {
	if schema == nil {
		return nil
	}
	cloned := *schema
	cloned.Definitions = slices.Clone(schema.Definitions)
	return &cloned
}
