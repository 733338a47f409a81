package records

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewRecordRepository creates the go-repository-bun repository for records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(rec *Record) uuid.UUID {
			return rec.ID
		},
		SetID: func(rec *Record, id uuid.UUID) {
			rec.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(rec *Record) string {
			return rec.ID.String()
		},
	})
}

// NewSchemaRepository creates the go-repository-bun repository for schemas.
func NewSchemaRepository(db *bun.DB) repository.Repository[*ResourceSchema] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ResourceSchema]{
		NewRecord: func() *ResourceSchema { return &ResourceSchema{} },
		GetID: func(schema *ResourceSchema) uuid.UUID {
			return schema.ID
		},
		SetID: func(schema *ResourceSchema, id uuid.UUID) {
			schema.ID = id
		},
		GetIdentifier: func() string {
			return "resource"
		},
		GetIdentifierValue: func(schema *ResourceSchema) string {
			return schema.Resource
		},
	})
}
