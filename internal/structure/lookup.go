package structure

import (
	"context"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/records"
)

type recordsLookup struct {
	svc records.Service
}

// RecordsLookup adapts a record service to ForeignLookup.
func RecordsLookup(svc records.Service) ForeignLookup {
	return recordsLookup{svc: svc}
}

func (l recordsLookup) GetSchema(ctx context.Context, slug string) ([]blocks.FieldDefinition, error) {
	schema, err := l.svc.GetSchema(ctx, slug)
	if err != nil {
		return nil, err
	}
	return schema.Definitions, nil
}

func (l recordsLookup) ListRecords(ctx context.Context, slug string) ([]ForeignRecord, error) {
	list, err := l.svc.ListRecords(ctx, slug)
	if err != nil {
		return nil, err
	}
	out := make([]ForeignRecord, len(list))
	for i, rec := range list {
		out[i] = ForeignRecord{ID: rec.ID.String(), Values: rec.Values}
	}
	return out, nil
}
