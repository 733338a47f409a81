package records

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRecordRepository implements RecordRepository with optional caching.
type BunRecordRepository struct {
	repo repository.Repository[*Record]
}

// NewBunRecordRepository creates a record repository without caching.
func NewBunRecordRepository(db *bun.DB) *BunRecordRepository {
	return NewBunRecordRepositoryWithCache(db, nil, nil)
}

// NewBunRecordRepositoryWithCache creates a record repository, wrapping it in
// go-repository-cache when both cache collaborators are supplied.
func NewBunRecordRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRecordRepository {
	base := NewRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRecordRepository{repo: base}
}

func (r *BunRecordRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	rec.Resource = normalizeResource(rec.Resource)
	created, err := r.repo.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRecordRepository) Update(ctx context.Context, rec *Record) (*Record, error) {
	updated, err := r.repo.Update(ctx, rec,
		repository.UpdateByID(rec.ID.String()),
		repository.UpdateColumns(
			"field_values",
			"is_published",
			"additional_blocks",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "record", rec.ID.String())
	}
	return updated, nil
}

func (r *BunRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "record", id.String())
	}
	return rec, nil
}

func (r *BunRecordRepository) ListByResource(ctx context.Context, resource string) ([]*Record, error) {
	resource = normalizeResource(resource)
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.resource = ?", resource).OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
	}))
	return records, err
}

func (r *BunRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Record{ID: id})
}

// BunSchemaRepository implements SchemaRepository with optional caching.
type BunSchemaRepository struct {
	repo repository.Repository[*ResourceSchema]
}

// NewBunSchemaRepository creates a schema repository without caching.
func NewBunSchemaRepository(db *bun.DB) *BunSchemaRepository {
	return NewBunSchemaRepositoryWithCache(db, nil, nil)
}

// NewBunSchemaRepositoryWithCache creates a schema repository with caching support.
func NewBunSchemaRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunSchemaRepository {
	base := NewSchemaRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunSchemaRepository{repo: base}
}

func (r *BunSchemaRepository) Create(ctx context.Context, schema *ResourceSchema) (*ResourceSchema, error) {
	schema.Resource = normalizeResource(schema.Resource)
	created, err := r.repo.Create(ctx, schema)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunSchemaRepository) Update(ctx context.Context, schema *ResourceSchema) (*ResourceSchema, error) {
	schema.Resource = normalizeResource(schema.Resource)
	updated, err := r.repo.Update(ctx, schema,
		repository.UpdateByID(schema.ID.String()),
		repository.UpdateColumns(
			"resource",
			"label",
			"definitions",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "schema", schema.ID.String())
	}
	return updated, nil
}

func (r *BunSchemaRepository) GetByResource(ctx context.Context, resource string) (*ResourceSchema, error) {
	resource = normalizeResource(resource)
	schema, err := r.repo.GetByIdentifier(ctx, resource)
	if err != nil {
		return nil, mapRepositoryError(err, "schema", resource)
	}
	return schema, nil
}

func (r *BunSchemaRepository) List(ctx context.Context) ([]*ResourceSchema, error) {
	schemas, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.resource ASC")
	}))
	return schemas, err
}

func (r *BunSchemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &ResourceSchema{ID: id})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
