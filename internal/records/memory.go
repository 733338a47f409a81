package records

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryRecordRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Record
}

// NewMemoryRecordRepository constructs an in-memory record repository.
func NewMemoryRecordRepository() RecordRepository {
	return &memoryRecordRepository{byID: make(map[uuid.UUID]*Record)}
}

func (m *memoryRecordRepository) Create(_ context.Context, rec *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneRecord(rec)
	m.byID[cloned.ID] = cloned
	return cloneRecord(cloned), nil
}

func (m *memoryRecordRepository) Update(_ context.Context, rec *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[rec.ID]; !ok {
		return nil, &NotFoundError{Resource: "record", Key: rec.ID.String()}
	}
	cloned := cloneRecord(rec)
	m.byID[cloned.ID] = cloned
	return cloneRecord(cloned), nil
}

func (m *memoryRecordRepository) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "record", Key: id.String()}
	}
	return cloneRecord(rec), nil
}

func (m *memoryRecordRepository) ListByResource(_ context.Context, resource string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resource = normalizeResource(resource)
	out := make([]*Record, 0)
	for _, rec := range m.byID {
		if rec.Resource == resource {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memoryRecordRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "record", Key: id.String()}
	}
	delete(m.byID, id)
	return nil
}

type memorySchemaRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*ResourceSchema
	byResource map[string]uuid.UUID
}

// NewMemorySchemaRepository constructs an in-memory schema repository.
func NewMemorySchemaRepository() SchemaRepository {
	return &memorySchemaRepository{
		byID:       make(map[uuid.UUID]*ResourceSchema),
		byResource: make(map[string]uuid.UUID),
	}
}

func (m *memorySchemaRepository) Create(_ context.Context, schema *ResourceSchema) (*ResourceSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneSchema(schema)
	cloned.Resource = normalizeResource(cloned.Resource)
	m.byID[cloned.ID] = cloned
	m.byResource[cloned.Resource] = cloned.ID
	return cloneSchema(cloned), nil
}

func (m *memorySchemaRepository) Update(_ context.Context, schema *ResourceSchema) (*ResourceSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[schema.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "schema", Key: schema.ID.String()}
	}
	cloned := cloneSchema(schema)
	cloned.Resource = normalizeResource(cloned.Resource)
	if existing.Resource != cloned.Resource {
		delete(m.byResource, existing.Resource)
	}
	m.byID[cloned.ID] = cloned
	m.byResource[cloned.Resource] = cloned.ID
	return cloneSchema(cloned), nil
}

func (m *memorySchemaRepository) GetByResource(_ context.Context, resource string) (*ResourceSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resource = normalizeResource(resource)
	id, ok := m.byResource[resource]
	if !ok {
		return nil, &NotFoundError{Resource: "schema", Key: resource}
	}
	return cloneSchema(m.byID[id]), nil
}

func (m *memorySchemaRepository) List(_ context.Context) ([]*ResourceSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ResourceSchema, 0, len(m.byID))
	for _, schema := range m.byID {
		out = append(out, cloneSchema(schema))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out, nil
}

func (m *memorySchemaRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	schema, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "schema", Key: id.String()}
	}
	delete(m.byID, id)
	delete(m.byResource, schema.Resource)
	return nil
}

func normalizeResource(resource string) string {
	return strings.ToLower(strings.TrimSpace(resource))
}
