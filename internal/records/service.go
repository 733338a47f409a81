package records

import (
	"context"
	"errors"
	"maps"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/identity"
	recordvalidation "github.com/goliatone/go-cms-console/internal/validation"
)

// Service is the storage and record API the editor persists through.
type Service interface {
	GetSchema(ctx context.Context, resource string) (*ResourceSchema, error)
	DefineSchema(ctx context.Context, input DefineSchemaInput) (*ResourceSchema, error)
	ListSchemas(ctx context.Context) ([]*ResourceSchema, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	PutRecord(ctx context.Context, input PutRecordInput) (*Record, error)
	ListRecords(ctx context.Context, resource string) ([]*Record, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
}

// DefineSchemaInput declares or replaces the structure of a resource.
type DefineSchemaInput struct {
	Resource    string
	Label       string
	Definitions []blocks.FieldDefinition
}

// Validate checks the input with ozzo-validation.
func (in DefineSchemaInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Resource, validation.Required),
		validation.Field(&in.Definitions, validation.Each(validation.By(validateDefinition))),
	)
}

func validateDefinition(value any) error {
	def, ok := value.(blocks.FieldDefinition)
	if !ok {
		return errors.New("must be a field definition")
	}
	if _, ok := blocks.ParseContentType(def.Type.String()); !ok {
		return ErrUnknownFieldType
	}
	if def.Order < 0 {
		return errors.New("order must not be negative")
	}
	return nil
}

// PutRecordInput creates or updates a record. A nil ID creates a new record.
// Values are merged over the stored values; a non-nil AdditionalBlocks
// replaces the stored free-form blocks.
type PutRecordInput struct {
	ID               uuid.UUID
	Resource         string
	Values           map[string]any
	IsPublished      *bool
	AdditionalBlocks map[string]StoredBlock
}

var (
	ErrRecordRepositoryRequired = errors.New("records: record repository required")
	ErrSchemaRepositoryRequired = errors.New("records: schema repository required")
	ErrResourceRequired         = errors.New("records: resource is required")
	ErrUnknownFieldType         = errors.New("records: unknown field type")
	ErrSchemaNotFound           = errors.New("records: schema not found")
	ErrRecordNotFound           = errors.New("records: record not found")
	ErrResourceMismatch         = errors.New("records: record belongs to another resource")
)

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithNow overrides the time source (primarily for tests).
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen IDGenerator) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.id = gen
		}
	}
}

type service struct {
	records RecordRepository
	schemas SchemaRepository
	id      IDGenerator
	now     func() time.Time
}

// NewService constructs a record service instance.
func NewService(records RecordRepository, schemas SchemaRepository, opts ...ServiceOption) Service {
	if records == nil {
		panic(ErrRecordRepositoryRequired)
	}
	if schemas == nil {
		panic(ErrSchemaRepositoryRequired)
	}

	s := &service{
		records: records,
		schemas: schemas,
		id:      uuid.New,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetSchema(ctx context.Context, resource string) (*ResourceSchema, error) {
	resource = normalizeResource(resource)
	if resource == "" {
		return nil, ErrResourceRequired
	}
	schema, err := s.schemas.GetByResource(ctx, resource)
	if err != nil {
		return nil, translateRepoError(err, ErrSchemaNotFound)
	}
	return cloneSchema(schema), nil
}

func (s *service) ListSchemas(ctx context.Context) ([]*ResourceSchema, error) {
	schemas, err := s.schemas.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*ResourceSchema, len(schemas))
	for i, schema := range schemas {
		out[i] = cloneSchema(schema)
	}
	return out, nil
}

// DefineSchema stores the definitions sorted by order with dense order
// values. Every definition leaves with its storage key pinned; definitions
// without a key inherit the key of the stored definition at the same
// position and type, so relabeling a saved field keeps its key.
func (s *service) DefineSchema(ctx context.Context, input DefineSchemaInput) (*ResourceSchema, error) {
	input.Resource = normalizeResource(input.Resource)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.schemas.GetByResource(ctx, input.Resource)
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		existing = nil
	}

	defs := normalizeDefinitions(input.Definitions)
	if existing != nil {
		inheritKeys(defs, existing.Definitions)
	}
	for i, key := range blocks.ResolveKeys(defs) {
		defs[i].Key = key
	}

	now := s.now().UTC()
	if existing == nil {
		created, err := s.schemas.Create(ctx, &ResourceSchema{
			ID:          identity.SchemaUUID(input.Resource),
			Resource:    input.Resource,
			Label:       strings.TrimSpace(input.Label),
			Definitions: defs,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return nil, err
		}
		return cloneSchema(created), nil
	}

	existing.Label = strings.TrimSpace(input.Label)
	existing.Definitions = defs
	existing.UpdatedAt = now
	updated, err := s.schemas.Update(ctx, existing)
	if err != nil {
		return nil, translateRepoError(err, ErrSchemaNotFound)
	}
	return cloneSchema(updated), nil
}

func (s *service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	if id == uuid.Nil {
		return nil, ErrRecordNotFound
	}
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrRecordNotFound)
	}
	return cloneRecord(rec), nil
}

// PutRecord merges the input over the stored record and persists it only
// when the merged values are a complete scalar record for the schema.
func (s *service) PutRecord(ctx context.Context, input PutRecordInput) (*Record, error) {
	resource := normalizeResource(input.Resource)
	if resource == "" {
		return nil, ErrResourceRequired
	}
	schema, err := s.schemas.GetByResource(ctx, resource)
	if err != nil {
		return nil, translateRepoError(err, ErrSchemaNotFound)
	}

	now := s.now().UTC()
	var rec *Record
	if input.ID != uuid.Nil {
		rec, err = s.records.GetByID(ctx, input.ID)
		if err != nil {
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
			rec = nil
		}
	}
	creating := rec == nil
	if creating {
		id := input.ID
		if id == uuid.Nil {
			id = s.id()
		}
		rec = &Record{ID: id, Resource: resource, Values: map[string]any{}, CreatedAt: now}
	} else if rec.Resource != resource {
		return nil, ErrResourceMismatch
	}

	if rec.Values == nil {
		rec.Values = map[string]any{}
	}
	maps.Copy(rec.Values, input.Values)
	if input.IsPublished != nil {
		rec.IsPublished = *input.IsPublished
	}
	if input.AdditionalBlocks != nil {
		rec.AdditionalBlocks = maps.Clone(input.AdditionalBlocks)
	}
	rec.UpdatedAt = now

	if err := recordvalidation.ValidateStorageRecord(schema.Keys(), rec.Values); err != nil {
		return nil, err
	}
	if err := validateStoredBlocks(rec.AdditionalBlocks); err != nil {
		return nil, err
	}

	var saved *Record
	if creating {
		saved, err = s.records.Create(ctx, rec)
	} else {
		saved, err = s.records.Update(ctx, rec)
	}
	if err != nil {
		return nil, translateRepoError(err, ErrRecordNotFound)
	}
	return cloneRecord(saved), nil
}

func (s *service) ListRecords(ctx context.Context, resource string) ([]*Record, error) {
	resource = normalizeResource(resource)
	if resource == "" {
		return nil, ErrResourceRequired
	}
	records, err := s.records.ListByResource(ctx, resource)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, len(records))
	for i, rec := range records {
		out[i] = cloneRecord(rec)
	}
	return out, nil
}

func (s *service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrRecordNotFound
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return translateRepoError(err, ErrRecordNotFound)
	}
	return nil
}

func normalizeDefinitions(in []blocks.FieldDefinition) []blocks.FieldDefinition {
	defs := make([]blocks.FieldDefinition, len(in))
	copy(defs, in)
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Order < defs[j].Order })
	for i := range defs {
		defs[i].Order = i
		defs[i].Label = strings.TrimSpace(defs[i].Label)
		defs[i].Key = strings.TrimSpace(defs[i].Key)
	}
	return defs
}

// inheritKeys gives definitions without a key the stored key pinned at the
// same (type, order) slot. Keys the input already carries are never handed to
// another definition.
func inheritKeys(defs, stored []blocks.FieldDefinition) {
	type slot struct {
		typ   blocks.ContentType
		order int
	}
	claimed := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.Key != "" {
			claimed[def.Key] = struct{}{}
		}
	}
	pinned := make(map[slot]string, len(stored))
	for _, def := range stored {
		if def.Key == "" {
			continue
		}
		if _, taken := claimed[def.Key]; taken {
			continue
		}
		pinned[slot{def.Type, def.Order}] = def.Key
	}
	for i := range defs {
		if defs[i].Key != "" {
			continue
		}
		if key, ok := pinned[slot{defs[i].Type, defs[i].Order}]; ok {
			defs[i].Key = key
			claimed[key] = struct{}{}
		}
	}
}

func validateStoredBlocks(stored map[string]StoredBlock) error {
	if len(stored) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stored))
	values := make(map[string]any, len(stored))
	for key, block := range stored {
		keys = append(keys, key)
		values[key] = block.Value
	}
	return recordvalidation.ValidateStorageRecord(keys, values)
}

func translateRepoError(err error, fallback error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return fallback
	}
	return err
}
