package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordRepository exposes persistence operations for records.
type RecordRepository interface {
	Create(ctx context.Context, rec *Record) (*Record, error)
	Update(ctx context.Context, rec *Record) (*Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	ListByResource(ctx context.Context, resource string) ([]*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SchemaRepository exposes persistence operations for resource schemas.
type SchemaRepository interface {
	Create(ctx context.Context, schema *ResourceSchema) (*ResourceSchema, error)
	Update(ctx context.Context, schema *ResourceSchema) (*ResourceSchema, error)
	GetByResource(ctx context.Context, resource string) (*ResourceSchema, error)
	List(ctx context.Context) ([]*ResourceSchema, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a record or schema cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
