// Package structure binds resource schemas to editor blocks and back.
package structure

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// Engine maps field definitions and stored values to blocks.
type Engine struct {
	registry *blocks.Registry
	logger   interfaces.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRegistry overrides the type registry.
func WithRegistry(registry *blocks.Registry) EngineOption {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithEngineLogger sets the engine logger.
func WithEngineLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine constructs an engine over the default registry.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		registry: blocks.DefaultRegistry(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Registry returns the registry used by the engine.
func (e *Engine) Registry() *blocks.Registry {
	return e.registry
}

// Bind produces one block per definition, ordered by definition order with
// dense orders. Values are looked up by derived key, then legacy key, then
// the bare type name; a nil value counts as absent. Block ids are derived
// from the definition so binding the same schema twice yields the same ids.
// Definitions of an unknown type are skipped and reported in the error.
func (e *Engine) Bind(defs []blocks.FieldDefinition, values map[string]any) ([]blocks.Block, error) {
	fields := blocks.BindFields(defs)
	out := make([]blocks.Block, 0, len(fields))
	var errs []error
	for _, field := range fields {
		def := field.Definition
		raw, _ := lookupValue(values, field.Key, def.LegacyKey(), string(def.Type))
		payload, err := e.registry.Normalize(def.Type, raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("structure: bind %s: %w", field.Key, err))
			continue
		}
		out = append(out, blocks.Block{
			ID:    field.BlockID,
			Type:  def.Type,
			Label: def.Label,
			Data:  payload,
		})
	}
	return blocks.Reindex(out), errors.Join(errs...)
}

// Unbind converts bound blocks back to storage values keyed by definition
// key. A definition without its block writes the empty value of its type, so
// every key is present exactly once.
func (e *Engine) Unbind(list []blocks.Block, defs []blocks.FieldDefinition) (map[string]any, error) {
	byID := make(map[string]blocks.Block, len(list))
	for _, block := range list {
		byID[block.ID] = block
	}

	values := make(map[string]any, len(defs))
	var errs []error
	for _, field := range blocks.BindFields(defs) {
		block, ok := byID[field.BlockID]
		var (
			value any
			err   error
		)
		if ok {
			value, err = e.registry.Denormalize(field.Definition.Type, block.Data)
		} else {
			value, err = e.registry.EmptyValue(field.Definition.Type)
		}
		if err != nil {
			errs = append(errs, &FieldError{Key: field.Key, BlockID: field.BlockID, Err: err})
			continue
		}
		values[field.Key] = value
	}
	return values, errors.Join(errs...)
}

// FieldError reports the block whose payload could not be stored.
type FieldError struct {
	Key     string
	BlockID string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("structure: field %s (block %s): %v", e.Key, e.BlockID, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func lookupValue(values map[string]any, candidates ...string) (any, bool) {
	for _, key := range candidates {
		if key == "" {
			continue
		}
		// a present key is a hit even when cleared to nil
		if v, ok := values[key]; ok {
			return v, true
		}
	}
	return nil, false
}
