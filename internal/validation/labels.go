package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/keys"
)

// ErrValidationFailed is the sentinel every *Error unwraps to.
var ErrValidationFailed = errors.New("validation: commit blocked")

// Code classifies a violation.
type Code string

const (
	CodeRequired        Code = "required"
	CodeEmptyLabel      Code = "empty_label"
	CodeSchemaCollision Code = "schema_collision"
	CodeDuplicateLabel  Code = "duplicate_label"
)

// Violation is one offending block.
type Violation struct {
	BlockID string
	Code    Code
	Key     string
	Label   string
	Message string
}

// Error carries every violation found in one pass.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Message)
	}
	return fmt.Sprintf("validation: %d problem(s): %s", len(e.Violations), strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return ErrValidationFailed
}

// BlockIDs lists the offending block ids once each, in report order.
func (e *Error) BlockIDs() []string {
	if e == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(e.Violations))
	ids := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := seen[v.BlockID]; ok {
			continue
		}
		seen[v.BlockID] = struct{}{}
		ids = append(ids, v.BlockID)
	}
	return ids
}

// Has reports whether a violation with code was recorded for blockID.
func (e *Error) Has(blockID string, code Code) bool {
	if e == nil {
		return false
	}
	for _, v := range e.Violations {
		if v.BlockID == blockID && v.Code == code {
			return true
		}
	}
	return false
}

// AdditionalKey returns the base storage key of a free-form block.
func AdditionalKey(block blocks.Block) string {
	if key := keys.Derive(block.Label); key != "" {
		return key
	}
	return keys.Legacy(string(block.Type), block.Order)
}

// ValidateLabels checks every additional block label: it must not be empty,
// must not derive the key of an earlier additional block, and must not derive
// a schema-bound key. Each block reports at most one violation.
func ValidateLabels(defs []blocks.FieldDefinition, additional []blocks.Block) []Violation {
	schemaKeys := make(map[string]struct{}, len(defs))
	for _, key := range blocks.ResolveKeys(defs) {
		schemaKeys[key] = struct{}{}
	}

	var violations []Violation
	claimed := make(map[string]string, len(additional))
	for _, block := range additional {
		label := strings.TrimSpace(block.Label)
		if label == "" {
			violations = append(violations, Violation{
				BlockID: block.ID,
				Code:    CodeEmptyLabel,
				Message: fmt.Sprintf("block %s has no label", block.ID),
			})
			continue
		}

		key := AdditionalKey(block)
		if first, dup := claimed[key]; dup {
			violations = append(violations, Violation{
				BlockID: block.ID,
				Code:    CodeDuplicateLabel,
				Key:     key,
				Label:   label,
				Message: fmt.Sprintf("label %q repeats block %s", label, first),
			})
			continue
		}
		claimed[key] = block.ID

		if _, taken := schemaKeys[key]; taken {
			violations = append(violations, Violation{
				BlockID: block.ID,
				Code:    CodeSchemaCollision,
				Key:     key,
				Label:   label,
				Message: fmt.Sprintf("label %q collides with schema field %q", label, key),
			})
		}
	}
	return violations
}

// ValidateRequired reports every required schema field whose bound block is
// missing or unfilled. pending may be nil.
func ValidateRequired(defs []blocks.FieldDefinition, bound []blocks.Block, pending func(blockID string) bool) []Violation {
	byID := make(map[string]blocks.Block, len(bound))
	for _, block := range bound {
		byID[block.ID] = block
	}

	var violations []Violation
	for _, field := range blocks.BindFields(defs) {
		if !field.Definition.Required {
			continue
		}
		block, ok := byID[field.BlockID]
		hasPending := pending != nil && pending(field.BlockID)
		if ok && Filled(block, hasPending) {
			continue
		}
		violations = append(violations, Violation{
			BlockID: field.BlockID,
			Code:    CodeRequired,
			Key:     field.Key,
			Label:   field.Definition.Label,
			Message: fmt.Sprintf("field %q is required", field.Definition.Label),
		})
	}
	return violations
}

// Validate runs the required and label checks and returns an *Error holding
// every violation, or nil.
func Validate(defs []blocks.FieldDefinition, bound, additional []blocks.Block, pending func(blockID string) bool) error {
	violations := ValidateRequired(defs, bound, pending)
	violations = append(violations, ValidateLabels(defs, additional)...)
	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}
