package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrRecordInvalid is the sentinel every *RecordError unwraps to.
var ErrRecordInvalid = errors.New("validation: storage record invalid")

// Issue is one schema failure inside a record.
type Issue struct {
	Location string
	Message  string
}

// RecordError lists why a record cannot be sent to storage.
type RecordError struct {
	Issues []Issue
	Cause  error
}

func (e *RecordError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrRecordInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *RecordError) Unwrap() error {
	return ErrRecordInvalid
}

// StorageSchema describes a record whose keys are all present and whose
// values are scalars or null.
func StorageSchema(keys []string) map[string]any {
	required := make([]any, 0, len(keys))
	for _, key := range keys {
		required = append(required, key)
	}
	return map[string]any{
		"type":     "object",
		"required": required,
		"additionalProperties": map[string]any{
			"type": []any{"string", "number", "boolean", "null"},
		},
	}
}

// ValidateStorageRecord checks values against StorageSchema(keys).
func ValidateStorageRecord(keys []string, values map[string]any) error {
	compiled, err := compileSchema(StorageSchema(keys))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRecordInvalid, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	instance := make(map[string]any, len(values))
	for k, v := range values {
		instance[k] = v
	}
	if err := compiled.Validate(instance); err != nil {
		return &RecordError{Issues: issues(err), Cause: err}
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("record.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("record.json")
}

func issues(err error) []Issue {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return []Issue{{Message: err.Error()}}
	}
	out := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			out = append(out, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return out
}
