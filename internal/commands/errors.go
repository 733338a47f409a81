package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-console/internal/validation"
)

type stage int

const (
	stageValidate stage = iota
	stageContext
	stageExecute
)

type classification struct {
	validation bool
	code       string
	message    string
}

var (
	invalidMessage  = classification{true, "COMMAND_VALIDATION_FAILED", "command validation failed"}
	invalidContent  = classification{true, "COMMAND_CONTENT_INVALID", "content validation failed"}
	cancelled       = classification{false, "COMMAND_CONTEXT_CANCELED", "command execution cancelled"}
	deadline        = classification{false, "COMMAND_CONTEXT_TIMEOUT", "command execution deadline exceeded"}
	contextFailure  = classification{false, "COMMAND_CONTEXT_ERROR", "command context error"}
	executionFailed = classification{false, "COMMAND_EXECUTION_FAILED", "command execution failed"}
)

// categorize wraps err with a go-errors category. Errors that already carry
// one pass through untouched. Content validation failures raised while
// executing are tagged as validation.
func categorize(err error, at stage) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	c := classify(err, at)
	if c.validation {
		return goerrors.Wrap(err, goerrors.CategoryValidation, c.message).WithTextCode(c.code)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, c.message).WithTextCode(c.code)
}

func classify(err error, at stage) classification {
	switch {
	case at == stageValidate:
		return invalidMessage
	case errors.Is(err, context.Canceled):
		return cancelled
	case errors.Is(err, context.DeadlineExceeded):
		return deadline
	case at == stageContext:
		return contextFailure
	case errors.Is(err, validation.ErrValidationFailed), errors.Is(err, validation.ErrRecordInvalid):
		return invalidContent
	}
	return executionFailed
}
