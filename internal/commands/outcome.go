package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// Status classifies how an execution ended.
type Status string

const (
	StatusSucceeded    Status = "succeeded"
	StatusFailed       Status = "failed"
	StatusContextError Status = "context_error"
)

// Outcome describes one execution that passed message validation.
type Outcome struct {
	Command   string
	Operation string
	Status    Status
	Duration  time.Duration
	// Err is the categorised error returned to the caller, if any.
	Err error
	// Logger carries the command and operation fields.
	Logger interfaces.Logger
}

// Observer receives every Outcome of a handler.
type Observer[T command.Message] func(ctx context.Context, msg T, outcome Outcome)

// LogOutcome reports outcomes to the outcome logger.
func LogOutcome[T command.Message]() Observer[T] {
	return func(_ context.Context, _ T, o Outcome) {
		if o.Logger == nil {
			return
		}
		args := []any{"duration_ms", o.Duration.Milliseconds()}
		switch o.Status {
		case StatusSucceeded:
			o.Logger.Info("command.execute.success", args...)
		case StatusContextError:
			o.Logger.Error("command.execute.context_error", append(args, "error", o.Err)...)
		default:
			o.Logger.Error("command.execute.failed", append(args, "error", o.Err)...)
		}
	}
}
