// Package commands runs go-command messages with shared console concerns:
// message validation, optional timeouts, categorised errors and outcome
// reporting.
package commands

import (
	"context"
	"strings"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler satisfies command.Commander[T] around a plain command function.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	observer  Observer[T]
	now       func() time.Time
}

// NewHandler wraps fn. Execution has no timeout unless WithTimeout is supplied
// and outcomes are logged unless WithObserver replaces the reporting.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:   fn,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.observer == nil {
		h.observer = LogOutcome[T]()
	}
	return h
}

// Execute validates msg, runs the wrapped function and reports the outcome.
// Invalid messages never reach the function and are not reported.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return categorize(err, stageValidate)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return categorize(err, stageContext)
	}

	outcome := Outcome{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
	}
	fields := map[string]any{"command": outcome.Command}
	if outcome.Operation != "" {
		fields["operation"] = outcome.Operation
	}
	outcome.Logger = logging.WithFields(h.logger, fields)
	outcome.Logger.Debug("command.execute.start")

	started := h.now()
	err := h.exec(ctx, msg)
	outcome.Duration = h.now().Sub(started)

	switch {
	case err != nil:
		outcome.Status = StatusFailed
		err = categorize(err, stageExecute)
	case ctx.Err() != nil:
		outcome.Status = StatusContextError
		err = categorize(ctx.Err(), stageContext)
	default:
		outcome.Status = StatusSucceeded
	}
	outcome.Err = err

	h.observer(ctx, msg, outcome)
	return err
}

// WithTimeout bounds execution. Zero or negative values disable the timeout.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the logger outcomes are reported to. Nil keeps the no-op logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithOperation names the operation in every log entry and outcome.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = strings.TrimSpace(operation)
	}
}

// WithObserver replaces outcome logging with fn.
func WithObserver[T command.Message](fn Observer[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.observer = fn
	}
}

// CommandLogger scopes the commands logger to one command module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	logger := logging.CommandsLogger(provider)
	fields := map[string]any{"component": "command"}
	if name := strings.TrimSpace(module); name != "" {
		fields["command_module"] = name
	}
	return logging.WithFields(logger, fields)
}
