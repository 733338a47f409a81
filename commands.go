package console

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-cms-console/internal/commands/commitcmd"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or RPC.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the registered handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// ErrUnsupportedHandler is returned by GlobalDispatcher for handlers it cannot subscribe.
var ErrUnsupportedHandler = errors.New("console: unsupported command handler")

// RegisterCommands hands the module command handlers to the registry and dispatcher in opts.
// Every failure is reported; handlers that registered stay registered.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0, 1),
		Subscriptions: make([]CommandSubscription, 0, 1),
	}
	if m == nil || m.commit == nil {
		return result, nil
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	register(m.commit)
	return result, errs
}

// GlobalDispatcher subscribes handlers to the process-wide go-command dispatcher.
type GlobalDispatcher struct {
	// MaxRetries is the number of retries after a failed execution.
	MaxRetries int
}

// RegisterCommand implements CommandDispatcher.
func (d GlobalDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *commitcmd.CommitSessionHandler:
		sub := dispatcher.SubscribeCommand(h, runner.WithMaxRetries(d.MaxRetries))
		return subscriptionFunc(sub.Unsubscribe), nil
	}
	return nil, ErrUnsupportedHandler
}

type subscriptionFunc func()

func (f subscriptionFunc) Unsubscribe() { f() }
