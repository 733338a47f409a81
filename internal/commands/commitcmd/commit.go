package commitcmd

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-console/internal/commands"
	"github.com/goliatone/go-cms-console/internal/editor"
	"github.com/goliatone/go-cms-console/internal/records"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

const commitSessionMessageType = "console.editor.commit"

// ErrSessionNotFound is returned when the message names an unknown session.
var ErrSessionNotFound = errors.New("commitcmd: editor session not found")

// CommitSessionCommand requests the commit of an open editor session.
type CommitSessionCommand struct {
	SessionID string `json:"session_id"`
}

// Type implements command.Message.
func (CommitSessionCommand) Type() string { return commitSessionMessageType }

// Validate ensures the message names a session.
func (m CommitSessionCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.SessionID) == "" {
		errs["session_id"] = validation.NewError("console.editor.commit.session_id_required", "session_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SessionLookup resolves open editor sessions by id.
type SessionLookup interface {
	Session(id string) (*editor.Session, bool)
}

// CommittedFunc observes records stored by a successful commit.
type CommittedFunc func(ctx context.Context, sessionID string, rec *records.Record)

// CommitSessionHandler commits editor sessions through the shared command handler foundation.
type CommitSessionHandler struct {
	inner *commands.Handler[CommitSessionCommand]
}

// NewCommitSessionHandler constructs a handler resolving sessions through lookup. onCommitted may be nil.
func NewCommitSessionHandler(lookup SessionLookup, logger interfaces.Logger, onCommitted CommittedFunc, opts ...commands.HandlerOption[CommitSessionCommand]) *CommitSessionHandler {
	if lookup == nil {
		panic("commitcmd: session lookup cannot be nil")
	}
	exec := func(ctx context.Context, msg CommitSessionCommand) error {
		id := strings.TrimSpace(msg.SessionID)
		session, ok := lookup.Session(id)
		if !ok || session == nil {
			return ErrSessionNotFound
		}
		rec, err := session.Commit(ctx)
		if err != nil {
			return err
		}
		if onCommitted != nil {
			onCommitted(ctx, id, rec)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CommitSessionCommand]{
		commands.WithLogger[CommitSessionCommand](logger),
		commands.WithOperation[CommitSessionCommand]("editor.commit"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CommitSessionHandler{
		inner: commands.NewHandler[CommitSessionCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CommitSessionCommand].Execute.
func (h *CommitSessionHandler) Execute(ctx context.Context, msg CommitSessionCommand) error {
	return h.inner.Execute(ctx, msg)
}
