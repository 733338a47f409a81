package editor

import (
	"errors"
	"fmt"
)

// State is a step of the commit flow.
type State string

const (
	StateEditing       State = "editing"
	StateValidating    State = "validating"
	StateUploading     State = "uploading"
	StateDenormalizing State = "denormalizing"
	StateCommitted     State = "committed"
)

// Busy reports whether a commit is running.
func (s State) Busy() bool {
	return s == StateValidating || s == StateUploading || s == StateDenormalizing
}

// Transition is reported to observers on every state change. Err is set
// when a failed step returns the session to editing.
type Transition struct {
	SessionID string
	From      State
	To        State
	Err       error
}

// Observer receives state transitions.
type Observer func(Transition)

var (
	ErrCommitInProgress = errors.New("editor: commit in progress")
	ErrBlockNotFound    = errors.New("editor: block not found")
	ErrNotAdditional    = errors.New("editor: block is bound to the schema")
	ErrNoUploads        = errors.New("editor: block does not accept uploads")
	ErrUnsupportedBlock = errors.New("editor: operation not supported for block type")
	ErrStoreRequired    = errors.New("editor: record store required")
	ErrSchemaRequired   = errors.New("editor: resource schema required")
)

// CommitError reports the step at which a commit failed.
type CommitError struct {
	Stage State
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("editor: commit failed while %s: %v", e.Stage, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
