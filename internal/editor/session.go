// Package editor holds an editing session over one record and the commit
// flow that gates what reaches storage.
package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-console/internal/assets"
	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/collections"
	"github.com/goliatone/go-cms-console/internal/identity"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/internal/records"
	"github.com/goliatone/go-cms-console/internal/structure"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// RecordStore persists committed records.
type RecordStore interface {
	PutRecord(ctx context.Context, input records.PutRecordInput) (*records.Record, error)
}

// Option configures a Session.
type Option func(*Session)

// WithEngine overrides the structure engine.
func WithEngine(engine *structure.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithResolver sets the asset resolver used during commit.
func WithResolver(resolver *assets.Resolver) Option {
	return func(s *Session) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithForeignCache sets the cache used to resolve related entities.
func WithForeignCache(cache *structure.Cache) Option {
	return func(s *Session) {
		s.foreign = cache
	}
}

// WithObserver registers a state transition observer.
func WithObserver(observer Observer) Option {
	return func(s *Session) {
		if observer != nil {
			s.observers = append(s.observers, observer)
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.baseLogger = logger
		}
	}
}

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(s *Session) {
		if strings.TrimSpace(id) != "" {
			s.id = id
		}
	}
}

// Session edits one record of a resource. It is not safe for concurrent use.
type Session struct {
	id         string
	resource   string
	recordID   uuid.UUID
	defs       []blocks.FieldDefinition
	bound      []blocks.Block
	additional []blocks.Block
	published  bool
	state      State

	tracker    *assets.Tracker
	engine     *structure.Engine
	resolver   *assets.Resolver
	foreign    *structure.Cache
	store      RecordStore
	observers  []Observer
	baseLogger interfaces.Logger
	logger     interfaces.Logger
	now        func() time.Time
}

// NewSession binds rec (nil for a new record) to schema.
func NewSession(schema *records.ResourceSchema, rec *records.Record, store RecordStore, opts ...Option) (*Session, error) {
	if schema == nil {
		return nil, ErrSchemaRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	s := &Session{
		resource:   schema.Resource,
		defs:       slices.Clone(schema.Definitions),
		state:      StateEditing,
		tracker:    assets.NewTracker(),
		engine:     structure.NewEngine(),
		store:      store,
		baseLogger: logging.NoOp(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.id == "" {
		s.id = identity.NewBlockID(s.now())
	}
	if s.resolver == nil {
		s.resolver = assets.NewResolver(nil)
	}

	var values map[string]any
	var stored map[string]records.StoredBlock
	if rec != nil {
		s.recordID = rec.ID
		s.published = rec.IsPublished
		values = rec.Values
		stored = rec.AdditionalBlocks
	}
	bound, err := s.engine.Bind(s.defs, values)
	if err != nil {
		return nil, err
	}
	s.bound = bound
	s.additional = s.engine.BindAdditional(stored)
	s.refreshLogger()
	s.logger.Debug("editor.session.opened", "blocks", len(s.bound), "additional", len(s.additional))
	return s, nil
}

func (s *Session) refreshLogger() {
	recordID := ""
	if s.recordID != uuid.Nil {
		recordID = s.recordID.String()
	}
	s.logger = logging.WithSession(s.baseLogger, s.id, s.resource, recordID)
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Resource returns the resource slug being edited.
func (s *Session) Resource() string { return s.resource }

// RecordID returns the id of the record, uuid.Nil until the first commit of
// a new record.
func (s *Session) RecordID() uuid.UUID { return s.recordID }

// State returns the current commit state.
func (s *Session) State() State { return s.state }

// Published reports the publish flag that the next commit writes.
func (s *Session) Published() bool { return s.published }

// Definitions returns the schema definitions of the session.
func (s *Session) Definitions() []blocks.FieldDefinition { return slices.Clone(s.defs) }

// Blocks returns the schema-bound blocks.
func (s *Session) Blocks() []blocks.Block { return slices.Clone(s.bound) }

// AdditionalBlocks returns the free-form blocks.
func (s *Session) AdditionalBlocks() []blocks.Block { return slices.Clone(s.additional) }

// Block returns the block with id from either list.
func (s *Session) Block(id string) (blocks.Block, bool) {
	if i := blocks.FindBlock(s.bound, id); i >= 0 {
		return s.bound[i], true
	}
	if i := blocks.FindBlock(s.additional, id); i >= 0 {
		return s.additional[i], true
	}
	return blocks.Block{}, false
}

// SetPublished sets the publish flag for the next commit.
func (s *Session) SetPublished(published bool) error {
	if err := s.beginEdit(); err != nil {
		return err
	}
	s.published = published
	return nil
}

// UpdatePayload replaces the payload of a block. The payload must match the
// block type.
func (s *Session) UpdatePayload(blockID string, payload blocks.Payload) error {
	if err := s.beginEdit(); err != nil {
		return err
	}
	block, ok := s.Block(blockID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	if _, err := s.engine.Registry().Denormalize(block.Type, payload); errors.Is(err, blocks.ErrPayloadMismatch) {
		return err
	}
	s.replace(block.WithData(payload))
	return nil
}

// AddBlock inserts an empty free-form block at index (clamped) and returns it.
func (s *Session) AddBlock(t blocks.ContentType, label string, index int) (blocks.Block, error) {
	if err := s.beginEdit(); err != nil {
		return blocks.Block{}, err
	}
	payload, err := s.engine.Registry().Empty(t)
	if err != nil {
		return blocks.Block{}, err
	}
	block := blocks.Block{
		ID:    identity.NewBlockID(s.now()),
		Type:  t,
		Label: label,
		Data:  payload,
	}
	s.additional = blocks.Reindex(collections.InsertAt(s.additional, index, block))
	logging.WithBlock(s.logger, block.ID).Debug("editor.block.added", "type", t)
	return s.additional[blocks.FindBlock(s.additional, block.ID)], nil
}

// RemoveBlock deletes a free-form block and its pending assets.
func (s *Session) RemoveBlock(blockID string) error {
	i, err := s.additionalIndex(blockID)
	if err != nil {
		return err
	}
	s.additional = blocks.Reindex(collections.RemoveAt(s.additional, i))
	s.tracker.Clear(blockID)
	logging.WithBlock(s.logger, blockID).Debug("editor.block.removed")
	return nil
}

// MoveBlock moves a free-form block to index.
func (s *Session) MoveBlock(blockID string, to int) error {
	i, err := s.additionalIndex(blockID)
	if err != nil {
		return err
	}
	s.additional = blocks.Reindex(collections.MoveTo(s.additional, i, to))
	return nil
}

// ShiftBlock moves a free-form block by delta positions.
func (s *Session) ShiftBlock(blockID string, delta int) error {
	i, err := s.additionalIndex(blockID)
	if err != nil {
		return err
	}
	s.additional = blocks.Reindex(collections.MoveBy(s.additional, i, delta))
	return nil
}

// RenameBlock changes the label of a free-form block. Labels of schema-bound
// blocks belong to the schema.
func (s *Session) RenameBlock(blockID, label string) error {
	i, err := s.additionalIndex(blockID)
	if err != nil {
		return err
	}
	s.additional[i].Label = label
	return nil
}

// ApplyCollection runs a collection operation on the payload of a block.
func (s *Session) ApplyCollection(blockID string, kind collections.Kind, op collections.Op) error {
	if err := s.beginEdit(); err != nil {
		return err
	}
	block, ok := s.Block(blockID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	updated, err := collections.Apply(block, kind, op)
	if err != nil {
		return err
	}
	s.replace(updated)
	return nil
}

// Drop applies a drag and drop move. It reports whether the drop was
// accepted.
func (s *Session) Drop(origin collections.DragOrigin, target collections.DropTarget) (bool, error) {
	if err := s.beginEdit(); err != nil {
		return false, err
	}
	block, ok := s.Block(origin.BlockID)
	if !ok {
		return false, nil
	}
	updated, accepted, err := collections.Drop(block, origin, target)
	if err != nil || !accepted {
		return false, err
	}
	s.replace(updated)
	return true, nil
}

func (s *Session) beginEdit() error {
	if s.state.Busy() {
		return ErrCommitInProgress
	}
	if s.state != StateEditing {
		s.transition(StateEditing, nil)
	}
	return nil
}

func (s *Session) additionalIndex(blockID string) (int, error) {
	if err := s.beginEdit(); err != nil {
		return -1, err
	}
	i := blocks.FindBlock(s.additional, blockID)
	if i < 0 {
		if blocks.FindBlock(s.bound, blockID) >= 0 {
			return -1, fmt.Errorf("%w: %s", ErrNotAdditional, blockID)
		}
		return -1, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	return i, nil
}

func (s *Session) replace(block blocks.Block) {
	if i := blocks.FindBlock(s.bound, block.ID); i >= 0 {
		s.bound[i] = block
		return
	}
	if i := blocks.FindBlock(s.additional, block.ID); i >= 0 {
		s.additional[i] = block
	}
}

func (s *Session) transition(to State, err error) {
	t := Transition{SessionID: s.id, From: s.state, To: to, Err: err}
	s.state = to
	if err != nil {
		s.logger.Warn("editor.commit.state", "from", t.From, "to", t.To, "error", err)
	} else {
		s.logger.Debug("editor.commit.state", "from", t.From, "to", t.To)
	}
	for _, observer := range s.observers {
		observer(t)
	}
}
