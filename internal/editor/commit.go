package editor

import (
	"context"
	"slices"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/internal/records"
	"github.com/goliatone/go-cms-console/internal/validation"
)

// Commit validates the session, uploads pending assets, denormalizes every
// block and stores the record. Any failure returns the session to editing
// with its blocks and pending assets untouched; storage only ever receives a
// complete record. On success the uploaded references are kept in the
// blocks and the pending assets are cleared.
func (s *Session) Commit(ctx context.Context) (*records.Record, error) {
	if s.state.Busy() {
		return nil, ErrCommitInProgress
	}
	ctx = logging.ContextWithFields(ctx, map[string]any{"session_id": s.id, "resource": s.resource})
	log := s.logger.WithContext(ctx)

	s.transition(StateValidating, nil)
	if err := validation.Validate(s.defs, s.bound, s.additional, s.tracker.Has); err != nil {
		return nil, s.fail(StateValidating, err)
	}

	s.transition(StateUploading, nil)
	all := slices.Concat(s.bound, s.additional)
	spliced, err := s.resolver.Resolve(ctx, all, s.tracker)
	if err != nil {
		return nil, s.fail(StateUploading, err)
	}

	s.transition(StateDenormalizing, nil)
	bound := withPayloads(s.bound, spliced)
	additional := withPayloads(s.additional, spliced)
	values, err := s.engine.Unbind(bound, s.defs)
	if err != nil {
		return nil, s.fail(StateDenormalizing, err)
	}
	stored, err := s.engine.UnbindAdditional(additional)
	if err != nil {
		return nil, s.fail(StateDenormalizing, err)
	}

	published := s.published
	saved, err := s.store.PutRecord(ctx, records.PutRecordInput{
		ID:               s.recordID,
		Resource:         s.resource,
		Values:           values,
		IsPublished:      &published,
		AdditionalBlocks: stored,
	})
	if err != nil {
		return nil, s.fail(StateDenormalizing, err)
	}

	s.bound = bound
	s.additional = additional
	s.tracker.ClearAll()
	if saved != nil {
		s.recordID = saved.ID
		s.refreshLogger()
	}
	s.transition(StateCommitted, nil)
	log.Info("editor.commit.completed", "uploads", len(spliced))
	return saved, nil
}

func (s *Session) fail(stage State, err error) error {
	commitErr := &CommitError{Stage: stage, Err: err}
	s.transition(StateEditing, commitErr)
	return commitErr
}

func withPayloads(list []blocks.Block, payloads map[string]blocks.Payload) []blocks.Block {
	out := slices.Clone(list)
	for i, block := range out {
		if payload, ok := payloads[block.ID]; ok {
			out[i] = block.WithData(payload)
		}
	}
	return out
}
