package editor

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-console/internal/blocks"
)

// RelatedOptions lists the records a relatedEntities block can select from
// the resource slug. Without a foreign cache the list is empty.
func (s *Session) RelatedOptions(ctx context.Context, slug string, force bool) []blocks.RelatedItem {
	if s.foreign == nil {
		return []blocks.RelatedItem{}
	}
	return s.foreign.Options(ctx, slug, force)
}

// HydrateRelated refreshes the display data of the selections of a
// relatedEntities block.
func (s *Session) HydrateRelated(ctx context.Context, blockID string, force bool) error {
	if err := s.beginEdit(); err != nil {
		return err
	}
	block, ok := s.Block(blockID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	payload, ok := block.Data.(blocks.RelatedEntitiesPayload)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedBlock, block.Type)
	}
	if s.foreign == nil {
		return nil
	}
	s.replace(block.WithData(s.foreign.Hydrate(ctx, payload, force)))
	return nil
}
