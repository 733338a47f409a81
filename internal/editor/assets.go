package editor

import (
	"fmt"

	"github.com/goliatone/go-cms-console/internal/assets"
	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/collections"
)

// SetPendingAssets merges patch into the pending assets of a block. A nil
// patch clears them.
func (s *Session) SetPendingAssets(blockID string, patch *assets.Patch) error {
	block, err := s.uploadBlock(blockID)
	if err != nil {
		return err
	}
	s.tracker.Set(block.ID, patch)
	return nil
}

// AppendPendingFiles queues files for a gallery, carousel or partners block.
func (s *Session) AppendPendingFiles(blockID string, files ...assets.File) error {
	if _, err := s.mediaList(blockID); err != nil {
		return err
	}
	s.tracker.Append(blockID, files...)
	return nil
}

// PendingAssets returns a copy of what is pending for a block.
func (s *Session) PendingAssets(blockID string) (assets.Entry, bool) {
	return s.tracker.Get(blockID)
}

// HasPendingAssets reports whether any block has pending assets.
func (s *Session) HasPendingAssets() bool {
	return s.tracker.Len() > 0
}

// MediaItems returns the combined list of a gallery-like block: persisted
// urls followed by pending files.
func (s *Session) MediaItems(blockID string) (collections.Split[string, assets.File], error) {
	return s.mediaList(blockID)
}

// MoveMedia moves an item of a gallery-like block within its own part of the
// combined list.
func (s *Session) MoveMedia(blockID string, from, to int) error {
	split, err := s.mediaList(blockID)
	if err != nil {
		return err
	}
	return s.storeMedia(blockID, collections.MoveSplit(split, from, to))
}

// RemoveMedia drops an item of a gallery-like block by combined index.
func (s *Session) RemoveMedia(blockID string, index int) error {
	split, err := s.mediaList(blockID)
	if err != nil {
		return err
	}
	return s.storeMedia(blockID, collections.RemoveSplit(split, index))
}

func (s *Session) uploadBlock(blockID string) (blocks.Block, error) {
	if err := s.beginEdit(); err != nil {
		return blocks.Block{}, err
	}
	block, ok := s.Block(blockID)
	if !ok {
		return blocks.Block{}, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	if !assets.AcceptsUploads(block.Type) {
		return blocks.Block{}, fmt.Errorf("%w: %s", ErrNoUploads, block.Type)
	}
	return block, nil
}

func (s *Session) mediaList(blockID string) (collections.Split[string, assets.File], error) {
	block, err := s.uploadBlock(blockID)
	if err != nil {
		return collections.Split[string, assets.File]{}, err
	}
	entry, _ := s.tracker.Get(blockID)
	switch p := block.Data.(type) {
	case blocks.GalleryPayload:
		return collections.Split[string, assets.File]{Persisted: p.Images, Pending: entry.FileList}, nil
	case blocks.PartnersPayload:
		return collections.Split[string, assets.File]{Persisted: p.Logos, Pending: entry.FileList}, nil
	}
	return collections.Split[string, assets.File]{}, fmt.Errorf("%w: %s", ErrUnsupportedBlock, block.Type)
}

func (s *Session) storeMedia(blockID string, split collections.Split[string, assets.File]) error {
	block, _ := s.Block(blockID)
	switch p := block.Data.(type) {
	case blocks.GalleryPayload:
		p.Images = split.Persisted
		block = block.WithData(p)
	case blocks.PartnersPayload:
		p.Logos = split.Persisted
		block = block.WithData(p)
	}
	s.replace(block)

	pending := split.Pending
	if pending == nil {
		pending = []assets.File{}
	}
	s.tracker.Set(blockID, &assets.Patch{FileList: pending})
	return nil
}
