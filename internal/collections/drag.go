package collections

import "github.com/goliatone/go-cms-console/internal/blocks"

// DragOrigin records where a drag started.
type DragOrigin struct {
	BlockID string
	Kind    Kind
	Index   int
}

// DropTarget records where a drag was released.
type DropTarget struct {
	BlockID string
	Kind    Kind
	Index   int
}

// Accepts reports whether a drop on target may be honored. Drops across
// blocks or across collection kinds are rejected.
func (o DragOrigin) Accepts(target DropTarget) bool {
	return o.BlockID != "" && o.BlockID == target.BlockID && o.Kind == target.Kind
}

// Drop applies the move described by origin and target to block. It reports
// false, leaving block unchanged, when the drop is not accepted.
func Drop(block blocks.Block, origin DragOrigin, target DropTarget) (blocks.Block, bool, error) {
	if !origin.Accepts(target) || origin.BlockID != block.ID {
		return block, false, nil
	}
	updated, err := Apply(block, origin.Kind, Move(origin.Index, target.Index))
	if err != nil {
		return block, false, err
	}
	return updated, true, nil
}
