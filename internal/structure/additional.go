package structure

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/identity"
	"github.com/goliatone/go-cms-console/internal/keys"
	"github.com/goliatone/go-cms-console/internal/records"
)

// BindAdditional turns stored free-form blocks into editor blocks ordered by
// their stored order. Blocks stored without an id receive a fresh one.
func (e *Engine) BindAdditional(stored map[string]records.StoredBlock) []blocks.Block {
	entries := make([]string, 0, len(stored))
	for key := range stored {
		entries = append(entries, key)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := stored[entries[i]], stored[entries[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return entries[i] < entries[j]
	})

	out := make([]blocks.Block, 0, len(entries))
	now := time.Now()
	for _, key := range entries {
		sb := stored[key]
		payload, err := e.registry.Normalize(sb.Type, sb.Value)
		if err != nil {
			e.logger.Warn("structure.additional.unknown_type", "key", key, "type", sb.Type)
			continue
		}
		id := sb.ID
		if id == "" {
			id = identity.NewBlockID(now)
		}
		label := sb.Label
		if label == "" {
			label = key
		}
		out = append(out, blocks.Block{ID: id, Type: sb.Type, Label: label, Data: payload})
	}
	return blocks.Reindex(out)
}

// UnbindAdditional stores free-form blocks keyed by the key derived from
// their label. Orders are rewritten densely from slice position.
func (e *Engine) UnbindAdditional(list []blocks.Block) (map[string]records.StoredBlock, error) {
	sources := make([]keys.Source, len(list))
	for i, block := range list {
		sources[i] = keys.Source{Type: string(block.Type), Order: i, Label: block.Label}
	}
	resolved := keys.ResolveUnique(sources)

	out := make(map[string]records.StoredBlock, len(list))
	var errs []error
	for i, block := range list {
		value, err := e.registry.Denormalize(block.Type, block.Data)
		if err != nil {
			errs = append(errs, fmt.Errorf("structure: additional block %s: %w", block.ID, err))
			continue
		}
		out[resolved[i]] = records.StoredBlock{
			ID:    block.ID,
			Type:  block.Type,
			Order: i,
			Label: block.Label,
			Value: value,
		}
	}
	return out, errors.Join(errs...)
}
