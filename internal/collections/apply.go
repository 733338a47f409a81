package collections

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-console/internal/blocks"
)

var (
	ErrUnsupportedKind = errors.New("collections: block has no collection of this kind")
	ErrItemType        = errors.New("collections: item does not match collection kind")
	ErrUnknownOp       = errors.New("collections: unknown operation")
)

// Kind names a collection hosted inside a block payload.
type Kind string

const (
	KindListItems         Kind = "listItems"
	KindTableRows         Kind = "tableRows"
	KindTableColumns      Kind = "tableColumns"
	KindAccordionItems    Kind = "accordionItems"
	KindTabs              Kind = "tabs"
	KindGalleryImages     Kind = "galleryImages"
	KindRelatedSelections Kind = "relatedSelections"
)

// OpKind selects one of the four collection operations.
type OpKind int

const (
	OpMove OpKind = iota + 1
	OpShift
	OpInsert
	OpRemove
)

// Op describes a single collection mutation.
type Op struct {
	Kind  OpKind
	Index int
	To    int
	Delta int
	Item  any
}

// Move relocates the item at from to position to.
func Move(from, to int) Op { return Op{Kind: OpMove, Index: from, To: to} }

// Shift moves the item at index by delta positions.
func Shift(index, delta int) Op { return Op{Kind: OpShift, Index: index, Delta: delta} }

// Insert places item at index. A nil item inserts the kind's blank entry.
func Insert(index int, item any) Op { return Op{Kind: OpInsert, Index: index, Item: item} }

// Remove drops the item at index.
func Remove(index int) Op { return Op{Kind: OpRemove, Index: index} }

// Apply runs op against the collection of kind inside block and returns the
// block carrying the rewritten payload.
func Apply(block blocks.Block, kind Kind, op Op) (blocks.Block, error) {
	payload, err := applyPayload(block.Data, kind, op)
	if err != nil {
		return block, fmt.Errorf("%s %s: %w", block.Type, kind, err)
	}
	return block.WithData(payload), nil
}

func applyPayload(data blocks.Payload, kind Kind, op Op) (blocks.Payload, error) {
	switch p := data.(type) {
	case blocks.ListPayload:
		if kind != KindListItems {
			break
		}
		items, err := applyList(p.Items, op)
		if err != nil {
			return nil, err
		}
		p.Items = items
		return p, nil
	case blocks.TablePayload:
		switch kind {
		case KindTableRows:
			return applyRows(p, op)
		case KindTableColumns:
			return applyColumns(p, op)
		}
	case blocks.AccordionPayload:
		if kind != KindAccordionItems {
			break
		}
		items, err := applyList(p.Items, op)
		if err != nil {
			return nil, err
		}
		p.Items = items
		return p, nil
	case blocks.TabsPayload:
		if kind != KindTabs {
			break
		}
		tabs, err := applyList(p.Tabs, op)
		if err != nil {
			return nil, err
		}
		p.Tabs = tabs
		return p, nil
	case blocks.GalleryPayload:
		if kind != KindGalleryImages {
			break
		}
		images, err := applyList(p.Images, op)
		if err != nil {
			return nil, err
		}
		p.Images = images
		return p, nil
	case blocks.PartnersPayload:
		if kind != KindGalleryImages {
			break
		}
		logos, err := applyList(p.Logos, op)
		if err != nil {
			return nil, err
		}
		p.Logos = logos
		return p, nil
	case blocks.RelatedEntitiesPayload:
		if kind != KindRelatedSelections {
			break
		}
		return applySelection(p, op)
	}
	return nil, ErrUnsupportedKind
}

func applyList[T any](list []T, op Op) ([]T, error) {
	switch op.Kind {
	case OpMove:
		return MoveTo(list, op.Index, op.To), nil
	case OpShift:
		return MoveBy(list, op.Index, op.Delta), nil
	case OpInsert:
		item, err := itemAs[T](op.Item)
		if err != nil {
			return nil, err
		}
		return InsertAt(list, op.Index, item), nil
	case OpRemove:
		return RemoveAt(list, op.Index), nil
	}
	return nil, ErrUnknownOp
}

func itemAs[T any](item any) (T, error) {
	var zero T
	if item == nil {
		return zero, nil
	}
	typed, ok := item.(T)
	if !ok {
		return zero, fmt.Errorf("%w: want %T got %T", ErrItemType, zero, item)
	}
	return typed, nil
}

func applyRows(table blocks.TablePayload, op Op) (blocks.Payload, error) {
	table = blocks.NormalizeTable(table)
	rows, err := applyList(table.Rows, op)
	if err != nil {
		return nil, err
	}
	table.Rows = rows
	return blocks.NormalizeTable(table), nil
}

// applyColumns keeps headers and every row in lockstep.
func applyColumns(table blocks.TablePayload, op Op) (blocks.Payload, error) {
	table = blocks.NormalizeTable(table)
	switch op.Kind {
	case OpMove, OpShift:
		perm := Permutation(len(table.Headers), op)
		rows := make([][]string, len(table.Rows))
		for i, row := range table.Rows {
			rows[i] = Permute(row, perm)
		}
		return blocks.TablePayload{Headers: Permute(table.Headers, perm), Rows: rows}, nil
	case OpInsert:
		header, err := itemAs[string](op.Item)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, len(table.Rows))
		for i, row := range table.Rows {
			rows[i] = InsertAt(row, op.Index, "")
		}
		return blocks.TablePayload{Headers: InsertAt(table.Headers, op.Index, header), Rows: rows}, nil
	case OpRemove:
		if !inRange(table.Headers, op.Index) {
			return table, nil
		}
		rows := make([][]string, len(table.Rows))
		for i, row := range table.Rows {
			rows[i] = RemoveAt(row, op.Index)
		}
		return blocks.TablePayload{Headers: RemoveAt(table.Headers, op.Index), Rows: rows}, nil
	}
	return nil, ErrUnknownOp
}

// applySelection edits the id list; display items follow their ids.
func applySelection(p blocks.RelatedEntitiesPayload, op Op) (blocks.Payload, error) {
	if op.Kind == OpInsert {
		var item blocks.RelatedItem
		switch v := op.Item.(type) {
		case blocks.RelatedItem:
			item = v
		case blocks.EntityID:
			item = blocks.RelatedItem{ID: v}
		case string:
			item = blocks.RelatedItem{ID: blocks.EntityID(v)}
		default:
			return nil, fmt.Errorf("%w: want blocks.RelatedItem got %T", ErrItemType, op.Item)
		}
		if item.ID == "" {
			return p, nil
		}
		p.SelectedIDs = InsertAt(p.SelectedIDs, op.Index, item.ID)
		if _, exists := p.Item(item.ID); !exists {
			p.SelectedItems = append(clone(p.SelectedItems), item)
		}
		return blocks.CleanSelection(p), nil
	}
	ids, err := applyList(p.SelectedIDs, op)
	if err != nil {
		return nil, err
	}
	p.SelectedIDs = ids
	return blocks.CleanSelection(p), nil
}
