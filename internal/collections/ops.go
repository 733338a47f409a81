// Package collections implements the reorder, insert and remove operations
// shared by every collection nested inside a block payload.
//
// All functions return a fresh slice; the input is never modified.
package collections

// MoveBy swaps the item at index with its neighbour delta positions away when
// |delta| is 1, otherwise it behaves like MoveTo(index, index+delta). Moves past
// either bound are no-ops.
func MoveBy[T any](list []T, index, delta int) []T {
	out := clone(list)
	target := index + delta
	if delta == 0 || !inRange(out, index) || !inRange(out, target) {
		return out
	}
	if delta == 1 || delta == -1 {
		out[index], out[target] = out[target], out[index]
		return out
	}
	return MoveTo(list, index, target)
}

// MoveTo removes the item at from and re-inserts it at to. Out of range or
// equal indices are no-ops.
func MoveTo[T any](list []T, from, to int) []T {
	out := clone(list)
	if from == to || !inRange(out, from) || !inRange(out, to) {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

// InsertAt places item at index, clamped to [0, len(list)].
func InsertAt[T any](list []T, index int, item T) []T {
	index = min(max(index, 0), len(list))
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, item)
	return append(out, list[index:]...)
}

// RemoveAt drops the item at index. Out of range indices are no-ops.
func RemoveAt[T any](list []T, index int) []T {
	if !inRange(list, index) {
		return clone(list)
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}

// Permutation returns the index order produced by applying a move to n items.
// Element i of the result is the original position now found at i.
func Permutation(n int, op Op) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	switch op.Kind {
	case OpMove:
		return MoveTo(indices, op.Index, op.To)
	case OpShift:
		return MoveBy(indices, op.Index, op.Delta)
	}
	return indices
}

// Permute reorders list by perm as returned from Permutation.
func Permute[T any](list []T, perm []int) []T {
	out := make([]T, len(list))
	copy(out, list)
	for i, from := range perm {
		if i < len(list) && from < len(list) {
			out[i] = list[from]
		}
	}
	return out
}

func inRange[T any](list []T, index int) bool {
	return index >= 0 && index < len(list)
}

func clone[T any](list []T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	copy(out, list)
	return out
}
