package collections

// Split is a collection shown as one list but stored in two parts: entries
// already persisted followed by entries waiting for upload.
type Split[P, Q any] struct {
	Persisted []P
	Pending   []Q
}

// Len reports the combined length.
func (s Split[P, Q]) Len() int {
	return len(s.Persisted) + len(s.Pending)
}

// MoveSplit moves within one part. Combined indices address persisted entries
// first; a move that would cross into the other part is a no-op.
func MoveSplit[P, Q any](s Split[P, Q], from, to int) Split[P, Q] {
	boundary := len(s.Persisted)
	out := Split[P, Q]{Persisted: clone(s.Persisted), Pending: clone(s.Pending)}
	switch {
	case from < 0 || to < 0 || from >= s.Len() || to >= s.Len():
	case from < boundary && to < boundary:
		out.Persisted = MoveTo(s.Persisted, from, to)
	case from >= boundary && to >= boundary:
		out.Pending = MoveTo(s.Pending, from-boundary, to-boundary)
	}
	return out
}

// ShiftSplit moves the entry at index by delta within its own part.
func ShiftSplit[P, Q any](s Split[P, Q], index, delta int) Split[P, Q] {
	return MoveSplit(s, index, index+delta)
}

// RemoveSplit drops the entry at the combined index.
func RemoveSplit[P, Q any](s Split[P, Q], index int) Split[P, Q] {
	boundary := len(s.Persisted)
	out := Split[P, Q]{Persisted: clone(s.Persisted), Pending: clone(s.Pending)}
	switch {
	case index < 0 || index >= s.Len():
	case index < boundary:
		out.Persisted = RemoveAt(s.Persisted, index)
	default:
		out.Pending = RemoveAt(s.Pending, index-boundary)
	}
	return out
}
