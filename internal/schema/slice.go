package schema

// Slice is a fixed-window, read-only view over cached records. Windows
// handed to strategies reference the scheduler's caches directly, so a
// Slice must not outlive the replay step that produced it.
type Slice[T any] struct {
	symbol   string
	count    int
	segments [][]T
}

// NewSlice creates a view with an optional first segment.
func NewSlice[T any](symbol string, items []T) *Slice[T] {
	s := &Slice[T]{symbol: symbol}
	s.Append(items)
	return s
}

// Append adds a contiguous segment to the view.
func (s *Slice[T]) Append(items []T) bool {
	if len(items) == 0 {
		return false
	}
	s.count += len(items)
	s.segments = append(s.segments, items)
	return true
}

// At returns the record at index. Negative indexes count from the end.
func (s *Slice[T]) At(index int) *T {
	if s == nil || s.count == 0 || index >= s.count || index < -s.count {
		return nil
	}
	if index < 0 {
		index += s.count
	}
	for _, seg := range s.segments {
		if index >= len(seg) {
			index -= len(seg)
			continue
		}
		return &seg[index]
	}
	return nil
}

// Symbol returns the symbol this view belongs to.
func (s *Slice[T]) Symbol() string { return s.symbol }

// Size returns the total number of records in the view.
func (s *Slice[T]) Size() int {
	if s == nil {
		return 0
	}
	return s.count
}

// Empty reports whether the view holds no records.
func (s *Slice[T]) Empty() bool { return s.Size() == 0 }
