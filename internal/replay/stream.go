package replay

import (
	"math"

	"github.com/yanun0323/errors"
)

// ErrOutOfOrder reports raw input whose timestamps go backwards. Such
// data is rejected at append time, never replayed.
var ErrOutOfOrder = errors.New("stream timestamps out of order")

// stream is a forward-only cursor over one symbol's records for one
// trading date. Cursors only ever advance.
type stream[T any] struct {
	symbol string
	date   uint32
	cursor int
	items  []T
	tsOf   func(*T) int64
}

func newStream[T any](symbol string, tsOf func(*T) int64) *stream[T] {
	return &stream[T]{symbol: symbol, tsOf: tsOf, cursor: math.MaxInt}
}

// load replaces the cursor's backing data with one date's records,
// validating that timestamps never decrease.
func (s *stream[T]) load(date uint32, items []T) error {
	var last int64 = math.MinInt64
	for i := range items {
		ts := s.tsOf(&items[i])
		if ts < last {
			return errors.Wrapf(ErrOutOfOrder, "%s %d record %d", s.symbol, date, i)
		}
		last = ts
	}
	s.date = date
	s.cursor = 0
	s.items = items
	return nil
}

// drop marks the cursor exhausted without data, used when a
// symbol/date has nothing to replay.
func (s *stream[T]) drop(date uint32) {
	s.date = date
	s.cursor = 0
	s.items = nil
}

func (s *stream[T]) exhausted() bool {
	return s.cursor >= len(s.items)
}

// peek returns the next record's timestamp without advancing.
func (s *stream[T]) peek() (int64, bool) {
	if s.exhausted() {
		return 0, false
	}
	return s.tsOf(&s.items[s.cursor]), true
}

// next returns the record under the cursor and advances past it.
func (s *stream[T]) next() *T {
	item := &s.items[s.cursor]
	s.cursor++
	return item
}

// skipBefore advances the cursor past records older than ts.
func (s *stream[T]) skipBefore(ts int64) {
	for !s.exhausted() && s.tsOf(&s.items[s.cursor]) < ts {
		s.cursor++
	}
}

// window returns up to count already-replayed records ending at the
// cursor, newest last.
func (s *stream[T]) window(count int) []T {
	if s == nil {
		return nil
	}
	end := s.cursor
	if end > len(s.items) {
		end = len(s.items)
	}
	begin := end - count
	if count <= 0 || begin < 0 {
		begin = 0
	}
	return s.items[begin:end]
}
