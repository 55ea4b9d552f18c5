package obs

import "sync/atomic"

// Sequence hands out process-wide monotonic ids. Local order ids are
// drawn from a single shared instance so ids never repeat across
// engine resets within one run.
type Sequence struct {
	next uint64
}

// NewSequence returns a sequence starting after seed.
func NewSequence(seed uint64) *Sequence {
	return &Sequence{next: seed}
}

// Next returns the next id.
func (s *Sequence) Next() uint64 {
	if s == nil {
		return 0
	}
	return atomic.AddUint64(&s.next, 1)
}

// Current returns the last id handed out.
func (s *Sequence) Current() uint64 {
	if s == nil {
		return 0
	}
	return atomic.LoadUint64(&s.next)
}
