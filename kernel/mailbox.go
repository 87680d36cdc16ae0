package kernel

import "sync/atomic"

// Mailbox is a bounded multi-producer, single-consumer queue with a fixed
// number of slots. It does not allocate after NewMailbox and never blocks in
// TrySend or TryRecv, so it may be fed from any goroutine, including one
// holding display locks.
type Mailbox[T any] struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint64
	tail  atomic.Uint64
	slots []slot[T]
}

// A slot is writable when seq equals the producer position and readable when
// seq is one past it.
type slot[T any] struct {
	seq atomic.Uint64
	val T
}

// NewMailbox returns a mailbox holding up to n messages.
func NewMailbox[T any](n int) *Mailbox[T] {
	n = max(n, 1)
	mb := &Mailbox[T]{slots: make([]slot[T], n)}
	for i := range mb.slots {
		mb.slots[i].seq.Store(uint64(i))
	}
	return mb
}

// TrySend attempts to enqueue v, returning false if the mailbox is full.
func (mb *Mailbox[T]) TrySend(v T) bool {
	n := uint64(len(mb.slots))
	for {
		head := mb.head.Load()
		s := &mb.slots[head%n]
		seq := s.seq.Load()
		switch {
		case seq == head:
			if mb.head.CompareAndSwap(head, head+1) {
				s.val = v
				s.seq.Store(head + 1)
				return true
			}
		case seq < head:
			return false
		}
		// Another producer took the slot; retry with the new head.
	}
}

// Send enqueues v, blocking until it succeeds.
func (mb *Mailbox[T]) Send(v T) {
	for !mb.TrySend(v) {
		Yield()
	}
}

// TryRecv attempts to dequeue one message, returning false if empty. Only
// one goroutine may receive.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	var zero T
	n := uint64(len(mb.slots))
	tail := mb.tail.Load()
	s := &mb.slots[tail%n]
	if s.seq.Load() != tail+1 {
		return zero, false
	}
	v := s.val
	s.val = zero
	s.seq.Store(tail + n)
	mb.tail.Store(tail + 1)
	return v, true
}

// Recv blocks until one message is available.
func (mb *Mailbox[T]) Recv() T {
	for {
		if v, ok := mb.TryRecv(); ok {
			return v
		}
		Yield()
	}
}

// Len returns the number of queued messages.
func (mb *Mailbox[T]) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}

// Cap returns the number of slots.
func (mb *Mailbox[T]) Cap() int { return len(mb.slots) }
