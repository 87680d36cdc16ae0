package kernel

import (
	"context"
	"sync/atomic"
	"time"
)

type ownerKey struct{ m *RecursiveMutex }

type owner struct {
	depth int
}

// RecursiveMutex is a lock that its holder may acquire again.
//
// Ownership travels in the context returned by Lock: calls made with that
// context (or one derived from it) re-enter instead of deadlocking, any
// other context waits.
type RecursiveMutex struct {
	mu    *Mutex
	owner atomic.Pointer[owner]
}

func NewRecursiveMutex() *RecursiveMutex {
	return &RecursiveMutex{mu: NewMutex()}
}

func (m *RecursiveMutex) heldBy(ctx context.Context) *owner {
	o, _ := ctx.Value(ownerKey{m}).(*owner)
	if o != nil && m.owner.Load() == o {
		return o
	}
	return nil
}

// Held reports whether ctx carries ownership of m.
func (m *RecursiveMutex) Held(ctx context.Context) bool {
	return m.heldBy(ctx) != nil
}

// Lock acquires m within timeout and returns the owning context.
func (m *RecursiveMutex) Lock(ctx context.Context, timeout time.Duration) (context.Context, error) {
	if o := m.heldBy(ctx); o != nil {
		o.depth++
		return ctx, nil
	}
	if err := m.mu.LockContext(ctx, timeout); err != nil {
		return ctx, err
	}
	o := &owner{depth: 1}
	m.owner.Store(o)
	return context.WithValue(ctx, ownerKey{m}, o), nil
}

// Unlock releases one level of ownership. ctx must be the one Lock returned.
func (m *RecursiveMutex) Unlock(ctx context.Context) {
	o := m.heldBy(ctx)
	if o == nil {
		panic("kernel: recursive mutex unlocked by non-owner")
	}
	o.depth--
	if o.depth > 0 {
		return
	}
	m.owner.Store(nil)
	m.mu.Unlock()
}
