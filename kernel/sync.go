package kernel

import (
	"context"
	"errors"
	"runtime"
	"time"
)

// ErrTimeout is returned when a bounded wait expires.
var ErrTimeout = errors.New("timeout")

// Forever disables the timeout of Take and TryLock style waits.
const Forever time.Duration = -1

// Yield lets other goroutines run; used by busy-wait loops.
func Yield() {
	runtime.Gosched()
}

// waitSend and waitRecv block until ch accepts or delivers a value, the timeout
// expires or ctx ends.
func waitSend(ctx context.Context, ch chan struct{}, timeout time.Duration) error {
	select {
	case ch <- struct{}{}:
		return nil
	default:
	}
	if timeout == 0 {
		return ErrTimeout
	}
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case ch <- struct{}{}:
		return nil
	case <-expired:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func waitRecv(ctx context.Context, ch chan struct{}, timeout time.Duration) error {
	select {
	case <-ch:
		return nil
	default:
	}
	if timeout == 0 {
		return ErrTimeout
	}
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case <-ch:
		return nil
	case <-expired:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Semaphore is a binary semaphore: Gives issued before a Take collapse into
// a single wake-up.
type Semaphore struct {
	ch chan struct{}
}

func NewSemaphore() *Semaphore {
	return &Semaphore{ch: make(chan struct{}, 1)}
}

// Give signals the semaphore without blocking.
func (s *Semaphore) Give() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Take waits for a Give. It returns ErrTimeout or ctx.Err() when the wait ends early.
func (s *Semaphore) Take(ctx context.Context, timeout time.Duration) error {
	return waitRecv(ctx, s.ch, timeout)
}

// Mutex is a non-reentrant lock with bounded acquisition.
type Mutex struct {
	ch chan struct{}
}

func NewMutex() *Mutex {
	return &Mutex{ch: make(chan struct{}, 1)}
}

func (m *Mutex) Lock() {
	m.ch <- struct{}{}
}

// TryLock acquires the lock within timeout (0 polls once, Forever blocks).
func (m *Mutex) TryLock(timeout time.Duration) bool {
	return waitSend(context.Background(), m.ch, timeout) == nil
}

// LockContext acquires the lock unless the timeout expires or ctx ends first.
func (m *Mutex) LockContext(ctx context.Context, timeout time.Duration) error {
	return waitSend(ctx, m.ch, timeout)
}

func (m *Mutex) Unlock() {
	select {
	case <-m.ch:
	default:
		panic("kernel: unlock of unlocked mutex")
	}
}
