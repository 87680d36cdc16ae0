package kernel

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecursiveMutexReenter(t *testing.T) {
	m := NewRecursiveMutex()
	ctx := context.Background()

	held, err := m.Lock(ctx, Forever)
	if err != nil {
		t.Fatalf("Lock() = %v", err)
	}
	if !m.Held(held) {
		t.Fatalf("Held() = false for owning context")
	}
	if m.Held(ctx) {
		t.Fatalf("Held() = true for parent context")
	}

	inner, err := m.Lock(held, 0)
	if err != nil {
		t.Fatalf("nested Lock() = %v, want nil", err)
	}
	m.Unlock(inner)
	if !m.Held(held) {
		t.Fatalf("Held() = false after nested Unlock")
	}
	m.Unlock(held)
	if m.Held(held) {
		t.Fatalf("Held() = true after final Unlock")
	}

	again, err := m.Lock(ctx, 0)
	if err != nil {
		t.Fatalf("Lock() after release = %v", err)
	}
	m.Unlock(again)
}

func TestRecursiveMutexExcludesOthers(t *testing.T) {
	m := NewRecursiveMutex()
	held, err := m.Lock(context.Background(), Forever)
	if err != nil {
		t.Fatalf("Lock() = %v", err)
	}

	if _, err := m.Lock(context.Background(), 5*time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Fatalf("foreign Lock() = %v, want %v", err, ErrTimeout)
	}

	got := make(chan error, 1)
	go func() {
		c, err := m.Lock(context.Background(), Forever)
		if err == nil {
			m.Unlock(c)
		}
		got <- err
	}()
	time.Sleep(5 * time.Millisecond)
	m.Unlock(held)
	if err := recvWithTimeout(t, got); err != nil {
		t.Fatalf("waiting Lock() = %v, want nil", err)
	}
}

func TestRecursiveMutexStaleContext(t *testing.T) {
	m := NewRecursiveMutex()
	first, _ := m.Lock(context.Background(), Forever)
	m.Unlock(first)

	second, err := m.Lock(context.Background(), Forever)
	if err != nil {
		t.Fatalf("Lock() = %v", err)
	}
	defer m.Unlock(second)

	if m.Held(first) {
		t.Fatalf("Held() = true for a released owner")
	}
	if _, err := m.Lock(first, 0); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Lock() with stale context = %v, want %v", err, ErrTimeout)
	}
}

func TestRecursiveMutexForeignUnlockPanics(t *testing.T) {
	m := NewRecursiveMutex()
	held, _ := m.Lock(context.Background(), Forever)
	defer m.Unlock(held)
	defer func() {
		if recover() == nil {
			t.Fatalf("Unlock() by non-owner did not panic")
		}
	}()
	m.Unlock(context.Background())
}
