package kernel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

const testTimeout = 2 * time.Second

func recvWithTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatalf("timeout waiting for value")
		var zero T
		return zero
	}
}

func TestSemaphoreCollapsesGives(t *testing.T) {
	s := NewSemaphore()
	s.Give()
	s.Give()
	s.Give()

	if err := s.Take(context.Background(), 0); err != nil {
		t.Fatalf("Take() = %v, want nil", err)
	}
	if err := s.Take(context.Background(), 0); !errors.Is(err, ErrTimeout) {
		t.Fatalf("second Take() = %v, want %v", err, ErrTimeout)
	}
}

func TestSemaphoreTakeTimeout(t *testing.T) {
	s := NewSemaphore()
	start := time.Now()
	err := s.Take(context.Background(), 20*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Take() = %v, want %v", err, ErrTimeout)
	}
	if d := time.Since(start); d < 20*time.Millisecond {
		t.Fatalf("Take() returned after %v, want >= 20ms", d)
	}
}

func TestSemaphoreTakeWakes(t *testing.T) {
	s := NewSemaphore()
	done := make(chan error, 1)
	go func() { done <- s.Take(context.Background(), Forever) }()
	time.Sleep(5 * time.Millisecond)
	s.Give()
	if err := recvWithTimeout(t, done); err != nil {
		t.Fatalf("Take() = %v, want nil", err)
	}
}

func TestSemaphoreTakeCanceled(t *testing.T) {
	s := NewSemaphore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Take(ctx, Forever) }()
	cancel()
	if err := recvWithTimeout(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("Take() = %v, want %v", err, context.Canceled)
	}
}

func TestMutexTryLock(t *testing.T) {
	m := NewMutex()
	if !m.TryLock(0) {
		t.Fatalf("TryLock() = false on free mutex")
	}
	if m.TryLock(5 * time.Millisecond) {
		t.Fatalf("TryLock() = true on held mutex")
	}
	m.Unlock()
	if !m.TryLock(0) {
		t.Fatalf("TryLock() = false after Unlock")
	}
	m.Unlock()
}

func TestMutexUnlockUnlockedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Unlock() of unlocked mutex did not panic")
		}
	}()
	NewMutex().Unlock()
}

func TestMutexConcurrent(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		workers = 4
		perWork = 5_000
	)

	m := NewMutex()
	counter := 0

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < perWork; j++ {
				m.Lock()
				counter++
				Yield()
				m.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if counter != workers*perWork {
		t.Fatalf("counter = %d, want %d", counter, workers*perWork)
	}
}
