package kernel

import (
	"context"
	"time"
)

// Task is a periodic unit of work, split like a firmware task into one-time
// setup and a loop body.
type Task interface {
	Setup() error
	Loop(ctx context.Context) error
}

// Run calls Setup once and then Loop until ctx ends or Loop fails.
func Run(ctx context.Context, t Task) error {
	if err := t.Setup(); err != nil {
		return err
	}
	return Loop(ctx, t.Loop)
}

// Loop calls fn until ctx ends or fn fails.
func Loop(ctx context.Context, fn func(ctx context.Context) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx); err != nil {
			return err
		}
	}
}

// StartTicker calls fn every period from a background goroutine until ctx ends.
func StartTicker(ctx context.Context, period time.Duration, fn func()) {
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				fn()
			}
		}
	}()
}
