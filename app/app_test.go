package app

import (
	"context"
	"testing"
	"time"

	"tftkit/board"
	"tftkit/display"
	"tftkit/hal"
)

const testTimeout = 5 * time.Second

func newTestApp(t *testing.T) (*App, *hal.Host) {
	t.Helper()
	b := board.NewHost(hal.HostConfig{Width: 160, Height: 160})
	a, err := New(b, Config{Display: display.Config{TriggerTimeout: 5 * time.Millisecond}})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		// Let the composer observe the cancellation before the panel closes.
		time.Sleep(20 * time.Millisecond)
		_ = a.Close()
	})
	a.Start(ctx)
	return a, b.Sim()
}

// tickUntil ticks the scene until cond holds.
func tickUntil(t *testing.T, a *App, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		if err := a.Tick(); err != nil {
			t.Fatalf("Tick() = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// tickFor ticks the scene for d so that the composer sees the current touch
// state.
func tickFor(t *testing.T, a *App, d time.Duration) {
	t.Helper()
	for end := time.Now().Add(d); time.Now().Before(end); {
		if err := a.Tick(); err != nil {
			t.Fatalf("Tick() = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSceneRenders(t *testing.T) {
	a, sim := newTestApp(t)
	if got := a.Driver().Len(); got != 10 {
		t.Fatalf("Len() = %d, want 10", got)
	}
	tickUntil(t, a, "frame border", func() bool {
		return sim.Panel().Pixel(4, 44) == colorFrame
	})
	tickUntil(t, a, "console text", func() bool {
		for y := 80; y < 160; y++ {
			for x := 0; x < 160; x++ {
				if sim.Panel().Pixel(x, y) == hal.ColorWhite {
					return true
				}
			}
		}
		return false
	})
}

func TestCheckboxHidesShapes(t *testing.T) {
	a, sim := newTestApp(t)
	tickUntil(t, a, "first frame", func() bool { return a.Driver().Stats().Frames > 0 })

	sim.Touch().Press(10, 26)
	tickUntil(t, a, "shapes hidden", func() bool { return a.Driver().Len() == 7 })
	if a.shapes.Checked() {
		t.Fatalf("Checked() = true after touch, want false")
	}

	sim.Touch().Release()
	tickFor(t, a, 100*time.Millisecond)
	sim.Touch().Press(10, 26)
	tickUntil(t, a, "shapes shown", func() bool { return a.Driver().Len() == 10 })
}

func TestSpriteBounces(t *testing.T) {
	a, _ := newTestApp(t)
	for i := 0; i < 200; i++ {
		if err := a.Tick(); err != nil {
			t.Fatalf("Tick() = %v", err)
		}
		b := a.sprite.Bounds()
		if !a.area.ContainsRect(b) {
			t.Fatalf("tick %d: sprite %v left area %v", i, b, a.area)
		}
	}
}
