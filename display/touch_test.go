package display

import (
	"errors"
	"slices"
	"testing"

	"tftkit/hal"
)

func touchDriver(t *testing.T) (*Driver, *scriptTouch) {
	t.Helper()
	d, _ := setupDriver(t, 240, 320, Config{})
	touch := &scriptTouch{}
	if err := d.SetTouchscreen(touch); err != nil {
		t.Fatalf("SetTouchscreen() = %v", err)
	}
	return d, touch
}

func activeBox(t *testing.T, d *Driver, r Rect, z uint32) *testBox {
	t.Helper()
	b := newTestBox(r, hal.ColorWhite)
	b.SetActive(true)
	if err := d.Show(b, z); err != nil {
		t.Fatalf("Show() = %v", err)
	}
	return b
}

func TestTouchSequence(t *testing.T) {
	d, touch := touchDriver(t)
	box := activeBox(t, d, Rect{X0: 90, Y0: 90, X1: 120, Y1: 120}, 1)

	step(t, d)
	touch.press(100, 100)
	step(t, d)
	touch.press(105, 100)
	step(t, d)
	touch.release()
	step(t, d)

	want := []Action{ActionTouch, ActionMove, ActionUntouch}
	if got := box.actions(); !slices.Equal(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	move := box.events[1]
	if move.X != 105 || move.Y != 100 || move.PrevX != 100 || move.PrevY != 100 {
		t.Fatalf("move event = %+v", move)
	}
	// Release reports the last touched point.
	if up := box.events[2]; up.X != 105 || up.Y != 100 {
		t.Fatalf("untouch event = %+v", up)
	}
}

func TestTouchTopmostWins(t *testing.T) {
	d, touch := touchDriver(t)
	low := activeBox(t, d, RectWH(50, 50, 100, 100), 1)
	high := activeBox(t, d, RectWH(80, 80, 100, 100), 2)
	passive := newTestBox(RectWH(0, 0, 240, 320), hal.ColorBlack)
	_ = d.Show(passive, 9)

	touch.press(100, 100)
	step(t, d)
	if len(high.events) != 1 || len(low.events) != 0 || len(passive.events) != 0 {
		t.Fatalf("events high=%v low=%v passive=%v, want one touch on high",
			high.actions(), low.actions(), passive.actions())
	}

	touch.release()
	step(t, d)
	touch.press(60, 60)
	step(t, d)
	if got := low.actions(); !slices.Equal(got, []Action{ActionTouch}) {
		t.Fatalf("low actions = %v, want [touch]", got)
	}
}

func TestTouchHold(t *testing.T) {
	d, touch := touchDriver(t)
	box := activeBox(t, d, RectWH(0, 0, 50, 50), 0)

	touch.press(10, 10)
	step(t, d)
	step(t, d)
	step(t, d)
	want := []Action{ActionTouch, ActionHold, ActionHold}
	if got := box.actions(); !slices.Equal(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
}

func TestTouchMoveInOut(t *testing.T) {
	d, touch := touchDriver(t)
	a := activeBox(t, d, RectWH(0, 0, 50, 50), 0)
	b := activeBox(t, d, RectWH(100, 0, 50, 50), 0)

	touch.press(10, 10)
	step(t, d)
	touch.press(70, 10)
	step(t, d)
	touch.press(110, 10)
	step(t, d)
	touch.press(20, 20)
	step(t, d)

	if got, want := a.actions(), []Action{ActionTouch, ActionMoveOut, ActionMoveIn}; !slices.Equal(got, want) {
		t.Fatalf("a actions = %v, want %v", got, want)
	}
	if got, want := b.actions(), []Action{ActionMoveIn, ActionMoveOut}; !slices.Equal(got, want) {
		t.Fatalf("b actions = %v, want %v", got, want)
	}
}

func TestTouchInactiveIgnored(t *testing.T) {
	d, touch := touchDriver(t)
	box := activeBox(t, d, RectWH(0, 0, 50, 50), 0)
	box.SetActive(false)
	if box.Active() {
		t.Fatalf("Active() = true after SetActive(false)")
	}

	touch.press(10, 10)
	step(t, d)
	if len(box.events) != 0 {
		t.Fatalf("inactive object got %v", box.actions())
	}
}

func TestTouchHandlerMayUpdate(t *testing.T) {
	d, touch := touchDriver(t)
	box := activeBox(t, d, RectWH(0, 0, 20, 20), 0)
	box.onAction = func(ev Event) {
		if ev.Action == ActionTouch {
			box.Update(func(r *Rect) { box.color = hal.ColorRed })
			box.MoveBy(100, 0)
			_ = d.Hide(box)
		}
	}

	touch.press(5, 5)
	step(t, d)
	if box.IsShown() || box.Bounds().X0 != 100 {
		t.Fatalf("after handler: IsShown=%v Bounds=%v", box.IsShown(), box.Bounds())
	}
}

func TestGetTouchXY(t *testing.T) {
	d, touch := touchDriver(t)
	if _, _, ok := d.GetTouchXY(); ok {
		t.Fatalf("GetTouchXY() before any sample = true")
	}
	touch.press(33, 44)
	step(t, d)
	x, y, ok := d.GetTouchXY()
	if !ok || x != 33 || y != 44 {
		t.Fatalf("GetTouchXY() = %d, %d, %v, want 33, 44, true", x, y, ok)
	}

	// The touchscreen sees the release at once; the stored sample changes
	// with the next cycle.
	touch.release()
	if d.IsTouched() {
		t.Fatalf("IsTouched() after release = true")
	}
	if _, _, ok := d.GetTouchXY(); !ok {
		t.Fatalf("GetTouchXY() before the next cycle = false, want true")
	}
	step(t, d)
	if _, _, ok := d.GetTouchXY(); ok {
		t.Fatalf("GetTouchXY() after the next cycle = true, want false")
	}
}

func TestGetTouchXYKeepsUntouch(t *testing.T) {
	d, touch := touchDriver(t)
	box := activeBox(t, d, Rect{X0: 90, Y0: 90, X1: 120, Y1: 120}, 1)

	touch.press(100, 100)
	step(t, d)
	touch.release()
	d.GetTouchXY()
	d.IsTouched()
	step(t, d)

	want := []Action{ActionTouch, ActionUntouch}
	if got := box.actions(); !slices.Equal(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
}

func TestTouchBusyLockSkipsCycle(t *testing.T) {
	d, touch := touchDriver(t)
	box := activeBox(t, d, RectWH(0, 0, 50, 50), 1)

	// The touch handler leaves another goroutine holding the touch lock.
	unlock := make(chan struct{})
	unlocked := make(chan struct{})
	box.onAction = func(ev Event) {
		if ev.Action != ActionTouch {
			return
		}
		locked := make(chan struct{})
		go func() {
			d.touchMu.Lock()
			close(locked)
			<-unlock
			d.touchMu.Unlock()
			close(unlocked)
		}()
		recvWithTimeout(t, locked)
	}

	touch.press(10, 10)
	step(t, d)
	step(t, d)
	if got, want := box.actions(), []Action{ActionTouch}; !slices.Equal(got, want) {
		t.Fatalf("actions while locked = %v, want %v", got, want)
	}

	close(unlock)
	recvWithTimeout(t, unlocked)
	step(t, d)
	if got, want := box.actions(), []Action{ActionTouch, ActionHold}; !slices.Equal(got, want) {
		t.Fatalf("actions after unlock = %v, want %v", got, want)
	}
}

func TestTouchInitFailureDisablesTouch(t *testing.T) {
	d := newTestDriver(t, Config{})
	touch := &scriptTouch{initErr: errors.New("no device")}
	_ = d.SetPanel(newFakePanel(t, 50, 50))
	_ = d.SetTouchscreen(touch)
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	box := activeBox(t, d, RectWH(0, 0, 50, 50), 0)

	touch.press(10, 10)
	step(t, d)
	if len(box.events) != 0 || d.IsTouched() {
		t.Fatalf("disabled touch: events=%v IsTouched=%v", box.actions(), d.IsTouched())
	}
}
