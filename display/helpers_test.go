package display

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"tftkit/hal"
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

// testBox is a filled rectangle that records the events it receives.
type testBox struct {
	Object
	color    hal.Color
	events   []Event
	onAction func(Event)
}

func newTestBox(r Rect, c hal.Color) *testBox {
	b := &testBox{color: c}
	b.bounds = r
	return b
}

func (b *testBox) DrawRow(buf []hal.Color, y, x0 int) {
	if y < b.bounds.Y0 || y > b.bounds.Y1 {
		return
	}
	FillSpan(buf, x0, b.bounds.X0, b.bounds.X1, b.color)
}

func (b *testBox) OnAction(ev Event) {
	b.events = append(b.events, ev)
	if b.onAction != nil {
		b.onAction(ev)
	}
}

func (b *testBox) actions() []Action {
	out := make([]Action, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, ev.Action)
	}
	return out
}

// fakePanel is a synchronous RGB565 panel that keeps the last frame in
// screen coordinates and checks the transfer protocol. A transfer stays in
// flight for delay polls of IsTransferComplete; its buffer must not change
// until then.
type fakePanel struct {
	t     *testing.T
	w, h  int
	delay int

	rot      hal.Rotation
	inverted bool
	frame    []hal.Color
	win      [4]int
	cx, cy   int

	inflight []byte
	snapshot []byte
	polls    int

	transfers []int
	windows   int
	stops     int
}

func newFakePanel(t *testing.T, w, h int) *fakePanel {
	n := max(w, h)
	return &fakePanel{t: t, w: w, h: h, frame: make([]hal.Color, n*n)}
}

func (p *fakePanel) Init() error { return nil }

func (p *fakePanel) Width() int {
	w, _ := hal.RotatedSize(p.rot, p.w, p.h)
	return w
}

func (p *fakePanel) Height() int {
	_, h := hal.RotatedSize(p.rot, p.w, p.h)
	return h
}

func (p *fakePanel) SetAddrWindow(x0, y0, x1, y1 int) error {
	if p.inflight != nil {
		p.t.Errorf("SetAddrWindow() during a transfer")
	}
	p.win = [4]int{x0, y0, x1, y1}
	p.cx, p.cy = x0, y0
	p.windows++
	return nil
}

func (p *fakePanel) WriteDataStream(buf []byte) error {
	if p.inflight != nil {
		p.t.Errorf("WriteDataStream() while a transfer is in flight")
	}
	p.inflight = buf
	p.snapshot = append(p.snapshot[:0], buf...)
	p.polls = p.delay
	p.transfers = append(p.transfers, len(buf)/2)
	for i := 0; i+1 < len(buf); i += 2 {
		p.put(hal.Color(uint16(buf[i])<<8 | uint16(buf[i+1])))
	}
	return nil
}

func (p *fakePanel) put(c hal.Color) {
	n := max(p.w, p.h)
	if p.cx >= 0 && p.cy >= 0 && p.cx < n && p.cy < n {
		p.frame[p.cy*n+p.cx] = c
	}
	p.cx++
	if p.cx > p.win[2] {
		p.cx = p.win[0]
		p.cy++
	}
}

func (p *fakePanel) checkInflight() {
	if !bytes.Equal(p.inflight, p.snapshot) {
		p.t.Errorf("in-flight buffer modified before the transfer completed")
	}
}

func (p *fakePanel) IsTransferComplete() bool {
	if p.inflight == nil {
		return true
	}
	p.checkInflight()
	if p.polls > 0 {
		p.polls--
		return false
	}
	p.inflight = nil
	return true
}

func (p *fakePanel) StopTransfer() error {
	if p.inflight != nil {
		p.t.Errorf("StopTransfer() during a transfer")
	}
	p.stops++
	return nil
}

func (p *fakePanel) SetRotation(r hal.Rotation) error {
	p.rot = r
	return nil
}

func (p *fakePanel) InvertDisplay(invert bool) error {
	p.inverted = invert
	return nil
}

// shape returns the number of transfers and the size of the first one.
func (p *fakePanel) shape() (n, first int) {
	if len(p.transfers) == 0 {
		return 0, 0
	}
	return len(p.transfers), p.transfers[0]
}

func (p *fakePanel) pixel(x, y int) hal.Color {
	return p.frame[y*max(p.w, p.h)+x]
}

// scriptTouch replays touch samples in screen coordinates.
type scriptTouch struct {
	mu      sync.Mutex
	touched bool
	x, y    int
	rot     hal.Rotation
	cal     hal.Calibration
	initErr error
}

func (s *scriptTouch) Init() error { return s.initErr }

func (s *scriptTouch) IsTouched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *scriptTouch) GetXY() (int, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.touched {
		return 0, 0, false
	}
	return s.x, s.y, true
}

func (s *scriptTouch) SetRotation(r hal.Rotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rot = r
	return nil
}

func (s *scriptTouch) SetCalibration(c hal.Calibration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cal = c
	return nil
}

func (s *scriptTouch) calibration() hal.Calibration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cal
}

func (s *scriptTouch) press(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched, s.x, s.y = true, x, y
}

func (s *scriptTouch) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = false
}

func newTestDriver(t *testing.T, cfg Config) *Driver {
	t.Helper()
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

// setupDriver returns a set-up driver over a fresh fakePanel. The whole
// screen is dirty.
func setupDriver(t *testing.T, w, h int, cfg Config) (*Driver, *fakePanel) {
	t.Helper()
	d := newTestDriver(t, cfg)
	p := newFakePanel(t, w, h)
	if err := d.SetPanel(p); err != nil {
		t.Fatalf("SetPanel() = %v", err)
	}
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	return d, p
}

// step runs one composer cycle with a pending repaint request.
func step(t *testing.T, d *Driver) {
	t.Helper()
	d.RequestRepaint()
	if err := d.Loop(context.Background()); err != nil {
		t.Fatalf("Loop() = %v", err)
	}
}
