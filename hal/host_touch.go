//go:build !tinygo

package hal

import "sync"

// SimTouch is a touchscreen fed by the host window, the HTTP server or tests.
// Press takes coordinates on the unrotated panel, like a real digitizer
// glued to the glass.
type SimTouch struct {
	mu      sync.Mutex
	w, h    int
	rot     Rotation
	cal     Calibration
	touched bool
	nx, ny  int
}

// NewSimTouch creates a digitizer covering a w x h panel.
func NewSimTouch(w, h int) *SimTouch {
	return &SimTouch{w: w, h: h, cal: IdentityCalibration}
}

func (t *SimTouch) Init() error { return nil }

// Press moves the pointer to native (nx, ny) and holds it down.
func (t *SimTouch) Press(nx, ny int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touched = true
	t.nx, t.ny = nx, ny
}

// Release lifts the pointer.
func (t *SimTouch) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touched = false
}

func (t *SimTouch) IsTouched() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.touched
}

func (t *SimTouch) GetXY() (x, y int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.touched {
		return 0, 0, false
	}
	x, y = FromNative(t.rot, t.w, t.h, t.nx, t.ny)
	x, y = t.cal.Apply(x, y)
	return x, y, true
}

func (t *SimTouch) SetRotation(r Rotation) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rot = r % 4
	return nil
}

func (t *SimTouch) SetCalibration(c Calibration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cal = c
	return nil
}
