package gfx

import (
	"sync/atomic"

	"tftkit/display"
	"tftkit/hal"
)

// Checkbox is a square toggle. A touch flips its state and calls the
// change handler.
type Checkbox struct {
	display.Object
	color    hal.Color
	bg       hal.Color
	checked  atomic.Bool
	onChange func(checked bool)
}

// NewCheckbox returns an unchecked size x size checkbox at (x, y) drawn in c
// over bg. It receives touch events as soon as it is shown.
func NewCheckbox(x, y, size int, c, bg hal.Color) *Checkbox {
	cb := &Checkbox{color: c, bg: bg}
	cb.SetBounds(display.RectWH(x, y, size, size))
	cb.SetActive(true)
	return cb
}

// OnChange sets the handler called after every toggle.
func (cb *Checkbox) OnChange(fn func(checked bool)) {
	cb.Update(func(*display.Rect) { cb.onChange = fn })
}

// Checked reports the current state.
func (cb *Checkbox) Checked() bool {
	return cb.checked.Load()
}

// SetChecked changes the state without calling the handler.
func (cb *Checkbox) SetChecked(checked bool) {
	cb.Update(func(*display.Rect) { cb.checked.Store(checked) })
}

func (cb *Checkbox) OnAction(ev display.Event) {
	if ev.Action != display.ActionTouch {
		return
	}
	var checked bool
	var fn func(bool)
	cb.Update(func(*display.Rect) {
		checked = !cb.checked.Load()
		cb.checked.Store(checked)
		fn = cb.onChange
	})
	if fn != nil {
		fn(checked)
	}
}

// inset is the gap between the border and the check mark.
func (cb *Checkbox) inset() int {
	return max(cb.Bounds().Dx()/4, 2)
}

func (cb *Checkbox) DrawRow(buf []hal.Color, y, x0 int) {
	r := cb.Bounds()
	if y < r.Y0 || y > r.Y1 {
		return
	}
	if y == r.Y0 || y == r.Y1 {
		display.FillSpan(buf, x0, r.X0, r.X1, cb.color)
		return
	}
	display.FillSpan(buf, x0, r.X0+1, r.X1-1, cb.bg)
	display.FillSpan(buf, x0, r.X0, r.X0, cb.color)
	display.FillSpan(buf, x0, r.X1, r.X1, cb.color)
	if n := cb.inset(); cb.checked.Load() && y >= r.Y0+n && y <= r.Y1-n {
		display.FillSpan(buf, x0, r.X0+n, r.X1-n, cb.color)
	}
}
