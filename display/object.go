package display

import (
	"sync/atomic"

	"tftkit/hal"
)

// Action is a touch event delivered to an active object.
type Action uint8

const (
	ActionNone Action = iota
	ActionTouch
	ActionUntouch
	ActionMove
	ActionMoveIn
	ActionMoveOut
	ActionHold
)

func (a Action) String() string {
	switch a {
	case ActionTouch:
		return "touch"
	case ActionUntouch:
		return "untouch"
	case ActionMove:
		return "move"
	case ActionMoveIn:
		return "move-in"
	case ActionMoveOut:
		return "move-out"
	case ActionHold:
		return "hold"
	default:
		return "none"
	}
}

// Event is a touch event. PrevX and PrevY hold the previous sample for
// move events and repeat X and Y otherwise.
type Event struct {
	Action Action
	X, Y   int
	PrevX  int
	PrevY  int
}

// Drawable is anything the composer can paint. Implementations embed Object.
type Drawable interface {
	// DrawRow paints screen row y into buf, where buf[0] is screen column x0.
	// It must only write its own pixels that fall inside buf and must not
	// modify the object.
	DrawRow(buf []hal.Color, y, x0 int)
	// OnAction handles a touch event. Only active objects receive events,
	// and the handler runs without display locks held.
	OnAction(ev Event)

	base() *Object
}

// ColumnDrawer is implemented by drawables that can paint a screen column
// natively. Others are painted pixel by pixel in column-major mode.
type ColumnDrawer interface {
	// DrawColumn paints screen column x into buf, where buf[0] is screen row y0.
	DrawColumn(buf []hal.Color, x, y0 int)
}

// Object carries the state shared by all drawables: bounding box, Z order,
// touch participation and list membership.
//
// Mutations of a shown object go through Update, which serializes them with
// the composer and repaints the old and new areas.
//
// Go has no destructors: an object that is no longer needed must be hidden
// by its owner. Closing the Driver detaches every object still shown, so
// they can be shown on a new Driver.
type Object struct {
	disp   atomic.Pointer[Driver]
	bounds Rect
	z      uint32
	active bool
	node   atomic.Int32
}

func (o *Object) base() *Object { return o }

// Bounds returns the bounding box. It is meant for DrawRow, OnAction and
// Update callbacks, or for objects no other goroutine is changing.
func (o *Object) Bounds() Rect { return o.bounds }

// Z returns the priority the object was last shown with.
func (o *Object) Z() uint32 { return o.z }

// IsShown reports whether the object is in a display list.
func (o *Object) IsShown() bool { return o.node.Load() != 0 }

// Active reports whether the object receives touch events.
func (o *Object) Active() bool { return o.active }

// Driver returns the display the object was last shown on, or nil once
// that display is closed.
func (o *Object) Driver() *Driver { return o.disp.Load() }

// OnAction is the default no-op touch handler.
func (o *Object) OnAction(Event) {}

// Update runs fn with the object locked against the composer. fn may change
// the object's own fields and the bounding box through r; both the previous
// and the resulting areas are invalidated when the object is shown.
func (o *Object) Update(fn func(r *Rect)) {
	d := o.disp.Load()
	if d == nil {
		fn(&o.bounds)
		return
	}
	d.line.Lock()
	defer d.line.Unlock()
	shown := o.IsShown()
	if shown {
		d.invalidateLocked(o.bounds)
	}
	fn(&o.bounds)
	if shown {
		d.invalidateLocked(o.bounds)
	}
}

// SetActive enables or disables touch events for the object.
func (o *Object) SetActive(active bool) {
	d := o.disp.Load()
	if d == nil {
		o.active = active
		return
	}
	d.line.Lock()
	o.active = active
	d.line.Unlock()
}

// SetBounds replaces the bounding box.
func (o *Object) SetBounds(r Rect) {
	o.Update(func(b *Rect) { *b = r })
}

// Move places the top-left corner at (x, y), keeping the size.
func (o *Object) Move(x, y int) {
	o.Update(func(r *Rect) {
		dx, dy := x-r.X0, y-r.Y0
		*r = Rect{X0: x, Y0: y, X1: r.X1 + dx, Y1: r.Y1 + dy}
	})
}

// MoveBy shifts the object by (dx, dy).
func (o *Object) MoveBy(dx, dy int) {
	o.Update(func(r *Rect) {
		*r = Rect{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
	})
}

// Invalidate schedules a repaint of the object's area.
func (o *Object) Invalidate() {
	o.Update(func(*Rect) {})
}
