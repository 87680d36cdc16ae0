package display

import "math"

// Tracker records the screen areas waiting for a repaint.
//
// With capacity 0 it keeps a single bounding rectangle. With capacity N it
// queues up to N rectangles in arrival order; when the queue is full the new
// area is merged into the entry whose bounding union grows the least, so
// coverage is never lost.
//
// Tracker is not safe for concurrent use; the Driver guards it with its line lock.
type Tracker struct {
	capacity  int
	width     int
	height    int
	transpose bool
	rects     []Rect
}

// NewTracker returns an empty tracker for a screen of size 0x0; call Resize.
func NewTracker(capacity int) *Tracker {
	if capacity < 0 {
		capacity = 0
	}
	return &Tracker{
		capacity: capacity,
		rects:    make([]Rect, 0, max(capacity, 1)),
	}
}

// Resize sets the screen bounds used for clamping.
func (t *Tracker) Resize(w, h int) {
	t.width, t.height = w, h
}

// SetTranspose makes Invalidate report rectangles in column-major scan space:
// scan lines follow screen columns left to right and run bottom to top.
func (t *Tracker) SetTranspose(on bool) {
	t.transpose = on
}

// Invalidate clamps r to the screen and records it. Rectangles that are
// empty after clamping are rejected with ErrInvalidRegion.
func (t *Tracker) Invalidate(r Rect) error {
	r = r.Clamp(t.width, t.height)
	if r.Empty() {
		return ErrInvalidRegion
	}
	if t.transpose {
		r = Rect{
			X0: t.height - 1 - r.Y1,
			Y0: r.X0,
			X1: t.height - 1 - r.Y0,
			Y1: r.X1,
		}
	}
	t.add(r)
	return nil
}

func (t *Tracker) add(r Rect) {
	if t.capacity == 0 {
		if len(t.rects) == 0 {
			t.rects = append(t.rects, r)
		} else {
			t.rects[0] = t.rects[0].Union(r)
		}
		return
	}

	for _, q := range t.rects {
		if q.ContainsRect(r) {
			return
		}
	}
	if len(t.rects) < t.capacity {
		t.rects = append(t.rects, r)
		return
	}

	best, cost := 0, math.MaxInt
	for i, q := range t.rects {
		if c := q.Union(r).Area() - q.Area(); c < cost {
			best, cost = i, c
		}
	}
	t.rects[best] = t.rects[best].Union(r)
}

// Len returns the number of pending rectangles.
func (t *Tracker) Len() int { return len(t.rects) }

// Dirty reports whether anything waits for a repaint.
func (t *Tracker) Dirty() bool { return len(t.rects) > 0 }

// TakeNext removes and returns the oldest pending rectangle.
func (t *Tracker) TakeNext() (Rect, bool) {
	if len(t.rects) == 0 {
		return Rect{}, false
	}
	r := t.rects[0]
	t.rects = t.rects[:copy(t.rects, t.rects[1:])]
	return r, true
}

// Drain removes and returns every pending rectangle.
func (t *Tracker) Drain() []Rect {
	out := append([]Rect(nil), t.rects...)
	t.rects = t.rects[:0]
	return out
}
