package gfx

import (
	"tftkit/display"
	"tftkit/hal"
)

// Line is a one pixel wide Bresenham line.
type Line struct {
	display.Object
	color hal.Color
	// Endpoints relative to the top-left corner of the bounds.
	ax, ay int
	bx, by int
}

// NewLine returns a line from (x0, y0) to (x1, y1), both included.
func NewLine(x0, y0, x1, y1 int, c hal.Color) *Line {
	l := &Line{color: c}
	l.SetPoints(x0, y0, x1, y1)
	return l
}

// SetPoints moves both endpoints.
func (l *Line) SetPoints(x0, y0, x1, y1 int) {
	l.Update(func(r *display.Rect) {
		*r = display.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}.Canon()
		l.ax, l.ay = x0-r.X0, y0-r.Y0
		l.bx, l.by = x1-r.X0, y1-r.Y0
	})
}

// SetColor changes the line color.
func (l *Line) SetColor(c hal.Color) {
	l.Update(func(*display.Rect) { l.color = c })
}

// walk visits the pixels of the line from the first endpoint until fn
// returns false.
func (l *Line) walk(fn func(x, y int) bool) {
	r := l.Bounds()
	x0, y0 := r.X0+l.ax, r.Y0+l.ay
	x1, y1 := r.X0+l.bx, r.Y0+l.by

	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	e := dx + dy
	for {
		if !fn(x0, y0) || (x0 == x1 && y0 == y1) {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (l *Line) DrawRow(buf []hal.Color, y, x0 int) {
	r := l.Bounds()
	if y < r.Y0 || y > r.Y1 {
		return
	}
	seen := false
	l.walk(func(px, py int) bool {
		if py != y {
			return !seen
		}
		seen = true
		if i := px - x0; i >= 0 && i < len(buf) {
			buf[i] = l.color
		}
		return true
	})
}

func (l *Line) DrawColumn(buf []hal.Color, x, y0 int) {
	r := l.Bounds()
	if x < r.X0 || x > r.X1 {
		return
	}
	seen := false
	l.walk(func(px, py int) bool {
		if px != x {
			return !seen
		}
		seen = true
		if i := py - y0; i >= 0 && i < len(buf) {
			buf[i] = l.color
		}
		return true
	})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
