package gfx

import (
	"math"

	"tftkit/display"
	"tftkit/hal"
)

// Circle is a filled disc or a one pixel ring.
type Circle struct {
	display.Object
	color  hal.Color
	radius int
	filled bool
}

// NewCircle returns a circle centered at (cx, cy).
func NewCircle(cx, cy, radius int, c hal.Color, filled bool) *Circle {
	ci := &Circle{color: c, filled: filled}
	ci.SetRadius(cx, cy, radius)
	return ci
}

// SetRadius recenters the circle and changes its radius.
func (c *Circle) SetRadius(cx, cy, radius int) {
	radius = max(radius, 0)
	c.Update(func(r *display.Rect) {
		c.radius = radius
		*r = display.Rect{X0: cx - radius, Y0: cy - radius, X1: cx + radius, Y1: cy + radius}
	})
}

// SetColor changes the circle color.
func (c *Circle) SetColor(col hal.Color) {
	c.Update(func(*display.Rect) { c.color = col })
}

// halfWidth returns the half chord at distance d from the center, or -1
// outside the circle.
func (c *Circle) halfWidth(d int) int {
	d = absInt(d)
	if d > c.radius {
		return -1
	}
	return int(math.Sqrt(float64(c.radius*c.radius + c.radius - d*d)))
}

// span paints the chord at distance d from the center c0 into a buffer whose
// first pixel is at position p0 along the chord.
func (c *Circle) span(buf []hal.Color, p0, c0, d int) {
	hw := min(c.halfWidth(d), c.radius)
	if hw < 0 {
		return
	}
	if c.filled {
		display.FillSpan(buf, p0, c0-hw, c0+hw, c.color)
		return
	}
	inner := min(c.halfWidth(absInt(d)+1), hw-1)
	display.FillSpan(buf, p0, c0-hw, c0-inner-1, c.color)
	display.FillSpan(buf, p0, c0+inner+1, c0+hw, c.color)
}

func (c *Circle) DrawRow(buf []hal.Color, y, x0 int) {
	r := c.Bounds()
	c.span(buf, x0, r.X0+c.radius, y-(r.Y0+c.radius))
}

func (c *Circle) DrawColumn(buf []hal.Color, x, y0 int) {
	r := c.Bounds()
	c.span(buf, y0, r.Y0+c.radius, x-(r.X0+c.radius))
}
