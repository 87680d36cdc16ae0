package gfx

import (
	"tftkit/display"
	"tftkit/hal"
)

// Triangle is a filled triangle.
type Triangle struct {
	display.Object
	color hal.Color
	// Vertices relative to the top-left corner of the bounds.
	pts  [3][2]int
	area int
}

// NewTriangle returns the triangle with the given vertices.
func NewTriangle(x0, y0, x1, y1, x2, y2 int, c hal.Color) *Triangle {
	t := &Triangle{color: c}
	t.SetPoints(x0, y0, x1, y1, x2, y2)
	return t
}

// SetPoints moves the vertices.
func (t *Triangle) SetPoints(x0, y0, x1, y1, x2, y2 int) {
	t.Update(func(r *display.Rect) {
		*r = display.Rect{
			X0: min(x0, x1, x2), Y0: min(y0, y1, y2),
			X1: max(x0, x1, x2), Y1: max(y0, y1, y2),
		}
		t.pts = [3][2]int{
			{x0 - r.X0, y0 - r.Y0},
			{x1 - r.X0, y1 - r.Y0},
			{x2 - r.X0, y2 - r.Y0},
		}
		t.area = edgeFn(t.pts[0], t.pts[1], t.pts[2][0], t.pts[2][1])
	})
}

// SetColor changes the fill color.
func (t *Triangle) SetColor(c hal.Color) {
	t.Update(func(*display.Rect) { t.color = c })
}

func edgeFn(a, b [2]int, x, y int) int {
	return (x-a[0])*(b[1]-a[1]) - (y-a[1])*(b[0]-a[0])
}

// inside tests a point relative to the bounds origin.
func (t *Triangle) inside(x, y int) bool {
	w0 := edgeFn(t.pts[1], t.pts[2], x, y)
	w1 := edgeFn(t.pts[2], t.pts[0], x, y)
	w2 := edgeFn(t.pts[0], t.pts[1], x, y)
	if t.area < 0 {
		return w0 <= 0 && w1 <= 0 && w2 <= 0
	}
	return w0 >= 0 && w1 >= 0 && w2 >= 0
}

func (t *Triangle) DrawRow(buf []hal.Color, y, x0 int) {
	r := t.Bounds()
	if y < r.Y0 || y > r.Y1 {
		return
	}
	from := max(r.X0, x0)
	to := min(r.X1, x0+len(buf)-1)
	for x := from; x <= to; x++ {
		if t.inside(x-r.X0, y-r.Y0) {
			buf[x-x0] = t.color
		}
	}
}

func (t *Triangle) DrawColumn(buf []hal.Color, x, y0 int) {
	r := t.Bounds()
	if x < r.X0 || x > r.X1 {
		return
	}
	from := max(r.Y0, y0)
	to := min(r.Y1, y0+len(buf)-1)
	for y := from; y <= to; y++ {
		if t.inside(x-r.X0, y-r.Y0) {
			buf[y-y0] = t.color
		}
	}
}
