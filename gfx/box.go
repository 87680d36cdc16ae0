package gfx

import (
	"tftkit/display"
	"tftkit/hal"
)

// Box is a rectangle with a border and an optional fill.
type Box struct {
	display.Object
	color  hal.Color
	fill   hal.Color
	filled bool
	border int
}

// NewBox returns a w x h box at (x, y). A filled box is painted solid in c;
// an outline gets a one pixel border.
func NewBox(x, y, w, h int, c hal.Color, filled bool) *Box {
	b := &Box{color: c, fill: c, filled: filled}
	if !filled {
		b.border = 1
	}
	b.SetBounds(display.RectWH(x, y, w, h))
	return b
}

// SetColor changes the border color, and the fill of a borderless box.
func (b *Box) SetColor(c hal.Color) {
	b.Update(func(*display.Rect) {
		b.color = c
		if b.border == 0 {
			b.fill = c
		}
	})
}

// SetFillColor fills the inside of the box with c.
func (b *Box) SetFillColor(c hal.Color) {
	b.Update(func(*display.Rect) {
		b.fill = c
		b.filled = true
	})
}

// SetBorder sets the border width in pixels.
func (b *Box) SetBorder(width int) {
	b.Update(func(*display.Rect) {
		b.border = max(width, 0)
	})
}

func (b *Box) DrawRow(buf []hal.Color, y, x0 int) {
	r := b.Bounds()
	if y < r.Y0 || y > r.Y1 {
		return
	}
	if b.filled {
		display.FillSpan(buf, x0, r.X0, r.X1, b.fill)
	}
	if b.border == 0 {
		return
	}
	if y < r.Y0+b.border || y > r.Y1-b.border {
		display.FillSpan(buf, x0, r.X0, r.X1, b.color)
		return
	}
	display.FillSpan(buf, x0, r.X0, r.X0+b.border-1, b.color)
	display.FillSpan(buf, x0, r.X1-b.border+1, r.X1, b.color)
}

func (b *Box) DrawColumn(buf []hal.Color, x, y0 int) {
	r := b.Bounds()
	if x < r.X0 || x > r.X1 {
		return
	}
	if b.filled {
		display.FillSpan(buf, y0, r.Y0, r.Y1, b.fill)
	}
	if b.border == 0 {
		return
	}
	if x < r.X0+b.border || x > r.X1-b.border {
		display.FillSpan(buf, y0, r.Y0, r.Y1, b.color)
		return
	}
	display.FillSpan(buf, y0, r.Y0, r.Y0+b.border-1, b.color)
	display.FillSpan(buf, y0, r.Y1-b.border+1, r.Y1, b.color)
}
