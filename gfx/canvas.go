package gfx

import (
	"image/color"

	"tftkit/display"
	"tftkit/hal"

	"tinygo.org/x/drivers"
)

// bitmap is an off-screen RGB565 surface implementing the tinyterm/tinyfont
// drawing contract. With a mask, pixels never written stay transparent.
type bitmap struct {
	w, h int
	pix  []hal.Color
	mask []bool
}

func (b *bitmap) resize(w, h int, masked bool) {
	w, h = max(w, 0), max(h, 0)
	n := w * h
	b.w, b.h = w, h
	if cap(b.pix) < n {
		b.pix = make([]hal.Color, n)
	}
	b.pix = b.pix[:n]
	clear(b.pix)
	b.mask = nil
	if masked {
		b.mask = make([]bool, n)
	}
}

func (b *bitmap) Size() (x, y int16) {
	return int16(b.w), int16(b.h)
}

func (b *bitmap) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= b.w || iy < 0 || iy >= b.h {
		return
	}
	i := iy*b.w + ix
	b.pix[i] = hal.RGB(c.R, c.G, c.B)
	if b.mask != nil {
		b.mask[i] = true
	}
}

func (b *bitmap) Display() error { return nil }

func (b *bitmap) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	b.fill(int(x), int(y), int(width), int(height), hal.RGB(c.R, c.G, c.B))
	return nil
}

func (b *bitmap) fill(x, y, width, height int, c hal.Color) {
	x0 := clampInt(x, 0, b.w)
	y0 := clampInt(y, 0, b.h)
	x1 := clampInt(x+width, 0, b.w)
	y1 := clampInt(y+height, 0, b.h)
	for py := y0; py < y1; py++ {
		row := py * b.w
		for px := x0; px < x1; px++ {
			b.pix[row+px] = c
			if b.mask != nil {
				b.mask[row+px] = true
			}
		}
	}
}

// SetScroll is a no-op: the surface only scrolls in software.
func (b *bitmap) SetScroll(line int16) {}

func (b *bitmap) SetRotation(r drivers.Rotation) error {
	if r != drivers.Rotation0 {
		return hal.ErrNotImplemented
	}
	return nil
}

// ScrollUp shifts the content up by lines rows and clears the exposed rows.
func (b *bitmap) ScrollUp(lines int16, bg color.RGBA) error {
	n := int(lines)
	if n <= 0 {
		return nil
	}
	if n >= b.h {
		return b.FillRectangle(0, 0, int16(b.w), int16(b.h), bg)
	}
	copy(b.pix, b.pix[n*b.w:])
	if b.mask != nil {
		copy(b.mask, b.mask[n*b.w:])
	}
	return b.FillRectangle(0, int16(b.h-n), int16(b.w), lines, bg)
}

func (b *bitmap) at(x, y int) (hal.Color, bool) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return 0, false
	}
	i := y*b.w + x
	if b.mask != nil && !b.mask[i] {
		return 0, false
	}
	return b.pix[i], true
}

// drawRow copies row y of the surface placed at r into buf.
func (b *bitmap) drawRow(r display.Rect, buf []hal.Color, y, x0 int) {
	ly := y - r.Y0
	if ly < 0 || ly >= b.h {
		return
	}
	from := max(r.X0, x0)
	to := min(r.X0+b.w-1, r.X1, x0+len(buf)-1)
	row := ly * b.w
	for x := from; x <= to; x++ {
		i := row + x - r.X0
		if b.mask == nil || b.mask[i] {
			buf[x-x0] = b.pix[i]
		}
	}
}

func (b *bitmap) drawColumn(r display.Rect, buf []hal.Color, x, y0 int) {
	lx := x - r.X0
	if lx < 0 || lx >= b.w {
		return
	}
	from := max(r.Y0, y0)
	to := min(r.Y0+b.h-1, r.Y1, y0+len(buf)-1)
	for y := from; y <= to; y++ {
		i := (y-r.Y0)*b.w + lx
		if b.mask == nil || b.mask[i] {
			buf[y-y0] = b.pix[i]
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Canvas is an off-screen drawing surface shown as an object. It satisfies
// drivers.Displayer, so tinyfont and tinyterm can draw into it.
//
// Drawing into a shown canvas must happen inside Draw.
type Canvas struct {
	display.Object
	bitmap
}

// NewCanvas returns a w x h canvas at (x, y) filled with bg.
func NewCanvas(x, y, w, h int, bg hal.Color) *Canvas {
	c := &Canvas{}
	c.resize(w, h, false)
	c.fill(0, 0, w, h, bg)
	c.SetBounds(display.RectWH(x, y, w, h))
	return c
}

// NewTransparentCanvas returns a canvas whose untouched pixels let the
// objects below show through.
func NewTransparentCanvas(x, y, w, h int) *Canvas {
	c := &Canvas{}
	c.resize(w, h, true)
	c.SetBounds(display.RectWH(x, y, w, h))
	return c
}

// Draw runs fn with the canvas locked against the composer and repaints it.
func (c *Canvas) Draw(fn func(c *Canvas)) {
	c.Update(func(*display.Rect) { fn(c) })
}

// Fill paints the whole canvas with col.
func (c *Canvas) Fill(col hal.Color) {
	c.Update(func(*display.Rect) { c.fill(0, 0, c.w, c.h, col) })
}

// Clear makes a transparent canvas fully transparent again and paints an
// opaque one black.
func (c *Canvas) Clear() {
	c.Update(func(*display.Rect) {
		if c.mask != nil {
			clear(c.mask)
			return
		}
		clear(c.pix)
	})
}

// At returns the pixel at canvas coordinates (x, y) and whether it is opaque.
func (c *Canvas) At(x, y int) (hal.Color, bool) {
	return c.at(x, y)
}

func (c *Canvas) DrawRow(buf []hal.Color, y, x0 int) {
	c.drawRow(c.Bounds(), buf, y, x0)
}

func (c *Canvas) DrawColumn(buf []hal.Color, x, y0 int) {
	c.drawColumn(c.Bounds(), buf, x, y0)
}
