package gfx

import (
	"tftkit/display"
	"tftkit/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// DefaultFont is used by NewText when no font is given.
var DefaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// Fallback cell for fonts whose metrics cannot be derived.
const (
	defaultFontHeight = 10
	defaultFontOffset = 6
)

// Text is a single line of text. The bounding box follows the rendered
// string; without a background only the glyph pixels are painted.
type Text struct {
	display.Object
	bm     bitmap
	font   tinyfont.Fonter
	text   string
	color  hal.Color
	bg     hal.Color
	opaque bool
	height int16
	offset int16
}

// NewText returns the string s with its top-left corner at (x, y), drawn
// with font, or DefaultFont when font is nil.
func NewText(x, y int, s string, font tinyfont.Fonter, c hal.Color) *Text {
	if font == nil {
		font = DefaultFont
	}
	t := &Text{font: font, color: c}
	t.height, t.offset = defaultFontHeight, defaultFontOffset
	if h, off, err := LineMetrics(font); err == nil {
		t.height, t.offset = h, off
	}
	t.Update(func(r *display.Rect) {
		r.X0, r.Y0 = x, y
		t.text = s
		t.layout(r)
	})
	return t
}

// SetText replaces the string, keeping the top-left corner.
func (t *Text) SetText(s string) {
	t.Update(func(r *display.Rect) {
		t.text = s
		t.layout(r)
	})
}

// Text returns the current string.
func (t *Text) Text() string { return t.text }

// SetColor changes the glyph color.
func (t *Text) SetColor(c hal.Color) {
	t.Update(func(r *display.Rect) {
		t.color = c
		t.layout(r)
	})
}

// SetBackground paints the text cell with c behind the glyphs.
func (t *Text) SetBackground(c hal.Color) {
	t.Update(func(r *display.Rect) {
		t.bg = c
		t.opaque = true
		t.layout(r)
	})
}

// ClearBackground makes the cell transparent again.
func (t *Text) ClearBackground() {
	t.Update(func(r *display.Rect) {
		t.opaque = false
		t.layout(r)
	})
}

// layout resizes the bounds to the string and renders it.
func (t *Text) layout(r *display.Rect) {
	_, w := tinyfont.LineWidth(t.font, t.text)
	h := int(t.height)
	*r = display.RectWH(r.X0, r.Y0, int(w), h)
	t.bm.resize(int(w), h, !t.opaque)
	if t.opaque {
		t.bm.fill(0, 0, int(w), h, t.bg)
	}
	if t.text == "" {
		return
	}
	tinyfont.WriteLine(&t.bm, t.font, 0, t.offset, t.text, t.color.NRGBA())
}

func (t *Text) DrawRow(buf []hal.Color, y, x0 int) {
	t.bm.drawRow(t.Bounds(), buf, y, x0)
}

func (t *Text) DrawColumn(buf []hal.Color, x, y0 int) {
	t.bm.drawColumn(t.Bounds(), buf, x, y0)
}
