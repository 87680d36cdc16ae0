package gfx

import (
	"sync"

	"tftkit/display"
	"tftkit/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyterm"
)

// Console is a scrolling VT100 terminal drawn into a canvas. It is an
// io.Writer and a hal.Logger, so log output can be mirrored on screen.
type Console struct {
	Canvas
	mu   sync.Mutex
	term *tinyterm.Terminal
}

var _ hal.Logger = (*Console)(nil)

// NewConsole returns a w x h console at (x, y) using font, or DefaultFont
// when font is nil.
func NewConsole(x, y, w, h int, font tinyfont.Fonter) *Console {
	if font == nil {
		font = DefaultFont
	}
	fontHeight, fontOffset := int16(defaultFontHeight), int16(defaultFontOffset)
	if fh, off, err := LineMetrics(font); err == nil {
		fontHeight, fontOffset = fh, off
	}

	c := &Console{}
	c.resize(w, h, false)
	c.SetBounds(display.RectWH(x, y, w, h))
	c.term = tinyterm.NewTerminal(&c.bitmap)
	c.term.Configure(&tinyterm.Config{
		Font:              font,
		FontHeight:        fontHeight,
		FontOffset:        fontOffset,
		UseSoftwareScroll: true,
	})
	return c
}

// Write feeds p to the terminal, including escape sequences.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	var err error
	c.Draw(func(*Canvas) {
		n, err = c.term.Write(p)
	})
	return n, err
}

func (c *Console) WriteLineString(s string) {
	_, _ = c.Write([]byte(s + "\r\n"))
}

func (c *Console) WriteLineBytes(b []byte) {
	line := make([]byte, 0, len(b)+2)
	line = append(line, b...)
	_, _ = c.Write(append(line, '\r', '\n'))
}
