package gfx

import (
	"errors"
	"fmt"

	"tinygo.org/x/tinyfont"
)

// LineMetrics derives the text cell of a font: the total height in pixels
// and the baseline offset from the top of the cell.
//
// It scans the glyph boxes of the printable ASCII range.
func LineMetrics(font tinyfont.Fonter) (height int16, offset int16, err error) {
	if font == nil {
		return 0, 0, errors.New("gfx: nil font")
	}
	minY, maxY := 0, 0
	first := true
	for r := rune(0x20); r < 0x7F; r++ {
		g := font.GetGlyph(r)
		if g == nil {
			continue
		}
		info := g.Info()
		if info.Height == 0 {
			continue
		}
		top := int(info.YOffset)
		bottom := top + int(info.Height)
		if first {
			minY, maxY = top, bottom
			first = false
			continue
		}
		minY = min(minY, top)
		maxY = max(maxY, bottom)
	}
	if first {
		return 0, 0, errors.New("gfx: no glyphs")
	}
	h := maxY - minY
	off := -minY
	if h <= 0 || off < 0 {
		return 0, 0, fmt.Errorf("gfx: invalid metrics: height=%d offset=%d", h, off)
	}
	return int16(h), int16(off), nil
}
