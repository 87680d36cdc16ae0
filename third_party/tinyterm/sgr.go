// SGR constants and color helpers from upstream tinygo.org/x/tinyterm
// (v0.1.0). The local copy of the package that tinyterm.go was taken from
// shipped without them, and the terminal parser refers to them.

package tinyterm

import "image/color"

// Select Graphic Rendition parameters.
const (
	SGRReset = 0
	SGRBold  = 1

	SGRFgBlack        = 30
	SGRFgRed          = 31
	SGRFgGreen        = 32
	SGRFgYellow       = 33
	SGRFgBlue         = 34
	SGRFgMagenta      = 35
	SGRFgCyan         = 36
	SGRFgWhite        = 37
	SGRSetFgColor     = 38
	SGRDefaultFgColor = 39

	SGRBgBlack        = 40
	SGRBgRed          = 41
	SGRBgGreen        = 42
	SGRBgYellow       = 43
	SGRBgBlue         = 44
	SGRBgMagenta      = 45
	SGRBgCyan         = 46
	SGRBgWhite        = 47
	SGRSetBgColor     = 48
	SGRDefaultBgColor = 49
)

// Color is an index into the 16 color ANSI palette.
type Color uint8

const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

var palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0xAA, 0x00, 0x00, 0xFF},
	{0x00, 0xAA, 0x00, 0xFF},
	{0xAA, 0x55, 0x00, 0xFF},
	{0x00, 0x00, 0xAA, 0xFF},
	{0xAA, 0x00, 0xAA, 0xFF},
	{0x00, 0xAA, 0xAA, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0x55, 0x55, 0x55, 0xFF},
	{0xFF, 0x55, 0x55, 0xFF},
	{0x55, 0xFF, 0x55, 0xFF},
	{0xFF, 0xFF, 0x55, 0xFF},
	{0x55, 0x55, 0xFF, 0xFF},
	{0xFF, 0x55, 0xFF, 0xFF},
	{0x55, 0xFF, 0xFF, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
}

func (c Color) RGBA() color.RGBA {
	return palette[int(c)%len(palette)]
}

type sgrAttrs struct {
	attrs byte
	fgcol color.RGBA
	bgcol color.RGBA
}

func (a *sgrAttrs) reset() {
	a.attrs = 0
	a.fgcol = ColorWhite.RGBA()
	a.bgcol = ColorBlack.RGBA()
}

func (a *sgrAttrs) setFG(c Color) {
	if a.attrs&SGRBold != 0 && c < 8 {
		c += 8
	}
	a.fgcol = c.RGBA()
}

func (a *sgrAttrs) setBG(c Color) {
	a.bgcol = c.RGBA()
}
