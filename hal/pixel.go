package hal

import "image/color"

// Color is a 16bpp pixel: rrrrrggggggbbbbb.
type Color uint16

const (
	ColorBlack   Color = 0x0000
	ColorWhite   Color = 0xFFFF
	ColorRed     Color = 0xF800
	ColorGreen   Color = 0x07E0
	ColorBlue    Color = 0x001F
	ColorYellow  Color = 0xFFE0
	ColorCyan    Color = 0x07FF
	ColorMagenta Color = 0xF81F
	ColorGrey    Color = 0x8410
	ColorOrange  Color = 0xFD20
)

// RGB packs 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color(rgb565(r, g, b))
}

// FromColor converts any color.Color, ignoring alpha.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGB8 expands the pixel to 8-bit channels.
func (c Color) RGB8() (r, g, b uint8) {
	return rgb888From565(uint16(c))
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB8()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xFFFF
}

// NRGBA converts to the representation used by tinyfont and tinyterm.
func (c Color) NRGBA() color.RGBA {
	r, g, b := c.RGB8()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// PackRGB565 writes src big-endian into dst, the wire order of every
// supported controller, and returns the byte count.
func PackRGB565(dst []byte, src []Color) int {
	n := len(src)
	if len(dst)/2 < n {
		n = len(dst) / 2
	}
	for i := 0; i < n; i++ {
		p := src[i]
		dst[i*2] = byte(p >> 8)
		dst[i*2+1] = byte(p)
	}
	return n * 2
}

// PackRGB666 writes src as three bytes per pixel (18-bit wire format) and
// returns the byte count.
func PackRGB666(dst []byte, src []Color) int {
	n := len(src)
	if len(dst)/3 < n {
		n = len(dst) / 3
	}
	for i := 0; i < n; i++ {
		p := src[i]
		dst[i*3] = byte((p & 0xF800) >> 8)
		dst[i*3+1] = byte((p & 0x07E0) >> 3)
		dst[i*3+2] = byte((p & 0x001F) << 3)
	}
	return n * 3
}

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}
