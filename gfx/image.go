package gfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"tftkit/display"
	"tftkit/hal"

	xdraw "golang.org/x/image/draw"
)

// ErrImageSize reports pixel data that does not match the image size.
var ErrImageSize = errors.New("gfx: image data does not match size")

// Image is a bitmap, either true color or indexed through a palette. One
// color can be declared transparent and the image can be mirrored
// horizontally.
type Image struct {
	display.Object
	w, h    int
	pix     []hal.Color
	idx     []uint8
	palette []hal.Color
	key     hal.Color
	keyed   bool
	mirror  bool
}

// NewImage returns a w x h true color image at (x, y). pix is used in place.
func NewImage(x, y, w, h int, pix []hal.Color) (*Image, error) {
	if w < 0 || h < 0 || len(pix) != w*h {
		return nil, fmt.Errorf("%w: %dx%d with %d pixels", ErrImageSize, w, h, len(pix))
	}
	img := &Image{w: w, h: h, pix: pix}
	img.SetBounds(display.RectWH(x, y, w, h))
	return img, nil
}

// NewImagePalette returns a w x h indexed image. Indexes outside the palette
// are painted as palette entry 0.
func NewImagePalette(x, y, w, h int, idx []uint8, palette []hal.Color) (*Image, error) {
	if w < 0 || h < 0 || len(idx) != w*h {
		return nil, fmt.Errorf("%w: %dx%d with %d indexes", ErrImageSize, w, h, len(idx))
	}
	if len(palette) == 0 {
		return nil, errors.New("gfx: empty palette")
	}
	img := &Image{w: w, h: h, idx: idx, palette: palette}
	img.SetBounds(display.RectWH(x, y, w, h))
	return img, nil
}

// NewImageFrom converts src to RGB565 at its natural size.
func NewImageFrom(x, y int, src image.Image) *Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]hal.Color, 0, w*h)
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			pix = append(pix, hal.FromColor(src.At(px, py)))
		}
	}
	img, _ := NewImage(x, y, w, h, pix)
	return img
}

// NewImageScaled resamples src to w x h.
func NewImageScaled(x, y, w, h int, src image.Image) *Image {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return NewImageFrom(x, y, dst)
}

// LoadImage reads an image in the raw asset format: big-endian uint16 width
// and height followed by width*height big-endian RGB565 pixels.
func LoadImage(x, y int, r io.Reader) (*Image, error) {
	var hdr [2]uint16
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("gfx: read image header: %w", err)
	}
	w, h := int(hdr[0]), int(hdr[1])
	pix := make([]hal.Color, w*h)
	if err := binary.Read(r, binary.BigEndian, pix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageSize, err)
	}
	return NewImage(x, y, w, h, pix)
}

// WriteImage writes pix in the format read by LoadImage.
func WriteImage(wr io.Writer, w, h int, pix []hal.Color) error {
	if w < 0 || h < 0 || w > 0xFFFF || h > 0xFFFF || len(pix) != w*h {
		return ErrImageSize
	}
	if err := binary.Write(wr, binary.BigEndian, [2]uint16{uint16(w), uint16(h)}); err != nil {
		return err
	}
	return binary.Write(wr, binary.BigEndian, pix)
}

// Size returns the image size in pixels.
func (img *Image) Size() (w, h int) { return img.w, img.h }

// SetTransparent makes pixels of color c transparent.
func (img *Image) SetTransparent(c hal.Color) {
	img.Update(func(*display.Rect) {
		img.key = c
		img.keyed = true
	})
}

// ClearTransparent makes every pixel opaque.
func (img *Image) ClearTransparent() {
	img.Update(func(*display.Rect) { img.keyed = false })
}

// SetMirror flips the image horizontally.
func (img *Image) SetMirror(mirror bool) {
	img.Update(func(*display.Rect) { img.mirror = mirror })
}

// at returns the pixel at image coordinates and whether it is opaque.
// RGBA renders the image as it would be painted; transparent pixels are
// left clear.
func (img *Image) RGBA() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, img.w, img.h))
	for y := 0; y < img.h; y++ {
		for x := 0; x < img.w; x++ {
			if c, ok := img.at(x, y); ok {
				dst.SetRGBA(x, y, c.NRGBA())
			}
		}
	}
	return dst
}

func (img *Image) at(lx, ly int) (hal.Color, bool) {
	if img.mirror {
		lx = img.w - 1 - lx
	}
	i := ly*img.w + lx
	var c hal.Color
	if img.pix != nil {
		c = img.pix[i]
	} else {
		n := int(img.idx[i])
		if n >= len(img.palette) {
			n = 0
		}
		c = img.palette[n]
	}
	if img.keyed && c == img.key {
		return 0, false
	}
	return c, true
}

func (img *Image) DrawRow(buf []hal.Color, y, x0 int) {
	r := img.Bounds()
	ly := y - r.Y0
	if ly < 0 || ly >= img.h {
		return
	}
	from := max(r.X0, x0)
	to := min(r.X0+img.w-1, x0+len(buf)-1)
	for x := from; x <= to; x++ {
		if c, ok := img.at(x-r.X0, ly); ok {
			buf[x-x0] = c
		}
	}
}

func (img *Image) DrawColumn(buf []hal.Color, x, y0 int) {
	r := img.Bounds()
	lx := x - r.X0
	if lx < 0 || lx >= img.w {
		return
	}
	from := max(r.Y0, y0)
	to := min(r.Y0+img.h-1, y0+len(buf)-1)
	for y := from; y <= to; y++ {
		if c, ok := img.at(lx, y-r.Y0); ok {
			buf[y-y0] = c
		}
	}
}
