//go:build !tinygo

package hal

import (
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// SimPanelConfig describes a simulated controller.
type SimPanelConfig struct {
	// Width and Height are the unrotated panel size.
	Width  int
	Height int
	// Latency is added to every bus chunk to mimic the SPI clock.
	Latency time.Duration
	// Format18 selects the 3 bytes per pixel wire format of ILI9488 style
	// controllers, which routes scanlines through PrepareData.
	Format18 bool
}

// SimPanel is an in-memory TFT controller. Pixel data arrives through the same
// asynchronous path a hardware panel uses and lands in a native-orientation
// GRAM that Snapshot exposes.
type SimPanel struct {
	cfg SimPanelConfig
	tx  *AsyncTx

	mu       sync.Mutex
	gram     []Color
	rot      Rotation
	inverted bool
	win      [4]int
	cx, cy   int
	partial  []byte

	transfers atomic.Uint64
}

// NewSimPanel creates a panel; zero sizes default to 320x320.
func NewSimPanel(cfg SimPanelConfig) *SimPanel {
	if cfg.Width <= 0 {
		cfg.Width = 320
	}
	if cfg.Height <= 0 {
		cfg.Height = 320
	}
	p := &SimPanel{
		cfg:  cfg,
		gram: make([]Color, cfg.Width*cfg.Height),
	}
	// A chunk of 6 KiB keeps 16- and 18-bit pixels whole.
	p.tx = NewAsyncTx(simBus{p}, 6*1024)
	return p
}

func (p *SimPanel) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.gram {
		p.gram[i] = ColorBlack
	}
	p.win = [4]int{0, 0, p.cfg.Width - 1, p.cfg.Height - 1}
	p.cx, p.cy = 0, 0
	return nil
}

func (p *SimPanel) Width() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, _ := RotatedSize(p.rot, p.cfg.Width, p.cfg.Height)
	return w
}

func (p *SimPanel) Height() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, h := RotatedSize(p.rot, p.cfg.Width, p.cfg.Height)
	return h
}

// NativeSize returns the unrotated size.
func (p *SimPanel) NativeSize() (int, int) { return p.cfg.Width, p.cfg.Height }

func (p *SimPanel) SetAddrWindow(x0, y0, x1, y1 int) error {
	p.tx.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.win = [4]int{x0, y0, x1, y1}
	p.cx, p.cy = x0, y0
	p.partial = p.partial[:0]
	return nil
}

func (p *SimPanel) WriteDataStream(buf []byte) error {
	p.transfers.Add(1)
	return p.tx.Start(buf)
}

func (p *SimPanel) IsTransferComplete() bool { return p.tx.Done() }

func (p *SimPanel) StopTransfer() error {
	p.tx.Abort()
	return p.tx.Err()
}

func (p *SimPanel) SetRotation(r Rotation) error {
	p.tx.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rot = r % 4
	return nil
}

func (p *SimPanel) InvertDisplay(invert bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inverted = invert
	return nil
}

func (p *SimPanel) IsDataNeedPreparation() bool { return p.cfg.Format18 }

func (p *SimPanel) PixelDataCount(n int) int {
	if p.cfg.Format18 {
		return n * 3
	}
	return n * 2
}

func (p *SimPanel) PrepareData(dst []byte, src []Color) int {
	if p.cfg.Format18 {
		return PackRGB666(dst, src)
	}
	return PackRGB565(dst, src)
}

// Transfers returns the number of WriteDataStream calls so far.
func (p *SimPanel) Transfers() uint64 { return p.transfers.Load() }

// Close stops the transfer goroutine.
func (p *SimPanel) Close() { p.tx.Close() }

// Pixel reads GRAM at native coordinates.
func (p *SimPanel) Pixel(nx, ny int) Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	if nx < 0 || ny < 0 || nx >= p.cfg.Width || ny >= p.cfg.Height {
		return ColorBlack
	}
	return p.gram[ny*p.cfg.Width+nx]
}

// Snapshot renders GRAM the way the glass shows it.
func (p *SimPanel) Snapshot(dst *image.RGBA) *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	if dst == nil || dst.Bounds().Dx() != p.cfg.Width || dst.Bounds().Dy() != p.cfg.Height {
		dst = image.NewRGBA(image.Rect(0, 0, p.cfg.Width, p.cfg.Height))
	}
	pix := dst.Pix
	for i, c := range p.gram {
		if p.inverted {
			c = ^c
		}
		r, g, b := c.RGB8()
		j := i * 4
		pix[j+0] = r
		pix[j+1] = g
		pix[j+2] = b
		pix[j+3] = 0xFF
	}
	return dst
}

// simBus decodes the data stream into GRAM.
type simBus struct{ p *SimPanel }

func (b simBus) Tx(w, _ []byte) error {
	p := b.p
	if p.cfg.Latency > 0 {
		time.Sleep(p.cfg.Latency)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	size := 2
	if p.cfg.Format18 {
		size = 3
	}
	data := w
	if len(p.partial) > 0 {
		data = append(p.partial, w...)
		p.partial = p.partial[:0]
	}
	n := len(data) / size
	for i := 0; i < n; i++ {
		px := data[i*size : i*size+size]
		var c Color
		if size == 3 {
			c = Color(uint16(px[0]&0xF8)<<8 | uint16(px[1]&0xFC)<<3 | uint16(px[2])>>3)
		} else {
			c = Color(uint16(px[0])<<8 | uint16(px[1]))
		}
		p.put(c)
	}
	if rest := data[n*size:]; len(rest) > 0 {
		p.partial = append(p.partial[:0], rest...)
	}
	return nil
}

// put stores c at the cursor and advances it through the address window.
func (p *SimPanel) put(c Color) {
	w, h := RotatedSize(p.rot, p.cfg.Width, p.cfg.Height)
	if p.cx >= 0 && p.cy >= 0 && p.cx < w && p.cy < h {
		nx, ny := ToNative(p.rot, p.cfg.Width, p.cfg.Height, p.cx, p.cy)
		p.gram[ny*p.cfg.Width+nx] = c
	}
	p.cx++
	if p.cx > p.win[2] {
		p.cx = p.win[0]
		p.cy++
		if p.cy > p.win[3] {
			p.cy = p.win[1]
		}
	}
}
