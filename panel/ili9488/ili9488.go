// Package ili9488 drives ILI9488 320x480 TFT controllers over a 4-wire SPI
// bus.
//
// Pixels go out asynchronously through hal.AsyncTx. In the default 18-bit
// mode every RGB565 pixel is expanded to three bytes by PrepareData, which is
// the only color format the controller accepts over SPI; Format16 selects
// the 16-bit mode some boards are wired for.
package ili9488

import (
	"errors"
	"fmt"
	"time"

	"tftkit/hal"
)

var errNoWindow = errors.New("ili9488: no address window")

// Config describes the panel.
type Config struct {
	// Width and Height are the unrotated size; zero selects 320x480.
	Width  int
	Height int
	// Rotation is applied by Init.
	Rotation hal.Rotation
	// Mirror flips the image horizontally for panels wired right to left.
	Mirror bool
	// BGR swaps red and blue for panels with BGR subpixel order.
	BGR bool
	// Invert turns on color inversion at Init.
	Invert bool
	// Format16 sends RGB565 instead of RGB666.
	Format16 bool
	// Chunk limits the bytes per bus transaction; zero selects
	// hal.DefaultChunk.
	Chunk  int
	Logger hal.Logger
}

// Device is an ILI9488 panel. It satisfies hal.Panel and hal.DataPreparer.
type Device struct {
	bus hal.SPI
	dc  hal.OutputPin
	rst hal.OutputPin
	cs  hal.OutputPin
	tx  *hal.AsyncTx
	cfg Config
	log hal.Logger

	rot       hal.Rotation
	streaming bool
	cmdBuf    [1]byte

	sleep func(time.Duration)
}

var (
	_ hal.Panel        = (*Device)(nil)
	_ hal.DataPreparer = (*Device)(nil)
)

// New returns a device on bus. dc is required; rst and cs may be nil when
// the reset line is not wired or chip select is driven by the SPI peripheral.
func New(bus hal.SPI, dc, rst, cs hal.OutputPin, cfg Config) *Device {
	if cfg.Width <= 0 {
		cfg.Width = 320
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	log := cfg.Logger
	if log == nil {
		log = hal.NopLogger{}
	}
	return &Device{
		bus:   bus,
		dc:    dc,
		rst:   rst,
		cs:    cs,
		tx:    hal.NewAsyncTx(bus, cfg.Chunk),
		cfg:   cfg,
		log:   log,
		rot:   cfg.Rotation % 4,
		sleep: time.Sleep,
	}
}

// Init resets the controller and runs the power-up sequence.
func (d *Device) Init() error {
	if d.bus == nil || d.dc == nil {
		return errors.New("ili9488: bus and dc pin are required")
	}
	if d.cs != nil {
		d.cs.High()
	}
	d.dc.High()
	d.reset()

	colmod := byte(colmod18)
	if d.cfg.Format16 {
		colmod = colmod16
	}
	inv := byte(INVOFF)
	if d.cfg.Invert {
		inv = INVON
	}
	seq := []struct {
		cmd  byte
		data []byte
	}{
		{PGAMCTRL, []byte{0x00, 0x03, 0x09, 0x08, 0x16, 0x0A, 0x3F, 0x78, 0x4C, 0x09, 0x0A, 0x08, 0x16, 0x1A, 0x0F}},
		{NGAMCTRL, []byte{0x00, 0x16, 0x19, 0x03, 0x0F, 0x05, 0x32, 0x45, 0x46, 0x04, 0x0E, 0x0D, 0x35, 0x37, 0x0F}},
		{PWCTRL1, []byte{0x17, 0x15}},
		{PWCTRL2, []byte{0x41}},
		{VMCTRL, []byte{0x00, 0x12, 0x80}},
		{COLMOD, []byte{colmod}},
		{FRMCTRL1, []byte{0xA0}},
		{INVCTRL, []byte{0x02}},
		{DISCTRL, []byte{0x02, 0x02, 0x3B}},
		{SETIMAGE, []byte{0x00}},
		{ADJCTRL3, []byte{0xA9, 0x51, 0x2C, 0x82}},
		{inv, nil},
	}
	for _, s := range seq {
		if err := d.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	if err := d.SetRotation(d.rot); err != nil {
		return err
	}
	if err := d.command(SLPOUT); err != nil {
		return err
	}
	d.sleep(120 * time.Millisecond)
	if err := d.command(DISPON); err != nil {
		return err
	}
	d.log.WriteLineString(fmt.Sprintf("ili9488: ready %dx%d colmod=%#02x", d.Width(), d.Height(), colmod))
	return nil
}

func (d *Device) reset() {
	if d.rst != nil {
		d.rst.Low()
		d.sleep(64 * time.Millisecond)
		d.rst.High()
	} else {
		_ = d.command(SWRESET)
	}
	d.sleep(140 * time.Millisecond)
}

// Width returns the width in the current rotation.
func (d *Device) Width() int {
	w, _ := hal.RotatedSize(d.rot, d.cfg.Width, d.cfg.Height)
	return w
}

// Height returns the height in the current rotation.
func (d *Device) Height() int {
	_, h := hal.RotatedSize(d.rot, d.cfg.Width, d.cfg.Height)
	return h
}

// SetAddrWindow selects the inclusive target rectangle and leaves the bus
// selected in data mode for WriteDataStream.
func (d *Device) SetAddrWindow(x0, y0, x1, y1 int) error {
	d.finish()
	w, h := d.Width(), d.Height()
	if x0 < 0 || y0 < 0 || x1 >= w || y1 >= h || x1 < x0 || y1 < y0 {
		return fmt.Errorf("ili9488: window %d,%d-%d,%d outside %dx%d", x0, y0, x1, y1, w, h)
	}
	if err := d.command(CASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.command(PASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	if err := d.command(RAMWR); err != nil {
		return err
	}
	d.startWrite()
	d.dc.High()
	d.streaming = true
	return nil
}

// WriteDataStream starts sending buf into the address window. buf must not
// be modified until IsTransferComplete reports true.
func (d *Device) WriteDataStream(buf []byte) error {
	if !d.streaming {
		return errNoWindow
	}
	if err := d.tx.Err(); err != nil {
		return fmt.Errorf("ili9488: %w", err)
	}
	return d.tx.Start(buf)
}

func (d *Device) IsTransferComplete() bool { return d.tx.Done() }

// StopTransfer aborts a running transfer and deselects the controller.
func (d *Device) StopTransfer() error {
	d.tx.Abort()
	d.endWrite()
	d.streaming = false
	if err := d.tx.Err(); err != nil {
		return fmt.Errorf("ili9488: %w", err)
	}
	return nil
}

// SetRotation programs MADCTL for r.
func (d *Device) SetRotation(r hal.Rotation) error {
	d.finish()
	r %= 4
	var m byte
	if !d.cfg.Mirror {
		switch r {
		case hal.Rotation90:
			m = MADCTL_MX | MADCTL_MH | MADCTL_MV
		case hal.Rotation180:
			m = MADCTL_MX | MADCTL_MH | MADCTL_MY | MADCTL_ML
		case hal.Rotation270:
			m = MADCTL_MV | MADCTL_MY | MADCTL_ML
		}
	} else {
		switch r {
		case hal.Rotation0:
			m = MADCTL_MX | MADCTL_MH
		case hal.Rotation90:
			m = MADCTL_MX | MADCTL_MH | MADCTL_MY | MADCTL_ML | MADCTL_MV
		case hal.Rotation180:
			m = MADCTL_MY | MADCTL_ML
		case hal.Rotation270:
			m = MADCTL_MV
		}
	}
	if d.cfg.BGR {
		m |= MADCTL_BGR
	}
	if err := d.command(MADCTL, m); err != nil {
		return err
	}
	d.rot = r
	return nil
}

func (d *Device) InvertDisplay(invert bool) error {
	d.finish()
	if invert {
		return d.command(INVON)
	}
	return d.command(INVOFF)
}

func (d *Device) IsDataNeedPreparation() bool { return !d.cfg.Format16 }

// PixelDataCount returns the wire size of n pixels.
func (d *Device) PixelDataCount(n int) int {
	if d.cfg.Format16 {
		return n * 2
	}
	return n * 3
}

func (d *Device) PrepareData(dst []byte, src []hal.Color) int {
	if d.cfg.Format16 {
		return hal.PackRGB565(dst, src)
	}
	return hal.PackRGB666(dst, src)
}

// Close stops the transfer goroutine.
func (d *Device) Close() { d.tx.Close() }

// finish ends a stream left open by SetAddrWindow.
func (d *Device) finish() {
	if d.streaming {
		_ = d.StopTransfer()
	}
}

func (d *Device) command(cmd byte, data ...byte) error {
	d.startWrite()
	defer d.endWrite()
	d.cmdBuf[0] = cmd
	d.dc.Low()
	err := d.bus.Tx(d.cmdBuf[:], nil)
	d.dc.High()
	if err == nil && len(data) > 0 {
		err = d.bus.Tx(data, nil)
	}
	if err != nil {
		return fmt.Errorf("ili9488: command %#02x: %w", cmd, err)
	}
	return nil
}

func (d *Device) startWrite() {
	if d.cs != nil {
		d.cs.Low()
	}
}

func (d *Device) endWrite() {
	if d.cs != nil {
		d.cs.High()
	}
}
