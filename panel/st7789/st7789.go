// Package st7789 drives ST7789 TFT controllers over a 4-wire SPI bus in
// native RGB565.
//
// Smaller glass (240x240, 135x240) sits inside the 240x320 controller RAM;
// RowOffset and ColumnOffset place the visible area for the rotations that
// need it.
package st7789

import (
	"errors"
	"fmt"
	"time"

	"tftkit/hal"
)

// Commands.
const (
	SWRESET = 0x01
	SLPOUT  = 0x11
	NORON   = 0x13
	INVOFF  = 0x20
	INVON   = 0x21
	DISPON  = 0x29
	CASET   = 0x2A
	RASET   = 0x2B
	RAMWR   = 0x2C
	MADCTL  = 0x36
	COLMOD  = 0x3A
	PORCTRL = 0xB2
	FRCTRL2 = 0xC6
	RAMCTRL = 0xB0
)

// MADCTL bits.
const (
	MADCTL_MY  = 0x80
	MADCTL_MX  = 0x40
	MADCTL_MV  = 0x20
	MADCTL_ML  = 0x10
	MADCTL_BGR = 0x08
)

const colorRGB565 = 0x55

var errNoWindow = errors.New("st7789: no address window")

// Config describes the panel.
type Config struct {
	// Width and Height are the unrotated size; zero selects 240x320.
	Width  int
	Height int
	// RowOffset and ColumnOffset shift the visible area inside the
	// controller RAM for 180 and 270 degree rotations.
	RowOffset    int
	ColumnOffset int
	Rotation     hal.Rotation
	BGR          bool
	// Invert turns on color inversion at Init; most ST7789 glass needs it.
	Invert bool
	// VSyncLines is the porch length, 2 to 254; zero selects 16.
	VSyncLines int
	// Chunk limits the bytes per bus transaction; zero selects
	// hal.DefaultChunk.
	Chunk  int
	Logger hal.Logger
}

// Device is an ST7789 panel. It satisfies hal.Panel.
type Device struct {
	bus hal.SPI
	dc  hal.OutputPin
	rst hal.OutputPin
	cs  hal.OutputPin
	tx  *hal.AsyncTx
	cfg Config
	log hal.Logger

	rot          hal.Rotation
	rowOffset    int
	columnOffset int
	streaming    bool
	cmdBuf       [1]byte

	sleep func(time.Duration)
}

var _ hal.Panel = (*Device)(nil)

// New returns a device on bus. dc is required; rst and cs may be nil.
func New(bus hal.SPI, dc, rst, cs hal.OutputPin, cfg Config) *Device {
	if cfg.Width <= 0 {
		cfg.Width = 240
	}
	if cfg.Height <= 0 {
		cfg.Height = 320
	}
	if cfg.VSyncLines < 2 || cfg.VSyncLines > 254 {
		cfg.VSyncLines = 16
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
		return errors.New("st7789: bus and dc pin are required")
	}
	if d.cs != nil {
		d.cs.High()
	}
	d.dc.High()
	if d.rst != nil {
		d.rst.Low()
		d.sleep(10 * time.Millisecond)
		d.rst.High()
		d.sleep(120 * time.Millisecond)
	}
	if err := d.command(SWRESET); err != nil {
		return err
	}
	d.sleep(150 * time.Millisecond)
	if err := d.command(SLPOUT); err != nil {
		return err
	}
	if err := d.command(COLMOD, colorRGB565); err != nil {
		return err
	}
	d.sleep(10 * time.Millisecond)
	if err := d.SetRotation(d.rot); err != nil {
		return err
	}

	fp := byte(d.cfg.VSyncLines / 2)
	bp := byte(d.cfg.VSyncLines) - fp
	inv := byte(INVOFF)
	if d.cfg.Invert {
		inv = INVON
	}
	seq := []struct {
		cmd  byte
		data []byte
	}{
		{FRCTRL2, []byte{0x0F}},
		{PORCTRL, []byte{bp, fp, 0x00, 0x22, 0x22}},
		{inv, nil},
		{NORON, nil},
		{RAMCTRL, []byte{0x00, 0xE8}},
		{DISPON, nil},
	}
	for _, s := range seq {
		if err := d.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	d.sleep(10 * time.Millisecond)
	d.log.WriteLineString(fmt.Sprintf("st7789: ready %dx%d", d.Width(), d.Height()))
	return nil
}

func (d *Device) Width() int {
	w, _ := hal.RotatedSize(d.rot, d.cfg.Width, d.cfg.Height)
	return w
}

func (d *Device) Height() int {
	_, h := hal.RotatedSize(d.rot, d.cfg.Width, d.cfg.Height)
	return h
}

// SetAddrWindow selects the inclusive target rectangle, shifted by the RAM
// offsets of the current rotation, and leaves the bus in data mode.
func (d *Device) SetAddrWindow(x0, y0, x1, y1 int) error {
	d.finish()
	w, h := d.Width(), d.Height()
	if x0 < 0 || y0 < 0 || x1 >= w || y1 >= h || x1 < x0 || y1 < y0 {
		return fmt.Errorf("st7789: window %d,%d-%d,%d outside %dx%d", x0, y0, x1, y1, w, h)
	}
	x0 += d.columnOffset
	x1 += d.columnOffset
	y0 += d.rowOffset
	y1 += d.rowOffset
	if err := d.command(CASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.command(RASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
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

// WriteDataStream starts sending big-endian RGB565 data into the window.
func (d *Device) WriteDataStream(buf []byte) error {
	if !d.streaming {
		return errNoWindow
	}
	if err := d.tx.Err(); err != nil {
		return fmt.Errorf("st7789: %w", err)
	}
	return d.tx.Start(buf)
}

func (d *Device) IsTransferComplete() bool { return d.tx.Done() }

func (d *Device) StopTransfer() error {
	d.tx.Abort()
	d.endWrite()
	d.streaming = false
	if err := d.tx.Err(); err != nil {
		return fmt.Errorf("st7789: %w", err)
	}
	return nil
}

// SetRotation programs MADCTL and the RAM offsets for r.
func (d *Device) SetRotation(r hal.Rotation) error {
	d.finish()
	r %= 4
	var m byte
	row, col := 0, 0
	switch r {
	case hal.Rotation90:
		m = MADCTL_MX | MADCTL_MV
	case hal.Rotation180:
		m = MADCTL_MX | MADCTL_MY
		row, col = d.cfg.RowOffset, d.cfg.ColumnOffset
	case hal.Rotation270:
		m = MADCTL_MY | MADCTL_MV
		row, col = d.cfg.ColumnOffset, d.cfg.RowOffset
	}
	if d.cfg.BGR {
		m |= MADCTL_BGR
	}
	if err := d.command(MADCTL, m); err != nil {
		return err
	}
	d.rot = r
	d.rowOffset, d.columnOffset = row, col
	return nil
}

func (d *Device) InvertDisplay(invert bool) error {
	d.finish()
	if invert {
		return d.command(INVON)
	}
	return d.command(INVOFF)
}

// Close stops the transfer goroutine.
func (d *Device) Close() { d.tx.Close() }

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
		return fmt.Errorf("st7789: command %#02x: %w", cmd, err)
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
