// Package xpt2046 reads XPT2046 (ADS7843 compatible) resistive touch
// controllers over SPI.
package xpt2046

import (
	"errors"
	"fmt"
	"sync"

	"tftkit/hal"
)

// Control bytes: start bit, channel, 12-bit differential mode, power down
// between conversions with the pen interrupt enabled.
const (
	ReadX  = 0xD0
	ReadY  = 0x90
	ReadZ1 = 0xB0
	ReadZ2 = 0xC0
)

const maxRaw = 4095

// Config describes the digitizer.
type Config struct {
	// Width and Height are the unrotated panel size the readings are scaled
	// to; zero selects 320x480.
	Width  int
	Height int
	// Samples is the number of conversions averaged per reading; zero
	// selects 4.
	Samples int
	// Threshold is the minimal pressure counted as a touch; zero selects 300.
	Threshold int
	// SwapXY exchanges the axes for controllers wired sideways.
	SwapXY bool
	// InvertX and InvertY mirror the raw axes.
	InvertX bool
	InvertY bool
	Logger  hal.Logger
}

// Device is an XPT2046 controller. It satisfies hal.Touchscreen.
type Device struct {
	bus hal.SPI
	cs  hal.OutputPin
	irq hal.InputPin
	cfg Config
	log hal.Logger

	mu     sync.Mutex
	rot    hal.Rotation
	cal    hal.Calibration
	failed bool
	w, r   [3]byte
}

var _ hal.Touchscreen = (*Device)(nil)

// New returns a controller on bus. cs may be nil when chip select is driven
// by the SPI peripheral; irq may be nil, then only the pressure reading
// decides whether the screen is touched. The pen interrupt is active low.
func New(bus hal.SPI, cs hal.OutputPin, irq hal.InputPin, cfg Config) *Device {
	if cfg.Width <= 0 {
		cfg.Width = 320
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Samples <= 0 {
		cfg.Samples = 4
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 300
	}
	log := cfg.Logger
	if log == nil {
		log = hal.NopLogger{}
	}
	return &Device{bus: bus, cs: cs, irq: irq, cfg: cfg, log: log, cal: hal.IdentityCalibration}
}

// Init deselects the controller and issues one dummy conversion so that the
// pen interrupt is armed.
func (d *Device) Init() error {
	if d.bus == nil {
		return errors.New("xpt2046: bus is required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cs != nil {
		d.cs.High()
	}
	if _, err := d.read(ReadX); err != nil {
		return err
	}
	d.log.WriteLineString(fmt.Sprintf("xpt2046: ready %dx%d samples=%d threshold=%d",
		d.cfg.Width, d.cfg.Height, d.cfg.Samples, d.cfg.Threshold))
	return nil
}

func (d *Device) IsTouched() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pressed()
}

// GetXY returns the averaged reading mapped onto the panel, rotated and
// calibrated.
func (d *Device) GetXY() (x, y int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pressed() {
		return 0, 0, false
	}
	var sx, sy int
	for i := 0; i < d.cfg.Samples; i++ {
		rx, err := d.read(ReadX)
		if err != nil {
			return 0, 0, false
		}
		ry, err := d.read(ReadY)
		if err != nil {
			return 0, 0, false
		}
		sx += rx
		sy += ry
	}
	// The pen may have lifted during the burst.
	if !d.pressed() {
		return 0, 0, false
	}
	nx, ny := d.scale(sx/d.cfg.Samples, sy/d.cfg.Samples)
	x, y = hal.FromNative(d.rot, d.cfg.Width, d.cfg.Height, nx, ny)
	x, y = d.cal.Apply(x, y)
	return x, y, true
}

func (d *Device) SetRotation(r hal.Rotation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rot = r % 4
	return nil
}

func (d *Device) SetCalibration(c hal.Calibration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cal = c
	return nil
}

// Pressure returns the touch pressure estimate, zero when released.
func (d *Device) Pressure() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	z, _ := d.pressure()
	return z
}

func (d *Device) pressed() bool {
	if d.irq != nil && d.irq.Get() {
		return false
	}
	z, err := d.pressure()
	return err == nil && z >= d.cfg.Threshold
}

func (d *Device) pressure() (int, error) {
	z1, err := d.read(ReadZ1)
	if err != nil {
		return 0, err
	}
	z2, err := d.read(ReadZ2)
	if err != nil {
		return 0, err
	}
	if z1 == 0 {
		return 0, nil
	}
	return z1 + maxRaw - z2, nil
}

// scale maps raw readings onto native panel pixels.
func (d *Device) scale(rx, ry int) (nx, ny int) {
	if d.cfg.SwapXY {
		rx, ry = ry, rx
	}
	if d.cfg.InvertX {
		rx = maxRaw - rx
	}
	if d.cfg.InvertY {
		ry = maxRaw - ry
	}
	return rx * (d.cfg.Width - 1) / maxRaw, ry * (d.cfg.Height - 1) / maxRaw
}

// read runs one conversion. Bus errors are logged once until the bus
// recovers.
func (d *Device) read(cmd byte) (int, error) {
	d.w = [3]byte{cmd, 0, 0}
	if d.cs != nil {
		d.cs.Low()
	}
	err := d.bus.Tx(d.w[:], d.r[:])
	if d.cs != nil {
		d.cs.High()
	}
	if err != nil {
		if !d.failed {
			d.failed = true
			d.log.WriteLineString(fmt.Sprintf("xpt2046: read %#02x: %v", cmd, err))
		}
		return 0, fmt.Errorf("xpt2046: read %#02x: %w", cmd, err)
	}
	d.failed = false
	return int(uint16(d.r[1])<<8|uint16(d.r[2])) >> 3, nil
}
