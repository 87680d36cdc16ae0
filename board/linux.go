//go:build linux && !tinygo

package board

import (
	"errors"
	"fmt"
	"os"

	"periph.io/x/conn/v3/physic"

	"tftkit/hal"
	"tftkit/panel/ili9488"
	"tftkit/panel/st7789"
	"tftkit/touch/xpt2046"
)

// LinuxConfig describes a panel wired to a Linux SPI controller (Raspberry
// Pi, Photonicat and similar).
type LinuxConfig struct {
	// Panel is "ili9488" or "st7789".
	Panel string
	// SPI names the spidev port ("" picks the first one); Hz is the bus
	// clock, zero selects 32MHz.
	SPI string
	Hz  physic.Frequency
	// DC, RST and CS are gpioreg pin names. RST and CS may be empty.
	DC  string
	RST string
	CS  string

	// Width and Height override the controller default size.
	Width    int
	Height   int
	Rotation hal.Rotation
	BGR      bool
	Invert   bool
	Mirror   bool

	// Touch is "evdev", "xpt2046" or "none".
	Touch string
	// TouchDev is the evdev device path for "evdev" ("" probes) or the
	// spidev port of the XPT2046.
	TouchDev string
	// TouchIRQ is the gpioreg name of the XPT2046 pen interrupt.
	TouchIRQ string
	// TouchHz is the XPT2046 clock, zero selects 2MHz.
	TouchHz physic.Frequency

	Logger hal.Logger
}

type closer interface{ Close() }

// Linux is a board built on periph.io SPI and GPIO.
type Linux struct {
	name  string
	log   hal.Logger
	panel hal.Panel
	touch hal.Touchscreen

	closers []func() error
}

var _ Board = (*Linux)(nil)

// OpenLinux opens the buses and pins of cfg and builds the drivers. Nothing
// is sent to the panel before Init.
func OpenLinux(cfg LinuxConfig) (*Linux, error) {
	if cfg.Logger == nil {
		cfg.Logger = hal.NewWriterLogger(os.Stdout)
	}
	if cfg.Hz == 0 {
		cfg.Hz = 32 * physic.MegaHertz
	}
	if cfg.TouchHz == 0 {
		cfg.TouchHz = 2 * physic.MegaHertz
	}
	b := &Linux{name: "linux-" + cfg.Panel, log: cfg.Logger}
	if err := b.openPanel(cfg); err != nil {
		_ = b.Close()
		return nil, err
	}
	if err := b.openTouch(cfg); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Linux) openPanel(cfg LinuxConfig) error {
	bus, err := hal.OpenLinuxSPI(cfg.SPI, cfg.Hz)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, bus.Close)

	if cfg.DC == "" {
		return errors.New("board: dc pin is required")
	}
	dc, err := hal.OutputPinByName(cfg.DC)
	if err != nil {
		return err
	}
	rst, err := optionalOutput(cfg.RST)
	if err != nil {
		return err
	}
	cs, err := optionalOutput(cfg.CS)
	if err != nil {
		return err
	}

	switch cfg.Panel {
	case "", "ili9488":
		d := ili9488.New(bus, dc, rst, cs, ili9488.Config{
			Width:    cfg.Width,
			Height:   cfg.Height,
			Rotation: cfg.Rotation,
			Mirror:   cfg.Mirror,
			BGR:      cfg.BGR,
			Invert:   cfg.Invert,
			Chunk:    bus.MaxTxSize(),
			Logger:   cfg.Logger,
		})
		b.panel = d
		b.closers = append(b.closers, closeFunc(d))
	case "st7789":
		d := st7789.New(bus, dc, rst, cs, st7789.Config{
			Width:    cfg.Width,
			Height:   cfg.Height,
			Rotation: cfg.Rotation,
			BGR:      cfg.BGR,
			Invert:   cfg.Invert,
			Chunk:    bus.MaxTxSize(),
			Logger:   cfg.Logger,
		})
		b.panel = d
		b.closers = append(b.closers, closeFunc(d))
	default:
		return fmt.Errorf("board: unknown panel %q", cfg.Panel)
	}
	b.log.WriteLineString(fmt.Sprintf("board: %s on spi %q at %v", cfg.Panel, cfg.SPI, cfg.Hz))
	return nil
}

func (b *Linux) openTouch(cfg LinuxConfig) error {
	// The touchscreen works in unrotated panel coordinates.
	w, h := b.panel.Width(), b.panel.Height()
	if cfg.Rotation%2 == 1 {
		w, h = h, w
	}
	switch cfg.Touch {
	case "", "none":
		return nil
	case "evdev":
		t := hal.NewEvdevTouch(cfg.TouchDev, w, h, cfg.Logger)
		b.touch = t
		b.closers = append(b.closers, t.Close)
	case "xpt2046":
		bus, err := hal.OpenLinuxSPI(cfg.TouchDev, cfg.TouchHz)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, bus.Close)
		var irq hal.InputPin
		if cfg.TouchIRQ != "" {
			if irq, err = hal.InputPinByName(cfg.TouchIRQ); err != nil {
				return err
			}
		}
		b.touch = xpt2046.New(bus, nil, irq, xpt2046.Config{Width: w, Height: h, Logger: cfg.Logger})
	default:
		return fmt.Errorf("board: unknown touchscreen %q", cfg.Touch)
	}
	return nil
}

func (b *Linux) Name() string           { return b.name }
func (b *Linux) Panel() hal.Panel       { return b.panel }
func (b *Linux) Touch() hal.Touchscreen { return b.touch }
func (b *Linux) Logger() hal.Logger     { return b.log }

// Close releases drivers, then buses, in reverse order of opening.
func (b *Linux) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

func optionalOutput(name string) (hal.OutputPin, error) {
	if name == "" {
		return nil, nil
	}
	return hal.OutputPinByName(name)
}

func closeFunc(c closer) func() error {
	return func() error {
		c.Close()
		return nil
	}
}
