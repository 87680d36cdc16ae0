//go:build tinygo && baremetal && picocalc

package board

import (
	"errors"
	"machine"

	"tftkit/hal"
	"tftkit/panel/ili9488"
)

// PicoCalc is the Pico/Pico2 on the PicoCalc carrier: a 320x320 ILI9488 on
// SPI1 wired for 16-bit color, no touchscreen, logging on UART0 (GP0/GP1,
// 115200 8N1).
type PicoCalc struct {
	log   hal.Logger
	panel *ili9488.Device
}

var _ Board = (*PicoCalc)(nil)

// NewPicoCalc configures the UART, SPI1 (GP10 SCK, GP11 SDO, GP12 SDI) and
// the panel pins (GP13 CS, GP14 DC, GP15 RST).
func NewPicoCalc() (*PicoCalc, error) {
	log := hal.NewUARTLogger(machine.UART0, machine.GP0, machine.GP1, 115200)

	if machine.SPI1 == nil {
		return nil, errors.New("board: SPI1 unavailable")
	}
	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		SDI:       machine.GP12,
		Frequency: 40_000_000,
	}); err != nil {
		return nil, err
	}
	cs, dc, rst := machine.GP13, machine.GP14, machine.GP15
	for _, p := range []machine.Pin{cs, dc, rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}

	panel := ili9488.New(machine.SPI1, dc, rst, cs, ili9488.Config{
		Width:    320,
		Height:   320,
		Mirror:   true,
		BGR:      true,
		Invert:   true,
		Format16: true,
		Logger:   log,
	})
	return &PicoCalc{log: log, panel: panel}, nil
}

func (b *PicoCalc) Name() string           { return "picocalc" }
func (b *PicoCalc) Panel() hal.Panel       { return b.panel }
func (b *PicoCalc) Touch() hal.Touchscreen { return nil }
func (b *PicoCalc) Logger() hal.Logger     { return b.log }

func (b *PicoCalc) Close() error {
	b.panel.Close()
	return nil
}

// Default returns the board this firmware is built for.
func Default() (Board, error) {
	b, err := NewPicoCalc()
	if err != nil {
		return nil, err
	}
	return b, nil
}
