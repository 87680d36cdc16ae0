//go:build tinygo && baremetal && !picocalc

package board

import (
	"machine"

	"tftkit/hal"
	"tftkit/panel/st7789"
)

// Pico is a Raspberry Pi Pico with a Waveshare Pico-LCD-2 style module: a
// 240x320 ST7789 on SPI1, backlight on GP13, logging on UART0.
type Pico struct {
	log   hal.Logger
	panel *st7789.Device
}

var _ Board = (*Pico)(nil)

// NewPico configures SPI1 (GP10 SCK, GP11 SDO) and the panel pins (GP9 CS,
// GP8 DC, GP12 RST, GP13 backlight).
func NewPico() (*Pico, error) {
	log := hal.NewUARTLogger(machine.UART0, machine.GP0, machine.GP1, 115200)

	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		Frequency: 62_500_000,
	}); err != nil {
		return nil, err
	}
	cs, dc, rst, bl := machine.GP9, machine.GP8, machine.GP12, machine.GP13
	for _, p := range []machine.Pin{cs, dc, rst, bl} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}

	panel := st7789.New(machine.SPI1, dc, rst, cs, st7789.Config{
		Width:  240,
		Height: 320,
		Invert: true,
		Logger: log,
	})
	return &Pico{log: log, panel: panel}, nil
}

func (b *Pico) Name() string           { return "pico" }
func (b *Pico) Panel() hal.Panel       { return b.panel }
func (b *Pico) Touch() hal.Touchscreen { return nil }
func (b *Pico) Logger() hal.Logger     { return b.log }

func (b *Pico) Close() error {
	b.panel.Close()
	return nil
}

// Default returns the board this firmware is built for.
func Default() (Board, error) {
	b, err := NewPico()
	if err != nil {
		return nil, err
	}
	return b, nil
}
