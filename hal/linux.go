//go:build linux && !tinygo

package hal

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// LinuxBus is an opened spidev port.
type LinuxBus struct {
	port spi.PortCloser
	conn spi.Conn
}

// OpenLinuxSPI initializes periph.io and connects to the named SPI port
// ("" picks the first one) in mode 0, 8 bits per word.
func OpenLinuxSPI(name string, hz physic.Frequency) (*LinuxBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: host init: %w", err)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("periph: open spi %q: %w", name, err)
	}
	c, err := port.Connect(hz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("periph: connect spi %q: %w", name, err)
	}
	return &LinuxBus{port: port, conn: c}, nil
}

func (b *LinuxBus) Tx(w, r []byte) error { return b.conn.Tx(w, r) }

// MaxTxSize reports the largest single transfer the driver accepts.
func (b *LinuxBus) MaxTxSize() int {
	if l, ok := b.conn.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 {
			return n
		}
	}
	return DefaultChunk
}

func (b *LinuxBus) Close() error { return b.port.Close() }

type linuxOutput struct {
	p gpio.PinIO
}

func (o linuxOutput) High() { _ = o.p.Out(gpio.High) }
func (o linuxOutput) Low()  { _ = o.p.Out(gpio.Low) }

type linuxInput struct {
	p gpio.PinIO
}

func (i linuxInput) Get() bool { return i.p.Read() == gpio.High }

// OutputPinByName looks up a GPIO through gpioreg and drives it high.
func OutputPinByName(name string) (OutputPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("periph: unknown gpio %q", name)
	}
	if err := p.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("periph: gpio %q out: %w", name, err)
	}
	return linuxOutput{p: p}, nil
}

// InputPinByName looks up a GPIO through gpioreg as a pulled-up input.
func InputPinByName(name string) (InputPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("periph: unknown gpio %q", name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("periph: gpio %q in: %w", name, err)
	}
	return linuxInput{p: p}, nil
}
