package st7789

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"tftkit/hal"
)

type fakePin struct {
	mu    sync.Mutex
	level bool
}

func (p *fakePin) High() { p.set(true) }
func (p *fakePin) Low()  { p.set(false) }

func (p *fakePin) set(v bool) {
	p.mu.Lock()
	p.level = v
	p.mu.Unlock()
}

func (p *fakePin) get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

type cmd struct {
	op   byte
	data []byte
}

type fakeBus struct {
	dc *fakePin

	mu   sync.Mutex
	cmds []cmd
}

func (b *fakeBus) Tx(w, _ []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.dc.get() {
		b.cmds = append(b.cmds, cmd{op: w[0]})
		return nil
	}
	if n := len(b.cmds); n > 0 {
		b.cmds[n-1].data = append(b.cmds[n-1].data, w...)
	}
	return nil
}

func (b *fakeBus) last(op byte) (cmd, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.cmds) - 1; i >= 0; i-- {
		if b.cmds[i].op == op {
			return b.cmds[i], true
		}
	}
	return cmd{}, false
}

func newTestDevice(t *testing.T, cfg Config) (*Device, *fakeBus) {
	t.Helper()
	dc := &fakePin{}
	bus := &fakeBus{dc: dc}
	d := New(bus, dc, &fakePin{}, &fakePin{}, cfg)
	d.sleep = func(time.Duration) {}
	t.Cleanup(d.Close)
	if err := d.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	return d, bus
}

func TestInit(t *testing.T) {
	d, bus := newTestDevice(t, Config{Invert: true})
	if d.Width() != 240 || d.Height() != 320 {
		t.Fatalf("size = %dx%d, want 240x320", d.Width(), d.Height())
	}
	if c, ok := bus.last(COLMOD); !ok || !bytes.Equal(c.data, []byte{colorRGB565}) {
		t.Fatalf("COLMOD = %x, want 55", c.data)
	}
	if c, ok := bus.last(PORCTRL); !ok || c.data[0] != 8 || c.data[1] != 8 {
		t.Fatalf("PORCTRL = %x, want 08 08 ...", c.data)
	}
	if _, ok := bus.last(INVON); !ok {
		t.Fatalf("INVON not sent")
	}
	if _, ok := bus.last(DISPON); !ok {
		t.Fatalf("DISPON not sent")
	}
}

func TestWindowOffsets(t *testing.T) {
	tests := []struct {
		rot      hal.Rotation
		madctl   byte
		col, row []byte
	}{
		{hal.Rotation0, 0, []byte{0, 0, 0, 9}, []byte{0, 0, 0, 9}},
		{hal.Rotation90, MADCTL_MX | MADCTL_MV, []byte{0, 0, 0, 9}, []byte{0, 0, 0, 9}},
		{hal.Rotation180, MADCTL_MX | MADCTL_MY, []byte{0, 0, 0, 9}, []byte{0, 80, 0, 89}},
		{hal.Rotation270, MADCTL_MY | MADCTL_MV, []byte{0, 80, 0, 89}, []byte{0, 0, 0, 9}},
	}
	d, bus := newTestDevice(t, Config{Width: 240, Height: 240, RowOffset: 80})
	for _, tt := range tests {
		if err := d.SetRotation(tt.rot); err != nil {
			t.Fatalf("SetRotation(%d) = %v", tt.rot, err)
		}
		if c, _ := bus.last(MADCTL); c.data[0] != tt.madctl {
			t.Fatalf("rotation %d: MADCTL = %#02x, want %#02x", tt.rot, c.data[0], tt.madctl)
		}
		if err := d.SetAddrWindow(0, 0, 9, 9); err != nil {
			t.Fatalf("SetAddrWindow() = %v", err)
		}
		if err := d.StopTransfer(); err != nil {
			t.Fatalf("StopTransfer() = %v", err)
		}
		if c, _ := bus.last(CASET); !bytes.Equal(c.data, tt.col) {
			t.Fatalf("rotation %d: CASET = %x, want %x", tt.rot, c.data, tt.col)
		}
		if c, _ := bus.last(RASET); !bytes.Equal(c.data, tt.row) {
			t.Fatalf("rotation %d: RASET = %x, want %x", tt.rot, c.data, tt.row)
		}
	}
}

func TestStream(t *testing.T) {
	d, bus := newTestDevice(t, Config{})
	if err := d.SetAddrWindow(0, 0, 1, 0); err != nil {
		t.Fatalf("SetAddrWindow() = %v", err)
	}
	buf := make([]byte, 4)
	hal.PackRGB565(buf, []hal.Color{hal.ColorRed, hal.ColorGreen})
	if err := d.WriteDataStream(buf); err != nil {
		t.Fatalf("WriteDataStream() = %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for !d.IsTransferComplete() {
		if time.Now().After(deadline) {
			t.Fatalf("transfer did not complete")
		}
		time.Sleep(time.Millisecond)
	}
	if err := d.StopTransfer(); err != nil {
		t.Fatalf("StopTransfer() = %v", err)
	}
	if c, _ := bus.last(RAMWR); !bytes.Equal(c.data, []byte{0xF8, 0x00, 0x07, 0xE0}) {
		t.Fatalf("RAMWR data = %x, want f80007e0", c.data)
	}
	if err := d.WriteDataStream(buf); err == nil {
		t.Fatalf("WriteDataStream() after StopTransfer() = nil, want error")
	}
}
