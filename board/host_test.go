package board

import (
	"testing"

	"tftkit/hal"
)

func TestHost(t *testing.T) {
	b := NewHost(hal.HostConfig{Width: 48, Height: 32})
	defer b.Close()

	var _ Board = b
	if b.Name() != "host" {
		t.Fatalf("Name() = %q, want host", b.Name())
	}
	p := b.Panel()
	if err := p.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if p.Width() != 48 || p.Height() != 32 {
		t.Fatalf("panel = %dx%d, want 48x32", p.Width(), p.Height())
	}
	b.Sim().Touch().Press(3, 4)
	if x, y, ok := b.Touch().GetXY(); !ok || x != 3 || y != 4 {
		t.Fatalf("GetXY() = %d, %d, %v, want 3, 4, true", x, y, ok)
	}
}
