package hal

import (
	"image/color"
	"testing"
)

func TestRGB(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    Color
	}{
		{0, 0, 0, ColorBlack},
		{255, 255, 255, ColorWhite},
		{255, 0, 0, ColorRed},
		{0, 255, 0, ColorGreen},
		{0, 0, 255, ColorBlue},
	}
	for _, tt := range tests {
		if got := RGB(tt.r, tt.g, tt.b); got != tt.want {
			t.Fatalf("RGB(%d, %d, %d) = %#04x, want %#04x", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestFromColor(t *testing.T) {
	if got := FromColor(color.RGBA{R: 255, A: 255}); got != ColorRed {
		t.Fatalf("FromColor(red) = %#04x, want %#04x", got, ColorRed)
	}
	if got := FromColor(ColorCyan); got != ColorCyan {
		t.Fatalf("FromColor(ColorCyan) = %#04x, want %#04x", got, ColorCyan)
	}
}

func TestPackRGB565(t *testing.T) {
	dst := make([]byte, 4)
	n := PackRGB565(dst, []Color{0xF81F, 0x1234, 0xFFFF})
	if n != 4 {
		t.Fatalf("PackRGB565() = %d, want 4", n)
	}
	want := []byte{0xF8, 0x1F, 0x12, 0x34}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %#02x, want %#02x", i, dst[i], want[i])
		}
	}
}

func TestPackRGB666(t *testing.T) {
	dst := make([]byte, 9)
	n := PackRGB666(dst, []Color{ColorRed, ColorGreen, ColorBlue})
	if n != 9 {
		t.Fatalf("PackRGB666() = %d, want 9", n)
	}
	want := []byte{0xF8, 0, 0, 0, 0xFC, 0, 0, 0, 0xF8}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %#02x, want %#02x", i, dst[i], want[i])
		}
	}
}

func TestRotatePointRoundTrip(t *testing.T) {
	const w, h = 240, 320
	for r := Rotation0; r <= Rotation270; r++ {
		rw, rh := RotatedSize(r, w, h)
		for _, p := range [][2]int{{0, 0}, {rw - 1, 0}, {0, rh - 1}, {rw - 1, rh - 1}, {17, 42}} {
			nx, ny := ToNative(r, w, h, p[0], p[1])
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				t.Fatalf("ToNative(%d, %v) = (%d, %d), outside %dx%d", r, p, nx, ny, w, h)
			}
			x, y := FromNative(r, w, h, nx, ny)
			if x != p[0] || y != p[1] {
				t.Fatalf("FromNative(ToNative(%d, %v)) = (%d, %d)", r, p, x, y)
			}
		}
	}
}

func TestRotateBy(t *testing.T) {
	if got := RotateBy(Rotation0, -1); got != Rotation270 {
		t.Fatalf("RotateBy(0, -1) = %d, want %d", got, Rotation270)
	}
	if got := RotateBy(Rotation270, 2); got != Rotation90 {
		t.Fatalf("RotateBy(270, 2) = %d, want %d", got, Rotation90)
	}
}

func TestCalibrationApply(t *testing.T) {
	x, y := IdentityCalibration.Apply(12, 34)
	if x != 12 || y != 34 {
		t.Fatalf("identity Apply() = (%d, %d), want (12, 34)", x, y)
	}
	c := Calibration{KX: 200, KY: 50, BX: 5, BY: -3}
	x, y = c.Apply(100, 100)
	if x != 55 || y != 197 {
		t.Fatalf("Apply() = (%d, %d), want (55, 197)", x, y)
	}
}
