package display

import (
	"image"
	"testing"

	"tftkit/hal"
)

func TestRect(t *testing.T) {
	r := RectWH(10, 20, 5, 3)
	if r != (Rect{X0: 10, Y0: 20, X1: 14, Y1: 22}) {
		t.Fatalf("RectWH() = %v", r)
	}
	if r.Dx() != 5 || r.Dy() != 3 || r.Area() != 15 {
		t.Fatalf("Dx, Dy, Area = %d, %d, %d, want 5, 3, 15", r.Dx(), r.Dy(), r.Area())
	}
	if !r.Contains(14, 22) || r.Contains(15, 22) {
		t.Fatalf("Contains() at the corners = %v, %v, want true, false", r.Contains(14, 22), r.Contains(15, 22))
	}
	if got := r.Image(); got != image.Rect(10, 20, 15, 23) {
		t.Fatalf("Image() = %v", got)
	}
	if got := (Rect{X0: 5, Y0: 9, X1: 1, Y1: 2}).Canon(); got != (Rect{X0: 1, Y0: 2, X1: 5, Y1: 9}) {
		t.Fatalf("Canon() = %v", got)
	}

	empty := Rect{X0: 3, X1: 2}
	if !empty.Empty() || empty.Area() != 0 {
		t.Fatalf("Empty(), Area() = %v, %d", empty.Empty(), empty.Area())
	}
	if got := empty.Union(r); got != r {
		t.Fatalf("Union(empty) = %v, want %v", got, r)
	}
	if r.Overlaps(RectWH(15, 20, 2, 2)) {
		t.Fatalf("Overlaps() of adjacent rectangles = true")
	}
	if got := r.Intersect(RectWH(12, 0, 100, 21)); got != (Rect{X0: 12, Y0: 20, X1: 14, Y1: 20}) {
		t.Fatalf("Intersect() = %v", got)
	}
}

func TestFillSpanClips(t *testing.T) {
	buf := make([]hal.Color, 10)
	// Buffer covers screen columns 100..109.
	FillSpan(buf, 100, 95, 102, hal.ColorRed)
	FillSpan(buf, 100, 108, 200, hal.ColorBlue)
	FillSpan(buf, 100, 0, 50, hal.ColorGreen)
	want := []hal.Color{
		hal.ColorRed, hal.ColorRed, hal.ColorRed, 0, 0,
		0, 0, 0, hal.ColorBlue, hal.ColorBlue,
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %#04x, want %#04x", i, buf[i], want[i])
		}
	}
}
