package display

import "image"

// Rect is an inclusive pixel rectangle: both corners belong to it.
type Rect struct {
	X0, Y0 int
	X1, Y1 int
}

// RectWH returns the w x h rectangle with its top-left corner at (x, y).
func RectWH(x, y, w, h int) Rect {
	return Rect{X0: x, Y0: y, X1: x + w - 1, Y1: y + h - 1}
}

// Empty reports whether r covers no pixel.
func (r Rect) Empty() bool {
	return r.X1 < r.X0 || r.Y1 < r.Y0
}

func (r Rect) Dx() int {
	if r.Empty() {
		return 0
	}
	return r.X1 - r.X0 + 1
}

func (r Rect) Dy() int {
	if r.Empty() {
		return 0
	}
	return r.Y1 - r.Y0 + 1
}

// Area returns the number of pixels in r.
func (r Rect) Area() int {
	return r.Dx() * r.Dy()
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// ContainsRect reports whether s lies entirely inside r.
func (r Rect) ContainsRect(s Rect) bool {
	return s.X0 >= r.X0 && s.X1 <= r.X1 && s.Y0 >= r.Y0 && s.Y1 <= r.Y1
}

// Overlaps reports whether r and s share a pixel.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.X0 <= s.X1 && s.X0 <= r.X1 && r.Y0 <= s.Y1 && s.Y0 <= r.Y1
}

// Union returns the bounding box of r and s.
func (r Rect) Union(s Rect) Rect {
	switch {
	case r.Empty():
		return s
	case s.Empty():
		return r
	}
	return Rect{
		X0: min(r.X0, s.X0),
		Y0: min(r.Y0, s.Y0),
		X1: max(r.X1, s.X1),
		Y1: max(r.Y1, s.Y1),
	}
}

// Intersect returns the common part of r and s, possibly empty.
func (r Rect) Intersect(s Rect) Rect {
	return Rect{
		X0: max(r.X0, s.X0),
		Y0: max(r.Y0, s.Y0),
		X1: min(r.X1, s.X1),
		Y1: min(r.Y1, s.Y1),
	}
}

// Clamp clips r to a w x h screen.
func (r Rect) Clamp(w, h int) Rect {
	return r.Intersect(Rect{X1: w - 1, Y1: h - 1})
}

// Canon orders the corners so that X0 <= X1 and Y0 <= Y1.
func (r Rect) Canon() Rect {
	if r.X1 < r.X0 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y1 < r.Y0 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Image converts to the half-open image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X0, r.Y0, r.X1+1, r.Y1+1)
}
