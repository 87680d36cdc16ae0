package hal

// ToNative maps a point given in rotation r onto the unrotated panel of size w x h.
func ToNative(r Rotation, w, h, x, y int) (nx, ny int) {
	switch r % 4 {
	case Rotation90:
		return w - 1 - y, x
	case Rotation180:
		return w - 1 - x, h - 1 - y
	case Rotation270:
		return y, h - 1 - x
	default:
		return x, y
	}
}

// FromNative is the inverse of ToNative.
func FromNative(r Rotation, w, h, nx, ny int) (x, y int) {
	switch r % 4 {
	case Rotation90:
		return ny, w - 1 - nx
	case Rotation180:
		return w - 1 - nx, h - 1 - ny
	case Rotation270:
		return h - 1 - ny, nx
	default:
		return nx, ny
	}
}

// RotatedSize returns the w x h panel size seen in rotation r.
func RotatedSize(r Rotation, w, h int) (int, int) {
	if r%2 == 1 {
		return h, w
	}
	return w, h
}
