package hal

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) WriteLineString(string) {}
func (NopLogger) WriteLineBytes([]byte)  {}

// OutputPin is a minimal output pin abstraction.
//
// machine.Pin satisfies it directly on TinyGo.
type OutputPin interface {
	High()
	Low()
}

// InputPin is a minimal input pin abstraction.
type InputPin interface {
	Get() bool
}

// SPI is a half-duplex byte transport.
//
// Both *machine.SPI (TinyGo) and periph.io spi.Conn satisfy it.
type SPI interface {
	Tx(w, r []byte) error
}

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrBusy           = errors.New("transfer in progress")
)

// Rotation is the panel orientation, shared with the TinyGo drivers.
type Rotation = drivers.Rotation

const (
	Rotation0   Rotation = drivers.Rotation0
	Rotation90  Rotation = drivers.Rotation90
	Rotation180 Rotation = drivers.Rotation180
	Rotation270 Rotation = drivers.Rotation270
)

// RotateBy returns r turned by steps quarter turns (negative is counter-clockwise).
func RotateBy(r Rotation, steps int) Rotation {
	n := (int(r) + steps) % 4
	if n < 0 {
		n += 4
	}
	return Rotation(n)
}

// Panel is a TFT controller reached over a serial bus.
//
// Width and Height report the size in the current rotation. WriteDataStream
// starts an asynchronous transfer into the current address window; the buffer
// must stay untouched until IsTransferComplete reports true.
type Panel interface {
	Init() error
	Width() int
	Height() int
	SetAddrWindow(x0, y0, x1, y1 int) error
	WriteDataStream(buf []byte) error
	IsTransferComplete() bool
	StopTransfer() error
	SetRotation(r Rotation) error
	InvertDisplay(invert bool) error
}

// DataPreparer is implemented by panels whose wire format is not RGB565.
type DataPreparer interface {
	IsDataNeedPreparation() bool
	// PixelDataCount returns the wire size of n pixels in bytes.
	PixelDataCount(n int) int
	// PrepareData packs src into dst and returns the number of bytes written.
	PrepareData(dst []byte, src []Color) int
}

// CalibrationCoef is the fixed-point base of Calibration coefficients.
const CalibrationCoef = 100

// Calibration maps raw touch readings to screen coordinates:
// x = raw*CalibrationCoef/KX + BX.
type Calibration struct {
	KX, KY int
	BX, BY int
}

// IdentityCalibration passes raw readings through unchanged.
var IdentityCalibration = Calibration{KX: CalibrationCoef, KY: CalibrationCoef}

// Apply converts a raw reading.
func (c Calibration) Apply(rawX, rawY int) (x, y int) {
	if c.KX == 0 || c.KY == 0 {
		return rawX, rawY
	}
	return rawX*CalibrationCoef/c.KX + c.BX, rawY*CalibrationCoef/c.KY + c.BY
}

// Touchscreen provides a single pointer sample.
//
// GetXY reports calibrated coordinates in the current rotation and false
// when nothing touches the screen.
type Touchscreen interface {
	Init() error
	IsTouched() bool
	GetXY() (x, y int, ok bool)
	SetRotation(r Rotation) error
	SetCalibration(c Calibration) error
}
