package display

import (
	"context"
	"fmt"
	"math"
	"time"

	"tftkit/hal"
)

// calibrationInset is the distance of both targets from their corners.
const calibrationInset = 10

// solid fills its bounds with one color.
type solid struct {
	Object
	color hal.Color
}

func (s *solid) DrawRow(buf []hal.Color, y, x0 int) {
	b := s.bounds
	if y < b.Y0 || y > b.Y1 {
		return
	}
	FillSpan(buf, x0, b.X0, b.X1, s.color)
}

// Calibrate runs the two-point touchscreen calibration: it covers the
// screen, asks for a touch on a target near the top-left and then near the
// bottom-right corner, and installs the resulting coefficients. The composer
// must be running. Objects below the calibration screen get no touch events
// while it runs.
func (d *Driver) Calibrate(ctx context.Context) error {
	d.touchMu.Lock()
	t := d.touch
	d.touchMu.Unlock()
	if t == nil {
		return ErrNullReference
	}
	w, h := d.Size()
	if w <= 2*calibrationInset || h <= 2*calibrationInset {
		return fmt.Errorf("%w: %dx%d screen too small to calibrate", ErrInvalidState, w, h)
	}
	if err := t.SetCalibration(hal.IdentityCalibration); err != nil {
		return fmt.Errorf("display: reset calibration: %w", err)
	}

	d.line.Lock()
	bg := d.bg
	d.line.Unlock()

	// The cover is active so that it swallows touches meant for the scene.
	cover := &solid{color: bg}
	cover.bounds = Rect{X1: w - 1, Y1: h - 1}
	cover.active = true
	target := &solid{color: hal.ColorWhite ^ bg}
	if err := d.Show(cover, math.MaxUint32-1); err != nil {
		return err
	}
	defer d.Hide(cover)
	if err := d.Show(target, math.MaxUint32); err != nil {
		return err
	}
	defer d.Hide(target)

	points := [2][2]int{
		{calibrationInset, calibrationInset},
		{w - calibrationInset, h - calibrationInset},
	}
	var raw [2][2]int
	for i, p := range points {
		target.Update(func(r *Rect) { *r = RectWH(p[0]-1, p[1]-1, 3, 3) })
		x, y, err := d.samplePoint(ctx, t)
		if err != nil {
			return err
		}
		raw[i] = [2]int{x, y}
		d.logf("display: calibration point %d raw (%d,%d)", i+1, x, y)
	}

	kx := (raw[1][0] - raw[0][0]) * hal.CalibrationCoef / (w - 2*calibrationInset)
	ky := (raw[1][1] - raw[0][1]) * hal.CalibrationCoef / (h - 2*calibrationInset)
	if kx == 0 || ky == 0 {
		return fmt.Errorf("%w: calibration points coincide", ErrInvalidState)
	}
	cal := hal.Calibration{
		KX: kx,
		KY: ky,
		BX: calibrationInset - raw[0][0]*hal.CalibrationCoef/kx,
		BY: calibrationInset - raw[0][1]*hal.CalibrationCoef/ky,
	}
	if err := t.SetCalibration(cal); err != nil {
		return fmt.Errorf("display: set calibration: %w", err)
	}
	d.logf("display: calibration kx=%d ky=%d bx=%d by=%d", cal.KX, cal.KY, cal.BX, cal.BY)
	return nil
}

// samplePoint waits for a press and returns the average of the samples
// taken until release.
func (d *Driver) samplePoint(ctx context.Context, t hal.Touchscreen) (x, y int, err error) {
	var sx, sy, n int
	for {
		d.RequestRepaint()
		if err := sleepContext(ctx, d.cfg.CalibrationPoll); err != nil {
			return 0, 0, err
		}
		if !d.touchMu.TryLock(d.cfg.TouchTimeout) {
			continue
		}
		tx, ty, ok := t.GetXY()
		d.touchMu.Unlock()
		if ok {
			sx += tx
			sy += ty
			n++
			continue
		}
		if n > 0 {
			return sx / n, sy / n, nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
