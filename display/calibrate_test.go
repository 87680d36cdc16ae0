package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"tftkit/hal"
)

type sample struct {
	down bool
	x, y int
}

// replayTouch hands out one scripted raw sample per GetXY call.
type replayTouch struct {
	samples []sample
	cal     hal.Calibration
}

func (r *replayTouch) Init() error { return nil }

func (r *replayTouch) SetRotation(hal.Rotation) error { return nil }

func (r *replayTouch) SetCalibration(c hal.Calibration) error {
	r.cal = c
	return nil
}

func (r *replayTouch) IsTouched() bool {
	return len(r.samples) > 0 && r.samples[0].down
}

func (r *replayTouch) GetXY() (int, int, bool) {
	if len(r.samples) == 0 {
		return 0, 0, false
	}
	s := r.samples[0]
	r.samples = r.samples[1:]
	return s.x, s.y, s.down
}

func calibrationDriver(t *testing.T, touch hal.Touchscreen) *Driver {
	t.Helper()
	d := newTestDriver(t, Config{CalibrationPoll: time.Millisecond})
	_ = d.SetPanel(newFakePanel(t, 240, 320))
	_ = d.SetTouchscreen(touch)
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	return d
}

func TestCalibrate(t *testing.T) {
	touch := &replayTouch{samples: []sample{
		{}, {},
		{true, 298, 400}, {true, 302, 400},
		{},
		{true, 740, 850}, {true, 740, 850},
		{},
	}}
	d := calibrationDriver(t, touch)
	scene := activeBox(t, d, RectWH(0, 0, 240, 320), 5)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	if err := d.Calibrate(ctx); err != nil {
		t.Fatalf("Calibrate() = %v", err)
	}

	want := hal.Calibration{KX: 200, KY: 150, BX: -140, BY: -256}
	if touch.cal != want {
		t.Fatalf("calibration = %+v, want %+v", touch.cal, want)
	}
	if x, y := touch.cal.Apply(300, 400); x != 10 || y != 10 {
		t.Fatalf("Apply(first point) = %d, %d, want 10, 10", x, y)
	}
	if got := d.Objects(); len(got) != 1 || got[0] != Drawable(scene) {
		t.Fatalf("Objects() after Calibrate = %d objects, want the scene only", len(got))
	}
}

func TestCalibrateErrors(t *testing.T) {
	t.Run("no touchscreen", func(t *testing.T) {
		d, _ := setupDriver(t, 240, 320, Config{})
		if err := d.Calibrate(context.Background()); !errors.Is(err, ErrNullReference) {
			t.Fatalf("Calibrate() = %v, want %v", err, ErrNullReference)
		}
	})

	t.Run("screen too small", func(t *testing.T) {
		d, _ := setupDriver(t, 20, 64, Config{})
		touch := &replayTouch{}
		if err := d.SetTouchscreen(touch); err != nil {
			t.Fatalf("SetTouchscreen() = %v", err)
		}
		if err := d.Calibrate(context.Background()); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("Calibrate() = %v, want %v", err, ErrInvalidState)
		}
		if d.Len() != 0 {
			t.Fatalf("Len() after failed Calibrate = %d, want 0", d.Len())
		}
	})

	t.Run("same point twice", func(t *testing.T) {
		touch := &replayTouch{samples: []sample{
			{true, 500, 500}, {},
			{true, 500, 500}, {},
		}}
		d := calibrationDriver(t, touch)
		if err := d.Calibrate(context.Background()); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("Calibrate() = %v, want %v", err, ErrInvalidState)
		}
		if d.Len() != 0 {
			t.Fatalf("Len() after failed Calibrate = %d, want 0", d.Len())
		}
	})

	t.Run("canceled", func(t *testing.T) {
		d := calibrationDriver(t, &replayTouch{})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if err := d.Calibrate(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Calibrate() = %v, want %v", err, context.DeadlineExceeded)
		}
	})
}
