//go:build linux && !tinygo

package hal

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/holoplot/go-evdev"
)

// EvdevTouch reads a kernel input device (ads7846, goodix, ...) as a touchscreen.
type EvdevTouch struct {
	path string
	w, h int
	log  Logger

	dev    *evdev.InputDevice
	closed atomic.Bool

	minX, maxX int32
	minY, maxY int32

	mu      sync.Mutex
	rot     Rotation
	cal     Calibration
	touched bool
	rx, ry  int32
}

// NewEvdevTouch prepares a touchscreen on path covering a w x h panel. An
// empty path selects the first device whose name looks like a touchscreen.
func NewEvdevTouch(path string, w, h int, log Logger) *EvdevTouch {
	if log == nil {
		log = NopLogger{}
	}
	return &EvdevTouch{path: path, w: w, h: h, log: log, cal: IdentityCalibration}
}

func findTouchDevice() (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("evdev: list devices: %w", err)
	}
	for _, ip := range paths {
		name := strings.ToLower(ip.Name)
		if strings.Contains(name, "touch") || strings.Contains(name, "ads7846") || strings.Contains(name, "goodix") {
			return ip.Path, nil
		}
	}
	return "", errors.New("evdev: no touchscreen device found")
}

// Init opens the device, reads the axis ranges and starts the reader goroutine.
func (t *EvdevTouch) Init() error {
	path := t.path
	if path == "" {
		p, err := findTouchDevice()
		if err != nil {
			return err
		}
		path = p
	}
	dev, err := evdev.Open(path)
	if err != nil {
		return fmt.Errorf("evdev: open %s: %w", path, err)
	}
	infos, err := dev.AbsInfos()
	if err != nil {
		_ = dev.Close()
		return fmt.Errorf("evdev: abs info %s: %w", path, err)
	}
	x, okX := infos[evdev.ABS_X]
	y, okY := infos[evdev.ABS_Y]
	if !okX || !okY || x.Maximum <= x.Minimum || y.Maximum <= y.Minimum {
		_ = dev.Close()
		return fmt.Errorf("evdev: %s has no absolute axes", path)
	}
	t.minX, t.maxX = x.Minimum, x.Maximum
	t.minY, t.maxY = y.Minimum, y.Maximum
	t.dev = dev

	name, _ := dev.Name()
	t.log.WriteLineString(fmt.Sprintf("evdev: using %s (%s)", path, name))
	go t.read()
	return nil
}

func (t *EvdevTouch) read() {
	touched, rx, ry := false, int32(0), int32(0)
	for {
		ev, err := t.dev.ReadOne()
		if err != nil {
			if !t.closed.Load() {
				t.log.WriteLineString(fmt.Sprintf("evdev: read: %v", err))
			}
			t.mu.Lock()
			t.touched = false
			t.mu.Unlock()
			return
		}
		switch ev.Type {
		case evdev.EV_KEY:
			if ev.Code == evdev.BTN_TOUCH {
				touched = ev.Value != 0
			}
		case evdev.EV_ABS:
			switch ev.Code {
			case evdev.ABS_X, evdev.ABS_MT_POSITION_X:
				rx = ev.Value
			case evdev.ABS_Y, evdev.ABS_MT_POSITION_Y:
				ry = ev.Value
			}
		case evdev.EV_SYN:
			if ev.Code == evdev.SYN_REPORT {
				t.mu.Lock()
				t.touched, t.rx, t.ry = touched, rx, ry
				t.mu.Unlock()
			}
		}
	}
}

func (t *EvdevTouch) IsTouched() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.touched
}

func (t *EvdevTouch) GetXY() (x, y int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.touched {
		return 0, 0, false
	}
	nx := int(int64(t.rx-t.minX) * int64(t.w-1) / int64(t.maxX-t.minX))
	ny := int(int64(t.ry-t.minY) * int64(t.h-1) / int64(t.maxY-t.minY))
	x, y = FromNative(t.rot, t.w, t.h, nx, ny)
	x, y = t.cal.Apply(x, y)
	return x, y, true
}

func (t *EvdevTouch) SetRotation(r Rotation) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rot = r % 4
	return nil
}

func (t *EvdevTouch) SetCalibration(c Calibration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cal = c
	return nil
}

// Close releases the device and stops the reader.
func (t *EvdevTouch) Close() error {
	if t.dev == nil || t.closed.Swap(true) {
		return nil
	}
	return t.dev.Close()
}
