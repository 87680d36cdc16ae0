package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tftkit/hal"
	"tftkit/kernel"
)

// UpdateMode selects the scan direction of the composer.
type UpdateMode uint8

const (
	// UpdateTopBottom paints rows from top to bottom.
	UpdateTopBottom UpdateMode = iota
	// UpdateLeftRight paints columns from left to right by turning the panel
	// a quarter turn. Experimental.
	UpdateLeftRight
)

const (
	defaultTriggerTimeout  = 50 * time.Millisecond
	defaultTouchTimeout    = time.Millisecond
	defaultCalibrationPoll = 100 * time.Millisecond
	debugAreaColor         = hal.ColorMagenta
)

// Config controls a Driver. Zero values select the defaults.
type Config struct {
	// Background fills every pixel no object covers.
	Background hal.Color
	// Rotation is applied to the panel and touchscreen during Setup.
	Rotation hal.Rotation
	// Mode is the initial scan direction.
	Mode UpdateMode
	// Areas is the capacity of the dirty-rectangle queue; 0 keeps a single
	// bounding rectangle.
	Areas int
	// MaxLine caps the scanline length; 0 sizes it from the panel.
	MaxLine int

	// TriggerTimeout bounds the wait for a repaint request (50ms).
	TriggerTimeout time.Duration
	// FrameTimeout bounds the wait for the frame lock before a repaint is
	// skipped (TriggerTimeout).
	FrameTimeout time.Duration
	// TouchTimeout bounds the wait for the touch state lock (1ms).
	TouchTimeout time.Duration
	// RefreshInterval, when set, requests a repaint periodically from Run.
	RefreshInterval time.Duration
	// CalibrationPoll is the sampling period of Calibrate (100ms).
	CalibrationPoll time.Duration

	Logger hal.Logger
	// DebugInfo logs frame statistics once per second.
	DebugInfo bool
	// DebugArea outlines every repainted area.
	DebugArea bool
	// DebugTouch logs dispatched touch events.
	DebugTouch bool
}

// open guards the one-driver-per-process rule.
var open atomic.Bool

type scanline struct {
	pix []hal.Color
	raw []byte
}

// Driver composes the shown objects into the panel one scanline at a time
// and dispatches touch events to them.
//
// Only one Driver may be open per process. Its composer runs in a single
// goroutine (Run or repeated Loop calls); every other method may be called
// from any goroutine.
type Driver struct {
	cfg Config
	log hal.Logger

	frame   *kernel.RecursiveMutex
	line    *kernel.Mutex
	touchMu *kernel.Mutex
	update  *kernel.Semaphore

	panel   hal.Panel
	touch   hal.Touchscreen
	started atomic.Bool
	closed  atomic.Bool

	// Guarded by line.
	list   objectList
	areas  *Tracker
	bg     hal.Color
	width  int
	height int

	// Guarded by frame.
	rotation hal.Rotation
	mode     UpdateMode
	bufs     [2]scanline
	px       [1]hal.Color

	// Guarded by touchMu.
	touched bool
	tx, ty  int

	// Owned by the composer goroutine.
	events []touchEvent

	statsMu sync.Mutex
	stats   Stats
	logged  time.Time
}

// New creates the display driver. It fails with ErrInvalidState while
// another driver is open.
func New(cfg Config) (*Driver, error) {
	if !open.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: a display driver is already open", ErrInvalidState)
	}
	if cfg.TriggerTimeout <= 0 {
		cfg.TriggerTimeout = defaultTriggerTimeout
	}
	if cfg.FrameTimeout <= 0 {
		cfg.FrameTimeout = cfg.TriggerTimeout
	}
	if cfg.TouchTimeout <= 0 {
		cfg.TouchTimeout = defaultTouchTimeout
	}
	if cfg.CalibrationPoll <= 0 {
		cfg.CalibrationPoll = defaultCalibrationPoll
	}
	log := cfg.Logger
	if log == nil {
		log = hal.NopLogger{}
	}
	return &Driver{
		cfg:      cfg,
		log:      log,
		frame:    kernel.NewRecursiveMutex(),
		line:     kernel.NewMutex(),
		touchMu:  kernel.NewMutex(),
		update:   kernel.NewSemaphore(),
		list:     newObjectList(),
		areas:    NewTracker(cfg.Areas),
		bg:       cfg.Background,
		rotation: cfg.Rotation,
		mode:     cfg.Mode,
	}, nil
}

// Close detaches the shown objects and releases the process-wide driver slot.
func (d *Driver) Close() {
	if d.closed.Swap(true) {
		return
	}
	d.line.Lock()
	for _, obj := range d.list.order() {
		_ = d.list.remove(obj)
		obj.base().disp.CompareAndSwap(d, nil)
	}
	d.line.Unlock()
	open.Store(false)
}

func (d *Driver) logf(format string, args ...any) {
	d.log.WriteLineString(fmt.Sprintf(format, args...))
}

// SetPanel assigns the panel. It must happen before the composer starts.
func (d *Driver) SetPanel(p hal.Panel) error {
	if p == nil {
		return ErrNullReference
	}
	if d.started.Load() {
		return fmt.Errorf("%w: panel must be set before the composer starts", ErrInvalidState)
	}
	d.panel = p
	return nil
}

// SetTouchscreen assigns the touchscreen; nil disables touch. It must
// happen before the composer starts.
func (d *Driver) SetTouchscreen(t hal.Touchscreen) error {
	if d.started.Load() {
		return fmt.Errorf("%w: touchscreen must be set before the composer starts", ErrInvalidState)
	}
	d.touchMu.Lock()
	d.touch = t
	d.touchMu.Unlock()
	return nil
}

// Setup initializes the panel, applies rotation and update mode, schedules
// a full repaint and initializes the touchscreen. A failing touchscreen is
// logged and disabled.
func (d *Driver) Setup() error {
	if d.panel == nil {
		return ErrNullReference
	}
	if err := d.panel.Init(); err != nil {
		return fmt.Errorf("display: panel init: %w", err)
	}

	ctx, err := d.frame.Lock(context.Background(), kernel.Forever)
	if err != nil {
		return err
	}
	err = d.orient()
	d.ensureBuffers()
	d.frame.Unlock(ctx)
	if err != nil {
		return err
	}

	d.touchMu.Lock()
	t := d.touch
	d.touchMu.Unlock()
	if t == nil {
		return nil
	}
	if err := t.Init(); err != nil {
		d.logf("display: touch init: %v; touch disabled", err)
		d.touchMu.Lock()
		d.touch = nil
		d.touchMu.Unlock()
		return nil
	}
	if err := t.SetRotation(d.cfg.Rotation); err != nil && !errors.Is(err, hal.ErrNotImplemented) {
		d.logf("display: touch rotation: %v", err)
	}
	return nil
}

// Run sets the driver up and runs the composer until ctx ends. Setup
// failures are logged; without a panel the composer keeps sampling touch.
func (d *Driver) Run(ctx context.Context) error {
	d.started.Store(true)
	if err := d.Setup(); err != nil {
		d.logf("display: setup: %v", err)
	}
	if d.cfg.RefreshInterval > 0 {
		kernel.StartTicker(ctx, d.cfg.RefreshInterval, d.update.Give)
	}
	return kernel.Loop(ctx, d.Loop)
}

// Loop runs one composer cycle: wait for a repaint request, repaint the
// dirty areas if one arrived, then sample the touchscreen.
func (d *Driver) Loop(ctx context.Context) error {
	err := d.update.Take(ctx, d.cfg.TriggerTimeout)
	switch {
	case err == nil:
		d.repaint(ctx)
	case errors.Is(err, kernel.ErrTimeout):
	default:
		return err
	}
	d.sampleTouch()
	d.debugInfo()
	return nil
}

// RequestRepaint wakes the composer.
func (d *Driver) RequestRepaint() {
	d.update.Give()
}

// Show adds obj to the display list with priority z. Objects with higher z
// are painted later; equal priorities keep their insertion order.
func (d *Driver) Show(obj Drawable, z uint32) error {
	if obj == nil {
		return ErrNullReference
	}
	o := obj.base()
	d.line.Lock()
	defer d.line.Unlock()
	if err := d.list.insert(obj, z); err != nil {
		return err
	}
	o.disp.Store(d)
	d.invalidateLocked(o.bounds)
	return nil
}

// Hide removes obj from the display list and repaints the area it covered.
func (d *Driver) Hide(obj Drawable) error {
	if obj == nil {
		return ErrNullReference
	}
	o := obj.base()
	d.line.Lock()
	defer d.line.Unlock()
	if err := d.list.remove(obj); err != nil {
		return err
	}
	d.invalidateLocked(o.bounds)
	return nil
}

// Len returns the number of shown objects.
func (d *Driver) Len() int {
	d.line.Lock()
	defer d.line.Unlock()
	return d.list.len()
}

// Objects returns the shown objects in paint order.
func (d *Driver) Objects() []Drawable {
	d.line.Lock()
	defer d.line.Unlock()
	return d.list.order()
}

// InvalidateRect schedules a repaint of r, clipped to the screen.
func (d *Driver) InvalidateRect(r Rect) error {
	d.line.Lock()
	defer d.line.Unlock()
	return d.areas.Invalidate(r)
}

// InvalidateAll schedules a repaint of the whole screen.
func (d *Driver) InvalidateAll() error {
	d.line.Lock()
	defer d.line.Unlock()
	return d.invalidateAllLocked()
}

func (d *Driver) invalidateAllLocked() error {
	return d.areas.Invalidate(Rect{X1: d.width - 1, Y1: d.height - 1})
}

// invalidateLocked records r, ignoring areas outside the screen.
func (d *Driver) invalidateLocked(r Rect) {
	_ = d.areas.Invalidate(r)
}

// Size returns the screen size in the current rotation.
func (d *Driver) Size() (w, h int) {
	d.line.Lock()
	defer d.line.Unlock()
	return d.width, d.height
}

// SetBackgroundColor changes the background and repaints the screen.
func (d *Driver) SetBackgroundColor(c hal.Color) {
	d.line.Lock()
	defer d.line.Unlock()
	if d.bg == c {
		return
	}
	d.bg = c
	_ = d.invalidateAllLocked()
}

// LockFrame blocks repaints until UnlockFrame. Pass the returned context to
// SetRotation, SetUpdateMode or InvertDisplay to call them while holding it.
func (d *Driver) LockFrame(ctx context.Context) (context.Context, error) {
	return d.frame.Lock(ctx, kernel.Forever)
}

// UnlockFrame releases a LockFrame.
func (d *Driver) UnlockFrame(ctx context.Context) {
	d.frame.Unlock(ctx)
}

// SetRotation turns the screen and the touchscreen and repaints everything.
func (d *Driver) SetRotation(ctx context.Context, r hal.Rotation) error {
	fctx, err := d.frame.Lock(ctx, kernel.Forever)
	if err != nil {
		return err
	}
	defer d.frame.Unlock(fctx)
	if d.panel == nil {
		return ErrNullReference
	}

	d.waitTransfer()
	d.rotation = r % 4
	if err := d.orient(); err != nil {
		return err
	}
	d.touchMu.Lock()
	t := d.touch
	d.touchMu.Unlock()
	if t != nil {
		if err := t.SetRotation(d.rotation); err != nil && !errors.Is(err, hal.ErrNotImplemented) {
			return fmt.Errorf("display: touch rotation: %w", err)
		}
	}
	return nil
}

// Rotation returns the current screen rotation.
func (d *Driver) Rotation() hal.Rotation {
	ctx, err := d.frame.Lock(context.Background(), kernel.Forever)
	if err != nil {
		return d.cfg.Rotation
	}
	defer d.frame.Unlock(ctx)
	return d.rotation
}

// SetUpdateMode switches the scan direction and repaints everything.
func (d *Driver) SetUpdateMode(ctx context.Context, m UpdateMode) error {
	fctx, err := d.frame.Lock(ctx, kernel.Forever)
	if err != nil {
		return err
	}
	defer d.frame.Unlock(fctx)
	if d.panel == nil {
		return ErrNullReference
	}
	d.waitTransfer()
	d.mode = m
	return d.orient()
}

// InvertDisplay toggles the panel's color inversion.
func (d *Driver) InvertDisplay(ctx context.Context, invert bool) error {
	fctx, err := d.frame.Lock(ctx, kernel.Forever)
	if err != nil {
		return err
	}
	defer d.frame.Unlock(fctx)
	if d.panel == nil {
		return ErrNullReference
	}
	d.waitTransfer()
	return d.panel.InvertDisplay(invert)
}

// orient pushes rotation and mode to the panel and resets the dirty areas
// to the whole screen. Caller holds the frame lock.
func (d *Driver) orient() error {
	r := d.rotation
	if d.mode == UpdateLeftRight {
		r = hal.RotateBy(r, -1)
	}
	if err := d.panel.SetRotation(r); err != nil && !errors.Is(err, hal.ErrNotImplemented) {
		return fmt.Errorf("display: panel rotation: %w", err)
	}
	w, h := d.panel.Width(), d.panel.Height()
	if d.mode == UpdateLeftRight {
		w, h = h, w
	}

	d.line.Lock()
	defer d.line.Unlock()
	d.width, d.height = w, h
	d.areas.Drain()
	d.areas.Resize(w, h)
	d.areas.SetTranspose(d.mode == UpdateLeftRight)
	_ = d.invalidateAllLocked()
	return nil
}
