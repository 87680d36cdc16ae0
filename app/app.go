// Package app is the demo scene: it wires a board into a display driver and
// shows every primitive, a touch checkbox and an on-screen log console.
package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"tftkit/board"
	"tftkit/display"
	"tftkit/gfx"
	"tftkit/hal"
	"tftkit/internal/buildinfo"
)

// Config controls the demo.
type Config struct {
	Display display.Config
	// Calibrate runs the touchscreen calibration once the composer starts.
	Calibrate bool
	// NoConsole hides the log console.
	NoConsole bool
}

// Z order of the scene layers.
const (
	zBackground = 10
	zShapes     = 20
	zSprite     = 30
	zWidgets    = 40
)

const (
	colorBackground = hal.Color(0x0010)
	colorFrame      = hal.Color(0x8410)
	colorAccent     = hal.ColorYellow
)

type layer struct {
	d display.Drawable
	z uint32
}

// App owns the driver and the scene objects.
type App struct {
	b   board.Board
	drv *display.Driver
	log hal.Logger
	cfg Config

	sink    *consoleSink
	console *gfx.Console

	area    display.Rect
	title   *gfx.Text
	stats   *gfx.Text
	frame   *gfx.Box
	line    *gfx.Line
	tri     *gfx.Triangle
	sprite  *gfx.Circle
	image   *gfx.Image
	shapes  *gfx.Checkbox
	label   *gfx.Text
	toggle  chan bool
	dx, dy  int
	sx, sy  int
	radius  int
	statsAt time.Time
	shown   bool
}

// New creates the driver for b and builds the scene. The composer is not
// started; call Start or Run.
func New(b board.Board, cfg Config) (*App, error) {
	a := &App{b: b, cfg: cfg, toggle: make(chan bool, 4)}
	a.log = b.Logger()
	if !cfg.NoConsole {
		a.sink = newConsoleSink(64)
		a.log = teeLogger{a.log, a.sink}
	}
	if cfg.Display.Logger == nil {
		cfg.Display.Logger = a.log
	}
	if cfg.Display.Background == 0 {
		cfg.Display.Background = colorBackground
	}
	drv, err := display.New(cfg.Display)
	if err != nil {
		return nil, err
	}
	a.drv = drv
	if err := drv.SetPanel(b.Panel()); err != nil {
		drv.Close()
		return nil, fmt.Errorf("app: %w", err)
	}
	if t := b.Touch(); t != nil {
		if err := drv.SetTouchscreen(t); err != nil {
			drv.Close()
			return nil, fmt.Errorf("app: %w", err)
		}
	}
	if err := a.build(); err != nil {
		drv.Close()
		return nil, err
	}
	a.log.WriteLineString(fmt.Sprintf("app: tftkit %s on %s", buildinfo.Short(), b.Name()))
	return a, nil
}

// Driver returns the display driver.
func (a *App) Driver() *display.Driver { return a.drv }

// Logger returns the logger that also feeds the console.
func (a *App) Logger() hal.Logger { return a.log }

func (a *App) build() error {
	// Panels start unrotated; Setup applies the configured rotation.
	p := a.b.Panel()
	w, h := hal.RotatedSize(a.cfg.Display.Rotation, p.Width(), p.Height())
	split := h / 2
	if a.cfg.NoConsole {
		split = h - 16
	}
	a.area = display.RectWH(4, 44, w-8, split-48)

	a.title = gfx.NewText(4, 4, "tftkit "+buildinfo.Short(), nil, hal.ColorWhite)
	a.shapes = gfx.NewCheckbox(4, 20, 16, colorAccent, colorBackground)
	a.shapes.SetChecked(true)
	a.shapes.OnChange(func(checked bool) {
		select {
		case a.toggle <- checked:
		default:
		}
	})
	a.label = gfx.NewText(26, 24, "shapes", nil, hal.ColorWhite)
	a.stats = gfx.NewText(w/2, 24, "", nil, hal.ColorCyan)

	ar := a.area
	a.frame = gfx.NewBox(ar.X0, ar.Y0, ar.Dx(), ar.Dy(), colorFrame, false)
	a.line = gfx.NewLine(ar.X0+2, ar.Y1-2, ar.X0+ar.Dx()/2, ar.Y0+2, hal.ColorGreen)
	a.tri = gfx.NewTriangle(
		ar.X0+ar.Dx()/2, ar.Y1-4,
		ar.X0+ar.Dx()*3/4, ar.Y0+8,
		ar.X1-4, ar.Y1-4,
		hal.ColorRed,
	)
	a.image = gfx.NewImageScaled(ar.X1-52, ar.Y0+4, 48, 48, gradient(8))

	a.radius = 8
	a.sx, a.sy = ar.X0+a.radius+2, ar.Y0+a.radius+2
	a.dx, a.dy = 2, 1
	a.sprite = gfx.NewCircle(a.sx, a.sy, a.radius, colorAccent, true)

	objs := []layer{
		{a.frame, zBackground},
		{a.line, zShapes},
		{a.tri, zShapes},
		{a.image, zShapes},
		{a.sprite, zSprite},
		{a.title, zWidgets},
		{a.shapes, zWidgets},
		{a.label, zWidgets},
		{a.stats, zWidgets},
	}
	if !a.cfg.NoConsole {
		a.console = gfx.NewConsole(0, split, w, h-split, nil)
		objs = append(objs, layer{a.console, zBackground})
	}
	for _, o := range objs {
		if err := a.drv.Show(o.d, o.z); err != nil {
			return fmt.Errorf("app: show: %w", err)
		}
	}
	a.shown = true
	return nil
}

// Start runs the composer in the background until ctx ends.
func (a *App) Start(ctx context.Context) {
	go func() {
		if err := a.drv.Run(ctx); err != nil && ctx.Err() == nil {
			a.log.WriteLineString(fmt.Sprintf("app: composer: %v", err))
		}
	}()
	if a.cfg.Calibrate {
		go func() {
			if err := a.drv.Calibrate(ctx); err != nil && ctx.Err() == nil {
				a.log.WriteLineString(fmt.Sprintf("app: calibration: %v", err))
			}
		}()
	}
}

// Tick advances the animation and flushes pending log lines to the console.
// It runs on the caller's goroutine, never on the composer's.
func (a *App) Tick() error {
	select {
	case on := <-a.toggle:
		if err := a.showShapes(on); err != nil {
			return err
		}
	default:
	}

	nx, ny := a.sx+a.dx, a.sy+a.dy
	ar := a.area
	if nx-a.radius <= ar.X0 || nx+a.radius >= ar.X1 {
		a.dx = -a.dx
		nx = a.sx + a.dx
	}
	if ny-a.radius <= ar.Y0 || ny+a.radius >= ar.Y1 {
		a.dy = -a.dy
		ny = a.sy + a.dy
	}
	a.sprite.MoveBy(nx-a.sx, ny-a.sy)
	a.sx, a.sy = nx, ny

	if now := time.Now(); now.Sub(a.statsAt) >= time.Second {
		a.statsAt = now
		s := a.drv.Stats()
		a.stats.SetText(fmt.Sprintf("%d.%d fps %d frames", s.FPS/10, s.FPS%10, s.Frames))
	}

	if a.sink != nil {
		a.sink.flush(a.console)
	}
	a.drv.RequestRepaint()
	return nil
}

func (a *App) showShapes(on bool) error {
	if on == a.shown {
		return nil
	}
	a.shown = on
	for _, d := range []display.Drawable{a.line, a.tri, a.image} {
		var err error
		if on {
			err = a.drv.Show(d, zShapes)
		} else {
			err = a.drv.Hide(d)
		}
		if err != nil {
			return fmt.Errorf("app: shapes: %w", err)
		}
	}
	return nil
}

// Run starts the composer and ticks the scene every period until ctx ends.
func (a *App) Run(ctx context.Context, period time.Duration) error {
	a.Start(ctx)
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := a.Tick(); err != nil {
				return err
			}
		}
	}
}

// Close releases the driver and the board.
func (a *App) Close() error {
	a.drv.Close()
	return a.b.Close()
}

// gradient returns an n x n image blending red, green and blue corners.
func gradient(n int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(255 * (n - 1 - x) / (n - 1)),
				G: uint8(255 * x / (n - 1)),
				B: uint8(255 * y / (n - 1)),
				A: 255,
			})
		}
	}
	return img
}
