//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/physic"

	"tftkit/app"
	"tftkit/board"
	"tftkit/display"
	"tftkit/hal"
	"tftkit/internal/buildinfo"
)

// linuxFlags describe a panel on a Linux SPI controller.
type linuxFlags struct {
	panel    string
	spi      string
	hz       physic.Frequency
	dc       string
	rst      string
	cs       string
	bgr      bool
	invert   bool
	mirror   bool
	touch    string
	touchDev string
	touchIRQ string
}

func main() {
	var (
		hcfg      hal.HeadlessConfig
		host      hal.HostConfig
		lf        linuxFlags
		boardName string
		httpAddr  string
		rotation  int
		areas     int
		debug     bool
		debugArea bool
		calibrate bool
		version   bool
	)
	lf.hz = 32 * physic.MegaHertz
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.IntVar(&host.Width, "width", 320, "Simulated panel width.")
	flag.IntVar(&host.Height, "height", 320, "Simulated panel height.")
	flag.DurationVar(&host.Latency, "latency", 0, "Simulated SPI latency per chunk.")
	flag.BoolVar(&host.Format18, "format18", false, "Simulate an 18-bit (ILI9488 style) panel.")
	flag.StringVar(&httpAddr, "http", "", "Serve frames over HTTP on this address (host board only).")
	flag.StringVar(&boardName, "board", "host", "host|linux.")
	flag.StringVar(&lf.panel, "panel", "ili9488", "ili9488|st7789 (linux board).")
	flag.StringVar(&lf.spi, "spi", "", "SPI port name (linux board, empty = first).")
	flag.Var(&lf.hz, "spi-hz", "SPI clock (linux board).")
	flag.StringVar(&lf.dc, "dc", "GPIO24", "Data/command pin (linux board).")
	flag.StringVar(&lf.rst, "rst", "GPIO25", "Reset pin (linux board, empty = none).")
	flag.StringVar(&lf.cs, "cs", "", "Chip select pin (linux board, empty = driven by spidev).")
	flag.BoolVar(&lf.bgr, "bgr", false, "Panel has BGR subpixel order (linux board).")
	flag.BoolVar(&lf.invert, "invert", false, "Invert colors (linux board).")
	flag.BoolVar(&lf.mirror, "mirror", false, "Mirror the image horizontally (linux board, ili9488).")
	flag.StringVar(&lf.touch, "touch", "none", "evdev|xpt2046|none (linux board).")
	flag.StringVar(&lf.touchDev, "touch-dev", "", "evdev device path or XPT2046 SPI port (linux board).")
	flag.StringVar(&lf.touchIRQ, "touch-irq", "", "XPT2046 pen interrupt pin (linux board).")
	flag.IntVar(&rotation, "rotation", 0, "Rotation in quarter turns.")
	flag.IntVar(&areas, "areas", 0, "Dirty area queue size (0 = single bounding area).")
	flag.BoolVar(&debug, "debug", false, "Log frame statistics and touch events.")
	flag.BoolVar(&debugArea, "debug-area", false, "Outline every repainted area.")
	flag.BoolVar(&calibrate, "calibrate", false, "Run touchscreen calibration at start.")
	flag.BoolVar(&version, "version", false, "Print the version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		b   board.Board
		sim *board.Host
		err error
	)
	switch boardName {
	case "host":
		sim = board.NewHost(host)
		b = sim
	case "linux":
		b, err = openLinux(lf)
		if err != nil {
			fatal(err)
		}
		hcfg.Enabled = true
	default:
		fatal(fmt.Errorf("unknown board: %s", boardName))
	}

	a, err := app.New(b, app.Config{
		Display: display.Config{
			Rotation:   hal.RotateBy(hal.Rotation0, rotation),
			Areas:      areas,
			DebugInfo:  debug,
			DebugTouch: debug,
			DebugArea:  debugArea,
		},
		Calibrate: calibrate,
	})
	if err != nil {
		_ = b.Close()
		fatal(err)
	}
	defer a.Close()

	if httpAddr != "" && sim != nil {
		go func() {
			err := hal.ServeFrames(ctx, sim.Sim(), hal.HTTPConfig{
				Addr:  httpAddr,
				Stats: func() any { return a.Driver().Stats() },
			})
			if err != nil && ctx.Err() == nil {
				a.Logger().WriteLineString(fmt.Sprintf("http: %v", err))
			}
		}()
	}

	a.Start(ctx)
	if hcfg.Enabled || sim == nil {
		err = hal.RunHeadless(ctx, a.Tick, hcfg)
	} else {
		err = hal.RunWindow(sim.Sim(), a.Tick)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
	stop()
	// Give the composer a moment to finish the row in flight.
	time.Sleep(10 * time.Millisecond)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
