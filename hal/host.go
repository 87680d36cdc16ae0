//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// HostConfig describes the simulated hardware.
type HostConfig struct {
	Width    int
	Height   int
	Latency  time.Duration
	Format18 bool
}

// Host bundles the simulated devices of a desktop run.
type Host struct {
	logger *hostLogger
	panel  *SimPanel
	touch  *SimTouch
}

// NewHost returns simulated hardware logging to stdout.
func NewHost(cfg HostConfig) *Host {
	panel := NewSimPanel(SimPanelConfig{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Latency:  cfg.Latency,
		Format18: cfg.Format18,
	})
	w, h := panel.NativeSize()
	return &Host{
		logger: &hostLogger{w: os.Stdout},
		panel:  panel,
		touch:  NewSimTouch(w, h),
	}
}

func (h *Host) Logger() Logger   { return h.logger }
func (h *Host) Panel() *SimPanel { return h.panel }
func (h *Host) Touch() *SimTouch { return h.touch }
func (h *Host) Close()           { h.panel.Close() }

// NewWriterLogger returns a Logger writing lines to w.
func NewWriterLogger(w io.Writer) Logger {
	return &hostLogger{w: w}
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
