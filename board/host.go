//go:build !tinygo

package board

import "tftkit/hal"

// Host is the simulated desktop board.
type Host struct {
	sim *hal.Host
}

var _ Board = (*Host)(nil)

// NewHost returns a simulated board.
func NewHost(cfg hal.HostConfig) *Host {
	return &Host{sim: hal.NewHost(cfg)}
}

func (h *Host) Name() string           { return "host" }
func (h *Host) Panel() hal.Panel       { return h.sim.Panel() }
func (h *Host) Touch() hal.Touchscreen { return h.sim.Touch() }
func (h *Host) Logger() hal.Logger     { return h.sim.Logger() }

// Sim exposes the simulated devices for the window and the frame server.
func (h *Host) Sim() *hal.Host { return h.sim }

func (h *Host) Close() error {
	h.sim.Close()
	return nil
}

