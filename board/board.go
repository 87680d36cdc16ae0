// Package board assembles a panel, a touchscreen and a logger for one
// hardware target.
package board

import "tftkit/hal"

// Board is the hardware a display driver runs on.
type Board interface {
	Name() string
	Panel() hal.Panel
	// Touch returns nil when the board has no touchscreen.
	Touch() hal.Touchscreen
	Logger() hal.Logger
	Close() error
}
