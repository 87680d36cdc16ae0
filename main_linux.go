//go:build linux && !tinygo

package main

import "tftkit/board"

func openLinux(lf linuxFlags) (board.Board, error) {
	return board.OpenLinux(board.LinuxConfig{
		Panel:    lf.panel,
		SPI:      lf.spi,
		Hz:       lf.hz,
		DC:       lf.dc,
		RST:      lf.rst,
		CS:       lf.cs,
		BGR:      lf.bgr,
		Invert:   lf.invert,
		Mirror:   lf.mirror,
		Touch:    lf.touch,
		TouchDev: lf.touchDev,
		TouchIRQ: lf.touchIRQ,
	})
}
