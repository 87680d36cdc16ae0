//go:build tinygo && baremetal

package main

import (
	"context"
	"time"

	"tftkit/app"
	"tftkit/board"
	"tftkit/display"
)

func main() {
	b, err := board.Default()
	if err != nil {
		halt(err)
	}
	a, err := app.New(b, app.Config{
		Display: display.Config{Areas: 4},
		// A full-width console canvas does not fit the RP2040 heap.
		NoConsole: true,
	})
	if err != nil {
		b.Logger().WriteLineString("app: " + err.Error())
		halt(err)
	}
	if err := a.Run(context.Background(), 20*time.Millisecond); err != nil {
		a.Logger().WriteLineString("app: " + err.Error())
	}
	select {}
}

func halt(err error) {
	println("tftkit:", err.Error())
	select {}
}
