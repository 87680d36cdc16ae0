//go:build !linux && !tinygo

package main

import (
	"errors"

	"tftkit/board"
)

func openLinux(linuxFlags) (board.Board, error) {
	return nil, errors.New("the linux board needs a linux host")
}
