package display

import (
	"errors"

	"tftkit/hal"
	"tftkit/kernel"
)

var (
	ErrNullReference  = errors.New("display: required collaborator not set")
	ErrInvalidState   = errors.New("display: invalid state")
	ErrInvalidItem    = errors.New("display: invalid item")
	ErrAlreadyPresent = errors.New("display: object already shown")
	ErrNotPresent     = errors.New("display: object not shown")
	ErrInvalidRegion  = errors.New("display: invalid region")
	ErrTimeout        = kernel.ErrTimeout
	ErrNotImplemented = hal.ErrNotImplemented
)
