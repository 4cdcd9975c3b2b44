// Package epd drives monochrome e-paper panels. Frames are [mono.Image]
// canvases in the logical orientation; devices rotate them as configured.
package epd

import (
	"errors"
	"image"

	"inkfeed.dev/image/mono"
)

// Device is a panel, real or simulated.
type Device interface {
	// Size is the logical canvas size, after rotation.
	Size() image.Point
	// Init wakes the panel and clears it to white.
	Init() error
	// Display shows img. Pixels outside the panel are ignored and
	// missing pixels are white.
	Display(img *mono.Image) error
	Clear() error
	// Sleep puts the panel into deep sleep. Init must be called again
	// before the next Display.
	Sleep() error
	Close() error
}

var (
	ErrNotInitialized = errors.New("epd: display not initialized")
	ErrBusyTimeout    = errors.New("epd: timeout waiting for panel")
	ErrLocked         = errors.New("epd: device in use by another process")
)

// logicalSize returns the canvas size for a panel of native dims rotated
// by rotation degrees.
func logicalSize(dims image.Point, rotation int) image.Point {
	if normRotation(rotation)%180 == 90 {
		return image.Pt(dims.Y, dims.X)
	}
	return dims
}

func normRotation(rotation int) int {
	return ((rotation%360)+360)%360 / 90 * 90
}
