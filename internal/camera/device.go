// Package camera wraps the camera sensor: frame capture, still capture
// and the settable exposure properties.
package camera

import (
	"errors"

	"camera-control-panel/internal/core"
)

var (
	// ErrCapture is wrapped by every failed frame grab.
	ErrCapture = errors.New("frame capture failed")

	// ErrDeviceUnavailable is returned when the device cannot be opened or
	// has been closed.
	ErrDeviceUnavailable = errors.New("camera device unavailable")
)

// Device is the camera collaborator driven by the view loop.
type Device interface {
	core.Device

	// CaptureFrame blocks until the next frame is written into f.
	CaptureFrame(f *Frame) error

	// CaptureToFile grabs a still image and writes it to path.
	CaptureToFile(path string) error

	Close() error
}

// Frame is a packed RGB24 pixel buffer, reused between captures.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// NewFrame allocates a frame of the given size.
func NewFrame(width, height int) *Frame {
	f := &Frame{}
	f.Resize(width, height)
	return f
}

// Resize sets the dimensions, reusing Pix when it is large enough.
func (f *Frame) Resize(width, height int) {
	n := width * height * 3
	if cap(f.Pix) < n {
		f.Pix = make([]byte, n)
	}
	f.Pix = f.Pix[:n]
	f.Width = width
	f.Height = height
}

// Empty reports whether the frame holds no pixels.
func (f *Frame) Empty() bool {
	return f.Width == 0 || f.Height == 0 || len(f.Pix) == 0
}

// CopyTo writes f into dst, resizing dst as needed.
func (f *Frame) CopyTo(dst *Frame) {
	dst.Resize(f.Width, f.Height)
	copy(dst.Pix, f.Pix)
}
