package camera

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Orientation corrects how the sensor is mounted before display.
// Rotate is applied first, clockwise, in multiples of 90 degrees.
type Orientation struct {
	Rotate int
	HFlip  bool
	VFlip  bool
}

// Identity reports whether the orientation leaves frames unchanged.
func (o Orientation) Identity() bool {
	return o.normalizedRotation() == 0 && !o.HFlip && !o.VFlip
}

// Validate rejects rotations that are not a multiple of 90.
func (o Orientation) Validate() error {
	if o.Rotate%90 != 0 {
		return fmt.Errorf("rotation must be a multiple of 90, got %d", o.Rotate)
	}
	return nil
}

func (o Orientation) normalizedRotation() int {
	r := o.Rotate % 360
	if r < 0 {
		r += 360
	}
	return r
}

// OutputSize returns the size of a width x height frame after correction.
func (o Orientation) OutputSize(width, height int) (int, int) {
	if r := o.normalizedRotation(); r == 90 || r == 270 {
		return height, width
	}
	return width, height
}

// Apply writes src, corrected, into dst. src and dst must not be the same frame.
func (o Orientation) Apply(src, dst *Frame) error {
	if src.Empty() {
		return fmt.Errorf("%w: empty frame", ErrCapture)
	}
	if o.Identity() {
		src.CopyTo(dst)
		return nil
	}

	mat, err := gocv.NewMatFromBytes(src.Height, src.Width, gocv.MatTypeCV8UC3, src.Pix)
	if err != nil {
		return fmt.Errorf("wrap frame: %w", err)
	}
	defer mat.Close()

	out := mat.Clone()
	defer out.Close()

	switch o.normalizedRotation() {
	case 90:
		gocv.Rotate(mat, &out, gocv.Rotate90Clockwise)
	case 180:
		gocv.Rotate(mat, &out, gocv.Rotate180Clockwise)
	case 270:
		gocv.Rotate(mat, &out, gocv.Rotate90CounterClockwise)
	}

	switch {
	case o.HFlip && o.VFlip:
		gocv.Flip(out, &out, -1)
	case o.HFlip:
		gocv.Flip(out, &out, 1)
	case o.VFlip:
		gocv.Flip(out, &out, 0)
	}

	return matToFrame(out, dst)
}

// matToFrame copies a continuous 8-bit, 3-channel Mat into f.
func matToFrame(mat gocv.Mat, f *Frame) error {
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: unexpected mat type %v", ErrCapture, mat.Type())
	}

	data, err := mat.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCapture, err)
	}

	f.Resize(mat.Cols(), mat.Rows())
	copy(f.Pix, data)
	return nil
}
