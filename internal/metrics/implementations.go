// Concrete implementations of frame metrics
package metrics

import (
	"fmt"

	"gocv.io/x/gocv"
)

// MeanLuma implements average brightness on the 0-255 scale
type MeanLuma struct{}

// NewMeanLuma creates a new mean luma metric
func NewMeanLuma() *MeanLuma {
	return &MeanLuma{}
}

func (m *MeanLuma) Calculate(frame gocv.Mat) (float64, error) {
	if frame.Empty() {
		return 0, fmt.Errorf("empty image")
	}

	gray := ensureGrayscale(frame)
	defer closeIfCopy(gray, frame)

	return gray.Mean().Val1, nil
}

// Clipping implements the fraction of pixels at or above a highlight level
type Clipping struct {
	level float32
}

// NewClipping creates a clipping metric counting luma >= level
func NewClipping(level int) *Clipping {
	return &Clipping{level: float32(level)}
}

func (c *Clipping) Calculate(frame gocv.Mat) (float64, error) {
	if frame.Empty() {
		return 0, fmt.Errorf("empty image")
	}

	gray := ensureGrayscale(frame)
	defer closeIfCopy(gray, frame)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, c.level-1, 255, gocv.ThresholdBinary)

	total := gray.Rows() * gray.Cols()
	return float64(gocv.CountNonZero(mask)) / float64(total), nil
}

// Sharpness implements variance of the Laplacian
type Sharpness struct{}

// NewSharpness creates a new sharpness metric
func NewSharpness() *Sharpness {
	return &Sharpness{}
}

func (s *Sharpness) Calculate(frame gocv.Mat) (float64, error) {
	if frame.Empty() {
		return 0, fmt.Errorf("empty image")
	}

	gray := ensureGrayscale(frame)
	defer closeIfCopy(gray, frame)

	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(gray, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(laplacian, &mean, &stddev)

	sd := stddev.GetDoubleAt(0, 0)
	return sd * sd, nil
}

// ensureGrayscale converts an RGB frame to one channel. Single-channel
// input is returned as is.
func ensureGrayscale(input gocv.Mat) gocv.Mat {
	if input.Channels() == 1 {
		return input
	}

	gray := gocv.NewMat()
	gocv.CvtColor(input, &gray, gocv.ColorRGBToGray)
	return gray
}

func closeIfCopy(m, original gocv.Mat) {
	if m.Ptr() != original.Ptr() {
		m.Close()
	}
}
