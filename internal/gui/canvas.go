// Overlay renderer drawing the control panel onto camera frames
package gui

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"camera-control-panel/internal/camera"
	"camera-control-panel/internal/controls"
)

// ErrNoFrame is returned when drawing is attempted before Begin.
var ErrNoFrame = errors.New("no frame in progress")

// Presenter receives each finished image. It is called on the loop
// goroutine and must hand the image to the display thread itself.
type Presenter func(img image.Image)

const (
	textScale     = 0.5
	textThickness = 1
)

// MatRenderer draws frames and controls with OpenCV. It implements
// controls.Canvas and is owned by the view loop goroutine.
type MatRenderer struct {
	mat     gocv.Mat
	active  bool
	present Presenter
	logger  logrus.FieldLogger
}

// NewMatRenderer creates a renderer publishing finished frames to present.
func NewMatRenderer(present Presenter, logger logrus.FieldLogger) *MatRenderer {
	return &MatRenderer{
		mat:     gocv.NewMat(),
		present: present,
		logger:  logger,
	}
}

// Begin starts a frame from the RGB pixels of f.
func (r *MatRenderer) Begin(f *camera.Frame) error {
	if f.Empty() {
		return fmt.Errorf("%w: empty frame", camera.ErrCapture)
	}

	src, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pix)
	if err != nil {
		return fmt.Errorf("wrap frame: %w", err)
	}
	defer src.Close()

	// OpenCV drawing and ToImage both expect BGR.
	gocv.CvtColor(src, &r.mat, gocv.ColorRGBToBGR)
	r.active = true
	return nil
}

// DrawRect implements controls.Canvas.
func (r *MatRenderer) DrawRect(rect controls.Rect, c color.RGBA, filled bool) {
	if !r.active {
		return
	}
	thickness := 1
	if filled {
		thickness = -1
	}
	gocv.Rectangle(&r.mat, rect.Image(), c, thickness)
}

// DrawCircle implements controls.Canvas.
func (r *MatRenderer) DrawCircle(center controls.Point, radius float64, c color.RGBA) {
	if !r.active {
		return
	}
	gocv.Circle(&r.mat, center.Image(), int(radius+0.5), c, -1)
}

// DrawText implements controls.Canvas. at is the baseline origin.
func (r *MatRenderer) DrawText(text string, at controls.Point, c color.RGBA) {
	if !r.active {
		return
	}
	gocv.PutText(&r.mat, text, at.Image(), gocv.FontHersheySimplex, textScale, c, textThickness)
}

// Present converts the finished frame to an image and hands it to the
// presenter. Each call produces a new image, so the one on screen is
// never the one being drawn.
func (r *MatRenderer) Present() error {
	if !r.active {
		return ErrNoFrame
	}
	r.active = false

	img, err := r.mat.ToImage()
	if err != nil {
		return fmt.Errorf("convert frame: %w", err)
	}

	r.present(img)
	return nil
}

// Close releases the drawing buffer.
func (r *MatRenderer) Close() error {
	r.logger.Debug("Closing renderer")
	return r.mat.Close()
}
