// Interactive preview widget delivering clicks in frame coordinates
package gui

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"camera-control-panel/internal/controls"
)

// PreviewSurface displays presented frames and turns taps into click
// events in frame pixel coordinates. All methods run on the fyne goroutine.
type PreviewSurface struct {
	widget.BaseWidget

	queue  *EventQueue
	logger logrus.FieldLogger

	image     *canvas.Image
	frameSize image.Point
}

// NewPreviewSurface creates a surface that pushes clicks onto queue.
func NewPreviewSurface(queue *EventQueue, logger logrus.FieldLogger) *PreviewSurface {
	ps := &PreviewSurface{
		queue:  queue,
		logger: logger,
	}

	ps.image = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	ps.image.FillMode = canvas.ImageFillContain
	ps.image.ScaleMode = canvas.ImageScalePixels

	ps.ExtendBaseWidget(ps)
	return ps
}

// CreateRenderer creates the renderer for the preview surface
func (ps *PreviewSurface) CreateRenderer() fyne.WidgetRenderer {
	return &previewSurfaceRenderer{surface: ps}
}

// SetFrame swaps in a finished image. The previous image is never
// drawn into again, so the display only shows complete frames.
func (ps *PreviewSurface) SetFrame(img image.Image) {
	if img == nil {
		return
	}
	ps.frameSize = img.Bounds().Size()
	ps.image.Image = img
	ps.image.Refresh()
}

// Tapped implements fyne.Tappable.
func (ps *PreviewSurface) Tapped(event *fyne.PointEvent) {
	p, ok := ScreenToFrame(ps.Size(), ps.frameSize, event.Position)
	if !ok {
		return
	}

	ps.logger.WithFields(logrus.Fields{
		"x": p.X,
		"y": p.Y,
	}).Debug("Click on preview")
	ps.queue.Push(controls.Click(p))
}

// ScreenToFrame converts a widget position to frame coordinates for an
// image drawn with ImageFillContain. Positions in the letterbox bars
// report false.
func ScreenToFrame(widgetSize fyne.Size, frame image.Point, pos fyne.Position) (controls.Point, bool) {
	if frame.X <= 0 || frame.Y <= 0 || widgetSize.Width <= 0 || widgetSize.Height <= 0 {
		return controls.Point{}, false
	}

	scaleX := float64(widgetSize.Width) / float64(frame.X)
	scaleY := float64(widgetSize.Height) / float64(frame.Y)
	scale := math.Min(scaleX, scaleY)

	offsetX := (float64(widgetSize.Width) - float64(frame.X)*scale) / 2
	offsetY := (float64(widgetSize.Height) - float64(frame.Y)*scale) / 2

	x := (float64(pos.X) - offsetX) / scale
	y := (float64(pos.Y) - offsetY) / scale

	if x < 0 || y < 0 || x >= float64(frame.X) || y >= float64(frame.Y) {
		return controls.Point{}, false
	}
	return controls.Pt(x, y), true
}

// previewSurfaceRenderer is the renderer for the preview surface
type previewSurfaceRenderer struct {
	surface *PreviewSurface
}

func (r *previewSurfaceRenderer) Layout(size fyne.Size) {
	r.surface.image.Resize(size)
}

func (r *previewSurfaceRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 240)
}

func (r *previewSurfaceRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.surface.image}
}

func (r *previewSurfaceRenderer) Refresh() {
	r.surface.image.Refresh()
}

func (r *previewSurfaceRenderer) Destroy() {
}
