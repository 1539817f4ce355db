package controls

import (
	"image/color"

	"camera-control-panel/internal/core"
)

// Canvas is the drawing capability the panel needs from the renderer.
type Canvas interface {
	DrawRect(r Rect, c color.RGBA, filled bool)
	DrawCircle(center Point, radius float64, c color.RGBA)
	DrawText(text string, at Point, c color.RGBA)
}

var (
	colorControl = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colorReadout = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	colorHandle  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	colorText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorInk     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	colorActive  = color.RGBA{R: 90, G: 200, B: 90, A: 255}
)

const handleRadius = 5

// DrawState carries the non-parameter state shown on the panel.
type DrawState struct {
	AutoExposure bool
}

// Draw renders every widget with the current store values.
func Draw(c Canvas, widgets []Widget, store *core.Store, state DrawState) {
	for _, w := range widgets {
		switch w.Kind {
		case KindButton:
			drawButton(c, w, state)
		case KindSlider:
			drawSlider(c, w, store)
		case KindStepper:
			drawStepperHalf(c, w, store)
		}
	}
}

func drawButton(c Canvas, w Widget, state DrawState) {
	fill := colorControl
	label := w.Label
	if w.Command == CommandToggleAuto {
		if state.AutoExposure {
			fill = colorActive
			label += ": On"
		} else {
			label += ": Off"
		}
	}

	c.DrawRect(w.Bounds, fill, true)
	c.DrawText(label, Pt(w.Bounds.X+10, w.Bounds.Y+w.Bounds.H/2+5), colorInk)
}

func drawSlider(c Canvas, w Widget, store *core.Store) {
	p, err := store.Parameter(w.Param)
	if err != nil {
		return
	}

	c.DrawRect(w.Track, colorControl, true)
	c.DrawCircle(SliderHandlePosition(w.Track, p.Value, p.Min, p.Max), handleRadius, colorHandle)
	c.DrawText(w.Label+": "+p.Format(), Pt(w.Track.X, w.Track.Y-6), colorText)
}

// drawStepperHalf draws one button; the minus half also owns the label
// and readout so they are drawn once per pair.
func drawStepperHalf(c Canvas, w Widget, store *core.Store) {
	glyph := "+"
	if w.Direction < 0 {
		glyph = "-"
	}

	c.DrawRect(w.Bounds, colorControl, true)
	c.DrawText(glyph, Pt(w.Bounds.X+w.Bounds.W/2-4, w.Bounds.Y+w.Bounds.H-7), colorInk)

	if w.Direction > 0 {
		return
	}

	p, err := store.Parameter(w.Param)
	if err != nil {
		return
	}

	c.DrawRect(w.Readout, colorReadout, true)
	c.DrawText(p.Format(), Pt(w.Readout.X+8, w.Readout.Y+w.Readout.H-7), colorText)
	c.DrawText(w.Label, Pt(w.Bounds.X-120, w.Bounds.Y+w.Bounds.H-7), colorText)
}
