package controls

import (
	"fmt"

	"camera-control-panel/internal/core"
)

// Style selects how parameters are presented.
type Style string

const (
	StyleSlider  Style = "slider"
	StyleStepper Style = "stepper"
)

// Layout places the panel on the frame. Rows are stacked from Origin
// downwards, Spacing pixels apart; command buttons follow the last row.
type Layout struct {
	Style   Style
	Origin  Point
	Spacing float64

	TrackWidth  float64
	TrackHeight float64

	StepButtonWidth  float64
	StepButtonHeight float64
	ReadoutWidth     float64
	Gap              float64

	ButtonWidth  float64
	ButtonHeight float64

	// RightMargin is kept clear between the panel and the frame's right edge.
	RightMargin float64
}

// DefaultLayout returns a right-hand panel sized for an 800x480 preview.
func DefaultLayout(style Style) Layout {
	return Layout{
		Style:            style,
		Origin:           Pt(620, 50),
		Spacing:          40,
		TrackWidth:       150,
		TrackHeight:      10,
		StepButtonWidth:  40,
		StepButtonHeight: 25,
		ReadoutWidth:     60,
		Gap:              10,
		ButtonWidth:      150,
		ButtonHeight:     40,
		RightMargin:      30,
	}
}

// Width returns the horizontal extent of the panel's widgets.
func (l Layout) Width() float64 {
	rows := l.TrackWidth
	if l.Style == StyleStepper {
		rows = 2*l.StepButtonWidth + l.ReadoutWidth + 2*l.Gap
	}
	return max(rows, l.ButtonWidth)
}

// AnchorRight moves the panel against the right edge of a frame
// frameWidth pixels wide, keeping RightMargin clear.
func (l Layout) AnchorRight(frameWidth float64) Layout {
	l.Origin.X = frameWidth - l.RightMargin - l.Width()
	return l
}

// Build creates the widget set for params followed by the snapshot and
// auto-exposure buttons. Registration order is the on-screen order.
func (l Layout) Build(params []core.Parameter) ([]Widget, error) {
	widgets := make([]Widget, 0, 2*len(params)+2)
	y := l.Origin.Y

	for _, p := range params {
		label := p.Label
		if label == "" {
			label = p.Name
		}

		switch l.Style {
		case StyleSlider:
			// Leave room for the label above the track.
			track := R(l.Origin.X, y+l.Spacing-l.TrackHeight-8, l.TrackWidth, l.TrackHeight)
			widgets = append(widgets, NewSlider(p.Name, label, track))
		case StyleStepper:
			minus := R(l.Origin.X, y, l.StepButtonWidth, l.StepButtonHeight)
			readout := R(minus.X+minus.W+l.Gap, y, l.ReadoutWidth, l.StepButtonHeight)
			plus := R(readout.X+readout.W+l.Gap, y, l.StepButtonWidth, l.StepButtonHeight)
			down, up := NewStepper(p.Name, label, minus, readout, plus)
			widgets = append(widgets, down, up)
		default:
			return nil, fmt.Errorf("%w: unknown style %q", ErrInvalidLayout, l.Style)
		}
		y += l.Spacing
	}

	widgets = append(widgets,
		NewButton("Snapshot", CommandSnapshot, R(l.Origin.X, y, l.ButtonWidth, l.ButtonHeight)),
		NewButton("Auto Exposure", CommandToggleAuto, R(l.Origin.X, y+l.ButtonHeight+l.Gap, l.ButtonWidth, l.ButtonHeight)),
	)

	return widgets, nil
}
