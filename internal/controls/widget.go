package controls

import (
	"errors"
	"fmt"

	"camera-control-panel/internal/core"
)

var (
	// ErrInvalidLayout is returned for widgets that cannot be hit or mapped.
	ErrInvalidLayout = errors.New("invalid widget layout")

	// ErrUnboundCommand is returned when a button names a command nobody handles.
	ErrUnboundCommand = errors.New("unbound command")
)

// Kind tags the widget variant.
type Kind int

const (
	KindButton Kind = iota
	KindSlider
	KindStepper
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindSlider:
		return "slider"
	case KindStepper:
		return "stepper"
	default:
		return "unknown"
	}
}

// CommandID names a zero-argument command fired by a button or key.
type CommandID string

const (
	CommandSnapshot   CommandID = "snapshot"
	CommandToggleAuto CommandID = "toggle_auto"
)

// Widget binds a screen region to a command or a parameter mutation.
//
// A Stepper is registered as two widgets on the same parameter, one with
// Direction -1 and one with Direction +1.
type Widget struct {
	Kind  Kind
	Label string

	// Bounds is the hit region for buttons and stepper halves.
	Bounds Rect

	// Track spans the full [min, max] range of a slider.
	Track Rect

	// Readout is where a stepper pair draws the current value.
	Readout Rect

	Param     string
	Direction int

	Command CommandID
}

// NewButton creates a command button.
func NewButton(label string, cmd CommandID, bounds Rect) Widget {
	return Widget{Kind: KindButton, Label: label, Bounds: bounds, Command: cmd}
}

// NewSlider creates a horizontal slider over track for param.
func NewSlider(param, label string, track Rect) Widget {
	return Widget{Kind: KindSlider, Label: label, Bounds: track, Track: track, Param: param}
}

// NewStepper creates the minus and plus halves for param.
func NewStepper(param, label string, minus, readout, plus Rect) (Widget, Widget) {
	down := Widget{Kind: KindStepper, Label: label, Bounds: minus, Readout: readout, Param: param, Direction: -1}
	up := Widget{Kind: KindStepper, Label: label, Bounds: plus, Readout: readout, Param: param, Direction: +1}
	return down, up
}

// HitRegion returns the rectangle used to resolve clicks.
func (w Widget) HitRegion() Rect {
	if w.Kind == KindSlider {
		return w.Track
	}
	return w.Bounds
}

// CheckFits reports an error when any widget's hit region or readout
// extends outside a width x height frame. Clicks only arrive from inside
// the frame, so such a widget could not be operated.
func CheckFits(widgets []Widget, width, height float64) error {
	frame := R(0, 0, width, height)
	for i, w := range widgets {
		regions := []Rect{w.HitRegion()}
		if w.Kind == KindStepper {
			regions = append(regions, w.Readout)
		}
		for _, r := range regions {
			if !within(r, frame) {
				return fmt.Errorf("%w: widget %d (%s) at %+v lies outside the %.0fx%.0f frame", ErrInvalidLayout, i, w.Label, r, width, height)
			}
		}
	}
	return nil
}

func within(inner, outer Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.X+inner.W <= outer.X+outer.W && inner.Y+inner.H <= outer.Y+outer.H
}

// Validate checks every widget against store and the available commands.
// A failure here is a startup error.
func Validate(widgets []Widget, store *core.Store, commands map[CommandID]Command) error {
	for i, w := range widgets {
		switch w.Kind {
		case KindButton:
			if _, ok := commands[w.Command]; !ok {
				return fmt.Errorf("%w: widget %d (%s) fires %q", ErrUnboundCommand, i, w.Label, w.Command)
			}
			if w.Bounds.W <= 0 || w.Bounds.H <= 0 {
				return fmt.Errorf("%w: button %q has empty bounds", ErrInvalidLayout, w.Label)
			}
		case KindSlider:
			if !store.Has(w.Param) {
				return fmt.Errorf("%w: slider %d references %s", core.ErrUnknownParameter, i, w.Param)
			}
			if w.Track.W <= 0 || w.Track.H <= 0 {
				return fmt.Errorf("%w: slider %s has an empty track", ErrInvalidLayout, w.Param)
			}
		case KindStepper:
			if !store.Has(w.Param) {
				return fmt.Errorf("%w: stepper %d references %s", core.ErrUnknownParameter, i, w.Param)
			}
			if w.Direction != -1 && w.Direction != 1 {
				return fmt.Errorf("%w: stepper %s has direction %d", ErrInvalidLayout, w.Param, w.Direction)
			}
			if w.Bounds.W <= 0 || w.Bounds.H <= 0 {
				return fmt.Errorf("%w: stepper %s has empty bounds", ErrInvalidLayout, w.Param)
			}
		default:
			return fmt.Errorf("%w: widget %d has kind %d", ErrInvalidLayout, i, w.Kind)
		}
	}
	return nil
}
