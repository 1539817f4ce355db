package controls

import "camera-control-panel/internal/core"

// EventKind distinguishes input events.
type EventKind int

const (
	EventQuit EventKind = iota
	EventClick
	EventKey
)

// Key is a keyboard shortcut understood by the dispatcher.
type Key string

const (
	KeySnapshot   Key = "s"
	KeyToggleAuto Key = "g"
	KeyGainUp     Key = "up"
	KeyGainDown   Key = "down"
)

// Event is one user input delivered by the windowing layer.
type Event struct {
	Kind  EventKind
	Point Point
	Key   Key
}

// Click returns a click event at p.
func Click(p Point) Event {
	return Event{Kind: EventClick, Point: p}
}

// Press returns a key event.
func Press(k Key) Event {
	return Event{Kind: EventKey, Key: k}
}

// Quit returns a quit event.
func Quit() Event {
	return Event{Kind: EventQuit}
}

// KeyBinding maps a key to a command or a one-step parameter adjustment.
type KeyBinding struct {
	Command   CommandID
	Param     string
	Direction int
}

// DefaultKeyBindings mirrors the keyboard controls of the panel:
// s snapshots, g toggles auto-exposure, up/down step the ISO gain.
func DefaultKeyBindings() map[Key]KeyBinding {
	return map[Key]KeyBinding{
		KeySnapshot:   {Command: CommandSnapshot},
		KeyToggleAuto: {Command: CommandToggleAuto},
		KeyGainUp:     {Param: core.ParamISO, Direction: +1},
		KeyGainDown:   {Param: core.ParamISO, Direction: -1},
	}
}
