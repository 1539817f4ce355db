package gui

import (
	"sync/atomic"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"

	"camera-control-panel/internal/controls"
)

// DefaultQueueSize bounds the number of input events held between loop iterations.
const DefaultQueueSize = 64

// EventQueue carries input from the fyne goroutine to the view loop.
// Push never blocks; a full queue drops the event. Quit is latched
// separately so it cannot be dropped.
type EventQueue struct {
	ch     chan controls.Event
	quit   atomic.Bool
	logger logrus.FieldLogger
}

// NewEventQueue creates a queue holding up to size events.
func NewEventQueue(size int, logger logrus.FieldLogger) *EventQueue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &EventQueue{
		ch:     make(chan controls.Event, size),
		logger: logger,
	}
}

// Push enqueues ev and reports whether it was accepted.
func (q *EventQueue) Push(ev controls.Event) bool {
	if ev.Kind == controls.EventQuit {
		q.quit.Store(true)
		return true
	}

	select {
	case q.ch <- ev:
		return true
	default:
		q.logger.WithField("kind", ev.Kind).Debug("Event queue full, dropping event")
		return false
	}
}

// Drain returns every queued event, oldest first, followed by a quit
// event once quit has been requested.
func (q *EventQueue) Drain() []controls.Event {
	var events []controls.Event
	for {
		select {
		case ev := <-q.ch:
			events = append(events, ev)
		default:
			if q.quit.Load() {
				events = append(events, controls.Quit())
			}
			return events
		}
	}
}

// IsQuitRune reports whether r closes the panel.
func IsQuitRune(r rune) bool {
	return r == 'q' || r == 'Q'
}

// IsQuitKey reports whether the named key closes the panel.
func IsQuitKey(name fyne.KeyName) bool {
	return name == fyne.KeyEscape
}

// KeyForRune maps typed characters to panel keys.
func KeyForRune(r rune) (controls.Key, bool) {
	switch r {
	case 's', 'S':
		return controls.KeySnapshot, true
	case 'g', 'G':
		return controls.KeyToggleAuto, true
	}
	return "", false
}

// KeyForName maps named fyne keys to panel keys.
func KeyForName(name fyne.KeyName) (controls.Key, bool) {
	switch name {
	case fyne.KeyUp:
		return controls.KeyGainUp, true
	case fyne.KeyDown:
		return controls.KeyGainDown, true
	}
	return "", false
}
