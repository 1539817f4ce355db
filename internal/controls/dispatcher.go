// Input dispatcher: resolves one event to at most one widget action
package controls

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"camera-control-panel/internal/core"
)

// ErrBusy is returned when an event arrives while another is being dispatched.
var ErrBusy = errors.New("dispatcher busy")

// Command is a zero-argument action fired by a button or key.
type Command func() error

// Applier pushes the full parameter set to the device.
type Applier interface {
	Apply(store *core.Store) error
}

// State of the dispatcher.
type State int

const (
	StateIdle State = iota
	StateDispatching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}

// Result describes what a single dispatch did.
type Result struct {
	// Hit is false when no widget or binding matched.
	Hit bool

	// Index is the registration index of the widget hit, or -1.
	Index int
	Kind  Kind

	Param   string
	Value   float64
	Changed bool

	Command CommandID

	Err error
}

// Dispatcher owns the immutable widget set and mutates the store in
// response to clicks and keys. It is driven by a single goroutine.
type Dispatcher struct {
	widgets  []Widget
	keys     map[Key]KeyBinding
	store    *core.Store
	applier  Applier
	commands map[CommandID]Command
	logger   logrus.FieldLogger

	state State
}

// NewDispatcher validates widgets and key bindings against store and
// commands. The returned error is a startup failure.
func NewDispatcher(widgets []Widget, keys map[Key]KeyBinding, store *core.Store, applier Applier, commands map[CommandID]Command, logger logrus.FieldLogger) (*Dispatcher, error) {
	if err := Validate(widgets, store, commands); err != nil {
		return nil, err
	}
	for k, b := range keys {
		if b.Command != "" {
			if _, ok := commands[b.Command]; !ok {
				return nil, fmt.Errorf("%w: key %q fires %q", ErrUnboundCommand, k, b.Command)
			}
			continue
		}
		if !store.Has(b.Param) {
			return nil, fmt.Errorf("%w: key %q references %s", core.ErrUnknownParameter, k, b.Param)
		}
		if b.Direction != -1 && b.Direction != 1 {
			return nil, fmt.Errorf("%w: key %q has direction %d", ErrInvalidLayout, k, b.Direction)
		}
	}

	registered := make([]Widget, len(widgets))
	copy(registered, widgets)

	return &Dispatcher{
		widgets:  registered,
		keys:     keys,
		store:    store,
		applier:  applier,
		commands: commands,
		logger:   logger,
		state:    StateIdle,
	}, nil
}

// Widgets returns a copy of the registered widgets.
func (d *Dispatcher) Widgets() []Widget {
	widgets := make([]Widget, len(d.widgets))
	copy(widgets, d.widgets)
	return widgets
}

// State returns the current dispatcher state.
func (d *Dispatcher) State() State {
	return d.state
}

// Resolve returns the index of the first registered widget whose hit
// region contains p, or -1.
func (d *Dispatcher) Resolve(p Point) int {
	for i, w := range d.widgets {
		if Contains(w.HitRegion(), p) {
			return i
		}
	}
	return -1
}

// Dispatch resolves a click and performs the widget's action to completion.
func (d *Dispatcher) Dispatch(p Point) Result {
	if d.state == StateDispatching {
		return Result{Index: -1, Err: ErrBusy}
	}
	d.state = StateDispatching
	defer func() { d.state = StateIdle }()

	i := d.Resolve(p)
	if i < 0 {
		return Result{Index: -1}
	}

	w := d.widgets[i]
	res := Result{Hit: true, Index: i, Kind: w.Kind}

	switch w.Kind {
	case KindButton:
		res.Command = w.Command
		res.Err = d.runCommand(w.Command)
		return res
	case KindSlider:
		param, err := d.store.Parameter(w.Param)
		if err != nil {
			res.Err = err
			return res
		}
		raw := SliderValueAt(w.Track, p, param.Min, param.Max)
		d.mutate(&res, w.Param, func() (float64, error) { return d.store.Set(w.Param, raw) })
	case KindStepper:
		d.mutate(&res, w.Param, func() (float64, error) { return d.step(w.Param, w.Direction) })
	}

	return res
}

// DispatchKey performs the action bound to k, if any.
func (d *Dispatcher) DispatchKey(k Key) Result {
	if d.state == StateDispatching {
		return Result{Index: -1, Err: ErrBusy}
	}
	d.state = StateDispatching
	defer func() { d.state = StateIdle }()

	b, ok := d.keys[k]
	if !ok {
		return Result{Index: -1}
	}

	res := Result{Hit: true, Index: -1}
	if b.Command != "" {
		res.Kind = KindButton
		res.Command = b.Command
		res.Err = d.runCommand(b.Command)
		return res
	}

	res.Kind = KindStepper
	d.mutate(&res, b.Param, func() (float64, error) { return d.step(b.Param, b.Direction) })
	return res
}

func (d *Dispatcher) step(name string, direction int) (float64, error) {
	param, err := d.store.Parameter(name)
	if err != nil {
		return 0, err
	}
	return d.store.Adjust(name, float64(direction)*param.Step)
}

// mutate runs one store mutation and, if the value moved, pushes the
// complete settings snapshot to the device.
func (d *Dispatcher) mutate(res *Result, name string, fn func() (float64, error)) {
	before, err := d.store.Get(name)
	if err != nil {
		res.Err = err
		return
	}

	after, err := fn()
	if err != nil {
		res.Err = err
		return
	}

	res.Param = name
	res.Value = after
	res.Changed = after != before
	if !res.Changed {
		return
	}

	p, _ := d.store.Parameter(name)
	d.logger.WithFields(logrus.Fields{
		"param": name,
		"value": p.Format(),
	}).Info("Parameter set")

	if err := d.applier.Apply(d.store); err != nil {
		res.Err = err
	}
}

func (d *Dispatcher) runCommand(id CommandID) error {
	cmd, ok := d.commands[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnboundCommand, id)
	}

	d.logger.WithField("command", string(id)).Debug("Running command")
	return cmd()
}
