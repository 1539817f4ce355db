// Package preview runs the live-view loop: input, capture, orientation,
// rendering and presentation, one iteration at a time on one goroutine.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"camera-control-panel/internal/camera"
	"camera-control-panel/internal/controls"
	"camera-control-panel/internal/core"
)

// Camera fills a frame, blocking until one is available.
type Camera interface {
	CaptureFrame(f *camera.Frame) error
}

// Renderer draws one frame plus overlay and publishes it.
// Begin starts a new frame from the oriented pixels; nothing drawn after
// Begin is visible until Present.
type Renderer interface {
	controls.Canvas
	Begin(f *camera.Frame) error
	Present() error
}

// EventSource yields the input events that arrived since the last call.
type EventSource interface {
	Drain() []controls.Event
}

// ExposureState reports the auto-exposure toggle for the panel.
type ExposureState interface {
	AutoExposure() bool
}

// Evaluator computes frame diagnostics shown in the HUD.
type Evaluator interface {
	EvaluateRGB(width, height int, pix []byte) (map[string]float64, error)
}

// Default loop settings
const (
	DefaultStatsInterval = 10 * time.Second
	DefaultMetricsEvery  = 10
)

// Options configures a Loop.
type Options struct {
	Orientation   camera.Orientation
	StatsInterval time.Duration
	MetricsEvery  int
}

// DefaultOptions returns identity orientation and the default intervals.
func DefaultOptions() Options {
	return Options{
		StatsInterval: DefaultStatsInterval,
		MetricsEvery:  DefaultMetricsEvery,
	}
}

// Stats counts what the loop has done so far.
type Stats struct {
	Iterations      int
	Frames          int
	CaptureFailures int
	RenderFailures  int
	ApplyFailures   int
	CommandFailures int
	Events          int
	LastFrame       time.Time
}

var hudColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}

// Loop is the view loop. It owns the frame buffers and is the only
// goroutine that touches the store, dispatcher and applier.
type Loop struct {
	camera     Camera
	renderer   Renderer
	events     EventSource
	dispatcher *controls.Dispatcher
	store      *core.Store
	exposure   ExposureState
	evaluator  Evaluator
	opts       Options
	logger     logrus.FieldLogger
	now        func() time.Time

	widgets []controls.Widget
	back    *camera.Frame
	front   *camera.Frame

	quit      bool
	stats     Stats
	hud       []string
	lastStats time.Time
}

// NewLoop wires a loop. evaluator may be nil to disable the HUD metrics.
func NewLoop(cam Camera, renderer Renderer, events EventSource, dispatcher *controls.Dispatcher, store *core.Store, exposure ExposureState, evaluator Evaluator, opts Options, logger logrus.FieldLogger) (*Loop, error) {
	if err := opts.Orientation.Validate(); err != nil {
		return nil, err
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = DefaultStatsInterval
	}

	return &Loop{
		camera:     cam,
		renderer:   renderer,
		events:     events,
		dispatcher: dispatcher,
		store:      store,
		exposure:   exposure,
		evaluator:  evaluator,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
		widgets:    dispatcher.Widgets(),
		back:       &camera.Frame{},
		front:      &camera.Frame{},
	}, nil
}

// WithClock replaces the wall clock, for tests.
func (l *Loop) WithClock(now func() time.Time) *Loop {
	l.now = now
	return l
}

// Stats returns a copy of the loop counters.
func (l *Loop) Stats() Stats {
	return l.stats
}

// Run iterates until a quit event arrives or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.lastStats = l.now()
	l.logger.WithField("orientation", fmt.Sprintf("%+v", l.opts.Orientation)).Info("Preview loop started")

	for l.Step(ctx) {
	}

	l.logStats()
	l.logger.Info("Preview loop stopped")
	return nil
}

// Step runs one iteration and reports whether the loop should continue.
func (l *Loop) Step(ctx context.Context) bool {
	if l.quit || ctx.Err() != nil {
		return false
	}
	l.stats.Iterations++

	l.drainEvents()
	if l.quit {
		return false
	}

	if err := l.camera.CaptureFrame(l.back); err != nil {
		l.stats.CaptureFailures++
		l.logger.WithError(err).Warn("Capture failed, skipping frame")
		return true
	}

	if err := l.opts.Orientation.Apply(l.back, l.front); err != nil {
		l.stats.CaptureFailures++
		l.logger.WithError(err).Warn("Orientation failed, skipping frame")
		return true
	}

	if err := l.render(); err != nil {
		l.stats.RenderFailures++
		l.logger.WithError(err).Warn("Render failed")
		return true
	}

	l.stats.Frames++
	l.stats.LastFrame = l.now()

	if l.now().Sub(l.lastStats) >= l.opts.StatsInterval {
		l.logStats()
		l.lastStats = l.now()
	}
	return true
}

func (l *Loop) drainEvents() {
	for _, ev := range l.events.Drain() {
		l.stats.Events++

		var res controls.Result
		switch ev.Kind {
		case controls.EventQuit:
			l.quit = true
			continue
		case controls.EventClick:
			res = l.dispatcher.Dispatch(ev.Point)
		case controls.EventKey:
			res = l.dispatcher.DispatchKey(ev.Key)
		default:
			continue
		}

		if res.Err == nil {
			continue
		}
		switch {
		case errors.Is(res.Err, core.ErrDeviceApply):
			l.stats.ApplyFailures++
		case res.Command != "":
			l.stats.CommandFailures++
		}
	}
}

func (l *Loop) render() error {
	if err := l.renderer.Begin(l.front); err != nil {
		return err
	}

	auto := l.exposure.AutoExposure()
	controls.Draw(l.renderer, l.widgets, l.store, controls.DrawState{AutoExposure: auto})
	l.drawHUD(auto)

	return l.renderer.Present()
}

func (l *Loop) drawHUD(auto bool) {
	mode := core.ExposureOff
	if auto {
		mode = core.ExposureAuto
	}
	l.renderer.DrawText("exposure: "+mode.String(), controls.Pt(10, 20), hudColor)

	if l.evaluator == nil || l.opts.MetricsEvery <= 0 {
		return
	}

	if l.stats.Frames%l.opts.MetricsEvery == 0 {
		values, err := l.evaluator.EvaluateRGB(l.front.Width, l.front.Height, l.front.Pix)
		if err != nil {
			l.logger.WithError(err).Debug("Frame metrics failed")
		} else {
			l.hud = FormatMetrics(values)
		}
	}

	for i, line := range l.hud {
		l.renderer.DrawText(line, controls.Pt(10, float64(40+20*i)), hudColor)
	}
}

// FormatMetrics renders metric values as sorted "name: value" lines.
func FormatMetrics(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, strings.ReplaceAll(name, "_", " ")+": "+strconv.FormatFloat(values[name], 'f', 2, 64))
	}
	return lines
}

func (l *Loop) logStats() {
	l.logger.WithFields(logrus.Fields{
		"iterations":       l.stats.Iterations,
		"frames":           l.stats.Frames,
		"capture_failures": l.stats.CaptureFailures,
		"render_failures":  l.stats.RenderFailures,
		"apply_failures":   l.stats.ApplyFailures,
		"command_failures": l.stats.CommandFailures,
		"events":           l.stats.Events,
	}).Info("Preview stats")
}
