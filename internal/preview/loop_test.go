package preview_test

import (
	"context"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camera-control-panel/internal/camera"
	"camera-control-panel/internal/controls"
	"camera-control-panel/internal/core"
	"camera-control-panel/internal/preview"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeCamera struct {
	captures int
	failures map[int]bool
}

func (c *fakeCamera) CaptureFrame(f *camera.Frame) error {
	c.captures++
	if c.failures[c.captures] {
		return camera.ErrCapture
	}
	f.Resize(4, 2)
	for i := range f.Pix {
		f.Pix[i] = byte(c.captures)
	}
	return nil
}

type fakeRenderer struct {
	begun     int
	presented int
	texts     []string
	lastPix   []byte
}

func (r *fakeRenderer) DrawRect(controls.Rect, color.RGBA, bool) {}
func (r *fakeRenderer) DrawCircle(controls.Point, float64, color.RGBA) {}

func (r *fakeRenderer) DrawText(text string, _ controls.Point, _ color.RGBA) {
	r.texts = append(r.texts, text)
}

func (r *fakeRenderer) Begin(f *camera.Frame) error {
	r.begun++
	r.texts = r.texts[:0]
	r.lastPix = append(r.lastPix[:0], f.Pix...)
	return nil
}

func (r *fakeRenderer) Present() error {
	r.presented++
	return nil
}

type scriptedEvents struct {
	batches [][]controls.Event
}

func (s *scriptedEvents) Drain() []controls.Event {
	if len(s.batches) == 0 {
		return nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch
}

type recordingApplier struct {
	calls int
	auto  bool
	err   error
}

func (a *recordingApplier) Apply(*core.Store) error {
	a.calls++
	return a.err
}

func (a *recordingApplier) AutoExposure() bool { return a.auto }

type countingEvaluator struct {
	calls int
}

func (e *countingEvaluator) EvaluateRGB(int, int, []byte) (map[string]float64, error) {
	e.calls++
	return map[string]float64{"mean_luma": 12.5}, nil
}

type fixture struct {
	store    *core.Store
	cam      *fakeCamera
	renderer *fakeRenderer
	events   *scriptedEvents
	applier  *recordingApplier
	eval     *countingEvaluator
	snaps    int
	loop     *preview.Loop
}

func newFixture(t *testing.T, opts preview.Options, batches ...[]controls.Event) *fixture {
	t.Helper()

	f := &fixture{
		store:    core.NewDefaultStore(),
		cam:      &fakeCamera{failures: map[int]bool{}},
		renderer: &fakeRenderer{},
		events:   &scriptedEvents{batches: batches},
		applier:  &recordingApplier{auto: true},
		eval:     &countingEvaluator{},
	}

	widgets, err := controls.DefaultLayout(controls.StyleSlider).Build(core.DefaultParameters())
	require.NoError(t, err)

	commands := map[controls.CommandID]controls.Command{
		controls.CommandSnapshot: func() error {
			f.snaps++
			return nil
		},
		controls.CommandToggleAuto: func() error {
			f.applier.auto = !f.applier.auto
			return nil
		},
	}

	d, err := controls.NewDispatcher(widgets, controls.DefaultKeyBindings(), f.store, f.applier, commands, quietLogger())
	require.NoError(t, err)

	f.loop, err = preview.NewLoop(f.cam, f.renderer, f.events, d, f.store, f.applier, f.eval, opts, quietLogger())
	require.NoError(t, err)
	return f
}

func TestLoop_QuitStopsBeforeCapture(t *testing.T) {
	t.Parallel()

	f := newFixture(t, preview.DefaultOptions(),
		nil,
		[]controls.Event{controls.Press(controls.KeyGainUp), controls.Quit()},
	)

	require.NoError(t, f.loop.Run(context.Background()))

	stats := f.loop.Stats()
	assert.Equal(t, 2, stats.Iterations)
	assert.Equal(t, 1, stats.Frames)
	assert.Equal(t, 1, f.cam.captures, "no capture after quit")

	// Events ahead of the quit in the same batch are still dispatched.
	iso, err := f.store.Get(core.ParamISO)
	require.NoError(t, err)
	assert.Equal(t, 150.0, iso)
	assert.Equal(t, 1, f.applier.calls)
}

func TestLoop_CaptureFailureSkipsRender(t *testing.T) {
	t.Parallel()

	f := newFixture(t, preview.DefaultOptions())
	f.cam.failures[2] = true

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.True(t, f.loop.Step(ctx))
	}

	stats := f.loop.Stats()
	assert.Equal(t, 3, stats.Iterations)
	assert.Equal(t, 2, stats.Frames)
	assert.Equal(t, 1, stats.CaptureFailures)
	assert.Equal(t, 2, f.renderer.presented)
	assert.Equal(t, byte(3), f.renderer.lastPix[0], "latest frame rendered")
}

func TestLoop_ContextCancelStops(t *testing.T) {
	t.Parallel()

	f := newFixture(t, preview.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())

	require.True(t, f.loop.Step(ctx))
	cancel()
	require.NoError(t, f.loop.Run(ctx))

	assert.Equal(t, 1, f.cam.captures)
}

func TestLoop_ClickMutatesBeforeCapture(t *testing.T) {
	t.Parallel()

	f := newFixture(t, preview.DefaultOptions(),
		[]controls.Event{controls.Click(controls.Pt(620, 77))},
	)

	require.True(t, f.loop.Step(context.Background()))

	// Left end of the brightness track.
	v, err := f.store.Get(core.ParamBrightness)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	assert.Contains(t, f.renderer.texts, "Brightness: 0")
}

func TestLoop_SnapshotKeyDoesNotMutate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, preview.DefaultOptions(),
		[]controls.Event{controls.Press(controls.KeySnapshot)},
	)
	before := f.store.Values()

	require.True(t, f.loop.Step(context.Background()))

	assert.Equal(t, 1, f.snaps)
	assert.Equal(t, before, f.store.Values())
	assert.Zero(t, f.applier.calls)
}

func TestLoop_ApplyFailureCounted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, preview.DefaultOptions(),
		[]controls.Event{controls.Press(controls.KeyGainUp)},
	)
	f.applier.err = &core.DeviceApplyError{Failed: []string{"iso"}, Err: core.ErrDeviceApply}

	require.True(t, f.loop.Step(context.Background()))
	assert.Equal(t, 1, f.loop.Stats().ApplyFailures)
	assert.Equal(t, 1, f.loop.Stats().Frames, "apply failure does not stop the frame")
}

func TestLoop_MetricsEveryN(t *testing.T) {
	t.Parallel()

	opts := preview.DefaultOptions()
	opts.MetricsEvery = 2
	f := newFixture(t, opts)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.True(t, f.loop.Step(ctx))
	}

	assert.Equal(t, 3, f.eval.calls)
	assert.Contains(t, f.renderer.texts, "mean luma: 12.50")
	assert.Contains(t, f.renderer.texts, "exposure: auto")
}

func TestLoop_ToggleShownInHUD(t *testing.T) {
	t.Parallel()

	f := newFixture(t, preview.DefaultOptions(),
		[]controls.Event{controls.Press(controls.KeyToggleAuto)},
	)

	require.True(t, f.loop.Step(context.Background()))
	assert.Contains(t, f.renderer.texts, "exposure: off")
	assert.Contains(t, f.renderer.texts, "Auto Exposure: Off")
}

func TestLoop_StatsClock(t *testing.T) {
	t.Parallel()

	f := newFixture(t, preview.DefaultOptions())
	ts := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	f.loop.WithClock(func() time.Time { return ts })

	require.True(t, f.loop.Step(context.Background()))
	assert.Equal(t, ts, f.loop.Stats().LastFrame)
}

func TestNewLoop_RejectsBadRotation(t *testing.T) {
	t.Parallel()

	opts := preview.DefaultOptions()
	opts.Orientation = camera.Orientation{Rotate: 45}

	f := newFixture(t, preview.DefaultOptions())
	_, err := preview.NewLoop(f.cam, f.renderer, f.events, nil, f.store, f.applier, nil, opts, quietLogger())
	require.Error(t, err)
}

func TestFormatMetrics(t *testing.T) {
	t.Parallel()

	lines := preview.FormatMetrics(map[string]float64{"sharpness": 3, "clipped": 0.126})
	assert.Equal(t, []string{"clipped: 0.13", "sharpness: 3.00"}, lines)
}
