package controls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camera-control-panel/internal/controls"
	"camera-control-panel/internal/core"
)

func TestContains_HalfOpen(t *testing.T) {
	t.Parallel()

	r := controls.R(10, 20, 30, 40)

	tests := []struct {
		p    controls.Point
		want bool
	}{
		{controls.Pt(10, 20), true},
		{controls.Pt(39.999, 59.999), true},
		{controls.Pt(40, 30), false},
		{controls.Pt(20, 60), false},
		{controls.Pt(9.999, 30), false},
		{controls.Pt(20, 19.999), false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, controls.Contains(r, tc.p), "point %+v", tc.p)
	}
}

func TestSliderValueAt_Scenario(t *testing.T) {
	t.Parallel()

	track := controls.R(400, 400, 150, 10)

	assert.Equal(t, 50.0, controls.SliderValueAt(track, controls.Pt(475, 405), 0, 100))
	assert.Equal(t, 0.0, controls.SliderValueAt(track, controls.Pt(400, 405), 0, 100))
	assert.Equal(t, 100.0, controls.SliderValueAt(track, controls.Pt(550, 405), 0, 100))
}

func TestSliderValueAt_ClampsOutsideTrack(t *testing.T) {
	t.Parallel()

	track := controls.R(400, 400, 150, 10)

	assert.Equal(t, -100.0, controls.SliderValueAt(track, controls.Pt(0, 405), -100, 100))
	assert.Equal(t, 100.0, controls.SliderValueAt(track, controls.Pt(900, 405), -100, 100))
}

func TestSliderValueAt_ZeroWidthPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		controls.SliderValueAt(controls.R(0, 0, 0, 10), controls.Pt(0, 0), 0, 1)
	})
}

func TestSlider_RoundTrip(t *testing.T) {
	t.Parallel()

	track := controls.R(630, 72, 150, 10)

	for _, p := range core.DefaultParameters() {
		steps := 200
		for i := 0; i <= steps; i++ {
			v := p.Min + (p.Max-p.Min)*float64(i)/float64(steps)
			pos := controls.SliderHandlePosition(track, v, p.Min, p.Max)
			got := controls.SliderValueAt(track, pos, p.Min, p.Max)
			require.InDelta(t, v, got, 0.01, "%s at %v", p.Name, v)
		}
	}
}

func TestSliderHandlePosition(t *testing.T) {
	t.Parallel()

	track := controls.R(400, 400, 150, 10)

	assert.Equal(t, controls.Pt(475, 405), controls.SliderHandlePosition(track, 50, 0, 100))
	assert.Equal(t, controls.Pt(400, 405), controls.SliderHandlePosition(track, 0, 0, 100))
	assert.Equal(t, controls.Pt(550, 405), controls.SliderHandlePosition(track, 100, 0, 100))
	assert.Equal(t, controls.Pt(400, 405), controls.SliderHandlePosition(track, 7, 7, 7))
}

func TestRect_Image(t *testing.T) {
	t.Parallel()

	r := controls.R(10.4, 20.6, 30, 40)
	got := r.Image()
	assert.Equal(t, 10, got.Min.X)
	assert.Equal(t, 21, got.Min.Y)
	assert.Equal(t, 40, got.Max.X)
	assert.Equal(t, 61, got.Max.Y)
}
