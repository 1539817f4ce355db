package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camera-control-panel/internal/core"
)

func TestStore_SetClamps(t *testing.T) {
	t.Parallel()

	store := core.NewDefaultStore()

	for _, p := range core.DefaultParameters() {
		got, err := store.Set(p.Name, p.Min-1)
		require.NoError(t, err)
		assert.Equal(t, p.Min, got, "%s below min", p.Name)

		got, err = store.Set(p.Name, p.Max+1)
		require.NoError(t, err)
		assert.Equal(t, p.Max, got, "%s above max", p.Name)

		for _, raw := range []float64{-1e9, p.Min, (p.Min + p.Max) / 2, p.Max, 1e9, math.Inf(1), math.Inf(-1)} {
			got, err := store.Set(p.Name, raw)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, p.Min)
			assert.LessOrEqual(t, got, p.Max)
		}
	}
}

func TestStore_SetNaNKeepsValue(t *testing.T) {
	t.Parallel()

	store := core.NewDefaultStore()

	got, err := store.Set(core.ParamBrightness, math.NaN())
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)
}

func TestStore_AdjustISOScenario(t *testing.T) {
	t.Parallel()

	store := core.NewDefaultStore()

	var got float64
	var err error
	for i := 0; i < 7; i++ {
		got, err = store.Adjust(core.ParamISO, 50)
		require.NoError(t, err)
	}
	assert.Equal(t, 450.0, got)

	got, err = store.Adjust(core.ParamISO, 500)
	require.NoError(t, err)
	assert.Equal(t, 800.0, got)
}

func TestStore_UnknownParameter(t *testing.T) {
	t.Parallel()

	store := core.NewDefaultStore()

	_, err := store.Get("saturation")
	require.ErrorIs(t, err, core.ErrUnknownParameter)

	_, err = store.Set("saturation", 1)
	require.ErrorIs(t, err, core.ErrUnknownParameter)

	_, err = store.Adjust("saturation", 1)
	require.ErrorIs(t, err, core.ErrUnknownParameter)

	_, err = store.Parameter("saturation")
	require.ErrorIs(t, err, core.ErrUnknownParameter)

	assert.False(t, store.Has("saturation"))
}

func TestStore_KeepsFullPrecision(t *testing.T) {
	t.Parallel()

	store := core.NewDefaultStore()

	for i := 0; i < 3; i++ {
		_, err := store.Adjust(core.ParamRedGain, 0.004)
		require.NoError(t, err)
	}

	got, err := store.Get(core.ParamRedGain)
	require.NoError(t, err)
	assert.InDelta(t, 1.012, got, 1e-9)

	rounded, err := store.Rounded(core.ParamRedGain)
	require.NoError(t, err)
	assert.Equal(t, 1.01, rounded)
}

func TestNewStore_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params []core.Parameter
	}{
		{"empty name", []core.Parameter{{Name: "", Min: 0, Max: 1}}},
		{"inverted bounds", []core.Parameter{{Name: "x", Min: 2, Max: 1}}},
		{"negative step", []core.Parameter{{Name: "x", Min: 0, Max: 1, Step: -1}}},
		{"duplicate", []core.Parameter{{Name: "x", Min: 0, Max: 1}, {Name: "x", Min: 0, Max: 1}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.NewStore(tc.params...)
			require.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}
}

func TestNewStore_ClampsInitialValueAndKeepsOrder(t *testing.T) {
	t.Parallel()

	store, err := core.NewStore(
		core.Parameter{Name: "b", Value: 10, Min: 0, Max: 5},
		core.Parameter{Name: "a", Value: -3, Min: 0, Max: 5},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, store.Names())
	assert.Equal(t, map[string]float64{"b": 5, "a": 0}, store.Values())
}

func TestParameter_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		param core.Parameter
		want  string
	}{
		{core.Parameter{Value: 449.6, Precision: 0}, "450"},
		{core.Parameter{Value: 1.005001, Precision: 2}, "1.01"},
		{core.Parameter{Value: 0.5, Precision: 2}, "0.50"},
		{core.Parameter{Value: -33.4, Precision: 0}, "-33"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.param.Format())
	}
}
