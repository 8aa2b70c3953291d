package calibrate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
	"github.com/BYU-Hydroinformatics/baseflow/methods"
)

// stormSeries builds two hundred days of receding flow with periodic storm
// pulses, enough structure for a filter to leave a recoverable signature.
func stormSeries() *hydrograph.Series {
	vals := make([]float64, 200)
	q := 50.0
	for i := range vals {
		q = 5 + (q-5)*0.93
		if i%40 == 15 {
			q += 120
		}
		vals[i] = q
	}
	return hydrograph.New(vals)
}

func TestCalibrateRecoversEckhardtParameter(t *testing.T) {
	s := stormSeries()
	m, ok := methods.Get("eckhardt")
	require.True(t, ok)

	truth := methods.Values{"recession": 0.95, "bfimax": 0.6}
	ref, err := m.Separate(s, truth)
	require.NoError(t, err)

	res, err := Calibrate(m, s, ref.Baseflow, methods.Values{"recession": 0.95}, nil, nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, res.Params["bfimax"], 0.02)
	assert.Greater(t, res.Score, 0.98)
	assert.LessOrEqual(t, res.Evaluations, DefaultConfig().Budget)
}

func TestCalibrateIsDeterministic(t *testing.T) {
	s := stormSeries()
	m, _ := methods.Get("lh")
	ref, err := m.Separate(s, methods.Values{"beta": 0.9})
	require.NoError(t, err)

	a, err := Calibrate(m, s, ref.Baseflow, nil, nil, nil)
	require.NoError(t, err)
	b, err := Calibrate(m, s, ref.Baseflow, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Params, b.Params)
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Evaluations, b.Evaluations)
}

func TestCalibrateBoundsNarrowSearch(t *testing.T) {
	s := stormSeries()
	m, _ := methods.Get("lh")
	ref, err := m.Separate(s, nil)
	require.NoError(t, err)

	res, err := Calibrate(m, s, ref.Baseflow, nil, map[string][2]float64{"beta": {0.9, 0.95}}, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Params["beta"], 0.9)
	assert.LessOrEqual(t, res.Params["beta"], 0.95)
}

func TestCalibrateNoFreeParams(t *testing.T) {
	s := stormSeries()
	m, _ := methods.Get("lh")
	ref, err := m.Separate(s, nil)
	require.NoError(t, err)

	// Bounds naming no known parameter leave nothing to search, so the
	// base values are evaluated once.
	base := methods.Values{"beta": 0.925}
	res, err := Calibrate(m, s, ref.Baseflow, base, map[string][2]float64{"unknown": {0, 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Evaluations)
	assert.Equal(t, base, res.Params)
}

func TestCalibrateFailsWithoutFiniteScore(t *testing.T) {
	s := stormSeries()
	m, _ := methods.Get("lh")

	blank := make([]float64, s.Len())
	for i := range blank {
		blank[i] = math.NaN()
	}
	_, err := Calibrate(m, s, s.WithValues(blank), nil, nil, nil)

	var cfe *hydrograph.CalibrationFailedError
	require.ErrorAs(t, err, &cfe)
	assert.Equal(t, "lh", cfe.Method)
}

func TestCalibrateHonorsBudget(t *testing.T) {
	s := stormSeries()
	m, _ := methods.Get("lh")
	ref, err := m.Separate(s, nil)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Budget = 10
	res, err := Calibrate(m, s, ref.Baseflow, nil, nil, cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Evaluations, 10)
}

func TestGridValuesIntegerDedup(t *testing.T) {
	vals := gridValues(1, 3, 16, true)
	assert.Equal(t, []float64{1, 2, 3}, vals)

	floats := gridValues(0, 1, 5, false)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, floats)
}
