package separation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
	"github.com/BYU-Hydroinformatics/baseflow/methods"
)

// gaugeSeries builds two hundred days of receding flow with storm pulses
// every forty days, long enough for both the recession estimator and the
// strict reference to find what they need.
func gaugeSeries() *hydrograph.Series {
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

func TestRunAllMethods(t *testing.T) {
	s := gaugeSeries()
	results, err := Run(s, nil)
	require.NoError(t, err)
	require.Len(t, results, len(methods.Names()))

	for _, name := range methods.Names() {
		r, ok := results[name]
		require.True(t, ok, name)
		if r.Failed() {
			continue
		}
		require.NotNil(t, r.Baseflow, name)
		require.NotNil(t, r.Quickflow, name)
		for i, b := range r.Baseflow.Values {
			if math.IsNaN(b) {
				continue
			}
			assert.LessOrEqual(t, b, s.Values[i]+1e-9, "%s step %d", name, i)
			assert.InDelta(t, s.Values[i]-b, r.Quickflow.Values[i], 1e-9, "%s step %d", name, i)
		}
		assert.False(t, math.IsNaN(r.Score.BFI), name)
	}

	// The workhorse filter must succeed on a clean two-hundred-day record.
	require.False(t, results["lh"].Failed())
}

func TestRunIsolatesMethodFailures(t *testing.T) {
	s := hydrograph.New([]float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1})
	results, err := Run(s, &Options{Methods: []string{"lh", "ukih"}})
	require.NoError(t, err)

	// The filter runs on ten days while the smoothed-minima method needs
	// more record; its failure stays on its own result.
	lh := results["lh"]
	require.False(t, lh.Failed())
	assert.NotNil(t, lh.Baseflow)
	assert.True(t, math.IsNaN(lh.Score.KGE))
	assert.False(t, math.IsNaN(lh.Score.BFI))

	uk := results["ukih"]
	require.True(t, uk.Failed())
	var ide *hydrograph.InsufficientDataError
	assert.ErrorAs(t, uk.Err, &ide)
	assert.Nil(t, uk.Baseflow)
}

func TestRunShortSeriesWithCalibration(t *testing.T) {
	// Two days is too little for a strict reference, so calibration has
	// nothing to target; the filter still runs on default parameters
	// while the record-hungry method fails on its own length check.
	s := hydrograph.New([]float64{10, 9})
	results, err := Run(s, &Options{Methods: []string{"lh", "ukih"}, UseCalibration: true})
	require.NoError(t, err)

	lh := results["lh"]
	require.False(t, lh.Failed())
	assert.NotNil(t, lh.Baseflow)
	assert.True(t, math.IsNaN(lh.Score.KGE))
	assert.False(t, math.IsNaN(lh.Score.BFI))

	require.True(t, results["ukih"].Failed())
	var ide *hydrograph.InsufficientDataError
	assert.ErrorAs(t, results["ukih"].Err, &ide)
}

func TestRunRejectsEmptyInput(t *testing.T) {
	_, err := Run(nil, nil)
	assert.Error(t, err)

	_, err = Run(hydrograph.New(nil), nil)
	assert.Error(t, err)
}

func TestRunUnknownMethod(t *testing.T) {
	results, err := Run(gaugeSeries(), &Options{Methods: []string{"nope"}})
	require.NoError(t, err)
	require.True(t, results["nope"].Failed())
}

func TestRunRecessionOverride(t *testing.T) {
	results, err := Run(gaugeSeries(), &Options{
		Methods:              []string{"chapman"},
		RecessionCoefficient: 0.9,
	})
	require.NoError(t, err)

	r := results["chapman"]
	require.False(t, r.Failed())
	assert.Equal(t, 0.9, r.Params["recession"])
}

func TestRunDerivesHysepWindow(t *testing.T) {
	results, err := Run(gaugeSeries(), &Options{
		Methods: []string{"fixed"},
		Area:    2590,
	})
	require.NoError(t, err)

	r := results["fixed"]
	require.False(t, r.Failed())
	assert.Equal(t, float64(methods.HysepInterval(2590)), r.Params["window"])
}

func TestRunCalibrationFallsBackToDefaults(t *testing.T) {
	// A reference with no finite values makes every calibration attempt
	// score NaN; the method still runs on default parameters.
	s := gaugeSeries()
	blank := make([]float64, s.Len())
	for i := range blank {
		blank[i] = math.NaN()
	}

	results, err := Run(s, &Options{
		Methods:        []string{"lh"},
		UseCalibration: true,
		Reference:      s.WithValues(blank),
	})
	require.NoError(t, err)

	r := results["lh"]
	require.False(t, r.Failed())
	assert.NotNil(t, r.Baseflow)
	assert.True(t, math.IsNaN(r.Score.KGE))
}

func TestDefaultBounds(t *testing.T) {
	eck, _ := methods.Get("eckhardt")
	lh, _ := methods.Get("lh")

	high := DefaultBounds(eck, 0, 60)
	assert.Equal(t, 0.25, high["bfimax"][0])

	low := DefaultBounds(eck, 0, 40)
	assert.Equal(t, 0.001, low["bfimax"][0])

	small := DefaultBounds(lh, 50, 0)
	assert.Equal(t, 0.98, small["beta"][1])

	unknown := DefaultBounds(lh, 0, 0)
	assert.Equal(t, 0.995, unknown["beta"][1])

	huge := DefaultBounds(lh, 50000, 0)
	assert.Equal(t, 0.995, huge["beta"][1])
}
