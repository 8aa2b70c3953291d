package recession

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
)

// decaySeries builds Q[t] = q0 * r^t.
func decaySeries(q0, r float64, n int) *hydrograph.Series {
	values := make([]float64, n)
	for i := range values {
		values[i] = q0 * math.Pow(r, float64(i))
	}
	return hydrograph.New(values)
}

func TestForwardRecoversPureDecay(t *testing.T) {
	for _, r := range []float64{0.85, 0.9, 0.95, 0.99} {
		s := decaySeries(100, r, 60)
		a, err := Coefficient(s, nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, r, a, 1e-3, "r=%v", r)
	}
}

func TestBackwardRecoversPureDecay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = Backward
	s := decaySeries(100, 0.9, 60)

	a, err := Coefficient(s, nil, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, a, 1e-3)
}

func TestInsufficientData(t *testing.T) {
	s := hydrograph.New([]float64{10, 9})
	_, err := Coefficient(s, nil, nil)
	require.Error(t, err)

	var insufficient *hydrograph.InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestRisingFlowHasNoSegments(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i + 1)
	}
	s := hydrograph.New(values)

	assert.Empty(t, Segments(s, nil, 4))
	_, err := Coefficient(s, nil, nil)
	assert.Error(t, err)
}

func TestSegmentsSplitOnRises(t *testing.T) {
	// A rise in the middle splits the record into two decay segments.
	s := hydrograph.New([]float64{100, 90, 81, 73, 66, 90, 80, 72})
	segments := Segments(s, nil, 2)
	require.Len(t, segments, 2)
	assert.Equal(t, Segment{Start: 0, End: 5}, segments[0])
	assert.Equal(t, Segment{Start: 5, End: 8}, segments[1])

	cfg := DefaultConfig()
	cfg.MinSegmentLen = 2
	cfg.MinSteps = 5
	a, err := Coefficient(s, nil, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, a, 0.01)
}

func TestConstantFlowClamped(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 5.0
	}
	s := hydrograph.New(values)

	a, err := Coefficient(s, nil, nil)
	require.NoError(t, err)
	assert.Less(t, a, 1.0, "coefficient stays inside (0, 1)")
	assert.Greater(t, a, 0.0)
}

func TestIcePeriodsExcluded(t *testing.T) {
	// Clean decay, but every step is in January: an all-January ice mask
	// must leave nothing to fit.
	s := decaySeries(100, 0.9, 20) // starts 2000-01-01, daily
	ice := hydrograph.IceMonths(time.January)

	_, err := Coefficient(s, ice, nil)
	assert.Error(t, err)
}

func TestNaNBreaksSegments(t *testing.T) {
	values := []float64{100, 90, 81, math.NaN(), 66, 59, 53, 48}
	s := hydrograph.New(values)
	segments := Segments(s, nil, 2)
	require.Len(t, segments, 2)
	assert.Equal(t, 3, segments[0].End)
	assert.Equal(t, 4, segments[1].Start)
}

func TestFitReportsSteps(t *testing.T) {
	s := decaySeries(100, 0.9, 30)
	est, err := Fit(s, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 29, est.Steps)
	require.Len(t, est.Segments, 1)
	assert.InDelta(t, 0.9, est.Coefficient, 1e-3)
}
