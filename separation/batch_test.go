package separation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
)

func TestRunStations(t *testing.T) {
	stations := []Station{
		{ID: "A", Series: gaugeSeries(), Area: 2590},
		{ID: "B", Series: gaugeSeries(), Latitude: 60},
	}
	opts := &Options{Methods: []string{"lh", "fixed"}}

	batch, err := RunStations(context.Background(), stations, opts, 2, nil)
	require.NoError(t, err)
	require.Len(t, batch.Stations, 2)

	for _, id := range []string{"A", "B"} {
		results := batch.Stations[id]
		require.Len(t, results, 2, id)
		assert.False(t, results["lh"].Failed(), id)
		assert.False(t, results["fixed"].Failed(), id)
	}

	// Station metadata flows into per-station options: the interval for
	// a 2590 km^2 basin differs from the unknown-area default.
	assert.Equal(t, 7.0, batch.Stations["A"]["fixed"].Params["window"])
	assert.Equal(t, 9.0, batch.Stations["B"]["fixed"].Params["window"])
}

func TestRunStationsSkipsFailedStation(t *testing.T) {
	stations := []Station{
		{ID: "good", Series: gaugeSeries()},
		{ID: "empty", Series: hydrograph.New(nil)},
	}
	opts := &Options{Methods: []string{"lh"}}

	batch, err := RunStations(context.Background(), stations, opts, 1, nil)
	require.NoError(t, err)

	assert.Contains(t, batch.Stations, "good")
	assert.NotContains(t, batch.Stations, "empty")
}

func TestRunStationsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stations := []Station{{ID: "A", Series: gaugeSeries()}}
	_, err := RunStations(ctx, stations, &Options{Methods: []string{"lh"}}, 1, nil)
	assert.Error(t, err)
}

func TestBatchScores(t *testing.T) {
	stations := []Station{{ID: "A", Series: gaugeSeries()}}
	opts := &Options{Methods: []string{"lh", "ukih", "nope"}}

	batch, err := RunStations(context.Background(), stations, opts, 1, nil)
	require.NoError(t, err)

	scores := batch.Scores()
	require.Contains(t, scores, "A")
	for _, rec := range scores["A"] {
		assert.NotEqual(t, "nope", rec.Method)
	}
	assert.Len(t, scores["A"], 2)
}
