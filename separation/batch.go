package separation

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
	"github.com/BYU-Hydroinformatics/baseflow/score"
)

// Station is one station's input to a batch run.
type Station struct {
	ID       string
	Series   *hydrograph.Series
	Area     float64
	Latitude float64
	Ice      hydrograph.IcePredicate
}

// BatchResult aggregates a batch run keyed by station, then method.
type BatchResult struct {
	Stations map[string]map[string]*MethodResult
}

// Scores flattens the batch into per-station, per-method score records.
// Failed methods are skipped; methods that ran with an undefined score
// appear with NaN.
func (b *BatchResult) Scores() map[string][]score.Record {
	out := make(map[string][]score.Record, len(b.Stations))
	for id, results := range b.Stations {
		for _, r := range results {
			if r.Failed() {
				continue
			}
			out[id] = append(out[id], r.Score)
		}
	}
	return out
}

// RunStations separates every station with the shared options, evaluating
// up to workers stations concurrently. Stations are independent: station
// and method failures are recorded per result, never returned as the
// batch error. The returned error is only a context cancellation.
func RunStations(ctx context.Context, stations []Station, opts *Options, workers int, logger *zap.SugaredLogger) (*BatchResult, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if workers < 1 {
		workers = 1
	}

	batch := &BatchResult{Stations: make(map[string]map[string]*MethodResult, len(stations))}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, st := range stations {
		st := st
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			stOpts := *opts
			stOpts.Area = st.Area
			stOpts.Latitude = st.Latitude
			stOpts.Ice = st.Ice

			results, err := Run(st.Series, &stOpts)
			if err != nil {
				logger.Warnw("station separation failed", "station", st.ID, "error", err)
				return nil
			}

			for name, r := range results {
				if r.Failed() {
					logger.Debugw("method failed", "station", st.ID, "method", name, "error", r.Err)
				}
			}

			mu.Lock()
			batch.Stations[st.ID] = results
			mu.Unlock()

			logger.Infow("station separated", "station", st.ID, "methods", len(results))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return batch, err
	}
	return batch, nil
}
