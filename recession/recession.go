// Package recession estimates the recession coefficient of a streamflow series.
package recession

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
)

// Mode selects the estimation strategy.
type Mode int

const (
	// Forward aggregates per-step decay ratios over recession segments.
	Forward Mode = iota
	// Backward fits log-flow regressions per segment and recombines them,
	// for series where qualifying forward steps are sparse.
	Backward
)

// Config holds configuration for recession estimation.
type Config struct {
	MinSegmentLen int  // Minimum recession steps per segment (default: 4)
	MinSteps      int  // Minimum qualifying steps overall (default: 10)
	Mode          Mode // Estimation strategy (default: Forward)
}

// DefaultConfig returns the default recession estimation configuration.
func DefaultConfig() *Config {
	return &Config{
		MinSegmentLen: 4,
		MinSteps:      10,
		Mode:          Forward,
	}
}

// Segment is a [Start, End) index range of strictly non-increasing flow.
type Segment struct {
	Start int
	End   int
}

// Steps returns the number of decay steps in the segment.
func (g Segment) Steps() int { return g.End - g.Start - 1 }

// Estimate describes a fitted recession coefficient.
type Estimate struct {
	Coefficient float64   // per-step decay ratio in (0, 1)
	Segments    []Segment // qualifying recession segments
	Steps       int       // qualifying decay steps used in the fit
}

// Segments identifies maximal runs of consecutive, finite, strictly
// non-increasing flow with at least minLen decay steps. Steps flagged by
// the ice predicate are excluded.
func Segments(s *hydrograph.Series, ice hydrograph.IcePredicate, minLen int) []Segment {
	mask := hydrograph.IceMask(s, ice)
	var segments []Segment
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start-1 >= minLen {
			segments = append(segments, Segment{Start: start, End: end})
		}
		start = -1
	}

	for i := 0; i < s.Len(); i++ {
		v := s.Values[i]
		if math.IsNaN(v) || v <= 0 || mask[i] {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if v > s.Values[i-1] {
			flush(i)
			start = i
		}
	}
	flush(s.Len())
	return segments
}

// Coefficient estimates the recession coefficient of the series. It fails
// with hydrograph.InsufficientDataError when fewer than Config.MinSteps
// qualifying decay steps exist. The result is clamped into (0, 1) to guard
// against degenerate series such as constant flow.
func Coefficient(s *hydrograph.Series, ice hydrograph.IcePredicate, cfg *Config) (float64, error) {
	est, err := Fit(s, ice, cfg)
	if err != nil {
		return math.NaN(), err
	}
	return est.Coefficient, nil
}

// Fit estimates the recession coefficient and returns the segments and
// step count behind it.
func Fit(s *hydrograph.Series, ice hydrograph.IcePredicate, cfg *Config) (*Estimate, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	segments := Segments(s, ice, cfg.MinSegmentLen)
	steps := 0
	for _, g := range segments {
		steps += g.Steps()
	}
	if steps < cfg.MinSteps {
		return nil, &hydrograph.InsufficientDataError{Op: "recession", N: steps, Min: cfg.MinSteps}
	}

	var a float64
	switch cfg.Mode {
	case Backward:
		a = fitBackward(s.Values, segments)
	default:
		a = fitForward(s.Values, segments)
	}

	return &Estimate{
		Coefficient: clamp(a),
		Segments:    segments,
		Steps:       steps,
	}, nil
}

// fitForward computes the median per-step decay ratio Q[t+1]/Q[t] across
// all qualifying steps of all segments.
func fitForward(q []float64, segments []Segment) float64 {
	var ratios []float64
	for _, g := range segments {
		for i := g.Start; i < g.End-1; i++ {
			if q[i] > 0 {
				ratios = append(ratios, q[i+1]/q[i])
			}
		}
	}
	sort.Float64s(ratios)
	return stat.Quantile(0.5, stat.Empirical, ratios, nil)
}

// fitBackward fits log Q linearly against step index within each segment
// and combines the per-segment decay slopes weighted by segment length.
// Extrapolating each fit one step backward reproduces the flow that the
// segment's recession implies, which is less noise-sensitive than single
// step ratios when segments are short.
func fitBackward(q []float64, segments []Segment) float64 {
	var slopes, weights []float64
	for _, g := range segments {
		xs := make([]float64, 0, g.End-g.Start)
		ys := make([]float64, 0, g.End-g.Start)
		for i := g.Start; i < g.End; i++ {
			if q[i] > 0 {
				xs = append(xs, float64(i-g.Start))
				ys = append(ys, math.Log(q[i]))
			}
		}
		if len(xs) < 2 {
			continue
		}
		_, slope := stat.LinearRegression(xs, ys, nil, false)
		slopes = append(slopes, slope)
		weights = append(weights, float64(len(xs)))
	}
	if len(slopes) == 0 {
		return math.NaN()
	}
	return math.Exp(stat.Mean(slopes, weights))
}

// clamp forces the coefficient into the open interval (0, 1).
func clamp(a float64) float64 {
	const (
		lo = 1e-4
		hi = 0.9999
	)
	if math.IsNaN(a) || a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}
