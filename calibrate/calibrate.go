// Package calibrate searches method parameter spaces against a reference baseflow.
package calibrate

import (
	"math"
	"sort"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
	"github.com/BYU-Hydroinformatics/baseflow/methods"
	"github.com/BYU-Hydroinformatics/baseflow/score"
)

// Config holds configuration for the parameter search.
type Config struct {
	GridPoints  int     // Grid points per dimension per stage (default: 16)
	Refinements int     // Refinement stages after the initial grid (default: 3)
	Shrink      float64 // Bounds shrink factor per refinement (default: 0.25)
	Budget      int     // Maximum method evaluations (default: 4000)
	// ExceedPenalty scales the penalty applied per clipped step, so
	// parameter sets whose raw recursion overshoots streamflow rank
	// below equally scoring sets that do not.
	ExceedPenalty float64
}

// DefaultConfig returns the default calibration configuration.
func DefaultConfig() *Config {
	return &Config{
		GridPoints:    16,
		Refinements:   3,
		Shrink:        0.25,
		Budget:        4000,
		ExceedPenalty: 0.01,
	}
}

// Result is the outcome of a parameter search.
type Result struct {
	Params methods.Values // best parameter set found
	// Score is the objective value of Params: KGE minus the
	// exceedance penalty (Config.ExceedPenalty per clipped step,
	// normalized by series length).
	Score       float64
	Evaluations int // method evaluations spent
}

// Calibrate finds the parameter set maximizing the Kling-Gupta Efficiency
// between method.Separate(series, params) and the reference.
//
// base supplies fixed parameter values (typically the recession
// coefficient from the estimator); bounds optionally overrides or narrows
// the searched interval per parameter. When bounds is empty, every
// parameter the method marks tunable is searched over its schema bounds.
//
// The search is a deterministic grid refinement: a coarse grid over the
// free dimensions, then repeated regridding of a shrunken box around the
// best point, capped by Config.Budget evaluations. If no evaluated
// parameter set yields a finite score, it fails with
// hydrograph.CalibrationFailedError.
func Calibrate(m methods.Method, series, reference *hydrograph.Series, base methods.Values, bounds map[string][2]float64, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	free, boxes := freeParams(m, bounds)
	if len(free) == 0 {
		// Nothing to search; evaluate the base values once.
		s, evals, err := evaluate(m, series, reference, base, cfg)
		if err != nil || !isFinite(s) {
			return nil, &hydrograph.CalibrationFailedError{Method: m.Name(), Evaluated: evals}
		}
		return &Result{Params: base.Clone(), Score: s, Evaluations: evals}, nil
	}

	best := methods.Values(nil)
	bestScore := math.Inf(-1)
	evaluations := 0

	for stage := 0; stage <= cfg.Refinements; stage++ {
		grids := make([][]float64, len(free))
		for d, name := range free {
			grids[d] = gridValues(boxes[name][0], boxes[name][1], cfg.GridPoints, integerParam(m, name))
		}

		idx := make([]int, len(free))
		for {
			params := base.Clone()
			if params == nil {
				params = make(methods.Values)
			}
			for d, name := range free {
				params[name] = grids[d][idx[d]]
			}

			if evaluations >= cfg.Budget {
				break
			}
			s, evals, err := evaluate(m, series, reference, params, cfg)
			evaluations += evals
			if err == nil && isFinite(s) && s > bestScore {
				bestScore = s
				best = params
			}

			if !advance(idx, grids) {
				break
			}
		}
		if evaluations >= cfg.Budget || best == nil {
			break
		}

		// Shrink the box around the best point for the next stage.
		for _, name := range free {
			lo, hi := boxes[name][0], boxes[name][1]
			span := (hi - lo) * cfg.Shrink
			c := best[name]
			nlo, nhi := math.Max(lo, c-span/2), math.Min(hi, c+span/2)
			if nhi > nlo {
				boxes[name] = [2]float64{nlo, nhi}
			}
		}
	}

	if best == nil {
		return nil, &hydrograph.CalibrationFailedError{Method: m.Name(), Evaluated: evaluations}
	}
	return &Result{Params: best, Score: bestScore, Evaluations: evaluations}, nil
}

// evaluate runs the method once and scores it against the reference,
// applying the exceedance penalty.
func evaluate(m methods.Method, series, reference *hydrograph.Series, params methods.Values, cfg *Config) (float64, int, error) {
	res, err := m.Separate(series, params)
	if err != nil {
		return math.NaN(), 1, err
	}
	s := score.KGE(res.Baseflow.Values, reference.Values)
	if isFinite(s) && res.Exceeded > 0 {
		s -= cfg.ExceedPenalty * float64(res.Exceeded) / float64(series.Len())
	}
	return s, 1, nil
}

// freeParams resolves which parameters are searched and their boxes, in a
// deterministic (sorted) order.
func freeParams(m methods.Method, bounds map[string][2]float64) ([]string, map[string][2]float64) {
	boxes := make(map[string][2]float64)
	if len(bounds) > 0 {
		for _, p := range m.Params() {
			if b, ok := bounds[p.Name]; ok {
				lo, hi := math.Max(b[0], p.Min), math.Min(b[1], p.Max)
				if hi > lo {
					boxes[p.Name] = [2]float64{lo, hi}
				}
			}
		}
	} else {
		for _, p := range m.Params() {
			if p.Tunable {
				boxes[p.Name] = [2]float64{p.Min, p.Max}
			}
		}
	}

	names := make([]string, 0, len(boxes))
	for name := range boxes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, boxes
}

// gridValues produces an inclusive evenly spaced grid; integer parameters
// are rounded and deduplicated.
func gridValues(lo, hi float64, points int, integer bool) []float64 {
	if points < 2 {
		points = 2
	}
	vals := make([]float64, 0, points)
	step := (hi - lo) / float64(points-1)
	for i := 0; i < points; i++ {
		v := lo + float64(i)*step
		if integer {
			v = math.Round(v)
		}
		if len(vals) > 0 && v == vals[len(vals)-1] {
			continue
		}
		vals = append(vals, v)
	}
	return vals
}

// advance increments a mixed-radix counter over the grids; false on wrap.
func advance(idx []int, grids [][]float64) bool {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < len(grids[d]) {
			return true
		}
		idx[d] = 0
	}
	return false
}

func integerParam(m methods.Method, name string) bool {
	for _, p := range m.Params() {
		if p.Name == name {
			return p.Integer
		}
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
