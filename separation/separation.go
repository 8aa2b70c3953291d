// Package separation orchestrates baseflow separation runs across methods and stations.
package separation

import (
	"errors"
	"fmt"
	"math"

	"github.com/BYU-Hydroinformatics/baseflow/calibrate"
	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
	"github.com/BYU-Hydroinformatics/baseflow/methods"
	"github.com/BYU-Hydroinformatics/baseflow/recession"
	"github.com/BYU-Hydroinformatics/baseflow/score"
)

// Options configures a separation run for one station.
type Options struct {
	// Methods lists the method names to run; empty means every
	// registered method.
	Methods []string
	// UseCalibration tunes each method's free parameters against the
	// reference before separating.
	UseCalibration bool
	// Reference overrides the scoring and calibration target. When nil a
	// strict-baseflow reference is built from the series itself.
	Reference *hydrograph.Series
	// RecessionCoefficient overrides the estimated coefficient when > 0.
	RecessionCoefficient float64
	// Ice masks ice-affected periods during recession estimation and
	// reference construction.
	Ice hydrograph.IcePredicate
	// Area is the station drainage area in square kilometers (0 unknown).
	Area float64
	// Latitude is the station latitude in degrees (used for default
	// parameter bounds).
	Latitude float64
	// Recession configures the coefficient estimator.
	Recession *recession.Config
	// Calibration configures the parameter search.
	Calibration *calibrate.Config
}

// DefaultOptions runs every registered method with calibration enabled.
func DefaultOptions() *Options {
	return &Options{UseCalibration: true}
}

// MethodResult is the outcome of one method on one station. Exactly one of
// Err or Baseflow is set: a method that ran but scored NaN is a success
// with an undefined score, not a failure.
type MethodResult struct {
	Baseflow  *hydrograph.Series
	Quickflow *hydrograph.Series
	Score     score.Record
	Params    methods.Values
	Exceeded  int
	Limbs     []methods.Limb
	Err       error
}

// Failed reports whether the method failed to run.
func (r *MethodResult) Failed() bool { return r.Err != nil }

// Run separates one station's streamflow with every requested method and
// scores each result against the reference. Per-method failures are
// isolated: they are recorded on the method's result and never abort the
// run for other methods.
func Run(series *hydrograph.Series, opts *Options) (map[string]*MethodResult, error) {
	if series == nil || series.Len() == 0 {
		return nil, errors.New("separation: empty series")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	names := opts.Methods
	if len(names) == 0 {
		names = methods.Names()
	}

	run := &stationRun{series: series, opts: opts}
	results := make(map[string]*MethodResult, len(names))
	for _, name := range names {
		results[name] = run.one(name)
	}
	return results, nil
}

// stationRun carries the per-run derived artifacts shared across methods:
// the recession coefficient and the reference series, each computed once.
type stationRun struct {
	series *hydrograph.Series
	opts   *Options

	coeff     float64
	coeffErr  error
	coeffDone bool

	ref     *hydrograph.Series
	refErr  error
	refDone bool
}

// recessionCoefficient resolves the shared coefficient: the caller
// override if set, otherwise the estimator, memoized for the run.
func (r *stationRun) recessionCoefficient() (float64, error) {
	if r.opts.RecessionCoefficient > 0 {
		return r.opts.RecessionCoefficient, nil
	}
	if !r.coeffDone {
		r.coeff, r.coeffErr = recession.Coefficient(r.series, r.opts.Ice, r.opts.Recession)
		r.coeffDone = true
	}
	return r.coeff, r.coeffErr
}

// reference resolves the scoring target: the caller-supplied series if
// any, otherwise a strict-baseflow reference, memoized for the run.
func (r *stationRun) reference() (*hydrograph.Series, error) {
	if r.opts.Reference != nil {
		return r.opts.Reference, nil
	}
	if !r.refDone {
		r.ref, r.refErr = score.Strict(r.series, r.opts.Ice, nil)
		r.refDone = true
	}
	return r.ref, r.refErr
}

func (r *stationRun) one(name string) *MethodResult {
	m, ok := methods.Get(name)
	if !ok {
		return &MethodResult{Err: fmt.Errorf("separation: unknown method %q", name)}
	}

	params := make(methods.Values)
	if needsRecession(m) {
		a, err := r.recessionCoefficient()
		if err != nil {
			return &MethodResult{Err: fmt.Errorf("%s: %w", name, err)}
		}
		params["recession"] = a
	}
	if hasParam(m, "window") {
		params["window"] = float64(methods.HysepInterval(r.opts.Area))
	}

	if r.opts.UseCalibration && hasTunable(m) {
		if ref, err := r.reference(); err == nil {
			bounds := DefaultBounds(m, r.opts.Area, r.opts.Latitude)
			cal, err := calibrate.Calibrate(m, r.series, ref, params, bounds, r.opts.Calibration)
			if err == nil {
				params = cal.Params
			}
		}
		// A missing reference or a failed calibration falls back to
		// default parameters; the method itself still runs.
	}

	res, err := m.Separate(r.series, params)
	if err != nil {
		return &MethodResult{Err: fmt.Errorf("%s: %w", name, err)}
	}

	rec := score.Record{Method: name, KGE: math.NaN(), BFI: score.BFI(res.Baseflow.Values, r.series.Values)}
	if ref, err := r.reference(); err == nil {
		rec.KGE = score.KGE(res.Baseflow.Values, ref.Values)
	}

	return &MethodResult{
		Baseflow:  res.Baseflow,
		Quickflow: r.series.Subtract(res.Baseflow),
		Score:     rec,
		Params:    params,
		Exceeded:  res.Exceeded,
		Limbs:     res.Limbs,
	}
}

func needsRecession(m methods.Method) bool { return hasParam(m, "recession") }

func hasParam(m methods.Method, name string) bool {
	for _, p := range m.Params() {
		if p.Name == name {
			return true
		}
	}
	return false
}

func hasTunable(m methods.Method) bool {
	for _, p := range m.Params() {
		if p.Tunable {
			return true
		}
	}
	return false
}
