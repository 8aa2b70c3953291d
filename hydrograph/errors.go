package hydrograph

import "fmt"

// InsufficientDataError reports a series that is too short, or that contains
// too few qualifying observations, for the requested operation.
type InsufficientDataError struct {
	Op  string // operation or method that rejected the series
	N   int    // observations available
	Min int    // observations required
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: %d observations, need at least %d", e.Op, e.N, e.Min)
}

// InvalidParameterError reports a parameter value outside its declared bounds.
type InvalidParameterError struct {
	Method string
	Param  string
	Value  float64
	Min    float64
	Max    float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: parameter %q = %g outside bounds [%g, %g]", e.Method, e.Param, e.Value, e.Min, e.Max)
}

// CalibrationFailedError reports a parameter search in which no evaluated
// parameter set produced a finite score.
type CalibrationFailedError struct {
	Method    string
	Evaluated int
}

func (e *CalibrationFailedError) Error() string {
	return fmt.Sprintf("%s: calibration failed: no finite score after %d evaluations", e.Method, e.Evaluated)
}
