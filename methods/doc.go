// Package methods implements the baseflow separation algorithms and the
// registry that maps method names to implementations.
//
// Two families are provided. Recursive digital filters (lh, lh-multi,
// chapman, cm, boughton, furey, eckhardt, ewma, willems, hydrun) compute
// baseflow step by step from the previous baseflow value, the raw flow,
// and a recession coefficient or smoothing constant. Turning-point methods
// (ukih, local, fixed, slide) pick local minima over fixed or centered
// windows and interpolate between them.
//
// Every method is a pure function of (series, parameters) sharing one
// contract:
//
//	m, _ := methods.Get("eckhardt")
//	res, err := m.Separate(series, methods.Values{
//	    "recession": 0.97,
//	    "bfimax":    0.80,
//	})
//
// All methods clip baseflow into [0, Q[t]] at every step, initialize the
// recursion from the first flow value of each gap-free run, and propagate
// NaN at positions where the input is NaN. Parameters outside their
// declared bounds fail with hydrograph.InvalidParameterError; series
// shorter than a method's minimum fail with
// hydrograph.InsufficientDataError.
package methods
