// Package baseflow separates streamflow into baseflow and quickflow components.
//
// Baseflow is a Go package for hydrograph separation: splitting a streamflow
// time series into a slowly varying, groundwater-sustained component
// (baseflow) and a storm-driven surface-runoff component (quickflow). It
// implements the family of separation techniques commonly used in hydrology,
// from recursive digital filters to graphical turning-point methods, and
// scores every technique against a strict-baseflow reference so methods can
// be ranked per station.
//
// # Features
//
//   - Recursive digital filters (Lyne-Hollick, Chapman, Chapman-Maxwell,
//     Boughton, Furey, Eckhardt, EWMA, Willems, multi-pass variants)
//   - Graphical turning-point methods (UKIH, HYSEP local minimum, fixed
//     interval, and sliding interval)
//   - Recession coefficient estimation (forward median and backward
//     regression modes)
//   - Deterministic grid-refinement calibration of filter parameters
//   - Modified Kling-Gupta Efficiency scoring and baseflow index (BFI)
//   - Strict-baseflow reference construction from turning points
//   - Parallel multi-station batch separation
//
// # Quick Start
//
// Separate a single station with every registered method:
//
//	series := hydrograph.New(values)
//	results, _ := separation.Run(series, separation.DefaultOptions())
//	for name, r := range results {
//	    fmt.Printf("%s: KGE=%.3f BFI=%.3f\n", name, r.Score.KGE, r.Score.BFI)
//	}
//
// Run a single method with explicit parameters:
//
//	m, _ := methods.Get("eckhardt")
//	res, _ := m.Separate(series, methods.Values{"recession": 0.97, "bfimax": 0.8})
//
// # Packages
//
// The library is organized into the following packages:
//
//   - hydrograph: Streamflow series data structures, CSV loading, ice masks
//   - recession: Recession coefficient estimation
//   - methods: Baseflow separation algorithms and the method registry
//   - score: Kling-Gupta Efficiency, baseflow index, strict reference
//   - calibrate: Bounded parameter search against a reference series
//   - separation: Per-station orchestration and multi-station batch runs
//
// # References
//
//   - Nathan, R.J., & McMahon, T.A. (1990). Evaluation of Automated
//     Techniques for Base Flow and Recession Analyses
//   - Eckhardt, K. (2005). How to Construct Recursive Digital Filters for
//     Baseflow Separation
//   - Sloto, R.A., & Crouse, M.Y. (1996). HYSEP: A Computer Program for
//     Streamflow Hydrograph Separation and Analysis
package baseflow
