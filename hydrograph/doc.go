// Package hydrograph provides the streamflow data model shared by the
// separation engine.
//
// A Series pairs strictly increasing, fixed-step timestamps with discharge
// values; missing observations are NaN. Series statistics are NaN-aware, and
// FiniteRuns exposes the contiguous gap-free ranges that separation methods
// operate on.
//
// The package also carries the error taxonomy used across the engine
// (InsufficientDataError, InvalidParameterError, CalibrationFailedError),
// ice-period predicates for masking frozen winters, and CSV ingestion for
// (date, discharge) tables:
//
//	series, err := hydrograph.LoadCSV("station.csv", nil)
//	clean := series.Clean(120)
//	ice := hydrograph.IceWindow(time.November, 1, time.March, 31)
package hydrograph
