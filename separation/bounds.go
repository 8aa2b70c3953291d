package separation

import (
	"math"

	"github.com/BYU-Hydroinformatics/baseflow/methods"
)

// DefaultBounds builds per-station calibration bounds for a method from
// station metadata. It narrows the schema bounds of each tunable
// parameter using drainage area and latitude; parameters the table does
// not mention keep their schema bounds.
//
// Larger basins drain more slowly, so the recession-coefficient upper
// bound grows with area. High-latitude stations carry a snowmelt-dominated
// regime where a larger share of flow is baseflow, which raises the lower
// bound on BFImax.
func DefaultBounds(m methods.Method, area, latitude float64) map[string][2]float64 {
	bounds := make(map[string][2]float64)
	for _, p := range m.Params() {
		if !p.Tunable {
			continue
		}
		lo, hi := p.Min, p.Max
		switch p.Name {
		case "recession", "beta", "k":
			hi = math.Min(hi, recessionUpperBound(area))
		case "bfimax":
			if math.Abs(latitude) >= 55 {
				lo = math.Max(lo, 0.25)
			}
		}
		if hi > lo {
			bounds[p.Name] = [2]float64{lo, hi}
		}
	}
	return bounds
}

// recessionUpperBound maps drainage area (km^2) to the largest plausible
// daily recession coefficient.
func recessionUpperBound(area float64) float64 {
	switch {
	case area <= 0:
		return 0.995
	case area < 100:
		return 0.98
	case area < 1000:
		return 0.99
	case area < 10000:
		return 0.995
	default:
		return 0.9999
	}
}
