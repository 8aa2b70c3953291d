package score

import (
	"math"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
)

// StrictConfig holds configuration for the strict-baseflow reference.
type StrictConfig struct {
	Block   int     // block size for candidate minima (default: 5)
	Ratio   float64 // turning-point ratio, stricter than the UKIH 0.9 (default: 0.97)
	Decline int     // steps of monotonic decline required into a turning point (default: 2)
}

// DefaultStrictConfig returns the default strict reference configuration.
func DefaultStrictConfig() *StrictConfig {
	return &StrictConfig{
		Block:   5,
		Ratio:   0.97,
		Decline: 2,
	}
}

// Strict builds a strict-baseflow reference series from the streamflow
// itself: block minima that pass a turning-point test stricter than the
// UKIH rule, with monotonic decline required into each accepted point and
// ice-affected points rejected, linearly interpolated in between. The
// result never increases between consecutive turning points: stretches
// whose bounding turning points rise are left undefined rather than
// interpolated upward. It is a calibration and scoring target, not an
// observed baseflow; it is NaN outside the first and last accepted
// turning points and at NaN gaps of the input.
func Strict(s *hydrograph.Series, ice hydrograph.IcePredicate, cfg *StrictConfig) (*hydrograph.Series, error) {
	if cfg == nil {
		cfg = DefaultStrictConfig()
	}

	mask := hydrograph.IceMask(s, ice)
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = math.NaN()
	}

	found := 0
	for _, run := range s.FiniteRuns() {
		q := s.Values[run[0]:run[1]]
		turns := strictTurns(q, mask[run[0]:run[1]], cfg)
		found += len(turns)
		if len(turns) < 2 {
			continue
		}

		b := out[run[0]:run[1]]
		seg := 0
		prev := math.Inf(1)
		for i := turns[0]; i <= turns[len(turns)-1]; i++ {
			if seg+1 < len(turns) && i == turns[seg+1] {
				seg++
				b[i] = q[i]
				prev = q[i]
				continue
			}
			lo, hi := turns[seg], turns[seg+1]
			if i == lo {
				b[i] = q[i]
				prev = q[i]
				continue
			}
			if q[hi] > q[lo] {
				// The flow recovers between these turning points, so no
				// non-increasing baseflow connects them; the stretch
				// stays undefined.
				continue
			}
			v := q[lo] + (q[hi]-q[lo])/float64(hi-lo)*float64(i-lo)
			if v > q[i] {
				v = q[i]
			}
			if v > prev {
				v = prev
			}
			if v < 0 {
				v = 0
			}
			b[i] = v
			prev = v
		}
	}

	if found < 2 {
		return nil, &hydrograph.InsufficientDataError{Op: "strict reference", N: found, Min: 2}
	}
	return s.WithValues(out), nil
}

// strictTurns selects block minima that pass the strict ratio test against
// both neighboring minima, decline monotonically on approach, and are not
// ice-affected.
func strictTurns(q []float64, ice []bool, cfg *StrictConfig) []int {
	var minima []int
	for start := 0; start+cfg.Block <= len(q); start += cfg.Block {
		idx := start
		for i := start + 1; i < start+cfg.Block; i++ {
			if q[i] < q[idx] {
				idx = i
			}
		}
		minima = append(minima, idx)
	}

	var turns []int
	for i := 0; i+2 < len(minima); i++ {
		mid := minima[i+1]
		if ice[mid] {
			continue
		}
		if cfg.Ratio*q[mid] >= q[minima[i]] || cfg.Ratio*q[mid] >= q[minima[i+2]] {
			continue
		}
		declined := true
		for d := 0; d < cfg.Decline; d++ {
			j := mid - d
			if j < 1 || q[j-1] < q[j] {
				declined = false
				break
			}
		}
		if declined {
			turns = append(turns, mid)
		}
	}
	return turns
}
