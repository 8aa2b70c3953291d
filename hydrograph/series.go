package hydrograph

import (
	"errors"
	"math"
	"sort"
	"time"
)

// Series represents a streamflow time series with strictly increasing,
// fixed-step (typically daily) timestamps. Missing discharge values are
// stored as NaN. The separation engine never mutates a Series it is given.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Station    string
}

// New creates a daily series from discharge values, starting at a fixed
// reference date so that repeated runs are reproducible.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range timestamps {
		timestamps[i] = base.AddDate(0, 0, i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i].After(timestamps[i-1]) {
			return nil, errors.New("timestamps must be strictly increasing")
		}
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// ValidCount returns the number of finite discharge values.
func (s *Series) ValidCount() int {
	n := 0
	for _, v := range s.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n++
		}
	}
	return n
}

// Mean calculates the arithmetic mean over finite values.
func (s *Series) Mean() float64 {
	sum, n := 0.0, 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Min returns the minimum finite value in the series.
func (s *Series) Min() float64 {
	min := math.NaN()
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum finite value in the series.
func (s *Series) Max() float64 {
	max := math.NaN()
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// Median returns the median over finite values.
func (s *Series) Median() float64 {
	finite := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	sort.Float64s(finite)
	n := len(finite)
	if n%2 == 0 {
		return (finite[n/2-1] + finite[n/2]) / 2
	}
	return finite[n/2]
}

// Sum returns the total over finite values.
func (s *Series) Sum() float64 {
	sum := 0.0
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Station:    s.Station,
	}
}

// WithValues returns a new series sharing this series' timestamps but
// carrying the given values. Used by separation methods to build output
// aligned with their input.
func (s *Series) WithValues(values []float64) *Series {
	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)
	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Station:    s.Station,
	}
}

// Subtract returns this series minus other, element-wise. NaN propagates.
// Differences are floored at zero, so subtracting baseflow from streamflow
// yields a non-negative quickflow series.
func (s *Series) Subtract(other *Series) *Series {
	values := make([]float64, len(s.Values))
	for i := range values {
		if i >= len(other.Values) {
			values[i] = math.NaN()
			continue
		}
		d := s.Values[i] - other.Values[i]
		if d < 0 {
			d = 0
		}
		values[i] = d
	}
	return s.WithValues(values)
}

// MovingAverage calculates a centered moving average over finite values.
// Positions whose window contains a NaN are NaN in the result.
func (s *Series) MovingAverage(window int) []float64 {
	n := len(s.Values)
	out := make([]float64, n)
	if window <= 0 || window > n {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	half := (window - 1) / 2
	for i := 0; i < n; i++ {
		lo, hi := i-half, i+window-half
		if lo < 0 || hi > n {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		ok := true
		for j := lo; j < hi; j++ {
			if math.IsNaN(s.Values[j]) {
				ok = false
				break
			}
			sum += s.Values[j]
		}
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// FiniteRuns returns the [start, end) index ranges of maximal runs of
// consecutive finite values. Separation methods process each run
// independently so that NaN gaps propagate to the output.
func (s *Series) FiniteRuns() [][2]int {
	var runs [][2]int
	start := -1
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if start >= 0 {
				runs = append(runs, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(s.Values)})
	}
	return runs
}

// Clean returns a copy with negative discharges folded to their absolute
// value and years with fewer than minDaysPerYear finite observations
// masked out as NaN. Mirrors the cleaning step expected before separation.
func (s *Series) Clean(minDaysPerYear int) *Series {
	out := s.Copy()
	counts := make(map[int]int)
	for i, v := range out.Values {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 {
			out.Values[i] = -v
		}
		if i < len(out.Timestamps) {
			counts[out.Timestamps[i].Year()]++
		}
	}
	if minDaysPerYear <= 0 {
		return out
	}
	for i := range out.Values {
		if i < len(out.Timestamps) && counts[out.Timestamps[i].Year()] < minDaysPerYear {
			out.Values[i] = math.NaN()
		}
	}
	return out
}
