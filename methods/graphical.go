package methods

import (
	"gonum.org/v1/gonum/floats"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
)

// windowParam is the HYSEP separation interval in days. The orchestrator
// derives it from drainage area via HysepInterval; the default matches an
// unknown area.
func windowParam() Param {
	return Param{Name: "window", Min: 3, Max: 11, Default: 9, Integer: true}
}

// fixedInterval is the HYSEP fixed-interval graphical method: the series
// is cut into consecutive windows and baseflow is the window minimum.
type fixedInterval struct{}

func (fixedInterval) Name() string { return "fixed" }

func (fixedInterval) Params() []Param { return []Param{windowParam()} }

func (fixedInterval) MinLen() int { return 3 }

func (m fixedInterval) Separate(s *hydrograph.Series, params Values) (*Result, error) {
	p, err := resolve(m, s, params)
	if err != nil {
		return nil, err
	}
	window := int(p["window"])

	out := nanSlice(s.Len())
	for _, run := range s.FiniteRuns() {
		q := s.Values[run[0]:run[1]]
		b := out[run[0]:run[1]]
		for start := 0; start < len(q); start += window {
			end := start + window
			if end > len(q) {
				end = len(q)
			}
			min := floats.Min(q[start:end])
			for i := start; i < end; i++ {
				b[i] = min
			}
		}
	}
	return &Result{Baseflow: s.WithValues(out)}, nil
}

// slideInterval is the HYSEP sliding-interval method: baseflow at each step
// is the minimum over a window centered on that step.
type slideInterval struct{}

func (slideInterval) Name() string { return "slide" }

func (slideInterval) Params() []Param { return []Param{windowParam()} }

func (slideInterval) MinLen() int { return 3 }

func (m slideInterval) Separate(s *hydrograph.Series, params Values) (*Result, error) {
	p, err := resolve(m, s, params)
	if err != nil {
		return nil, err
	}
	window := int(p["window"])
	half := (window - 1) / 2

	out := nanSlice(s.Len())
	for _, run := range s.FiniteRuns() {
		q := s.Values[run[0]:run[1]]
		b := out[run[0]:run[1]]
		n := len(q)
		for i := range q {
			lo, hi := i-half, i+half+1
			if lo < 0 {
				lo = 0
			}
			if hi > n {
				hi = n
			}
			b[i] = floats.Min(q[lo:hi])
		}
	}
	return &Result{Baseflow: s.WithValues(out)}, nil
}

// localMinimum is the HYSEP local-minimum method: steps that are the
// minimum of their centered window become turning points, and baseflow is
// interpolated linearly between them. Before the first and after the last
// turning point the Lyne-Hollick baseflow fills in.
type localMinimum struct{}

func (localMinimum) Name() string { return "local" }

func (localMinimum) Params() []Param { return []Param{windowParam()} }

func (localMinimum) MinLen() int { return 9 }

func (m localMinimum) Separate(s *hydrograph.Series, params Values) (*Result, error) {
	p, err := resolve(m, s, params)
	if err != nil {
		return nil, err
	}
	window := int(p["window"])
	half := (window - 1) / 2

	out := nanSlice(s.Len())
	exceeded := 0
	for _, run := range s.FiniteRuns() {
		q := s.Values[run[0]:run[1]]

		var turns []int
		for i := half; i < len(q)-half; i++ {
			if q[i] == floats.Min(q[i-half:i+half+1]) {
				turns = append(turns, i)
			}
		}
		if len(turns) < 3 {
			return nil, &hydrograph.InsufficientDataError{Op: m.Name(), N: len(turns), Min: 3}
		}

		b := out[run[0]:run[1]]
		exceeded += interpolateTurns(b, q, turns)
		fillEdgesWithLH(b, q, turns)
	}
	return &Result{Baseflow: s.WithValues(out), Exceeded: exceeded}, nil
}

// ukih is the UK Institute of Hydrology smoothed-minima method: minima of
// consecutive five-day blocks become turning-point candidates, a candidate
// is accepted when scaling it by the turning ratio leaves it below both
// neighbors, and baseflow is interpolated between accepted points.
type ukih struct{}

func (ukih) Name() string { return "ukih" }

func (ukih) Params() []Param {
	return []Param{
		{Name: "block", Min: 3, Max: 11, Default: 5, Integer: true},
		{Name: "ratio", Min: 0.5, Max: 0.99, Default: 0.9},
	}
}

func (ukih) MinLen() int { return 15 }

func (m ukih) Separate(s *hydrograph.Series, params Values) (*Result, error) {
	p, err := resolve(m, s, params)
	if err != nil {
		return nil, err
	}
	block := int(p["block"])
	ratio := p["ratio"]

	out := nanSlice(s.Len())
	exceeded := 0
	for _, run := range s.FiniteRuns() {
		q := s.Values[run[0]:run[1]]

		turns := ukihTurns(q, block, ratio)
		if len(turns) < 3 {
			return nil, &hydrograph.InsufficientDataError{Op: m.Name(), N: len(turns), Min: 3}
		}

		b := out[run[0]:run[1]]
		exceeded += interpolateTurns(b, q, turns)
		fillEdgesWithLH(b, q, turns)
	}
	return &Result{Baseflow: s.WithValues(out), Exceeded: exceeded}, nil
}

// ukihTurns selects block minima and keeps those passing the ratio test
// against the neighboring block minima.
func ukihTurns(q []float64, block int, ratio float64) []int {
	var minima []int
	for start := 0; start+block <= len(q); start += block {
		idx := start
		for i := start + 1; i < start+block; i++ {
			if q[i] < q[idx] {
				idx = i
			}
		}
		minima = append(minima, idx)
	}

	var turns []int
	for i := 0; i+2 < len(minima); i++ {
		mid := minima[i+1]
		if ratio*q[mid] < q[minima[i]] && ratio*q[mid] < q[minima[i+2]] {
			turns = append(turns, mid)
		}
	}
	return turns
}

// interpolateTurns fills b between the first and last turning points by
// linear interpolation of flow at the turning points, clipped to flow.
// Returns the number of clipped steps.
func interpolateTurns(b, q []float64, turns []int) (exceeded int) {
	seg := 0
	for i := turns[0]; i <= turns[len(turns)-1]; i++ {
		if seg+1 < len(turns) && i == turns[seg+1] {
			seg++
			b[i] = q[i]
			continue
		}
		lo, hi := turns[seg], turns[seg+1]
		v := q[lo] + (q[hi]-q[lo])/float64(hi-lo)*float64(i-lo)
		if v > q[i] {
			v = q[i]
			exceeded++
		}
		if v < 0 {
			v = 0
		}
		b[i] = v
	}
	return exceeded
}

// fillEdgesWithLH fills the stretches before the first and after the last
// turning point from the two-pass Lyne-Hollick baseflow, so interpolation
// methods still cover the whole series.
func fillEdgesWithLH(b, q []float64, turns []int) {
	first, last := turns[0], turns[len(turns)-1]
	if first == 0 && last == len(q)-1 {
		return
	}
	lhb, _ := lhTwoPass(q, 0.925, 1)
	for i := 0; i < first; i++ {
		b[i] = lhb[i]
	}
	for i := last + 1; i < len(q); i++ {
		b[i] = lhb[i]
	}
}

func init() {
	Register(fixedInterval{})
	Register(slideInterval{})
	Register(localMinimum{})
	Register(ukih{})
}
