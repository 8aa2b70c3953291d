package methods

import (
	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
)

// recStep computes b[t] from b[t-1], Q[t-1], and Q[t].
type recStep func(bPrev, qPrev, qCur float64, p Values) float64

// recursiveFilter is a one-pass forward recursive digital filter. The
// recursion formula varies per method; initialization, clipping to
// streamflow, flooring at zero, and NaN-gap handling are shared.
type recursiveFilter struct {
	name   string
	params []Param
	step   recStep
}

func (f *recursiveFilter) Name() string { return f.name }

func (f *recursiveFilter) Params() []Param {
	out := make([]Param, len(f.params))
	copy(out, f.params)
	return out
}

func (f *recursiveFilter) MinLen() int { return 2 }

func (f *recursiveFilter) Separate(s *hydrograph.Series, params Values) (*Result, error) {
	p, err := resolve(f, s, params)
	if err != nil {
		return nil, err
	}

	out := nanSlice(s.Len())
	exceeded := 0
	for _, run := range s.FiniteRuns() {
		q := s.Values[run[0]:run[1]]
		b := out[run[0]:run[1]]
		b[0] = p["initial"] * q[0]
		for i := 1; i < len(q); i++ {
			v := f.step(b[i-1], q[i-1], q[i], p)
			if v > q[i] {
				v = q[i]
				exceeded++
			}
			if v < 0 {
				v = 0
			}
			b[i] = v
		}
	}
	return &Result{Baseflow: s.WithValues(out), Exceeded: exceeded}, nil
}

func init() {
	Register(&recursiveFilter{
		name:   "chapman",
		params: []Param{recessionParam(), initialParam()},
		step: func(bPrev, qPrev, qCur float64, p Values) float64 {
			a := p["recession"]
			return (3*a-1)/(3-a)*bPrev + (1-a)/(3-a)*(qCur+qPrev)
		},
	})

	Register(&recursiveFilter{
		name:   "cm",
		params: []Param{recessionParam(), initialParam()},
		step: func(bPrev, qPrev, qCur float64, p Values) float64 {
			a := p["recession"]
			return a/(2-a)*bPrev + (1-a)/(2-a)*qCur
		},
	})

	Register(&recursiveFilter{
		name: "boughton",
		params: []Param{
			recessionParam(),
			{Name: "c", Min: 0.0001, Max: 0.1, Default: 0.01, Tunable: true},
			initialParam(),
		},
		step: func(bPrev, qPrev, qCur float64, p Values) float64 {
			a, c := p["recession"], p["c"]
			return a/(1+c)*bPrev + c/(1+c)*qCur
		},
	})

	Register(&recursiveFilter{
		name: "furey",
		params: []Param{
			recessionParam(),
			{Name: "coeff", Min: 0.01, Max: 10, Default: 1, Tunable: true},
			initialParam(),
		},
		step: func(bPrev, qPrev, qCur float64, p Values) float64 {
			a, g := p["recession"], p["coeff"]
			return (a-g*(1-a))*bPrev + g*(1-a)*qPrev
		},
	})

	Register(&recursiveFilter{
		name: "eckhardt",
		params: []Param{
			recessionParam(),
			{Name: "bfimax", Min: 0.001, Max: 0.999, Default: 0.8, Tunable: true},
			initialParam(),
		},
		step: func(bPrev, qPrev, qCur float64, p Values) float64 {
			a, bfi := p["recession"], p["bfimax"]
			return ((1-bfi)*a*bPrev + (1-a)*bfi*qCur) / (1 - a*bfi)
		},
	})

	Register(&recursiveFilter{
		name: "ewma",
		params: []Param{
			{Name: "smoothing", Min: 0.0001, Max: 0.5, Default: 0.015, Tunable: true},
			initialParam(),
		},
		step: func(bPrev, qPrev, qCur float64, p Values) float64 {
			e := p["smoothing"]
			return (1-e)*bPrev + e*qCur
		},
	})

	Register(&recursiveFilter{
		name: "willems",
		params: []Param{
			recessionParam(),
			{Name: "w", Min: 0.001, Max: 0.999, Default: 0.5, Tunable: true},
			initialParam(),
		},
		step: func(bPrev, qPrev, qCur float64, p Values) float64 {
			a, w := p["recession"], p["w"]
			v := (1 - w) * (1 - a) / (2 * w)
			return (a-v)/(1+v)*bPrev + v/(1+v)*(qPrev+qCur)
		},
	})
}
