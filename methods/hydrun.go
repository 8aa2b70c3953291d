package methods

import (
	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
)

// hydRun is an event-oriented multi-pass filter: the recursion sweeps the
// series in alternating directions, smoothing the hydrograph in place, and
// the result also reports the rising/falling limb boundaries detected on
// the raw flow.
type hydRun struct{}

func (hydRun) Name() string { return "hydrun" }

func (hydRun) Params() []Param {
	return []Param{
		{Name: "k", Min: 0.5, Max: 0.995, Default: 0.9, Tunable: true},
		{Name: "passes", Min: 1, Max: 8, Default: 4, Integer: true},
		initialParam(),
	}
}

func (hydRun) MinLen() int { return 2 }

func (m hydRun) Separate(s *hydrograph.Series, params Values) (*Result, error) {
	p, err := resolve(m, s, params)
	if err != nil {
		return nil, err
	}
	k := p["k"]
	passes := int(p["passes"])

	out := nanSlice(s.Len())
	exceeded := 0
	var limbs []Limb
	for _, run := range s.FiniteRuns() {
		q := s.Values[run[0]:run[1]]
		n := len(q)
		b := out[run[0]:run[1]]
		b[0] = p["initial"] * q[0]

		for pass := 1; pass <= passes; pass++ {
			start, end, step := 1, n, 1
			if pass%2 == 0 {
				start, end, step = n-2, -1, -1
			}
			for i := start; i != end; i += step {
				v := k*b[i-step] + (1-k)*(q[i]+q[i-step])/2
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

		limbs = append(limbs, detectLimbs(q, run[0])...)
	}
	return &Result{Baseflow: s.WithValues(out), Exceeded: exceeded, Limbs: limbs}, nil
}

// detectLimbs splits a gap-free flow run into maximal rising and falling
// stretches. offset shifts run-local indices back into series coordinates.
func detectLimbs(q []float64, offset int) []Limb {
	if len(q) < 2 {
		return nil
	}
	var limbs []Limb
	start := 0
	rising := q[1] > q[0]
	for i := 1; i < len(q); i++ {
		r := q[i] > q[i-1]
		if r == rising {
			continue
		}
		limbs = append(limbs, Limb{Start: offset + start, End: offset + i - 1, Rising: rising})
		start = i - 1
		rising = r
	}
	limbs = append(limbs, Limb{Start: offset + start, End: offset + len(q) - 1, Rising: rising})
	return limbs
}

func init() {
	Register(hydRun{})
}
