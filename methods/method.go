package methods

import (
	"math"
	"sort"
	"sync"

	"github.com/BYU-Hydroinformatics/baseflow/hydrograph"
)

// Values maps parameter names to numeric values.
type Values map[string]float64

// Clone returns a copy of the parameter values.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Param declares one parameter of a separation method: its bounds, its
// default, and whether the calibrator may search over it.
type Param struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
	Integer bool // value is rounded to the nearest integer
	Tunable bool // free parameter for calibration
}

// Limb marks a [Start, End] index range of a hydrograph limb.
type Limb struct {
	Start  int
	End    int
	Rising bool
}

// Result is the output of one separation run.
type Result struct {
	// Baseflow has the same index and length as the input series; NaN at
	// positions where the input was NaN.
	Baseflow *hydrograph.Series
	// Exceeded counts how often the raw recursion exceeded streamflow
	// before clipping. Used as a penalty term during calibration.
	Exceeded int
	// Limbs holds the rising/falling limb boundaries, for methods that
	// derive them (nil otherwise).
	Limbs []Limb
}

// Method is the common contract for all separation algorithms. A Method is
// a pure function of (series, params); implementations hold no mutable
// state and are safe for concurrent use.
type Method interface {
	// Name returns the registry identifier of the method.
	Name() string
	// Params returns the method's parameter schema.
	Params() []Param
	// MinLen returns the minimum series length the method accepts.
	MinLen() int
	// Separate computes the baseflow component of the series.
	Separate(s *hydrograph.Series, params Values) (*Result, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Method)
)

// Register adds a method to the registry, replacing any method with the
// same name.
func Register(m Method) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[m.Name()] = m
}

// Get looks up a registered method by name.
func Get(name string) (Method, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[name]
	return m, ok
}

// Names returns the names of all registered methods, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HysepInterval derives the HYSEP separation interval (in days) from the
// drainage area in square kilometers. The duration of surface runoff is
// N = A^0.2 days with A in square miles; the interval is the odd integer
// nearest 2N, clamped to [3, 11]. Unknown area (<= 0) uses N = 5.
func HysepInterval(area float64) int {
	n := 5.0
	if area > 0 {
		n = math.Pow(0.3861022*area, 0.2)
	}
	inN := math.Ceil(2 * n)
	if math.Mod(inN, 2) == 0 {
		inN--
	}
	return int(math.Min(math.Max(inN, 3), 11))
}

// resolve validates the series length, merges supplied parameters with the
// schema defaults, and bounds-checks every value.
func resolve(m Method, s *hydrograph.Series, params Values) (Values, error) {
	if s == nil || s.Len() < m.MinLen() {
		n := 0
		if s != nil {
			n = s.Len()
		}
		return nil, &hydrograph.InsufficientDataError{Op: m.Name(), N: n, Min: m.MinLen()}
	}

	schema := m.Params()
	out := make(Values, len(schema))
	declared := make(map[string]bool, len(schema))
	for _, p := range schema {
		declared[p.Name] = true
		v, ok := params[p.Name]
		if !ok {
			v = p.Default
		}
		if v < p.Min || v > p.Max || math.IsNaN(v) {
			return nil, &hydrograph.InvalidParameterError{
				Method: m.Name(), Param: p.Name, Value: v, Min: p.Min, Max: p.Max,
			}
		}
		if p.Integer {
			v = math.Round(v)
		}
		out[p.Name] = v
	}
	for name, v := range params {
		if !declared[name] {
			return nil, &hydrograph.InvalidParameterError{
				Method: m.Name(), Param: name, Value: v,
			}
		}
	}
	return out, nil
}

// nanSlice returns a slice of n NaN values.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// initialParam is the day-one initialization fraction shared by all
// recursive filters: b[0] = initial * Q[0]. The first-sample transient is
// part of the output; trimming warm-up values is left to the caller.
func initialParam() Param {
	return Param{Name: "initial", Min: 0.01, Max: 1, Default: 1}
}

// recessionParam is the recession coefficient shared by filter methods
// that depend on it. It is supplied by the recession estimator rather
// than searched, so it is not tunable by default.
func recessionParam() Param {
	return Param{Name: "recession", Min: 0.001, Max: 0.9999, Default: 0.925}
}
