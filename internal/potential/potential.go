// Package potential defines the external potential V(x) as a pure mapping
// and samples it once onto the spatial grid.
package potential

import (
	"math"
	"sort"

	"github.com/san-kum/qwave/internal/quantum"
)

// Potential maps a spatial coordinate to a real energy value. Implementations
// must be pure: no state, no side effects, node evaluations independent.
type Potential interface {
	Eval(x float64) float64
}

// Zero is the free-particle potential, V(x) = 0 everywhere.
type Zero struct{}

func (Zero) Eval(float64) float64 { return 0 }

// Barrier is a rectangular potential barrier of the given height, centered
// at Center with total width Width.
type Barrier struct {
	Height float64
	Width  float64
	Center float64
}

func (b Barrier) Eval(x float64) float64 {
	if math.Abs(x-b.Center) <= b.Width/2 {
		return b.Height
	}
	return 0
}

// Harmonic is the oscillator potential m*omega^2*(x-center)^2 / 2.
type Harmonic struct {
	Mass   float64
	Omega  float64
	Center float64
}

func (h Harmonic) Eval(x float64) float64 {
	d := x - h.Center
	return 0.5 * h.Mass * h.Omega * h.Omega * d * d
}

// Func adapts a caller-supplied closure to the Potential interface.
type Func func(x float64) float64

func (f Func) Eval(x float64) float64 { return f(x) }

// Sampled is a potential given as precomputed values at known coordinates.
// Eval returns the value at the nearest sampled coordinate; Xs must be
// sorted ascending.
type Sampled struct {
	Xs     []float64
	Values []float64
}

func (s Sampled) Eval(x float64) float64 {
	n := len(s.Xs)
	if n == 0 {
		return 0
	}
	i := sort.SearchFloat64s(s.Xs, x)
	if i == 0 {
		return s.Values[0]
	}
	if i == n {
		return s.Values[n-1]
	}
	if x-s.Xs[i-1] <= s.Xs[i]-x {
		return s.Values[i-1]
	}
	return s.Values[i]
}

// Sample evaluates p at every grid node. It fails with a node-indexed
// NumericalError on the first non-finite sample, since a single bad value
// corrupts every subsequent step.
func Sample(g quantum.Grid, p Potential) ([]float64, error) {
	v := make([]float64, len(g.Nodes))
	for j, x := range g.Nodes {
		val := p.Eval(x)
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, &quantum.NumericalError{Step: 0, Node: j, Err: quantum.ErrNotFinite}
		}
		v[j] = val
	}
	return v, nil
}
