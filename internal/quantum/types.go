package quantum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Params is the immutable numeric configuration of a run. Construct it,
// call Validate, and never mutate it afterwards; scenario variants are new
// values, not in-place edits.
type Params struct {
	Mass       float64 // particle mass
	Hbar       float64 // reduced Planck constant
	XMin       float64 // lower spatial bound
	XMax       float64 // upper spatial bound
	GridNumber int     // number of spatial nodes
	DeltaT     float64 // fixed time step
	RealTime   float64 // total simulated duration
	K          float64 // initial packet wavenumber
	StdDev     float64 // initial packet spatial spread
	X0         float64 // initial packet center
}

// Validate checks the parameter set before any grid or state is built.
// A failing set wraps ErrInvalidParams; nothing is partially initialized.
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"mass", p.Mass}, {"hbar", p.Hbar},
		{"bounds.min", p.XMin}, {"bounds.max", p.XMax},
		{"delta_t", p.DeltaT}, {"real_time", p.RealTime},
		{"k", p.K}, {"std_dev", p.StdDev}, {"x_0", p.X0},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, f.name)
		}
	}
	if p.Mass <= 0 {
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidParams, p.Mass)
	}
	if p.Hbar <= 0 {
		return fmt.Errorf("%w: hbar must be positive, got %g", ErrInvalidParams, p.Hbar)
	}
	if p.XMin >= p.XMax {
		return fmt.Errorf("%w: bounds must satisfy min < max, got [%g, %g]", ErrInvalidParams, p.XMin, p.XMax)
	}
	if p.GridNumber < 3 {
		return fmt.Errorf("%w: grid_number must be >= 3, got %d", ErrInvalidParams, p.GridNumber)
	}
	if p.DeltaT <= 0 {
		return fmt.Errorf("%w: delta_t must be positive, got %g", ErrInvalidParams, p.DeltaT)
	}
	if p.RealTime <= 0 {
		return fmt.Errorf("%w: real_time must be positive, got %g", ErrInvalidParams, p.RealTime)
	}
	if p.StdDev <= 0 {
		return fmt.Errorf("%w: std_dev must be positive, got %g", ErrInvalidParams, p.StdDev)
	}
	return nil
}

// Dx is the uniform grid spacing (x_max - x_min) / (N - 1).
func (p Params) Dx() float64 {
	return (p.XMax - p.XMin) / float64(p.GridNumber-1)
}

// States is the total number of wavefunction states in a run, the initial
// state included: floor(real_time / delta_t). A duration shorter than one
// step yields a single state and zero transitions.
func (p Params) States() int {
	s := int(math.Floor(p.RealTime / p.DeltaT))
	if s < 1 {
		return 1
	}
	return s
}

// Grid is the ordered, uniformly spaced set of spatial nodes. Immutable
// once built.
type Grid struct {
	Nodes []float64
	Dx    float64
}

// NewGrid builds the spatial grid for a validated parameter set.
func NewGrid(p Params) (Grid, error) {
	if err := p.Validate(); err != nil {
		return Grid{}, err
	}
	nodes := make([]float64, p.GridNumber)
	floats.Span(nodes, p.XMin, p.XMax)
	return Grid{Nodes: nodes, Dx: p.Dx()}, nil
}

// WaveState is the complex wavefunction sampled on the grid, one amplitude
// per node.
type WaveState []complex128

func (s WaveState) Clone() WaveState {
	c := make(WaveState, len(s))
	copy(c, s)
	return c
}

// ProbabilityIntegral is the discrete probability integral sum(|psi|^2)*dx.
func (s WaveState) ProbabilityIntegral(dx float64) float64 {
	sum := 0.0
	for _, a := range s {
		re, im := real(a), imag(a)
		sum += re*re + im*im
	}
	return sum * dx
}

// Density returns |psi_j|^2 for every node.
func (s WaveState) Density() []float64 {
	d := make([]float64, len(s))
	for j, a := range s {
		re, im := real(a), imag(a)
		d[j] = re*re + im*im
	}
	return d
}

// Scale multiplies every amplitude by a real factor, in place.
func (s WaveState) Scale(f float64) {
	c := complex(f, 0)
	for j := range s {
		s[j] *= c
	}
}

// FirstNonFinite returns the index of the first amplitude with a NaN or
// Inf component, or -1 when the state is entirely finite.
func (s WaveState) FirstNonFinite() int {
	for j, a := range s {
		if !isFinite(real(a)) || !isFinite(imag(a)) {
			return j
		}
	}
	return -1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
