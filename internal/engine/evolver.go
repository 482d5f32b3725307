// Package engine advances the wavefunction through the explicit
// finite-difference scheme: a second-difference kinetic stencil plus a
// potential term on every interior node, Dirichlet zeros at the edges, and
// a global renormalization after every step.
package engine

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/qwave/internal/quantum"
)

// StepFunc observes each retained state. step counts from 0 (the initial
// state); psi is a read-only view that is reused by the engine, so
// implementations that retain it must clone. Returning false stops the run
// cleanly after the current state.
type StepFunc func(step int, t float64, psi quantum.WaveState) bool

// Evolver owns the stepping loop for one parameter set and one sampled
// potential. The potential and parameters are read-only for the life of the
// run; the two state buffers are exclusively owned by the evolver while a
// step is in flight.
type Evolver struct {
	params    quantum.Params
	grid      quantum.Grid
	potential []float64

	kinetic complex128 // i * dt / (2m * dx^2)
	potFact complex128 // i * dt / hbar

	workers  int
	minChunk int
}

// Option configures an Evolver.
type Option func(*Evolver)

// WithWorkers sets the number of goroutines used for the interior sweep.
// Values below 1 fall back to runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(e *Evolver) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// New validates the inputs and builds an evolver. The sampled potential
// must align 1:1 with the grid nodes.
func New(p quantum.Params, g quantum.Grid, pot []float64, opts ...Option) (*Evolver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(g.Nodes) != p.GridNumber {
		return nil, fmt.Errorf("%w: grid has %d nodes, parameter set expects %d",
			quantum.ErrInvalidParams, len(g.Nodes), p.GridNumber)
	}
	if len(pot) != p.GridNumber {
		return nil, fmt.Errorf("%w: potential has %d samples, parameter set expects %d",
			quantum.ErrInvalidParams, len(pot), p.GridNumber)
	}

	dx := g.Dx
	e := &Evolver{
		params:    p,
		grid:      g,
		potential: pot,
		kinetic:   complex(0, p.DeltaT/(2*p.Mass*dx*dx)),
		potFact:   complex(0, p.DeltaT/p.Hbar),
		workers:   runtime.NumCPU(),
		minChunk:  2048,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run advances the initial state through all transitions and returns the
// final state. The engine keeps only two buffers alive regardless of the
// step count.
func (e *Evolver) Run(ctx context.Context, psi0 quantum.WaveState) (quantum.WaveState, error) {
	return e.RunWithCallback(ctx, psi0, nil)
}

// RunWithCallback is the lazy producer form of Run: fn observes every state
// in order, the initial one included, and may stop the run early. The
// returned state is the last one produced. The sequence is finite and
// non-restartable; rerunning requires a fresh initial state.
func (e *Evolver) RunWithCallback(ctx context.Context, psi0 quantum.WaveState, fn StepFunc) (quantum.WaveState, error) {
	if len(psi0) != e.params.GridNumber {
		return nil, fmt.Errorf("%w: state has %d nodes, parameter set expects %d",
			quantum.ErrInvalidParams, len(psi0), e.params.GridNumber)
	}

	states := e.params.States()
	cur := psi0.Clone()
	next := make(quantum.WaveState, len(cur))

	if fn != nil && !fn(0, 0, cur) {
		return cur, nil
	}

	for s := 1; s < states; s++ {
		select {
		case <-ctx.Done():
			return cur, ctx.Err()
		default:
		}

		if err := e.step(s, cur, next); err != nil {
			return nil, err
		}
		cur, next = next, cur

		if fn != nil && !fn(s, float64(s)*e.params.DeltaT, cur) {
			return cur, nil
		}
	}

	return cur, nil
}

// step computes the state at index s into next from cur, then renormalizes
// next in place. cur and next never alias: every interior node reads only
// the previous step's neighbors.
func (e *Evolver) step(s int, cur, next quantum.WaveState) error {
	n := len(cur)

	// Dirichlet condition: forced every step so floating drift cannot
	// accumulate at the edges.
	next[0] = 0
	next[n-1] = 0

	sumSq, err := e.sweep(s, cur, next)
	if err != nil {
		return err
	}

	integral := sumSq * e.grid.Dx
	if math.IsNaN(integral) || math.IsInf(integral, 0) {
		return &quantum.NumericalError{Step: s, Node: next.FirstNonFinite(), Err: quantum.ErrNotFinite}
	}
	if integral == 0 {
		return &quantum.NumericalError{Step: s, Node: -1, Err: quantum.ErrDegenerateNorm}
	}

	e.scale(next, 1/math.Sqrt(integral))
	return nil
}

// stencil applies the explicit update to interior nodes [start, end) and
// returns the sum of |psi'|^2 over that range plus any boundary nodes the
// range touches.
func (e *Evolver) stencil(cur, next quantum.WaveState, start, end int) float64 {
	sum := 0.0
	for j := start; j < end; j++ {
		d2 := cur[j+1] - 2*cur[j] + cur[j-1]
		v := cur[j] + e.kinetic*d2 - e.potFact*complex(e.potential[j], 0)*cur[j]
		next[j] = v
		re, im := real(v), imag(v)
		sum += re*re + im*im
	}
	return sum
}
