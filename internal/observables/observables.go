// Package observables computes scalar diagnostics from retained states.
package observables

import (
	"math"

	"github.com/san-kum/qwave/internal/quantum"
)

// Observable accumulates a scalar over the states it observes.
type Observable interface {
	Name() string
	Observe(t float64, psi quantum.WaveState)
	Value() float64
	Reset()
}

// NormDrift tracks the maximum deviation of the discrete probability
// integral from 1 across every observed state.
type NormDrift struct {
	dx       float64
	maxDrift float64
}

func NewNormDrift(dx float64) *NormDrift {
	return &NormDrift{dx: dx}
}

func (n *NormDrift) Name() string { return "norm_drift" }

func (n *NormDrift) Observe(t float64, psi quantum.WaveState) {
	drift := math.Abs(psi.ProbabilityIntegral(n.dx) - 1)
	if drift > n.maxDrift {
		n.maxDrift = drift
	}
}

func (n *NormDrift) Value() float64 { return n.maxDrift }

func (n *NormDrift) Reset() { n.maxDrift = 0 }

// Position tracks the expectation value <x> of the last observed state.
type Position struct {
	grid quantum.Grid
	last float64
}

func NewPosition(g quantum.Grid) *Position {
	return &Position{grid: g}
}

func (p *Position) Name() string { return "position" }

func (p *Position) Observe(t float64, psi quantum.WaveState) {
	mean := 0.0
	for j, x := range p.grid.Nodes {
		a := psi[j]
		mean += x * (real(a)*real(a) + imag(a)*imag(a)) * p.grid.Dx
	}
	p.last = mean
}

func (p *Position) Value() float64 { return p.last }

func (p *Position) Reset() { p.last = 0 }

// SideProbability tracks the probability on one side of a divider in the
// last observed state. With the divider on a barrier it reads as the
// reflection (left) or transmission (right) coefficient.
type SideProbability struct {
	grid    quantum.Grid
	divider float64
	right   bool
	last    float64
}

func NewReflection(g quantum.Grid, divider float64) *SideProbability {
	return &SideProbability{grid: g, divider: divider}
}

func NewTransmission(g quantum.Grid, divider float64) *SideProbability {
	return &SideProbability{grid: g, divider: divider, right: true}
}

func (s *SideProbability) Name() string {
	if s.right {
		return "transmission"
	}
	return "reflection"
}

func (s *SideProbability) Observe(t float64, psi quantum.WaveState) {
	sum := 0.0
	for j, x := range s.grid.Nodes {
		if (x < s.divider) == s.right {
			continue
		}
		a := psi[j]
		sum += (real(a)*real(a) + imag(a)*imag(a)) * s.grid.Dx
	}
	s.last = sum
}

func (s *SideProbability) Value() float64 { return s.last }

func (s *SideProbability) Reset() { s.last = 0 }

// Chain composes observables into a single observation pass.
func Chain(obs ...Observable) func(t float64, psi quantum.WaveState) {
	return func(t float64, psi quantum.WaveState) {
		for _, o := range obs {
			o.Observe(t, psi)
		}
	}
}
