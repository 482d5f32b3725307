// Package wavepacket builds the initial wavefunction: a Gaussian-enveloped
// plane wave normalized against the discrete probability integral.
package wavepacket

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/qwave/internal/quantum"
)

// Gaussian computes exp(i*k*x) * exp(-0.5*((x-x0)/sigma)^2) at every grid
// node and normalizes the result so that sum(|psi|^2)*dx = 1.
//
// A sigma far below the grid spacing underflows the envelope at every node;
// the zero integral that results is reported as ErrDegenerateNorm rather
// than propagated as a division by zero.
func Gaussian(g quantum.Grid, k, sigma, x0 float64) (quantum.WaveState, error) {
	psi := make(quantum.WaveState, len(g.Nodes))

	var sumSq float64
	for j, x := range g.Nodes {
		d := (x - x0) / sigma
		env := math.Exp(-0.5 * d * d)
		psi[j] = cmplx.Exp(complex(0, k*x)) * complex(env, 0)
		sumSq += env * env
	}

	integral := sumSq * g.Dx
	if integral == 0 {
		return nil, &quantum.NumericalError{Step: 0, Node: -1, Err: quantum.ErrDegenerateNorm}
	}
	if math.IsNaN(integral) || math.IsInf(integral, 0) {
		return nil, &quantum.NumericalError{Step: 0, Node: -1, Err: quantum.ErrNotFinite}
	}

	psi.Scale(1 / math.Sqrt(integral))
	return psi, nil
}
