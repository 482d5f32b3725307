package engine

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/san-kum/qwave/internal/potential"
	"github.com/san-kum/qwave/internal/quantum"
	"github.com/san-kum/qwave/internal/wavepacket"
)

// TestInvariants_PropertyBased checks the two per-step invariants over
// randomized parameter sets: the discrete probability integral stays 1 and
// the boundary nodes stay exactly zero, for free and barrier potentials
// alike.
func TestInvariants_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("norm and boundaries hold for every step", prop.ForAll(
		func(n int, k, sigma, height float64) bool {
			p := quantum.Params{
				Mass: 1, Hbar: 1,
				XMin: -15, XMax: 15, GridNumber: n,
			}
			// Keep the explicit scheme well inside its stability regime.
			dx := p.Dx()
			p.DeltaT = 0.02 * dx * dx
			p.RealTime = 40 * p.DeltaT
			p.K = k
			p.StdDev = sigma
			p.X0 = -5

			grid, err := quantum.NewGrid(p)
			if err != nil {
				return false
			}
			v, err := potential.Sample(grid, potential.Barrier{Height: height, Width: 2, Center: 3})
			if err != nil {
				return false
			}
			ev, err := New(p, grid, v)
			if err != nil {
				return false
			}
			psi0, err := wavepacket.Gaussian(grid, p.K, p.StdDev, p.X0)
			if err != nil {
				return false
			}

			ok := true
			_, err = ev.RunWithCallback(context.Background(), psi0, func(step int, tm float64, psi quantum.WaveState) bool {
				if math.Abs(psi.ProbabilityIntegral(grid.Dx)-1) > 1e-9 {
					ok = false
					return false
				}
				if step > 0 && (psi[0] != 0 || psi[len(psi)-1] != 0) {
					ok = false
					return false
				}
				return true
			})
			return ok && err == nil
		},
		gen.IntRange(51, 301),
		gen.Float64Range(-4, 4),
		gen.Float64Range(0.5, 3),
		gen.Float64Range(0, 30),
	))

	properties.TestingRun(t)
}
