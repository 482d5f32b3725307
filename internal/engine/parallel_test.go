package engine

import (
	"context"
	"math/cmplx"
	"testing"

	"github.com/san-kum/qwave/internal/potential"
	"github.com/san-kum/qwave/internal/quantum"
)

func TestParallelSweepMatchesSerial(t *testing.T) {
	// Large enough that the sweep actually splits across workers.
	p := quantum.Params{
		Mass: 1, Hbar: 1,
		XMin: -20, XMax: 20, GridNumber: 10001,
		DeltaT: 1e-6, RealTime: 2e-5,
		K: 2.0, StdDev: 2.0, X0: -5.0,
	}

	run := func(workers int) quantum.WaveState {
		ev, _, psi0 := setup(t, p, potential.Barrier{Height: 10, Width: 2, Center: 0}, WithWorkers(workers))
		final, err := ev.Run(context.Background(), psi0)
		if err != nil {
			t.Fatalf("run with %d workers failed: %v", workers, err)
		}
		return final
	}

	serial := run(1)
	parallel := run(4)

	for j := range serial {
		if cmplx.Abs(serial[j]-parallel[j]) > 1e-12 {
			t.Fatalf("node %d: serial %v vs parallel %v", j, serial[j], parallel[j])
		}
	}
}
