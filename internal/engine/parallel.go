package engine

import (
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/qwave/internal/quantum"
)

// firstNonFinite scans [start, end) for the first amplitude with a NaN or
// Inf component.
func firstNonFinite(psi quantum.WaveState, start, end int) int {
	for j := start; j < end; j++ {
		re, im := real(psi[j]), imag(psi[j])
		if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
			return j
		}
	}
	return -1
}

// sweep runs the interior stencil over [1, n-2] and returns the probability
// sum over the whole new state. Grids below the chunk threshold run on the
// calling goroutine; larger grids split across workers, each producing a
// partial sum. Non-finite chunk sums are reported with the offending node
// so the caller can surface it.
func (e *Evolver) sweep(s int, cur, next quantum.WaveState) (float64, error) {
	interior := len(cur) - 2

	workers := e.workers
	if interior/e.minChunk < workers {
		workers = interior / e.minChunk
	}
	if workers <= 1 {
		sum := e.stencil(cur, next, 1, len(cur)-1)
		return sum, nil
	}

	chunk := (interior + workers - 1) / workers
	partials := make([]float64, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := 1 + w*chunk
		end := start + chunk
		if end > len(cur)-1 {
			end = len(cur) - 1
		}
		idx := w
		g.Go(func() error {
			sum := e.stencil(cur, next, start, end)
			if math.IsNaN(sum) || math.IsInf(sum, 0) {
				return &quantum.NumericalError{Step: s, Node: firstNonFinite(next, start, end), Err: quantum.ErrNotFinite}
			}
			partials[idx] = sum
			return nil
		})
	}
	// The group is the synchronization barrier: no partial sum is read, and
	// no node of the next step is computed, before every chunk finishes.
	if err := g.Wait(); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, p := range partials {
		sum += p
	}
	return sum, nil
}

// scale divides every amplitude by the norm, using the same chunking as the
// sweep so large grids renormalize in parallel.
func (e *Evolver) scale(psi quantum.WaveState, f float64) {
	n := len(psi)
	workers := e.workers
	if n/e.minChunk < workers {
		workers = n / e.minChunk
	}
	if workers <= 1 {
		psi.Scale(f)
		return
	}

	chunk := (n + workers - 1) / workers
	c := complex(f, 0)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			for j := s; j < e; j++ {
				psi[j] *= c
			}
		}(start, end)
	}
	wg.Wait()
}
