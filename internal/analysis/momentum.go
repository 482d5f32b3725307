// Package analysis derives momentum-space quantities from a position-space
// wavefunction.
package analysis

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/qwave/internal/quantum"
)

// MomentumDensity transforms psi to momentum space and returns the
// wavenumbers and the normalized density |psi~(k)|^2, ordered from the most
// negative to the most positive k (centered spectrum).
func MomentumDensity(psi quantum.WaveState, dx float64) (ks, density []float64) {
	n := len(psi)
	if n == 0 {
		return nil, nil
	}

	spectrum := fft.FFT([]complex128(psi))

	ks = make([]float64, n)
	density = make([]float64, n)

	// FFT bins come out in [0..n/2-1, -n/2..-1] frequency order; unshift
	// into ascending k. Bin m maps to k = 2*pi*m / (n*dx).
	half := (n + 1) / 2
	scale := 2 * math.Pi / (float64(n) * dx)
	total := 0.0
	for m := 0; m < n; m++ {
		freq := m
		if m >= half {
			freq = m - n
		}
		pos := freq + n - half // index in the centered output
		a := spectrum[m]
		ks[pos] = float64(freq) * scale
		density[pos] = real(a)*real(a) + imag(a)*imag(a)
		total += density[pos]
	}

	if total > 0 {
		dk := scale
		inv := 1 / (total * dk)
		for i := range density {
			density[i] *= inv
		}
	}
	return ks, density
}

// DominantWavenumber returns the k with the largest momentum density.
func DominantWavenumber(psi quantum.WaveState, dx float64) float64 {
	ks, density := MomentumDensity(psi, dx)
	if len(ks) == 0 {
		return 0
	}
	best := 0
	for i := range density {
		if density[i] > density[best] {
			best = i
		}
	}
	return ks[best]
}
