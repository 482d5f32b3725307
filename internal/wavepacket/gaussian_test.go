package wavepacket

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/qwave/internal/quantum"
)

func packetGrid(t *testing.T, n int) quantum.Grid {
	t.Helper()
	g, err := quantum.NewGrid(quantum.Params{
		Mass: 1, Hbar: 1,
		XMin: -20, XMax: 20, GridNumber: n,
		DeltaT: 0.001, RealTime: 1,
		StdDev: 1,
	})
	if err != nil {
		t.Fatalf("grid setup failed: %v", err)
	}
	return g
}

func TestGaussianNormalized(t *testing.T) {
	g := NewWithT(t)
	grid := packetGrid(t, 401)

	psi, err := Gaussian(grid, 5.0, 1.5, -4.0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(psi).To(HaveLen(401))
	g.Expect(psi.ProbabilityIntegral(grid.Dx)).To(BeNumerically("~", 1.0, 1e-12))
}

func TestGaussianEnvelopeShape(t *testing.T) {
	g := NewWithT(t)
	grid := packetGrid(t, 401)

	x0 := -4.0
	psi, err := Gaussian(grid, 0, 2.0, x0)
	g.Expect(err).NotTo(HaveOccurred())

	// With k=0 the state is real and peaks at the node closest to x0.
	peak := 0
	for j := range psi {
		if cmplx.Abs(psi[j]) > cmplx.Abs(psi[peak]) {
			peak = j
		}
	}
	g.Expect(grid.Nodes[peak]).To(BeNumerically("~", x0, grid.Dx))

	// Symmetric about the center within floating tolerance.
	left := cmplx.Abs(psi[peak-10])
	right := cmplx.Abs(psi[peak+10])
	g.Expect(left).To(BeNumerically("~", right, 1e-9))
}

func TestGaussianPlaneWavePhase(t *testing.T) {
	g := NewWithT(t)
	grid := packetGrid(t, 401)

	k := 3.0
	psi, err := Gaussian(grid, k, 2.0, 0)
	g.Expect(err).NotTo(HaveOccurred())

	// The phase between neighboring nodes near the center advances by k*dx.
	mid := len(psi) / 2
	dPhase := cmplx.Phase(psi[mid+1]) - cmplx.Phase(psi[mid])
	for dPhase < -math.Pi {
		dPhase += 2 * math.Pi
	}
	for dPhase > math.Pi {
		dPhase -= 2 * math.Pi
	}
	g.Expect(dPhase).To(BeNumerically("~", k*grid.Dx, 1e-9))
}

func TestGaussianDegeneratePacket(t *testing.T) {
	grid := packetGrid(t, 401)

	// Sigma far below the grid spacing underflows the envelope everywhere
	// when the packet center falls between nodes.
	_, err := Gaussian(grid, 0, 1e-300, grid.Nodes[200]+grid.Dx/2)
	if err == nil {
		t.Fatal("expected error for degenerate packet")
	}
	if !errors.Is(err, quantum.ErrDegenerateNorm) {
		t.Errorf("error does not wrap ErrDegenerateNorm: %v", err)
	}
}
