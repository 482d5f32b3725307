package storage

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/san-kum/qwave/internal/engine"
	"github.com/san-kum/qwave/internal/potential"
	"github.com/san-kum/qwave/internal/quantum"
	"github.com/san-kum/qwave/internal/recorder"
	"github.com/san-kum/qwave/internal/wavepacket"
)

func sampleRun(t *testing.T) (quantum.Params, quantum.Grid, *recorder.Recorder) {
	t.Helper()
	p := quantum.Params{
		Mass: 1, Hbar: 1,
		XMin: -10, XMax: 10, GridNumber: 51,
		DeltaT: 1e-4, RealTime: 1e-3,
		K: 2, StdDev: 1.5, X0: 0,
	}
	grid, err := quantum.NewGrid(p)
	if err != nil {
		t.Fatalf("grid setup failed: %v", err)
	}
	v, err := potential.Sample(grid, potential.Zero{})
	if err != nil {
		t.Fatalf("potential sampling failed: %v", err)
	}
	ev, err := engine.New(p, grid, v)
	if err != nil {
		t.Fatalf("evolver setup failed: %v", err)
	}
	psi0, err := wavepacket.Gaussian(grid, p.K, p.StdDev, p.X0)
	if err != nil {
		t.Fatalf("packet setup failed: %v", err)
	}
	rec := recorder.NewFull()
	if _, err := ev.RunWithCallback(context.Background(), psi0, rec.Callback()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return p, grid, rec
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p, grid, rec := sampleRun(t)

	runID, err := st.Save(p, "zero", rec, grid, map[string]float64{"norm_drift": 1e-12})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.GridNumber != 51 || meta.Potential != "zero" {
		t.Errorf("metadata did not round trip: %+v", meta)
	}
	if meta.Observables["norm_drift"] != 1e-12 {
		t.Errorf("observables did not round trip: %v", meta.Observables)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("list returned %v", runs)
	}
}

func TestStoreFinalStateRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p, grid, rec := sampleRun(t)
	runID, err := st.Save(p, "zero", rec, grid, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	xs, psi, err := st.LoadFinalState(runID)
	if err != nil {
		t.Fatalf("load final state failed: %v", err)
	}
	if len(xs) != p.GridNumber || len(psi) != p.GridNumber {
		t.Fatalf("loaded %d nodes, want %d", len(psi), p.GridNumber)
	}

	want := rec.Final()
	for j := range want {
		if cmplx.Abs(psi[j]-want[j]) > 1e-12 {
			t.Fatalf("node %d: %v, want %v", j, psi[j], want[j])
		}
	}
}

func TestStoreDensityRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p, grid, rec := sampleRun(t)
	runID, err := st.Save(p, "zero", rec, grid, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	times, rows, err := st.LoadDensity(runID)
	if err != nil {
		t.Fatalf("load density failed: %v", err)
	}
	if len(rows) != p.States() {
		t.Fatalf("loaded %d rows, want %d", len(rows), p.States())
	}
	if times[0] != 0 {
		t.Errorf("first time = %g, want 0", times[0])
	}

	// Each density row should still integrate to 1.
	for i, row := range rows {
		sum := 0.0
		for _, d := range row {
			sum += d * grid.Dx
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d integrates to %g", i, sum)
		}
	}
}

func TestListEmptyDir(t *testing.T) {
	st := New(t.TempDir() + "/never-created")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
