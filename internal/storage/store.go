// Package storage persists run output for later plotting and export: one
// directory per run holding metadata, the retained density trajectory, and
// the final complex state.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/qwave/internal/quantum"
	"github.com/san-kum/qwave/internal/recorder"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Potential   string             `json:"potential"`
	Mass        float64            `json:"mass"`
	Hbar        float64            `json:"hbar"`
	XMin        float64            `json:"x_min"`
	XMax        float64            `json:"x_max"`
	GridNumber  int                `json:"grid_number"`
	DeltaT      float64            `json:"delta_t"`
	RealTime    float64            `json:"real_time"`
	K           float64            `json:"k"`
	StdDev      float64            `json:"std_dev"`
	X0          float64            `json:"x_0"`
	Observables map[string]float64 `json:"observables"`
}

// Save writes one run directory: metadata.json, density.csv (one row per
// retained state: time then |psi_j|^2 per node), and final_state.csv (one
// row per node: x, re, im).
func (s *Store) Save(p quantum.Params, potName string, rec *recorder.Recorder, grid quantum.Grid, obs map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", potName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Potential:   potName,
		Mass:        p.Mass,
		Hbar:        p.Hbar,
		XMin:        p.XMin,
		XMax:        p.XMax,
		GridNumber:  p.GridNumber,
		DeltaT:      p.DeltaT,
		RealTime:    p.RealTime,
		K:           p.K,
		StdDev:      p.StdDev,
		X0:          p.X0,
		Observables: obs,
	}

	if err := s.writeMetadata(runDir, meta); err != nil {
		return "", err
	}
	if err := s.writeDensity(runDir, rec.Trajectory()); err != nil {
		return "", err
	}
	if err := s.writeFinalState(runDir, grid, rec.Final()); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeMetadata(runDir string, meta RunMetadata) error {
	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) writeDensity(runDir string, traj *recorder.Trajectory) error {
	if len(traj.States) == 0 {
		return nil
	}

	f, err := os.Create(filepath.Join(runDir, "density.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"time"}
	for j := range traj.States[0] {
		header = append(header, fmt.Sprintf("p%d", j))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, psi := range traj.States {
		row := make([]string, 0, len(psi)+1)
		row = append(row, strconv.FormatFloat(traj.Times[i], 'g', -1, 64))
		for _, d := range psi.Density() {
			row = append(row, strconv.FormatFloat(d, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeFinalState(runDir string, grid quantum.Grid, final quantum.WaveState) error {
	if final == nil {
		return nil
	}

	f, err := os.Create(filepath.Join(runDir, "final_state.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"x", "re", "im"}); err != nil {
		return err
	}
	for j, a := range final {
		row := []string{
			strconv.FormatFloat(grid.Nodes[j], 'g', -1, 64),
			strconv.FormatFloat(real(a), 'g', -1, 64),
			strconv.FormatFloat(imag(a), 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFinalState reconstructs the final complex state and its grid
// coordinates from final_state.csv.
func (s *Store) LoadFinalState(runID string) ([]float64, quantum.WaveState, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "final_state.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("run %s has no final state data", runID)
	}

	xs := make([]float64, 0, len(records)-1)
	psi := make(quantum.WaveState, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		x, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, err
		}
		re, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, err
		}
		im, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, nil, err
		}
		xs = append(xs, x)
		psi = append(psi, complex(re, im))
	}
	return xs, psi, nil
}

// LoadDensity reads the retained density trajectory: per-state times and
// per-node probability rows.
func (s *Store) LoadDensity(runID string) ([]float64, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "density.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			continue
		}
		tm, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, err
		}
		row := make([]float64, 0, len(rec)-1)
		for _, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, err
			}
			row = append(row, v)
		}
		times = append(times, tm)
		rows = append(rows, row)
	}
	return times, rows, nil
}
