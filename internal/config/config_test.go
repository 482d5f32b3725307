package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Params().Validate(); err != nil {
		t.Fatalf("default config produces invalid params: %v", err)
	}
	if cfg.Potential.Type != "zero" {
		t.Errorf("default potential = %q, want zero", cfg.Potential.Type)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.GridNumber = 501
	cfg.Packet.K = -3.5
	cfg.Potential = PotentialConfig{Type: "barrier", Height: 80, Width: 2, Center: 1}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.GridNumber != 501 {
		t.Errorf("grid_number = %d, want 501", loaded.GridNumber)
	}
	if loaded.Packet.K != -3.5 {
		t.Errorf("k = %g, want -3.5", loaded.Packet.K)
	}
	if loaded.Potential.Type != "barrier" || loaded.Potential.Height != 80 {
		t.Errorf("potential did not round trip: %+v", loaded.Potential)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")

	// Only the packet is specified; everything else uses defaults.
	data := []byte("packet:\n  k: 2.5\n  std_dev: 0.5\n  x_0: -3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Packet.K != 2.5 {
		t.Errorf("k = %g, want 2.5", cfg.Packet.K)
	}
	if cfg.GridNumber != DefaultGridNumber {
		t.Errorf("grid_number = %d, want default %d", cfg.GridNumber, DefaultGridNumber)
	}
	if cfg.Mass != DefaultMass {
		t.Errorf("mass = %g, want default %g", cfg.Mass, DefaultMass)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/qwave.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)
	want := []string{"barrier", "free", "harmonic", "tunneling"}
	if len(names) != len(want) {
		t.Fatalf("presets = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("presets = %v, want %v", names, want)
		}
	}

	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if err := cfg.Params().Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	if GetPreset("vortex") != nil {
		t.Error("unknown preset should return nil")
	}
}
