package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/qwave/internal/quantum"
)

const (
	DefaultMass       = 1.0
	DefaultHbar       = 1.0
	DefaultXMin       = -20.0
	DefaultXMax       = 20.0
	DefaultGridNumber = 1001
	DefaultDeltaT     = 1e-5
	DefaultRealTime   = 2.0
	DefaultK          = 5.0
	DefaultStdDev     = 1.0
	DefaultX0         = -8.0
)

type Config struct {
	Mass       float64         `yaml:"mass"`
	Hbar       float64         `yaml:"hbar"`
	Bounds     BoundsConfig    `yaml:"bounds"`
	GridNumber int             `yaml:"grid_number"`
	DeltaT     float64         `yaml:"delta_t"`
	RealTime   float64         `yaml:"real_time"`
	Packet     PacketConfig    `yaml:"packet"`
	Potential  PotentialConfig `yaml:"potential"`
	KeepEvery  int             `yaml:"keep_every"`
}

type BoundsConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type PacketConfig struct {
	K      float64 `yaml:"k"`
	StdDev float64 `yaml:"std_dev"`
	X0     float64 `yaml:"x_0"`
}

type PotentialConfig struct {
	Type   string  `yaml:"type"`
	Height float64 `yaml:"height"`
	Width  float64 `yaml:"width"`
	Center float64 `yaml:"center"`
	Omega  float64 `yaml:"omega"`
}

func DefaultConfig() *Config {
	return &Config{
		Mass:       DefaultMass,
		Hbar:       DefaultHbar,
		Bounds:     BoundsConfig{Min: DefaultXMin, Max: DefaultXMax},
		GridNumber: DefaultGridNumber,
		DeltaT:     DefaultDeltaT,
		RealTime:   DefaultRealTime,
		Packet:     PacketConfig{K: DefaultK, StdDev: DefaultStdDev, X0: DefaultX0},
		Potential:  PotentialConfig{Type: "zero"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file representation into the validated parameter set
// used by the engine.
func (c *Config) Params() quantum.Params {
	return quantum.Params{
		Mass:       c.Mass,
		Hbar:       c.Hbar,
		XMin:       c.Bounds.Min,
		XMax:       c.Bounds.Max,
		GridNumber: c.GridNumber,
		DeltaT:     c.DeltaT,
		RealTime:   c.RealTime,
		K:          c.Packet.K,
		StdDev:     c.Packet.StdDev,
		X0:         c.Packet.X0,
	}
}

// PotentialParams flattens the potential section into the registry's
// parameter map.
func (c *Config) PotentialParams() map[string]float64 {
	return map[string]float64{
		"height": c.Potential.Height,
		"width":  c.Potential.Width,
		"center": c.Potential.Center,
		"omega":  c.Potential.Omega,
		"mass":   c.Mass,
	}
}
