package config

var Presets = map[string]*Config{
	"free": {
		Mass: 1, Hbar: 1,
		Bounds:     BoundsConfig{Min: -20, Max: 20},
		GridNumber: 1001,
		DeltaT:     1e-5, RealTime: 2.0,
		Packet:    PacketConfig{K: 5, StdDev: 1, X0: -8},
		Potential: PotentialConfig{Type: "zero"},
	},
	"barrier": {
		Mass: 1, Hbar: 1,
		Bounds:     BoundsConfig{Min: -20, Max: 20},
		GridNumber: 1001,
		DeltaT:     1e-5, RealTime: 3.0,
		Packet:    PacketConfig{K: 5, StdDev: 1, X0: -8},
		Potential: PotentialConfig{Type: "barrier", Height: 200, Width: 1, Center: 0},
	},
	"tunneling": {
		Mass: 1, Hbar: 1,
		Bounds:     BoundsConfig{Min: -20, Max: 20},
		GridNumber: 1001,
		DeltaT:     1e-5, RealTime: 3.0,
		Packet:    PacketConfig{K: 5, StdDev: 1, X0: -8},
		Potential: PotentialConfig{Type: "barrier", Height: 15, Width: 0.5, Center: 0},
	},
	"harmonic": {
		Mass: 1, Hbar: 1,
		Bounds:     BoundsConfig{Min: -15, Max: 15},
		GridNumber: 751,
		DeltaT:     1e-5, RealTime: 6.0,
		Packet:    PacketConfig{K: 0, StdDev: 1, X0: -4},
		Potential: PotentialConfig{Type: "harmonic", Omega: 1, Center: 0},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
