package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/qwave/internal/analysis"
	"github.com/san-kum/qwave/internal/config"
	"github.com/san-kum/qwave/internal/engine"
	"github.com/san-kum/qwave/internal/observables"
	"github.com/san-kum/qwave/internal/potential"
	"github.com/san-kum/qwave/internal/quantum"
	"github.com/san-kum/qwave/internal/recorder"
	"github.com/san-kum/qwave/internal/storage"
	"github.com/san-kum/qwave/internal/tui"
	"github.com/san-kum/qwave/internal/viz"
	"github.com/san-kum/qwave/internal/wavepacket"
)

var (
	dataDir    string
	configFile string
	preset     string

	mass      float64
	hbar      float64
	xMin      float64
	xMax      float64
	gridN     int
	deltaT    float64
	realTime  float64
	packetK   float64
	stdDev    float64
	x0        float64
	potName   string
	potHeight float64
	potWidth  float64
	potCenter float64
	potOmega  float64

	keepEvery int
	workers   int
	stride    int
	frameRate int
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	rootCmd := &cobra.Command{
		Use:   "qwave",
		Short: "1-D Schrodinger wave packet simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".qwave", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addPhysicsFlags(runCmd)
	runCmd.Flags().IntVar(&keepEvery, "keep-every", 0, "retain every nth state (0 keeps only the final state)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "stencil worker goroutines (0 = all CPUs)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the final state of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	momentumCmd := &cobra.Command{
		Use:   "momentum [run_id]",
		Short: "plot the momentum distribution of a run's final state",
		Args:  cobra.ExactArgs(1),
		RunE:  momentumRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)
	liveCmd.Flags().IntVar(&stride, "stride", 100, "render every nth state")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, momentumCmd, exportCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "scenario preset")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "particle mass")
	cmd.Flags().Float64Var(&hbar, "hbar", config.DefaultHbar, "reduced Planck constant")
	cmd.Flags().Float64Var(&xMin, "xmin", config.DefaultXMin, "lower spatial bound")
	cmd.Flags().Float64Var(&xMax, "xmax", config.DefaultXMax, "upper spatial bound")
	cmd.Flags().IntVar(&gridN, "grid", config.DefaultGridNumber, "number of grid nodes")
	cmd.Flags().Float64Var(&deltaT, "dt", config.DefaultDeltaT, "time step")
	cmd.Flags().Float64Var(&realTime, "time", config.DefaultRealTime, "simulated duration")
	cmd.Flags().Float64Var(&packetK, "k", config.DefaultK, "packet wavenumber")
	cmd.Flags().Float64Var(&stdDev, "sigma", config.DefaultStdDev, "packet spread")
	cmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "packet center")
	cmd.Flags().StringVar(&potName, "potential", "zero", "potential type (zero, barrier, harmonic)")
	cmd.Flags().Float64Var(&potHeight, "height", 0, "barrier height")
	cmd.Flags().Float64Var(&potWidth, "width", 1, "barrier width")
	cmd.Flags().Float64Var(&potCenter, "center", 0, "potential center")
	cmd.Flags().Float64Var(&potOmega, "omega", 1, "harmonic angular frequency")
}

// resolveConfig merges preset, config file, and explicit flags, in
// increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flagOverrides := []struct {
		name  string
		apply func()
	}{
		{"mass", func() { cfg.Mass = mass }},
		{"hbar", func() { cfg.Hbar = hbar }},
		{"xmin", func() { cfg.Bounds.Min = xMin }},
		{"xmax", func() { cfg.Bounds.Max = xMax }},
		{"grid", func() { cfg.GridNumber = gridN }},
		{"dt", func() { cfg.DeltaT = deltaT }},
		{"time", func() { cfg.RealTime = realTime }},
		{"k", func() { cfg.Packet.K = packetK }},
		{"sigma", func() { cfg.Packet.StdDev = stdDev }},
		{"x0", func() { cfg.Packet.X0 = x0 }},
		{"potential", func() { cfg.Potential.Type = potName }},
		{"height", func() { cfg.Potential.Height = potHeight }},
		{"width", func() { cfg.Potential.Width = potWidth }},
		{"center", func() { cfg.Potential.Center = potCenter }},
		{"omega", func() { cfg.Potential.Omega = potOmega }},
	}
	for _, f := range flagOverrides {
		if cmd.Flags().Changed(f.name) {
			f.apply()
		}
	}

	return cfg, nil
}

// buildSimulation turns a resolved config into a ready-to-run evolver.
func buildSimulation(cfg *config.Config, opts ...engine.Option) (*engine.Evolver, quantum.Grid, quantum.WaveState, error) {
	p := cfg.Params()
	grid, err := quantum.NewGrid(p)
	if err != nil {
		return nil, quantum.Grid{}, nil, err
	}

	pot, err := potential.NewRegistry().Get(cfg.Potential.Type, cfg.PotentialParams())
	if err != nil {
		return nil, quantum.Grid{}, nil, err
	}
	v, err := potential.Sample(grid, pot)
	if err != nil {
		return nil, quantum.Grid{}, nil, err
	}

	ev, err := engine.New(p, grid, v, opts...)
	if err != nil {
		return nil, quantum.Grid{}, nil, err
	}

	psi0, err := wavepacket.Gaussian(grid, p.K, p.StdDev, p.X0)
	if err != nil {
		return nil, quantum.Grid{}, nil, err
	}
	return ev, grid, psi0, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var opts []engine.Option
	if workers > 0 {
		opts = append(opts, engine.WithWorkers(workers))
	}
	ev, grid, psi0, err := buildSimulation(cfg, opts...)
	if err != nil {
		return err
	}

	p := cfg.Params()
	log.Info().
		Str("potential", cfg.Potential.Type).
		Int("nodes", p.GridNumber).
		Int("states", p.States()).
		Float64("dt", p.DeltaT).
		Msg("starting simulation")

	var rec *recorder.Recorder
	if keepEvery > 0 {
		rec = recorder.NewEveryN(keepEvery)
	} else {
		rec = recorder.NewFinalOnly()
	}

	drift := observables.NewNormDrift(grid.Dx)
	pos := observables.NewPosition(grid)
	obs := []observables.Observable{drift, pos}
	if cfg.Potential.Type == "barrier" {
		obs = append(obs,
			observables.NewReflection(grid, cfg.Potential.Center),
			observables.NewTransmission(grid, cfg.Potential.Center),
		)
	}
	observe := observables.Chain(obs...)
	record := rec.Callback()

	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	spin.Suffix = " stepping..."
	spin.Start()

	start := time.Now()
	_, err = ev.RunWithCallback(context.Background(), psi0, func(step int, t float64, psi quantum.WaveState) bool {
		observe(t, psi)
		return record(step, t, psi)
	})
	spin.Stop()
	if err != nil {
		log.Error().Err(err).Msg("simulation failed")
		return err
	}
	elapsed := time.Since(start)

	values := make(map[string]float64, len(obs))
	for _, o := range obs {
		values[o.Name()] = o.Value()
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(p, cfg.Potential.Type, rec, grid, values)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", runID).
		Dur("elapsed", elapsed).
		Msg("simulation complete")
	for name, val := range values {
		log.Info().Float64(name, val).Msg("observable")
	}

	fmt.Println(viz.GraphStyle.Render(viz.DensityPlot(grid, rec.Final(), "final |psi|^2")))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPOTENTIAL\tTIME\tNODES\tDT\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2g\t%.2fs\n",
			run.ID,
			run.Potential,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridNumber,
			run.DeltaT,
			run.RealTime,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	xs, psi, err := st.LoadFinalState(args[0])
	if err != nil {
		return err
	}

	grid := quantum.Grid{Nodes: xs, Dx: (meta.XMax - meta.XMin) / float64(meta.GridNumber-1)}

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("run %s   potential %s   t=%.3f", meta.ID, meta.Potential, meta.RealTime)))
	fmt.Println(viz.GraphStyle.Render(viz.DensityPlot(grid, psi, "|psi|^2")))
	fmt.Println(viz.GraphStyle.Render(viz.RealImagPlot(psi)))
	return nil
}

func momentumRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, psi, err := st.LoadFinalState(args[0])
	if err != nil {
		return err
	}

	dx := (meta.XMax - meta.XMin) / float64(meta.GridNumber-1)
	ks, density := analysis.MomentumDensity(psi, dx)

	caption := fmt.Sprintf("|psi(k)|^2   k in [%.2f, %.2f]   dominant k=%.3f",
		ks[0], ks[len(ks)-1], analysis.DominantWavenumber(psi, dx))
	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("run %s momentum distribution", meta.ID)))
	fmt.Println(viz.GraphStyle.Render(viz.Series(density, caption)))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ev, grid, psi0, err := buildSimulation(cfg)
	if err != nil {
		return err
	}
	return tui.Run(ev, grid, psi0, stride, frameRate)
}
