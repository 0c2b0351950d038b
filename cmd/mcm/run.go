package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/experiment"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/sim"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/storage"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model (pendulum, coriolis, lotka, heater)",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(cmd)
	f := cmd.Flags()
	f.Float64("dt", config.DefaultDt, "timestep")
	f.Float64("time", config.DefaultDuration, "duration")
	f.String("integrator", "rk4", "integrator (euler, rk4, symplectic)")

	f.Float64("theta", config.DefaultTheta, "initial angle (pendulum)")
	f.Float64("omega", 0, "initial angular velocity (pendulum)")
	f.Float64("length", 1, "rod length (pendulum)")
	f.Float64("friction", 1, "friction coefficient (pendulum)")
	f.Float64("amplitude", 0, "driving torque amplitude (pendulum)")
	f.Float64("frequency", 0, "driving frequency (pendulum)")

	f.Float64("x", 0, "initial x (coriolis)")
	f.Float64("y", 0, "initial y (coriolis)")
	f.Float64("u", 0, "initial x velocity (coriolis)")
	f.Float64("v", 0, "initial y velocity (coriolis)")
	f.Float64("rotation", 1, "disk angular velocity (coriolis)")
	f.Bool("centrifugal", false, "include the centrifugal term (coriolis)")
	f.Float64("radius", config.DefaultDiskRadius, "disk radius, 0 disables the exit check (coriolis)")

	f.Float64("prey", 0, "initial prey (lotka)")
	f.Float64("predator", 0, "initial predators (lotka)")

	f.Float64("temp", 20, "initial temperature in celsius (heater)")
	f.Float64("power", 100, "heater power in watts (heater)")
	return cmd
}

// baseConfig resolves the defaults, a preset and a config file, in
// increasing priority, then applies the seed flag.
func baseConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Model = model

	if cmd.Flags().Changed("seed") {
		seed, err := cmd.Flags().GetInt64("seed")
		if err != nil {
			return nil, err
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

// loadConfig resolves the configuration from, in increasing priority, the
// defaults, a preset, a config file and explicitly set flags.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg, err := baseConfig(cmd, model)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("integrator") {
		cfg.Integrator, _ = f.GetString("integrator")
	}

	floats := map[string]*float64{
		"dt":        &cfg.Dt,
		"time":      &cfg.Duration,
		"theta":     &cfg.InitState.Theta,
		"omega":     &cfg.InitState.Omega,
		"length":    &cfg.Pendulum.Length,
		"friction":  &cfg.Pendulum.Friction,
		"amplitude": &cfg.Pendulum.Amplitude,
		"frequency": &cfg.Pendulum.Frequency,
		"x":         &cfg.InitState.X,
		"y":         &cfg.InitState.Y,
		"u":         &cfg.InitState.U,
		"v":         &cfg.InitState.V,
		"rotation":  &cfg.Coriolis.Omega,
		"radius":    &cfg.Coriolis.DiskRadius,
		"prey":      &cfg.InitState.Prey,
		"predator":  &cfg.InitState.Predator,
		"temp":      &cfg.InitState.Temperature,
		"power":     &cfg.Heater.Power,
	}
	for name, dst := range floats {
		if f.Lookup(name) == nil || !f.Changed(name) {
			continue
		}
		v, err := f.GetFloat64(name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	if f.Lookup("centrifugal") != nil && f.Changed("centrifugal") {
		cfg.Coriolis.Centrifugal, _ = f.GetBool("centrifugal")
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	lines := []string{
		kv("integrator", cfg.Integrator),
		kv("steps", result.StepsTaken),
		kv("elapsed", elapsed.Round(time.Microsecond)),
	}
	if result.Stopped {
		lines = append(lines, status(false, "stopped early: particle left the disk"))
	}
	lines = append(lines, finalStateLines(cfg.Model, result)...)
	lines = append(lines, metricLines(result.Metrics)...)

	if !noSave {
		id, err := saveTrajectory(cfg, result)
		if err != nil {
			return err
		}
		lines = append(lines, kv("run id", id))
	}

	fmt.Println(panel(cfg.Model, lines...))
	return nil
}

func finalStateLines(model string, result *sim.Result) []string {
	t, x := result.Trajectory.Final()
	lines := []string{kv("final time", fmt.Sprintf("%.4f", t))}
	labels := stateLabels(model, len(x))
	for i, v := range x {
		lines = append(lines, kv(labels[i], fmt.Sprintf("%.6g", v)))
	}
	if !x.IsValid() {
		lines = append(lines, status(false, "state is no longer finite"))
	}
	return lines
}

func metricLines(metrics map[string]float64) []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, kv(name, fmt.Sprintf("%.6e", metrics[name])))
	}
	return lines
}

func stateLabels(model string, n int) []string {
	var labels []string
	switch model {
	case "pendulum":
		labels = []string{"theta", "omega"}
	case "coriolis":
		labels = []string{"x", "y", "u", "v"}
	case "lotka":
		labels = []string{"prey", "predator"}
	case "heater":
		labels = []string{"temperature [K]"}
	}
	for i := len(labels); i < n; i++ {
		labels = append(labels, fmt.Sprintf("x%d", i))
	}
	return labels
}

func saveTrajectory(cfg *config.Config, result *sim.Result) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	meta := storage.RunMetadata{
		Model:      cfg.Model,
		Seed:       cfg.Seed,
		Dt:         cfg.Span().Step(),
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Metrics:    result.Metrics,
	}
	return st.Save(meta, result.Trajectory)
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [model] [integrator...]",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64("dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64("time", config.DefaultDuration, "duration")
	return cmd
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (dt=%.4g, duration=%.1fs)\n\n", cfg.Model, cfg.Span().Step(), cfg.Duration)
	fmt.Printf("%-12s  %-14s  %-12s  %-12s\n", "integrator", "final_x0", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, name := range args[1:] {
		run := *cfg
		run.Integrator = name

		exp := experiment.New(&run, experiment.WithLogger(logger))
		start := time.Now()
		result, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		_, x := result.Trajectory.Final()
		fmt.Printf("%-12s  %14.6f  %12.2e  %12.2f\n", name, x[0], result.EnergyDrift, float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func saveField(st *storage.Store, ac config.AdvectionConfig, h *advection.History) (string, error) {
	return st.SaveField(storage.RunMetadata{
		Model:    ac.Initial,
		Duration: ac.Duration,
		Params: map[string]float64{
			"points":  float64(ac.Points),
			"length":  ac.Length,
			"speed":   ac.Speed,
			"courant": ac.Courant,
		},
	}, h)
}

func saveSnapshots(st *storage.Store, cfg *config.Config, snaps []swarm.Snapshot) (string, error) {
	return st.SaveSnapshots(storage.RunMetadata{
		Model: "swarm_" + cfg.Swarm.Field,
		Seed:  cfg.Seed,
		Dt:    cfg.Swarm.Dt,
		Params: map[string]float64{
			"particles": float64(cfg.Swarm.Particles),
			"amplitude": cfg.Swarm.Amplitude,
		},
	}, snaps)
}
