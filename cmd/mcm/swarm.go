package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/experiment"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/storage"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

func newSwarmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swarm",
		Short: "advect a particle swarm through a velocity field",
		Args:  cobra.NoArgs,
		RunE:  runSwarm,
	}
	addConfigFlags(cmd)
	def := config.DefaultConfig().Swarm
	f := cmd.Flags()
	f.Int("particles", def.Particles, "number of particles")
	f.Float64("dt", def.Dt, "timestep")
	f.String("field", def.Field, "velocity field (cellular, coriolis)")
	f.Bool("turbulent", false, "add uniform turbulent forcing at every stage")
	f.Float64("amplitude", def.Amplitude, "half-width of the turbulent kick")
	f.Float64Slice("times", def.Times, "snapshot times")
	f.Bool("eulerian", false, "also solve the grid transport problem for comparison")
	return cmd
}

func loadSwarmConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := baseConfig(cmd, "swarm")
	if err != nil {
		return nil, err
	}
	sc := &cfg.Swarm
	f := cmd.Flags()
	if f.Changed("particles") {
		sc.Particles, _ = f.GetInt("particles")
	}
	if f.Changed("dt") {
		sc.Dt, _ = f.GetFloat64("dt")
	}
	if f.Changed("field") {
		sc.Field, _ = f.GetString("field")
	}
	if f.Changed("turbulent") {
		sc.Turbulence, _ = f.GetBool("turbulent")
	}
	if f.Changed("amplitude") {
		sc.Amplitude, _ = f.GetFloat64("amplitude")
	}
	if f.Changed("times") {
		sc.Times, _ = f.GetFloat64Slice("times")
	}
	return cfg, cfg.Validate()
}

func runSwarm(cmd *cobra.Command, args []string) error {
	cfg, err := loadSwarmConfig(cmd)
	if err != nil {
		return err
	}

	snaps, err := experiment.RunSwarm(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s  %-8s  %-10s  %-10s  %-10s  %-10s\n", "time", "step", "mean_x", "mean_y", "spread_y", "max_|r|")
	for _, snap := range snaps {
		mx, my, sy, r := swarmStats(snap)
		fmt.Printf("%-8.3f  %-8d  %-10.4f  %-10.4f  %-10.4f  %-10.4f\n", snap.Time, snap.Step, mx, my, sy, r)
	}

	lines := []string{
		kv("particles", cfg.Swarm.Particles),
		kv("field", cfg.Swarm.Field),
		kv("turbulence", cfg.Swarm.Turbulence),
		kv("snapshots", len(snaps)),
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := saveSnapshots(st, cfg, snaps)
		if err != nil {
			return err
		}
		lines = append(lines, kv("run id", id))
	}

	if eulerian, _ := cmd.Flags().GetBool("eulerian"); eulerian {
		fields, err := experiment.RunTransport(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		last := fields[len(fields)-1]
		lines = append(lines,
			kv("eulerian steps", last.Step),
			kv("eulerian range", fmt.Sprintf("[%.4f, %.4f]", floats.Min(last.Field), floats.Max(last.Field))),
		)
	}

	fmt.Println(panel("swarm", lines...))
	return nil
}

// swarmStats returns the mean position, the y standard deviation and the
// largest distance from the origin.
func swarmStats(snap swarm.Snapshot) (meanX, meanY, spreadY, maxR float64) {
	n := len(snap.Positions) / snap.Dim
	if n == 0 {
		return 0, 0, 0, 0
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = snap.Positions[i*snap.Dim]
		ys[i] = snap.Positions[i*snap.Dim+1]
		maxR = math.Max(maxR, math.Hypot(xs[i], ys[i]))
	}
	meanX = floats.Sum(xs) / float64(n)
	meanY = floats.Sum(ys) / float64(n)
	floats.AddConst(-meanY, ys)
	spreadY = floats.Norm(ys, 2) / math.Sqrt(float64(n))
	return meanX, meanY, spreadY, maxR
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
