package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/experiment"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/storage"
	"github.com/spf13/cobra"
)

func newAdvectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advect [box|gaussian|sine]",
		Short: "solve periodic 1-D advection with the upwind and implicit schemes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAdvection,
	}
	addConfigFlags(cmd)
	def := config.DefaultConfig().Advection
	f := cmd.Flags()
	f.Int("points", def.Points, "grid points")
	f.Float64("length", def.Length, "domain length")
	f.Float64("speed", def.Speed, "advection speed")
	f.Float64("courant", def.Courant, "courant number c*dt/dx")
	f.Float64("time", def.Duration, "duration")
	f.StringSlice("scheme", def.Schemes, "schemes to run (upwind, implicit)")
	return cmd
}

func loadAdvectionConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	if len(args) == 1 && preset == "" && configFile == "" {
		preset = args[0]
	}
	cfg, err := baseConfig(cmd, "advection")
	if err != nil {
		return nil, err
	}
	ac := &cfg.Advection
	if len(args) == 1 {
		ac.Initial = args[0]
	}

	f := cmd.Flags()
	if f.Changed("points") {
		ac.Points, _ = f.GetInt("points")
	}
	floats := map[string]*float64{
		"length":  &ac.Length,
		"speed":   &ac.Speed,
		"courant": &ac.Courant,
		"time":    &ac.Duration,
	}
	for name, dst := range floats {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}
	if f.Changed("scheme") {
		ac.Schemes, _ = f.GetStringSlice("scheme")
	}
	return cfg, cfg.Validate()
}

func runAdvection(cmd *cobra.Command, args []string) error {
	cfg, err := loadAdvectionConfig(cmd, args)
	if err != nil {
		return err
	}
	ac := cfg.Advection

	out, err := experiment.RunAdvection(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	for _, scheme := range advection.Schemes(out) {
		h := out[scheme]
		last := h.Len() - 1
		lines := []string{
			kv("grid", fmt.Sprintf("%d points, dx=%.4g", ac.Points, h.Dx)),
			kv("courant", fmt.Sprintf("%.3f", h.Nu)),
			kv("steps", last),
			kv("mass t=0", fmt.Sprintf("%.8f", h.Mass(0))),
			kv("mass final", fmt.Sprintf("%.8f", h.Mass(last))),
			kv("max |u| final", fmt.Sprintf("%.6g", h.MaxAbs(last))),
		}
		if scheme == advection.SchemeUpwind && h.Nu > 1 {
			lines = append(lines, status(false, "courant number above 1: upwind is unstable"))
		}

		if st != nil {
			id, err := saveField(st, ac, h)
			if err != nil {
				return err
			}
			lines = append(lines, kv("run id", id))
		}

		fmt.Println(panel(fmt.Sprintf("%s / %s", ac.Initial, scheme), lines...))
		fmt.Println(asciigraph.PlotMany([][]float64{h.Snapshot(0), h.Final()},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("initial and final profile"),
		))
		fmt.Println()
	}
	return nil
}
