package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/experiment"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/optim"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run a model over a range of one parameter, e.g. a resonance curve",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(cmd)
	f := cmd.Flags()
	f.Float64("dt", config.DefaultDt, "timestep")
	f.Float64("time", config.DefaultDuration, "duration")
	f.String("integrator", "rk4", "integrator (euler, rk4, symplectic)")
	f.String("param", "frequency", "model parameter to vary")
	f.Float64("from", 1, "first parameter value")
	f.Float64("to", 5, "last parameter value")
	f.Int("points", 21, "number of parameter values")
	f.String("metric", "max_abs", "metric to compare")
	f.Bool("maximize", false, "report the largest metric value instead of the smallest")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	f := cmd.Flags()
	param, _ := f.GetString("param")
	from, _ := f.GetFloat64("from")
	to, _ := f.GetFloat64("to")
	points, _ := f.GetInt("points")
	metric, _ := f.GetString("metric")
	maximize, _ := f.GetBool("maximize")
	if points < 1 {
		return fmt.Errorf("points must be at least 1, got %d", points)
	}

	gs := optim.NewGridSearch([]string{param}, [][]float64{optim.Linspace(from, to, points)})
	if maximize {
		gs.Maximize()
	}

	fmt.Printf("sweeping %s over [%g, %g] with %d points...\n", param, from, to, points)
	res, err := gs.Search(cmd.Context(), optim.ParamBuilder(cfg, experiment.WithLogger(logger)), metric)
	if res == nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", param, metric)
	curve := make([]float64, 0, len(res.Evaluations))
	for _, e := range res.Evaluations {
		if e.Err != nil {
			fmt.Fprintf(w, "%.4g\terror: %v\n", e.Params[param], e.Err)
			continue
		}
		fmt.Fprintf(w, "%.4g\t%.6g\n", e.Params[param], e.Value)
		curve = append(curve, e.Value)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	if len(curve) > 1 {
		fmt.Println(asciigraph.Plot(curve,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", metric, param)),
		))
	}
	fmt.Println(panel("sweep", kv("best "+param, fmt.Sprintf("%.6g", res.Best[param])), kv(metric, fmt.Sprintf("%.6g", res.Value))))
	return nil
}
