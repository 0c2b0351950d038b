package main

import (
	"fmt"
	"os"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/analysis"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/export"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/storage"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

func newSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a stored run as an SVG image",
		Long: `Trajectories are drawn component by component against time, or as a
phase portrait when --x-axis and --y-axis are given. Advection runs show
the initial and final profiles. Swarm runs show one snapshot colored by
concentration.`,
		Args: cobra.ExactArgs(1),
		RunE: renderSVG,
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "output file (default <run_id>.svg)")
	f.Int("x-axis", -1, "state index for a phase portrait x axis")
	f.Int("y-axis", -1, "state index for a phase portrait y axis")
	f.Int("snapshot", -1, "swarm snapshot index, negative counts from the end")
	f.Int("width", 800, "image width")
	f.Int("height", 600, "image height")
	return cmd
}

func renderSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	f := cmd.Flags()
	w, _ := f.GetInt("width")
	h, _ := f.GetInt("height")
	out, _ := f.GetString("output")
	if out == "" {
		out = runID + ".svg"
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	switch meta.Kind {
	case storage.KindSwarm:
		idx, _ := f.GetInt("snapshot")
		svg, err = swarmSVG(st, runID, idx, w, h)
	default:
		traj, lerr := st.LoadStates(runID)
		if lerr != nil {
			return lerr
		}
		xi, _ := f.GetInt("x-axis")
		yi, _ := f.GetInt("y-axis")
		svg, err = trajectorySVG(meta, traj, xi, yi, w, h)
	}
	if err != nil {
		return err
	}
	if svg == "" {
		return fmt.Errorf("run %s has nothing to draw", runID)
	}

	if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
		return err
	}
	fmt.Println(status(true, "wrote "+out))
	return nil
}

func trajectorySVG(meta *storage.RunMetadata, traj *dynamo.Trajectory, xi, yi, w, h int) (string, error) {
	if traj.Len() == 0 {
		return "", nil
	}

	if meta.Kind == storage.KindField {
		dx := 1.0
		if n := meta.Params["points"]; n > 1 {
			dx = meta.Params["length"] / (n - 1)
		}
		_, first := traj.At(0)
		_, last := traj.Final()
		return export.PathSVG([]export.Series{
			{Name: "initial", Points: profile(first, dx)},
			{Name: "final", Points: profile(last, dx)},
		}, w, h), nil
	}

	if xi >= 0 || yi >= 0 {
		p := analysis.NewPortrait(traj, xi, yi)
		if p == nil {
			return "", fmt.Errorf("state indices %d, %d out of range", xi, yi)
		}
		return export.PathSVG([]export.Series{{Name: "portrait", Points: p.Points}}, w, h), nil
	}

	_, x0 := traj.At(0)
	labels := stateLabels(meta.Model, len(x0))
	series := make([]export.Series, len(x0))
	for j := range x0 {
		col := traj.Column(j)
		pts := make([]analysis.Point, len(col))
		for i, v := range col {
			pts[i] = analysis.Point{X: traj.Times[i], Y: v}
		}
		series[j] = export.Series{Name: labels[j], Points: pts}
	}
	return export.PathSVG(series, w, h), nil
}

func profile(u []float64, dx float64) []analysis.Point {
	pts := make([]analysis.Point, len(u))
	for i, v := range u {
		pts[i] = analysis.Point{X: float64(i) * dx, Y: v}
	}
	return pts
}

func swarmSVG(st *storage.Store, runID string, idx, w, h int) (string, error) {
	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		return "", err
	}
	if idx < 0 {
		idx += len(snaps)
	}
	if idx < 0 || idx >= len(snaps) {
		return "", fmt.Errorf("snapshot index out of range, run has %d", len(snaps))
	}

	snap := snaps[idx]
	n := len(snap.Concentration)
	if n == 0 {
		return "", nil
	}
	pts := make([]analysis.Point, n)
	for i := range pts {
		pts[i] = analysis.Point{X: snap.Positions[i*snap.Dim], Y: snap.Positions[i*snap.Dim+1]}
	}
	return export.ScatterSVG(pts, snap.Concentration, floats.Min(snap.Concentration), floats.Max(snap.Concentration), w, h)
}
