package main

import (
	"fmt"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/analysis"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/storage"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the period and dominant frequency of every state component",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadTrajectory(args[0])
	if err != nil {
		return err
	}
	dt := traj.Times[1] - traj.Times[0]

	_, x0 := traj.At(0)
	labels := stateLabels(meta.Model, len(x0))
	lines := make([]string, 0, len(x0))
	for j := range x0 {
		col := traj.Column(j)
		freq, ferr := analysis.DominantFrequency(col, dt)

		mean := 0.0
		for _, v := range col {
			mean += v
		}
		mean /= float64(len(col))
		period, perr := analysis.CrossingPeriod(traj.Times, col, mean)

		switch {
		case ferr != nil && perr != nil:
			lines = append(lines, kv(labels[j], "no periodic component"))
		case perr != nil:
			lines = append(lines, kv(labels[j], fmt.Sprintf("f=%.4f Hz", freq)))
		default:
			lines = append(lines, kv(labels[j], fmt.Sprintf("f=%.4f Hz  period=%.4f s", freq, period)))
		}
	}

	fmt.Println(panel(meta.ID, lines...))
	return nil
}

func newPhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of two state components",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	cmd.Flags().Int("x-axis", 0, "state index for the x axis")
	cmd.Flags().Int("y-axis", 1, "state index for the y axis")
	cmd.Flags().Int("width", 80, "plot width")
	cmd.Flags().Int("height", 30, "plot height")
	return cmd
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadTrajectory(args[0])
	if err != nil {
		return err
	}
	xi, _ := cmd.Flags().GetInt("x-axis")
	yi, _ := cmd.Flags().GetInt("y-axis")
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")

	p := analysis.NewPortrait(traj, xi, yi)
	if p == nil {
		return fmt.Errorf("state indices %d, %d out of range", xi, yi)
	}

	_, x0 := traj.At(0)
	labels := stateLabels(meta.Model, len(x0))
	fmt.Println(title(fmt.Sprintf("%s: %s vs %s", meta.ID, labels[yi], labels[xi])))
	fmt.Print(p.ASCII(w, h))
	return nil
}

func loadTrajectory(runID string) (*storage.RunMetadata, *dynamo.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	if meta.Kind != storage.KindTrajectory {
		return nil, nil, fmt.Errorf("run %s is a %s run, not a trajectory", runID, meta.Kind)
	}
	traj, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if traj.Len() < 2 {
		return nil, nil, fmt.Errorf("run %s has too few samples", runID)
	}
	return meta, traj, nil
}
