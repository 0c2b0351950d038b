package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/experiment"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/storage"
	"github.com/spf13/cobra"
)

const maxPlots = 6

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tMODEL\tTIME\tDURATION\tDT\tMETHOD")
	for _, run := range runs {
		method := run.Integrator
		if run.Scheme != "" {
			method = run.Scheme
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4gs\t%s\n",
			run.ID,
			run.Kind,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			method,
		)
	}
	return w.Flush()
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if meta.Kind == storage.KindSwarm {
		return fmt.Errorf("run %s holds swarm snapshots; use export", runID)
	}

	traj, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if traj.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(panel(meta.ID, kv("kind", meta.Kind), kv("model", meta.Model), kv("samples", traj.Len())))

	if meta.Kind == storage.KindField {
		_, first := traj.At(0)
		_, last := traj.Final()
		fmt.Println(asciigraph.PlotMany([][]float64{first, last},
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s: initial and final profile (%s)", meta.Model, meta.Scheme)),
		))
		return nil
	}

	_, x0 := traj.At(0)
	labels := stateLabels(meta.Model, len(x0))
	n := len(x0)
	if n > maxPlots {
		n = maxPlots
	}
	for j := 0; j < n; j++ {
		graph := asciigraph.Plot(traj.Column(j),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(labels[j]+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [run_id]",
		Short: "write a stored trajectory as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			if meta.Kind == storage.KindSwarm {
				snaps, err := st.LoadSnapshots(args[0])
				if err != nil {
					return err
				}
				return writeJSON(os.Stdout, snaps)
			}
			traj, err := st.LoadStates(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(os.Stdout, *meta, traj)
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.Models()
			if len(args) == 1 {
				models = args
			}
			for _, model := range models {
				presets := config.ListPresets(model)
				if len(presets) == 0 {
					fmt.Printf("no presets for model: %s\n", model)
					continue
				}
				fmt.Println(title(model))
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			if len(args) == 0 {
				fmt.Println(title("integrators"))
				for _, name := range experiment.NewRegistry().ListIntegrators() {
					fmt.Printf("  %s\n", name)
				}
			}
			return nil
		},
	}
}
