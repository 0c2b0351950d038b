package main

import (
	"fmt"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/automation"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/storage"
	"github.com/spf13/cobra"
)

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store any run")
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Println(title(fmt.Sprintf("%s (%d steps)", sc.Name, len(sc.Steps))))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}

	results, err := automation.NewRunner(logger).Run(cmd.Context(), sc)
	for i, res := range results {
		lines, serr := scenarioLines(&sc.Steps[i], &res)
		if serr != nil {
			return serr
		}
		fmt.Println(panel(fmt.Sprintf("%s [%s]", res.Name, res.Config.Model), lines...))
	}
	return err
}

func scenarioLines(step *automation.Step, res *automation.StepResult) ([]string, error) {
	cfg := res.Config
	save := step.Save && !noSave
	var st *storage.Store
	if save {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return nil, err
		}
	}

	var lines []string
	switch {
	case res.Run != nil:
		lines = append(lines, kv("steps", res.Run.StepsTaken))
		if res.Run.Stopped {
			lines = append(lines, status(false, "stopped early: particle left the disk"))
		}
		lines = append(lines, finalStateLines(cfg.Model, res.Run)...)
		lines = append(lines, metricLines(res.Run.Metrics)...)
		if save {
			id, err := saveTrajectory(cfg, res.Run)
			if err != nil {
				return nil, err
			}
			lines = append(lines, kv("run id", id))
		}

	case res.Fields != nil:
		for _, scheme := range advection.Schemes(res.Fields) {
			h := res.Fields[scheme]
			last := h.Len() - 1
			lines = append(lines, kv(string(scheme)+" mass", fmt.Sprintf("%.8f -> %.8f", h.Mass(0), h.Mass(last))))
			if save {
				id, err := saveField(st, cfg.Advection, h)
				if err != nil {
					return nil, err
				}
				lines = append(lines, kv(string(scheme)+" run id", id))
			}
		}

	case res.Snapshots != nil:
		lines = append(lines, kv("snapshots", len(res.Snapshots)))
		if save {
			id, err := saveSnapshots(st, cfg, res.Snapshots)
			if err != nil {
				return nil, err
			}
			lines = append(lines, kv("run id", id))
		}

	case res.Sweep != nil:
		sw := step.Sweep
		lines = append(lines,
			kv("evaluations", len(res.Sweep.Evaluations)),
			kv("best "+sw.Param, fmt.Sprintf("%.6g", res.Sweep.Best[sw.Param])),
			kv("value", fmt.Sprintf("%.6g", res.Sweep.Value)),
		)
	}
	return lines, nil
}
