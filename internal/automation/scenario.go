package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/experiment"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/logging"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/optim"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/sim"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
	"gopkg.in/yaml.v3"
)

// Scenario is a named list of runs read from YAML.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step starts from the default configuration, applies Preset, decodes Config
// on top and finally sets Params on the built model.
type Step struct {
	Name   string             `yaml:"name"`
	Model  string             `yaml:"model"`
	Preset string             `yaml:"preset"`
	Config yaml.Node          `yaml:"config"`
	Params map[string]float64 `yaml:"params"`
	Sweep  *Sweep             `yaml:"sweep"`
	Save   bool               `yaml:"save"`
}

// Sweep replaces the single run of a step with a grid search over one
// parameter.
type Sweep struct {
	Param    string  `yaml:"param"`
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Points   int     `yaml:"points"`
	Metric   string  `yaml:"metric"`
	Maximize bool    `yaml:"maximize"`
}

// StepResult holds whatever the step's model produced. Exactly one of Run,
// Fields, Snapshots and Sweep is set.
type StepResult struct {
	Name      string
	Config    *config.Config
	Run       *sim.Result
	Fields    map[advection.Scheme]*advection.History
	Snapshots []swarm.Snapshot
	Sweep     *optim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	for i := range sc.Steps {
		if sc.Steps[i].Name == "" {
			sc.Steps[i].Name = fmt.Sprintf("step%d", i+1)
		}
	}
	return &sc, nil
}

// BuildConfig resolves the configuration a step runs with.
func (s *Step) BuildConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		model := s.Model
		if model == "" {
			return nil, fmt.Errorf("step %s: preset %q needs a model", s.Name, s.Preset)
		}
		cfg = config.GetPreset(model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("step %s: unknown preset %s/%s", s.Name, model, s.Preset)
		}
	} else if s.Model != "" {
		cfg.Model = s.Model
	}

	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("step %s: %w", s.Name, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("step %s: %w", s.Name, err)
	}
	return cfg, nil
}

// Runner executes scenario steps in order.
type Runner struct {
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{logger: logger}
}

// Run stops at the first failing step and returns the results gathered so far.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i := range sc.Steps {
		step := &sc.Steps[i]
		r.logger.Info("scenario step", "scenario", sc.Name, "step", step.Name, "index", i+1, "of", len(sc.Steps))

		res, err := r.RunStep(ctx, step)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
		results = append(results, *res)
	}
	return results, nil
}

func (r *Runner) RunStep(ctx context.Context, step *Step) (*StepResult, error) {
	cfg, err := step.BuildConfig()
	if err != nil {
		return nil, err
	}
	res := &StepResult{Name: step.Name, Config: cfg}

	switch cfg.Model {
	case "advection":
		res.Fields, err = experiment.RunAdvection(ctx, cfg, r.logger)
		return res, err
	case "swarm":
		res.Snapshots, err = experiment.RunSwarm(ctx, cfg, r.logger)
		return res, err
	}

	opts := []experiment.Option{experiment.WithLogger(r.logger)}
	if step.Sweep != nil {
		res.Sweep, err = r.sweep(ctx, cfg, step, opts)
		return res, err
	}

	exp, err := optim.ParamBuilder(cfg, opts...)(step.Params)
	if err != nil {
		return nil, err
	}
	res.Run, err = exp.Run(ctx)
	return res, err
}

func (r *Runner) sweep(ctx context.Context, cfg *config.Config, step *Step, opts []experiment.Option) (*optim.Result, error) {
	sw := step.Sweep
	if sw.Points < 1 {
		return nil, fmt.Errorf("sweep over %s needs at least one point", sw.Param)
	}
	metric := sw.Metric
	if metric == "" {
		metric = "max_abs"
	}

	gs := optim.NewGridSearch([]string{sw.Param}, [][]float64{optim.Linspace(sw.From, sw.To, sw.Points)})
	if sw.Maximize {
		gs.Maximize()
	}

	build := optim.ParamBuilder(cfg, opts...)
	fixed := step.Params
	res, err := gs.Search(ctx, func(p map[string]float64) (*experiment.Experiment, error) {
		merged := make(map[string]float64, len(fixed)+len(p))
		for k, v := range fixed {
			merged[k] = v
		}
		for k, v := range p {
			merged[k] = v
		}
		return build(merged)
	}, metric)
	if err != nil {
		return res, err
	}

	r.logger.Info("sweep finished", "param", sw.Param, "best", res.Best[sw.Param], metric, res.Value)
	return res, nil
}
