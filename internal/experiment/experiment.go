package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/logging"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/physics"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/sim"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *slog.Logger
	simulator *sim.Simulator
	dyn       dynamo.System
}

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

// Setup builds the system, integrator and metrics named by the configuration.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	dyn, err := e.registry.GetModel(e.cfg.Model, e.cfg)
	if err != nil {
		return err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.dyn = dyn
	e.simulator = sim.New(dyn, integ)
	for _, m := range e.registry.DefaultMetrics(dyn) {
		e.simulator.AddMetric(m)
	}
	return nil
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) System() dynamo.System {
	return e.dyn
}

// Run integrates the configured model. Coriolis runs stop when the particle
// leaves the disk.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		if err := e.Setup(); err != nil {
			return nil, err
		}
	}

	x0 := dynamo.State(e.cfg.GetInitState())
	span := e.cfg.Span()

	var stop sim.StopFunc
	if e.cfg.Model == "coriolis" && e.cfg.Coriolis.DiskRadius > 0 {
		r := e.cfg.Coriolis.DiskRadius
		stop = func(x dynamo.State, _ float64) bool { return !physics.InsideDisk(x, r) }
	}

	e.logger.Info("starting run",
		"model", e.cfg.Model,
		"integrator", e.cfg.Integrator,
		"steps", span.Steps,
		"dt", span.Step(),
	)
	start := time.Now()

	result, err := e.simulator.RunUntil(ctx, x0, span, stop)
	if err != nil {
		e.logger.Error("run failed", "model", e.cfg.Model, "error", err)
		return result, err
	}

	_, final := result.Trajectory.Final()
	if !final.IsValid() {
		e.logger.Warn("trajectory diverged", "model", e.cfg.Model, "steps", result.StepsTaken)
	}
	e.logger.Info("run finished",
		"model", e.cfg.Model,
		"steps", result.StepsTaken,
		"stopped", result.Stopped,
		"elapsed", time.Since(start),
	)
	return result, nil
}

// RunAdvection solves the configured 1-D transport problem with every
// requested scheme.
func RunAdvection(ctx context.Context, cfg *config.Config, logger *slog.Logger) (map[advection.Scheme]*advection.History, error) {
	ac := cfg.Advection
	if err := ac.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schemes := make([]advection.Scheme, 0, len(ac.Schemes))
	for _, name := range ac.Schemes {
		s, err := advection.ParseScheme(name)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, s)
	}

	logger.Info("starting advection",
		"initial", ac.Initial,
		"points", ac.Points,
		"nu", ac.Grid.Nu(),
		"steps", ac.Grid.Steps(ac.Duration),
	)

	out, err := advection.SolveGrid(ac.Grid, advection.InitialConditions[ac.Initial], ac.Duration, schemes...)
	if err != nil {
		logger.Error("advection failed", "error", err)
		return nil, err
	}

	for _, s := range advection.Schemes(out) {
		h := out[s]
		logger.Info("advection finished",
			"scheme", s,
			"mass_initial", h.Mass(0),
			"mass_final", h.Mass(h.Len()-1),
			"max_abs", h.MaxAbs(h.Len()-1),
		)
	}
	return out, nil
}

// RunSwarm seeds particles uniformly on the unit square with the arctan
// front concentration and collects a snapshot at every configured time.
func RunSwarm(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]swarm.Snapshot, error) {
	sc := cfg.Swarm
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	field, err := NewRegistry().GetField(sc.Field, cfg)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	positions := swarm.UniformSquare(sc.Particles, rng)
	if dim := field.Dim(); dim != 2 {
		positions = widen(positions, dim)
	}

	s, err := swarm.New(positions, field.Dim(), swarm.ArctanFront)
	if err != nil {
		return nil, err
	}

	opts := []swarm.Option{swarm.WithAmplitude(sc.Amplitude)}
	if sc.Turbulence {
		opts = append(opts, swarm.WithTurbulence(rng.Int63()))
	}
	st, err := swarm.NewStepper(field, sc.Dt, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("starting swarm",
		"particles", sc.Particles,
		"field", sc.Field,
		"turbulence", sc.Turbulence,
		"dt", sc.Dt,
	)

	snaps := make([]swarm.Snapshot, 0, len(sc.Times))
	for _, target := range sc.Times {
		if err := ctx.Err(); err != nil {
			return snaps, err
		}
		snap, err := st.SnapshotAt(s, target)
		if err != nil {
			return snaps, fmt.Errorf("snapshot at t=%g: %w", target, err)
		}
		logger.Debug("swarm snapshot", "time", snap.Time, "step", snap.Step)
		snaps = append(snaps, snap)
	}

	logger.Info("swarm finished", "steps", s.Steps(), "time", s.Time)
	return snaps, nil
}

// FieldSnapshot is the Eulerian concentration at one time.
type FieldSnapshot struct {
	Time  float64   `json:"time"`
	Step  int       `json:"step"`
	Field []float64 `json:"field"`
}

// RunTransport carries the arctan front through the cellular flow on the
// configured Eulerian grid, for comparison with RunSwarm.
func RunTransport(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]FieldSnapshot, error) {
	sc := cfg.Swarm
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	tr, err := advection.NewTransport2D(sc.Grid, swarm.CellularVelocity, swarm.ArctanFront)
	if err != nil {
		return nil, err
	}
	logger.Info("starting eulerian transport", "nx", sc.Grid.NX, "ny", sc.Grid.NY, "dt", tr.Dt)

	out := make([]FieldSnapshot, 0, len(sc.Times))
	for _, target := range sc.Times {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := tr.RunUntil(target); err != nil {
			return out, err
		}
		out = append(out, FieldSnapshot{Time: tr.Time, Step: tr.Steps(), Field: tr.Field()})
	}

	logger.Info("eulerian transport finished", "steps", tr.Steps(), "time", tr.Time)
	return out, nil
}

// widen pads 2-D positions with zero trailing components.
func widen(pos2 []float64, dim int) []float64 {
	n := len(pos2) / 2
	out := make([]float64, n*dim)
	for i := 0; i < n; i++ {
		out[i*dim] = pos2[2*i]
		out[i*dim+1] = pos2[2*i+1]
	}
	return out
}
