package experiment

import (
	"fmt"
	"sort"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/config"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/integrators"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/metrics"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/physics"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
)

// ModelFactory builds a system from the parameters in cfg. The returned
// system owns a copy of those parameters.
type ModelFactory func(cfg *config.Config) dynamo.System

type Registry struct {
	models      map[string]ModelFactory
	integrators map[string]func() integrators.Integrator
	fields      map[string]func(cfg *config.Config) swarm.Field
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelFactory),
		integrators: make(map[string]func() integrators.Integrator),
		fields:      make(map[string]func(*config.Config) swarm.Field),
	}

	r.models["pendulum"] = func(cfg *config.Config) dynamo.System {
		p := cfg.Pendulum
		return &p
	}
	r.models["coriolis"] = func(cfg *config.Config) dynamo.System {
		c := cfg.Coriolis.Coriolis
		return &c
	}
	r.models["lotka"] = func(cfg *config.Config) dynamo.System {
		l := cfg.Lotka
		return &l
	}
	r.models["heater"] = func(cfg *config.Config) dynamo.System {
		h := cfg.Heater
		return &h
	}

	for _, name := range integrators.Names() {
		name := name
		r.integrators[name] = func() integrators.Integrator {
			integ, _ := integrators.New(name)
			return integ
		}
	}

	r.fields["cellular"] = func(*config.Config) swarm.Field { return swarm.CellularFlow{} }
	r.fields["coriolis"] = func(cfg *config.Config) swarm.Field {
		return swarm.CoriolisField{Omega: cfg.Coriolis.Omega, Centrifugal: cfg.Coriolis.Centrifugal}
	}

	return r
}

// Register adds or replaces a model.
func (r *Registry) Register(name string, factory ModelFactory) {
	r.models[name] = factory
}

func (r *Registry) GetModel(name string, cfg *config.Config) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	if name == "" {
		name = "rk4"
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetField(name string, cfg *config.Config) (swarm.Field, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown velocity field: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListFields() []string {
	return sortedKeys(r.fields)
}

// DefaultMetrics returns the metrics reported for dyn. Coriolis runs
// without the centrifugal term also track the speed invariant.
func (r *Registry) DefaultMetrics(dyn dynamo.System) []metrics.Metric {
	ms := metrics.Default(dyn)
	if c, ok := dyn.(*physics.Coriolis); ok && !c.Centrifugal {
		ms = append(ms, metrics.NewSpeedDeviation(2))
	}
	return ms
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
