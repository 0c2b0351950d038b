package sim

import (
	"context"
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/integrators"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/metrics"
)

type Simulator struct {
	dyn        dynamo.System
	integrator integrators.Integrator
	metrics    []metrics.Metric
	observers  []Observer
}

func New(dyn dynamo.System, integrator integrators.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]metrics.Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Run integrates x0 over the whole span.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, span dynamo.Span) (*Result, error) {
	return s.RunUntil(ctx, x0, span, nil)
}

// RunUntil integrates like Run but stops after the first step for which stop
// reports true. That state is kept as the last sample.
func (s *Simulator) RunUntil(ctx context.Context, x0 dynamo.State, span dynamo.Span, stop StopFunc) (*Result, error) {
	if err := integrators.CheckInputs(s.dyn, x0, span); err != nil {
		return nil, err
	}

	result := &Result{
		Trajectory: dynamo.NewTrajectory(span.Steps + 1),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	h := span.Step()
	x := x0.Clone()
	t := span.T0
	s.record(result, x, t)

	initialEnergy := s.computeEnergy(x)

	for i := 1; i <= span.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, x, initialEnergy)
			return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: ctx.Err()}
		default:
		}

		x = s.integrator.Step(s.dyn, x, t, h)
		t = span.T0 + float64(i)*h
		result.StepsTaken++
		s.record(result, x, t)

		if stop != nil && stop(x, t) {
			result.Stopped = true
			break
		}
	}

	s.finish(result, x, initialEnergy)
	return result, nil
}

func (s *Simulator) record(result *Result, x dynamo.State, t float64) {
	result.Trajectory.Append(t, x)
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) finish(result *Result, x dynamo.State, initialEnergy float64) {
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(s.computeEnergy(x)-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) computeEnergy(x dynamo.State) float64 {
	if h, ok := s.dyn.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
