package metrics

import (
	"math"
	"testing"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/physics"
)

func TestEnergyMean(t *testing.T) {
	p := physics.NewPendulum()
	m := NewEnergy(p)

	theta := math.Pi / 4
	x := dynamo.State{theta, 0}

	m.Observe(x, 0)
	expected := 9.81 * (1 - math.Cos(theta))

	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	p := physics.NewPendulum()
	m := NewEnergyDrift(p)

	m.Observe(dynamo.State{0, 1}, 0)
	m.Observe(dynamo.State{0, 1.1}, 1)
	m.Observe(dynamo.State{0, 1.0}, 2)

	want := (0.5*1.21 - 0.5) / 0.5
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected drift %f, got %f", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyDriftIgnoresNonHamiltonian(t *testing.T) {
	f := dynamo.SystemFunc(func(t float64, x dynamo.State) dynamo.State { return x })
	m := NewEnergyDrift(f)
	m.Observe(dynamo.State{1}, 0)
	m.Observe(dynamo.State{5}, 1)

	if m.Value() != 0 {
		t.Errorf("expected no drift for non-hamiltonian system, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	s.Observe(dynamo.State{1, 2}, 0)
	s.Observe(dynamo.State{1, 20}, 1)
	s.Observe(dynamo.State{math.NaN(), 0}, 2)
	s.Observe(dynamo.State{0, 0}, 3)

	if math.Abs(s.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", s.Value())
	}
}

func TestMaxAbs(t *testing.T) {
	m := NewMaxAbs()
	m.Observe(dynamo.State{1, -7}, 0)
	m.Observe(dynamo.State{3, 2}, 1)
	if m.Value() != 7 {
		t.Errorf("expected 7, got %f", m.Value())
	}

	m.Observe(dynamo.State{math.NaN()}, 2)
	m.Observe(dynamo.State{100}, 3)
	if !math.IsNaN(m.Value()) {
		t.Errorf("expected NaN to stick, got %f", m.Value())
	}
}

func TestSpeedDeviation(t *testing.T) {
	s := NewSpeedDeviation(2)
	s.Observe(dynamo.State{0, 0, 1, 0}, 0)
	s.Observe(dynamo.State{0, 0, 0, 1.01}, 1)

	if math.Abs(s.Value()-0.0201) > 1e-12 {
		t.Errorf("expected 0.0201, got %f", s.Value())
	}
}

func TestDefaultMetrics(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Default(physics.NewPendulum()) {
		names[m.Name()] = true
	}
	if !names["energy_drift"] || !names["max_abs"] || !names["stability"] {
		t.Errorf("unexpected default metrics %v", names)
	}

	for _, m := range Default(physics.NewHeater()) {
		if m.Name() == "energy_drift" {
			t.Error("heater has no conserved energy")
		}
	}
}
