package physics

import (
	"math"
	"testing"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/integrators"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()
	p.Friction = 0

	dx := p.Derive(dynamo.State{0, 0}, 0)

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Friction = 0

	dx := p.Derive(dynamo.State{math.Pi / 2, 0}, 0)

	expectedAccel := -p.Gravity / p.Length
	if math.Abs(dx[1]-expectedAccel) > 1e-9 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}

func TestPendulumExternalForce(t *testing.T) {
	p := &Pendulum{Gravity: 9.81, Length: 2, Mass: 0.5, Amplitude: 1.5, Frequency: 3}

	tm := 0.7
	dx := p.Derive(dynamo.State{0, 0}, tm)

	want := 1.5 / (0.5 * 4) * math.Cos(3*tm)
	if math.Abs(dx[1]-want) > 1e-12 {
		t.Errorf("expected forcing %f, got %f", want, dx[1])
	}
}

func TestPendulumEnergyConservedByRK4(t *testing.T) {
	p := &Pendulum{Gravity: 9.81, Length: 1, Mass: 1}
	x0 := dynamo.State{math.Pi / 18, 0}

	span := dynamo.Span{T0: 0, T1: 6 * math.Pi, Steps: 1900}
	if span.Step() > 0.01 {
		t.Fatalf("step %g too large for this check", span.Step())
	}

	traj, err := integrators.Integrate(integrators.NewRK4(), p, x0, span)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	_, final := traj.Final()
	drift := math.Abs(p.Energy(final) - p.Energy(x0))
	if drift >= 1e-3 {
		t.Errorf("energy drift %.3e exceeds 1e-3", drift)
	}
}

func TestPendulumFrictionDissipates(t *testing.T) {
	p := NewPendulum()
	p.Friction = 0.5
	x0 := dynamo.State{math.Pi / 6, 0}

	traj, err := integrators.Integrate(integrators.NewRK4(), p, x0, dynamo.Span{T0: 0, T1: 20, Steps: 2000})
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	_, final := traj.Final()
	if p.Energy(final) >= p.Energy(x0)*0.1 {
		t.Errorf("expected strong dissipation, energy %f -> %f", p.Energy(x0), p.Energy(final))
	}
}

func TestPendulumSetParam(t *testing.T) {
	p := NewPendulum()
	if err := p.SetParam("frequency", 3.13); err != nil {
		t.Fatal(err)
	}
	if p.GetParams()["frequency"] != 3.13 {
		t.Error("frequency not applied")
	}
	if err := p.SetParam("bogus", 1); err == nil {
		t.Error("expected error for unknown param")
	}
	p.Length = 0
	if err := p.Validate(); err == nil {
		t.Error("expected validation error for zero length")
	}
}
