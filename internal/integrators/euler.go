package integrators

import (
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Euler is the explicit first-order method. Kept as the accuracy baseline
// the heater and rotating-disk exercises started from.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	result := make(dynamo.State, len(x))
	floats.AddScaledTo(result, x, dt, dyn.Derive(x, t))
	return result
}
