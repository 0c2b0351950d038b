package integrators

import (
	"fmt"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

type Integrator interface {
	Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State
}

// Integrate advances x0 across span with a fixed step h = (T1-T0)/Steps and
// returns Steps+1 samples, the initial state included. Non-finite values are
// carried forward untouched.
func Integrate(integ Integrator, dyn dynamo.System, x0 dynamo.State, span dynamo.Span) (*dynamo.Trajectory, error) {
	if err := CheckInputs(dyn, x0, span); err != nil {
		return nil, err
	}

	h := span.Step()
	traj := dynamo.NewTrajectory(span.Steps + 1)
	x := x0.Clone()
	traj.Append(span.T0, x)

	for i := 1; i <= span.Steps; i++ {
		x = integ.Step(dyn, x, span.T0+float64(i-1)*h, h)
		traj.Append(span.T0+float64(i)*h, x)
	}

	return traj, nil
}

// CheckInputs validates the span and the state shape against the system.
func CheckInputs(dyn dynamo.System, x0 dynamo.State, span dynamo.Span) error {
	if err := span.Validate(); err != nil {
		return err
	}
	if len(x0) == 0 {
		return dynamo.ErrEmptyState
	}
	if dim := dyn.StateDim(); dim > 0 && dim != len(x0) {
		return dynamo.DimensionError("state", dim, len(x0))
	}
	return nil
}

func New(name string) (Integrator, error) {
	switch name {
	case "rk4", "":
		return NewRK4(), nil
	case "euler":
		return NewEuler(), nil
	case "symplectic":
		return NewSymplecticEuler(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func Names() []string {
	return []string{"euler", "rk4", "symplectic"}
}
