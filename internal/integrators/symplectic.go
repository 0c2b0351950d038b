package integrators

import "github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"

// SymplecticEuler expects the state laid out as [q..., p...] where the first
// half are coordinates and the second half their rates. The rates are
// advanced first and the coordinates move with the updated rates, which
// handles velocity-dependent forces such as Coriolis.
type SymplecticEuler struct {
	scratch dynamo.State
}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }

func (s *SymplecticEuler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2

	if len(s.scratch) != n {
		s.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx := dyn.Derive(x, t)

	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + dx[half+i]*dt
	}
	for i := 0; i < half; i++ {
		result[i] = x[i] + result[half+i]*dt
	}
	// odd trailing component has no partner; plain Euler
	for i := 2 * half; i < n; i++ {
		result[i] = x[i] + dx[i]*dt
	}

	return result
}
