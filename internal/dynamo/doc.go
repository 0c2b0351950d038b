// Package dynamo provides the primitives shared by every integrator in the lab.
//
// The package defines the fundamental types for fixed-step numerical
// integration of ordinary differential equations dX/dt = f(t, X):
//
//   - [State]: vector representing the instantaneous configuration
//   - [System]: pure derivative function with a fixed evaluate(t, state) contract
//   - [SystemFunc]: adapter turning a plain function into a [System]
//   - [Span]: integration interval and step count
//   - [Trajectory]: ordered (time, state) history produced by a run
//
// # Example
//
//	f := dynamo.SystemFunc(func(t float64, x dynamo.State) dynamo.State {
//		return dynamo.State{x[1], -math.Sin(x[0])}
//	})
//	traj, err := integrators.Integrate(integrators.NewRK4(), f, x0, dynamo.Span{T0: 0, T1: 10, Steps: 1000})
//
// # Thread Safety
//
// Systems are expected to be pure and may be shared. Integrators keep scratch
// buffers and must not be shared between goroutines.
package dynamo
