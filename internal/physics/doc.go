// Package physics provides the derivative functions of the lab exercises.
//
// Each model implements the [dynamo.System] interface with an explicit
// parameter struct, so the integrator never depends on exercise-specific
// parameter shapes:
//
//   - [Pendulum]: driven, damped pendulum
//   - [Coriolis]: particle on a rotating disk
//   - [LotkaVolterra]: predator-prey populations
//   - [Heater]: lumped thermal mass with convective and radiative loss
//
// Models with a conserved quantity implement [dynamo.Hamiltonian]:
//
//	dyn := physics.NewPendulum()
//	if h, ok := dyn.(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
