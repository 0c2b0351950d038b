// Package swarm advances a fixed-size collection of independent particles
// through a shared velocity field with a batched fourth-order Runge-Kutta step.
//
// Positions live in one flat slice of N*dim values, particle i occupying
// [i*dim, (i+1)*dim). The field is evaluated for the whole swarm at once, four
// times per step. Each particle may carry a passive concentration assigned at
// creation; stepping never reads or writes it, so index i always pairs the
// same position with the same concentration.
//
// With turbulence enabled every stage evaluation is perturbed by a fresh
// uniform draw, which makes runs seed-dependent and drops the method to low
// order. That is a stochastic-forcing mode, not a proper stochastic RK scheme.
package swarm
