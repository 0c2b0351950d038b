package metrics

import "github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"

type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Default returns the metrics worth tracking for dyn.
func Default(dyn dynamo.System) []Metric {
	ms := []Metric{NewMaxAbs(), NewStability(1e6)}
	if _, ok := dyn.(dynamo.Hamiltonian); ok {
		ms = append(ms, NewEnergyDrift(dyn))
	}
	return ms
}
