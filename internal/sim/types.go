package sim

import "github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"

// Observer sees every settled state of a run, the initial one included.
type Observer interface {
	OnStep(x dynamo.State, t float64)
}

type ObserverFunc func(x dynamo.State, t float64)

func (f ObserverFunc) OnStep(x dynamo.State, t float64) { f(x, t) }

// StopFunc ends a run early once it returns true for a freshly stepped state.
type StopFunc func(x dynamo.State, t float64) bool

type Result struct {
	Trajectory  *dynamo.Trajectory
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Stopped     bool
}
