package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a pure derivative dX/dt = f(t, X). StateDim returns 0 when the
// system accepts any dimension.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// SystemFunc lets an ordinary function act as a System of any dimension.
type SystemFunc func(t float64, x State) State

func (f SystemFunc) Derive(x State, t float64) State { return f(t, x) }
func (f SystemFunc) StateDim() int                   { return 0 }

type Hamiltonian interface {
	Energy(x State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Span is the interval [T0, T1] split into Steps equal steps.
type Span struct {
	T0    float64 `yaml:"t0" json:"t0"`
	T1    float64 `yaml:"t1" json:"t1"`
	Steps int     `yaml:"steps" json:"steps"`
}

func (s Span) Validate() error {
	if s.Steps < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidSteps, s.Steps)
	}
	if !(s.T1 > s.T0) {
		return fmt.Errorf("%w, got [%g, %g]", ErrInvalidSpan, s.T0, s.T1)
	}
	return nil
}

func (s Span) Step() float64 {
	return (s.T1 - s.T0) / float64(s.Steps)
}

// SpanFromStep builds a span covering [t0, t0+duration] with steps of roughly dt.
func SpanFromStep(t0, duration, dt float64) Span {
	steps := int(math.Round(duration / dt))
	return Span{T0: t0, T1: t0 + duration, Steps: steps}
}

// Trajectory is the ordered (time, state) history of a run. Each stored
// state is an independent copy.
type Trajectory struct {
	Times  []float64
	States []State
}

func NewTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Times:  make([]float64, 0, capacity),
		States: make([]State, 0, capacity),
	}
}

func (tr *Trajectory) Append(t float64, x State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x.Clone())
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) At(i int) (float64, State) {
	return tr.Times[i], tr.States[i]
}

func (tr *Trajectory) Final() (float64, State) {
	return tr.At(tr.Len() - 1)
}

// Column extracts component j of every state.
func (tr *Trajectory) Column(j int) []float64 {
	col := make([]float64, len(tr.States))
	for i, s := range tr.States {
		if j < len(s) {
			col[i] = s[j]
		}
	}
	return col
}
