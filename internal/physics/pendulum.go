package physics

import (
	"fmt"
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

// Pendulum is a point mass on a rigid rod with linear friction and a
// harmonic external torque A*cos(Frequency*t). State is [theta, omega].
type Pendulum struct {
	Gravity   float64 `yaml:"gravity"`
	Length    float64 `yaml:"length"`
	Mass      float64 `yaml:"mass"`
	Friction  float64 `yaml:"friction"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Gravity:  9.81,
		Length:   1.0,
		Mass:     1.0,
		Friction: 1.0,
	}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	inertia := p.Mass * p.Length * p.Length
	alpha := -p.Friction/inertia*omega -
		p.Gravity/p.Length*math.Sin(theta) +
		p.Amplitude/inertia*math.Cos(p.Frequency*t)

	return dynamo.State{omega, alpha}
}

// Energy is the specific mechanical energy ½ω² + (g/l)(1 - cos θ).
func (p *Pendulum) Energy(x dynamo.State) float64 {
	return 0.5*x[1]*x[1] + p.Gravity/p.Length*(1.0-math.Cos(x[0]))
}

// NaturalFrequency is sqrt(g/l), the small-angle angular frequency.
func (p *Pendulum) NaturalFrequency() float64 {
	return math.Sqrt(p.Gravity / p.Length)
}

func (p *Pendulum) Validate() error {
	if p.Length <= 0 || p.Mass <= 0 {
		return fmt.Errorf("%w: pendulum length and mass must be positive", dynamo.ErrParameterBounds)
	}
	return nil
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":   p.Gravity,
		"length":    p.Length,
		"mass":      p.Mass,
		"friction":  p.Friction,
		"amplitude": p.Amplitude,
		"frequency": p.Frequency,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		p.Gravity = value
	case "length":
		p.Length = value
	case "mass":
		p.Mass = value
	case "friction":
		p.Friction = value
	case "amplitude":
		p.Amplitude = value
	case "frequency":
		p.Frequency = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
