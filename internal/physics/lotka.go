package physics

import (
	"fmt"
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

// LotkaVolterra is the classic predator-prey model. State is [prey, predators].
type LotkaVolterra struct {
	A float64 `yaml:"a"` // prey birth rate
	B float64 `yaml:"b"` // predation rate
	C float64 `yaml:"c"` // predator growth per prey eaten
	D float64 `yaml:"d"` // predator death rate
}

func NewLotkaVolterra() *LotkaVolterra {
	return &LotkaVolterra{A: 1.1, B: 0.4, C: 0.4, D: 0.4}
}

func (l *LotkaVolterra) StateDim() int { return 2 }

func (l *LotkaVolterra) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y := s[0], s[1]
	return dynamo.State{
		l.A*x - l.B*x*y,
		l.C*x*y - l.D*y,
	}
}

// Energy returns the first integral c·x - d·ln x + b·y - a·ln y, constant
// along every orbit in the positive quadrant.
func (l *LotkaVolterra) Energy(s dynamo.State) float64 {
	x, y := s[0], s[1]
	return l.C*x - l.D*math.Log(x) + l.B*y - l.A*math.Log(y)
}

// Equilibrium is the non-trivial fixed point (d/c, a/b).
func (l *LotkaVolterra) Equilibrium() dynamo.State {
	return dynamo.State{l.D / l.C, l.A / l.B}
}

func (l *LotkaVolterra) GetParams() map[string]float64 {
	return map[string]float64{"a": l.A, "b": l.B, "c": l.C, "d": l.D}
}

func (l *LotkaVolterra) SetParam(name string, value float64) error {
	switch name {
	case "a":
		l.A = value
	case "b":
		l.B = value
	case "c":
		l.C = value
	case "d":
		l.D = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
