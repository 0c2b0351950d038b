package swarm

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

// ConcentrationFunc assigns the passive scalar from an initial position.
type ConcentrationFunc func(x, y float64) float64

// ArctanFront is a smooth front across y = 0.5.
func ArctanFront(x, y float64) float64 {
	return math.Atan((y - 0.5) / 0.1)
}

type Swarm struct {
	Dim           int
	Positions     []float64
	Concentration []float64
	Time          float64

	start float64
	steps int
}

// New builds a swarm over a copy of positions. conc may be nil, in which case
// every concentration is zero.
func New(positions []float64, dim int, conc ConcentrationFunc) (*Swarm, error) {
	if dim < 2 {
		return nil, fmt.Errorf("%w: particle dimension must be at least 2, got %d", dynamo.ErrParameterBounds, dim)
	}
	if len(positions) == 0 {
		return nil, dynamo.ErrEmptyState
	}
	if len(positions)%dim != 0 {
		return nil, fmt.Errorf("%w: %d values do not split into particles of %d", dynamo.ErrDimensionMismatch, len(positions), dim)
	}

	n := len(positions) / dim
	s := &Swarm{
		Dim:           dim,
		Positions:     append([]float64(nil), positions...),
		Concentration: make([]float64, n),
	}
	if conc != nil {
		for i := 0; i < n; i++ {
			s.Concentration[i] = conc(positions[i*dim], positions[i*dim+1])
		}
	}
	return s, nil
}

func (s *Swarm) Len() int { return len(s.Positions) / s.Dim }

// Position returns a view of particle i.
func (s *Swarm) Position(i int) []float64 {
	return s.Positions[i*s.Dim : (i+1)*s.Dim]
}

// Steps reports how many steps have been taken.
func (s *Swarm) Steps() int { return s.steps }

// UniformSquare draws n points uniformly from the unit square.
func UniformSquare(n int, rng *rand.Rand) []float64 {
	pos := make([]float64, 2*n)
	for i := range pos {
		pos[i] = rng.Float64()
	}
	return pos
}

// Snapshot is a settled copy of the swarm between steps.
type Snapshot struct {
	Time          float64   `json:"time"`
	Step          int       `json:"step"`
	Dim           int       `json:"dim"`
	Positions     []float64 `json:"positions"`
	Concentration []float64 `json:"concentration"`
}

func (s *Swarm) Snapshot() Snapshot {
	return Snapshot{
		Time:          s.Time,
		Step:          s.steps,
		Dim:           s.Dim,
		Positions:     append([]float64(nil), s.Positions...),
		Concentration: append([]float64(nil), s.Concentration...),
	}
}
