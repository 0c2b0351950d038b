package advection

import (
	"fmt"
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Grid describes a 1-D domain of Points nodes spanning [0, Length] advected
// at Speed. The time step is derived from the Courant number.
type Grid struct {
	Length  float64 `yaml:"length" json:"length"`
	Points  int     `yaml:"points" json:"points"`
	Speed   float64 `yaml:"speed" json:"speed"`
	Courant float64 `yaml:"courant" json:"courant"`
}

func DefaultGrid() Grid {
	return Grid{Length: 2.0, Points: 201, Speed: 1, Courant: 0.9}
}

func (g Grid) Validate() error {
	if g.Points < 2 {
		return fmt.Errorf("%w: need at least 2 grid points, got %d", dynamo.ErrParameterBounds, g.Points)
	}
	if !(g.Length > 0) || !(g.Speed > 0) || !(g.Courant > 0) {
		return fmt.Errorf("%w: length, speed and courant must be positive", dynamo.ErrParameterBounds)
	}
	return nil
}

func (g Grid) Dx() float64 { return g.Length / float64(g.Points-1) }
func (g Grid) Dt() float64 { return g.Courant * g.Dx() / g.Speed }
func (g Grid) Nu() float64 { return g.Speed * g.Dt() / g.Dx() }

// Steps is the number of whole steps that fit into duration.
func (g Grid) Steps(duration float64) int {
	return int(duration / g.Dt())
}

// X returns the node coordinates.
func (g Grid) X() []float64 {
	return floats.Span(make([]float64, g.Points), 0, g.Length)
}

// InitialCondition maps a node coordinate and domain length to a value.
type InitialCondition func(x, length float64) float64

// Box is 2 on [L/4, L/2] and 1 elsewhere.
func Box(x, length float64) float64 {
	if x >= length/4 && x <= length/2 {
		return 2
	}
	return 1
}

// Gaussian is a bell centred at L/2 with width L/10.
func Gaussian(x, length float64) float64 {
	z := (x - length/2) / (length / 10)
	return math.Exp(-z * z)
}

// Sine is one full period around a mean of 1.5.
func Sine(x, length float64) float64 {
	return 1.5 + 0.5*math.Sin(2*math.Pi*x/length)
}

var InitialConditions = map[string]InitialCondition{
	"box":      Box,
	"gaussian": Gaussian,
	"sine":     Sine,
}

// Sample evaluates ic on every node of g.
func Sample(ic InitialCondition, g Grid) []float64 {
	xs := g.X()
	u := make([]float64, len(xs))
	for i, x := range xs {
		u[i] = ic(x, g.Length)
	}
	return u
}
