package physics

import (
	"fmt"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

// Coriolis describes a free particle seen from a disk rotating at Omega.
// State is [x, y, u, v]. Without the centrifugal term the speed u²+v² is an
// invariant and trajectories are circles of radius |V|/(2Ω).
type Coriolis struct {
	Omega       float64 `yaml:"omega"`
	Centrifugal bool    `yaml:"centrifugal"`
}

func NewCoriolis(omega float64) *Coriolis {
	return &Coriolis{Omega: omega}
}

func (c *Coriolis) StateDim() int { return 4 }

func (c *Coriolis) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y, u, v := s[0], s[1], s[2], s[3]
	ax := 2 * c.Omega * v
	ay := -2 * c.Omega * u
	if c.Centrifugal {
		w2 := c.Omega * c.Omega
		ax += w2 * x
		ay += w2 * y
	}
	return dynamo.State{u, v, ax, ay}
}

// Energy is the kinetic energy per unit mass in the rotating frame. It is
// conserved only when the centrifugal term is off.
func (c *Coriolis) Energy(s dynamo.State) float64 {
	return 0.5 * (s[2]*s[2] + s[3]*s[3])
}

// SpeedRatio returns E(t) = (u²+v²)/(u0²+v0²).
func SpeedRatio(s, s0 dynamo.State) float64 {
	v0 := s0[2]*s0[2] + s0[3]*s0[3]
	if v0 == 0 {
		return 1
	}
	return (s[2]*s[2] + s[3]*s[3]) / v0
}

// InsideDisk reports whether the particle is still within radius r.
func InsideDisk(s dynamo.State, r float64) bool {
	return s[0]*s[0]+s[1]*s[1] <= r*r
}

// CircleCenter is the centre of the inertial-free circular orbit,
// (x0 + v0/(2Ω), y0 - u0/(2Ω)).
func (c *Coriolis) CircleCenter(s0 dynamo.State) (float64, float64) {
	return s0[0] + s0[3]/(2*c.Omega), s0[1] - s0[2]/(2*c.Omega)
}

func (c *Coriolis) GetParams() map[string]float64 {
	centrifugal := 0.0
	if c.Centrifugal {
		centrifugal = 1
	}
	return map[string]float64{"omega": c.Omega, "centrifugal": centrifugal}
}

func (c *Coriolis) SetParam(name string, value float64) error {
	switch name {
	case "omega":
		c.Omega = value
	case "centrifugal":
		c.Centrifugal = value != 0
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
