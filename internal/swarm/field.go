package swarm

import "math"

// Field is a vectorized velocity field. Velocity writes the time derivative
// of every particle in pos into dst; both slices hold N*Dim values.
type Field interface {
	Velocity(dst, pos []float64, t float64)
	Dim() int
}

// CellularFlow is the steady two-dimensional cellular flow on the unit square
// u = -π sin(2πx) cos(πy), v = 2π cos(2πx) sin(πy).
type CellularFlow struct{}

func (CellularFlow) Dim() int { return 2 }

func (CellularFlow) Velocity(dst, pos []float64, _ float64) {
	for i := 0; i+1 < len(pos); i += 2 {
		dst[i], dst[i+1] = CellularVelocity(pos[i], pos[i+1])
	}
}

// CellularVelocity evaluates the cellular flow at a single point. It is shared
// with the Eulerian solver, which samples it onto a grid.
func CellularVelocity(x, y float64) (float64, float64) {
	u := -math.Pi * math.Sin(2*math.Pi*x) * math.Cos(math.Pi*y)
	v := 2 * math.Pi * math.Cos(2*math.Pi*x) * math.Sin(math.Pi*y)
	return u, v
}

// CoriolisField moves particles with state [x, y, u, v] on a disk rotating
// at Omega.
type CoriolisField struct {
	Omega       float64
	Centrifugal bool
}

func (CoriolisField) Dim() int { return 4 }

func (c CoriolisField) Velocity(dst, pos []float64, _ float64) {
	w2 := 0.0
	if c.Centrifugal {
		w2 = c.Omega * c.Omega
	}
	for i := 0; i+3 < len(pos); i += 4 {
		x, y, u, v := pos[i], pos[i+1], pos[i+2], pos[i+3]
		dst[i] = u
		dst[i+1] = v
		dst[i+2] = 2*c.Omega*v + w2*x
		dst[i+3] = -2*c.Omega*u + w2*y
	}
}

// UniformFlow translates every particle with a constant velocity.
type UniformFlow struct {
	U, V float64
}

func (UniformFlow) Dim() int { return 2 }

func (f UniformFlow) Velocity(dst, pos []float64, _ float64) {
	for i := 0; i+1 < len(pos); i += 2 {
		dst[i], dst[i+1] = f.U, f.V
	}
}
