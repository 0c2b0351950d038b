package advection

import (
	"fmt"
	"math"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
)

// Grid2D covers [0, LX] x [0, LY] with NX x NY nodes.
type Grid2D struct {
	NX  int     `yaml:"nx" json:"nx"`
	NY  int     `yaml:"ny" json:"ny"`
	LX  float64 `yaml:"lx" json:"lx"`
	LY  float64 `yaml:"ly" json:"ly"`
	CFL float64 `yaml:"cfl" json:"cfl"`
}

func DefaultGrid2D() Grid2D {
	return Grid2D{NX: 101, NY: 101, LX: 1, LY: 1, CFL: 0.5}
}

func (g Grid2D) Dx() float64 { return g.LX / float64(g.NX-1) }
func (g Grid2D) Dy() float64 { return g.LY / float64(g.NY-1) }

func (g Grid2D) Validate() error {
	if g.NX < 3 || g.NY < 3 {
		return fmt.Errorf("%w: 2-D grid needs at least 3x3 nodes, got %dx%d", dynamo.ErrParameterBounds, g.NX, g.NY)
	}
	if !(g.LX > 0) || !(g.LY > 0) || !(g.CFL > 0) {
		return fmt.Errorf("%w: extents and CFL must be positive", dynamo.ErrParameterBounds)
	}
	return nil
}

// VelocityFunc samples a steady velocity field at a point.
type VelocityFunc func(x, y float64) (float64, float64)

// ScalarFunc samples an initial concentration at a point.
type ScalarFunc func(x, y float64) float64

// Transport2D carries a scalar through a steady velocity field with
// dimension-split upwind differences. Arrays are indexed k = i*NY + j with i
// along x. Boundary nodes keep their initial values.
type Transport2D struct {
	Grid Grid2D
	U, V []float64
	C    []float64
	Dt   float64
	Time float64

	steps int
}

func NewTransport2D(g Grid2D, vel VelocityFunc, c0 ScalarFunc) (*Transport2D, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	n := g.NX * g.NY
	tr := &Transport2D{
		Grid: g,
		U:    make([]float64, n),
		V:    make([]float64, n),
		C:    make([]float64, n),
	}

	dx, dy := g.Dx(), g.Dy()
	maxU, maxV := 0.0, 0.0
	for i := 0; i < g.NX; i++ {
		x := float64(i) * dx
		for j := 0; j < g.NY; j++ {
			y := float64(j) * dy
			k := i*g.NY + j
			tr.U[k], tr.V[k] = vel(x, y)
			tr.C[k] = c0(x, y)
			maxU = math.Max(maxU, math.Abs(tr.U[k]))
			maxV = math.Max(maxV, math.Abs(tr.V[k]))
		}
	}

	rate := maxU/dx + maxV/dy
	if rate == 0 {
		return nil, fmt.Errorf("%w: velocity field is zero everywhere", dynamo.ErrParameterBounds)
	}
	tr.Dt = g.CFL / rate
	return tr, nil
}

func (tr *Transport2D) Steps() int { return tr.steps }

// Step advances the interior by one upwind step.
func (tr *Transport2D) Step() {
	g := tr.Grid
	nx, ny := g.NX, g.NY
	cx, cy := tr.Dt/g.Dx(), tr.Dt/g.Dy()
	c := tr.C
	next := make([]float64, len(c))
	copy(next, c)

	for i := 1; i < nx-1; i++ {
		for j := 1; j < ny-1; j++ {
			k := i*ny + j
			u, v := tr.U[k], tr.V[k]

			var ddx, ddy float64
			if u > 0 {
				ddx = c[k] - c[k-ny]
			} else {
				ddx = c[k+ny] - c[k]
			}
			if v > 0 {
				ddy = c[k] - c[k-1]
			} else {
				ddy = c[k+1] - c[k]
			}

			next[k] = c[k] - cx*u*ddx - cy*v*ddy
		}
	}

	tr.C = next
	tr.steps++
	tr.Time = float64(tr.steps) * tr.Dt
}

// Run advances by a fixed number of steps.
func (tr *Transport2D) Run(steps int) {
	for i := 0; i < steps; i++ {
		tr.Step()
	}
}

// RunUntil steps until Time is within half a step of target.
func (tr *Transport2D) RunUntil(target float64) error {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return fmt.Errorf("%w: transport target %g", dynamo.ErrParameterBounds, target)
	}
	for tr.Time < target-0.5*tr.Dt {
		tr.Step()
	}
	return nil
}

// Field returns a copy of the concentration.
func (tr *Transport2D) Field() []float64 {
	return append([]float64(nil), tr.C...)
}

// At returns the concentration at node (i, j).
func (tr *Transport2D) At(i, j int) float64 {
	return tr.C[i*tr.Grid.NY+j]
}
