package advection

import (
	"fmt"
	"math"
	"sort"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

type Scheme string

const (
	SchemeUpwind   Scheme = "upwind"
	SchemeImplicit Scheme = "implicit"
)

func ParseScheme(name string) (Scheme, error) {
	switch Scheme(name) {
	case SchemeUpwind, SchemeImplicit:
		return Scheme(name), nil
	}
	return "", fmt.Errorf("unknown scheme: %s", name)
}

// NewStepper builds the stepper for scheme on an n-point periodic grid.
func NewStepper(scheme Scheme, n int, nu float64) (Stepper, error) {
	switch scheme {
	case SchemeUpwind:
		return Upwind{Nu: nu}, nil
	case SchemeImplicit:
		return NewImplicitCentered(n, nu)
	}
	return nil, fmt.Errorf("unknown scheme: %s", scheme)
}

// History is the field after every step, row 0 being the initial condition.
type History struct {
	Scheme Scheme      `json:"scheme"`
	Dx     float64     `json:"dx"`
	Dt     float64     `json:"dt"`
	Nu     float64     `json:"nu"`
	Rows   [][]float64 `json:"rows"`
}

func (h *History) Len() int { return len(h.Rows) }

func (h *History) Snapshot(n int) []float64 { return h.Rows[n] }

func (h *History) Time(n int) float64 { return float64(n) * h.Dt }

func (h *History) Final() []float64 { return h.Rows[len(h.Rows)-1] }

// Mass is Σ u_i·dx of row n.
func (h *History) Mass(n int) float64 { return floats.Sum(h.Rows[n]) * h.Dx }

// MaxAbs is max |u_i| of row n.
func (h *History) MaxAbs(n int) float64 { return floats.Norm(h.Rows[n], math.Inf(1)) }

// Solve advances u0 by steps steps with the given scheme and Courant number.
// dx and dt are recorded on the history for mass and time bookkeeping.
func Solve(u0 []float64, scheme Scheme, nu, dx, dt float64, steps int) (*History, error) {
	if len(u0) == 0 {
		return nil, dynamo.ErrEmptyState
	}
	if steps < 0 {
		return nil, fmt.Errorf("%w, got %d", dynamo.ErrInvalidSteps, steps)
	}
	st, err := NewStepper(scheme, len(u0), nu)
	if err != nil {
		return nil, err
	}

	h := &History{Scheme: scheme, Dx: dx, Dt: dt, Nu: nu, Rows: make([][]float64, 0, steps+1)}
	cur := append([]float64(nil), u0...)
	h.Rows = append(h.Rows, cur)
	for n := 0; n < steps; n++ {
		next := make([]float64, len(cur))
		if err := st.Step(next, cur); err != nil {
			return h, &dynamo.SimulationError{Step: n, Time: float64(n) * dt, Wrapped: err}
		}
		h.Rows = append(h.Rows, next)
		cur = next
	}
	return h, nil
}

// SolveGrid samples ic on g and runs every requested scheme for duration.
func SolveGrid(g Grid, ic InitialCondition, duration float64, schemes ...Scheme) (map[Scheme]*History, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(schemes) == 0 {
		schemes = []Scheme{SchemeUpwind, SchemeImplicit}
	}
	u0 := Sample(ic, g)
	steps := g.Steps(duration)

	out := make(map[Scheme]*History, len(schemes))
	for _, sc := range schemes {
		h, err := Solve(u0, sc, g.Nu(), g.Dx(), g.Dt(), steps)
		if err != nil {
			return nil, err
		}
		out[sc] = h
	}
	return out, nil
}

// Schemes lists the keys of a result map in a stable order.
func Schemes(m map[Scheme]*History) []Scheme {
	keys := make([]Scheme, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
