package swarm

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// DefaultTurbulence is the half-width of the uniform turbulent kick.
const DefaultTurbulence = 0.5

type Stepper struct {
	Field      Field
	Dt         float64
	Turbulence bool
	// Amplitude is the half-width a of the U[-a, a] kick added to the first
	// two derivative components of every particle at every stage.
	Amplitude float64

	rng            *rand.Rand
	k1, k2, k3, k4 []float64
	scratch        []float64
}

type Option func(*Stepper)

// WithTurbulence enables stochastic forcing drawn from a source seeded with seed.
func WithTurbulence(seed int64) Option {
	return func(s *Stepper) {
		s.Turbulence = true
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand enables stochastic forcing drawn from rng.
func WithRand(rng *rand.Rand) Option {
	return func(s *Stepper) {
		s.Turbulence = true
		s.rng = rng
	}
}

func WithAmplitude(a float64) Option {
	return func(s *Stepper) { s.Amplitude = a }
}

func NewStepper(field Field, dt float64, opts ...Option) (*Stepper, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: nil velocity field", dynamo.ErrParameterBounds)
	}
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, dt)
	}
	s := &Stepper{Field: field, Dt: dt, Amplitude: DefaultTurbulence}
	for _, opt := range opts {
		opt(s)
	}
	if s.Turbulence && s.rng == nil {
		s.rng = rand.New(rand.NewSource(1))
	}
	return s, nil
}

func (st *Stepper) ensureScratch(n int) {
	if len(st.k1) != n {
		st.k1 = make([]float64, n)
		st.k2 = make([]float64, n)
		st.k3 = make([]float64, n)
		st.k4 = make([]float64, n)
		st.scratch = make([]float64, n)
	}
}

func (st *Stepper) velocity(dst, pos []float64, t float64) {
	st.Field.Velocity(dst, pos, t)
	if !st.Turbulence {
		return
	}
	dim := st.Field.Dim()
	for i := 0; i < len(dst); i += dim {
		dst[i] += st.Amplitude * (2*st.rng.Float64() - 1)
		dst[i+1] += st.Amplitude * (2*st.rng.Float64() - 1)
	}
}

// StepSwarm performs one batched RK4 step of size Dt starting at time t and
// returns the new positions. The input slice is left untouched.
func (st *Stepper) StepSwarm(positions []float64, t float64) ([]float64, error) {
	n := len(positions)
	if n == 0 {
		return nil, dynamo.ErrEmptyState
	}
	if dim := st.Field.Dim(); n%dim != 0 {
		return nil, fmt.Errorf("%w: %d position values for particle dimension %d", dynamo.ErrDimensionMismatch, n, dim)
	}
	st.ensureScratch(n)
	dt := st.Dt
	half := 0.5 * dt

	st.velocity(st.k1, positions, t)

	floats.AddScaledTo(st.scratch, positions, half, st.k1)
	st.velocity(st.k2, st.scratch, t+half)

	floats.AddScaledTo(st.scratch, positions, half, st.k2)
	st.velocity(st.k3, st.scratch, t+half)

	floats.AddScaledTo(st.scratch, positions, dt, st.k3)
	st.velocity(st.k4, st.scratch, t+dt)

	next := make([]float64, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		next[i] = positions[i] + dt6*(st.k1[i]+2*st.k2[i]+2*st.k3[i]+st.k4[i])
	}
	return next, nil
}

func (st *Stepper) check(s *Swarm) error {
	if s.Dim != st.Field.Dim() {
		return dynamo.DimensionError("particle", st.Field.Dim(), s.Dim)
	}
	return nil
}

// Step advances the swarm by one step. Positions are replaced, never
// modified in place, so earlier snapshots stay valid.
func (st *Stepper) Step(s *Swarm) error {
	if err := st.check(s); err != nil {
		return err
	}
	return st.advance(s)
}

func (st *Stepper) advance(s *Swarm) error {
	next, err := st.StepSwarm(s.Positions, s.Time)
	if err != nil {
		return err
	}
	s.Positions = next
	s.steps++
	s.Time = s.start + float64(s.steps)*st.Dt
	return nil
}

// SnapshotAt steps until the swarm time is within half a step of target, or
// beyond it, and returns a copy of the settled state.
func (st *Stepper) SnapshotAt(s *Swarm, target float64) (Snapshot, error) {
	if err := st.check(s); err != nil {
		return Snapshot{}, err
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return Snapshot{}, fmt.Errorf("%w: snapshot target %g", dynamo.ErrParameterBounds, target)
	}
	tol := 0.5 * st.Dt
	if target < s.Time-tol {
		return Snapshot{}, fmt.Errorf("%w: target %g, swarm at %g", dynamo.ErrPastTarget, target, s.Time)
	}
	for s.Time < target-tol {
		if err := st.advance(s); err != nil {
			return Snapshot{}, err
		}
	}
	return s.Snapshot(), nil
}

// Run collects snapshots at each of the ascending target times.
func (st *Stepper) Run(s *Swarm, targets []float64) ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(targets))
	for _, target := range targets {
		snap, err := st.SnapshotAt(s, target)
		if err != nil {
			return out, err
		}
		out = append(out, snap)
	}
	return out, nil
}
