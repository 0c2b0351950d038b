package swarm_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/integrators"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
)

func newCellularSwarm(n int, seed int64) *swarm.Swarm {
	pos := swarm.UniformSquare(n, rand.New(rand.NewSource(seed)))
	s, err := swarm.New(pos, 2, swarm.ArctanFront)
	Expect(err).NotTo(HaveOccurred())
	return s
}

// countingSource counts every value drawn from the wrapped source.
type countingSource struct {
	rand.Source
	draws int
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.Source.Int63()
}

func runSteps(st *swarm.Stepper, s *swarm.Swarm, n int) {
	for i := 0; i < n; i++ {
		Expect(st.Step(s)).To(Succeed())
	}
}

var _ = Describe("Swarm", func() {
	It("assigns concentration once from the initial position", func() {
		s, err := swarm.New([]float64{0.2, 0.5, 0.7, 0.6}, 2, swarm.ArctanFront)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Len()).To(Equal(2))
		Expect(s.Concentration[0]).To(BeNumerically("~", 0, 1e-15))
		Expect(s.Concentration[1]).To(BeNumerically("~", math.Atan(1), 1e-15))
	})

	It("rejects malformed position arrays", func() {
		_, err := swarm.New([]float64{1, 2, 3}, 2, nil)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))

		_, err = swarm.New(nil, 2, nil)
		Expect(err).To(MatchError(dynamo.ErrEmptyState))

		_, err = swarm.New([]float64{1}, 1, nil)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("seeds positions inside the unit square", func() {
		pos := swarm.UniformSquare(500, rand.New(rand.NewSource(7)))
		Expect(pos).To(HaveLen(1000))
		for _, v := range pos {
			Expect(v).To(And(BeNumerically(">=", 0), BeNumerically("<", 1)))
		}
	})
})

var _ = Describe("Stepper", func() {
	It("rejects invalid configuration", func() {
		_, err := swarm.NewStepper(swarm.CellularFlow{}, 0)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))

		_, err = swarm.NewStepper(nil, 0.1)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))

		st, err := swarm.NewStepper(swarm.CoriolisField{Omega: 1}, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Step(newCellularSwarm(4, 1))).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("matches the scalar RK4 integrator particle by particle", func() {
		s := newCellularSwarm(50, 3)
		initial := append([]float64(nil), s.Positions...)

		st, err := swarm.NewStepper(swarm.CellularFlow{}, 0.001)
		Expect(err).NotTo(HaveOccurred())
		runSteps(st, s, 100)

		single := dynamo.SystemFunc(func(t float64, x dynamo.State) dynamo.State {
			u, v := swarm.CellularVelocity(x[0], x[1])
			return dynamo.State{u, v}
		})
		for i := 0; i < s.Len(); i++ {
			x0 := dynamo.State{initial[2*i], initial[2*i+1]}
			traj, err := integrators.Integrate(integrators.NewRK4(), single, x0, dynamo.Span{T0: 0, T1: 0.1, Steps: 100})
			Expect(err).NotTo(HaveOccurred())
			_, final := traj.Final()
			Expect(s.Position(i)[0]).To(BeNumerically("~", final[0], 1e-12))
			Expect(s.Position(i)[1]).To(BeNumerically("~", final[1], 1e-12))
		}
	})

	It("never touches the concentration tags", func() {
		s := newCellularSwarm(200, 5)
		tags := append([]float64(nil), s.Concentration...)

		st, err := swarm.NewStepper(swarm.CellularFlow{}, 0.001, swarm.WithTurbulence(9))
		Expect(err).NotTo(HaveOccurred())
		runSteps(st, s, 50)

		Expect(s.Concentration).To(Equal(tags))
		Expect(s.Len()).To(Equal(200))
	})

	It("conserves speed for a single particle under pure Coriolis forcing", func() {
		s, err := swarm.New([]float64{0, 0, 1, 0}, 4, nil)
		Expect(err).NotTo(HaveOccurred())

		st, err := swarm.NewStepper(swarm.CoriolisField{Omega: 1}, 0.01)
		Expect(err).NotTo(HaveOccurred())

		maxDev := 0.0
		for i := 0; i < 500; i++ {
			Expect(st.Step(s)).To(Succeed())
			u, v := s.Positions[2], s.Positions[3]
			maxDev = math.Max(maxDev, math.Abs(u*u+v*v-1))
		}
		Expect(maxDev).To(BeNumerically("<", 1e-6))
	})

	It("lets particles leave the unit square", func() {
		s, err := swarm.New([]float64{0.9, 0.5}, 2, nil)
		Expect(err).NotTo(HaveOccurred())

		st, err := swarm.NewStepper(swarm.UniformFlow{U: 1}, 0.1)
		Expect(err).NotTo(HaveOccurred())
		runSteps(st, s, 10)

		Expect(s.Positions[0]).To(BeNumerically("~", 1.9, 1e-12))
	})

	It("does not modify the input slice of StepSwarm", func() {
		pos := []float64{0.25, 0.25}
		st, err := swarm.NewStepper(swarm.CellularFlow{}, 0.01)
		Expect(err).NotTo(HaveOccurred())

		next, err := st.StepSwarm(pos, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(pos).To(Equal([]float64{0.25, 0.25}))
		Expect(next).NotTo(Equal(pos))
	})

	It("rejects empty and ragged position arrays", func() {
		st, err := swarm.NewStepper(swarm.CellularFlow{}, 0.01, swarm.WithTurbulence(3))
		Expect(err).NotTo(HaveOccurred())

		_, err = st.StepSwarm(nil, 0)
		Expect(err).To(MatchError(dynamo.ErrEmptyState))

		_, err = st.StepSwarm([]float64{0.1, 0.2, 0.3}, 0)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	Context("turbulence", func() {
		const (
			n   = 50
			dt  = 0.01
			amp = 0.5
		)
		flow := swarm.UniformFlow{U: 0.3, V: -0.2}

		start := func() []float64 {
			return swarm.UniformSquare(n, rand.New(rand.NewSource(5)))
		}

		It("draws two values per particle at each of the four stages", func() {
			src := &countingSource{Source: rand.NewSource(9)}
			st, err := swarm.NewStepper(flow, dt, swarm.WithRand(rand.New(src)), swarm.WithAmplitude(amp))
			Expect(err).NotTo(HaveOccurred())

			pos := start()
			for step := 1; step <= 3; step++ {
				pos, err = st.StepSwarm(pos, float64(step-1)*dt)
				Expect(err).NotTo(HaveOccurred())
				Expect(src.draws).To(Equal(step * 4 * n * 2))
			}
		})

		It("adds an independent kick to every stage", func() {
			st, err := swarm.NewStepper(flow, dt, swarm.WithRand(rand.New(rand.NewSource(9))), swarm.WithAmplitude(amp))
			Expect(err).NotTo(HaveOccurred())
			pos := start()
			next, err := st.StepSwarm(pos, 0)
			Expect(err).NotTo(HaveOccurred())

			ref := rand.New(rand.NewSource(9))
			var k [4][]float64
			for s := range k {
				k[s] = make([]float64, 2*n)
				for i := 0; i < n; i++ {
					k[s][2*i] = flow.U + amp*(2*ref.Float64()-1)
					k[s][2*i+1] = flow.V + amp*(2*ref.Float64()-1)
				}
			}
			for i := range pos {
				want := pos[i] + dt/6*(k[0][i]+2*k[1][i]+2*k[2][i]+k[3][i])
				Expect(next[i]).To(BeNumerically("~", want, 1e-12))
			}
		})
	})

	Context("determinism", func() {
		run := func(opts ...swarm.Option) []float64 {
			s := newCellularSwarm(300, 11)
			st, err := swarm.NewStepper(swarm.CellularFlow{}, 0.001, opts...)
			Expect(err).NotTo(HaveOccurred())
			runSteps(st, s, 100)
			return s.Positions
		}

		It("reproduces bit-identical trajectories without turbulence", func() {
			Expect(run()).To(Equal(run()))
		})

		It("reproduces a turbulent run with the same seed", func() {
			Expect(run(swarm.WithTurbulence(42))).To(Equal(run(swarm.WithTurbulence(42))))
		})

		It("diverges for different turbulence seeds", func() {
			a := run(swarm.WithTurbulence(1))
			b := run(swarm.WithTurbulence(2))
			diff := 0.0
			for i := range a {
				diff = math.Max(diff, math.Abs(a[i]-b[i]))
			}
			Expect(diff).To(BeNumerically(">", 1e-4))
		})
	})

	Context("snapshots", func() {
		var (
			s  *swarm.Swarm
			st *swarm.Stepper
		)

		BeforeEach(func() {
			s = newCellularSwarm(100, 13)
			var err error
			st, err = swarm.NewStepper(swarm.CellularFlow{}, 0.001)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the initial state for target zero", func() {
			snap, err := st.SnapshotAt(s, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Step).To(Equal(0))
			Expect(snap.Positions).To(Equal(s.Positions))
		})

		It("stops within half a step of each target", func() {
			snaps, err := st.Run(s, []float64{0.1, 0.2, 0.3, 0.4})
			Expect(err).NotTo(HaveOccurred())
			Expect(snaps).To(HaveLen(4))
			for i, snap := range snaps {
				target := 0.1 * float64(i+1)
				Expect(snap.Time).To(BeNumerically("~", target, 0.0005))
				Expect(snap.Step).To(Equal(100 * (i + 1)))
			}
		})

		It("hands out copies that later steps do not disturb", func() {
			snap, err := st.SnapshotAt(s, 0.05)
			Expect(err).NotTo(HaveOccurred())
			kept := append([]float64(nil), snap.Positions...)

			runSteps(st, s, 20)
			Expect(snap.Positions).To(Equal(kept))
		})

		It("rejects non-finite targets without stepping", func() {
			_, err := st.SnapshotAt(s, math.Inf(1))
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))

			_, err = st.SnapshotAt(s, math.NaN())
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(s.Steps()).To(Equal(0))
		})

		It("refuses targets already passed", func() {
			_, err := st.SnapshotAt(s, 0.2)
			Expect(err).NotTo(HaveOccurred())

			_, err = st.SnapshotAt(s, 0.1)
			Expect(err).To(MatchError(dynamo.ErrPastTarget))
		})
	})
})
