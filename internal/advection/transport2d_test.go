package advection_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/swarm"
)

func front(x, y float64) float64 { return math.Atan((y - 0.5) / 0.1) }

var _ = Describe("Transport2D", func() {
	var grid advection.Grid2D

	BeforeEach(func() {
		grid = advection.Grid2D{NX: 41, NY: 41, LX: 1, LY: 1, CFL: 0.5}
	})

	It("derives the step from the largest velocity components", func() {
		tr, err := advection.NewTransport2D(grid, swarm.CellularVelocity, front)
		Expect(err).NotTo(HaveOccurred())

		want := 0.5 / (math.Pi/grid.Dx() + 2*math.Pi/grid.Dy())
		Expect(tr.Dt).To(BeNumerically("~", want, 1e-12))
	})

	It("keeps the boundary frozen", func() {
		tr, err := advection.NewTransport2D(grid, swarm.CellularVelocity, front)
		Expect(err).NotTo(HaveOccurred())
		initial := tr.Field()

		Expect(tr.RunUntil(0.2)).To(Succeed())
		Expect(tr.Time).To(BeNumerically("~", 0.2, tr.Dt))

		for i := 0; i < grid.NX; i++ {
			for _, j := range []int{0, grid.NY - 1} {
				Expect(tr.At(i, j)).To(Equal(initial[i*grid.NY+j]))
			}
		}
		for j := 0; j < grid.NY; j++ {
			for _, i := range []int{0, grid.NX - 1} {
				Expect(tr.At(i, j)).To(Equal(initial[i*grid.NY+j]))
			}
		}
	})

	It("stays within the initial range", func() {
		tr, err := advection.NewTransport2D(grid, swarm.CellularVelocity, front)
		Expect(err).NotTo(HaveOccurred())
		lo, hi := math.Atan(-5), math.Atan(5)

		tr.Run(200)
		for _, c := range tr.C {
			Expect(c).To(And(BeNumerically(">=", lo-1e-12), BeNumerically("<=", hi+1e-12)))
		}
		Expect(tr.Steps()).To(Equal(200))
	})

	It("picks the upwind neighbour from the velocity sign", func() {
		step := func(x, y float64) float64 {
			if x < 0.5 {
				return 1
			}
			return 0
		}
		right := func(x, y float64) (float64, float64) { return 1, 0 }
		left := func(x, y float64) (float64, float64) { return -1, 0 }

		g := advection.Grid2D{NX: 11, NY: 5, LX: 1, LY: 1, CFL: 1}
		tr, err := advection.NewTransport2D(g, right, step)
		Expect(err).NotTo(HaveOccurred())
		tr.Step()
		// front moves one cell to the right
		Expect(tr.At(5, 2)).To(BeNumerically("~", 1, 1e-12))
		Expect(tr.At(6, 2)).To(BeNumerically("~", 0, 1e-12))

		tr, err = advection.NewTransport2D(g, left, step)
		Expect(err).NotTo(HaveOccurred())
		tr.Step()
		Expect(tr.At(4, 2)).To(BeNumerically("~", 0, 1e-12))
		Expect(tr.At(3, 2)).To(BeNumerically("~", 1, 1e-12))
	})

	It("rejects non-finite targets without stepping", func() {
		tr, err := advection.NewTransport2D(grid, swarm.CellularVelocity, front)
		Expect(err).NotTo(HaveOccurred())

		Expect(tr.RunUntil(math.Inf(1))).To(MatchError(dynamo.ErrParameterBounds))
		Expect(tr.RunUntil(math.NaN())).To(MatchError(dynamo.ErrParameterBounds))
		Expect(tr.Steps()).To(Equal(0))
	})

	It("rejects still fields and tiny grids", func() {
		still := func(x, y float64) (float64, float64) { return 0, 0 }
		_, err := advection.NewTransport2D(grid, still, front)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))

		_, err = advection.NewTransport2D(advection.Grid2D{NX: 2, NY: 2, LX: 1, LY: 1, CFL: 1}, swarm.CellularVelocity, front)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})
