package advection_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/advection"
	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

func sampled(ic advection.InitialCondition, n int) []float64 {
	g := advection.Grid{Length: 2, Points: n, Speed: 1, Courant: 1}
	return advection.Sample(ic, g)
}

var _ = Describe("Grid", func() {
	It("derives spacing, step and Courant number from configuration", func() {
		g := advection.DefaultGrid()
		Expect(g.Validate()).To(Succeed())
		Expect(g.Dx()).To(BeNumerically("~", 0.01, 1e-15))
		Expect(g.Dt()).To(BeNumerically("~", 0.009, 1e-15))
		Expect(g.Nu()).To(BeNumerically("~", 0.9, 1e-12))
		Expect(g.Steps(4.0)).To(Equal(444))

		xs := g.X()
		Expect(xs).To(HaveLen(201))
		Expect(xs[0]).To(Equal(0.0))
		Expect(xs[200]).To(BeNumerically("~", 2.0, 1e-15))
	})

	It("rejects degenerate grids", func() {
		Expect(advection.Grid{Length: 1, Points: 1, Speed: 1, Courant: 1}.Validate()).To(MatchError(dynamo.ErrParameterBounds))
		Expect(advection.Grid{Length: 1, Points: 10, Speed: 0, Courant: 1}.Validate()).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("samples the reference initial conditions", func() {
		Expect(advection.Box(0.75, 2)).To(Equal(2.0))
		Expect(advection.Box(1.5, 2)).To(Equal(1.0))
		Expect(advection.Gaussian(1, 2)).To(Equal(1.0))
		Expect(advection.Sine(0.5, 2)).To(BeNumerically("~", 2.0, 1e-15))
		Expect(advection.InitialConditions).To(HaveKey("gaussian"))
	})
})

var _ = Describe("Explicit upwind", func() {
	It("shifts the profile by exactly one cell per step at ν = 1", func() {
		u := sampled(advection.Gaussian, 40)
		next := make([]float64, len(u))
		Expect(advection.StepExplicitUpwind(next, u, 1)).To(Succeed())

		Expect(next[0]).To(Equal(u[len(u)-1]))
		for i := 1; i < len(u); i++ {
			Expect(next[i]).To(Equal(u[i-1]))
		}
	})

	It("rejects empty and mismatched fields instead of indexing past them", func() {
		Expect(advection.StepExplicitUpwind(nil, nil, 0.5)).To(MatchError(dynamo.ErrEmptyState))
		Expect(advection.StepExplicitUpwind(make([]float64, 2), make([]float64, 3), 0.5)).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(advection.Upwind{Nu: 0.5}.Step(make([]float64, 4), make([]float64, 3))).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("returns exactly to the initial condition after one period at ν = 1", func() {
		for _, ic := range []advection.InitialCondition{advection.Box, advection.Gaussian, advection.Sine} {
			u0 := sampled(ic, 64)
			h, err := advection.Solve(u0, advection.SchemeUpwind, 1, 1, 1, len(u0))
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Final()).To(Equal(u0))
		}
	})

	It("stays bounded by the initial extremes for ν ≤ 1", func() {
		u0 := sampled(advection.Box, 101)
		h, err := advection.Solve(u0, advection.SchemeUpwind, 0.9, 0.02, 0.018, 300)
		Expect(err).NotTo(HaveOccurred())
		for n := 0; n < h.Len(); n++ {
			Expect(h.MaxAbs(n)).To(BeNumerically("<=", 2.0+1e-12))
		}
	})

	It("blows up for ν > 1", func() {
		u0 := sampled(advection.Box, 101)
		h, err := advection.Solve(u0, advection.SchemeUpwind, 1.5, 0.02, 0.03, 200)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.MaxAbs(h.Len() - 1)).To(BeNumerically(">", 1e6))
	})

	It("conserves mass on the periodic grid", func() {
		u0 := sampled(advection.Sine, 80)
		h, err := advection.Solve(u0, advection.SchemeUpwind, 0.7, 0.025, 0.0175, 150)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Mass(150)).To(BeNumerically("~", h.Mass(0), 1e-10))
	})
})

var _ = Describe("Implicit centered", func() {
	It("builds the circulant operator with periodic corners", func() {
		a := advection.BuildPeriodicOperator(5, 0.8)
		Expect(a.At(0, 0)).To(Equal(1.0))
		Expect(a.At(0, 1)).To(Equal(0.4))
		Expect(a.At(1, 0)).To(Equal(-0.4))
		Expect(a.At(0, 4)).To(Equal(-0.4))
		Expect(a.At(4, 0)).To(Equal(0.4))
		Expect(a.At(2, 4)).To(Equal(0.0))

		for i := 0; i < 5; i++ {
			row := 0.0
			for j := 0; j < 5; j++ {
				row += a.At(i, j)
			}
			Expect(row).To(BeNumerically("~", 1, 1e-15))
		}
	})

	It("matches a direct solve when reusing the factorization", func() {
		u := sampled(advection.Box, 30)
		ic, err := advection.NewImplicitCentered(30, 0.9)
		Expect(err).NotTo(HaveOccurred())

		viaLU := make([]float64, 30)
		Expect(ic.Step(viaLU, u)).To(Succeed())

		direct := make([]float64, 30)
		Expect(advection.StepImplicitCentered(direct, u, advection.BuildPeriodicOperator(30, 0.9))).To(Succeed())

		for i := range u {
			Expect(viaLU[i]).To(BeNumerically("~", direct[i], 1e-12))
		}
	})

	DescribeTable("conserves total mass for any Courant number",
		func(ic advection.InitialCondition, nu float64) {
			u0 := sampled(ic, 120)
			h, err := advection.Solve(u0, advection.SchemeImplicit, nu, 2.0/119, 0.01, 200)
			Expect(err).NotTo(HaveOccurred())
			m0 := h.Mass(0)
			for n := 1; n < h.Len(); n++ {
				Expect(h.Mass(n)).To(BeNumerically("~", m0, 1e-10*math.Abs(m0)))
			}
		},
		Entry("box, ν=0.5", advection.Box, 0.5),
		Entry("gaussian, ν=0.9", advection.Gaussian, 0.9),
		Entry("sine, ν=3", advection.Sine, 3.0),
		Entry("box, ν=10", advection.Box, 10.0),
	)

	It("stays bounded well past the explicit stability limit", func() {
		u0 := sampled(advection.Box, 101)
		h, err := advection.Solve(u0, advection.SchemeImplicit, 5, 0.02, 0.1, 500)
		Expect(err).NotTo(HaveOccurred())
		// the L2 norm never grows; the max norm may overshoot through dispersion
		norm0 := floats.Norm(h.Snapshot(0), 2)
		for n := 1; n < h.Len(); n++ {
			Expect(floats.Norm(h.Snapshot(n), 2)).To(BeNumerically("<=", norm0*(1+1e-12)))
		}
	})

	It("rejects fields of the wrong length", func() {
		ic, err := advection.NewImplicitCentered(10, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(ic.Step(make([]float64, 9), make([]float64, 9))).To(MatchError(dynamo.ErrDimensionMismatch))

		a := advection.BuildPeriodicOperator(4, 0.5)
		Expect(advection.StepImplicitCentered(make([]float64, 5), make([]float64, 5), a)).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(advection.StepImplicitCentered(make([]float64, 3), make([]float64, 4), a)).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(advection.StepImplicitCentered(nil, nil, a)).To(MatchError(dynamo.ErrEmptyState))

		_, err = advection.NewImplicitCentered(1, 0.5)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})

var _ = Describe("Solve", func() {
	It("records the initial condition and every step", func() {
		res, err := advection.SolveGrid(advection.DefaultGrid(), advection.Gaussian, 0.9)
		Expect(err).NotTo(HaveOccurred())
		Expect(advection.Schemes(res)).To(Equal([]advection.Scheme{advection.SchemeImplicit, advection.SchemeUpwind}))

		for _, h := range res {
			Expect(h.Len()).To(Equal(advection.DefaultGrid().Steps(0.9) + 1))
			Expect(h.Snapshot(0)).To(Equal(advection.Sample(advection.Gaussian, advection.DefaultGrid())))
			Expect(h.Time(h.Len() - 1)).To(BeNumerically("~", 0.9, 0.009))
		}
	})

	It("leaves earlier rows untouched", func() {
		u0 := sampled(advection.Box, 20)
		h, err := advection.Solve(u0, advection.SchemeUpwind, 0.5, 0.1, 0.05, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Snapshot(0)).To(Equal(u0))
		Expect(h.Snapshot(1)).NotTo(Equal(u0))

		u0[0] = 42
		Expect(h.Snapshot(0)[0]).NotTo(Equal(42.0))
	})

	It("fails fast on malformed input", func() {
		_, err := advection.Solve(nil, advection.SchemeUpwind, 0.5, 1, 1, 3)
		Expect(err).To(MatchError(dynamo.ErrEmptyState))

		_, err = advection.Solve([]float64{1, 2}, advection.SchemeUpwind, 0.5, 1, 1, -1)
		Expect(err).To(MatchError(dynamo.ErrInvalidSteps))

		_, err = advection.Solve([]float64{1, 2}, advection.Scheme("lax"), 0.5, 1, 1, 3)
		Expect(err).To(HaveOccurred())

		_, err = advection.ParseScheme("lax")
		Expect(err).To(HaveOccurred())
	})
})
