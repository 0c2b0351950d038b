package advection

import (
	"fmt"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// StepExplicitUpwind writes u_i - ν(u_i - u_{i-1}) into dst, with u_{-1}
// taken from the last node. dst and u must not alias.
func StepExplicitUpwind(dst, u []float64, nu float64) error {
	n := len(u)
	if n == 0 {
		return dynamo.ErrEmptyState
	}
	if len(dst) != n {
		return dynamo.DimensionError("field", n, len(dst))
	}
	prev := u[n-1]
	for i := 0; i < n; i++ {
		// convex form keeps ν = 1 an exact shift
		dst[i] = (1-nu)*u[i] + nu*prev
		prev = u[i]
	}
	return nil
}

// BuildPeriodicOperator returns the circulant matrix of the implicit centered
// scheme: 1 on the diagonal, +ν/2 above, -ν/2 below, and the wrap-around
// corners A[0,n-1] = -ν/2, A[n-1,0] = +ν/2.
func BuildPeriodicOperator(n int, nu float64) *mat.Dense {
	a := mat.NewDense(n, n, nil)
	h := nu / 2
	for i := 0; i < n; i++ {
		a.Set(i, i, 1)
		a.Set(i, (i+1)%n, a.At(i, (i+1)%n)+h)
		a.Set(i, (i-1+n)%n, a.At(i, (i-1+n)%n)-h)
	}
	return a
}

// StepImplicitCentered solves A·dst = u directly. Prefer ImplicitCentered
// when stepping repeatedly with the same operator.
func StepImplicitCentered(dst, u []float64, a mat.Matrix) error {
	n := len(u)
	if n == 0 {
		return dynamo.ErrEmptyState
	}
	if r, c := a.Dims(); r != n || c != n {
		return fmt.Errorf("%w: operator is %dx%d for a field of %d", dynamo.ErrDimensionMismatch, r, c, n)
	}
	if len(dst) != n {
		return dynamo.DimensionError("field", n, len(dst))
	}
	var x mat.VecDense
	if err := x.SolveVec(a, mat.NewVecDense(len(u), append([]float64(nil), u...))); err != nil {
		return fmt.Errorf("implicit centered solve: %w", err)
	}
	copy(dst, x.RawVector().Data)
	return nil
}

// ImplicitCentered holds the LU factorization of the periodic operator.
type ImplicitCentered struct {
	nu float64
	n  int
	lu mat.LU
	x  *mat.VecDense
}

func NewImplicitCentered(n int, nu float64) (*ImplicitCentered, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 grid points, got %d", dynamo.ErrParameterBounds, n)
	}
	ic := &ImplicitCentered{nu: nu, n: n, x: mat.NewVecDense(n, nil)}
	ic.lu.Factorize(BuildPeriodicOperator(n, nu))
	return ic, nil
}

func (ic *ImplicitCentered) Step(dst, u []float64) error {
	if len(u) != ic.n || len(dst) != ic.n {
		return dynamo.DimensionError("field", ic.n, len(u))
	}
	if err := ic.lu.SolveVecTo(ic.x, false, mat.NewVecDense(ic.n, append([]float64(nil), u...))); err != nil {
		return fmt.Errorf("implicit centered solve: %w", err)
	}
	copy(dst, ic.x.RawVector().Data)
	return nil
}

// Upwind adapts StepExplicitUpwind to the Stepper interface.
type Upwind struct {
	Nu float64
}

func (up Upwind) Step(dst, u []float64) error {
	return StepExplicitUpwind(dst, u, up.Nu)
}

type Stepper interface {
	Step(dst, u []float64) error
}
