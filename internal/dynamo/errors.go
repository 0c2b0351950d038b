package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for configuration problems. Numerical divergence is never an
// error; it shows up as large or non-finite values in the output.
var (
	// ErrInvalidSteps indicates a step count below one.
	ErrInvalidSteps = errors.New("dynamo: step count must be at least 1")

	// ErrInvalidSpan indicates an empty or reversed time interval.
	ErrInvalidSpan = errors.New("dynamo: time span must satisfy t1 > t0")

	// ErrEmptyState indicates a zero-length state vector.
	ErrEmptyState = errors.New("dynamo: empty state vector")

	// ErrDimensionMismatch indicates mismatched state/system or array shapes.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrPastTarget indicates a snapshot was requested for a time already stepped past.
	ErrPastTarget = errors.New("dynamo: target time already passed")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// DimensionError reports which shape was expected.
func DimensionError(what string, want, got int) error {
	return fmt.Errorf("%w: %s want %d, got %d", ErrDimensionMismatch, what, want, got)
}
