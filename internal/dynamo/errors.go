package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for simulation operations.
var (
	// ErrValidation indicates a parameter, count or range rejected before the run.
	ErrValidation = errors.New("dynamo: invalid simulation input")

	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrMaxSteps indicates the solver exhausted its step budget.
	ErrMaxSteps = errors.New("dynamo: maximum number of steps exceeded")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// ValidationError reports an input rejected before simulation starts.
type ValidationError struct {
	Field  string
	Reason string
}

// Invalid builds a ValidationError with a formatted reason.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NumericalError wraps a solver failure with the trajectory it happened on.
// Index is -1 when the failure is not tied to a trajectory of a set.
type NumericalError struct {
	Index   int
	Initial State
	Step    int
	Time    float64
	Wrapped error
}

func (e *NumericalError) Error() string {
	var b strings.Builder
	if e.Index >= 0 {
		fmt.Fprintf(&b, "trajectory %d ", e.Index)
	}
	if len(e.Initial) > 0 {
		fmt.Fprintf(&b, "from %s ", e.Initial)
	}
	fmt.Fprintf(&b, "failed at step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
	return b.String()
}

func (e *NumericalError) Unwrap() error {
	return e.Wrapped
}
