package quantum

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup and stepping.
var (
	// ErrInvalidParams indicates a parameter set that fails validation.
	ErrInvalidParams = errors.New("quantum: invalid parameter set")

	// ErrNotFinite indicates a NaN or Inf appeared in a potential sample
	// or in the wavefunction mid-run.
	ErrNotFinite = errors.New("quantum: non-finite value (NaN or Inf detected)")

	// ErrDegenerateNorm indicates a zero or non-finite probability integral.
	ErrDegenerateNorm = errors.New("quantum: degenerate probability integral")
)

// NumericalError wraps a numerical failure with the step and node where it
// was detected. Step is 0 for setup-time failures; Node is -1 when the
// failure is a whole-state condition rather than a single sample.
type NumericalError struct {
	Step int
	Node int
	Err  error
}

func (e *NumericalError) Error() string {
	if e.Node >= 0 {
		return fmt.Sprintf("step %d, node %d: %v", e.Step, e.Node, e.Err)
	}
	return fmt.Sprintf("step %d: %v", e.Step, e.Err)
}

func (e *NumericalError) Unwrap() error {
	return e.Err
}
