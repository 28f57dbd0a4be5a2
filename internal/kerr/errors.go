package kerr

import (
	"errors"
	"fmt"

	"github.com/san-kum/kerrsim/internal/geom"
)

// Domain errors for metric and geodesic computations.
var (
	// ErrDomain indicates a negative discriminant while renormalizing a vector,
	// i.e. the metric is too far from flat for the requested null projection.
	ErrDomain = errors.New("kerr: no null completion (negative discriminant)")

	// ErrSingularity indicates a position on a coordinate singularity of the chart.
	ErrSingularity = errors.New("kerr: coordinate singularity")

	// ErrInvalidState indicates a position or momentum containing NaN or Inf.
	ErrInvalidState = errors.New("kerr: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates black hole parameters outside the supported regime.
	ErrParameterBounds = errors.New("kerr: parameter out of valid bounds")

	// ErrInvalidSteps indicates a non-positive step budget or step scale.
	ErrInvalidSteps = errors.New("kerr: invalid step configuration")
)

// PointError ties an error to the position it was raised at.
type PointError struct {
	Position geom.Vec4
	Wrapped  error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("%v at x=(%.6g, %.6g, %.6g, %.6g)", e.Wrapped,
		e.Position[0], e.Position[1], e.Position[2], e.Position[3])
}

func (e *PointError) Unwrap() error {
	return e.Wrapped
}

// TraceError wraps an error with the integration step it aborted.
type TraceError struct {
	Step     int
	Position geom.Vec4
	Wrapped  error
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *TraceError) Unwrap() error {
	return e.Wrapped
}
