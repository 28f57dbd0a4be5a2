package tracer

import (
	"fmt"

	"github.com/san-kum/kerrsim/internal/kerr"
)

const (
	DefaultSteps         = 50
	DefaultStepScale     = 0.05
	DefaultMomentumScale = 2.0
)

// Observer is notified of every ray a trace yields.
type Observer interface {
	OnRay(step int, r Ray)
}

type Options struct {
	// Steps is the number of integration steps; a trace yields Steps+1 rays.
	Steps int
	// StepScale sets the step size Δ = StepScale·|x.yzw|².
	StepScale float64
	// MomentumScale is the Euclidean length momenta are rescaled to after each step.
	MomentumScale float64
	// EscapeRadius ends the trace early once |x.yzw| exceeds it. Zero disables it.
	EscapeRadius float64
	Observers    []Observer
}

func DefaultOptions() Options {
	return Options{
		Steps:         DefaultSteps,
		StepScale:     DefaultStepScale,
		MomentumScale: DefaultMomentumScale,
	}
}

func (o Options) Validate() error {
	if o.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", o.Steps, kerr.ErrInvalidSteps)
	}
	if o.StepScale <= 0 {
		return fmt.Errorf("step scale must be positive, got %g: %w", o.StepScale, kerr.ErrInvalidSteps)
	}
	if o.MomentumScale <= 0 {
		return fmt.Errorf("momentum scale must be positive, got %g: %w", o.MomentumScale, kerr.ErrInvalidSteps)
	}
	if o.EscapeRadius < 0 {
		return fmt.Errorf("escape radius must not be negative, got %g: %w", o.EscapeRadius, kerr.ErrInvalidSteps)
	}
	return nil
}
