package kerr

import (
	"fmt"
	"math"
)

// BlackHole holds the Kerr-Newman parameters. A is fixed at construction;
// Mass and Charge may be changed between traces with SetParam.
type BlackHole struct {
	A      float64 // angular momentum per unit mass, L/M
	Mass   float64
	Charge float64
}

func New(a, mass, charge float64) *BlackHole {
	return &BlackHole{A: a, Mass: mass, Charge: charge}
}

// Schwarzschild returns a non-rotating, uncharged hole.
func Schwarzschild(mass float64) *BlackHole {
	return New(0, mass, 0)
}

// Validate checks the parameters against the sub-extremal regime the
// formulas are used in: mass > 0, a ≥ 0 and a² + Q² ≤ m².
func (b *BlackHole) Validate() error {
	for name, v := range b.GetParams() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s=%v: %w", name, v, ErrParameterBounds)
		}
	}
	if b.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %g: %w", b.Mass, ErrParameterBounds)
	}
	if b.A < 0 {
		return fmt.Errorf("spin must be non-negative, got %g: %w", b.A, ErrParameterBounds)
	}
	if b.A*b.A+b.Charge*b.Charge > b.Mass*b.Mass {
		return fmt.Errorf("a²+Q² = %g exceeds m² = %g (naked singularity): %w",
			b.A*b.A+b.Charge*b.Charge, b.Mass*b.Mass, ErrParameterBounds)
	}
	return nil
}

// Horizon returns the outer event horizon radius r₊ = m + √(m² − a² − Q²).
func (b *BlackHole) Horizon() (float64, error) {
	disc := b.Mass*b.Mass - b.A*b.A - b.Charge*b.Charge
	if disc < 0 {
		return 0, fmt.Errorf("no horizon for a=%g m=%g Q=%g: %w", b.A, b.Mass, b.Charge, ErrParameterBounds)
	}
	return b.Mass + math.Sqrt(disc), nil
}

func (b *BlackHole) GetParams() map[string]float64 {
	return map[string]float64{
		"a":      b.A,
		"mass":   b.Mass,
		"charge": b.Charge,
	}
}

// SetParam updates mass or charge. The spin cannot be changed after construction.
func (b *BlackHole) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		b.Mass = value
	case "charge":
		b.Charge = value
	case "a":
		return fmt.Errorf("spin is fixed at construction: %w", ErrParameterBounds)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

func (b *BlackHole) String() string {
	return fmt.Sprintf("KerrNewman(a=%g, m=%g, Q=%g)", b.A, b.Mass, b.Charge)
}
