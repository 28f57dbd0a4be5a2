package kerr

import (
	"math"

	"github.com/san-kum/kerrsim/internal/geom"
	"gonum.org/v1/gonum/mat"
)

// frame holds the oblate-spheroidal quantities the metric is built from.
type frame struct {
	rho float64 // |x|² − a²
	d   float64 // √(ρ² + 4a²z²)
	r2  float64
	r   float64
	s   float64 // r² + a²
	e   float64 // r⁴ + a²z²
	k   geom.Vec4
	f   float64

	kp geom.Vec4 // k with the time component negated
	kk float64   // k·k', plain dot product
	fp float64   // f' = −1/(1/f + k·k')
}

func (b *BlackHole) frameAt(x geom.Vec4) (frame, error) {
	if !geom.IsFinite(x) {
		return frame{}, &PointError{Position: x, Wrapped: ErrInvalidState}
	}
	a, m, q := b.A, b.Mass, b.Charge
	p := geom.Spatial(x)

	var fr frame
	fr.rho = p.Dot(p) - a*a
	fr.d = math.Sqrt(fr.rho*fr.rho + 4*a*a*p[2]*p[2])
	fr.r2 = 0.5 * (fr.rho + fr.d)
	fr.r = math.Sqrt(fr.r2)
	fr.s = fr.r2 + a*a
	fr.e = fr.r2*fr.r2 + a*a*p[2]*p[2]
	if fr.r == 0 || fr.s == 0 || fr.e == 0 {
		return frame{}, &PointError{Position: x, Wrapped: ErrSingularity}
	}

	fr.k = geom.Vec4{
		1,
		(fr.r*p[0] + a*p[1]) / fr.s,
		(fr.r*p[1] - a*p[0]) / fr.s,
		p[2] / fr.r,
	}
	fr.f = fr.r2 * (2.0*m*fr.r - q*q) / fr.e

	// Sherman-Morrison: (η + f kkᵀ)⁻¹ = η − f ηk(ηk)ᵀ/(1 + f kᵀηk), with ηk = k'.
	// Written with f in the numerator so that f = 0 stays finite.
	fr.kp = geom.Vec4{-fr.k[0], fr.k[1], fr.k[2], fr.k[3]}
	fr.kk = fr.k.Dot(fr.kp)
	fr.fp = -fr.f / (1 + fr.f*fr.kk)
	return fr, nil
}

// Metric returns the covariant metric g_ij at x. Only the spatial part of x is used.
func (b *BlackHole) Metric(x geom.Vec4) (geom.Mat4, error) {
	fr, err := b.frameAt(x)
	if err != nil {
		return geom.Mat4{}, err
	}
	return geom.Minkowski.Add(geom.Dyadic(fr.k, fr.k).Mul(fr.f)), nil
}

// MetricInverse returns the contravariant metric g^ij at x using the
// Sherman-Morrison closed form.
func (b *BlackHole) MetricInverse(x geom.Vec4) (geom.Mat4, error) {
	fr, err := b.frameAt(x)
	if err != nil {
		return geom.Mat4{}, err
	}
	return inverseFrom(fr), nil
}

func inverseFrom(fr frame) geom.Mat4 {
	return geom.Minkowski.Add(geom.Dyadic(fr.kp, fr.kp).Mul(fr.fp))
}

// InverseResidual returns max|g·g⁻¹ − I| at x. It multiplies through gonum so
// the check does not share code with the closed-form inverse it verifies.
func (b *BlackHole) InverseResidual(x geom.Vec4) (float64, error) {
	g, err := b.Metric(x)
	if err != nil {
		return 0, err
	}
	gi, err := b.MetricInverse(x)
	if err != nil {
		return 0, err
	}

	var prod mat.Dense
	prod.Mul(Dense(g), Dense(gi))

	worst := 0.0
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			worst = math.Max(worst, math.Abs(prod.At(i, j)-want))
		}
	}
	return worst, nil
}

// Dense copies m into a gonum matrix.
func Dense(m geom.Mat4) *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d.Set(i, j, m.At(i, j))
		}
	}
	return d
}
