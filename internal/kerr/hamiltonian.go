package kerr

import (
	"github.com/san-kum/kerrsim/internal/geom"
)

// GradientEpsilon is the finite-difference step of NumericalGradient.
const GradientEpsilon = 0.001

// Hamiltonian returns H(x, p) = ½ pᵀ g⁻¹(x) p.
func (b *BlackHole) Hamiltonian(x, p geom.Vec4) (float64, error) {
	gi, err := b.MetricInverse(x)
	if err != nil {
		return 0, err
	}
	return 0.5 * geom.Quadratic(gi, p), nil
}

// NumericalGradient approximates ∂H/∂x with central differences of step
// GradientEpsilon. It exists to cross-check Gradient.
func (b *BlackHole) NumericalGradient(x, p geom.Vec4) (geom.Vec4, error) {
	var grad geom.Vec4
	for j := 0; j < 4; j++ {
		xp, xm := x, x
		xp[j] += GradientEpsilon
		xm[j] -= GradientEpsilon

		hp, err := b.Hamiltonian(xp, p)
		if err != nil {
			return geom.Vec4{}, err
		}
		hm, err := b.Hamiltonian(xm, p)
		if err != nil {
			return geom.Vec4{}, err
		}
		grad[j] = (hp - hm) / (2 * GradientEpsilon)
	}
	return grad, nil
}

// Gradient returns the exact ∂H/∂x:
//
//	∇H = ½ [ ∇f' (p·k')² + 2 f' (p·k') (Jᵀk)·p ]
//
// where Jᵀk is the Jacobian transpose of k. The time component is zero since
// the metric is stationary.
func (b *BlackHole) Gradient(x, p geom.Vec4) (geom.Vec4, error) {
	fr, err := b.frameAt(x)
	if err != nil {
		return geom.Vec4{}, err
	}
	d := b.derive(x, fr)

	pk := p.Dot(fr.kp)
	jtp := d.jt.Mul4x1(p)

	var grad geom.Vec4
	for i := 1; i < 4; i++ {
		grad[i] = 0.5 * (d.fp[i]*pk*pk + 2*fr.fp*pk*jtp[i])
	}
	return grad, nil
}

// frameDerivs holds position gradients of the frame quantities. Vectors are
// indexed like positions, with component 0 (time) always zero.
type frameDerivs struct {
	r2, r geom.Vec4
	f, fp geom.Vec4
	jt    geom.Mat4 // jt(j, i) = ∂kᵢ/∂xⱼ
}

func (b *BlackHole) derive(x geom.Vec4, fr frame) frameDerivs {
	a, m, q := b.A, b.Mass, b.Charge
	px, py, pz := x[1], x[2], x[3]

	var d frameDerivs
	var drho, dd, dk1, dk2, dk3, dN, dE, dkk geom.Vec4

	n1 := fr.r*px + a*py
	n2 := fr.r*py - a*px
	num := fr.r2 * (2*m*fr.r - q*q)

	for i := 1; i < 4; i++ {
		ex, ey, ez := unit(i, 1), unit(i, 2), unit(i, 3)

		drho[i] = 2 * x[i]
		dd[i] = (fr.rho*drho[i] + 4*a*a*pz*ez) / fr.d
		d.r2[i] = 0.5 * (drho[i] + dd[i])
		d.r[i] = d.r2[i] / (2 * fr.r)

		// ∂(r²+a²) = ∂r²
		dk1[i] = ((px*d.r[i]+fr.r*ex+a*ey)*fr.s - n1*d.r2[i]) / (fr.s * fr.s)
		dk2[i] = ((py*d.r[i]+fr.r*ey-a*ex)*fr.s - n2*d.r2[i]) / (fr.s * fr.s)
		dk3[i] = (ez*fr.r - pz*d.r[i]) / fr.r2

		dN[i] = (6*m*fr.r2 - 2*q*q*fr.r) * d.r[i]
		dE[i] = 2*fr.r2*d.r2[i] + 2*a*a*pz*ez
		d.f[i] = (dN[i]*fr.e - num*dE[i]) / (fr.e * fr.e)

		dkk[i] = 2 * (fr.k[1]*dk1[i] + fr.k[2]*dk2[i] + fr.k[3]*dk3[i])
		den := 1 + fr.f*fr.kk
		d.fp[i] = -(d.f[i] - fr.f*fr.f*dkk[i]) / (den * den)

		d.jt.Set(i, 1, dk1[i])
		d.jt.Set(i, 2, dk2[i])
		d.jt.Set(i, 3, dk3[i])
	}
	return d
}

func unit(i, j int) float64 {
	if i == j {
		return 1
	}
	return 0
}
