// Package kerr evaluates the Kerr-Newman spacetime in Kerr-Schild form.
//
// The package provides:
//
//   - [BlackHole]: spin a = L/M, mass and charge of the hole
//   - [BlackHole.Metric] and [BlackHole.MetricInverse]: g and g⁻¹ at a point
//   - [Renull]: completes the time component of a vector so that it is null
//   - [BlackHole.Hamiltonian], [BlackHole.Gradient]: H = ½ pᵀg⁻¹p and ∂H/∂x
//
// The metric is written g = η + f (k⊗k) with η = diag(-1, 1, 1, 1) and k null
// with respect to η, so the inverse has the closed form g⁻¹ = η + f' (k'⊗k')
// where k' is k with the time component negated.
//
// # Example
//
//	bh := kerr.New(0.6, 1, 0.2)
//	g, err := bh.Metric(geom.Vec4{0, 5, 0, 0})
//
// # Unsupported inputs
//
// The chart is singular on the ring x² + y² = a², z = 0 and, for a = 0, at
// the origin. Positions there return [ErrSingularity] instead of NaN/Inf.
package kerr
