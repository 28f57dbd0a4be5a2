// Package geom is the small fixed-size linear algebra layer used by the metric code.
//
// Vectors and matrices are the [mgl64] types. Matrices are column-major, so
// m.At(row, col) reads element (row, col) and [mgl64.Mat4.Mul4x1] computes the
// usual product M·v with row i equal to Σⱼ Mᵢⱼ vⱼ.
//
// Index 0 of a [Vec4] is the time coordinate; [Spatial] returns the remaining
// three components.
package geom
