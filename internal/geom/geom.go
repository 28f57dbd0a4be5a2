package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type (
	Vec3 = mgl64.Vec3
	Vec4 = mgl64.Vec4
	Mat3 = mgl64.Mat3
	Mat4 = mgl64.Mat4
)

// Minkowski is the flat metric diag(-1, 1, 1, 1).
var Minkowski = mgl64.Diag4(Vec4{-1, 1, 1, 1})

// Spatial returns the yzw components of v.
func Spatial(v Vec4) Vec3 {
	return Vec3{v[1], v[2], v[3]}
}

// WithTime joins a time component and a spatial vector.
func WithTime(t float64, s Vec3) Vec4 {
	return Vec4{t, s[0], s[1], s[2]}
}

// Dyadic returns the outer product a⊗b with element (i, j) equal to aᵢbⱼ.
func Dyadic(a, b Vec4) Mat4 {
	return a.OuterProd4(b)
}

// Lower3 returns the spatial 3x3 block of m, element (i, j) = m(i+1, j+1).
func Lower3(m Mat4) Mat3 {
	var c Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			c.Set(row, col, m.At(row+1, col+1))
		}
	}
	return c
}

// Rescale returns v scaled to the Euclidean length mag. The zero vector is
// returned unchanged.
func Rescale(v Vec4, mag float64) Vec4 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(mag / l)
}

// Normalize returns v scaled to unit Euclidean length.
func Normalize(v Vec4) Vec4 {
	return Rescale(v, 1)
}

// Quadratic returns vᵀ m v.
func Quadratic(m Mat4, v Vec4) float64 {
	return v.Dot(m.Mul4x1(v))
}

func IsFinite(v Vec4) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// MaxAbsDiff returns the largest absolute elementwise difference of a and b.
func MaxAbsDiff(a, b Mat4) float64 {
	worst := 0.0
	for i := range a {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst
}
