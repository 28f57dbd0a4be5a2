package geom

import (
	"math"
	"testing"
)

func TestDyadicOrientation(t *testing.T) {
	a := Vec4{1, 2, 3, 4}
	b := Vec4{5, 6, 7, 8}
	m := Dyadic(a, b)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if m.At(i, j) != a[i]*b[j] {
				t.Errorf("element (%d,%d): expected %f, got %f", i, j, a[i]*b[j], m.At(i, j))
			}
		}
	}
}

func TestMatrixVectorOrder(t *testing.T) {
	a := Vec4{1, 0, 0, 0}
	b := Vec4{0, 1, 0, 0}
	// (a⊗b)·v = a (b·v), so only the first row is populated
	got := Dyadic(a, b).Mul4x1(Vec4{0, 3, 0, 0})
	if got != (Vec4{3, 0, 0, 0}) {
		t.Errorf("expected (3,0,0,0), got %v", got)
	}
}

func TestSpatialRoundTrip(t *testing.T) {
	v := Vec4{9, 1, 2, 3}
	s := Spatial(v)
	if s != (Vec3{1, 2, 3}) {
		t.Errorf("unexpected spatial part %v", s)
	}
	if WithTime(9, s) != v {
		t.Errorf("WithTime did not rebuild %v", v)
	}
}

func TestLower3(t *testing.T) {
	var m Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m.Set(i, j, float64(10*i+j))
		}
	}
	c := Lower3(m)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if c.At(i, j) != m.At(i+1, j+1) {
				t.Errorf("element (%d,%d): expected %f, got %f", i, j, m.At(i+1, j+1), c.At(i, j))
			}
		}
	}
}

func TestMinkowski(t *testing.T) {
	v := Vec4{1, 1, 0, 0}
	if q := Quadratic(Minkowski, v); q != 0 {
		t.Errorf("expected light-like vector, got %f", q)
	}
	if q := Quadratic(Minkowski, Vec4{1, 0, 0, 0}); q != -1 {
		t.Errorf("expected -1 for time axis, got %f", q)
	}
}

func TestRescale(t *testing.T) {
	v := Rescale(Vec4{3, 0, 4, 0}, 2)
	if math.Abs(v.Len()-2) > 1e-12 {
		t.Errorf("expected length 2, got %f", v.Len())
	}
	if Normalize(Vec4{}) != (Vec4{}) {
		t.Error("zero vector should be left unchanged")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(Vec4{1, 2, 3, 4}) {
		t.Error("expected finite")
	}
	if IsFinite(Vec4{1, math.NaN(), 3, 4}) {
		t.Error("NaN should not be finite")
	}
	if IsFinite(Vec4{math.Inf(1), 0, 0, 0}) {
		t.Error("Inf should not be finite")
	}
}
