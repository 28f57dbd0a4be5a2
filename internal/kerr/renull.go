package kerr

import (
	"fmt"
	"math"

	"github.com/san-kum/kerrsim/internal/geom"
)

// Sign selects one of the two null completions in Renull.
type Sign float64

const (
	// Forward picks the smaller root. With a negative time-time component this
	// is the completion whose four-velocity points forward in time.
	Forward Sign = -1
	// Backward picks the larger root.
	Backward Sign = 1
)

func (s Sign) String() string {
	if s < 0 {
		return "forward"
	}
	return "backward"
}

// Renull returns a copy of v whose time component is chosen so that
// vᵀ g v = 0, keeping v.yzw fixed. For vectors g is the metric, for covectors
// such as momenta it is the inverse metric.
//
// g is assumed close to diag(-1, 1, 1, 1); when no real completion exists the
// error wraps ErrDomain.
func Renull(g geom.Mat4, v geom.Vec4, s Sign) (geom.Vec4, error) {
	a := g.At(0, 0)
	if a == 0 || math.IsNaN(a) {
		return v, fmt.Errorf("degenerate time-time component %g: %w", a, ErrDomain)
	}
	b := geom.Vec3{g.At(0, 1), g.At(0, 2), g.At(0, 3)}
	c := geom.Lower3(g)
	w := geom.Spatial(v)

	p := b.Dot(w) / a
	q := w.Dot(c.Mul3x1(w)) / a
	disc := p*p - q
	if !(disc >= 0) {
		return v, fmt.Errorf("discriminant %g: %w", disc, ErrDomain)
	}

	v[0] = -p + float64(s)*math.Sqrt(disc)
	return v, nil
}

// RenullForward is Renull with the forward-in-time root.
func RenullForward(g geom.Mat4, v geom.Vec4) (geom.Vec4, error) {
	return Renull(g, v, Forward)
}

// RenullBackward is Renull with the backward-in-time root.
func RenullBackward(g geom.Mat4, v geom.Vec4) (geom.Vec4, error) {
	return Renull(g, v, Backward)
}
