package tracer

import (
	"fmt"
	"iter"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
)

// Ray is one state of a traced light ray: position X, momentum P and
// four-velocity U = g⁻¹(X)·P.
type Ray struct {
	X geom.Vec4
	P geom.Vec4
	U geom.Vec4
}

// Radius returns the Euclidean distance of the ray from the origin.
func (r Ray) Radius() float64 {
	return geom.Spatial(r.X).Len()
}

type Trace struct {
	bh   kerr.BlackHole
	opts Options

	ray     Ray
	step    int
	stepDt  float64
	started bool
	done    bool
	escaped bool
	err     error
}

// New starts a trace at x0 with momentum p0. The time component of p0 is
// replaced by the backward null completion and the result normalized to
// unit length. The black hole is copied; later changes to bh do not affect
// the trace.
func New(bh *kerr.BlackHole, x0, p0 geom.Vec4, opts Options) (*Trace, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := bh.Validate(); err != nil {
		return nil, err
	}

	t := &Trace{bh: *bh, opts: opts}
	gi, err := t.bh.MetricInverse(x0)
	if err != nil {
		return nil, &kerr.TraceError{Step: 0, Position: x0, Wrapped: err}
	}
	p, err := kerr.RenullBackward(gi, p0)
	if err != nil {
		return nil, &kerr.TraceError{Step: 0, Position: x0, Wrapped: err}
	}
	if p.Len() == 0 {
		return nil, &kerr.TraceError{Step: 0, Position: x0, Wrapped: &kerr.PointError{Position: x0, Wrapped: kerr.ErrInvalidState}}
	}
	p = geom.Normalize(p)

	t.ray = Ray{X: x0, P: p, U: gi.Mul4x1(p)}
	return t, nil
}

// FromDirection starts a trace at x0 looking along the spatial direction dir.
// The momentum is obtained by lowering the vector (−1, dir) with g(x0).
func FromDirection(bh *kerr.BlackHole, x0 geom.Vec4, dir geom.Vec3, opts Options) (*Trace, error) {
	if dir.Len() == 0 {
		return nil, fmt.Errorf("view direction must be non-zero: %w", kerr.ErrInvalidState)
	}
	g, err := bh.Metric(x0)
	if err != nil {
		return nil, &kerr.TraceError{Step: 0, Position: x0, Wrapped: err}
	}
	return New(bh, x0, g.Mul4x1(geom.WithTime(-1, dir)), opts)
}

// Next advances to the next ray. It returns false once the step budget is
// spent, the ray escaped, or an error occurred; check Err afterwards.
func (t *Trace) Next() bool {
	if t.done {
		return false
	}
	if !t.started {
		t.started = true
		t.notify()
		return true
	}
	if t.step >= t.opts.Steps || t.escaped {
		t.done = true
		return false
	}

	ray, err := t.advance()
	if err != nil {
		t.err = &kerr.TraceError{Step: t.step + 1, Position: t.ray.X, Wrapped: err}
		t.done = true
		return false
	}

	t.step++
	t.ray = ray
	if t.opts.EscapeRadius > 0 && ray.Radius() > t.opts.EscapeRadius {
		t.escaped = true
	}
	t.notify()
	return true
}

func (t *Trace) advance() (Ray, error) {
	x, p := t.ray.X, t.ray.P
	s := geom.Spatial(x)
	dt := t.opts.StepScale * s.Dot(s)

	grad, err := t.bh.Gradient(x, p)
	if err != nil {
		return Ray{}, err
	}
	np := p.Sub(grad.Mul(dt))
	nx := x.Add(t.ray.U.Mul(dt))
	if !geom.IsFinite(nx) || !geom.IsFinite(np) {
		return Ray{}, &kerr.PointError{Position: nx, Wrapped: kerr.ErrInvalidState}
	}

	gi, err := t.bh.MetricInverse(nx)
	if err != nil {
		return Ray{}, err
	}
	np, err = kerr.RenullBackward(gi, np)
	if err != nil {
		return Ray{}, err
	}
	if np.Len() == 0 {
		return Ray{}, &kerr.PointError{Position: nx, Wrapped: kerr.ErrInvalidState}
	}
	np = geom.Rescale(np, t.opts.MomentumScale)

	ray := Ray{X: nx, P: np, U: gi.Mul4x1(np)}
	if !geom.IsFinite(ray.P) || !geom.IsFinite(ray.U) {
		return Ray{}, &kerr.PointError{Position: nx, Wrapped: kerr.ErrInvalidState}
	}
	t.stepDt = dt
	return ray, nil
}

func (t *Trace) notify() {
	for _, o := range t.opts.Observers {
		o.OnRay(t.step, t.ray)
	}
}

// Ray returns the current ray. It is only valid after Next returned true.
func (t *Trace) Ray() Ray { return t.ray }

// Step returns the index of the current ray; the initial ray is step 0.
func (t *Trace) Step() int { return t.step }

// StepSize returns the Δ used to reach the current ray, 0 for the initial ray.
func (t *Trace) StepSize() float64 { return t.stepDt }

func (t *Trace) Escaped() bool { return t.escaped }

func (t *Trace) Err() error { return t.err }

// Rays adapts the trace to a range-over-func iterator.
func (t *Trace) Rays() iter.Seq2[int, Ray] {
	return func(yield func(int, Ray) bool) {
		for t.Next() {
			if !yield(t.step, t.ray) {
				return
			}
		}
	}
}

// Collect drains the trace. On error the rays produced so far are returned
// along with it.
func (t *Trace) Collect() ([]Ray, error) {
	rays := make([]Ray, 0, t.opts.Steps+1)
	for _, r := range t.Rays() {
		rays = append(rays, r)
	}
	return rays, t.Err()
}
