package metrics

import (
	"math"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/tracer"
)

type MinRadius struct {
	name string
	min  float64
}

func NewMinRadius() *MinRadius {
	return &MinRadius{name: "min_radius", min: math.Inf(1)}
}

func (m *MinRadius) Name() string { return m.name }

func (m *MinRadius) OnRay(step int, r tracer.Ray) {
	m.min = math.Min(m.min, r.Radius())
}

func (m *MinRadius) Value() float64 { return m.min }

func (m *MinRadius) Reset() { m.min = math.Inf(1) }

type FinalRadius struct {
	name string
	last float64
}

func NewFinalRadius() *FinalRadius {
	return &FinalRadius{name: "final_radius"}
}

func (f *FinalRadius) Name() string { return f.name }

func (f *FinalRadius) OnRay(step int, r tracer.Ray) { f.last = r.Radius() }

func (f *FinalRadius) Value() float64 { return f.last }

func (f *FinalRadius) Reset() { f.last = 0 }

// CoordinateTime is the change of the time coordinate between the first and
// the last ray. It is negative for rays traced backwards.
type CoordinateTime struct {
	name        string
	first, last float64
	samples     int
}

func NewCoordinateTime() *CoordinateTime {
	return &CoordinateTime{name: "coordinate_time"}
}

func (c *CoordinateTime) Name() string { return c.name }

func (c *CoordinateTime) OnRay(step int, r tracer.Ray) {
	if c.samples == 0 {
		c.first = r.X[0]
	}
	c.last = r.X[0]
	c.samples++
}

func (c *CoordinateTime) Value() float64 { return c.last - c.first }

func (c *CoordinateTime) Reset() {
	c.first, c.last = 0, 0
	c.samples = 0
}

// Deflection is the angle in degrees between the initial and the current
// spatial direction of motion.
type Deflection struct {
	name    string
	initial geom.Vec3
	current geom.Vec3
	samples int
}

func NewDeflection() *Deflection {
	return &Deflection{name: "deflection_deg"}
}

func (d *Deflection) Name() string { return d.name }

func (d *Deflection) OnRay(step int, r tracer.Ray) {
	v := geom.Spatial(r.U)
	if d.samples == 0 {
		d.initial = v
	}
	d.current = v
	d.samples++
}

func (d *Deflection) Value() float64 {
	l := d.initial.Len() * d.current.Len()
	if l == 0 {
		return 0
	}
	c := d.initial.Dot(d.current) / l
	return math.Acos(math.Max(-1, math.Min(1, c))) * 180 / math.Pi
}

func (d *Deflection) Reset() {
	d.initial, d.current = geom.Vec3{}, geom.Vec3{}
	d.samples = 0
}
