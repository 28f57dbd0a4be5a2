package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/kerrsim/internal/tracer"
)

// Plane selects the two spatial coordinates a trajectory is drawn in.
type Plane int

const (
	PlaneXZ Plane = iota
	PlaneXY
	PlaneYZ
)

var planeNames = [...]string{"xz", "xy", "yz"}

// spatial indices into the 4-position for each plane
var planeAxes = [...][2]int{{1, 3}, {1, 2}, {2, 3}}

func (p Plane) String() string {
	if p < 0 || int(p) >= len(planeNames) {
		return fmt.Sprintf("Plane(%d)", int(p))
	}
	return planeNames[p]
}

func (p Plane) Next() Plane { return (p + 1) % Plane(len(planeNames)) }

func ParsePlane(s string) (Plane, error) {
	for i, n := range planeNames {
		if n == s {
			return Plane(i), nil
		}
	}
	return 0, fmt.Errorf("unknown plane %q (want xz, xy or yz)", s)
}

type Point struct{ X, Y float64 }

// Project returns the positions of the rays in the given plane.
func Project(rays []tracer.Ray, plane Plane) []Point {
	axes := planeAxes[plane]
	pts := make([]Point, len(rays))
	for i, r := range rays {
		pts[i] = Point{X: r.X[axes[0]], Y: r.X[axes[1]]}
	}
	return pts
}

type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// BoundsOf returns the bounding box of all paths, grown to contain a disc
// of radius r around the origin and padded by pad on every side. It is
// empty (all zero) when there are no points and r is zero.
func BoundsOf(paths [][]Point, r, pad float64) Bounds {
	b := Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	grow := func(x, y float64) {
		b.MinX, b.MaxX = math.Min(b.MinX, x), math.Max(b.MaxX, x)
		b.MinY, b.MaxY = math.Min(b.MinY, y), math.Max(b.MaxY, y)
	}
	for _, path := range paths {
		for _, p := range path {
			grow(p.X, p.Y)
		}
	}
	if r > 0 {
		grow(-r, -r)
		grow(r, r)
	}
	if math.IsInf(b.MinX, 1) {
		return Bounds{}
	}
	b.MinX -= pad
	b.MaxX += pad
	b.MinY -= pad
	b.MaxY += pad
	return b
}
