package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/tracer"
)

type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, RotX: -math.Pi / 3, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.01, c.Zoom/1.2) }

// Fit sets the zoom so a sphere of the given radius fills the view.
func (c *Camera) Fit(radius float64) {
	if radius > 0 {
		c.Zoom = 1.4 / radius
	}
}

// RotatePoint rotates about x, then y, then z.
func (c *Camera) RotatePoint(p geom.Vec3) geom.Vec3 {
	rot := mgl64.Rotate3DZ(c.RotZ).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DX(c.RotX))
	return rot.Mul3x1(p)
}

// Project converts world coordinates to screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p geom.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Mul(c.Zoom)
	if rot.Z() >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z())
	pScale := math.Min(float64(sw), float64(sh)) / 3.0
	sx := int(rot.X()*scale*pScale) + sw/2
	sy := int(-rot.Y()*scale*pScale) + sh/2
	return sx, sy, rot.Z(), sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End geom.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe              { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e geom.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p geom.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                 { w.Edges = w.Edges[:0] }

// AddPath adds the spatial trajectory of the rays as connected edges.
func (w *Wireframe) AddPath(rays []tracer.Ray) {
	for i := range rays {
		p := geom.Spatial(rays[i].X)
		if i == 0 {
			w.AddPoint(p)
			continue
		}
		w.AddEdge(geom.Spatial(rays[i-1].X), p)
	}
}

// AddSphere adds three great circles of radius r around the origin.
func (w *Wireframe) AddSphere(r float64) {
	const segments = 48
	for axis := 0; axis < 3; axis++ {
		var prev geom.Vec3
		for i := 0; i <= segments; i++ {
			th := 2 * math.Pi * float64(i) / segments
			u, v := r*math.Cos(th), r*math.Sin(th)
			var p geom.Vec3
			switch axis {
			case 0:
				p = geom.Vec3{u, v, 0}
			case 1:
				p = geom.Vec3{u, 0, v}
			default:
				p = geom.Vec3{0, u, v}
			}
			if i > 0 {
				w.AddEdge(prev, p)
			}
			prev = p
		}
	}
}

// AddAxes adds the positive x, y and z axes with length l.
func (w *Wireframe) AddAxes(l float64) {
	o := geom.Vec3{}
	w.AddEdge(o, geom.Vec3{l, 0, 0})
	w.AddEdge(o, geom.Vec3{0, l, 0})
	w.AddEdge(o, geom.Vec3{0, 0, l})
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe to the canvas back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
