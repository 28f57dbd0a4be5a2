package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize returns the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set sets a pixel at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPath connects consecutive points mapped through the viewport.
func (c *Canvas) DrawPath(pts []Point, vp Viewport) {
	for i, p := range pts {
		x, y := vp.Map(p)
		if i == 0 {
			c.Set(x, y)
			continue
		}
		px, py := vp.Map(pts[i-1])
		c.DrawLine(px, py, x, y)
	}
}

// DrawCircle plots a circle of world radius r around the world origin.
func (c *Canvas) DrawCircle(r float64, vp Viewport) {
	if r <= 0 {
		return
	}
	const segments = 96
	pts := make([]Point, segments+1)
	for i := range pts {
		th := 2 * math.Pi * float64(i) / segments
		pts[i] = Point{X: r * math.Cos(th), Y: r * math.Sin(th)}
	}
	c.DrawPath(pts, vp)
}

// RenderPaths fits the paths and the horizon circle into the canvas and
// draws them.
func (c *Canvas) RenderPaths(paths [][]Point, horizon float64) {
	pw, ph := c.PixelSize()
	vp := NewViewport(BoundsOf(paths, horizon, 1), pw, ph)
	c.DrawCircle(horizon, vp)
	for _, p := range paths {
		c.DrawPath(p, vp)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps a world rectangle onto a pixel area with equal scale on
// both axes, centred in the area. World y grows upwards.
type Viewport struct {
	Bounds        Bounds
	Width, Height int
	scale         float64
	offX, offY    float64
}

func NewViewport(b Bounds, width, height int) Viewport {
	vp := Viewport{Bounds: b, Width: width, Height: height}
	w, h := b.MaxX-b.MinX, b.MaxY-b.MinY
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	vp.scale = math.Min(float64(width-1)/w, float64(height-1)/h)
	vp.offX = (float64(width-1) - w*vp.scale) / 2
	vp.offY = (float64(height-1) - h*vp.scale) / 2
	return vp
}

func (vp Viewport) Map(p Point) (int, int) {
	x := vp.offX + (p.X-vp.Bounds.MinX)*vp.scale
	y := float64(vp.Height-1) - vp.offY - (p.Y-vp.Bounds.MinY)*vp.scale
	return int(math.Round(x)), int(math.Round(y))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
