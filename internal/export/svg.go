package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/kerrsim/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width, height := float64(pw)*scale, float64(ph)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, viz.CurrentTheme.Ray)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

type SVGOptions struct {
	Width, Height int
	// Horizon draws a filled disc of this radius at the origin when positive.
	Horizon float64
	Colors  []string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:  600,
		Height: 600,
		Colors: []string{"#ffd27f", "#00ffff", "#ff9ff3", "#5fd068", "#feca57"},
	}
}

// TrajectoryToSVG draws one projected trajectory in the first color of opts.
func TrajectoryToSVG(points []viz.Point, opts SVGOptions) string {
	return PathsToSVG([][]viz.Point{points}, opts)
}

// PathsToSVG draws several projected trajectories on shared axes with equal
// scale in x and y, cycling through opts.Colors. Paths with fewer than two
// points are skipped; the result is empty when nothing is left to draw.
func PathsToSVG(paths [][]viz.Point, opts SVGOptions) string {
	drawn := make([][]viz.Point, 0, len(paths))
	for _, p := range paths {
		if len(p) >= 2 {
			drawn = append(drawn, p)
		}
	}
	if len(drawn) == 0 {
		return ""
	}
	if len(opts.Colors) == 0 {
		opts.Colors = DefaultSVGOptions().Colors
	}

	b := viz.BoundsOf(drawn, opts.Horizon, 0)
	padX, padY := (b.MaxX-b.MinX)*0.1, (b.MaxY-b.MinY)*0.1
	b.MinX, b.MaxX = b.MinX-padX, b.MaxX+padX
	b.MinY, b.MaxY = b.MinY-padY, b.MaxY+padY
	vp := viz.NewViewport(b, opts.Width, opts.Height)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height)

	if opts.Horizon > 0 {
		cx, cy := vp.Map(viz.Point{})
		rx, _ := vp.Map(viz.Point{X: opts.Horizon})
		fmt.Fprintf(&sb, "<circle cx=\"%d\" cy=\"%d\" r=\"%d\" fill=\"#000000\" stroke=\"#ff5f1f\" stroke-width=\"1\"/>\n",
			cx, cy, rx-cx)
	}

	for i, path := range drawn {
		color := opts.Colors[i%len(opts.Colors)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		for j, p := range path {
			x, y := vp.Map(p)
			if j == 0 {
				fmt.Fprintf(&sb, "M%d,%d", x, y)
			} else {
				fmt.Fprintf(&sb, " L%d,%d", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
