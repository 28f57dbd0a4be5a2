package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kerrsim/internal/export"
	"github.com/san-kum/kerrsim/internal/storage"
	"github.com/san-kum/kerrsim/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tA\tMASS\tCHARGE\tRAYS\tSTATUS")

	for _, run := range runs {
		status := "ok"
		switch {
		case run.Error != "":
			status = "failed"
		case run.Escaped:
			status = "escaped"
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.A,
			run.Mass,
			run.Charge,
			run.Rays,
			status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rays, err := st.LoadRays(runID)
	if err != nil {
		return err
	}
	if len(rays) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("black hole: %s\n", meta.BlackHole())
	if meta.Error != "" {
		fmt.Printf("error: %s\n", meta.Error)
	}
	fmt.Println()

	fmt.Println(asciigraph.Plot(radii(rays), asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("|x| per step")))
	fmt.Println()

	// log10 |H|; exact zeros are clamped to keep the plot finite
	bh := meta.BlackHole()
	drift := make([]float64, 0, len(rays))
	for _, r := range rays {
		h, err := bh.Hamiltonian(r.X, r.P)
		if err != nil {
			break
		}
		drift = append(drift, math.Log10(math.Max(math.Abs(h), 1e-300)))
	}
	if len(drift) > 1 {
		fmt.Println(asciigraph.Plot(drift, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("log10 |H| per step")))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rays, err := st.LoadRays(runID)
	if err != nil {
		return err
	}

	if outFile == "" {
		return export.ExportJSONStdout(meta, rays)
	}
	if err := export.ExportJSON(outFile, meta, rays); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

// brailleScale is the SVG size of one braille dot cell.
const brailleScale = 2

func renderSVG(path []viz.Point, horizon float64, w, h int, snapshot bool) string {
	if !snapshot {
		opts := export.DefaultSVGOptions()
		opts.Width, opts.Height = w, h
		opts.Horizon = horizon
		return export.TrajectoryToSVG(path, opts)
	}
	if len(path) < 2 {
		return ""
	}
	c := viz.NewCanvas(max(w/(2*brailleScale), 1), max(h/(4*brailleScale), 1))
	c.RenderPaths([][]viz.Point{path}, horizon)
	return export.CanvasToSVG(c, brailleScale)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	p, err := viz.ParsePlane(plane)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rays, err := st.LoadRays(runID)
	if err != nil {
		return err
	}

	horizon, _ := meta.BlackHole().Horizon()
	svg := renderSVG(viz.Project(rays, p), horizon, width, height, braille)
	if svg == "" {
		return fmt.Errorf("run %s has fewer than two rays", runID)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}
