package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kerrsim/internal/config"
	"github.com/san-kum/kerrsim/internal/export"
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/metrics"
	"github.com/san-kum/kerrsim/internal/storage"
	"github.com/san-kum/kerrsim/internal/tracer"
	"github.com/san-kum/kerrsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd068")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc048")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4757")).Bold(true)
)

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		slog.Debug("loaded preset", "name", preset)
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		slog.Debug("loaded config", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("a") {
		cfg.BlackHole.A = spin
	}
	if flags.Changed("mass") {
		cfg.BlackHole.Mass = mass
	}
	if flags.Changed("charge") {
		cfg.BlackHole.Charge = charge
	}
	if flags.Changed("origin") {
		if len(origin) != 4 {
			return nil, fmt.Errorf("--origin needs 4 values (t,x,y,z), got %d", len(origin))
		}
		copy(cfg.Ray.Origin[:], origin)
	}
	if flags.Changed("dir") {
		if len(direction) != 3 {
			return nil, fmt.Errorf("--dir needs 3 values (x,y,z), got %d", len(direction))
		}
		copy(cfg.Ray.Direction[:], direction)
	}
	if flags.Changed("steps") {
		cfg.Integrator.Steps = steps
	}
	if flags.Changed("step-scale") {
		cfg.Integrator.StepScale = stepScale
	}
	if flags.Changed("momentum-scale") {
		cfg.Integrator.MomentumScale = momentumScale
	}
	if flags.Changed("escape-radius") {
		cfg.Integrator.EscapeRadius = escapeRadius
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
		slog.Info("saved config", "path", saveConfig)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	bh := cfg.NewBlackHole()
	ms := metrics.Defaults(bh)
	opts := cfg.Options()
	opts.Observers = metrics.Observers(ms)

	fmt.Printf("tracing %s from %v...\n", bh, cfg.Ray.Origin)
	start := time.Now()

	tr, err := tracer.FromDirection(bh, cfg.Origin(), cfg.Direction(), opts)
	if err != nil {
		return err
	}
	rays, traceErr := tr.Collect()
	elapsed := time.Since(start)
	slog.Debug("trace finished", "rays", len(rays), "elapsed", elapsed, "err", traceErr)

	runID, err := st.Save(&storage.Run{
		Name:      cfg.Name,
		BlackHole: *bh,
		Origin:    cfg.Origin(),
		Direction: cfg.Direction(),
		Options:   opts,
		Rays:      rays,
		Escaped:   tr.Escaped(),
		Err:       traceErr,
		Metrics:   metrics.Summarize(ms),
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("rays: %d\n", len(rays))
	switch {
	case traceErr != nil:
		fmt.Println(errStyle.Render("status: failed: " + traceErr.Error()))
	case tr.Escaped():
		fmt.Println(warnStyle.Render("status: escaped"))
	default:
		fmt.Println(okStyle.Render("status: ok"))
	}
	printMetrics(metrics.Summarize(ms))

	if !noPlot && len(rays) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(radii(rays), asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("|x| per step")))
	}
	return traceErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func radii(rays []tracer.Ray) []float64 {
	out := make([]float64, len(rays))
	for i, r := range rays {
		out[i] = r.Radius()
	}
	return out
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	m := viz.NewModel(cfg.NewBlackHole(), cfg.Origin(), cfg.Direction(), cfg.Options())
	return viz.Run(m)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bh := cfg.NewBlackHole()
	jobs := cfg.ScanJobs()
	ens := tracer.NewEnsemble(bh, cfg.Options(), cfg.Scan.Workers)

	fmt.Printf("scanning %d rays around %s...\n", len(jobs), bh)
	start := time.Now()
	results, err := ens.Run(ctx, jobs)
	if err != nil {
		return err
	}
	slog.Debug("scan finished", "jobs", len(jobs), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IMPACT\tOUTCOME\tRAYS\tMIN R\tFINAL R\tDEFLECTION")
	failed := 0
	for _, res := range results {
		ms := metrics.Defaults(bh)
		metrics.Replay(ms, res.Rays)
		summary := metrics.Summarize(ms)

		outcome := "completed"
		switch {
		case res.Err != nil:
			outcome = "failed: " + shortError(res.Err)
			failed++
		case res.Escaped:
			outcome = "escaped"
		}
		fmt.Fprintf(w, "%.3f\t%s\t%d\t%.4f\t%.4f\t%.2f°\n",
			res.Job.Impact, outcome, len(res.Rays),
			summary["min_radius"], summary["final_radius"], summary["deflection_deg"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d rays in %v, %d failed\n", len(results), time.Since(start), failed)

	if svgOut != "" {
		p, err := viz.ParsePlane(plane)
		if err != nil {
			return err
		}
		paths := make([][]viz.Point, len(results))
		for i, res := range results {
			paths[i] = viz.Project(res.Rays, p)
		}
		opts := export.DefaultSVGOptions()
		opts.Horizon, _ = bh.Horizon()
		if err := os.WriteFile(svgOut, []byte(export.PathsToSVG(paths, opts)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

// shortError names the sentinel behind a trace error and the step it hit.
func shortError(err error) string {
	reason := err.Error()
	switch {
	case errors.Is(err, kerr.ErrInvalidState):
		reason = "non-finite"
	case errors.Is(err, kerr.ErrDomain):
		reason = "no null completion"
	case errors.Is(err, kerr.ErrSingularity):
		reason = "singularity"
	}
	var te *kerr.TraceError
	if errors.As(err, &te) {
		return fmt.Sprintf("%s at step %d", reason, te.Step)
	}
	return reason
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tA\tMASS\tCHARGE\tORIGIN\tSTEPS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%v\t%d\n",
			name, cfg.BlackHole.A, cfg.BlackHole.Mass, cfg.BlackHole.Charge, cfg.Ray.Origin, cfg.Integrator.Steps)
	}
	return w.Flush()
}
