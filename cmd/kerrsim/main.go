package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	configFile string
	preset     string

	spin          float64
	mass          float64
	charge        float64
	origin        []float64
	direction     []float64
	steps         int
	stepScale     float64
	momentumScale float64
	escapeRadius  float64

	saveConfig string
	noPlot     bool

	workers int
	svgOut  string
	plane   string
	outFile string
	width   int
	height  int
	theme   string
	braille bool

	samples   int
	seed      uint64
	tolerance float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kerrsim",
		Short: "light ray tracing around Kerr-Newman black holes",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kerrsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "trace one ray backwards and store the run",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	addRayFlags(traceCmd)
	traceCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved configuration to this yaml file")
	traceCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the radius plot")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot radius and null constraint per step",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the projected trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&plane, "plane", "xz", "projection plane (xz, xy, yz)")
	exportSVGCmd.Flags().IntVar(&width, "width", 600, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 600, "image height")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "export the terminal braille rendering instead of a vector path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "step a trace in the terminal, one ray per frame",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRayFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "accretion", "color theme")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "trace a fan of parallel rays concurrently",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	addRayFlags(scanCmd)
	scanCmd.Flags().IntVar(&workers, "workers", 0, "concurrent traces (default GOMAXPROCS)")
	scanCmd.Flags().StringVar(&svgOut, "svg", "", "write all trajectories to this SVG file")
	scanCmd.Flags().StringVar(&plane, "plane", "xz", "projection plane for --svg")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "compare analytic and numerical gradients on random samples",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	checkCmd.Flags().Float64Var(&spin, "a", 0.6, "angular momentum per unit mass")
	checkCmd.Flags().Float64Var(&mass, "mass", 1, "mass")
	checkCmd.Flags().Float64Var(&charge, "charge", 0.3, "charge")
	checkCmd.Flags().IntVar(&samples, "samples", 1000, "number of random samples")
	checkCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	checkCmd.Flags().Float64Var(&tolerance, "tol", 1e-4, "maximum accepted gradient deviation")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(traceCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, liveCmd, scanCmd, checkCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&spin, "a", 0, "angular momentum per unit mass")
	f.Float64Var(&mass, "mass", 1, "mass")
	f.Float64Var(&charge, "charge", 0, "charge")
	f.Float64SliceVar(&origin, "origin", []float64{0, 0, 0, 15}, "ray origin t,x,y,z")
	f.Float64SliceVar(&direction, "dir", []float64{0, 0, -1}, "view direction x,y,z")
	f.IntVar(&steps, "steps", 50, "integration steps")
	f.Float64Var(&stepScale, "step-scale", 0.05, "step size factor on |x|²")
	f.Float64Var(&momentumScale, "momentum-scale", 2, "momentum length after each step")
	f.Float64Var(&escapeRadius, "escape-radius", 0, "stop once |x| exceeds this radius (0 disables)")
}
