package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lorenzlab/internal/analysis"
	"github.com/san-kum/lorenzlab/internal/config"
	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/integrators"
	"github.com/san-kum/lorenzlab/internal/logging"
	"github.com/san-kum/lorenzlab/internal/metrics"
	"github.com/san-kum/lorenzlab/internal/physics"
	"github.com/san-kum/lorenzlab/internal/render"
	"github.com/san-kum/lorenzlab/internal/sim"
	"github.com/san-kum/lorenzlab/internal/storage"
	"github.com/san-kum/lorenzlab/internal/tui"
	"github.com/san-kum/lorenzlab/internal/viz"
)

var (
	dataDir  string
	logLevel string

	// Parameter tuple
	sigma      float64
	beta       float64
	rho        float64
	n          int
	maxTime    float64
	density    float64
	seed       int64
	elevation  float64
	azimuth    float64
	integrator string
	workers    int

	configFile string
	preset     string

	outDir   string
	save     bool
	asJSON   bool
	terminal bool

	// analyze
	sweep     bool
	rhoMin    float64
	rhoMax    float64
	rhoSteps  int
	lyapDur   float64
	lyapTrans float64

	// show
	trajIndex int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "lorenz",
		Short:        "lorenz attractor lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lorenz", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	simCmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulate trajectories and render the figure",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}
	addParamFlags(simCmd)
	simCmd.Flags().StringVar(&outDir, "out", "lorenz-out", "output directory for figures")
	simCmd.Flags().BoolVar(&save, "save", false, "archive the run in the data directory")
	simCmd.Flags().BoolVar(&asJSON, "json", false, "print means as json")
	simCmd.Flags().BoolVar(&terminal, "terminal", false, "also draw the figure in the terminal")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive terminal explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			// Logs would tear the alt screen.
			return tui.Run(cfg, logging.NewNop())
		},
	}
	addParamFlags(exploreCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "largest lyapunov exponent and optional rho sweep",
		Args:  cobra.NoArgs,
		RunE:  runAnalyze,
	}
	addParamFlags(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&lyapDur, "duration", 100, "measurement time")
	analyzeCmd.Flags().Float64Var(&lyapTrans, "transient", 10, "discarded transient")
	analyzeCmd.Flags().BoolVar(&sweep, "sweep", false, "plot z maxima over a range of rho")
	analyzeCmd.Flags().Float64Var(&rhoMin, "rho-min", 20, "sweep start")
	analyzeCmd.Flags().Float64Var(&rhoMax, "rho-max", 180, "sweep end")
	analyzeCmd.Flags().IntVar(&rhoSteps, "steps", 80, "sweep points")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators against the adaptive reference",
		RunE:  runCompare,
	}
	addParamFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot an archived trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&trajIndex, "traj", 0, "trajectory index")

	exportCmd := &cobra.Command{
		Use:   "export [run_id] [file]",
		Short: "export an archived run to JSON",
		Args:  cobra.ExactArgs(2),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIGMA\tBETA\tRHO\tN\tTIME")
			for _, name := range config.ListPresets() {
				c := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%.4g\t%g\t%d\t%g\n", name, c.Sigma, c.Beta, c.Rho, c.N, c.MaxTime)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(simCmd, exploreCmd, analyzeCmd, compareCmd, listCmd, showCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.Float64Var(&sigma, "sigma", d.Sigma, "prandtl number σ")
	f.Float64Var(&beta, "beta", d.Beta, "geometric factor β")
	f.Float64Var(&rho, "rho", d.Rho, "rayleigh number ρ")
	f.IntVar(&n, "n", d.N, "number of trajectories")
	f.Float64Var(&maxTime, "max-time", d.MaxTime, "integration end time")
	f.Float64Var(&density, "density", d.Density, "samples per unit time")
	f.Int64Var(&seed, "seed", d.Seed, "initial condition seed")
	f.Float64Var(&elevation, "elevation", d.Elevation, "camera elevation (degrees)")
	f.Float64Var(&azimuth, "azimuth", d.Azimuth, "camera azimuth (degrees)")
	f.StringVar(&integrator, "integrator", d.Integrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	f.IntVar(&workers, "workers", d.Workers, "parallel trajectories")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("sigma") {
		cfg.Sigma = sigma
	}
	if f.Changed("beta") {
		cfg.Beta = beta
	}
	if f.Changed("rho") {
		cfg.Rho = rho
	}
	if f.Changed("n") {
		cfg.N = n
	}
	if f.Changed("max-time") {
		cfg.MaxTime = maxTime
	}
	if f.Changed("density") {
		cfg.Density = density
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("elevation") {
		cfg.Elevation = elevation
	}
	if f.Changed("azimuth") {
		cfg.Azimuth = azimuth
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	return logging.New(logging.ParseLevel(logLevel))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func simulate(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sim.TrajectorySet, error) {
	s, err := sim.New(cfg.SimConfig(log))
	if err != nil {
		return nil, err
	}
	ics, err := cfg.InitialConditions()
	if err != nil {
		return nil, err
	}
	return s.Simulate(ctx, cfg.Params(), ics, cfg.Grid())
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(os.Stderr, "simulating %d trajectories (σ=%g β=%.4g ρ=%g, t≤%g)...\n",
		cfg.N, cfg.Sigma, cfg.Beta, cfg.Rho, cfg.MaxTime)
	start := time.Now()

	set, err := simulate(ctx, cfg, log)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fig, err := render.Render(set, cfg.View())
	if err != nil {
		return err
	}
	means, err := render.Summarize(set)
	if err != nil {
		return err
	}

	if err := writeFigures(outDir, fig, means); err != nil {
		return err
	}
	log.Info("figures written", "dir", outDir)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(means); err != nil {
			return err
		}
	} else {
		fmt.Printf("completed in %v (%s)\n", elapsed, set.Stats())
		lim := fig.Limits
		inside := metrics.InBounds(set,
			dynamo.State{lim.X.Min, lim.Y.Min, lim.Z.Min},
			dynamo.State{lim.X.Max, lim.Y.Max, lim.Z.Max})
		fmt.Printf("samples inside view: %.1f%%\n\n", 100*inside)
		if err := printMeans(means); err != nil {
			return err
		}
	}

	if terminal {
		fmt.Println()
		fmt.Println(viz.Draw(fig, 80, 30))
		xs, ys := render.Histograms(means)
		fmt.Println(viz.HistogramPanel("mean x", xs))
		fmt.Println(viz.HistogramPanel("mean y", ys))
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta, err := st.Save(set, cfg.Seed, cfg.View())
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", meta.ID)
	}
	return nil
}

func printMeans(means []render.Mean) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tMEAN X\tMEAN Y\tMEAN Z")
	for i, m := range means {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\n", i, m.X, m.Y, m.Z)
	}
	return w.Flush()
}

func writeFigures(dir string, fig *render.Figure, means []render.Mean) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	create := func(name string, write func(f *os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		return f.Close()
	}

	xs, ys := render.Histograms(means)
	return errors.Join(
		create("figure.html", func(f *os.File) error {
			return render.WriteHTML(f, fig, render.HTMLOptions{})
		}),
		create("figure.png", func(f *os.File) error {
			return render.WriteImage(f, fig, render.FormatPNG)
		}),
		create("hist_x.png", func(f *os.File) error {
			return render.WriteHistogram(f, xs, "mean x per trajectory", "x", render.FormatPNG)
		}),
		create("hist_y.png", func(f *os.File) error {
			return render.WriteHistogram(f, ys, "mean y per trajectory", "y", render.FormatPNG)
		}),
	)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sys := physics.NewLorenz(cfg.Params())
	integ := integrators.MustNew("rk4")

	opts := analysis.DefaultLyapunovOptions()
	opts.Duration = lyapDur
	opts.Transient = lyapTrans

	start := time.Now()
	lambda, err := analysis.LyapunovExponent(sys, integ, sys.DefaultState(), opts)
	if err != nil {
		return err
	}

	fmt.Printf("σ=%g β=%.4g ρ=%g\n", cfg.Sigma, cfg.Beta, cfg.Rho)
	fmt.Printf("largest lyapunov exponent: %.4f (%v)\n", lambda, time.Since(start).Round(time.Millisecond))
	if lambda > 0.01 {
		fmt.Println("chaotic")
	} else {
		fmt.Println("not chaotic")
	}
	for i, fp := range cfg.Params().FixedPoints() {
		fmt.Printf("fixed point %d: %v\n", i, fp)
	}

	if !sweep {
		return nil
	}
	fmt.Printf("\nz maxima for ρ in [%g, %g]\n", rhoMin, rhoMax)
	data, err := analysis.RhoSweep(cfg.Params(), integ, rhoMin, rhoMax, rhoSteps, sys.DefaultState(), analysis.DefaultSweepOptions())
	if err != nil {
		return err
	}
	fmt.Println(analysis.BifurcationToASCII(data, 80, 20))
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}
	log := newLogger()
	ctx, cancel := signalContext()
	defer cancel()

	refCfg := cfg.Clone()
	refCfg.Integrator = integrators.Default
	ref, err := simulate(ctx, refCfg, log)
	if err != nil {
		return fmt.Errorf("reference run: %w", err)
	}

	fmt.Printf("comparing integrators against %s (N=%d, t≤%g)\n\n", integrators.Default, cfg.N, cfg.MaxTime)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tMAX DEV\tAT\tFINAL DEV\tSTEPS\tTIME")
	for _, name := range names {
		c := cfg.Clone()
		c.Integrator = name

		start := time.Now()
		set, err := simulate(ctx, c, log)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		d, err := metrics.Compare(ref, set)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.3e\t#%d t=%.3f\t%.3e\t%d\t%.2fms\n",
			name, d.Max, d.MaxIndex, d.MaxTime, d.Final, set.Stats().Steps,
			float64(elapsed.Microseconds())/1000)
	}
	return w.Flush()
}

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
	fmt.Fprintln(w, "ID\tTIME\tSIGMA\tBETA\tRHO\tN\tMAX T\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%.4g\t%g\t%d\t%g\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Sigma,
			run.Params.Beta,
			run.Params.Rho,
			run.Trajectories,
			run.Grid.MaxTime,
			run.Integrator,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	set, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}
	if trajIndex < 0 || trajIndex >= set.Len() {
		return fmt.Errorf("trajectory %d out of range (run has %d)", trajIndex, set.Len())
	}
	tr := set.Trajectories[trajIndex]

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("σ=%g β=%.4g ρ=%g\n", meta.Params.Sigma, meta.Params.Beta, meta.Params.Rho)
	fmt.Printf("trajectory %d from %v, %d samples\n\n", trajIndex, tr.Initial.State(), tr.Len())

	for i, axis := range []string{"x", "y", "z"} {
		graph := asciigraph.Plot(tr.Coordinate(i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(axis+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	set, err := st.LoadTrajectories(args[0])
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(args[1], meta, set); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, args[1])
	return nil
}
