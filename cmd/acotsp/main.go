package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/copyleftdev/acotsp/internal/config"
	"github.com/copyleftdev/acotsp/internal/logging"
	"github.com/copyleftdev/acotsp/internal/optimization"
	"github.com/copyleftdev/acotsp/internal/optimization/aco"
	"github.com/copyleftdev/acotsp/internal/report"
	"github.com/copyleftdev/acotsp/internal/tsplib"
)

// options are the parsed command line settings.
type options struct {
	params   optimization.Params
	metric   string
	runs     int
	out      string
	plot     bool
	logLevel string
	files    []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "acotsp: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	opts := &options{params: cfg.ACOParams()}

	fs := flag.NewFlagSet("acotsp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: acotsp [flags] file.tsp ...\n\n")
		fs.PrintDefaults()
	}

	fs.IntVar(&opts.params.Iterations, "iterations", opts.params.Iterations, "colony rounds per run")
	fs.IntVar(&opts.params.Colony, "colony", opts.params.Colony, "ants per round")
	fs.Float64Var(&opts.params.Alpha, "alpha", opts.params.Alpha, "desirability exponent")
	fs.Float64Var(&opts.params.Beta, "beta", opts.params.Beta, "pheromone exponent")
	fs.Float64Var(&opts.params.DeltaTau, "delta-tau", opts.params.DeltaTau, "pheromone deposited per traversed edge")
	fs.Float64Var(&opts.params.Rho, "rho", opts.params.Rho, "evaporation rate in [0,1]")
	fs.Int64Var(&opts.params.Seed, "seed", opts.params.Seed, "base seed, run i uses seed+i (0 = time-based)")
	fs.StringVar(&opts.metric, "metric", cfg.ACO.Metric, "edge metric: euclidean, euc_2d, ceil_2d or auto (file EDGE_WEIGHT_TYPE)")
	fs.IntVar(&opts.runs, "runs", cfg.ACO.Runs, "independent runs per file")
	fs.StringVar(&opts.out, "out", cfg.ACO.ResultsDir, "directory for results and plots")
	fs.BoolVar(&opts.plot, "plot", true, "save space and path plots")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()

	if len(opts.files) == 0 {
		fs.Usage()
		return nil, errors.New("no TSPLIB files given")
	}
	if opts.runs < 1 {
		return nil, fmt.Errorf("runs must be positive, got %d", opts.runs)
	}
	if err := opts.params.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return err
	}

	logger := logging.NewText(logging.ParseLevel(opts.logLevel), "acotsp", stdout)
	zl := logging.NewZapLogger(logger)
	defer func() { _ = zl.Sync() }()

	for _, path := range opts.files {
		if err := solveFile(ctx, path, opts, logger, zl); err != nil {
			return err
		}
	}

	logger.Infof("All files generated, see %s for details", opts.out)
	return nil
}

// solveFile runs the repeated searches for one instance and writes its
// results file and plots.
func solveFile(ctx context.Context, path string, opts *options, logger *logging.Logger, zl *zap.Logger) error {
	in, err := tsplib.ReadFile(path)
	if err != nil {
		return err
	}
	m, err := in.Metric(opts.metric)
	if err != nil {
		return err
	}

	logger.Infof("Computing %d times for %s", opts.runs, in.Name)
	logger.Info(fmt.Sprintf("TSP headers\n%s", in.Header()))

	if opts.plot {
		file := report.SpacePlotPath(opts.out, in.Name)
		if err := report.SaveSpacePlot(file, in.Name, in.Points); err != nil {
			return err
		}
		logger.Infof("%s generated", file)
	}

	lengths := make([]float64, 0, opts.runs)
	for i := 0; i < opts.runs; i++ {
		params := opts.params
		if params.Seed != 0 {
			params.Seed += int64(i)
		}

		tour, err := aco.Optimize(ctx, in.Points, params,
			aco.WithMetric(m),
			aco.WithLogger(zl.With(zap.String("instance", in.Name), zap.Int("run", i+1))),
		)
		if err != nil {
			return fmt.Errorf("%s run %d: %w", in.Name, i+1, err)
		}
		lengths = append(lengths, tour.Length)
		logger.Infof("Result #%d of %d for %s: minimum distance %.4f", i+1, opts.runs, in.Name, tour.Length)

		if opts.plot {
			file := report.PathPlotPath(opts.out, in.Name, i+1)
			if err := report.SavePathPlot(file, in.Name, i+1, opts.runs, in.Points, tour); err != nil {
				return err
			}
			logger.Infof("%s generated", file)
		}
	}

	summary := report.Summarize(lengths)
	file, err := report.SaveResults(opts.out, in, opts.params, summary)
	if err != nil {
		return err
	}
	logger.Infof("%s generated", file)
	logger.Infof("Average minimum distance for %s: %.4f (std-dev %.4f)", in.Name, summary.Mean, summary.StdDev)
	return nil
}
