// Command procsim runs one headless process lifecycle simulation, logging
// every transition and printing the final results table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/viant/procsim"
	"github.com/viant/procsim/metrics"
	"github.com/viant/procsim/runtime/controller"
	"github.com/viant/procsim/runtime/process"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	configURL string
	processes int
	reportURL string
	timeUnit  time.Duration
	seed      uint64
	logLevel  string
	trace     string
	metrics   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	opts, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	serviceOptions := []procsim.Option{procsim.WithConfig(cfg), procsim.WithLogger(logger)}
	if opts.metrics != "" {
		closeMetrics, err := withMetrics(ctx, opts.metrics, &serviceOptions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer closeMetrics()
	}
	if opts.seed != 0 {
		serviceOptions = append(serviceOptions, procsim.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}
	srv := procsim.New(serviceOptions...)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()

	srv.Controller().OnProcessEvent(func(e controller.ProcessEvent) {
		logger.Info("transition",
			zap.Int("id", e.ID),
			zap.Int("priority", e.Priority),
			zap.String("state", string(e.State)),
			zap.Int("stage", e.State.Stage()),
			zap.Int("cycle", e.CyclesCompleted),
			zap.Int("numCycles", e.NumCycles),
			zap.Float64("progress", e.Progress()),
		)
	})

	report, err := srv.Run(ctx, cfg.Processes)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, controller.ErrRunCancelled) {
			logger.Info("run interrupted")
			return 130
		}
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	printReport(out, report)
	if cfg.Report.URL != "" {
		logger.Info("report saved", zap.String("url", cfg.Report.URL), zap.String("runID", report.ID))
	}
	return 0
}

func parseFlags(args []string) (*options, error) {
	ret := &options{}
	flagSet := flag.NewFlagSet("procsim", flag.ContinueOnError)
	flagSet.StringVar(&ret.configURL, "config", "", "configuration file URL (yaml or json)")
	flagSet.IntVar(&ret.processes, "processes", 0, "number of processes, overrides config")
	flagSet.StringVar(&ret.reportURL, "report", "", "run report directory URL, overrides config")
	flagSet.DurationVar(&ret.timeUnit, "unit", 0, "wall-clock length of one time unit, overrides config")
	flagSet.Uint64Var(&ret.seed, "seed", 0, "random seed, 0 picks one")
	flagSet.StringVar(&ret.logLevel, "log", "", "log level, overrides config")
	flagSet.StringVar(&ret.trace, "trace", "", "write spans to this file")
	flagSet.StringVar(&ret.metrics, "metrics", "", "write metrics to this file on exit")
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	return ret, nil
}

func loadConfig(ctx context.Context, opts *options) (*procsim.Config, error) {
	cfg := procsim.DefaultConfig()
	if opts.configURL != "" {
		loaded, err := procsim.LoadConfig(ctx, opts.configURL)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.processes != 0 {
		cfg.Processes = opts.processes
	}
	if opts.reportURL != "" {
		cfg.Report.URL = opts.reportURL
	}
	if opts.timeUnit != 0 {
		cfg.TimeUnit = opts.timeUnit
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.trace != "" {
		cfg.Tracing = procsim.TracingConfig{Enabled: true, Output: opts.trace}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// withMetrics installs a meter provider flushing to file when the returned function runs.
func withMetrics(ctx context.Context, file string, serviceOptions *[]procsim.Option) (func(), error) {
	f, err := os.Create(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics file: %w", err)
	}
	provider, err := metrics.NewWriterProvider(ctx, procsim.Name, procsim.Version, f, time.Minute)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	*serviceOptions = append(*serviceOptions, procsim.WithMeterProvider(provider))
	return func() {
		_ = provider.Shutdown(context.Background())
		_ = f.Close()
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	if parsed == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(parsed)
	return config.Build()
}

func printReport(out io.Writer, report *process.RunReport) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "run %s\t%s\n", report.ID, report.State)
	fmt.Fprintln(w, "ID\tPRIORITY\tCYCLES\tESTIMATED\tACTUAL\tPROGRESS")
	for _, snapshot := range report.Processes {
		fmt.Fprintf(w, "%d\t%d\t%d/%d\t%.2f\t%.2f\t%.0f%%\n",
			snapshot.ID, snapshot.Priority, snapshot.CyclesCompleted, snapshot.NumCycles,
			snapshot.EstimatedTime, snapshot.ActualTime, snapshot.Progress())
	}
	fmt.Fprintf(w, "TOTAL\t\t\t%.2f\t%.2f\t\n", report.TotalEstimated, report.TotalActual)
	_ = w.Flush()
}
