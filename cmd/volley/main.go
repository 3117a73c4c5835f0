package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/torosent/volley/internal/config"
	"github.com/torosent/volley/internal/history"
	"github.com/torosent/volley/internal/httpclient"
	"github.com/torosent/volley/internal/idsource"
	"github.com/torosent/volley/internal/metrics"
	"github.com/torosent/volley/internal/output"
	"github.com/torosent/volley/internal/runner"
	"github.com/torosent/volley/internal/threshold"
	"github.com/torosent/volley/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

var errThresholdsFailed = errors.New("one or more thresholds failed")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return execute(ctx, args, os.Stdout, os.Stderr)
}

// execute runs one load test. Everything that can be rejected is rejected
// before the first request is sent; once dispatch starts the report is
// always printed.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.NewLoader().Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ids, err := collectIDs(cfg)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return runner.ErrNoIdentifiers
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	target, err := httpclient.NewTarget(cfg.BaseURL, cfg.Credential, cfg.Timeout, cfg.Collection, cfg.Action)
	if err != nil {
		return err
	}

	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	var invokerOpts []httpclient.Option
	if tp.Enabled() {
		invokerOpts = append(invokerOpts, httpclient.WithTracing(tp.Tracer(), tp.ShouldPropagate()))
	}
	invoker, err := httpclient.NewInvoker(httpclient.NewClient(cfg.Concurrency), target, invokerOpts...)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	var failureLog runner.Observer
	if cfg.LogErrors {
		failureLog = runner.WithLogging(nil, &logrusFailureLogger{log: log})
	}
	observer := runner.Observers(collector.Record, failureLog)

	log.WithFields(logrus.Fields{
		"target":      target.BaseURL + "/v1/" + target.Route(),
		"ids":         len(ids),
		"repeat":      cfg.Repeat,
		"concurrency": cfg.Concurrency,
		"rate":        cfg.Rate,
	}).Info("starting run")

	coordinator := runner.New(runner.Options{
		Concurrency:   cfg.Concurrency,
		RatePerSecond: cfg.Rate,
		Invoker:       invoker,
		Observer:      observer,
	})

	var progress *output.ProgressReporter
	if cfg.Progress && !cfg.JSONOutput && !cfg.YAMLOutput {
		progress = output.NewProgressReporter(collector, progressInterval, stderr)
	}

	// Mark the actual start so the live request rate excludes setup time.
	collector.Start(len(ids) * cfg.Repeat)
	if progress != nil {
		progress.Start()
	}
	result, err := coordinator.Run(ctx, ids, cfg.Repeat)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return err
	}
	stats := result.Stats

	log.WithFields(logrus.Fields{
		"run_id":        stats.RunID,
		"max_in_flight": result.MaxInFlight,
	}).Debug("run finished")
	if ctx.Err() != nil {
		log.Warn("run interrupted; unstarted requests are reported as transport errors")
	}

	switch {
	case cfg.JSONOutput:
		err = output.PrintJSONReport(stdout, stats)
	case cfg.YAMLOutput:
		err = output.PrintYAMLReport(stdout, stats)
	default:
		output.PrintReport(stdout, stats)
	}
	if err != nil {
		return err
	}

	if cfg.HistoryFile != "" {
		if err := recordHistory(cfg.HistoryFile, target, stats); err != nil {
			log.WithError(err).Warn("could not record run history")
		}
	}

	results := threshold.NewEvaluator(thresholds).Evaluate(stats)
	report := stdout
	if cfg.JSONOutput || cfg.YAMLOutput {
		report = stderr
	}
	if !output.PrintThresholds(report, results) {
		return errThresholdsFailed
	}
	return nil
}

// collectIDs merges --ids with the identifiers read from --ids-file.
func collectIDs(cfg *config.Config) ([]string, error) {
	ids := append([]string(nil), cfg.IDs...)
	if cfg.IDsFile != "" {
		fromFile, err := idsource.Load(cfg.IDsFile, cfg.IDsField)
		if err != nil {
			return nil, fmt.Errorf("ids file: %w", err)
		}
		ids = append(ids, fromFile...)
	}
	return ids, nil
}

func recordHistory(path string, target httpclient.Target, stats metrics.Stats) error {
	store, err := history.NewStore(path)
	if err != nil {
		return err
	}
	return store.Append(history.Entry{
		RunID:     stats.RunID,
		Timestamp: time.Now().UTC(),
		Target:    target.BaseURL + "/v1/" + target.Route(),
		Stats:     stats,
	})
}
