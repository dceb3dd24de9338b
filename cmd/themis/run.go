package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"veritas-hq/themis/pkg/cli"
	"veritas-hq/themis/pkg/compliance"
	"veritas-hq/themis/pkg/config"
	"veritas-hq/themis/pkg/dataset"
	"veritas-hq/themis/pkg/runner"
	"veritas-hq/themis/pkg/store"
	"veritas-hq/themis/pkg/telemetry/health"
	"veritas-hq/themis/pkg/telemetry/metrics"
)

var runFlags struct {
	policyFile  string
	datasetFile string
	datasetType string
	policyID    string
	datasetID   string
	schedule    string
	logLevel    string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run store-backed compliance evaluation",
	Long: `Run a store-backed compliance evaluation for a policy/dataset pair.

Without a schedule the pair is evaluated once and the command exits.
With scheduling enabled (config or --schedule) the command stays up,
re-evaluating on the cron schedule; the policy watcher, when enabled,
re-extracts rules whenever a watched policy file changes.

A policy text file and a dataset CSV can be registered on the fly with
--policy-file and --dataset-file; otherwise the pair is selected by ID
from the store.

Examples:
  # One-shot run, registering inputs as it goes
  themis run --policy-file handbook.txt --dataset-file claims.csv --type benefit

  # Recurring run for stored IDs
  themis run --policy <id> --dataset <id> --schedule "0 3 * * *"

  # Fully config-driven service mode
  themis run --config /etc/themis/config.yaml`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.policyFile, "policy-file", "", "policy text file to register and use")
	runCmd.Flags().StringVar(&runFlags.datasetFile, "dataset-file", "", "dataset CSV file to register and use")
	runCmd.Flags().StringVarP(&runFlags.datasetType, "type", "t", "", "dataset type for --dataset-file: leave, benefit")
	runCmd.Flags().StringVar(&runFlags.policyID, "policy", "", "stored policy ID")
	runCmd.Flags().StringVar(&runFlags.datasetID, "dataset", "", "stored dataset ID")
	runCmd.Flags().StringVar(&runFlags.schedule, "schedule", "", "cron expression for recurring runs")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runService(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("loading config: %w", err))
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if runFlags.schedule != "" {
		cfg.Scheduler.Enabled = true
		cfg.Scheduler.Schedule = runFlags.schedule
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewCommandError("run", err)
	}

	setupLogging(cfg.Logging)

	st, err := openStore(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer st.Close()

	var m *metrics.ComplianceMetrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		m = metrics.New(cfg.Metrics.Namespace, registry)

		checker := health.New(0)
		checker.Register("store", func(ctx context.Context) error {
			_, err := st.ListPolicies(ctx)
			return err
		})
		go serveTelemetry(cfg.Metrics.ListenAddress, registry, checker)
	}

	r := runner.New(st, compliance.NewEvaluator(m), nil, nil)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	policyID, datasetID, err := resolvePair(ctx, r, st, cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	if !cfg.Scheduler.Enabled && !cfg.Watch.Enabled {
		violations, err := r.Run(ctx, policyID, datasetID)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		fmt.Printf("✓ Evaluation complete: %d violation(s)\n", len(violations))
		return nil
	}

	if cfg.Scheduler.Enabled {
		sched := runner.NewScheduler(r, cfg.Scheduler.Schedule, policyID, datasetID)
		if err := sched.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer sched.Stop()
		fmt.Printf("✓ Scheduler started (%s)\n", cfg.Scheduler.Schedule)
	}

	if cfg.Watch.Enabled {
		watcher, err := runner.NewWatcher(r, cfg.Watch.Dir, cfg.Watch.Debounce.AsDuration())
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		watcher.Start(ctx)
		defer watcher.Stop()
		fmt.Printf("✓ Watching %s for policy changes\n", cfg.Watch.Dir)
	}

	fmt.Println("\nPress Ctrl+C to stop")
	<-ctx.Done()
	fmt.Println("\nShutting down")
	return nil
}

// resolvePair registers any inputs supplied as files and returns the
// policy/dataset IDs to evaluate. Flag IDs win over config IDs.
func resolvePair(ctx context.Context, r *runner.Runner, st store.Store, cfg *config.Config) (string, string, error) {
	policyID := runFlags.policyID
	if policyID == "" {
		policyID = cfg.Scheduler.PolicyID
	}
	datasetID := runFlags.datasetID
	if datasetID == "" {
		datasetID = cfg.Scheduler.DatasetID
	}

	if runFlags.policyFile != "" {
		policy, err := r.SyncPolicyFile(ctx, runFlags.policyFile)
		if err != nil {
			return "", "", fmt.Errorf("registering policy file: %w", err)
		}
		policyID = policy.ID
	}

	if runFlags.datasetFile != "" {
		dt := dataset.Type(runFlags.datasetType)
		if !dt.Valid() {
			return "", "", fmt.Errorf("--dataset-file requires --type leave or benefit")
		}
		path, err := filepath.Abs(runFlags.datasetFile)
		if err != nil {
			return "", "", err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		ds := &dataset.Dataset{Name: name, Type: dt, FilePath: path}
		if err := st.SaveDataset(ctx, ds); err != nil {
			return "", "", fmt.Errorf("registering dataset file: %w", err)
		}
		datasetID = ds.ID
	}

	if policyID == "" || datasetID == "" {
		return "", "", fmt.Errorf("no policy/dataset pair selected (use flags or the scheduler config)")
	}
	return policyID, datasetID, nil
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func openStore(cfg config.StorageConfig) (store.Store, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		sqliteConfig := store.DefaultSQLiteConfig()
		sqliteConfig.Path = cfg.Path
		return store.NewSQLiteStore(sqliteConfig)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

func serveTelemetry(address string, registry *prometheus.Registry, checker *health.Checker) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	checker.RegisterEndpoints(mux)
	slog.Info("telemetry endpoint listening", "address", address)
	if err := http.ListenAndServe(address, mux); err != nil {
		slog.Error("telemetry endpoint failed", "error", err)
	}
}
