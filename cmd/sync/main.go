// Command sync pulls the Fantasy Premier League feed and reconciles
// the local database against it.
//
// Usage:
//
//	fpl-sync run
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/ftbldata/fpl-sync/internal/app"
	"github.com/ftbldata/fpl-sync/internal/config"
	"github.com/ftbldata/fpl-sync/internal/domain/syncrun"
	"github.com/ftbldata/fpl-sync/internal/observability"
	"github.com/ftbldata/fpl-sync/internal/platform/logging"
	"github.com/ftbldata/fpl-sync/internal/usecase"
)

var syncTracer = otel.Tracer("fpl-sync/cmd/sync")

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "fpl-sync",
		Short:         "Fantasy Premier League feed synchronizer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one sync pass over teams, players and fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync()
		},
	}
}

func runSync() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopPyroscope(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	sync, err := app.NewSync(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := sync.Close(); err != nil {
			logger.Warn("close database failed", "error", err)
		}
	}()

	// Root span for the whole pass. Usecase spans and log trace fields
	// hang off this; there is no inbound request to parent them.
	runCtx, span := syncTracer.Start(ctx, "sync.run")
	defer span.End()

	logger.InfoContext(runCtx, "sync starting",
		"job_name", cfg.SyncJobName,
		"feed_base_url", cfg.FeedBaseURL,
	)

	report, err := sync.Service.Run(runCtx)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, usecase.ErrSyncInProgress) {
			logger.WarnContext(runCtx, "sync already running", "job_name", cfg.SyncJobName)
		}
		// Phases that finished before the failure still report counts.
		logRunReport(runCtx, logger, "sync aborted", report)
		return fmt.Errorf("run sync: %w", err)
	}

	logRunReport(runCtx, logger, "sync finished", report)

	return nil
}

func logRunReport(ctx context.Context, logger *logging.Logger, msg string, report syncrun.Report) {
	logger.InfoContext(ctx, msg,
		"duration", report.Duration().Round(time.Millisecond).String(),
		"teams_inserted", report.Teams.Inserted,
		"teams_updated", report.Teams.Updated,
		"teams_skipped", report.Teams.Skipped,
		"teams_failed", report.Teams.Failed,
		"players_inserted", report.Players.Inserted,
		"players_updated", report.Players.Updated,
		"players_skipped", report.Players.Skipped,
		"players_failed", report.Players.Failed,
		"fixtures_inserted", report.Fixtures.Inserted,
		"fixtures_updated", report.Fixtures.Updated,
		"fixtures_skipped", report.Fixtures.Skipped,
		"fixtures_failed", report.Fixtures.Failed,
	)
}
