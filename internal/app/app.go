package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/ftbldata/fpl-sync/external/fplapi"
	"github.com/ftbldata/fpl-sync/internal/config"
	"github.com/ftbldata/fpl-sync/internal/infrastructure/repository/postgres"
	"github.com/ftbldata/fpl-sync/internal/platform/logging"
	"github.com/ftbldata/fpl-sync/internal/platform/resilience"
	"github.com/ftbldata/fpl-sync/internal/usecase"
)

// Sync bundles the wired sync service with its shared resources.
type Sync struct {
	Service *usecase.SyncService
	db      *sqlx.DB
}

func (s *Sync) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewSync connects the database, builds the feed client and wires the
// repositories behind a ready-to-run sync service.
func NewSync(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Sync, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	feedClient := fplapi.NewClient(fplapi.ClientConfig{
		HTTPClient:  &http.Client{Timeout: cfg.FeedTimeout},
		BaseURL:     cfg.FeedBaseURL,
		Timeout:     cfg.FeedTimeout,
		MaxRetries:  cfg.FeedMaxRetries,
		BackoffUnit: cfg.FeedBackoffUnit,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})

	service := usecase.NewSyncService(
		feedClient,
		postgres.NewTeamRepository(db),
		postgres.NewPlayerRepository(db),
		postgres.NewFixtureRepository(db),
		postgres.NewRunLockRepository(db),
		usecase.SyncConfig{JobName: cfg.SyncJobName},
		logger,
	)

	return &Sync{Service: service, db: db}, nil
}
