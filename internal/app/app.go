package app

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pitchdata/matchform/external/resultsfeed"
	"github.com/pitchdata/matchform/internal/config"
	"github.com/pitchdata/matchform/internal/domain/features"
	cacherepo "github.com/pitchdata/matchform/internal/infrastructure/repository/cache"
	"github.com/pitchdata/matchform/internal/infrastructure/repository/memory"
	"github.com/pitchdata/matchform/internal/infrastructure/repository/postgres"
	"github.com/pitchdata/matchform/internal/interfaces/datafile"
	"github.com/pitchdata/matchform/internal/platform/cache"
	idgen "github.com/pitchdata/matchform/internal/platform/id"
	"github.com/pitchdata/matchform/internal/platform/logging"
	"github.com/pitchdata/matchform/internal/platform/resilience"
	"github.com/pitchdata/matchform/internal/usecase"
)

// Application holds the wired pipeline and its external collaborators.
type Application struct {
	Config   config.Config
	Logger   *logging.Logger
	Pipeline *usecase.PipelineService

	feed *resultsfeed.Client
	db   *sqlx.DB
}

// New builds the full object graph from configuration: file reader and
// writers, optional feature store, optional results feed, and the pipeline
// orchestrator on top.
func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	reader := datafile.NewCSVResultReader(logger)

	writers := []usecase.DatasetWriter{datafile.NewCSVDatasetWriter(logger)}
	if cfg.WriteJSON {
		writers = append(writers, datafile.NewJSONDatasetWriter(logger))
	}
	manifest := datafile.NewManifestWriter(logger)

	var store features.Repository
	var db *sqlx.DB
	if cfg.FeatureStoreEnabled {
		switch cfg.FeatureStoreDriver {
		case config.FeatureStoreMemory:
			store = memory.NewFeatureRepository()
		default:
			opened, err := openDB(cfg)
			if err != nil {
				return nil, fmt.Errorf("open feature store db: %w", err)
			}
			db = opened
			store = postgres.NewFeatureRepository(db)
		}
		if cfg.CacheEnabled {
			store = cacherepo.NewFeatureRepository(store, cache.NewStore(cfg.CacheTTL))
		}
	}

	preprocess := usecase.NewPreprocessService(logger)
	engineer := usecase.NewFeatureService(usecase.FeatureConfig{
		FormWindow:  cfg.FormWindow,
		TeamWorkers: cfg.TeamWorkers,
	}, logger)

	pipeline := usecase.NewPipelineService(
		reader,
		writers,
		manifest,
		store,
		preprocess,
		engineer,
		idgen.NewRandomGenerator(),
		usecase.PipelineConfig{
			InputDir:    cfg.InputDir,
			OutputDir:   cfg.OutputDir,
			FileWorkers: cfg.FileWorkers,
		},
		logger,
	)

	var feed *resultsfeed.Client
	if cfg.FeedEnabled {
		var feedCache *cache.Store
		if cfg.CacheEnabled {
			feedCache = cache.NewStore(cfg.CacheTTL)
		}
		feed = resultsfeed.NewClient(resultsfeed.ClientConfig{
			BaseURL:    cfg.FeedBaseURL,
			Timeout:    cfg.FeedTimeout,
			MaxRetries: cfg.FeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FeedCircuitEnabled,
				FailureThreshold: cfg.FeedCircuitFailureCount,
				OpenTimeout:      cfg.FeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
			},
			Cache: feedCache,
		})
	}

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline,
		feed:     feed,
		db:       db,
	}, nil
}

// DownloadSeasons fetches every configured season file into the input
// directory. Failed seasons are reported together so one bad download does
// not block the rest; callers may still run the pipeline on the files that
// arrived.
func (a *Application) DownloadSeasons(ctx context.Context) error {
	if a.feed == nil || len(a.Config.FeedSeasons) == 0 {
		return nil
	}

	var errs []error
	for _, season := range a.Config.FeedSeasons {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := a.feed.DownloadSeason(ctx, season, a.Config.InputDir); err != nil {
			a.Logger.WarnContext(ctx, "season download failed", "season", season, "error", err)
			errs = append(errs, fmt.Errorf("season %s: %w", season, err))
		}
	}
	return stderrors.Join(errs...)
}

func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	return db, nil
}
