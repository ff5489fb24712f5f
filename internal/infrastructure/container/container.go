// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	appmealplan "github.com/nutricoach/v1/internal/application/mealplan"
	"github.com/nutricoach/v1/internal/application/prompts"
	"github.com/nutricoach/v1/internal/application/rag"
	appreport "github.com/nutricoach/v1/internal/application/report"
	appuser "github.com/nutricoach/v1/internal/application/user"
	"github.com/nutricoach/v1/internal/infrastructure/ai/lmstudio"
	"github.com/nutricoach/v1/internal/infrastructure/config"
	"github.com/nutricoach/v1/internal/infrastructure/extract"
	"github.com/nutricoach/v1/internal/infrastructure/http/server"
	"github.com/nutricoach/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/nutricoach/v1/internal/infrastructure/persistence/gorm"
	"github.com/nutricoach/v1/internal/infrastructure/persistence/memory"
	"github.com/nutricoach/v1/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/nutricoach/v1/internal/infrastructure/persistence/redis"
	"github.com/nutricoach/v1/internal/infrastructure/persistence/sqlite"
	"github.com/nutricoach/v1/internal/infrastructure/search/chroma"
	"github.com/nutricoach/v1/internal/ports/inbound"
	"github.com/nutricoach/v1/internal/ports/outbound"
	"github.com/nutricoach/v1/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,
	AIModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides Prometheus metrics
var MonitoringModule = fx.Provide(
	monitoring.NewMetrics,
)

// DatabaseModule provides the database connection. SQLite serves
// development, Postgres production; both run migrations on startup.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		switch cfg.Database.Driver {
		case "postgres":
			db, err := postgres.Connect(cfg.Database, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to postgres: %w", err)
			}
			log.Info("Connected to PostgreSQL database",
				zap.String("host", cfg.Database.Host),
				zap.String("database", cfg.Database.Database))
			return db, nil
		default:
			dbPath := ""
			if cfg.Database.Database != "" && cfg.Database.Database != "nutricoach" {
				dbPath = cfg.Database.Database
			}
			db, err := sqlite.SetupDatabase(dbPath, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup sqlite database: %w", err)
			}
			log.Info("Connected to SQLite database",
				zap.String("path", dbPath),
				zap.Bool("in_memory", dbPath == ""))
			return db, nil
		}
	},
)

// CacheModule provides the summary cache, backed by Redis when an
// endpoint is configured and by process memory otherwise.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		if cfg.RedisEnabled() {
			return redisRepo.NewCacheRepository(cfg.Redis, log)
		}
		log.Info("Using in-memory summary cache")
		return memory.NewCacheRepository(), nil
	},
)

// AIModule provides the inference and retrieval clients
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.EmbeddingService {
		return lmstudio.NewEmbeddingClient(lmstudio.Config{
			BaseURL:        cfg.AI.BaseURL,
			APIKey:         cfg.AI.APIKey,
			EmbeddingModel: cfg.AI.EmbeddingModel,
			Timeout:        cfg.AI.Timeout,
			BatchSize:      cfg.AI.EmbeddingBatchSize,
			BatchInterval:  cfg.AI.EmbeddingBatchInterval,
		}, log)
	},
	func(cfg *config.Config, log *zap.Logger) outbound.CompletionService {
		return lmstudio.NewCompletionClient(lmstudio.Config{
			BaseURL:         cfg.AI.BaseURL,
			APIKey:          cfg.AI.APIKey,
			CompletionModel: cfg.AI.CompletionModel,
			Timeout:         cfg.AI.Timeout,
			MaxRetries:      cfg.AI.MaxRetries,
		}, log)
	},
	func(cfg *config.Config, log *zap.Logger) outbound.RecipeIndex {
		return chroma.NewIndex(chroma.Config{
			BaseURL:    cfg.AI.IndexURL,
			Collection: cfg.AI.IndexCollection,
		}, log)
	},
	func(cfg *config.Config, log *zap.Logger) outbound.TextExtractor {
		return extract.NewExtractor(extract.Config{
			OCREndpoint: cfg.OCR.Endpoint,
			OCRAPIKey:   cfg.OCR.APIKey,
			OCRLanguage: cfg.OCR.Language,
		}, log)
	},
	func(embedder outbound.EmbeddingService, index outbound.RecipeIndex, cfg *config.Config, log *zap.Logger) *rag.Retriever {
		return rag.NewRetriever(embedder, index, cfg.AI.RetrievalTopK, log)
	},
	prompts.NewBuilder,
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewUserRepository,
	gormRepo.NewHealthReportRepository,
	gormRepo.NewMealPlanRepository,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		func(users outbound.UserRepository, log *zap.Logger) *appuser.Service {
			return appuser.NewService(users, log)
		},
		fx.As(new(inbound.UserService)),
	),
	fx.Annotate(
		func(
			users outbound.UserRepository,
			reports outbound.HealthReportRepository,
			extractor outbound.TextExtractor,
			completions outbound.CompletionService,
			cache outbound.CacheRepository,
			promptBuilder *prompts.Builder,
			cfg *config.Config,
			metrics *monitoring.Metrics,
			log *zap.Logger,
		) *appreport.Service {
			return appreport.NewService(
				users, reports, extractor, completions, cache, promptBuilder,
				cfg.AI.ReportTemperature, cfg.AI.SummaryCacheTTL, metrics, log,
			)
		},
		fx.As(new(inbound.HealthReportService)),
	),
	fx.Annotate(
		func(
			users outbound.UserRepository,
			reports outbound.HealthReportRepository,
			plans outbound.MealPlanRepository,
			retriever *rag.Retriever,
			completions outbound.CompletionService,
			promptBuilder *prompts.Builder,
			cfg *config.Config,
			metrics *monitoring.Metrics,
			log *zap.Logger,
		) *appmealplan.Service {
			return appmealplan.NewService(
				users, reports, plans, retriever, completions, promptBuilder,
				cfg.AI.PlanTemperature, metrics, log,
			)
		},
		fx.As(new(inbound.MealPlanService)),
	),
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule registers application lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts the HTTP server on application start
// and releases resources on stop.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting NutriCoach",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment))

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down NutriCoach")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
