package main

import (
	"context"
	"errors"
	"log/slog"
	"mattressfit/internal/cache"
	"mattressfit/internal/catalog"
	"mattressfit/internal/config"
	"mattressfit/internal/metrics"
	"mattressfit/internal/repository"
	"mattressfit/internal/service"
	"mattressfit/internal/transport/rest"
	"mattressfit/internal/transport/ws"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Mattress Fit API
// @version 1.0
// @description Mattress consultation site: survey sessions, lead capture and admin content.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return err
	}
	logger.Info("connected to MongoDB", "database", cfg.MongoDB)

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Warn("index creation failed", "error", err)
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Info("connected to Redis", "addr", cfg.RedisAddr())

	leadRepo, closeLeads, err := openLeadRepo(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	defer closeLeads()

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger)
	defer wsHub.Close()

	collector := metrics.New()

	normalizer := catalog.NewNormalizer(logger)
	if err := normalizer.Configure(cfg.Survey.Normalization, cfg.Survey.DerivedOptions); err != nil {
		return err
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg)
	catalogSvc := service.NewCatalogService(repository.NewQuestionRepo(db), normalizer, logger)
	contentSvc := service.NewContentService(repository.NewContentRepo(db), cache.NewContentCache(rdb), logger)
	notifier := service.NewTelegramNotifier(cfg.Telegram, logger)
	leadSvc := service.NewLeadService(leadRepo, notifier, catalogSvc, collector, logger)
	surveySvc := service.NewSurveyService(cache.NewSessionCache(rdb, cfg.SessionTTL), catalogSvc, leadSvc, collector, logger)
	statsSvc := service.NewStatsService(contentSvc, catalogSvc, leadSvc)
	uploadSvc := service.NewUploadService(cfg.UploadDir, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	catalogSvc.SetBroadcaster(wsHub)
	contentSvc.SetBroadcaster(wsHub)
	leadSvc.SetBroadcaster(wsHub)

	if !cfg.Telegram.IsEnabled() {
		logger.Warn("telegram credentials missing, submissions will be rejected")
	}

	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		CatalogService: catalogSvc,
		ContentService: contentSvc,
		SurveyService:  surveySvc,
		LeadService:    leadSvc,
		StatsService:   statsSvc,
		UploadService:  uploadSvc,
		Metrics:        collector,
		WSHub:          wsHub,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "lead_store", cfg.LeadStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server exited")
	return nil
}

// openLeadRepo picks the lead store named by LEAD_STORE
func openLeadRepo(ctx context.Context, cfg *config.Config, db *mongo.Database, logger *slog.Logger) (repository.LeadRepo, func(), error) {
	if cfg.LeadStore != "postgres" {
		return repository.NewLeadRepo(db), func() {}, nil
	}

	pg, err := sqlx.ConnectContext(ctx, "postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.MigrateLeads(ctx, pg); err != nil {
		pg.Close()
		return nil, nil, err
	}
	logger.Info("connected to Postgres lead store")
	return repository.NewPostgresLeadRepo(pg), func() { pg.Close() }, nil
}
