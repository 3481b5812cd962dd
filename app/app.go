package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"lexbrief-backend/config"
	"lexbrief-backend/gateway"
	"lexbrief-backend/ingest"
	"lexbrief-backend/repository"
	"lexbrief-backend/service"
	"lexbrief-backend/session"
	"lexbrief-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds the wired components of a running instance
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Service *service.AnalysisService
	Gateway *gateway.Gateway

	closers []io.Closer
	db      *pgxpool.Pool
}

// Option configures New
type Option func(*buildOptions)

type buildOptions struct {
	generator   gateway.Generator
	skipStorage bool
	skipLedger  bool
}

// WithGenerator uses the given generator instead of building one from config
func WithGenerator(g gateway.Generator) Option {
	return func(o *buildOptions) { o.generator = g }
}

// WithoutArchive disables storage and the ledger regardless of config
func WithoutArchive() Option {
	return func(o *buildOptions) {
		o.skipStorage = true
		o.skipLedger = true
	}
}

// New wires the gateway, ingester, session store, storage and ledger from cfg
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	generator := bo.generator
	if generator == nil {
		g, err := gateway.NewGenerator(ctx, gateway.Config{
			Provider:    cfg.AI.Provider,
			Model:       cfg.AI.Model,
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init model provider: %w", err)
		}
		generator = g
		if c, ok := g.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
	}

	a.Gateway = gateway.New(generator,
		gateway.WithTimeout(cfg.AI.Timeout),
		gateway.WithRateLimit(cfg.AI.RateLimit, cfg.AI.RateBurst),
		gateway.WithCache(cfg.AI.CacheTTL),
		gateway.WithLogger(logger),
	)

	svcOpts := []service.AnalysisServiceOption{
		service.AnalysisWithLogger(logger),
		service.AnalysisWithAnalyzer(a.Gateway),
		service.AnalysisWithSessionStore(session.NewStore(cfg.Session.IdleTTL)),
		service.AnalysisWithIngester(ingest.NewIngester(
			ingest.WithMaxFileSize(cfg.Ingest.MaxFileSize),
			ingest.WithLogger(logger),
		)),
	}

	if !bo.skipStorage {
		store, err := storage.NewStorage(ctx, storage.StorageConfig{
			Type:         storage.StorageType(cfg.Storage.Type),
			LocalPath:    cfg.Storage.LocalPath,
			S3Bucket:     cfg.Storage.S3Bucket,
			S3Region:     cfg.Storage.S3Region,
			S3Endpoint:   cfg.Storage.S3Endpoint,
			S3Prefix:     cfg.Storage.S3Prefix,
			AWSAccessKey: cfg.Storage.AWSAccessKey,
			AWSSecretKey: cfg.Storage.AWSSecretKey,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init storage: %w", err)
		}
		if store != nil {
			svcOpts = append(svcOpts, service.AnalysisWithStorage(store))
			logger.Info("storage initialized", "type", cfg.Storage.Type)
		}
	}

	if !bo.skipLedger && cfg.Database.URL != "" {
		repo, err := a.initLedger(ctx, cfg.Database)
		if err != nil {
			a.Close()
			return nil, err
		}
		svcOpts = append(svcOpts, service.AnalysisWithDocumentRecorder(repo))
	}

	a.Service = service.NewAnalysisService(svcOpts...)

	name, model := a.Gateway.Provider()
	logger.Info("model provider ready", "provider", name, "model", model)
	return a, nil
}

func (a *App) initLedger(ctx context.Context, cfg config.DatabaseConfig) (*repository.DocumentRepository, error) {
	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	a.db = pool

	repo := repository.NewDocumentRepository(pool)
	if cfg.AutoMigrate {
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("create documents table: %w", err)
		}
	}
	a.Logger.Info("document ledger connected")
	return repo, nil
}

// Handler returns the HTTP handler for the API
func (a *App) Handler() http.Handler {
	gin.SetMode(a.Config.Server.Mode)
	return NewRouter(a.Service, a.Config.Ingest.MaxFileSize)
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", "port", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	a.Logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// Close releases the model client and database pool
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.Warn("close failed", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
