package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/modelkeeper/internal/adapter/driven/filestore"
	sqliteadapter "github.com/ericfisherdev/modelkeeper/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/modelkeeper/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/modelkeeper/internal/adapter/driving/web"
	"github.com/ericfisherdev/modelkeeper/internal/application"
	"github.com/ericfisherdev/modelkeeper/internal/config"
	"github.com/ericfisherdev/modelkeeper/internal/domain/port/driven"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr(),
		"data_dir", cfg.DataDir,
		"storage", cfg.Storage,
		"log_level", cfg.LogLevel.String(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open and initialize the record store.
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// 4. Wire the service and HTTP adapters.
	modelSvc := application.NewModelService(store, logger)
	metrics := httphandler.NewMetrics()

	router := httphandler.NewRouter(logger, metrics)
	httphandler.RegisterAPIRoutes(router, httphandler.NewHandler(modelSvc, metrics, version, logger))

	webHandler, err := webhandler.NewHandler("modelkeeper", logger)
	if err != nil {
		return err
	}
	webhandler.RegisterRoutes(router, webHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 5. Serve until a signal arrives or the listener fails.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server starting", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		// Graceful shutdown with 10s timeout for in-flight requests.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// openStore builds the configured ModelStore and returns a func releasing
// its resources.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (driven.ModelStore, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}

		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("database opened", "path", db.Path())

		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Error("error closing database", "error", err)
			}
		}
		return sqliteadapter.NewModelRepo(db, logger), closeDB, nil

	default:
		store := filestore.New(cfg.DataDir, logger)
		if err := store.Initialize(ctx); err != nil {
			return nil, nil, err
		}
		logger.Info("record directory ready", "path", store.Dir())

		return store, func() {}, nil
	}
}
