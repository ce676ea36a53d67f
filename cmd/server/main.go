package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/logviewer/internal/adapter/api"
	"github.com/V4T54L/logviewer/internal/adapter/api/handler"
	"github.com/V4T54L/logviewer/internal/adapter/cache"
	"github.com/V4T54L/logviewer/internal/adapter/metrics"
	"github.com/V4T54L/logviewer/internal/adapter/pii"
	"github.com/V4T54L/logviewer/internal/adapter/repository/filesystem"
	"github.com/V4T54L/logviewer/internal/adapter/repository/jsonfile"
	"github.com/V4T54L/logviewer/internal/adapter/repository/postgres"
	redisrepo "github.com/V4T54L/logviewer/internal/adapter/repository/redis"
	"github.com/V4T54L/logviewer/internal/domain"
	"github.com/V4T54L/logviewer/internal/logquery"
	"github.com/V4T54L/logviewer/internal/pkg/config"
	"github.com/V4T54L/logviewer/internal/pkg/logger"
	"github.com/V4T54L/logviewer/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Start Metrics Server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Folder Store ---
	folderRepo, closeStore, err := openFolderStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open folder store", "store", cfg.FolderStore, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	files, err := filesystem.NewLogFileRepository(cfg.FilePatterns, logger)
	if err != nil {
		logger.Error("invalid log file patterns", "error", err)
		os.Exit(1)
	}

	folderUseCase := usecase.NewFolderUseCase(folderRepo, files, logger)

	seed, err := config.LoadFolderSeed(cfg.FolderSeedPath)
	if err != nil {
		logger.Error("failed to read folder seed", "path", cfg.FolderSeedPath, "error", err)
		os.Exit(1)
	}
	if err := folderUseCase.Seed(ctx, seed); err != nil {
		logger.Warn("failed to seed folders", "error", err)
	}

	// --- Snapshots ---
	snapshotCache := cache.NewSnapshotCache(cfg.SnapshotCacheSize, cfg.SnapshotTTL, logger, m)

	var watcher domain.FileWatcher
	if cfg.WatchFiles {
		w, err := filesystem.NewWatcher(snapshotCache, logger)
		if err != nil {
			logger.Warn("file watching disabled", "error", err)
		} else {
			defer w.Close()
			go w.Run(ctx)
			watcher = w
		}
	}

	// --- Initialize Use Cases ---
	loc := cfg.Location()
	filterUseCase := usecase.NewFilterLogsUseCase(folderUseCase, files, logquery.NewLineParser(loc), cfg.DisplayRowLimit, m, logger)
	if len(cfg.RedactPatterns) > 0 {
		redactor, err := pii.NewRedactor(cfg.RedactPatterns, logger)
		if err != nil {
			logger.Error("failed to compile redaction patterns", "error", err)
			os.Exit(1)
		}
		filterUseCase.WithRedactor(redactor)
	}
	snapshotUseCase := usecase.NewSnapshotUseCase(filterUseCase, folderUseCase, snapshotCache, watcher, logger)
	authUseCase := usecase.NewAuthUseCase(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.SessionTTL, logger)
	if cfg.AuthDisabled {
		logger.Warn("authentication is disabled")
	} else if cfg.UsesDefaultJWTSecret() {
		logger.Warn("JWT_SECRET is not set, session tokens are signed with the built-in default secret")
	}

	// --- Initialize API Server ---
	router := api.NewRouter(cfg, logger, m, api.Handlers{
		Logs:    handler.NewLogsHandler(filterUseCase, snapshotUseCase, loc, cfg.MaxRequestBytes, m, logger),
		Folders: handler.NewFolderHandler(folderUseCase, logger),
		Auth:    handler.NewAuthHandler(authUseCase, cfg.SecureCookie, logger),
	}, authUseCase)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting log viewer server", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("log viewer server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("log viewer server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}

// openFolderStore builds the folder repository selected by FOLDER_STORE.
func openFolderStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.FolderRepository, func(), error) {
	switch cfg.FolderStore {
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("could not connect to redis, folder requests will fail until it is reachable", "error", err)
		}
		return redisrepo.NewFolderRepository(client, cfg.RedisFolderKey, logger), func() { client.Close() }, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewFolderRepository(db, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil

	default:
		return jsonfile.NewFolderRepository(cfg.FolderStorePath, logger), func() {}, nil
	}
}
