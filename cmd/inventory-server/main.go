// Command inventory-server starts the GoalPlay inventory HTTP API.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/and161185/goalplay-inventory/internal/config"
	"github.com/and161185/goalplay-inventory/internal/metrics"
	"github.com/and161185/goalplay-inventory/internal/migrate"
	"github.com/and161185/goalplay-inventory/internal/repository/postgres"
	"github.com/and161185/goalplay-inventory/internal/server/health"
	httpserver "github.com/and161185/goalplay-inventory/internal/server/http"
	"github.com/and161185/goalplay-inventory/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, optionally migrates, and serves HTTP plus gRPC health.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		// logger is not configured yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	var logger *zap.Logger
	if cfg.Dev {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
		gin.SetMode(gin.ReleaseMode)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr()),
		zap.String("healthAddr", cfg.HealthAddr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DSN()
	if cfg.PostgresSynchronize {
		applied, err := migrate.Up(ctx, dsn)
		if err != nil {
			logger.Fatal("migrate up", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Int64s("versions", applied))
	}

	// DB pool
	db, err := postgres.New(ctx, dsn)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer db.Close()

	metrics.Register(nil)

	// Repositories and services
	ownedRepo := postgres.NewOwnedPlayerRepo(db)
	kitRepo := postgres.NewKitRepo(db)
	userRepo := postgres.NewUserRepo(db)

	invSvc := service.NewInventoryService(ownedRepo, kitRepo)
	userSvc := service.NewUserService(userRepo)

	router := httpserver.NewRouter(httpserver.Options{
		Inventory:      invSvc,
		Users:          userSvc,
		DB:             db,
		Logger:         logger,
		SignKey:        []byte(cfg.JWTSecret),
		Prefix:         cfg.APIPrefix,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Health
	hs := health.New(logger)
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	hs.Check(pingCtx, db)
	cancelPing()

	hlis, err := net.Listen("tcp", cfg.HealthAddr)
	if err != nil {
		logger.Fatal("listen health", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("health listening", zap.String("addr", cfg.HealthAddr))
		errCh <- hs.Serve(hlis)
	}()
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		// graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
		hs.Stop()
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		hs.Stop()
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
