package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gcclean/waste-backend/internal/api"
	"github.com/gcclean/waste-backend/internal/auth"
	"github.com/gcclean/waste-backend/internal/config"
	"github.com/gcclean/waste-backend/internal/db"
	"github.com/gcclean/waste-backend/internal/logger"
	"github.com/gcclean/waste-backend/internal/metrics"
	"github.com/gcclean/waste-backend/internal/repository/postgres"
	"github.com/gcclean/waste-backend/internal/services"
	"github.com/gcclean/waste-backend/internal/worker"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret, cfg.JWTIssuer, 15*time.Minute, 7*24*time.Hour)
	userSvc := services.NewUserService(repos.Users, tm, cfg.StrictMode)
	entrySvc := services.NewEntryService(repos.Entries, repos.AuditLogs, wp, cfg.StrictMode)

	metrics.Init()
	r := api.NewRouter(cfg, tm, userSvc, entrySvc)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "strict", cfg.StrictMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
