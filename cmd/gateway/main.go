package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/osvaldn/indexer-gateway/internal/config"
	"github.com/osvaldn/indexer-gateway/internal/directory"
	"github.com/osvaldn/indexer-gateway/internal/healthcheck"
	"github.com/osvaldn/indexer-gateway/internal/metrics"
	"github.com/osvaldn/indexer-gateway/internal/repository"
	"github.com/osvaldn/indexer-gateway/internal/server"
	"github.com/osvaldn/indexer-gateway/internal/service"
	"github.com/osvaldn/indexer-gateway/internal/state"
	"github.com/osvaldn/indexer-gateway/internal/storage"
	"github.com/osvaldn/indexer-gateway/internal/tiers"
)

func main() {
	// Load env if it exists
	godotenv.Load()

	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	postgres, err := storage.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer postgres.Close()

	if err := postgres.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redis, err := storage.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	st := state.New()
	m := metrics.New()

	tenantRepo := repository.NewTenantRepository(postgres)
	userRepo := repository.NewUserRepository(postgres)
	tenantService := service.NewTenantService(tenantRepo, redis)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiryHours)

	bootstrapAdmin(authService, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background tasks: tier hot reload, tenant directory refresh,
	// upstream health probing. They only talk to each other through the
	// shared state.
	tiers.NewReloader(cfg.TiersPath, cfg.TiersPollInterval, st, m).Start(ctx)
	directory.NewRefresher(tenantRepo, redis, st, m, cfg.DirectoryPollInterval).Start(ctx)
	healthcheck.NewMonitor(cfg.HealthProbeURL(), cfg.HealthPollInterval, st, m).Start(ctx)

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: m.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	srv := server.New(cfg, st, m, tenantService, authService)
	go func() {
		if err := srv.Run(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	metricsServer.Shutdown(shutdownCtx)

	log.Info("Server exited")
}

func setupLogging() {
	log.SetFormatter(&log.JSONFormatter{})

	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
}

// bootstrapAdmin seeds the first admin account from the environment so a
// fresh deployment can log into the admin API.
func bootstrapAdmin(authService *service.AuthService, cfg *config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := authService.Register(ctx, cfg.AdminEmail, cfg.AdminPassword, "bootstrap"); err != nil {
		log.WithError(err).Warn("admin bootstrap skipped")
	}
}
