package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	cacheadapter "github.com/zatekoja/doctordirectory/internal/adapters/cache"
	"github.com/zatekoja/doctordirectory/internal/api/handlers"
	"github.com/zatekoja/doctordirectory/internal/api/middleware"
	"github.com/zatekoja/doctordirectory/internal/api/routes"
	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/doctorapi"
	redisclient "github.com/zatekoja/doctordirectory/internal/infrastructure/clients/redis"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger("doctor-directory", "production")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Optional response cache
	var cacheMiddleware *middleware.CacheMiddleware
	if cfg.Redis.Enabled {
		redis, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, serving without response cache")
		} else {
			defer redis.Close()
			cache := cacheadapter.NewRedisAdapter(redis, "doctors")
			cacheMiddleware = middleware.NewCacheMiddleware(cache, cfg.Cache.TTLSeconds, metrics)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Int("ttl_seconds", cfg.Cache.TTLSeconds).Msg("Response cache enabled")
		}
	}

	// The listing is fetched once; requests get 503 until it lands
	directory := services.NewDirectoryService(doctorapi.NewClient(cfg.DataSource.URL, cfg.DataSource.FetchTimeout))
	directory.SetMetrics(metrics)
	go func() {
		if err := directory.Load(ctx); err == nil {
			log.Info().Int("doctors", directory.Count()).Str("url", cfg.DataSource.URL).Msg("Doctor directory loaded")
		}
	}()

	router := routes.NewRouter(
		handlers.NewDoctorHandler(directory),
		cacheMiddleware,
		metrics,
		cfg.CORS.AllowedOrigins,
	)

	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
