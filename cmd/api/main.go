package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pharmafind/backend/internal/adapters/cache"
	"github.com/pharmafind/backend/internal/adapters/database"
	"github.com/pharmafind/backend/internal/adapters/events"
	"github.com/pharmafind/backend/internal/api/handlers"
	"github.com/pharmafind/backend/internal/api/routes"
	"github.com/pharmafind/backend/internal/application/services"
	"github.com/pharmafind/backend/internal/domain/providers"
	"github.com/pharmafind/backend/internal/infrastructure/clients/postgres"
	"github.com/pharmafind/backend/internal/infrastructure/clients/redis"
	"github.com/pharmafind/backend/internal/infrastructure/observability"
	"github.com/pharmafind/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing is optional; the service runs fine without a collector.
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: without it every search takes the storage path
	// and stock-driven invalidation is disabled.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		cacheProvider = cache.NewNoopAdapter()
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewFailOpenAdapter(cache.NewRedisAdapter(redisClient), cfg.Search.CacheTimeout)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Storage adapters
	medicationRepo := database.NewMedicationAdapter(pgClient)
	pharmacyRepo := database.NewPharmacyAdapter(pgClient)
	inventoryRepo := database.NewStockAdapter(pgClient)
	searchLogRepo := database.NewSearchLogAdapter(pgClient)

	// Application services
	analyticsService := services.NewSearchAnalyticsService(searchLogRepo)
	medicationService := services.NewMedicationService(
		medicationRepo, cacheProvider, metrics,
		cfg.Search.AutocompleteLimit, cfg.Search.AutocompleteCacheTTL)
	searchService := services.NewSearchService(
		inventoryRepo, pharmacyRepo, medicationService, analyticsService,
		cacheProvider, metrics, cfg.Search)

	if eventBus != nil {
		invalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation")
		} else {
			defer invalidation.Stop()
		}
		defer eventBus.Close()
	}

	// HTTP layer
	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService),
		handlers.NewMedicationHandler(medicationService),
		handlers.NewAnalyticsHandler(analyticsService),
		metrics,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
