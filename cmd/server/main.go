package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/value-bet-service/internal/cache"
	"github.com/cypherlabdev/value-bet-service/internal/config"
	httpHandler "github.com/cypherlabdev/value-bet-service/internal/handler/http"
	"github.com/cypherlabdev/value-bet-service/internal/messaging"
	"github.com/cypherlabdev/value-bet-service/internal/metrics"
	"github.com/cypherlabdev/value-bet-service/internal/provider"
	"github.com/cypherlabdev/value-bet-service/internal/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("VALUEBET_CONFIG"), "path to a YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	logger.Info().Msg("starting value-bet-service")

	if cfg.Provider.BaseURL == "" {
		logger.Fatal().Msg("provider.base_url is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	// Create response cache
	responseCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Cache.Backend).Msg("failed to create cache")
	}
	defer responseCache.Close()

	// Create provider client
	client := provider.NewClient(
		cfg.Provider.ToClientConfig(),
		logger,
		provider.WithMetrics(m),
	)
	logger.Info().Str("base_url", cfg.Provider.BaseURL).Msg("provider client initialized")

	// Create Kafka publisher
	var publisher service.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := messaging.NewKafkaPublisher(cfg.Kafka.ToPublisherConfig(), logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka publisher initialized")
	}

	// Create analysis orchestrator
	analyzer, err := service.NewAnalyzer(cfg.ToAnalyzerConfig(), client, responseCache, publisher, m, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create analyzer")
	}
	logger.Info().Str("cycle", analyzer.Cycle()).Msg("analyzer initialized")

	// Setup HTTP server routes
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", m.Handler())
	httpHandler.NewAnalysisHandler(analyzer, responseCache, logger).RegisterRoutes(r)
	logger.Info().Msg("API routes registered")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down gracefully...")

	cancel()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("shutdown complete")
}

// newCache creates the configured response cache backend
func newCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (service.Cache, error) {
	if cfg.Cache.Backend != "redis" {
		logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("using in-memory cache")
		return cache.NewMemoryCache(cfg.Cache.TTL, logger), nil
	}

	redisCache := cache.NewRedisCache(
		cache.RedisCacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		},
		logger,
	)

	// Test Redis connection
	if err := redisCache.Ping(ctx); err != nil {
		redisCache.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	return redisCache, nil
}

// setupLogger configures the logger based on config
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set format
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log.Logger.With().Str("service", "value-bet-service").Logger()
}
