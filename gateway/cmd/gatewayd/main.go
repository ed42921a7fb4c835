package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/fraudguard/fraudguard/gateway/internal/config"
	"github.com/fraudguard/fraudguard/gateway/internal/handler"
	"github.com/fraudguard/fraudguard/gateway/internal/mcptools"
	"github.com/fraudguard/fraudguard/gateway/internal/metrics"
	"github.com/fraudguard/fraudguard/gateway/internal/middleware"
	"github.com/fraudguard/fraudguard/gateway/internal/service"
	"github.com/fraudguard/fraudguard/gateway/internal/store"
	"github.com/fraudguard/fraudguard/pkg/auth"
	"github.com/fraudguard/fraudguard/pkg/boa"
	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/pkg/kafka"
	"github.com/fraudguard/fraudguard/pkg/observability"
	"github.com/fraudguard/fraudguard/pkg/postgres"
)

const (
	serviceName = "mcp-gateway"

	// memoryStoreCapacity bounds the in-process store used without a database.
	memoryStoreCapacity = 10000
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(cfg.LogConfig(serviceName))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting gateway",
		"http_port", cfg.HTTPPort,
		"rate_limit_per_minute", cfg.RateLimit,
		"upstream", cfg.BoABaseURL,
	)

	shutdownTracer, err := observability.InitTracer(ctx, cfg.TracingConfig(serviceName))
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	recorder, err := metrics.NewRecorder(meterProvider.Meter(serviceName))
	if err != nil {
		logger.Error("failed to create metric instruments", "error", err)
		os.Exit(1)
	}

	jwtService, err := cfg.JWTService()
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// Transaction store.
	checks := map[string]httpserver.CheckFunc{}
	var txStore store.Store
	if cfg.DatabaseURL != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, store.Migrations, store.MigrationsDir); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		pool, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pgStore := store.NewPostgresStore(pool)
		checks["database"] = pgStore.Ping
		txStore = pgStore
		logger.Info("using postgres transaction store")
	} else {
		txStore = store.NewMemoryStore(memoryStoreCapacity)
		logger.Info("using in-memory transaction store", "capacity", memoryStoreCapacity)
	}

	var upstream service.Upstream
	if cfg.BoABaseURL != "" {
		upstream = boa.NewClient(httpclient.New(cfg.BoABaseURL, httpclient.WithTimeout(cfg.ClientTimeout)))
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		publisher = kafka.NewEventPublisher(producer, kafka.TopicTransactionIngested)
	}

	svc := service.NewTransactions(txStore, upstream, publisher, recorder, service.Options{
		StrictValidation: cfg.StrictValidation,
		Simulate:         cfg.SimulateTransactions,
	}, logger)

	limiter := middleware.NewPerClientRateLimiter(cfg.RateLimit)
	go limiter.Run(ctx, time.Minute)

	router := httpserver.NewRouter(httpserver.Options{
		Service: serviceName,
		Logger:  logger,
		Metrics: metricsHandler,
		Checks:  checks,
		Middlewares: []func(http.Handler) http.Handler{
			cors.Handler(cors.Options{
				AllowedOrigins: cfg.CORSOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
				MaxAge:         300,
			}),
			middleware.PerClientRateLimitMiddleware(limiter),
		},
	})
	router.Group(func(r chi.Router) {
		if jwtService != nil {
			r.Use(auth.Middleware(jwtService, nil))
		}
		handler.New(svc, logger).RegisterRoutes(r)
		r.Handle("/mcp", mcptools.HTTPHandler(svc))
	})

	srv := httpserver.NewServer(cfg.HTTPPort, router)

	logger.Info("gateway started",
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"auth_enabled", jwtService != nil,
	)

	if err := httpserver.Serve(ctx, srv, logger); err != nil {
		logger.Error("server error", "error", err)
	}

	logger.Info("gateway stopped")
}
