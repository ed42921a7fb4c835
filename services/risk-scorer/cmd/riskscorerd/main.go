package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/auth"
	sharedconfig "github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/pkg/kafka"
	"github.com/fraudguard/fraudguard/pkg/observability"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/port"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/service"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/infrastructure/cache"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/infrastructure/config"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/infrastructure/explain"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/infrastructure/gateway"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/infrastructure/gemini"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/infrastructure/metrics"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/presentation/rest"
)

const serviceName = "risk-scorer"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(cfg.LogConfig(serviceName))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting risk-scorer",
		"http_port", cfg.HTTPPort,
		"ai_mode", cfg.AIMode,
		"gateway_url", cfg.GatewayURL,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, cfg.TracingConfig(serviceName))
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	// Initialize metrics.
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
	token := sharedconfig.ServiceToken(jwtService, serviceName)

	// Wire infrastructure adapters.
	gatewayClient := gateway.NewClient(httpclient.New(cfg.GatewayURL,
		httpclient.WithTimeout(cfg.ClientTimeout),
		httpclient.WithToken(token),
	))

	var forwarder port.ExplanationForwarder
	if cfg.ExplainAgentURL != "" {
		forwarder = explain.NewClient(httpclient.New(cfg.ExplainAgentURL,
			httpclient.WithTimeout(cfg.ClientTimeout),
			httpclient.WithToken(token),
		))
	}

	var ai port.AIScorer
	if cfg.AIMode == config.AIModeGemini {
		ai = gemini.NewClient(
			httpclient.New(cfg.GeminiBaseURL, httpclient.WithTimeout(cfg.AITimeout), httpclient.WithRetries(1)),
			cfg.GeminiModel,
			cfg.GeminiAPIKey,
		)
	}

	checks := map[string]httpserver.CheckFunc{}
	var assessmentCache port.AssessmentCache
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		redisCache := cache.NewRedisCache(redisClient, cfg.CacheTTL)
		checks["redis"] = redisCache.Ping
		assessmentCache = redisCache
	} else {
		assessmentCache = cache.NewMemoryCache(10000, cfg.CacheTTL)
	}

	var publisher port.EventPublisher = events.NewLogPublisher(logger)
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		publisher = kafka.NewEventPublisher(producer, kafka.TopicRiskScored)
	}

	// Wire domain services.
	policy, err := fraud.NewActionPolicy(cfg.Thresholds)
	if err != nil {
		logger.Error("invalid action thresholds", "error", err)
		os.Exit(1)
	}
	heuristic := service.NewHeuristicRiskScorer(cfg.HeuristicConfig())
	hybrid := service.NewHybridScorer(heuristic, ai, cfg.AITimeout, logger)
	// /score must be reproducible, so it never consults the AI.
	heuristicOnly := service.NewHybridScorer(heuristic, nil, 0, logger)

	// Wire use cases.
	analyzeUC := usecase.NewAnalyzeTransaction(
		usecase.NewPipeline(hybrid, policy),
		gatewayClient, gatewayClient, forwarder, assessmentCache, publisher, recorder,
		usecase.AnalyzeConfig{HistoryLimit: cfg.HistoryLimit, StrictValidation: cfg.StrictValidation},
		logger,
	)
	scoreUC := usecase.NewScoreTransaction(usecase.NewPipeline(heuristicOnly, policy), cfg.StrictValidation)

	// HTTP server.
	router := httpserver.NewRouter(httpserver.Options{
		Service: serviceName,
		Logger:  logger,
		Metrics: metricsHandler,
		Checks:  checks,
	})
	router.Group(func(r chi.Router) {
		if jwtService != nil {
			r.Use(auth.Middleware(jwtService, nil))
		}
		rest.NewHandler(analyzeUC, scoreUC, logger).RegisterRoutes(r)
	})

	srv := httpserver.NewServer(cfg.HTTPPort, router)
	srv.WriteTimeout = cfg.AITimeout + 30*time.Second

	logger.Info("risk-scorer started",
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"ai_enabled", hybrid.AIEnabled(),
	)

	if err := httpserver.Serve(ctx, srv, logger); err != nil {
		logger.Error("server error", "error", err)
	}

	logger.Info("risk-scorer stopped")
}
