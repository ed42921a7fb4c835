package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/auth"
	sharedconfig "github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/pkg/kafka"
	"github.com/fraudguard/fraudguard/pkg/observability"
	"github.com/fraudguard/fraudguard/pkg/postgres"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/port"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/service"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/infrastructure/config"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/infrastructure/memory"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/infrastructure/orchestrator"
	auditpg "github.com/fraudguard/fraudguard/services/explain-agent/internal/infrastructure/postgres"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/presentation/rest"
)

const serviceName = "explain-agent"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(cfg.LogConfig(serviceName))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting explain-agent",
		"http_port", cfg.HTTPPort,
		"orchestrator_url", cfg.OrchestratorURL,
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

	jwtService, err := cfg.JWTService()
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// Audit repository.
	checks := map[string]httpserver.CheckFunc{}
	var repo port.AuditRepository
	if cfg.DatabaseURL != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, auditpg.Migrations, auditpg.MigrationsDir); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		pool, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pgRepo := auditpg.NewAuditRepository(pool)
		checks["database"] = pgRepo.Ping
		repo = pgRepo
	} else {
		logger.Info("DATABASE_URL not set, keeping audit records in memory", "capacity", cfg.MemoryCapacity)
		repo = memory.NewAuditRepository(cfg.MemoryCapacity)
	}

	var dispatcher port.ActionDispatcher
	if cfg.OrchestratorURL != "" {
		dispatcher = orchestrator.NewClient(httpclient.New(cfg.OrchestratorURL,
			httpclient.WithTimeout(cfg.ClientTimeout),
			httpclient.WithToken(sharedconfig.ServiceToken(jwtService, serviceName)),
		))
	}

	var publisher port.EventPublisher = events.NewLogPublisher(logger)
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		publisher = kafka.NewEventPublisher(producer, kafka.TopicAuditRecorded)
	}

	policy, err := fraud.NewActionPolicy(cfg.Thresholds)
	if err != nil {
		logger.Error("invalid action thresholds", "error", err)
		os.Exit(1)
	}

	processUC := usecase.NewProcessAnalysis(service.NewExplainer(policy), repo, dispatcher, publisher, logger)

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
		rest.NewHandler(processUC, usecase.NewGetAudit(repo), usecase.NewListAudits(repo), logger).RegisterRoutes(r)
	})

	srv := httpserver.NewServer(cfg.HTTPPort, router)

	logger.Info("explain-agent started",
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	if err := httpserver.Serve(ctx, srv, logger); err != nil {
		logger.Error("server error", "error", err)
	}

	logger.Info("explain-agent stopped")
}
