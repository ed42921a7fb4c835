package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/fraudguard/pkg/auth"
	"github.com/fraudguard/fraudguard/pkg/boa"
	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/pkg/kafka"
	"github.com/fraudguard/fraudguard/pkg/observability"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/port"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/service"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/infrastructure/config"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/infrastructure/metrics"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/presentation/rest"
)

const serviceName = "action-orchestrator"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(cfg.LogConfig(serviceName))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting action-orchestrator",
		"http_port", cfg.HTTPPort,
		"boa_base_url", cfg.BoABaseURL,
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
		logger.Error("failed to create metrics recorder", "error", err)
		os.Exit(1)
	}

	jwtService, err := cfg.JWTService()
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	var bank port.BankActions
	if cfg.BoABaseURL != "" {
		bank = boa.NewClient(httpclient.New(cfg.BoABaseURL, httpclient.WithTimeout(cfg.ClientTimeout)))
	} else {
		logger.Info("BOA_BASE_URL not set, step-up and hold are logged only")
	}

	var publisher port.EventPublisher = events.NewLogPublisher(logger)
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		publisher = kafka.NewEventPublisher(producer, kafka.TopicActionExecuted)
	}

	executeUC := usecase.NewExecuteAction(service.NewDispatcher(bank, logger), publisher, recorder, logger)

	router := httpserver.NewRouter(httpserver.Options{
		Service: serviceName,
		Logger:  logger,
		Metrics: metricsHandler,
	})
	router.Group(func(r chi.Router) {
		if jwtService != nil {
			r.Use(auth.Middleware(jwtService, nil))
		}
		rest.NewHandler(executeUC, cfg.Thresholds, logger).RegisterRoutes(r)
	})

	srv := httpserver.NewServer(cfg.HTTPPort, router)

	logger.Info("action-orchestrator started",
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	if err := httpserver.Serve(ctx, srv, logger); err != nil {
		logger.Error("server error", "error", err)
	}

	logger.Info("action-orchestrator stopped")
}
