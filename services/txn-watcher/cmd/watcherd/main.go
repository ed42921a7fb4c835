package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/fraudguard/fraudguard/pkg/auth"
	sharedconfig "github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/dedup"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/pkg/kafka"
	"github.com/fraudguard/fraudguard/pkg/observability"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/infrastructure/config"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/infrastructure/consumer"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/infrastructure/gateway"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/infrastructure/riskscorer"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/presentation/rest"
)

const serviceName = "txn-watcher"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(cfg.LogConfig(serviceName))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting txn-watcher",
		"http_port", cfg.HTTPPort,
		"mcp_gateway_url", cfg.GatewayURL,
		"risk_scorer_url", cfg.RiskScorerURL,
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
	token := sharedconfig.ServiceToken(jwtService, serviceName)

	seen, err := dedup.New(cfg.DedupCapacity)
	if err != nil {
		logger.Error("failed to create dedup set", "error", err)
		os.Exit(1)
	}

	source := gateway.NewClient(httpclient.New(cfg.GatewayURL,
		httpclient.WithTimeout(cfg.ClientTimeout),
		httpclient.WithToken(token),
	))
	analyzer := riskscorer.NewClient(httpclient.New(cfg.RiskScorerURL,
		httpclient.WithTimeout(cfg.AnalyzeTimeout),
		httpclient.WithToken(token),
	))

	watcher := usecase.NewWatcher(source, analyzer, seen, usecase.Options{
		Accounts:     cfg.Accounts,
		FetchLimit:   cfg.FetchLimit,
		Concurrency:  cfg.FetchConcurrency,
		PollInterval: cfg.PollInterval,
	}, logger)

	router := httpserver.NewRouter(httpserver.Options{
		Service: serviceName,
		Logger:  logger,
		Metrics: metricsHandler,
	})
	router.Group(func(r chi.Router) {
		if jwtService != nil {
			r.Use(auth.Middleware(jwtService, nil))
		}
		rest.NewHandler(watcher).RegisterRoutes(r)
	})

	srv := httpserver.NewServer(cfg.HTTPPort, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpserver.Serve(gctx, srv, logger) })
	g.Go(func() error { return watcher.Run(gctx) })

	if cfg.Kafka.Enabled() && cfg.ConsumeIngested {
		ingested := kafka.NewConsumer(cfg.Kafka, kafka.TopicTransactionIngested, consumer.IngestedHandler(watcher, logger), logger)
		defer func() { _ = ingested.Close() }()
		g.Go(func() error { return ingested.Start(gctx) })
	}

	logger.Info("txn-watcher started",
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	if err := g.Wait(); err != nil {
		logger.Error("txn-watcher error", "error", err)
	}

	logger.Info("txn-watcher stopped")
}
