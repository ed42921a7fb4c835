package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/fraudguard/fraudguard/pkg/auth"
	"github.com/fraudguard/fraudguard/pkg/boa"
	sharedconfig "github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/dedup"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/pkg/observability"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/domain/port"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/infrastructure/config"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/infrastructure/gateway"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/presentation/rest"
)

const serviceName = "boa-monitor"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(cfg.LogConfig(serviceName))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting boa-monitor",
		"http_port", cfg.HTTPPort,
		"boa_ledger_url", cfg.LedgerURL,
		"mcp_gateway_url", cfg.GatewayURL,
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

	seen, err := dedup.New(cfg.DedupCapacity)
	if err != nil {
		logger.Error("failed to create dedup set", "error", err)
		os.Exit(1)
	}

	var ledger port.Ledger
	if cfg.LedgerURL != "" {
		ledger = boa.NewClient(httpclient.New(cfg.LedgerURL,
			httpclient.WithTimeout(cfg.ClientTimeout),
			httpclient.WithRetries(1),
		))
	} else {
		logger.Info("BOA_LEDGER_URL not set, forwarding sample transactions")
	}

	ingestor := gateway.NewClient(httpclient.New(cfg.GatewayURL,
		httpclient.WithTimeout(cfg.ForwardTimeout),
		httpclient.WithToken(sharedconfig.ServiceToken(jwtService, serviceName)),
	))

	monitor := usecase.NewMonitor(ledger, ingestor, seen, usecase.Options{
		PollInterval: cfg.PollInterval,
		LedgerURL:    cfg.LedgerURL,
		GatewayURL:   cfg.GatewayURL,
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
		rest.NewHandler(monitor, logger).RegisterRoutes(r)
	})

	srv := httpserver.NewServer(cfg.HTTPPort, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpserver.Serve(gctx, srv, logger) })
	g.Go(func() error { return monitor.Run(gctx) })

	logger.Info("boa-monitor started",
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	if err := g.Wait(); err != nil {
		logger.Error("boa-monitor error", "error", err)
	}

	logger.Info("boa-monitor stopped")
}
