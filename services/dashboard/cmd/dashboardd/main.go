package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/cors"

	sharedconfig "github.com/fraudguard/fraudguard/pkg/config"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/pkg/httpserver"
	"github.com/fraudguard/fraudguard/pkg/observability"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/infrastructure/config"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/infrastructure/gateway"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/infrastructure/orchestrator"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/infrastructure/session"
	"github.com/fraudguard/fraudguard/services/dashboard/internal/presentation/web"
)

const (
	serviceName   = "dashboard"
	sessionIssuer = "fraudguard-dashboard"
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

	logger.Info("starting dashboard",
		"http_port", cfg.HTTPPort,
		"mcp_gateway_url", cfg.GatewayURL,
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
	token := sharedconfig.ServiceToken(jwtService, serviceName)

	sessions, err := session.NewManager(cfg.SessionSecret, sessionIssuer, cfg.SessionTTL, cfg.SecureCookie)
	if err != nil {
		logger.Error("failed to initialize sessions", "error", err)
		os.Exit(1)
	}

	feed := gateway.NewClient(httpclient.New(cfg.GatewayURL,
		httpclient.WithTimeout(cfg.ClientTimeout),
		httpclient.WithRetries(1),
		httpclient.WithToken(token),
	))
	executor := orchestrator.NewClient(httpclient.New(cfg.OrchestratorURL,
		httpclient.WithTimeout(cfg.ClientTimeout),
		httpclient.WithToken(token),
	))

	router := httpserver.NewRouter(httpserver.Options{
		Service: serviceName,
		Logger:  logger,
		Metrics: metricsHandler,
		Middlewares: []func(http.Handler) http.Handler{
			cors.Handler(cors.Options{
				AllowedOrigins: cfg.CORSOrigins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}),
		},
	})
	web.NewHandler(feed, executor, sessions, web.Options{
		Credentials:     web.Credentials{Username: cfg.Username, Password: cfg.Password},
		RecentLimit:     cfg.RecentLimit,
		RefreshInterval: cfg.RefreshInterval,
	}, logger).RegisterRoutes(router)

	srv := httpserver.NewServer(cfg.HTTPPort, router)

	logger.Info("dashboard started",
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	if err := httpserver.Serve(ctx, srv, logger); err != nil {
		logger.Error("server error", "error", err)
	}

	logger.Info("dashboard stopped")
}
