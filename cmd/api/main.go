package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/jaideeclear-quotes/cmd/mainconfig"
	"github.com/wolfman30/jaideeclear-quotes/internal/api/router"
	"github.com/wolfman30/jaideeclear-quotes/internal/app/bootstrap"
	appconfig "github.com/wolfman30/jaideeclear-quotes/internal/config"
	"github.com/wolfman30/jaideeclear-quotes/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/jaideeclear-quotes/internal/http/middleware"
	"github.com/wolfman30/jaideeclear-quotes/internal/leads"
	"github.com/wolfman30/jaideeclear-quotes/internal/observability/metrics"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/internal/site"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting jaideeclear quote server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	app, err := buildApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		app.Close()
		os.Exit(1)
	}

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		app.Close()
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// application is the wired HTTP surface plus the resources it holds open.
type application struct {
	handler http.Handler
	closers []func()
}

// Close releases resources in reverse order of acquisition. Safe to call twice.
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*application, error) {
	app := &application{}
	fail := func(err error) (*application, error) {
		app.Close()
		return nil, err
	}

	var awsCfg *aws.Config
	if bootstrap.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return fail(fmt.Errorf("load aws config: %w", err))
		}
		awsCfg = &loaded
	}

	store, err := bootstrap.BuildLeadsRepository(ctx, cfg, awsCfg, logger)
	if err != nil {
		return fail(err)
	}
	app.closers = append(app.closers, store.Close)

	metricsHandler, quoteMetrics := setupMetrics()

	pipeline, err := bootstrap.BuildSink(cfg, bootstrap.SinkDeps{
		Leads:   store.Repo,
		AWS:     awsCfg,
		Metrics: quoteMetrics,
		Logger:  logger,
	})
	if err != nil {
		return fail(err)
	}

	healthChecks := map[string]router.HealthCheck{}
	if store.Health != nil {
		healthChecks["leads"] = router.HealthCheck(store.Health)
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	sessions := bootstrap.BuildSessionStore(cfg, redisClient,
		bootstrap.ControllerFactory(cfg, pipeline, "web", logger), logger)

	content, err := site.Load(cfg.SiteConfigPath)
	if err != nil {
		return fail(err)
	}
	quoteForm, err := handlers.NewQuoteFormHandler(handlers.QuoteFormConfig{
		Sessions:     sessions,
		Content:      content,
		Metrics:      quoteMetrics,
		Logger:       logger,
		CookieSecure: cfg.SecureCookies(),
		SessionTTL:   cfg.SessionTTL,
	})
	if err != nil {
		return fail(err)
	}

	apiFactory := bootstrap.ControllerFactory(cfg, pipeline, "api", logger)
	quoteAPI := handlers.NewQuoteAPIHandler(func() *quotes.Controller {
		return apiFactory(quotes.State{})
	}, quoteMetrics, logger)

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		app.closers = append(app.closers, limiter.Stop)
	}

	if cfg.AdminJWTSecret == "" {
		logger.Info("ADMIN_JWT_SECRET not set; admin quote listing disabled")
	}

	app.handler = router.New(&router.Config{
		Logger:             logger,
		QuoteForm:          quoteForm,
		QuoteAPI:           quoteAPI,
		LeadsHandler:       leads.NewHandler(store.Repo, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
		HealthChecks:       healthChecks,
	})
	return app, nil
}

func setupMetrics() (http.Handler, *metrics.QuoteMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewQuoteMetrics(reg)
}
