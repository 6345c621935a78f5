package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrSnakeDoc/toolhub/internal/config"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver"
	"github.com/MrSnakeDoc/toolhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/metrics"
	"github.com/MrSnakeDoc/toolhub/internal/scheduler"
	"github.com/MrSnakeDoc/toolhub/internal/version"
)

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	components *Components
	warmer     *scheduler.CacheWarmer
}

// New wires the HTTP API: remote backend, response cache, cache warmer
// and routes.
func New(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	components, err := NewComponents(context.Background(), cfg, loggerClient, m)
	if err != nil {
		return nil, err
	}

	// Initialize cache warmer (disabled with a zero interval)
	var warmer *scheduler.CacheWarmer
	var warmTrigger chan struct{}
	if cfg.WarmInterval > 0 {
		warmTrigger = make(chan struct{}, 1)
		warmer = scheduler.NewCacheWarmer(
			components.Catalog,
			loggerClient,
			m,
			cfg.WarmInterval,
			warmTrigger,
		)
	} else {
		loggerClient.Info("cache warmer disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AdminCIDRS:     cfg.AdminCIDRS,
		CORSOrigins:    cfg.CORSOrigins,
		TrustProxy:     cfg.TrustProxy,
		RateBurst:      cfg.RateBurst,
		RatePerMin:     cfg.RatePerMin,
		RequestTimeout: cfg.RequestTimeout,
		Catalog:        components.Catalog,
		Gatherer:       registry,
		WarmTrigger:    warmTrigger,
	}

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     httpserver.New(cfg, loggerClient, d),
		components: components,
		warmer:     warmer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting toolhub v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.components.Close()

	// Start cache warmer (warms once, then keeps the home page reads fresh)
	if a.warmer != nil {
		a.warmer.Start(ctx)
		a.logger.Info("cache warmer started",
			logger.Duration("interval", a.cfg.WarmInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.warmer != nil {
		a.warmer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ toolhub stopped cleanly")
	return nil
}
