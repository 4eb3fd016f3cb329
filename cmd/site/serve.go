package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/marketing-site/internal/adapters/clients"
	"github.com/jsamuelsen/marketing-site/internal/adapters/clients/acl"
	"github.com/jsamuelsen/marketing-site/internal/adapters/flags"
	"github.com/jsamuelsen/marketing-site/internal/adapters/http"
	"github.com/jsamuelsen/marketing-site/internal/adapters/http/handlers"
	"github.com/jsamuelsen/marketing-site/internal/adapters/http/web"
	"github.com/jsamuelsen/marketing-site/internal/adapters/siteconfig"
	"github.com/jsamuelsen/marketing-site/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/marketing-site/internal/app"
	"github.com/jsamuelsen/marketing-site/internal/platform/config"
	"github.com/jsamuelsen/marketing-site/internal/platform/logging"
	"github.com/jsamuelsen/marketing-site/internal/platform/telemetry"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

// sweepInterval is how often expired icons are purged from the cache.
const sweepInterval = time.Hour

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

func serve(ctx context.Context, opts *rootOptions) error {
	// 1. Load and validate configuration (fail fast)
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	// 2. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := telemetry.NewCollectors(registry)
	if err != nil {
		return fmt.Errorf("registering collectors: %w", err)
	}

	// 4. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 5. Open storage for leads and the icon cache
	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating storage directory: %w", err)
		}
	}

	store, err := sqlite.Open(ctx, cfg.Storage.Path, nil)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("storage close error", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering storage health check: %w", err)
	}

	// 6. Load the content document
	content, err := siteconfig.NewStore(cfg.Site.ContentPath,
		siteconfig.WithLogger(logger),
		siteconfig.WithReloadHook(metrics.ContentReload),
	)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	flagProvider := flags.NewStatic(cfg.Features, logger)

	// 7. Create the favicon client (ACL pattern)
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Favicon.BaseURL,
		ServiceName: "favicon",
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   cfg.App.Name + "/" + Version,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	favicons := acl.NewFaviconClient(httpClient, acl.DefaultIconSize)

	if err := healthRegistry.Register(favicons); err != nil {
		return fmt.Errorf("registering favicon health check: %w", err)
	}

	// 8. Create application services
	siteService := app.NewSiteService(content, &app.SiteServiceConfig{
		Origin: cfg.Site.BaseURL,
		Logger: logger,
	})
	leadService := app.NewLeadService(store.Leads(), flagProvider, &app.LeadServiceConfig{
		Logger:  logger,
		Metrics: metrics,
	})
	iconService := app.NewIconService(favicons, store.Icons(), &app.IconServiceConfig{
		TTL:                cfg.Favicon.CacheTTL,
		PreloadConcurrency: cfg.Favicon.PreloadConcurrency,
		Metrics:            metrics,
		Logger:             logger,
	})
	pageService := app.NewPageService(content, leadService, flagProvider, &app.PageServiceConfig{
		Controller:  controllerConfig(cfg),
		FaviconBase: cfg.Favicon.BaseURL,
		Metrics:     metrics,
		Logger:      logger,
	})

	// 9. Create handlers
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	sessionHandler := handlers.NewSessionHandler(pageService, handlers.SessionConfig{
		WriteWait:     cfg.Session.WriteWait,
		PongWait:      cfg.Session.PongWait,
		PingPeriod:    cfg.Session.PingPeriod,
		ReadLimit:     cfg.Session.ReadLimit,
		FrameInterval: cfg.UI.FrameInterval,
	}, metrics, logger)

	// 10. Create HTTP server
	if cfg.App.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := http.New(&cfg.Server, logger)
	server.OnShutdown(sessionHandler.CloseAll)

	// 11. Setup router with all middleware and routes
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		AuthConfig:    &cfg.Auth,
		AppConfig:     &cfg.App,
		Timeout:       http.DefaultRequestTimeout,
		SecureCookies: strings.HasPrefix(cfg.Site.BaseURL, "https://"),
		Templates:     tmpl,
		Health:        handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime), registry),
		Page:          handlers.NewPageHandler(pageService),
		Site:          handlers.NewSiteHandler(siteService, pageService),
		Leads:         handlers.NewLeadHandler(leadService, siteService),
		Icons:         handlers.NewIconHandler(iconService, cfg.Favicon.CacheTTL),
		Session:       sessionHandler,
	})

	// 12. Start background work: content watching, icon warmup, cache sweeps
	bgCtx, stopBackground := context.WithCancel(ctx)
	background := startBackground(bgCtx, cfg, logger, content, siteService, iconService, store.Icons())

	defer func() {
		stopBackground()
		if bgErr := background.Wait(); bgErr != nil {
			logger.Error("background task error", slog.Any("error", bgErr))
		}
	}()

	// 13. Start server (non-blocking)
	serverErr := server.Start()

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// startBackground runs the tasks that live as long as the server.
func startBackground(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	content *siteconfig.Store,
	site *app.SiteService,
	icons *app.IconService,
	cache *sqlite.Cache,
) *errgroup.Group {
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Site.Watch {
		watcher, err := siteconfig.NewWatcher(content.Path(), content, cfg.Site.Debounce, nil, logger)
		if err != nil {
			logger.Warn("content watching disabled", slog.Any("error", err))
		} else {
			g.Go(func() error { return watcher.Run(ctx) })
		}
	}

	g.Go(func() error {
		res := icons.Preload(ctx, site.IconHosts())
		logger.Info("icons preloaded",
			slog.Int("cached", res.Cached),
			slog.Int("fallback", res.Fallback),
			slog.Int("invalid", res.Invalid),
		)

		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := cache.Sweep(ctx)
				if err != nil {
					logger.Warn("icon cache sweep failed", slog.Any("error", err))
					continue
				}
				logger.Debug("icon cache swept", slog.Int64("removed", n))
			}
		}
	})

	return g
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))

	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, close sessions, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
