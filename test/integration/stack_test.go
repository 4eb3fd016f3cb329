//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/adapters/clients"
	"github.com/jsamuelsen/marketing-site/internal/adapters/clients/acl"
	"github.com/jsamuelsen/marketing-site/internal/adapters/flags"
	httpadapter "github.com/jsamuelsen/marketing-site/internal/adapters/http"
	"github.com/jsamuelsen/marketing-site/internal/adapters/http/handlers"
	"github.com/jsamuelsen/marketing-site/internal/adapters/http/web"
	"github.com/jsamuelsen/marketing-site/internal/adapters/siteconfig"
	"github.com/jsamuelsen/marketing-site/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/marketing-site/internal/app"
	"github.com/jsamuelsen/marketing-site/internal/platform/config"
	"github.com/jsamuelsen/marketing-site/internal/platform/telemetry"
	"github.com/jsamuelsen/marketing-site/internal/ports"
	"github.com/jsamuelsen/marketing-site/internal/ui/controller"
	"github.com/jsamuelsen/marketing-site/internal/ui/modal"
	"github.com/jsamuelsen/marketing-site/internal/ui/view"
)

const (
	contentPath = "../../configs/site.yaml"

	// downHost makes the stub favicon upstream fail.
	downHost = "down.example"

	adminSubject = "X-User-ID"
	adminRoles   = "X-User-Roles"
)

// pngIcon is a minimal PNG header; enough for content sniffing.
var pngIcon = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func init() {
	gin.SetMode(gin.TestMode)
}

// stack is the whole service wired in process over the sample content:
// SQLite in memory, config-backed flags and a stub favicon upstream.
type stack struct {
	server   *httptest.Server
	upstream *httptest.Server
	store    *sqlite.Store
	content  *siteconfig.Store
	metrics  *prometheus.Registry

	upstreamHits atomic.Int32
}

func newStack(tb testing.TB, path string) *stack {
	tb.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := &stack{metrics: prometheus.NewRegistry()}

	s.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.upstreamHits.Add(1)

		if r.URL.Query().Get("domain") == downHost {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngIcon)
	}))
	tb.Cleanup(s.upstream.Close)

	collectors, err := telemetry.NewCollectors(s.metrics)
	require.NoError(tb, err)

	s.store, err = sqlite.Open(context.Background(), ":memory:", nil)
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = s.store.Close() })

	s.content, err = siteconfig.NewStore(path,
		siteconfig.WithLogger(logger),
		siteconfig.WithReloadHook(collectors.ContentReload),
	)
	require.NoError(tb, err)

	flagProvider := flags.NewStatic(config.FeaturesConfig{
		Flags: map[string]bool{
			ports.FlagStickyBanner: true,
			ports.FlagLeadCapture:  true,
			ports.FlagLiveSession:  true,
			ports.FlagIconProxy:    true,
		},
	}, logger)

	client, err := clients.New(&clients.Config{
		BaseURL:     s.upstream.URL,
		ServiceName: "favicon",
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: logger,
	})
	require.NoError(tb, err)

	favicons := acl.NewFaviconClient(client, acl.DefaultIconSize)

	health := ports.NewHealthRegistry()
	require.NoError(tb, health.Register(s.store))
	require.NoError(tb, health.Register(favicons))

	siteService := app.NewSiteService(s.content, &app.SiteServiceConfig{Origin: "https://ada.example.com", Logger: logger})
	leadService := app.NewLeadService(s.store.Leads(), flagProvider, &app.LeadServiceConfig{Logger: logger, Metrics: collectors})
	iconService := app.NewIconService(favicons, s.store.Icons(), &app.IconServiceConfig{TTL: time.Hour, Metrics: collectors, Logger: logger})
	pageService := app.NewPageService(s.content, leadService, flagProvider, &app.PageServiceConfig{
		Controller: controller.Config{
			Origin:           "https://ada.example.com",
			CarouselInterval: 5 * time.Second,
			Marquee:          view.MarqueeConfig{Interval: 30 * time.Millisecond, Step: 1, ItemWidth: 320},
			Certificate:      modal.CertificateConfig{URL: "/static/certificate.pdf", Filename: "certificate.pdf", Loading: time.Second},
			SchedulingURL:    "https://calendly.com/example/strategy-call",
		},
		FaviconBase: "https://www.google.com/s2/favicons",
		Metrics:     collectors,
		Logger:      logger,
	})

	tmpl, err := web.Templates()
	require.NoError(tb, err)

	session := handlers.NewSessionHandler(pageService, handlers.SessionConfig{
		WriteWait:     time.Second,
		PongWait:      time.Minute,
		PingPeriod:    30 * time.Second,
		ReadLimit:     4096,
		FrameInterval: 10 * time.Millisecond,
	}, collectors, logger)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger: logger,
		AuthConfig: &config.AuthConfig{
			Enabled:       true,
			SubjectHeader: adminSubject,
			RolesHeader:   adminRoles,
			AdminRole:     "admin",
		},
		AppConfig: &config.AppConfig{Name: "marketing-site", Version: "test", Environment: "test"},
		Timeout:   httpadapter.DefaultRequestTimeout,
		Templates: tmpl,
		Health:    handlers.NewHealthHandler(health, handlers.NewBuildInfo("test", "none", "now"), s.metrics),
		Page:      handlers.NewPageHandler(pageService),
		Site:      handlers.NewSiteHandler(siteService, pageService),
		Leads:     handlers.NewLeadHandler(leadService, siteService),
		Icons:     handlers.NewIconHandler(iconService, time.Hour),
		Session:   session,
	})

	s.server = httptest.NewServer(engine)
	tb.Cleanup(func() {
		session.CloseAll()
		s.server.Close()
	})

	return s
}

func (s *stack) url(path string) string {
	return s.server.URL + path
}
