package handlers

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/web"
	"github.com/jsamuelsen/marketing-site/internal/adapters/siteconfig"
	"github.com/jsamuelsen/marketing-site/internal/app"
	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/domain/domaintest"
	"github.com/jsamuelsen/marketing-site/internal/mocks"
	"github.com/jsamuelsen/marketing-site/internal/ui/controller"
	"github.com/jsamuelsen/marketing-site/internal/ui/modal"
	"github.com/jsamuelsen/marketing-site/internal/ui/view"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness wires the services over a static content store and mocked
// adapters.
type harness struct {
	store   *siteconfig.Store
	repo    *mocks.MockLeadRepository
	fetcher *mocks.MockIconFetcher
	cache   *mocks.MockCache
	flags   *mocks.MockFeatureFlags
	clock   *clockwork.FakeClock

	sessions *sessionCounter

	site  *app.SiteService
	leads *app.LeadService
	icons *app.IconService
	pages *app.PageService
}

func newHarness(t *testing.T, site *domain.Site) *harness {
	t.Helper()

	if site == nil {
		site = domaintest.Site()
	}

	h := &harness{
		store:   siteconfig.NewStaticStore(site),
		repo:    mocks.NewMockLeadRepository(t),
		fetcher: mocks.NewMockIconFetcher(t),
		cache:   mocks.NewMockCache(t),
		flags:   mocks.NewMockFeatureFlags(t),
		clock:   clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),

		sessions: &sessionCounter{},
	}

	logger := discardLogger()

	h.site = app.NewSiteService(h.store, &app.SiteServiceConfig{Origin: "https://ada.example.com", Logger: logger})
	h.leads = app.NewLeadService(h.repo, h.flags, &app.LeadServiceConfig{Logger: logger, Clock: h.clock})
	h.icons = app.NewIconService(h.fetcher, h.cache, &app.IconServiceConfig{TTL: time.Hour, Logger: logger})
	h.pages = app.NewPageService(h.store, h.leads, h.flags, &app.PageServiceConfig{
		Controller: controller.Config{
			Origin:           "https://ada.example.com",
			CarouselInterval: 5 * time.Second,
			Marquee:          view.MarqueeConfig{Interval: time.Hour, Step: 1, ItemWidth: 200},
			Certificate:      modal.CertificateConfig{URL: "/cert.pdf", Filename: "cert.pdf", Loading: time.Hour},
			SchedulingURL:    "https://calendly.com/ada",
		},
		FaviconBase: "https://www.google.com/s2/favicons",
		Clock:       h.clock,
		Metrics:     h.sessions,
		Logger:      logger,
	})

	return h
}

type sessionCounter struct {
	opened, closed atomic.Int32
	events         sync.Map
}

func (c *sessionCounter) SessionOpened() { c.opened.Add(1) }
func (c *sessionCounter) SessionClosed() { c.closed.Add(1) }

func (c *sessionCounter) SessionEvent(msgType string) {
	n, _ := c.events.LoadOrStore(msgType, new(atomic.Int32))
	n.(*atomic.Int32).Add(1)
}

func (c *sessionCounter) Events(msgType string) int32 {
	if n, ok := c.events.Load(msgType); ok {
		return n.(*atomic.Int32).Load()
	}

	return 0
}

// setFlags answers every flag lookup: the listed flags with their value,
// any other with true.
func (h *harness) setFlags(values map[string]bool) {
	for flag, on := range values {
		h.flags.On("IsEnabled", mock.Anything, flag, true).Return(on).Maybe()
	}
	h.flags.On("IsEnabled", mock.Anything, mock.Anything, true).Return(true).Maybe()
}

// router returns an engine with the web templates and the handler routes.
func (h *harness) router(t *testing.T) *gin.Engine {
	t.Helper()

	tmpl, err := web.Templates()
	require.NoError(t, err)

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	NewPageHandler(h.pages).RegisterRoutes(engine)
	NewIconHandler(h.icons, time.Hour).RegisterRoutes(engine)

	api := engine.Group("/api/v1")
	NewSiteHandler(h.site, h.pages).RegisterRoutes(api)
	NewLeadHandler(h.leads, h.site).RegisterRoutes(api, func(c *gin.Context) { c.Next() })

	return engine
}
