package app

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ports"
	"github.com/jsamuelsen/marketing-site/internal/ui/controller"
	"github.com/jsamuelsen/marketing-site/internal/ui/schedule"
)

// IconProxyPath is the route prefix of the favicon proxy.
const IconProxyPath = "/icons/"

// PageService builds interaction controllers over the current content
// snapshot. Server-side renders get a throwaway controller on a virtual
// clock; live sessions get one on the real clock that follows reloads.
type PageService struct {
	source      ports.SiteSource
	submitter   ports.LeadSubmitter
	flags       ports.FeatureFlags
	template    controller.Config
	faviconBase string
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     sessionMetrics
}

// sessionMetrics is the subset of telemetry.Collectors the service records.
type sessionMetrics interface {
	SessionOpened()
	SessionClosed()
}

// PageServiceConfig configures a PageService.
type PageServiceConfig struct {
	// Controller is the template for every controller. IconURL and
	// ShowBanner are filled in per page from the feature flags.
	Controller controller.Config

	// FaviconBase is the public favicon service used when the proxy is off.
	FaviconBase string

	Clock   clockwork.Clock
	Metrics sessionMetrics
	Logger  *slog.Logger
}

// NewPageService creates a page service.
func NewPageService(
	source ports.SiteSource,
	submitter ports.LeadSubmitter,
	flags ports.FeatureFlags,
	cfg *PageServiceConfig,
) *PageService {
	if cfg == nil {
		cfg = &PageServiceConfig{}
	}

	s := &PageService{
		source:      source,
		submitter:   submitter,
		flags:       flags,
		template:    cfg.Controller,
		faviconBase: cfg.FaviconBase,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}

	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("component", "app.PageService"))

	return s
}

// Enabled reports whether a flag is on, defaulting to on when no flag
// provider is configured.
func (s *PageService) Enabled(ctx context.Context, flag string) bool {
	if s.flags == nil {
		return true
	}

	return s.flags.IsEnabled(ctx, flag, true)
}

// IconURL returns the favicon source mapping for a page. With the proxy
// enabled icons come from this service, otherwise from the public service.
func (s *PageService) IconURL(ctx context.Context) func(raw string) string {
	if s.Enabled(ctx, ports.FlagIconProxy) {
		return func(raw string) string {
			host := strings.ToLower(domain.Hostname(raw))
			if host == "" {
				return ""
			}

			return IconProxyPath + url.PathEscape(host)
		}
	}

	base := s.faviconBase

	return func(raw string) string { return domain.FaviconURL(base, raw) }
}

func (s *PageService) config(ctx context.Context) controller.Config {
	cfg := s.template
	cfg.IconURL = s.IconURL(ctx)
	cfg.Marquee.IconURL = cfg.IconURL
	cfg.ShowBanner = s.Enabled(ctx, ports.FlagStickyBanner)

	if cfg.Now == nil {
		cfg.Now = s.clock.Now
	}

	return cfg
}

// Rendered is a server-side render of the page.
type Rendered struct {
	Page  controller.Page
	Frame controller.Frame
	Site  *domain.Site
}

// Render mounts a controller on a virtual clock, captures the page and
// its initial frame, then unmounts it. No timer fires during a render.
func (s *PageService) Render(ctx context.Context) (*Rendered, error) {
	site := s.source.Current()

	loop := schedule.NewLoop()
	ctrl := controller.New(site, controller.Deps{
		Loop:      loop,
		Scheduler: schedule.NewVirtual(loop),
		Submitter: s.submitter,
		Logger:    s.logger,
	}, s.config(ctx))

	if err := ctrl.Mount(); err != nil {
		return nil, err
	}
	defer ctrl.Unmount()

	return &Rendered{Page: ctrl.Page(), Frame: ctrl.Snapshot(), Site: site}, nil
}

// Session is a mounted controller on the real clock. It follows content
// reloads until closed.
type Session struct {
	*controller.Controller

	sched       *schedule.Realtime
	unsubscribe func()
	onClose     func()
	closeOnce   sync.Once
}

// Open mounts a controller for a live session. The caller must Close it.
func (s *PageService) Open(ctx context.Context) (*Session, error) {
	if !s.Enabled(ctx, ports.FlagLiveSession) {
		return nil, domain.NewForbiddenError("live session", "disabled")
	}

	loop := schedule.NewLoop()
	sched := schedule.NewRealtime(loop, s.clock)

	ctrl := controller.New(s.source.Current(), controller.Deps{
		Loop:      loop,
		Scheduler: sched,
		Submitter: s.submitter,
		Logger:    s.logger,
	}, s.config(ctx))

	if err := ctrl.Mount(); err != nil {
		sched.Stop()
		return nil, err
	}

	sess := &Session{Controller: ctrl, sched: sched}
	sess.unsubscribe = s.source.Subscribe(func(site *domain.Site) {
		if err := ctrl.Reload(site); err != nil {
			s.logger.Warn("session reload failed", slog.Any("error", err))
		}
	})

	if s.metrics != nil {
		s.metrics.SessionOpened()
		sess.onClose = s.metrics.SessionClosed
	}

	return sess, nil
}

// Close unmounts the controller and stops its timers. Safe to call more
// than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		s.Unmount()
		s.sched.Stop()

		if s.onClose != nil {
			s.onClose()
		}
	})
}

// Pending returns the number of live timers.
func (s *Session) Pending() int {
	return s.sched.Pending()
}
