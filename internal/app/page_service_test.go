package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/domain/domaintest"
	"github.com/jsamuelsen/marketing-site/internal/mocks"
	"github.com/jsamuelsen/marketing-site/internal/ports"
	"github.com/jsamuelsen/marketing-site/internal/ui/controller"
	"github.com/jsamuelsen/marketing-site/internal/ui/view"
)

// memorySource is a SiteSource whose snapshot tests replace directly.
type memorySource struct {
	mu   sync.Mutex
	site *domain.Site
	subs map[int]func(*domain.Site)
	next int
}

func newMemorySource(site *domain.Site) *memorySource {
	return &memorySource{site: site, subs: map[int]func(*domain.Site){}}
}

func (s *memorySource) Current() *domain.Site {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.site
}

func (s *memorySource) Subscribe(fn func(*domain.Site)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *memorySource) Publish(site *domain.Site) {
	s.mu.Lock()
	s.site = site
	subs := make([]func(*domain.Site), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(site)
	}
}

func (s *memorySource) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.subs)
}

type sessionCounter struct {
	opened, closed int
}

func (c *sessionCounter) SessionOpened() { c.opened++ }
func (c *sessionCounter) SessionClosed() { c.closed++ }

func pageConfig() controller.Config {
	return controller.Config{
		Origin:           "https://ada.example.com",
		CarouselInterval: 5 * time.Second,
		Marquee:          view.MarqueeConfig{Interval: 30 * time.Millisecond, Step: 1, ItemWidth: 200},
		SchedulingURL:    "https://calendly.com/ada",
	}
}

func flagsWith(t *testing.T, enabled map[string]bool) *mocks.MockFeatureFlags {
	t.Helper()

	flags := mocks.NewMockFeatureFlags(t)
	for flag, on := range enabled {
		flags.On("IsEnabled", mock.Anything, flag, true).Return(on).Maybe()
	}

	return flags
}

func TestPageService_RenderWithProxy(t *testing.T) {
	flags := flagsWith(t, map[string]bool{ports.FlagIconProxy: true, ports.FlagStickyBanner: false})

	svc := NewPageService(newMemorySource(domaintest.Site()), nil, flags, &PageServiceConfig{
		Controller:  pageConfig(),
		FaviconBase: "https://www.google.com/s2/favicons",
		Clock:       clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		Logger:      discardLogger(),
	})

	r, err := svc.Render(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, r.Page.Ventures)
	assert.Equal(t, "/icons/engineworks.io", r.Page.Ventures[0].Icon.Src)
	assert.NotEmpty(t, r.Page.Head.StructuredData)
	assert.Equal(t, 2026, r.Page.Footer.Year)
	assert.False(t, r.Frame.BannerVisible)
	assert.False(t, r.Frame.ScrollLocked)
}

func TestPageService_RenderWithoutProxy(t *testing.T) {
	flags := flagsWith(t, map[string]bool{ports.FlagIconProxy: false, ports.FlagStickyBanner: true})

	svc := NewPageService(newMemorySource(domaintest.Site()), nil, flags, &PageServiceConfig{
		Controller:  pageConfig(),
		FaviconBase: "https://www.google.com/s2/favicons",
		Logger:      discardLogger(),
	})

	r, err := svc.Render(context.Background())
	require.NoError(t, err)

	src := r.Page.Ventures[0].Icon.Src
	assert.True(t, strings.HasPrefix(src, "https://www.google.com/s2/favicons"), src)
	assert.True(t, r.Frame.BannerVisible)
}

func TestPageService_OpenDisabled(t *testing.T) {
	flags := flagsWith(t, map[string]bool{ports.FlagLiveSession: false})

	svc := NewPageService(newMemorySource(domaintest.Site()), nil, flags, &PageServiceConfig{Logger: discardLogger()})

	_, err := svc.Open(context.Background())
	assert.True(t, domain.IsForbidden(err))
}

func TestPageService_SessionLifecycle(t *testing.T) {
	source := newMemorySource(domaintest.Site())
	counter := &sessionCounter{}

	svc := NewPageService(source, nil, nil, &PageServiceConfig{
		Controller: pageConfig(),
		Clock:      clockwork.NewFakeClock(),
		Metrics:    counter,
		Logger:     discardLogger(),
	})

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)

	assert.True(t, sess.Mounted())
	assert.Positive(t, sess.Pending(), "carousel and marquee timers run")
	assert.Equal(t, 1, source.Subscribers())
	assert.Equal(t, 1, counter.opened)

	next := domaintest.Site()
	next.SEO.Title = "Ada Lovelace | Reloaded"
	source.Publish(next)
	assert.Equal(t, "Ada Lovelace | Reloaded", sess.Page().Head.Title)

	sess.Close()
	sess.Close()

	assert.False(t, sess.Mounted())
	assert.Zero(t, sess.Pending())
	assert.Zero(t, source.Subscribers())
	assert.Equal(t, 1, counter.closed)
}
