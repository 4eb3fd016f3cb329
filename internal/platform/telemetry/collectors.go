package telemetry

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marketing_site"

// Label values for Collectors.
const (
	IconHit      = "hit"
	IconFetched  = "fetched"
	IconFallback = "fallback"

	ReloadOK     = "ok"
	ReloadFailed = "error"
)

// Collectors holds the Prometheus collectors for site activity. A nil
// *Collectors records nothing, so components can run without metrics.
type Collectors struct {
	sessionsActive prometheus.Gauge
	sessionEvents  *prometheus.CounterVec
	leadsCaptured  *prometheus.CounterVec
	iconFetches    *prometheus.CounterVec
	contentReloads *prometheus.CounterVec
}

// NewCollectors creates the collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of open interaction sessions.",
		}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Client messages handled by interaction sessions, by message type.",
		}, []string{"type"}),
		leadsCaptured: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_captured_total",
			Help:      "Leads stored, by magnet and form source.",
		}, []string{"magnet", "source"}),
		iconFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "icon_fetch_total",
			Help:      "Favicon lookups, by result: hit, fetched or fallback.",
		}, []string{"result"}),
		contentReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_reloads_total",
			Help:      "Content file reloads, by result.",
		}, []string{"result"}),
	}

	var err error
	c.sessionsActive, err = register(reg, c.sessionsActive)
	if err != nil {
		return nil, err
	}
	for _, vec := range []**prometheus.CounterVec{&c.sessionEvents, &c.leadsCaptured, &c.iconFetches, &c.contentReloads} {
		if *vec, err = register(reg, *vec); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}

		return c, fmt.Errorf("registering collector: %w", err)
	}

	return c, nil
}

// SessionOpened increments the active session gauge.
func (c *Collectors) SessionOpened() {
	if c == nil {
		return
	}
	c.sessionsActive.Inc()
}

// SessionClosed decrements the active session gauge.
func (c *Collectors) SessionClosed() {
	if c == nil {
		return
	}
	c.sessionsActive.Dec()
}

// SessionEvent counts one client message.
func (c *Collectors) SessionEvent(msgType string) {
	if c == nil {
		return
	}
	c.sessionEvents.WithLabelValues(msgType).Inc()
}

// LeadCaptured counts one stored lead.
func (c *Collectors) LeadCaptured(magnet, source string) {
	if c == nil {
		return
	}
	c.leadsCaptured.WithLabelValues(magnet, source).Inc()
}

// IconLookup counts one favicon lookup.
func (c *Collectors) IconLookup(result string) {
	if c == nil {
		return
	}
	c.iconFetches.WithLabelValues(result).Inc()
}

// ContentReload counts one content reload. A nil err counts as ok.
func (c *Collectors) ContentReload(err error) {
	if c == nil {
		return
	}
	result := ReloadOK
	if err != nil {
		result = ReloadFailed
	}
	c.contentReloads.WithLabelValues(result).Inc()
}
