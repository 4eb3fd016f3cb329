package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/platform/logging"
	"github.com/jsamuelsen/marketing-site/internal/platform/telemetry"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

const (
	// DefaultIconTTL is how long a fetched icon stays cached.
	DefaultIconTTL = 24 * time.Hour

	// DefaultPreloadConcurrency bounds concurrent upstream fetches in Preload.
	DefaultPreloadConcurrency = 4

	iconKeyPrefix = "icon:"
)

// IconService serves favicons through the cache. Only real icons are
// cached: a failed fetch answers with the fallback icon and the next
// request tries the upstream again.
type IconService struct {
	fetcher     ports.IconFetcher
	cache       ports.Cache
	ttl         time.Duration
	concurrency int
	metrics     *telemetry.Collectors
	logger      *slog.Logger
}

// IconServiceConfig holds optional configuration for the service.
type IconServiceConfig struct {
	TTL                time.Duration
	PreloadConcurrency int
	Metrics            *telemetry.Collectors
	Logger             *slog.Logger
}

// NewIconService creates an icon service.
func NewIconService(fetcher ports.IconFetcher, cache ports.Cache, cfg *IconServiceConfig) *IconService {
	if cfg == nil {
		cfg = &IconServiceConfig{}
	}

	s := &IconService{
		fetcher:     fetcher,
		cache:       cache,
		ttl:         cfg.TTL,
		concurrency: cfg.PreloadConcurrency,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}

	if s.ttl <= 0 {
		s.ttl = DefaultIconTTL
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultPreloadConcurrency
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("component", "app.IconService"))

	return s
}

// Icon returns the icon for host, from cache when possible.
// Upstream failures yield the fallback icon with a nil error; only a
// malformed host is reported, as domain.ErrValidation.
func (s *IconService) Icon(ctx context.Context, host string) (*domain.Icon, error) {
	logger := logging.FromContextOr(ctx, s.logger)
	key := iconKey(host)

	if data, err := s.cache.Get(ctx, key); err == nil {
		if icon, ok := decodeIcon(host, data); ok {
			s.metrics.IconLookup(telemetry.IconHit)
			return icon, nil
		}
		logger.WarnContext(ctx, "discarding corrupt cached icon", slog.String("host", host))
		_ = s.cache.Delete(ctx, key)
	} else if !domain.IsNotFound(err) {
		logger.WarnContext(ctx, "icon cache read failed", slog.String("host", host), slog.Any("error", err))
	}

	icon, err := s.fetcher.FetchIcon(ctx, host)
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		logger.InfoContext(ctx, "serving fallback icon", slog.String("host", host), slog.Any("error", err))
		s.metrics.IconLookup(telemetry.IconFallback)

		return domain.FallbackIcon(host), nil
	}

	if err := s.cache.Set(ctx, key, encodeIcon(icon), s.ttl); err != nil {
		logger.WarnContext(ctx, "icon cache write failed", slog.String("host", host), slog.Any("error", err))
	}
	s.metrics.IconLookup(telemetry.IconFetched)

	return icon, nil
}

// PreloadResult summarizes a Preload run.
type PreloadResult struct {
	Cached   int
	Fallback int
	Invalid  int
}

// Preload warms the cache for hosts with bounded concurrency. Failures do
// not stop other hosts.
func (s *IconService) Preload(ctx context.Context, hosts []string) PreloadResult {
	results := ParallelPartialLimit(ctx, s.concurrency, hosts, s.Icon)

	var res PreloadResult
	for _, r := range results {
		switch {
		case r.Err != nil:
			res.Invalid++
		case r.Value.Fallback:
			res.Fallback++
		default:
			res.Cached++
		}
	}

	s.logger.InfoContext(ctx, "icon preload finished",
		slog.Int("hosts", len(hosts)),
		slog.Int("cached", res.Cached),
		slog.Int("fallback", res.Fallback),
		slog.Int("invalid", res.Invalid),
	)

	return res
}

func iconKey(host string) string {
	return iconKeyPrefix + strings.ToLower(domain.Hostname(host))
}

// Cached icons are stored as "<content type>\n<bytes>".
func encodeIcon(icon *domain.Icon) []byte {
	buf := make([]byte, 0, len(icon.ContentType)+1+len(icon.Data))
	buf = append(buf, icon.ContentType...)
	buf = append(buf, '\n')

	return append(buf, icon.Data...)
}

func decodeIcon(host string, data []byte) (*domain.Icon, bool) {
	contentType, body, ok := bytes.Cut(data, []byte{'\n'})
	if !ok || len(contentType) == 0 || len(body) == 0 {
		return nil, false
	}

	return &domain.Icon{
		Host:        strings.ToLower(domain.Hostname(host)),
		ContentType: string(contentType),
		Data:        body,
	}, true
}
