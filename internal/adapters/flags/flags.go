// Package flags serves feature flags from configuration.
package flags

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/jsamuelsen/marketing-site/internal/platform/config"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

// rolloutSuffix marks a percentage value that gates a boolean flag per
// visitor, e.g. values: {"live-session.rollout": "25"}.
const rolloutSuffix = ".rollout"

var _ ports.FeatureFlags = (*Static)(nil)

type snapshot struct {
	flags  map[string]bool
	values map[string]string
}

// Static evaluates flags from a config snapshot. Update swaps the
// snapshot atomically so flags can follow configuration reloads.
type Static struct {
	current atomic.Pointer[snapshot]
	logger  *slog.Logger
}

// NewStatic creates a flag provider from cfg.
func NewStatic(cfg config.FeaturesConfig, logger *slog.Logger) *Static {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Static{logger: logger.With(slog.String("component", "flags"))}
	s.Update(cfg)

	return s
}

// Update replaces the active flag values.
func (s *Static) Update(cfg config.FeaturesConfig) {
	snap := &snapshot{
		flags:  make(map[string]bool, len(cfg.Flags)),
		values: make(map[string]string, len(cfg.Values)),
	}
	for k, v := range cfg.Flags {
		snap.flags[strings.ToLower(k)] = v
	}
	for k, v := range cfg.Values {
		snap.values[strings.ToLower(k)] = v
	}

	s.current.Store(snap)
}

// IsEnabled reports whether flag is on. An enabled flag with a rollout
// percentage is on only for visitors hashed into the rollout bucket.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	snap := s.current.Load()
	key := strings.ToLower(flag)

	enabled, ok := snap.flags[key]
	if !ok {
		return defaultValue
	}
	if !enabled {
		return false
	}

	raw, ok := snap.values[key+rolloutSuffix]
	if !ok {
		return true
	}

	percent, err := strconv.Atoi(raw)
	if err != nil || percent < 0 || percent > 100 {
		s.logger.WarnContext(ctx, "ignoring invalid rollout", slog.String("flag", flag), slog.String("value", raw))
		return true
	}

	visitor := ports.FeatureFlagVisitorFrom(ctx)
	if visitor == nil || visitor.ID == "" {
		return percent == 100
	}

	return bucket(key, visitor.ID) < percent
}

// GetString returns the string value of flag.
func (s *Static) GetString(_ context.Context, flag, defaultValue string) string {
	if v, ok := s.current.Load().values[strings.ToLower(flag)]; ok {
		return v
	}

	return defaultValue
}

// GetInt returns the integer value of flag. Unparsable values yield the
// default.
func (s *Static) GetInt(ctx context.Context, flag string, defaultValue int) int {
	raw, ok := s.current.Load().values[strings.ToLower(flag)]
	if !ok {
		return defaultValue
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.logger.WarnContext(ctx, "flag is not an integer", slog.String("flag", flag), slog.String("value", raw))
		return defaultValue
	}

	return n
}

// bucket maps a visitor to a stable value in [0, 100) per flag.
func bucket(flag, visitorID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(flag))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(visitorID))

	return int(h.Sum32() % 100)
}
