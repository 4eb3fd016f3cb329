package ports

import (
	"context"
)

// Feature flags understood by the site.
const (
	// FlagStickyBanner shows the dismissible lead magnet banner.
	FlagStickyBanner = "sticky-banner"

	// FlagLeadCapture accepts lead submissions. When off the lead API
	// answers 403 and the overlay hides its form.
	FlagLeadCapture = "lead-capture"

	// FlagLiveSession serves the interactive WebSocket session. When off
	// the page stays fully server-rendered.
	FlagLiveSession = "live-session"

	// FlagIconProxy routes favicons through the caching proxy instead of
	// linking the public favicon service directly.
	FlagIconProxy = "icon-proxy"
)

// FeatureFlags evaluates feature toggles. Evaluation never fails: unknown
// flags and provider errors yield the supplied default.
type FeatureFlags interface {
	// IsEnabled reports whether a boolean flag is on.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool

	// GetString returns a string flag, for example a banner variant.
	GetString(ctx context.Context, flag string, defaultValue string) string

	// GetInt returns an integer flag, for example a rollout percentage.
	GetInt(ctx context.Context, flag string, defaultValue int) int
}

// FeatureFlagVisitor identifies the visitor a flag is evaluated for.
type FeatureFlagVisitor struct {
	// ID is the session or request identifier.
	ID string

	// Attributes holds targeting attributes such as the referrer.
	Attributes map[string]any
}

type featureFlagVisitorKey struct{}

// WithFeatureFlagVisitor adds the visitor to ctx.
func WithFeatureFlagVisitor(ctx context.Context, v *FeatureFlagVisitor) context.Context {
	return context.WithValue(ctx, featureFlagVisitorKey{}, v)
}

// FeatureFlagVisitorFrom returns the visitor in ctx, or nil.
func FeatureFlagVisitorFrom(ctx context.Context) *FeatureFlagVisitor {
	if v, ok := ctx.Value(featureFlagVisitorKey{}).(*FeatureFlagVisitor); ok {
		return v
	}

	return nil
}
