package flags

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen/marketing-site/internal/platform/config"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

func TestStatic_IsEnabled(t *testing.T) {
	s := NewStatic(config.FeaturesConfig{
		Flags: map[string]bool{
			ports.FlagLeadCapture:  true,
			ports.FlagStickyBanner: false,
			"Icon-Proxy":           true,
		},
	}, nil)

	ctx := context.Background()

	assert.True(t, s.IsEnabled(ctx, ports.FlagLeadCapture, false))
	assert.False(t, s.IsEnabled(ctx, ports.FlagStickyBanner, true))
	assert.True(t, s.IsEnabled(ctx, ports.FlagIconProxy, false), "keys are case-insensitive")
	assert.True(t, s.IsEnabled(ctx, "unknown", true))
	assert.False(t, s.IsEnabled(ctx, "unknown", false))
}

func TestStatic_Rollout(t *testing.T) {
	s := NewStatic(config.FeaturesConfig{
		Flags:  map[string]bool{ports.FlagLiveSession: true, "half": true, "broken": true},
		Values: map[string]string{"live-session.rollout": "0", "half.rollout": "50", "broken.rollout": "lots"},
	}, nil)

	anon := context.Background()
	assert.False(t, s.IsEnabled(anon, ports.FlagLiveSession, true), "0% rollout excludes everyone")
	assert.False(t, s.IsEnabled(anon, "half", true), "partial rollout needs a visitor")
	assert.True(t, s.IsEnabled(anon, "broken", false), "invalid rollout leaves the flag on")

	on := 0
	for i := range 200 {
		ctx := ports.WithFeatureFlagVisitor(anon, &ports.FeatureFlagVisitor{ID: fmt.Sprintf("visitor-%d", i)})
		first := s.IsEnabled(ctx, "half", false)
		assert.Equal(t, first, s.IsEnabled(ctx, "half", false), "bucketing is stable")
		if first {
			on++
		}
	}
	assert.InDelta(t, 100, on, 40)
}

func TestStatic_Values(t *testing.T) {
	s := NewStatic(config.FeaturesConfig{
		Values: map[string]string{"banner-variant": "checklist", "max-sessions": " 64 ", "bad-int": "x"},
	}, nil)

	ctx := context.Background()

	assert.Equal(t, "checklist", s.GetString(ctx, "banner-variant", "call"))
	assert.Equal(t, "call", s.GetString(ctx, "missing", "call"))
	assert.Equal(t, 64, s.GetInt(ctx, "max-sessions", 8))
	assert.Equal(t, 8, s.GetInt(ctx, "bad-int", 8))
	assert.Equal(t, 8, s.GetInt(ctx, "missing", 8))
}

func TestStatic_Update(t *testing.T) {
	s := NewStatic(config.FeaturesConfig{Flags: map[string]bool{ports.FlagLeadCapture: true}}, nil)
	assert.True(t, s.IsEnabled(context.Background(), ports.FlagLeadCapture, false))

	s.Update(config.FeaturesConfig{Flags: map[string]bool{ports.FlagLeadCapture: false}})
	assert.False(t, s.IsEnabled(context.Background(), ports.FlagLeadCapture, true))
}
