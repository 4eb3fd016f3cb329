package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name     string
	err      error
	optional bool
}

func (s *stubChecker) Name() string { return s.name }
func (s *stubChecker) Check(ctx context.Context) error { return s.err }

type stubOptional struct {
	stubChecker
}

func (s *stubOptional) Optional() bool { return s.optional }

func TestRegister_Duplicate(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&stubChecker{name: "lead-store"}))

	err := registry.Register(&stubChecker{name: "lead-store"})
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "lead-store")
}

func TestCheckAll_NoCheckers(t *testing.T) {
	result := NewHealthRegistry().CheckAll(context.Background())

	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Empty(t, result.Checks)
	assert.True(t, result.Ready())
	assert.WithinDuration(t, time.Now(), result.Timestamp, time.Second)
}

func TestCheckAll_Statuses(t *testing.T) {
	tests := []struct {
		name     string
		checkers []HealthChecker
		want     HealthStatus
		ready    bool
	}{
		{
			name:     "all healthy",
			checkers: []HealthChecker{&stubChecker{name: "lead-store"}, &stubChecker{name: "content"}},
			want:     HealthStatusHealthy,
			ready:    true,
		},
		{
			name: "optional failure degrades",
			checkers: []HealthChecker{
				&stubChecker{name: "lead-store"},
				&stubOptional{stubChecker{name: "favicon-service", err: errors.New("timeout"), optional: true}},
			},
			want:  HealthStatusDegraded,
			ready: true,
		},
		{
			name: "required failure wins over optional",
			checkers: []HealthChecker{
				&stubChecker{name: "lead-store", err: errors.New("disk full")},
				&stubOptional{stubChecker{name: "favicon-service", err: errors.New("timeout"), optional: true}},
			},
			want:  HealthStatusUnhealthy,
			ready: false,
		},
		{
			name: "optional checker opting out counts as required",
			checkers: []HealthChecker{
				&stubOptional{stubChecker{name: "content", err: errors.New("stale"), optional: false}},
			},
			want:  HealthStatusUnhealthy,
			ready: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, tt.ready, result.Ready())
			assert.Len(t, result.Checks, len(tt.checkers))
		})
	}
}

func TestCheckAll_RecordsMessage(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(&stubChecker{name: "lead-store", err: errors.New("disk full")}))

	result := registry.CheckAll(context.Background())

	require.Contains(t, result.Checks, "lead-store")
	assert.Equal(t, "disk full", result.Checks["lead-store"].Message)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["lead-store"].Status)
}

func TestLeadCursor_IsZero(t *testing.T) {
	assert.True(t, LeadCursor{}.IsZero())
	assert.False(t, LeadCursor{ID: "x"}.IsZero())
}

func TestFeatureFlagVisitor(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FeatureFlagVisitorFrom(ctx))

	v := &FeatureFlagVisitor{ID: "session-1", Attributes: map[string]any{"referrer": "newsletter"}}
	ctx = WithFeatureFlagVisitor(ctx, v)

	assert.Same(t, v, FeatureFlagVisitorFrom(ctx))
}
