// Package mocks provides testify mocks of the port interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

// MockLeadRepository mocks ports.LeadRepository.
type MockLeadRepository struct {
	mock.Mock
}

// NewMockLeadRepository creates a mock that asserts its expectations on cleanup.
func NewMockLeadRepository(t *testing.T) *MockLeadRepository {
	m := &MockLeadRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Save implements ports.LeadRepository.
func (m *MockLeadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

// List implements ports.LeadRepository.
func (m *MockLeadRepository) List(ctx context.Context, cursor ports.LeadCursor, limit int) ([]domain.Lead, error) {
	args := m.Called(ctx, cursor, limit)
	leads, _ := args.Get(0).([]domain.Lead)

	return leads, args.Error(1)
}

// Count implements ports.LeadRepository.
func (m *MockLeadRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	return args.Int(0), args.Error(1)
}

// MockIconFetcher mocks ports.IconFetcher.
type MockIconFetcher struct {
	mock.Mock
}

// NewMockIconFetcher creates a mock that asserts its expectations on cleanup.
func NewMockIconFetcher(t *testing.T) *MockIconFetcher {
	m := &MockIconFetcher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// FetchIcon implements ports.IconFetcher.
func (m *MockIconFetcher) FetchIcon(ctx context.Context, host string) (*domain.Icon, error) {
	args := m.Called(ctx, host)
	icon, _ := args.Get(0).(*domain.Icon)

	return icon, args.Error(1)
}

// MockCache mocks ports.Cache.
type MockCache struct {
	mock.Mock
}

// NewMockCache creates a mock that asserts its expectations on cleanup.
func NewMockCache(t *testing.T) *MockCache {
	m := &MockCache{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Get implements ports.Cache.
func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)

	return data, args.Error(1)
}

// Set implements ports.Cache.
func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

// Delete implements ports.Cache.
func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockFeatureFlags mocks ports.FeatureFlags.
type MockFeatureFlags struct {
	mock.Mock
}

// NewMockFeatureFlags creates a mock that asserts its expectations on cleanup.
func NewMockFeatureFlags(t *testing.T) *MockFeatureFlags {
	m := &MockFeatureFlags{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// IsEnabled implements ports.FeatureFlags.
func (m *MockFeatureFlags) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	return m.Called(ctx, flag, defaultValue).Bool(0)
}

// GetString implements ports.FeatureFlags.
func (m *MockFeatureFlags) GetString(ctx context.Context, flag, defaultValue string) string {
	return m.Called(ctx, flag, defaultValue).String(0)
}

// GetInt implements ports.FeatureFlags.
func (m *MockFeatureFlags) GetInt(ctx context.Context, flag string, defaultValue int) int {
	return m.Called(ctx, flag, defaultValue).Int(0)
}

// MockLeadSubmitter mocks ports.LeadSubmitter.
type MockLeadSubmitter struct {
	mock.Mock
}

// NewMockLeadSubmitter creates a mock that asserts its expectations on cleanup.
func NewMockLeadSubmitter(t *testing.T) *MockLeadSubmitter {
	m := &MockLeadSubmitter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// SubmitLead implements ports.LeadSubmitter.
func (m *MockLeadSubmitter) SubmitLead(ctx context.Context, email string, magnet domain.LeadMagnetType, source string) (*domain.Lead, error) {
	args := m.Called(ctx, email, magnet, source)
	lead, _ := args.Get(0).(*domain.Lead)

	return lead, args.Error(1)
}

var (
	_ ports.LeadRepository = (*MockLeadRepository)(nil)
	_ ports.IconFetcher    = (*MockIconFetcher)(nil)
	_ ports.Cache          = (*MockCache)(nil)
	_ ports.FeatureFlags   = (*MockFeatureFlags)(nil)
	_ ports.LeadSubmitter  = (*MockLeadSubmitter)(nil)
)

// MockHealthRegistry mocks ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

// NewMockHealthRegistry creates a mock that asserts its expectations on cleanup.
func NewMockHealthRegistry(t *testing.T) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Register implements ports.HealthRegistry.
func (m *MockHealthRegistry) Register(checker ports.HealthChecker) error {
	return m.Called(checker).Error(0)
}

// CheckAll implements ports.HealthRegistry.
func (m *MockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	result, _ := m.Called(ctx).Get(0).(*ports.HealthResult)

	return result
}
