package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/mocks"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2026-01-15T10:00:00Z")

	assert.Equal(t, "1.0.0", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
	assert.Equal(t, runtime.Version(), bi.GoVersion)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		result         *ports.HealthResult
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "all checks healthy",
			result: &ports.HealthResult{
				Status: ports.HealthStatusHealthy,
				Checks: map[string]*ports.CheckResult{
					"sqlite":  {Status: ports.HealthStatusHealthy},
					"content": {Status: ports.HealthStatusHealthy},
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"healthy"`,
		},
		{
			name: "optional favicon service down",
			result: &ports.HealthResult{
				Status: ports.HealthStatusDegraded,
				Checks: map[string]*ports.CheckResult{
					"sqlite":  {Status: ports.HealthStatusHealthy},
					"favicon": {Status: ports.HealthStatusDegraded, Message: "circuit open"},
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"degraded"`,
		},
		{
			name: "storage down",
			result: &ports.HealthResult{
				Status: ports.HealthStatusUnhealthy,
				Checks: map[string]*ports.CheckResult{
					"sqlite": {Status: ports.HealthStatusUnhealthy, Message: "database is closed"},
				},
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "database is closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockHealthRegistry(t)
			registry.On("CheckAll", mock.Anything).Return(tt.result).Once()

			handler := NewHealthHandler(registry, BuildInfo{}, prometheus.NewRegistry())

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/-/ready", nil)

			handler.Readiness(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

// stubChecker is a real checker for the default registry.
type stubChecker struct {
	name     string
	err      error
	optional bool
}

func (s stubChecker) Name() string                { return s.name }
func (s stubChecker) Check(context.Context) error { return s.err }
func (s stubChecker) Optional() bool              { return s.optional }

func TestHealthHandler_ReadinessWithRegistry(t *testing.T) {
	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(stubChecker{name: "sqlite"}))
	require.NoError(t, registry.Register(stubChecker{name: "favicon", err: errors.New("circuit open"), optional: true}))

	router := gin.New()
	NewHealthHandler(registry, BuildInfo{}, prometheus.NewRegistry()).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp readinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(ports.HealthStatusDegraded), resp.Status)
	assert.Equal(t, "circuit open", resp.Checks["favicon"].Message)
}

func TestHealthHandler_Routes(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "marketing_site_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	registry := mocks.NewMockHealthRegistry(t)
	router := gin.New()
	NewHealthHandler(registry, BuildInfo{Version: "1.2.3", Commit: "def456"}, reg).RegisterRoutes(router)

	t.Run("live", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("build", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/build", nil))

		var resp BuildInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Equal(t, "def456", resp.Commit)
	})

	t.Run("metrics from the given registry", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, w.Body.String(), "marketing_site_test_total 1")
	})
}
