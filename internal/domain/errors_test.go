package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrValidation, ErrForbidden, ErrUnavailable}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b, "sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		key         string
		expectedMsg string
	}{
		{"with key", "project", "lead-radar", `project "lead-radar" not found`},
		{"without key", "case study", "", "case study not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.key)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.key, notFound.Key)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationErrorWithValue("projects[0].status", "unknown status", "Alpha")

	assert.Equal(t, "validation failed for projects[0].status: unknown status", err.Error())
	assert.True(t, IsValidation(err))

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Alpha", validation.Value)

	assert.Equal(t, "validation failed: empty", NewValidationError("", "empty").Error())
}

func TestUnavailableAndForbiddenMessages(t *testing.T) {
	assert.Equal(t, "favicon-service unavailable: timeout", NewUnavailableError("favicon-service", "timeout").Error())
	assert.Equal(t, "lead-store unavailable", NewUnavailableError("lead-store", "").Error())
	assert.Equal(t, `operation "list leads" forbidden: admin only`, NewForbiddenError("list leads", "admin only").Error())
	assert.Equal(t, `operation "list leads" forbidden`, NewForbiddenError("list leads", "").Error())
	assert.Equal(t, "lead conflict: already subscribed", NewConflictError("lead", "already subscribed").Error())
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"not found typed", NewNotFoundError("project", "x"), IsNotFound, true},
		{"not found wrapped", fmt.Errorf("lookup: %w", ErrNotFound), IsNotFound, true},
		{"not found other", ErrConflict, IsNotFound, false},
		{"not found nil", nil, IsNotFound, false},
		{"conflict typed", NewConflictError("lead", "dup"), IsConflict, true},
		{"validation wrapped", fmt.Errorf("content: %w", NewValidationError("seo.title", "required")), IsValidation, true},
		{"forbidden typed", NewForbiddenError("list leads", ""), IsForbidden, true},
		{"unavailable wrapped", fmt.Errorf("icon: %w", NewUnavailableError("favicon-service", "")), IsUnavailable, true},
		{"unavailable other", ErrValidation, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}
