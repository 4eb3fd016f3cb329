// Package ports defines the contracts between the application layer and
// its adapters: content source, lead storage, favicon fetching and cache,
// feature flags and health checks.
//
// Every method that may block takes a context first, returns domain types
// and reports failures with the domain error vocabulary.
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/marketing-site/internal/domain"
)

// SiteSource serves the current content snapshot.
type SiteSource interface {
	// Current returns the active snapshot. Never nil once the source is
	// constructed.
	Current() *domain.Site

	// Subscribe calls fn with every new snapshot until unsubscribed.
	Subscribe(fn func(*domain.Site)) (unsubscribe func())
}

// LeadSubmitter captures a lead. The interaction controller depends on this
// rather than on the full lead service.
type LeadSubmitter interface {
	// SubmitLead validates and stores a lead.
	// Returns domain.ErrValidation for a malformed email and
	// domain.ErrConflict when the email already signed up for the magnet.
	SubmitLead(ctx context.Context, email string, magnet domain.LeadMagnetType, source string) (*domain.Lead, error)
}

// LeadRepository persists leads.
type LeadRepository interface {
	// Save stores a new lead.
	// Returns domain.ErrConflict when the email and magnet pair exists.
	Save(ctx context.Context, lead *domain.Lead) error

	// List returns up to limit leads, newest first, strictly older than the
	// cursor position. A zero cursor starts from the newest lead.
	List(ctx context.Context, cursor LeadCursor, limit int) ([]domain.Lead, error)

	// Count returns the number of stored leads.
	Count(ctx context.Context) (int, error)
}

// LeadCursor is a position in the newest-first lead listing.
type LeadCursor struct {
	CreatedAt time.Time
	ID        string
}

// IsZero reports whether the cursor points at the start of the listing.
func (c LeadCursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID == ""
}

// IconFetcher fetches a favicon from the upstream favicon service.
type IconFetcher interface {
	// FetchIcon returns the icon for host.
	// Returns domain.ErrNotFound when the service has no icon and
	// domain.ErrUnavailable when it cannot be reached.
	FetchIcon(ctx context.Context, host string) (*domain.Icon, error)
}

// Cache is a byte cache with per-entry expiry.
type Cache interface {
	// Get retrieves a value.
	// Returns domain.ErrNotFound if the key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
