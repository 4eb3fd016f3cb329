package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/jsamuelsen/marketing-site/internal/ports"
)

// Page size bounds for listings.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// PageRequest holds the pagination query parameters.
type PageRequest struct {
	// Cursor is the opaque NextCursor of a previous page.
	Cursor string `form:"cursor" json:"cursor"`
	Limit  int    `form:"limit"  json:"limit"  validate:"omitempty,gte=1,lte=200"`
}

// GetLimit returns the limit with defaults applied.
func (p PageRequest) GetLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
	Total      int    `json:"total"`
}

// cursorData is the JSON inside a lead cursor.
type cursorData struct {
	CreatedAt string `json:"t"`
	ID        string `json:"id"`
}

// EncodeLeadCursor encodes a listing position. The zero cursor encodes
// to "".
func EncodeLeadCursor(c ports.LeadCursor) string {
	if c.IsZero() {
		return ""
	}

	raw, err := json.Marshal(cursorData{CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano), ID: c.ID})
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeLeadCursor decodes a cursor from EncodeLeadCursor. An empty string
// is the start of the listing.
func DecodeLeadCursor(encoded string) (ports.LeadCursor, error) {
	if encoded == "" {
		return ports.LeadCursor{}, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return ports.LeadCursor{}, ErrInvalidCursor
	}

	var data cursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.ID == "" {
		return ports.LeadCursor{}, ErrInvalidCursor
	}

	createdAt, err := time.Parse(time.RFC3339Nano, data.CreatedAt)
	if err != nil {
		return ports.LeadCursor{}, ErrInvalidCursor
	}

	return ports.LeadCursor{CreatedAt: createdAt, ID: data.ID}, nil
}
