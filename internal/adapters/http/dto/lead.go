package dto

import (
	"strings"
	"time"

	"github.com/jsamuelsen/marketing-site/internal/domain"
)

// CreateLeadRequest is the body of POST /api/v1/leads.
type CreateLeadRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`

	// Magnet defaults to the site's configured offer.
	Magnet string `json:"magnet" validate:"omitempty,magnet"`

	// Source defaults to "api".
	Source string `json:"source" validate:"omitempty,leadsource"`
}

// MagnetType returns the requested magnet, or fallback when none was sent.
func (r CreateLeadRequest) MagnetType(fallback domain.LeadMagnetType) domain.LeadMagnetType {
	var m domain.LeadMagnetType
	if err := m.UnmarshalText([]byte(strings.TrimSpace(r.Magnet))); err != nil {
		return fallback
	}

	return m
}

// SourceOrDefault returns the source, defaulting to the API source.
func (r CreateLeadRequest) SourceOrDefault() string {
	if r.Source == "" {
		return domain.SourceAPI
	}

	return r.Source
}

// LeadResponse is a stored lead.
type LeadResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Magnet    string    `json:"magnet"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewLeadResponse maps a lead.
func NewLeadResponse(l *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		Email:     l.Email,
		Magnet:    l.Magnet.String(),
		Source:    l.Source,
		CreatedAt: l.CreatedAt,
	}
}

// CreateLeadResponse confirms a capture without echoing the address.
type CreateLeadResponse struct {
	ID        string    `json:"id"`
	Magnet    string    `json:"magnet"`
	CreatedAt time.Time `json:"createdAt"`
}
