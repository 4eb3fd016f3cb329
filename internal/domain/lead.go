package domain

import "time"

// Lead is an email captured through the lead magnet form.
type Lead struct {
	ID        string
	Email     string
	Magnet    LeadMagnetType
	Source    string
	CreatedAt time.Time
}

// Lead capture sources.
const (
	SourceModal  = "modal"
	SourceFooter = "footer"
	SourceAPI    = "api"
)
