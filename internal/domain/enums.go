package domain

import (
	"fmt"
	"strings"
)

// ProjectStatus is the lifecycle stage of a project. The set is closed:
// decoding rejects anything outside it, so renderers never see an unknown
// status. The zero value means "unset" and fails validation.
type ProjectStatus int

// Project statuses.
const (
	StatusLive ProjectStatus = iota + 1
	StatusBeta
	StatusInDevelopment
)

var projectStatusNames = map[ProjectStatus]string{
	StatusLive:          "Live",
	StatusBeta:          "Beta",
	StatusInDevelopment: "In Development",
}

// ProjectStatuses lists every status in display order.
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{StatusLive, StatusBeta, StatusInDevelopment}
}

// String returns the display label.
func (s ProjectStatus) String() string {
	if name, ok := projectStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("ProjectStatus(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ProjectStatus) MarshalText() ([]byte, error) {
	name, ok := projectStatusNames[s]
	if !ok {
		return nil, NewValidationErrorWithValue("status", "unknown project status", int(s))
	}

	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ProjectStatus) UnmarshalText(text []byte) error {
	for status, name := range projectStatusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}

	return NewValidationErrorWithValue("status", fmt.Sprintf("unknown status %q, must be one of Live, Beta, In Development", text), string(text))
}

// TimelineType classifies a timeline entry. Closed set, like ProjectStatus.
type TimelineType int

// Timeline entry types.
const (
	TimelineEducation TimelineType = iota + 1
	TimelineWork
	TimelineAchievement
	TimelineVenture
)

var timelineTypeNames = map[TimelineType]string{
	TimelineEducation:   "education",
	TimelineWork:        "work",
	TimelineAchievement: "achievement",
	TimelineVenture:     "venture",
}

// String returns the wire name.
func (t TimelineType) String() string {
	if name, ok := timelineTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TimelineType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t TimelineType) MarshalText() ([]byte, error) {
	name, ok := timelineTypeNames[t]
	if !ok {
		return nil, NewValidationErrorWithValue("type", "unknown timeline type", int(t))
	}

	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimelineType) UnmarshalText(text []byte) error {
	for typ, name := range timelineTypeNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}

	return NewValidationErrorWithValue("type", fmt.Sprintf("unknown timeline type %q, must be one of education, work, achievement, venture", text), string(text))
}

// LeadMagnetType selects what the lead capture modal offers.
type LeadMagnetType int

// Lead magnet types.
const (
	MagnetNewsletter LeadMagnetType = iota + 1
	MagnetChecklist
	MagnetCall
)

var leadMagnetTypeNames = map[LeadMagnetType]string{
	MagnetNewsletter: "newsletter",
	MagnetChecklist:  "checklist",
	MagnetCall:       "call",
}

// String returns the wire name.
func (m LeadMagnetType) String() string {
	if name, ok := leadMagnetTypeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("LeadMagnetType(%d)", int(m))
}

// CollectsEmail reports whether the magnet is delivered by email.
func (m LeadMagnetType) CollectsEmail() bool {
	return m == MagnetNewsletter || m == MagnetChecklist
}

// MarshalText implements encoding.TextMarshaler.
func (m LeadMagnetType) MarshalText() ([]byte, error) {
	name, ok := leadMagnetTypeNames[m]
	if !ok {
		return nil, NewValidationErrorWithValue("type", "unknown lead magnet type", int(m))
	}

	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LeadMagnetType) UnmarshalText(text []byte) error {
	for typ, name := range leadMagnetTypeNames {
		if name == string(text) {
			*m = typ
			return nil
		}
	}

	return NewValidationErrorWithValue("type", fmt.Sprintf("unknown lead magnet type %q, must be one of newsletter, checklist, call", text), string(text))
}

// SocialPlatform names an external network. Unlike the enums above the set
// is open: new networks appear all the time, so unknown names are kept and
// rendered with a generic treatment.
type SocialPlatform string

// Platforms with a dedicated icon.
const (
	PlatformTwitter   SocialPlatform = "twitter"
	PlatformLinkedIn  SocialPlatform = "linkedin"
	PlatformGithub    SocialPlatform = "github"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformFacebook  SocialPlatform = "facebook"
)

// Normalized returns the lowercase platform name used for lookups.
func (p SocialPlatform) Normalized() SocialPlatform {
	return SocialPlatform(strings.ToLower(strings.TrimSpace(string(p))))
}

// Known reports whether the platform has a dedicated icon.
func (p SocialPlatform) Known() bool {
	switch p.Normalized() {
	case PlatformTwitter, PlatformLinkedIn, PlatformGithub, PlatformInstagram, PlatformFacebook:
		return true
	default:
		return false
	}
}
