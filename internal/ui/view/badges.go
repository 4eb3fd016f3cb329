package view

import "github.com/jsamuelsen/marketing-site/internal/domain"

// Icon names a glyph from the site's icon set.
type Icon string

// Icons used by the site.
const (
	IconGraduationCap Icon = "graduation-cap"
	IconBriefcase     Icon = "briefcase"
	IconTrophy        Icon = "trophy"
	IconRocket        Icon = "rocket"
	IconTwitter       Icon = "twitter"
	IconLinkedIn      Icon = "linkedin"
	IconGithub        Icon = "github"
	IconInstagram     Icon = "instagram"
	IconFacebook      Icon = "facebook"
	IconExternalLink  Icon = "external-link"
)

// Badge is a labelled, colour-coded pill.
type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

// StatusBadge maps a project status to its badge. Decoding rejects unknown
// statuses, so only the zero value can reach the final branch.
func StatusBadge(s domain.ProjectStatus) Badge {
	switch s {
	case domain.StatusLive:
		return Badge{Label: s.String(), Tone: "emerald"}
	case domain.StatusBeta:
		return Badge{Label: s.String(), Tone: "blue"}
	case domain.StatusInDevelopment:
		return Badge{Label: s.String(), Tone: "amber"}
	}

	return Badge{Label: "Unknown", Tone: "gray"}
}

// TimelineIcon maps a timeline type to its icon.
func TimelineIcon(t domain.TimelineType) Icon {
	switch t {
	case domain.TimelineEducation:
		return IconGraduationCap
	case domain.TimelineWork:
		return IconBriefcase
	case domain.TimelineAchievement:
		return IconTrophy
	case domain.TimelineVenture:
		return IconRocket
	}

	return IconBriefcase
}

// TimelineTone maps a timeline type to its colour.
func TimelineTone(t domain.TimelineType) string {
	switch t {
	case domain.TimelineEducation:
		return "blue"
	case domain.TimelineWork:
		return "purple"
	case domain.TimelineAchievement:
		return "yellow"
	case domain.TimelineVenture:
		return "green"
	}

	return "gray"
}

// SocialIcon maps a platform to its icon. Platforms are open-ended, so
// unknown names get the generic external link icon.
func SocialIcon(p domain.SocialPlatform) Icon {
	switch p.Normalized() {
	case domain.PlatformTwitter:
		return IconTwitter
	case domain.PlatformLinkedIn:
		return IconLinkedIn
	case domain.PlatformGithub:
		return IconGithub
	case domain.PlatformInstagram:
		return IconInstagram
	case domain.PlatformFacebook:
		return IconFacebook
	default:
		return IconExternalLink
	}
}

// SocialTone maps a platform to its hover colour, with the same fallback
// policy as SocialIcon.
func SocialTone(p domain.SocialPlatform) string {
	switch p.Normalized() {
	case domain.PlatformTwitter:
		return "blue-400"
	case domain.PlatformLinkedIn:
		return "blue-600"
	case domain.PlatformGithub:
		return "gray-800"
	case domain.PlatformInstagram:
		return "purple-500-pink-500"
	case domain.PlatformFacebook:
		return "blue-700"
	default:
		return "gray-600"
	}
}
