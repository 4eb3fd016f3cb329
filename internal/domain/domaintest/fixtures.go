// Package domaintest provides content fixtures for tests.
package domaintest

import "github.com/jsamuelsen/marketing-site/internal/domain"

// Site returns a fully populated site. Each call returns a new value, so
// callers may modify it freely.
func Site() *domain.Site {
	return &domain.Site{
		Personal: domain.Personal{
			Name:     "Ada Lovelace",
			Tagline:  "Fractional CTO",
			Bio:      "Builds analytical engines for small businesses.",
			Location: "London, UK",
			Email:    "ada@example.com",
			Photo:    "https://example.com/ada.jpg",
		},
		Businesses: []domain.Business{
			{
				Name:        "Engine Works",
				URL:         "https://engineworks.io",
				Description: "Automation studio",
				CTA:         "Book a build",
				CTAURL:      "https://engineworks.io/start",
			},
			{
				Name:        "Note G",
				URL:         "https://noteg.dev/about",
				Description: "Newsletter on computing",
				CTA:         "Subscribe",
				CTAURL:      "https://noteg.dev/subscribe",
			},
		},
		Projects:    Projects(),
		CaseStudies: CaseStudies(),
		SocialProof: []domain.SocialProofEntry{
			{Name: "Babbage Labs", Logo: "/logos/babbage.svg"},
			{Name: "Jacquard", Logo: "/logos/jacquard.svg", Description: "Looms"},
			{Name: "Royal Society", Logo: "/logos/rs.svg"},
		},
		Timeline: []domain.TimelineItem{
			{Year: "2019", Title: "MSc Mathematics", Company: "UCL", Type: domain.TimelineEducation},
			{Year: "2021", Title: "Staff Engineer", Company: "Difference Co", Type: domain.TimelineWork},
			{Year: "2023", Title: "Founded Engine Works", Type: domain.TimelineVenture},
			{Year: "2024", Title: "Chief AI Officer certification", Type: domain.TimelineAchievement},
		},
		SocialLinks: []domain.SocialLink{
			{Platform: "LinkedIn", URL: "https://linkedin.com/in/ada", Username: "ada", Followers: "12k"},
			{Platform: "github", URL: "https://github.com/ada", Username: "ada"},
			{Platform: "mastodon", URL: "https://hachyderm.io/@ada", Username: "@ada"},
		},
		LeadMagnet: domain.LeadMagnet{
			Title:       "AI Readiness Checklist",
			Tagline:     "Free download",
			Description: "Twenty questions to ask before you automate.",
			CTA:         "Send me the checklist",
			Type:        domain.MagnetChecklist,
		},
		SEO: domain.SeoMeta{
			Title:       "Ada Lovelace | Fractional CTO",
			Description: "Automation for small businesses.",
			Keywords:    []string{"automation", "ai", "consulting"},
			OGImage:     "https://example.com/og.png",
		},
		BlogURL: "https://noteg.dev",
	}
}

// Projects returns three projects, one per status.
func Projects() []domain.Project {
	return []domain.Project{
		{
			Name:         "Lead Radar",
			Description:  "Finds warm leads in public data.",
			Status:       domain.StatusLive,
			GithubURL:    "https://github.com/ada/lead-radar",
			HostedURL:    "https://leadradar.app",
			Image:        "/img/lead-radar.png",
			Technologies: []string{"Go", "Postgres", "HTMX", "Redis", "Fly.io"},
			KeyFeatures:  []string{"Signal scoring", "CRM export"},
			Tags:         []string{"sales"},
		},
		{
			Name:         "Site Audit",
			Description:  "Scores a website for conversion readiness.",
			Status:       domain.StatusBeta,
			HostedURL:    "https://audit.engineworks.io",
			Technologies: []string{"TypeScript"},
		},
		{
			Name:        "Note Engine",
			Description: "Drafts newsletters from notes.",
			Status:      domain.StatusInDevelopment,
		},
	}
}

// CaseStudies returns two case studies.
func CaseStudies() []domain.CaseStudy {
	return []domain.CaseStudy{
		{
			Title:        "Cutting Churn by a Third",
			Company:      "Loom & Co",
			Description:  "Retention model and playbooks.",
			Outcomes:     []string{"-33% churn", "+12% NRR", "2 week payback", "Team trained", "Dashboards"},
			Technologies: []string{"Python", "dbt"},
		},
		{
			Title:       "Automating Intake",
			Company:     "Clinic Group",
			Description: "Intake forms to EHR in minutes.",
			Outcomes:    []string{"4h saved per day"},
		},
	}
}
