package dto

import (
	"github.com/jsamuelsen/marketing-site/internal/domain"
)

// SiteResponse is the public content snapshot. Businesses, projects and
// case studies carry derived fields; the remaining sections are served as
// they are configured.
type SiteResponse struct {
	Personal    domain.Personal           `json:"personal"`
	Businesses  []BusinessResponse        `json:"businesses"`
	Projects    []ProjectResponse         `json:"projects,omitempty"`
	CaseStudies []CaseStudyResponse       `json:"caseStudies,omitempty"`
	Timeline    []domain.TimelineItem     `json:"timeline"`
	SocialProof []domain.SocialProofEntry `json:"socialProof"`
	SocialLinks []domain.SocialLink       `json:"socialLinks"`
	LeadMagnet  LeadMagnetResponse        `json:"leadMagnet"`
	SEO         domain.SeoMeta            `json:"seo"`
	BlogURL     string                    `json:"blogUrl,omitempty"`
}

// BusinessResponse is a venture with its display host and icon.
type BusinessResponse struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Host        string `json:"host"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
	CTAURL      string `json:"ctaUrl,omitempty"`
}

// ProjectResponse is a project addressed by slug.
type ProjectResponse struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	GithubURL    string   `json:"githubUrl,omitempty"`
	HostedURL    string   `json:"hostedUrl,omitempty"`
	Image        string   `json:"image,omitempty"`
	Technologies []string `json:"technologies"`
	KeyFeatures  []string `json:"keyFeatures"`
	Tags         []string `json:"tags"`
}

// CaseStudyResponse is a case study addressed by slug.
type CaseStudyResponse struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Description  string   `json:"description"`
	Outcomes     []string `json:"outcomes"`
	Technologies []string `json:"technologies"`
}

// LeadMagnetResponse is the offer plus whether it takes an email.
type LeadMagnetResponse struct {
	domain.LeadMagnet

	CollectsEmail bool `json:"collectsEmail"`
}

// NewSiteResponse maps site. iconURL resolves business favicons.
func NewSiteResponse(site *domain.Site, iconURL func(raw string) string) SiteResponse {
	resp := SiteResponse{
		Personal:    site.Personal,
		Businesses:  make([]BusinessResponse, 0, len(site.Businesses)),
		Projects:    NewProjectResponses(site.Projects),
		CaseStudies: NewCaseStudyResponses(site.CaseStudies),
		Timeline:    site.Timeline,
		SocialProof: site.SocialProof,
		SocialLinks: site.SocialLinks,
		LeadMagnet: LeadMagnetResponse{
			LeadMagnet:    site.LeadMagnet,
			CollectsEmail: site.LeadMagnet.Type.CollectsEmail(),
		},
		SEO:     site.SEO,
		BlogURL: site.BlogURL,
	}

	for _, b := range site.Businesses {
		br := BusinessResponse{
			Name:        b.Name,
			URL:         b.URL,
			Host:        domain.Hostname(b.URL),
			Description: b.Description,
			CTA:         b.CTA,
			CTAURL:      b.CTAURL,
		}
		if iconURL != nil {
			br.Icon = iconURL(b.URL)
		}
		resp.Businesses = append(resp.Businesses, br)
	}

	return resp
}

// NewProjectResponse maps a project.
func NewProjectResponse(p domain.Project) ProjectResponse {
	return ProjectResponse{
		Slug:         p.Slug(),
		Name:         p.Name,
		Description:  p.Description,
		Status:       p.Status.String(),
		GithubURL:    p.GithubURL,
		HostedURL:    p.HostedURL,
		Image:        p.Image,
		Technologies: nonNil(p.Technologies),
		KeyFeatures:  nonNil(p.KeyFeatures),
		Tags:         nonNil(p.Tags),
	}
}

// NewProjectResponses maps projects; nil stays nil so the section is
// omitted.
func NewProjectResponses(projects []domain.Project) []ProjectResponse {
	if projects == nil {
		return nil
	}

	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, NewProjectResponse(p))
	}

	return out
}

// NewCaseStudyResponse maps a case study.
func NewCaseStudyResponse(c domain.CaseStudy) CaseStudyResponse {
	return CaseStudyResponse{
		Slug:         c.Slug(),
		Title:        c.Title,
		Company:      c.Company,
		Description:  c.Description,
		Outcomes:     nonNil(c.Outcomes),
		Technologies: nonNil(c.Technologies),
	}
}

// NewCaseStudyResponses maps case studies; nil stays nil.
func NewCaseStudyResponses(studies []domain.CaseStudy) []CaseStudyResponse {
	if studies == nil {
		return nil
	}

	out := make([]CaseStudyResponse, 0, len(studies))
	for _, c := range studies {
		out = append(out, NewCaseStudyResponse(c))
	}

	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}

	return items
}
