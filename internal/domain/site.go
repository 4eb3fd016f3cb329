package domain

// Site is the aggregate root of the content document. A Site is built once
// per load and never mutated; a reload produces a new *Site so consumers can
// detect changes by identity.
type Site struct {
	Personal    Personal           `yaml:"personal" json:"personal" validate:"required"`
	Businesses  []Business         `yaml:"businesses" json:"businesses" validate:"dive"`
	Projects    []Project          `yaml:"projects,omitempty" json:"projects,omitempty" validate:"omitempty,dive"`
	CaseStudies []CaseStudy        `yaml:"caseStudies,omitempty" json:"caseStudies,omitempty" validate:"omitempty,dive"`
	SocialProof []SocialProofEntry `yaml:"socialProof" json:"socialProof" validate:"dive"`
	Timeline    []TimelineItem     `yaml:"timeline" json:"timeline" validate:"dive"`
	SocialLinks []SocialLink       `yaml:"socialLinks" json:"socialLinks" validate:"dive"`
	LeadMagnet  LeadMagnet         `yaml:"leadMagnet" json:"leadMagnet" validate:"required"`
	SEO         SeoMeta            `yaml:"seo" json:"seo" validate:"required"`
	BlogURL     string             `yaml:"blogUrl,omitempty" json:"blogUrl,omitempty" validate:"omitempty,url"`
}

// Personal describes the site owner.
type Personal struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	Tagline  string `yaml:"tagline" json:"tagline"`
	Bio      string `yaml:"bio" json:"bio"`
	Location string `yaml:"location" json:"location"`
	Email    string `yaml:"email" json:"email" validate:"required,email"`
	Phone    string `yaml:"phone,omitempty" json:"phone,omitempty"`
	Photo    string `yaml:"photo" json:"photo"`
	Website  string `yaml:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
}

// FirstName returns the first word of the owner's name.
func (p Personal) FirstName() string {
	for i, r := range p.Name {
		if r == ' ' {
			return p.Name[:i]
		}
	}

	return p.Name
}

// Business is a venture the owner runs. URL must be absolute because the
// display hostname and favicon are derived from it.
type Business struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	URL         string `yaml:"url" json:"url" validate:"required,url"`
	Description string `yaml:"description" json:"description"`
	CTA         string `yaml:"cta" json:"cta"`
	CTAURL      string `yaml:"ctaUrl" json:"ctaUrl" validate:"omitempty,url"`
}

// Project is a portfolio entry. Empty optional URLs hide the matching links.
type Project struct {
	Name         string        `yaml:"name" json:"name" validate:"required"`
	Description  string        `yaml:"description" json:"description"`
	Status       ProjectStatus `yaml:"status" json:"status" validate:"required"`
	GithubURL    string        `yaml:"githubUrl,omitempty" json:"githubUrl,omitempty" validate:"omitempty,url"`
	HostedURL    string        `yaml:"hostedUrl,omitempty" json:"hostedUrl,omitempty" validate:"omitempty,url"`
	Image        string        `yaml:"image,omitempty" json:"image,omitempty"`
	Technologies []string      `yaml:"technologies" json:"technologies"`
	KeyFeatures  []string      `yaml:"keyFeatures" json:"keyFeatures"`
	Tags         []string      `yaml:"tags" json:"tags"`
}

// Slug returns the project's anchor and lookup key.
func (p Project) Slug() string {
	return Slug(p.Name)
}

// CaseStudy is a client engagement write-up.
type CaseStudy struct {
	Title        string   `yaml:"title" json:"title" validate:"required"`
	Company      string   `yaml:"company" json:"company"`
	Description  string   `yaml:"description" json:"description"`
	Outcomes     []string `yaml:"outcomes" json:"outcomes"`
	Technologies []string `yaml:"technologies" json:"technologies"`
}

// Slug returns the case study's anchor and lookup key.
func (c CaseStudy) Slug() string {
	return Slug(c.Title)
}

// TimelineItem is one entry of the about timeline, rendered in document order.
type TimelineItem struct {
	Year        string       `yaml:"year" json:"year" validate:"required"`
	Title       string       `yaml:"title" json:"title" validate:"required"`
	Company     string       `yaml:"company,omitempty" json:"company,omitempty"`
	Description string       `yaml:"description" json:"description"`
	Type        TimelineType `yaml:"type" json:"type" validate:"required"`
}

// SocialProofEntry is a brand shown in the scrolling proof strip.
type SocialProofEntry struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Logo        string `yaml:"logo" json:"logo"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// SocialLink is a profile on an external network.
type SocialLink struct {
	Platform  SocialPlatform `yaml:"platform" json:"platform" validate:"required"`
	URL       string         `yaml:"url" json:"url" validate:"required,url"`
	Username  string         `yaml:"username" json:"username"`
	Followers string         `yaml:"followers,omitempty" json:"followers,omitempty"`
}

// LeadMagnet is the offer behind the lead capture modal.
type LeadMagnet struct {
	Title       string         `yaml:"title" json:"title" validate:"required"`
	Tagline     string         `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	Description string         `yaml:"description" json:"description"`
	CTA         string         `yaml:"cta" json:"cta"`
	Type        LeadMagnetType `yaml:"type" json:"type" validate:"required"`
}

// SeoMeta feeds the document title and meta tags.
type SeoMeta struct {
	Title       string   `yaml:"title" json:"title" validate:"required"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	OGImage     string   `yaml:"ogImage" json:"ogImage"`
}

// ProjectBySlug finds a project by its slug.
func (s *Site) ProjectBySlug(slug string) (Project, error) {
	for _, p := range s.Projects {
		if p.Slug() == slug {
			return p, nil
		}
	}

	return Project{}, NewNotFoundError("project", slug)
}

// CaseStudyBySlug finds a case study by its slug.
func (s *Site) CaseStudyBySlug(slug string) (CaseStudy, error) {
	for _, c := range s.CaseStudies {
		if c.Slug() == slug {
			return c, nil
		}
	}

	return CaseStudy{}, NewNotFoundError("case study", slug)
}

// BusinessHosts returns the display hostname of every business, in order.
func (s *Site) BusinessHosts() []string {
	hosts := make([]string, 0, len(s.Businesses))
	for _, b := range s.Businesses {
		hosts = append(hosts, Hostname(b.URL))
	}

	return hosts
}
