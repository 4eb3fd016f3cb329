// Package view turns site content into the view models the page template
// and the live session render. Builders are pure functions of the content;
// the few components with their own state (carousel, marquee, header,
// banner) live alongside them and are driven by the interaction controller.
package view

import (
	"strconv"
	"time"

	"github.com/jsamuelsen/marketing-site/internal/domain"
)

// FallbackIcon replaces a business favicon that failed to load.
const FallbackIcon = `data:image/svg+xml,<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="%23006BFF"><rect width="24" height="24" rx="4"/></svg>`

// Card list limits.
const (
	maxCardTechnologies = 3
	maxCardOutcomes     = 4
)

// Options configures the builders.
type Options struct {
	// IconURL maps a URL or hostname to the favicon source. Defaults to the
	// public favicon service.
	IconURL func(raw string) string

	// Now supplies the footer year.
	Now func() time.Time
}

func (o Options) iconURL(raw string) string {
	if o.IconURL != nil {
		return o.IconURL(raw)
	}

	return domain.FaviconURL("", raw)
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}

	return time.Now()
}

// Image is an image source with a one-time fallback. Renderers swap to
// Fallback on the first load error and never again.
type Image struct {
	Src      string `json:"src"`
	Fallback string `json:"fallback,omitempty"`
}

// Venture is a business card in the ventures grid.
type Venture struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Hostname    string `json:"hostname"`
	URL         string `json:"url"`
	Icon        Image  `json:"icon"`
	Anchor      string `json:"anchor"`
	CTA         string `json:"cta"`
	CTAURL      string `json:"ctaUrl"`
}

// Ventures builds the ventures grid.
func Ventures(site *domain.Site, opts Options) []Venture {
	out := make([]Venture, 0, len(site.Businesses))
	for _, b := range site.Businesses {
		out = append(out, Venture{
			Name:        b.Name,
			Description: b.Description,
			Hostname:    domain.Hostname(b.URL),
			URL:         b.URL,
			Icon:        Image{Src: opts.iconURL(b.URL), Fallback: FallbackIcon},
			Anchor:      domain.Slug(b.Name),
			CTA:         b.CTA,
			CTAURL:      b.CTAURL,
		})
	}

	return out
}

// ProjectCard is a project in the projects grid or the hero.
type ProjectCard struct {
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	Initial          string   `json:"initial"`
	Description      string   `json:"description"`
	Status           Badge    `json:"status"`
	Technologies     []string `json:"technologies"`
	MoreTechnologies int      `json:"moreTechnologies,omitempty"`
	Image            string   `json:"image,omitempty"`
	HostedURL        string   `json:"hostedUrl,omitempty"`
	GithubURL        string   `json:"githubUrl,omitempty"`
}

// NewProjectCard builds the card for p.
func NewProjectCard(p domain.Project) ProjectCard {
	techs, more := truncate(p.Technologies, maxCardTechnologies)

	return ProjectCard{
		Slug:             p.Slug(),
		Name:             p.Name,
		Initial:          initial(p.Name),
		Description:      p.Description,
		Status:           StatusBadge(p.Status),
		Technologies:     techs,
		MoreTechnologies: more,
		Image:            p.Image,
		HostedURL:        p.HostedURL,
		GithubURL:        p.GithubURL,
	}
}

// ProjectsSection is the projects grid.
type ProjectsSection struct {
	ID    string        `json:"id"`
	Cards []ProjectCard `json:"cards"`
}

// Projects builds the projects grid, or nil when there is nothing to show.
func Projects(site *domain.Site) *ProjectsSection {
	if len(site.Projects) == 0 {
		return nil
	}

	s := &ProjectsSection{ID: "projects", Cards: make([]ProjectCard, 0, len(site.Projects))}
	for _, p := range site.Projects {
		s.Cards = append(s.Cards, NewProjectCard(p))
	}

	return s
}

// CaseStudyCard is a case study in the case studies grid.
type CaseStudyCard struct {
	Slug             string   `json:"slug"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Description      string   `json:"description"`
	Outcomes         []string `json:"outcomes"`
	Technologies     []string `json:"technologies"`
	MoreTechnologies int      `json:"moreTechnologies,omitempty"`
}

// CaseStudiesSection is the case studies grid.
type CaseStudiesSection struct {
	ID    string          `json:"id"`
	Cards []CaseStudyCard `json:"cards"`
}

// CaseStudies builds the case studies grid, or nil when there is nothing
// to show.
func CaseStudies(site *domain.Site) *CaseStudiesSection {
	if len(site.CaseStudies) == 0 {
		return nil
	}

	s := &CaseStudiesSection{ID: "case-studies", Cards: make([]CaseStudyCard, 0, len(site.CaseStudies))}
	for _, c := range site.CaseStudies {
		outcomes, _ := truncate(c.Outcomes, maxCardOutcomes)
		techs, more := truncate(c.Technologies, maxCardTechnologies)
		s.Cards = append(s.Cards, CaseStudyCard{
			Slug:             c.Slug(),
			Title:            c.Title,
			Company:          c.Company,
			Description:      c.Description,
			Outcomes:         outcomes,
			Technologies:     techs,
			MoreTechnologies: more,
		})
	}

	return s
}

// TimelineEntry is one row of the about timeline.
type TimelineEntry struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description"`
	Icon        Icon   `json:"icon"`
	Tone        string `json:"tone"`
}

// TimelineSection is the about section.
type TimelineSection struct {
	ID      string          `json:"id"`
	Heading string          `json:"heading"`
	Entries []TimelineEntry `json:"entries"`
}

// Timeline builds the about section. Entries keep document order.
func Timeline(site *domain.Site) TimelineSection {
	s := TimelineSection{
		ID:      "about",
		Heading: "About " + site.Personal.FirstName(),
		Entries: make([]TimelineEntry, 0, len(site.Timeline)),
	}

	for _, item := range site.Timeline {
		s.Entries = append(s.Entries, TimelineEntry{
			Year:        item.Year,
			Title:       item.Title,
			Company:     item.Company,
			Description: item.Description,
			Icon:        TimelineIcon(item.Type),
			Tone:        TimelineTone(item.Type),
		})
	}

	return s
}

// SocialChip is a profile link in the social strip.
type SocialChip struct {
	Platform  string `json:"platform"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	Followers string `json:"followers,omitempty"`
	Icon      Icon   `json:"icon"`
	Tone      string `json:"tone"`
}

// SocialStrip builds the social links strip.
func SocialStrip(site *domain.Site) []SocialChip {
	out := make([]SocialChip, 0, len(site.SocialLinks))
	for _, l := range site.SocialLinks {
		chip := SocialChip{
			Platform: string(l.Platform),
			URL:      l.URL,
			Username: l.Username,
			Icon:     SocialIcon(l.Platform),
			Tone:     SocialTone(l.Platform),
		}
		if l.Followers != "" {
			chip.Followers = l.Followers + " followers"
		}
		out = append(out, chip)
	}

	return out
}

// Link is a labelled hyperlink.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Footer is the page footer.
type Footer struct {
	Name           string `json:"name"`
	Year           int    `json:"year"`
	Copyright      string `json:"copyright"`
	Email          string `json:"email"`
	Mailto         string `json:"mailto"`
	Location       string `json:"location,omitempty"`
	Businesses     []Link `json:"businesses"`
	ChecklistTitle string `json:"checklistTitle"`
}

// NewFooter builds the footer.
func NewFooter(site *domain.Site, opts Options) Footer {
	year := opts.now().Year()
	f := Footer{
		Name:           site.Personal.Name,
		Year:           year,
		Copyright:      "© " + strconv.Itoa(year) + " " + site.Personal.Name,
		Email:          site.Personal.Email,
		Mailto:         "mailto:" + site.Personal.Email,
		Location:       site.Personal.Location,
		Businesses:     make([]Link, 0, len(site.Businesses)),
		ChecklistTitle: "AI Readiness Checklist",
	}

	for _, b := range site.Businesses {
		f.Businesses = append(f.Businesses, Link{Label: b.Name, URL: b.URL})
	}

	return f
}

func truncate(items []string, limit int) ([]string, int) {
	if len(items) <= limit {
		return items, 0
	}

	return items[:limit], len(items) - limit
}

func initial(name string) string {
	for _, r := range name {
		return string(r)
	}

	return ""
}
