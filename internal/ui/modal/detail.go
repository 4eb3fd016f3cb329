package modal

import (
	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ui/events"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
	"github.com/jsamuelsen/marketing-site/internal/ui/view"
)

// ProjectView is the rendered project overlay.
type ProjectView struct {
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	Initial      string     `json:"initial"`
	Description  string     `json:"description"`
	Status       view.Badge `json:"status"`
	Image        string     `json:"image,omitempty"`
	KeyFeatures  []string   `json:"keyFeatures,omitempty"`
	Technologies []string   `json:"technologies,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	HostedURL    string     `json:"hostedUrl,omitempty"`
	GithubURL    string     `json:"githubUrl,omitempty"`
}

// Project is the project detail overlay.
type Project struct {
	*Shell
	project *domain.Project
}

// NewProject creates a closed project overlay.
func NewProject(doc *page.Document, win *events.Window, onRequestClose func()) *Project {
	return &Project{Shell: NewShell(doc, win, onRequestClose)}
}

// SetPayload sets the project shown. nil clears it.
func (m *Project) SetPayload(p *domain.Project) {
	m.project = p
}

// View renders the overlay, or nil when it is closed or has no project.
func (m *Project) View() *ProjectView {
	if !m.IsOpen() || m.project == nil {
		return nil
	}

	p := m.project
	card := view.NewProjectCard(*p)

	return &ProjectView{
		Slug:         card.Slug,
		Name:         p.Name,
		Initial:      card.Initial,
		Description:  p.Description,
		Status:       card.Status,
		Image:        p.Image,
		KeyFeatures:  nonEmpty(p.KeyFeatures),
		Technologies: nonEmpty(p.Technologies),
		Tags:         nonEmpty(p.Tags),
		HostedURL:    p.HostedURL,
		GithubURL:    p.GithubURL,
	}
}

// CaseStudyView is the rendered case study overlay.
type CaseStudyView struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Description  string   `json:"description"`
	Outcomes     []string `json:"outcomes,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// CaseStudy is the case study detail overlay.
type CaseStudy struct {
	*Shell
	study *domain.CaseStudy
}

// NewCaseStudy creates a closed case study overlay.
func NewCaseStudy(doc *page.Document, win *events.Window, onRequestClose func()) *CaseStudy {
	return &CaseStudy{Shell: NewShell(doc, win, onRequestClose)}
}

// SetPayload sets the case study shown. nil clears it.
func (m *CaseStudy) SetPayload(c *domain.CaseStudy) {
	m.study = c
}

// View renders the overlay, or nil when it is closed or has no case study.
func (m *CaseStudy) View() *CaseStudyView {
	if !m.IsOpen() || m.study == nil {
		return nil
	}

	c := m.study

	return &CaseStudyView{
		Slug:         c.Slug(),
		Title:        c.Title,
		Company:      c.Company,
		Description:  c.Description,
		Outcomes:     nonEmpty(c.Outcomes),
		Technologies: nonEmpty(c.Technologies),
	}
}

// SchedulingView is the rendered booking overlay.
type SchedulingView struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Scheduling embeds the external booking calendar.
type Scheduling struct {
	*Shell
	url string
}

// NewScheduling creates a closed booking overlay for url.
func NewScheduling(doc *page.Document, win *events.Window, url string, onRequestClose func()) *Scheduling {
	return &Scheduling{Shell: NewShell(doc, win, onRequestClose), url: url}
}

// View renders the overlay, or nil when closed.
func (m *Scheduling) View() *SchedulingView {
	if !m.IsOpen() {
		return nil
	}

	return &SchedulingView{Title: "Book Strategy Call", URL: m.url}
}

func nonEmpty(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	return items
}
