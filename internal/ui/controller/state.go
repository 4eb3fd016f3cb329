package controller

import (
	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ui/modal"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
	"github.com/jsamuelsen/marketing-site/internal/ui/view"
)

// State is the transient UI state the controller owns. Selections survive
// closing their overlay so a closing animation never shows empty content.
type State struct {
	LeadMagnetOpen     bool
	CalendlyOpen       bool
	SelectedProject    *domain.Project
	ProjectModalOpen   bool
	SelectedCaseStudy  *domain.CaseStudy
	CaseStudyModalOpen bool
}

// ModalName identifies an overlay in client messages.
type ModalName string

// Overlay names.
const (
	ModalLeadMagnet  ModalName = "leadMagnet"
	ModalCalendly    ModalName = "calendly"
	ModalProject     ModalName = "project"
	ModalCaseStudy   ModalName = "caseStudy"
	ModalCertificate ModalName = "certificate"
)

// StateView is State in wire form: selections by slug.
type StateView struct {
	LeadMagnetOpen     bool   `json:"leadMagnetOpen"`
	CalendlyOpen       bool   `json:"calendlyOpen"`
	SelectedProject    string `json:"selectedProject,omitempty"`
	ProjectModalOpen   bool   `json:"projectModalOpen"`
	SelectedCaseStudy  string `json:"selectedCaseStudy,omitempty"`
	CaseStudyModalOpen bool   `json:"caseStudyModalOpen"`
	CertificateOpen    bool   `json:"certificateOpen"`
}

// Overlays holds the rendered overlays; closed ones are nil.
type Overlays struct {
	LeadMagnet  *modal.LeadMagnetView  `json:"leadMagnet,omitempty"`
	Scheduling  *modal.SchedulingView  `json:"scheduling,omitempty"`
	Project     *modal.ProjectView     `json:"project,omitempty"`
	CaseStudy   *modal.CaseStudyView   `json:"caseStudy,omitempty"`
	Certificate *modal.CertificateView `json:"certificate,omitempty"`
}

// Frame is everything on the page that can change after load.
type Frame struct {
	Version       uint64          `json:"version"`
	State         StateView       `json:"state"`
	ScrollLocked  bool            `json:"scrollLocked"`
	Header        view.HeaderView `json:"header"`
	BannerVisible bool            `json:"bannerVisible"`
	Hero          view.HeroView   `json:"hero"`
	MarqueeOffset float64         `json:"marqueeOffset"`
	Overlays      Overlays        `json:"overlays"`
	FooterForm    modal.FormState `json:"footerForm"`
}

// Head is the document head derived from the page effects.
type Head struct {
	Title          string      `json:"title"`
	Meta           []page.Meta `json:"meta"`
	Links          []page.Link `json:"links"`
	StructuredData string      `json:"structuredData,omitempty"`
	ScrollBehavior string      `json:"scrollBehavior"`
}

// Page is the part of the page that only changes when content reloads.
type Page struct {
	Head        Head                     `json:"head"`
	Ventures    []view.Venture           `json:"ventures"`
	Projects    *view.ProjectsSection    `json:"projects,omitempty"`
	CaseStudies *view.CaseStudiesSection `json:"caseStudies,omitempty"`
	Timeline    view.TimelineSection     `json:"timeline"`
	SocialProof []view.ProofItem         `json:"socialProof,omitempty"`
	Social      []view.SocialChip        `json:"social"`
	Footer      view.Footer              `json:"footer"`
	LeadMagnet  domain.LeadMagnet        `json:"leadMagnet"`
}
