// Package controller implements the interaction controller: the single
// owner of a page instance's transient UI state. Presentation components
// report user intent through its methods; overlays are opened, closed and
// fed their payload only from here.
//
// One Controller serves one mounted page, for example one live session.
// Every method is safe for concurrent use: all transitions run inside the
// controller's schedule.Loop, the same loop timer callbacks use.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ports"
	"github.com/jsamuelsen/marketing-site/internal/ui/events"
	"github.com/jsamuelsen/marketing-site/internal/ui/modal"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
	"github.com/jsamuelsen/marketing-site/internal/ui/schedule"
	"github.com/jsamuelsen/marketing-site/internal/ui/view"
)

// ErrNotMounted is returned by operations that need a mounted page.
var ErrNotMounted = errors.New("controller not mounted")

// ErrSubmitRejected is returned when a lead form is already submitting or
// the offer does not collect email.
var ErrSubmitRejected = errors.New("lead form is not accepting submissions")

// Config holds the tunables of a page instance.
type Config struct {
	// Origin is the public site URL used in structured data.
	Origin string

	// IconURL maps a URL or hostname to its favicon source.
	IconURL func(raw string) string

	CarouselInterval time.Duration
	Marquee          view.MarqueeConfig
	Certificate      modal.CertificateConfig
	SchedulingURL    string

	// ShowBanner enables the sticky lead magnet banner.
	ShowBanner bool

	// Now supplies the footer year.
	Now func() time.Time
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Loop      *schedule.Loop
	Scheduler schedule.Scheduler
	Submitter ports.LeadSubmitter
	Logger    *slog.Logger
}

// Controller owns the transient UI state of one page instance.
type Controller struct {
	loop      *schedule.Loop
	sched     schedule.Scheduler
	submitter ports.LeadSubmitter
	logger    *slog.Logger
	cfg       Config
	viewOpts  view.Options

	doc     *page.Document
	win     *events.Window
	effects *page.Effects
	changes *events.Bus[uint64]

	site            *domain.Site
	state           State
	certificateOpen bool
	footerForm      modal.FormState
	mounted         bool
	version         uint64

	header      *view.Header
	banner      view.Banner
	carousel    *view.Carousel
	marquee     *view.Marquee
	leadMagnet  *modal.LeadMagnet
	scheduling  *modal.Scheduling
	project     *modal.Project
	caseStudy   *modal.CaseStudy
	certificate *modal.Certificate
}

// New creates an unmounted controller for site. deps.Loop and
// deps.Scheduler must deliver to the same loop.
func New(site *domain.Site, deps Deps, cfg Config) *Controller {
	if deps.Loop == nil {
		deps.Loop = schedule.NewLoop()
	}

	if deps.Scheduler == nil {
		deps.Scheduler = schedule.NewVirtual(deps.Loop)
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if cfg.IconURL != nil && cfg.Marquee.IconURL == nil {
		cfg.Marquee.IconURL = cfg.IconURL
	}

	doc := page.NewDocument()
	win := events.NewWindow()

	c := &Controller{
		loop:       deps.Loop,
		sched:      deps.Scheduler,
		submitter:  deps.Submitter,
		logger:     deps.Logger,
		cfg:        cfg,
		viewOpts:   view.Options{IconURL: cfg.IconURL, Now: cfg.Now},
		doc:        doc,
		win:        win,
		effects:    page.NewEffects(doc, cfg.Origin, cfg.IconURL),
		changes:    events.NewBus[uint64](),
		site:       site,
		footerForm: modal.FormState{Status: modal.FormIdle},
	}

	c.header = view.NewHeader(c.changed)
	c.carousel = view.NewCarousel(c.sched, cfg.CarouselInterval, c.changed)
	c.marquee = view.NewMarquee(c.sched, cfg.Marquee, c.changed)
	c.leadMagnet = modal.NewLeadMagnet(doc, win, site.LeadMagnet, c.closeLeadMagnet)
	c.scheduling = modal.NewScheduling(doc, win, cfg.SchedulingURL, c.closeCalendly)
	c.project = modal.NewProject(doc, win, c.closeProject)
	c.caseStudy = modal.NewCaseStudy(doc, win, c.closeCaseStudy)
	c.certificate = modal.NewCertificate(doc, win, c.sched, cfg.Certificate, c.closeCertificate, c.changed)

	return c
}

// Document returns the page instance's document.
func (c *Controller) Document() *page.Document {
	return c.doc
}

// Window returns the page instance's window listeners.
func (c *Controller) Window() *events.Window {
	return c.win
}

// OnChange registers fn to be called, inside the loop, after every state
// change with the new frame version. fn must not block and must not call
// back into the controller synchronously.
func (c *Controller) OnChange(fn func(version uint64)) (remove func()) {
	return c.changes.Add(fn)
}

// Mount applies the page effects, attaches listeners and starts timers.
// Mounting a mounted controller does nothing.
func (c *Controller) Mount() error {
	var err error

	c.loop.Run(func() {
		if c.mounted {
			return
		}

		if err = c.effects.Apply(c.site); err != nil {
			return
		}

		c.header.Mount(c.win)
		c.carousel.Mount(c.site.Projects)
		c.marquee.Mount(c.site.SocialProof)
		c.mounted = true
		c.sync()
		c.changed()
	})

	return err
}

// Unmount tears down everything Mount set up and discards the transient
// state. The document keeps its title, meta tags and preload hints.
func (c *Controller) Unmount() {
	c.loop.Run(func() {
		if !c.mounted {
			return
		}

		c.leadMagnet.Unmount()
		c.scheduling.Unmount()
		c.project.Unmount()
		c.caseStudy.Unmount()
		c.certificate.Unmount()
		c.carousel.Unmount()
		c.marquee.Unmount()
		c.header.Unmount()
		c.effects.Revert()

		c.state = State{}
		c.certificateOpen = false
		c.footerForm = modal.FormState{Status: modal.FormIdle}
		c.banner.Reset()
		c.mounted = false
	})
}

// Mounted reports whether the controller is mounted.
func (c *Controller) Mounted() bool {
	var mounted bool
	c.loop.Run(func() { mounted = c.mounted })

	return mounted
}

// Reload switches to a new content snapshot. The carousel restarts only
// when the project list changed identity.
func (c *Controller) Reload(site *domain.Site) error {
	var err error

	c.loop.Run(func() {
		old := c.site
		c.site = site
		c.leadMagnet.SetMagnet(site.LeadMagnet)

		if !c.mounted {
			return
		}

		if err = c.effects.Apply(site); err != nil {
			return
		}

		c.carousel.SetProjects(site.Projects)
		if !sameProof(old.SocialProof, site.SocialProof) {
			c.marquee.Mount(site.SocialProof)
		}

		c.sync()
		c.changed()
	})

	return err
}

// do runs fn as one transition: fn mutates state, then overlays are
// synced and listeners notified. Ignored while unmounted.
func (c *Controller) do(fn func()) {
	c.loop.Run(func() {
		if !c.mounted {
			return
		}

		fn()
		c.sync()
		c.changed()
	})
}

// sync pushes State into the overlays.
func (c *Controller) sync() {
	c.leadMagnet.SetOpen(c.state.LeadMagnetOpen)
	c.scheduling.SetOpen(c.state.CalendlyOpen)
	c.project.SetPayload(c.state.SelectedProject)
	c.project.SetOpen(c.state.ProjectModalOpen)
	c.caseStudy.SetPayload(c.state.SelectedCaseStudy)
	c.caseStudy.SetOpen(c.state.CaseStudyModalOpen)
	c.certificate.SetOpen(c.certificateOpen)
}

func (c *Controller) changed() {
	c.version++
	c.changes.Dispatch(c.version)
}

// The unexported transitions below run inside a do callback. Overlays call
// the close variants for Escape and backdrop clicks, which only arrive
// through KeyDown and Click.

func (c *Controller) closeLeadMagnet() {
	c.state.LeadMagnetOpen = false
}

func (c *Controller) closeCalendly() {
	c.state.CalendlyOpen = false
}

func (c *Controller) closeProject() {
	c.state.ProjectModalOpen = false
}

func (c *Controller) closeCaseStudy() {
	c.state.CaseStudyModalOpen = false
}

func (c *Controller) closeCertificate() {
	c.certificateOpen = false
}

func (c *Controller) selectProject(p domain.Project) {
	c.state.SelectedProject = &p
	c.state.ProjectModalOpen = true
}

func (c *Controller) selectCaseStudy(cs domain.CaseStudy) {
	c.state.SelectedCaseStudy = &cs
	c.state.CaseStudyModalOpen = true
}

// OpenLeadMagnet opens the lead capture overlay.
func (c *Controller) OpenLeadMagnet() {
	c.do(func() { c.state.LeadMagnetOpen = true })
}

// CloseLeadMagnet closes the lead capture overlay.
func (c *Controller) CloseLeadMagnet() {
	c.do(func() { c.state.LeadMagnetOpen = false })
}

// OpenCalendly opens the booking overlay. Other overlays stay as they are.
func (c *Controller) OpenCalendly() {
	c.do(func() { c.state.CalendlyOpen = true })
}

// CloseCalendly closes the booking overlay.
func (c *Controller) CloseCalendly() {
	c.do(func() { c.state.CalendlyOpen = false })
}

// SelectProject shows p in the project overlay. Payload and open flag
// change in the same transition.
func (c *Controller) SelectProject(p domain.Project) {
	c.do(func() { c.selectProject(p) })
}

// SelectProjectBySlug looks the project up in the current content.
func (c *Controller) SelectProjectBySlug(slug string) error {
	var err error

	c.do(func() {
		var p domain.Project
		if p, err = c.site.ProjectBySlug(slug); err == nil {
			c.selectProject(p)
		}
	})

	return err
}

// CloseProject closes the project overlay and keeps the selection.
func (c *Controller) CloseProject() {
	c.do(func() { c.state.ProjectModalOpen = false })
}

// SelectCaseStudy shows cs in the case study overlay.
func (c *Controller) SelectCaseStudy(cs domain.CaseStudy) {
	c.do(func() { c.selectCaseStudy(cs) })
}

// SelectCaseStudyBySlug looks the case study up in the current content.
func (c *Controller) SelectCaseStudyBySlug(slug string) error {
	var err error

	c.do(func() {
		var cs domain.CaseStudy
		if cs, err = c.site.CaseStudyBySlug(slug); err == nil {
			c.selectCaseStudy(cs)
		}
	})

	return err
}

// CloseCaseStudy closes the case study overlay and keeps the selection.
func (c *Controller) CloseCaseStudy() {
	c.do(func() { c.state.CaseStudyModalOpen = false })
}

// OpenCertificate opens the certificate viewer in the hero.
func (c *Controller) OpenCertificate() {
	c.do(func() { c.certificateOpen = true })
}

// CloseCertificate closes the certificate viewer.
func (c *Controller) CloseCertificate() {
	c.do(func() { c.certificateOpen = false })
}

// CertificateError reports that the embedded certificate failed to load.
func (c *Controller) CertificateError() {
	c.do(c.certificate.ReportError)
}

// CertificateRetry retries a failed certificate load.
func (c *Controller) CertificateRetry() {
	c.do(c.certificate.Retry)
}

// HeroClick selects the project the hero is showing.
func (c *Controller) HeroClick() {
	c.do(func() { c.carousel.Click(c.selectProject) })
}

// KeyDown delivers a keydown to the window listeners.
func (c *Controller) KeyDown(key string) {
	c.do(func() { c.win.Keydown.Dispatch(events.KeyEvent{Key: key}) })
}

// Scroll delivers a window scroll position.
func (c *Controller) Scroll(y float64) {
	c.do(func() { c.win.Scroll.Dispatch(events.ScrollEvent{Y: y}) })
}

// Click delivers a click inside the named overlay.
func (c *Controller) Click(name ModalName, target modal.Target) {
	c.do(func() {
		switch name {
		case ModalLeadMagnet:
			c.leadMagnet.Click(target)
		case ModalCalendly:
			c.scheduling.Click(target)
		case ModalProject:
			c.project.Click(target)
		case ModalCaseStudy:
			c.caseStudy.Click(target)
		case ModalCertificate:
			c.certificate.Click(target)
		}
	})
}

// ToggleMenu opens or closes the mobile menu.
func (c *Controller) ToggleMenu() {
	c.do(c.header.ToggleMenu)
}

// Navigate records that a header link was followed.
func (c *Controller) Navigate() {
	c.do(c.header.Navigate)
}

// DismissBanner hides the sticky banner.
func (c *Controller) DismissBanner() {
	c.do(c.banner.Dismiss)
}

// MeasureMarquee records the proof strip width measured by the client.
func (c *Controller) MeasureMarquee(width float64) {
	c.do(func() { c.marquee.Measure(width) })
}

// SubmitLead sends the lead form identified by source. The submitter runs
// outside the loop so timers and other events keep flowing while it
// works; its outcome lands in the form state.
func (c *Controller) SubmitLead(ctx context.Context, source, email string) (*domain.Lead, error) {
	var (
		magnet  domain.LeadMagnetType
		begun   bool
		mounted bool
	)

	c.loop.Run(func() {
		mounted = c.mounted
		if !mounted {
			return
		}

		if source == domain.SourceFooter {
			if c.footerForm.Status == modal.FormSubmitting {
				return
			}

			c.footerForm = modal.FormState{Status: modal.FormSubmitting, Email: email}
			magnet, begun = domain.MagnetChecklist, true
		} else {
			magnet = c.leadMagnet.Magnet().Type
			begun = c.leadMagnet.BeginSubmit(email)
		}

		if begun {
			c.changed()
		}
	})

	if !mounted {
		return nil, ErrNotMounted
	}

	if !begun {
		return nil, ErrSubmitRejected
	}

	var (
		lead *domain.Lead
		err  error
	)

	if c.submitter == nil {
		err = domain.NewUnavailableError("lead-capture", "not configured")
	} else {
		lead, err = c.submitter.SubmitLead(ctx, email, magnet, source)
	}

	if err != nil {
		c.logger.WarnContext(ctx, "lead submission failed", slog.String("source", source), slog.Any("error", err))
	}

	c.loop.Run(func() {
		if !c.mounted {
			return
		}

		if source == domain.SourceFooter {
			c.footerForm = footerOutcome(email, err)
		} else {
			c.leadMagnet.FinishSubmit(err)
		}

		c.changed()
	})

	return lead, err
}

func footerOutcome(email string, err error) modal.FormState {
	if err != nil {
		return modal.FormState{Status: modal.FormFailed, Email: email, Message: modal.SubmitMessage(err)}
	}

	return modal.FormState{Status: modal.FormSucceeded, Email: email}
}

// State returns a copy of the transient state.
func (c *Controller) State() State {
	var s State
	c.loop.Run(func() { s = c.state })

	return s
}

// Snapshot renders the current frame.
func (c *Controller) Snapshot() Frame {
	var f Frame
	c.loop.Run(func() { f = c.frame() })

	return f
}

func (c *Controller) frame() Frame {
	f := Frame{
		Version: c.version,
		State: StateView{
			LeadMagnetOpen:     c.state.LeadMagnetOpen,
			CalendlyOpen:       c.state.CalendlyOpen,
			ProjectModalOpen:   c.state.ProjectModalOpen,
			CaseStudyModalOpen: c.state.CaseStudyModalOpen,
			CertificateOpen:    c.certificateOpen,
		},
		ScrollLocked:  c.doc.ScrollLocked(),
		Header:        c.header.View(c.site),
		BannerVisible: c.cfg.ShowBanner && c.banner.Visible(),
		Hero:          view.Hero(c.site, c.carousel, c.viewOpts),
		MarqueeOffset: c.marquee.Offset(),
		Overlays: Overlays{
			LeadMagnet:  c.leadMagnet.View(),
			Scheduling:  c.scheduling.View(),
			Project:     c.project.View(),
			CaseStudy:   c.caseStudy.View(),
			Certificate: c.certificate.View(),
		},
		FooterForm: c.footerForm,
	}

	if c.state.SelectedProject != nil {
		f.State.SelectedProject = c.state.SelectedProject.Slug()
	}

	if c.state.SelectedCaseStudy != nil {
		f.State.SelectedCaseStudy = c.state.SelectedCaseStudy.Slug()
	}

	return f
}

// Page renders the content-derived part of the page.
func (c *Controller) Page() Page {
	var p Page

	c.loop.Run(func() {
		site := c.site
		p = Page{
			Head:        c.head(),
			Ventures:    view.Ventures(site, c.viewOpts),
			Projects:    view.Projects(site),
			CaseStudies: view.CaseStudies(site),
			Timeline:    view.Timeline(site),
			SocialProof: c.marquee.Items(),
			Social:      view.SocialStrip(site),
			Footer:      view.NewFooter(site, c.viewOpts),
			LeadMagnet:  site.LeadMagnet,
		}
	})

	return p
}

func (c *Controller) head() Head {
	h := Head{
		Title:          c.doc.Title(),
		Meta:           c.doc.Meta(),
		Links:          c.doc.Links(),
		ScrollBehavior: c.doc.ScrollBehavior(),
	}

	if scripts := c.doc.Scripts(page.StructuredDataType); len(scripts) > 0 {
		h.StructuredData = scripts[0].Body
	}

	return h
}

func sameProof(a, b []domain.SocialProofEntry) bool {
	if len(a) != len(b) {
		return false
	}

	return len(a) == 0 || &a[0] == &b[0]
}
