package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/domain/domaintest"
	"github.com/jsamuelsen/marketing-site/internal/ui/events"
	"github.com/jsamuelsen/marketing-site/internal/ui/modal"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
	"github.com/jsamuelsen/marketing-site/internal/ui/schedule"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) SubmitLead(ctx context.Context, email string, magnet domain.LeadMagnetType, source string) (*domain.Lead, error) {
	args := m.Called(ctx, email, magnet, source)
	lead, _ := args.Get(0).(*domain.Lead)

	return lead, args.Error(1)
}

type harness struct {
	ctl   *Controller
	clock *schedule.Virtual
	sub   *mockSubmitter
}

func newHarness(t *testing.T, site *domain.Site) harness {
	t.Helper()

	loop := schedule.NewLoop()
	clock := schedule.NewVirtual(loop)
	sub := &mockSubmitter{}

	ctl := New(site, Deps{Loop: loop, Scheduler: clock, Submitter: sub}, Config{
		Origin:           "https://ada.example.com",
		CarouselInterval: 5 * time.Second,
		Certificate:      modal.CertificateConfig{URL: "/cert.pdf", Filename: "cert.pdf"},
		SchedulingURL:    "https://cal.example.com/ada",
		ShowBanner:       true,
	})
	require.NoError(t, ctl.Mount())
	t.Cleanup(ctl.Unmount)

	return harness{ctl: ctl, clock: clock, sub: sub}
}

func TestController_MountAppliesPageEffects(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	p := h.ctl.Page()
	assert.Equal(t, "Ada Lovelace | Fractional CTO", p.Head.Title)
	assert.NotEmpty(t, p.Head.StructuredData)
	assert.Equal(t, "smooth", p.Head.ScrollBehavior)
	assert.Len(t, p.SocialProof, 6)
	require.NotNil(t, p.Projects)

	f := h.ctl.Snapshot()
	assert.False(t, f.ScrollLocked)
	assert.True(t, f.BannerVisible)
	require.NotNil(t, f.Hero.Featured)
	assert.Equal(t, "Lead Radar", f.Hero.Featured.Name)
}

func TestController_RemountKeepsOneStructuredDataScript(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	h.ctl.Unmount()
	assert.Empty(t, h.ctl.Document().Scripts(page.StructuredDataType))

	require.NoError(t, h.ctl.Mount())
	require.NoError(t, h.ctl.Mount())
	assert.Len(t, h.ctl.Document().Scripts(page.StructuredDataType), 1)
}

func TestController_ScrollLockFollowsOpenOverlays(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	h.ctl.OpenLeadMagnet()
	h.ctl.OpenCalendly()
	assert.True(t, h.ctl.Snapshot().ScrollLocked)
	assert.Equal(t, 2, h.ctl.Document().ScrollLocks())

	h.ctl.CloseLeadMagnet()
	assert.True(t, h.ctl.Snapshot().ScrollLocked, "calendly still holds the lock")

	h.ctl.CloseCalendly()
	assert.False(t, h.ctl.Snapshot().ScrollLocked)
	assert.Empty(t, h.ctl.Document().BodyOverflow())
}

func TestController_EscapeClosesEveryOpenOverlay(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	h.ctl.KeyDown(events.KeyEscape)
	assert.Equal(t, State{}, h.ctl.State(), "escape with nothing open is a no-op")

	h.ctl.OpenLeadMagnet()
	h.ctl.OpenCalendly()
	require.NoError(t, h.ctl.SelectProjectBySlug("site-audit"))

	h.ctl.KeyDown("Enter")
	assert.True(t, h.ctl.State().CalendlyOpen)

	h.ctl.KeyDown(events.KeyEscape)
	s := h.ctl.State()
	assert.False(t, s.LeadMagnetOpen)
	assert.False(t, s.CalendlyOpen)
	assert.False(t, s.ProjectModalOpen)
	require.NotNil(t, s.SelectedProject, "selection survives close")
	assert.Equal(t, "Site Audit", s.SelectedProject.Name)
	assert.False(t, h.ctl.Snapshot().ScrollLocked)
}

func TestController_BackdropClosesOnlyItsOverlay(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	h.ctl.OpenLeadMagnet()
	h.ctl.OpenCalendly()

	h.ctl.Click(ModalCalendly, modal.TargetBody)
	assert.True(t, h.ctl.State().CalendlyOpen)

	h.ctl.Click(ModalCalendly, modal.TargetBackdrop)
	assert.False(t, h.ctl.State().CalendlyOpen)
	assert.True(t, h.ctl.State().LeadMagnetOpen)
}

func TestController_ReselectShowsNewProject(t *testing.T) {
	h := newHarness(t, domaintest.Site())
	projects := domaintest.Projects()

	h.ctl.SelectProject(projects[0])
	h.ctl.CloseProject()
	h.ctl.SelectProject(projects[1])

	f := h.ctl.Snapshot()
	require.NotNil(t, f.Overlays.Project)
	assert.Equal(t, projects[1].Name, f.Overlays.Project.Name)
	assert.Equal(t, projects[1].Slug(), f.State.SelectedProject)
	assert.True(t, f.State.ProjectModalOpen)
}

func TestController_SelectBySlugNotFound(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	err := h.ctl.SelectProjectBySlug("nope")
	assert.True(t, domain.IsNotFound(err))
	assert.False(t, h.ctl.State().ProjectModalOpen)

	err = h.ctl.SelectCaseStudyBySlug("nope")
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, h.ctl.SelectCaseStudyBySlug(domaintest.CaseStudies()[0].Slug()))
	f := h.ctl.Snapshot()
	require.NotNil(t, f.Overlays.CaseStudy)
	assert.Equal(t, domaintest.CaseStudies()[0].Title, f.Overlays.CaseStudy.Title)
}

func TestController_CarouselAndHeroClick(t *testing.T) {
	h := newHarness(t, domaintest.Site())
	var versions []uint64
	remove := h.ctl.OnChange(func(v uint64) { versions = append(versions, v) })
	defer remove()

	h.clock.Advance(5 * time.Second)
	f := h.ctl.Snapshot()
	assert.Equal(t, 1, f.Hero.Index)
	assert.NotEmpty(t, versions)

	h.ctl.HeroClick()
	s := h.ctl.State()
	assert.True(t, s.ProjectModalOpen)
	require.NotNil(t, s.SelectedProject)
	assert.Equal(t, "Site Audit", s.SelectedProject.Name)

	h.clock.Advance(10 * time.Second)
	assert.Equal(t, 0, h.ctl.Snapshot().Hero.Index, "wraps after the last project")
}

func TestController_ReloadRestartsCarouselOnNewProjects(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	h.clock.Advance(5 * time.Second)
	require.Equal(t, 1, h.ctl.Snapshot().Hero.Index)

	next := domaintest.Site()
	next.SEO.Title = "Ada | Engines"
	require.NoError(t, h.ctl.Reload(next))

	assert.Equal(t, 0, h.ctl.Snapshot().Hero.Index)
	assert.Equal(t, "Ada | Engines", h.ctl.Page().Head.Title)
	assert.Len(t, h.ctl.Document().Scripts(page.StructuredDataType), 1)
}

func TestController_CertificateLoader(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	h.ctl.OpenCertificate()
	cert := h.ctl.Snapshot().Overlays.Certificate
	require.NotNil(t, cert)
	assert.True(t, cert.Loading)

	h.clock.Advance(modal.DefaultCertificateLoading)
	assert.False(t, h.ctl.Snapshot().Overlays.Certificate.Loading)

	h.ctl.CertificateError()
	assert.True(t, h.ctl.Snapshot().Overlays.Certificate.Failed)

	h.ctl.CertificateRetry()
	cert = h.ctl.Snapshot().Overlays.Certificate
	assert.False(t, cert.Failed)
	assert.True(t, cert.Loading)

	h.ctl.KeyDown(events.KeyEscape)
	assert.Nil(t, h.ctl.Snapshot().Overlays.Certificate)
}

func TestController_HeaderAndBanner(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	h.ctl.Scroll(100)
	h.ctl.ToggleMenu()
	f := h.ctl.Snapshot()
	assert.True(t, f.Header.Scrolled)
	assert.True(t, f.Header.MenuOpen)

	h.ctl.Navigate()
	assert.False(t, h.ctl.Snapshot().Header.MenuOpen)

	h.ctl.DismissBanner()
	assert.False(t, h.ctl.Snapshot().BannerVisible)
}

func TestController_UnmountReleasesEverything(t *testing.T) {
	h := newHarness(t, domaintest.Site())

	h.ctl.OpenLeadMagnet()
	h.ctl.OpenCertificate()
	require.Positive(t, h.clock.Pending())

	h.ctl.Unmount()
	assert.Equal(t, 0, h.clock.Pending())
	assert.Equal(t, 0, h.ctl.Window().Listeners())
	assert.False(t, h.ctl.Document().ScrollLocked())
	assert.Equal(t, State{}, h.ctl.State())
	assert.False(t, h.ctl.Mounted())

	h.ctl.OpenLeadMagnet()
	assert.False(t, h.ctl.State().LeadMagnetOpen, "ignored while unmounted")
}

func TestController_SubmitLeadFromOverlay(t *testing.T) {
	h := newHarness(t, domaintest.Site())
	ctx := context.Background()
	lead := &domain.Lead{ID: "l-1", Email: "grace@example.com", Magnet: domain.MagnetChecklist, Source: domain.SourceModal}

	h.sub.On("SubmitLead", ctx, "grace@example.com", domain.MagnetChecklist, domain.SourceModal).
		Return(lead, nil).Once()

	h.ctl.OpenLeadMagnet()
	got, err := h.ctl.SubmitLead(ctx, domain.SourceModal, "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, lead, got)

	form := h.ctl.Snapshot().Overlays.LeadMagnet.Form
	assert.Equal(t, modal.FormSucceeded, form.Status)
	h.sub.AssertExpectations(t)
}

func TestController_SubmitLeadFromFooterFails(t *testing.T) {
	h := newHarness(t, domaintest.Site())
	ctx := context.Background()

	h.sub.On("SubmitLead", ctx, "dup@example.com", domain.MagnetChecklist, domain.SourceFooter).
		Return(nil, domain.NewConflictError("lead", "already subscribed")).Once()

	_, err := h.ctl.SubmitLead(ctx, domain.SourceFooter, "dup@example.com")
	require.Error(t, err)

	form := h.ctl.Snapshot().FooterForm
	assert.Equal(t, modal.FormFailed, form.Status)
	assert.Equal(t, "You're already on the list.", form.Message)
}

func TestController_SubmitLeadRequiresEmailMagnet(t *testing.T) {
	site := domaintest.Site()
	site.LeadMagnet.Type = domain.MagnetCall
	h := newHarness(t, site)

	_, err := h.ctl.SubmitLead(context.Background(), domain.SourceModal, "a@example.com")
	assert.ErrorIs(t, err, ErrSubmitRejected)
	h.sub.AssertNotCalled(t, "SubmitLead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
