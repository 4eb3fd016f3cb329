package modal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/domain/domaintest"
	"github.com/jsamuelsen/marketing-site/internal/ui/events"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
	"github.com/jsamuelsen/marketing-site/internal/ui/schedule"
)

type fixture struct {
	doc *page.Document
	win *events.Window
}

func newFixture() fixture {
	return fixture{doc: page.NewDocument(), win: events.NewWindow()}
}

func TestShell_OpenLocksAndListens(t *testing.T) {
	f := newFixture()
	var closes int
	var s *Shell
	s = NewShell(f.doc, f.win, func() {
		closes++
		s.SetOpen(false)
	})

	s.SetOpen(true)
	s.SetOpen(true)
	assert.True(t, f.doc.ScrollLocked())
	assert.Equal(t, 1, f.doc.ScrollLocks())
	assert.Equal(t, 1, f.win.Keydown.Len())

	f.win.Keydown.Dispatch(events.KeyEvent{Key: "Enter"})
	assert.Equal(t, 0, closes)

	f.win.Keydown.Dispatch(events.KeyEvent{Key: events.KeyEscape})
	assert.Equal(t, 1, closes)
	assert.False(t, s.IsOpen())
	assert.False(t, f.doc.ScrollLocked())
	assert.Equal(t, 0, f.win.Keydown.Len())

	f.win.Keydown.Dispatch(events.KeyEvent{Key: events.KeyEscape})
	assert.Equal(t, 1, closes, "no listener once closed")
}

func TestShell_BackdropVersusBody(t *testing.T) {
	f := newFixture()
	var closes int
	s := NewShell(f.doc, f.win, func() { closes++ })

	s.Click(TargetBackdrop)
	assert.Equal(t, 0, closes, "closed shell ignores clicks")

	s.SetOpen(true)
	s.Click(TargetBody)
	assert.Equal(t, 0, closes)

	s.Click(TargetBackdrop)
	assert.Equal(t, 1, closes)
}

func TestShell_UnmountWhileOpenReleases(t *testing.T) {
	f := newFixture()
	s := NewShell(f.doc, f.win, nil)
	s.SetOpen(true)

	s.Unmount()

	assert.False(t, f.doc.ScrollLocked())
	assert.Equal(t, 0, f.win.Listeners())
	assert.False(t, s.IsOpen())
}

func TestShell_TwoOverlaysShareTheLock(t *testing.T) {
	f := newFixture()
	a := NewShell(f.doc, f.win, nil)
	b := NewShell(f.doc, f.win, nil)

	a.SetOpen(true)
	b.SetOpen(true)
	a.SetOpen(false)
	assert.True(t, f.doc.ScrollLocked(), "b is still open")

	b.SetOpen(false)
	assert.False(t, f.doc.ScrollLocked())
}

func TestProject_NilPayloadRendersNothing(t *testing.T) {
	f := newFixture()
	m := NewProject(f.doc, f.win, nil)

	m.SetOpen(true)
	assert.Nil(t, m.View())

	p := domaintest.Projects()[0]
	m.SetPayload(&p)
	v := m.View()
	require.NotNil(t, v)
	assert.Equal(t, "Lead Radar", v.Name)
	assert.Equal(t, "L", v.Initial)
	assert.Len(t, v.Technologies, 5, "the overlay lists every technology")

	m.SetOpen(false)
	assert.Nil(t, m.View())
}

func TestProject_OptionalRegionsHidden(t *testing.T) {
	f := newFixture()
	m := NewProject(f.doc, f.win, nil)
	p := domaintest.Projects()[2]
	m.SetPayload(&p)
	m.SetOpen(true)

	v := m.View()
	require.NotNil(t, v)
	assert.Nil(t, v.KeyFeatures)
	assert.Nil(t, v.Technologies)
	assert.Nil(t, v.Tags)
	assert.Empty(t, v.HostedURL)
	assert.Empty(t, v.GithubURL)
	assert.Empty(t, v.Image)
}

func TestCaseStudy_View(t *testing.T) {
	f := newFixture()
	m := NewCaseStudy(f.doc, f.win, nil)
	m.SetOpen(true)
	assert.Nil(t, m.View())

	c := domaintest.CaseStudies()[0]
	m.SetPayload(&c)

	v := m.View()
	require.NotNil(t, v)
	assert.Equal(t, "Loom & Co", v.Company)
	assert.Len(t, v.Outcomes, 5)
}

func TestScheduling_View(t *testing.T) {
	f := newFixture()
	m := NewScheduling(f.doc, f.win, "https://calendly.com/ada", nil)
	assert.Nil(t, m.View())

	m.SetOpen(true)
	assert.Equal(t, &SchedulingView{Title: "Book Strategy Call", URL: "https://calendly.com/ada"}, m.View())
}

func newCertificate(f fixture, sched schedule.Scheduler) *Certificate {
	return NewCertificate(f.doc, f.win, sched, CertificateConfig{URL: "/cert.pdf", Filename: "cert.pdf"}, nil, nil)
}

func TestCertificate_LoadingOnlyOnFirstOpen(t *testing.T) {
	f := newFixture()
	sched := schedule.NewVirtual(nil)
	m := newCertificate(f, sched)

	m.SetOpen(true)
	require.NotNil(t, m.View())
	assert.True(t, m.View().Loading)

	sched.Advance(1499 * time.Millisecond)
	assert.True(t, m.Loading())
	sched.Advance(time.Millisecond)
	assert.False(t, m.Loading())

	m.SetOpen(false)
	m.SetOpen(true)
	assert.False(t, m.View().Loading, "loader must not return within the same mount")
	assert.Equal(t, 0, sched.Pending())
}

func TestCertificate_CloseDuringLoadingSkipsLoaderOnReopen(t *testing.T) {
	f := newFixture()
	sched := schedule.NewVirtual(nil)
	m := newCertificate(f, sched)

	m.SetOpen(true)
	sched.Advance(500 * time.Millisecond)
	require.True(t, m.Loading())

	m.SetOpen(false)
	assert.False(t, m.Loading())
	assert.Equal(t, 0, sched.Pending())

	m.SetOpen(true)
	require.NotNil(t, m.View())
	assert.False(t, m.View().Loading, "loader must not return within the same mount")
	assert.Equal(t, 0, sched.Pending())
}

func TestCertificate_UnmountResetsLoader(t *testing.T) {
	f := newFixture()
	sched := schedule.NewVirtual(nil)
	m := newCertificate(f, sched)

	m.SetOpen(true)
	sched.Advance(2 * time.Second)
	m.Unmount()
	assert.False(t, f.doc.ScrollLocked())

	m.SetOpen(true)
	assert.True(t, m.Loading())

	m.Unmount()
	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, 0, f.win.Listeners())
}

func TestCertificate_ErrorAndRetry(t *testing.T) {
	f := newFixture()
	sched := schedule.NewVirtual(nil)
	m := newCertificate(f, sched)

	m.SetOpen(true)
	m.ReportError()

	v := m.View()
	require.NotNil(t, v)
	assert.True(t, v.Failed)
	assert.False(t, v.Loading)
	assert.Equal(t, "/cert.pdf", v.URL)
	assert.Equal(t, "cert.pdf", v.DownloadName)
	assert.Equal(t, 0, sched.Pending())

	m.Retry()
	assert.False(t, m.View().Failed)
	assert.True(t, m.Loading())
	sched.Advance(1500 * time.Millisecond)
	assert.False(t, m.Loading())
}

func TestLeadMagnet_FormLifecycle(t *testing.T) {
	f := newFixture()
	m := NewLeadMagnet(f.doc, f.win, domaintest.Site().LeadMagnet, nil)
	assert.Nil(t, m.View())

	m.SetOpen(true)
	v := m.View()
	require.NotNil(t, v)
	assert.True(t, v.CollectsEmail)
	assert.Equal(t, "checklist", v.Type)

	require.True(t, m.BeginSubmit("bob@example.com"))
	assert.False(t, m.BeginSubmit("bob@example.com"), "one submission at a time")

	m.FinishSubmit(domain.NewValidationError("email", "invalid"))
	assert.Equal(t, FormFailed, m.Form().Status)
	assert.Equal(t, "Please enter a valid email address.", m.Form().Message)

	require.True(t, m.BeginSubmit("bob@example.com"))
	m.FinishSubmit(nil)
	assert.Equal(t, FormSucceeded, m.Form().Status)

	m.SetOpen(false)
	m.SetOpen(true)
	assert.Equal(t, FormIdle, m.Form().Status)
}

func TestLeadMagnet_CallTypeHasNoForm(t *testing.T) {
	f := newFixture()
	m := NewLeadMagnet(f.doc, f.win, domain.LeadMagnet{Title: "Book a call", Type: domain.MagnetCall}, nil)
	m.SetOpen(true)

	assert.False(t, m.View().CollectsEmail)
	assert.False(t, m.BeginSubmit("a@b.co"))
}

func TestLeadMagnet_SubmitMessages(t *testing.T) {
	assert.Equal(t, "You're already on the list.", SubmitMessage(domain.NewConflictError("lead", "dup")))
	assert.Equal(t, "Something went wrong. Please try again.", SubmitMessage(errors.New("boom")))
}
