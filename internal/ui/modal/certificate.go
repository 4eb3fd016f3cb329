package modal

import (
	"time"

	"github.com/jsamuelsen/marketing-site/internal/ui/events"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
	"github.com/jsamuelsen/marketing-site/internal/ui/schedule"
)

// DefaultCertificateLoading is how long the loader shows on first open.
const DefaultCertificateLoading = 1500 * time.Millisecond

// CertificateConfig describes the embedded document.
type CertificateConfig struct {
	URL      string
	Filename string
	Loading  time.Duration
}

// CertificateView is the rendered certificate viewer.
type CertificateView struct {
	URL          string `json:"url"`
	Loading      bool   `json:"loading"`
	Failed       bool   `json:"failed"`
	DownloadName string `json:"downloadName"`
}

// Certificate shows an embedded PDF. The first open in a mount shows a
// loader for a fixed time; later opens show the document straight away.
// A load failure switches to an explicit unable-to-display state offering
// retry, open in new tab and download.
type Certificate struct {
	*Shell
	sched    schedule.Scheduler
	cfg      CertificateConfig
	onChange func()

	loading bool
	shown   bool // the first-open loader has started in this mount
	failed  bool
	task    schedule.Task
}

// NewCertificate creates a closed certificate viewer.
func NewCertificate(doc *page.Document, win *events.Window, sched schedule.Scheduler, cfg CertificateConfig, onRequestClose, onChange func()) *Certificate {
	if cfg.Loading <= 0 {
		cfg.Loading = DefaultCertificateLoading
	}

	if onChange == nil {
		onChange = func() {}
	}

	return &Certificate{
		Shell:    NewShell(doc, win, onRequestClose),
		sched:    sched,
		cfg:      cfg,
		onChange: onChange,
	}
}

// SetOpen opens or closes the viewer. Only the first open in a mount
// shows the loader; closing it early reveals the document on the next open.
func (m *Certificate) SetOpen(open bool) {
	was := m.IsOpen()
	m.Shell.SetOpen(open)

	switch {
	case open && !was && !m.shown && !m.failed:
		m.beginLoading()
	case !open && was:
		m.cancel()
		m.loading = false
	}
}

func (m *Certificate) beginLoading() {
	m.cancel()
	m.shown = true
	m.loading = true
	m.task = m.sched.After(m.cfg.Loading, func() {
		m.task = nil
		m.loading = false
		m.onChange()
	})
}

func (m *Certificate) cancel() {
	if m.task != nil {
		m.task.Cancel()
		m.task = nil
	}
}

// ReportError records that the embedded document failed to load.
func (m *Certificate) ReportError() {
	m.cancel()
	m.loading = false
	m.failed = true
}

// Retry clears a failure and loads again.
func (m *Certificate) Retry() {
	if !m.failed {
		return
	}

	m.failed = false
	if m.IsOpen() {
		m.beginLoading()
	}
}

// Loading reports whether the loader is showing.
func (m *Certificate) Loading() bool {
	return m.loading
}

// Unmount closes the viewer and forgets that it ever loaded.
func (m *Certificate) Unmount() {
	m.cancel()
	m.Shell.Unmount()
	m.loading = false
	m.shown = false
	m.failed = false
}

// View renders the viewer, or nil when closed.
func (m *Certificate) View() *CertificateView {
	if !m.IsOpen() {
		return nil
	}

	return &CertificateView{
		URL:          m.cfg.URL,
		Loading:      m.loading,
		Failed:       m.failed,
		DownloadName: m.cfg.Filename,
	}
}
