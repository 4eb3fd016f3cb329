package modal

import (
	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ui/events"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
)

// FormStatus is the state of the lead capture form.
type FormStatus string

// Form states.
const (
	FormIdle       FormStatus = "idle"
	FormSubmitting FormStatus = "submitting"
	FormSucceeded  FormStatus = "succeeded"
	FormFailed     FormStatus = "failed"
)

// FormState is what the lead form shows.
type FormState struct {
	Status  FormStatus `json:"status"`
	Email   string     `json:"email,omitempty"`
	Message string     `json:"message,omitempty"`
}

// LeadMagnetView is the rendered lead capture overlay.
type LeadMagnetView struct {
	Title         string    `json:"title"`
	Tagline       string    `json:"tagline,omitempty"`
	Description   string    `json:"description"`
	CTA           string    `json:"cta"`
	Type          string    `json:"type"`
	CollectsEmail bool      `json:"collectsEmail"`
	Form          FormState `json:"form"`
}

// LeadMagnet is the lead capture overlay. Email-based magnets show a form;
// the call magnet offers to open the booking overlay instead.
type LeadMagnet struct {
	*Shell
	magnet domain.LeadMagnet
	form   FormState
}

// NewLeadMagnet creates a closed lead capture overlay.
func NewLeadMagnet(doc *page.Document, win *events.Window, magnet domain.LeadMagnet, onRequestClose func()) *LeadMagnet {
	return &LeadMagnet{
		Shell:  NewShell(doc, win, onRequestClose),
		magnet: magnet,
		form:   FormState{Status: FormIdle},
	}
}

// SetMagnet replaces the offer, for example after a content reload.
func (m *LeadMagnet) SetMagnet(magnet domain.LeadMagnet) {
	m.magnet = magnet
}

// Magnet returns the current offer.
func (m *LeadMagnet) Magnet() domain.LeadMagnet {
	return m.magnet
}

// SetOpen opens or closes the overlay. A finished form is cleared when the
// overlay is opened again.
func (m *LeadMagnet) SetOpen(open bool) {
	if open && !m.IsOpen() && m.form.Status != FormSubmitting {
		m.form = FormState{Status: FormIdle}
	}

	m.Shell.SetOpen(open)
}

// BeginSubmit marks the form as submitting. It returns false when a
// submission is already in flight or the magnet does not collect email.
func (m *LeadMagnet) BeginSubmit(email string) bool {
	if m.form.Status == FormSubmitting || !m.magnet.Type.CollectsEmail() {
		return false
	}

	m.form = FormState{Status: FormSubmitting, Email: email}

	return true
}

// FinishSubmit records the outcome of the submission.
func (m *LeadMagnet) FinishSubmit(err error) {
	if err != nil {
		m.form = FormState{Status: FormFailed, Email: m.form.Email, Message: SubmitMessage(err)}
		return
	}

	m.form = FormState{Status: FormSucceeded, Email: m.form.Email}
}

// Form returns the form state.
func (m *LeadMagnet) Form() FormState {
	return m.form
}

// Unmount closes the overlay and clears the form.
func (m *LeadMagnet) Unmount() {
	m.Shell.Unmount()
	m.form = FormState{Status: FormIdle}
}

// View renders the overlay, or nil when closed.
func (m *LeadMagnet) View() *LeadMagnetView {
	if !m.IsOpen() {
		return nil
	}

	return &LeadMagnetView{
		Title:         m.magnet.Title,
		Tagline:       m.magnet.Tagline,
		Description:   m.magnet.Description,
		CTA:           m.magnet.CTA,
		Type:          m.magnet.Type.String(),
		CollectsEmail: m.magnet.Type.CollectsEmail(),
		Form:          m.form,
	}
}

// SubmitMessage is the form message shown for a failed submission.
func SubmitMessage(err error) string {
	switch {
	case domain.IsValidation(err):
		return "Please enter a valid email address."
	case domain.IsConflict(err):
		return "You're already on the list."
	default:
		return "Something went wrong. Please try again."
	}
}
