package view

import (
	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ui/events"
)

// scrolledThreshold is the scroll depth after which the header turns solid.
const scrolledThreshold = 20

// NavItem is a header link to a page section.
type NavItem struct {
	Label  string `json:"label"`
	Anchor string `json:"anchor"`
}

// NavItems returns the header navigation in display order.
func NavItems() []NavItem {
	return []NavItem{
		{Label: "Projects", Anchor: "projects"},
		{Label: "Services", Anchor: "ventures"},
		{Label: "Case Studies", Anchor: "case-studies"},
		{Label: "About", Anchor: "about"},
	}
}

// HeaderView is the rendered header.
type HeaderView struct {
	Nav      []NavItem `json:"nav"`
	BlogURL  string    `json:"blogUrl,omitempty"`
	Scrolled bool      `json:"scrolled"`
	MenuOpen bool      `json:"menuOpen"`
}

// Header tracks the header's scroll styling and mobile menu. While mounted
// it holds one scroll listener on the window.
type Header struct {
	scrolled     bool
	menuOpen     bool
	removeScroll func()
	onChange     func()
}

// NewHeader creates an unmounted header.
func NewHeader(onChange func()) *Header {
	if onChange == nil {
		onChange = func() {}
	}

	return &Header{onChange: onChange}
}

// Mount attaches the scroll listener.
func (h *Header) Mount(w *events.Window) {
	if h.removeScroll != nil {
		return
	}

	h.removeScroll = w.Scroll.Add(func(ev events.ScrollEvent) {
		scrolled := ev.Y > scrolledThreshold
		if scrolled != h.scrolled {
			h.scrolled = scrolled
			h.onChange()
		}
	})
}

// Unmount detaches the scroll listener and returns the header to its
// top-of-page state.
func (h *Header) Unmount() {
	if h.removeScroll != nil {
		h.removeScroll()
		h.removeScroll = nil
	}

	h.scrolled = false
	h.menuOpen = false
}

// ToggleMenu opens or closes the mobile menu.
func (h *Header) ToggleMenu() {
	h.menuOpen = !h.menuOpen
}

// Navigate closes the mobile menu after a section link was followed.
func (h *Header) Navigate() {
	h.menuOpen = false
}

// View renders the header for site.
func (h *Header) View(site *domain.Site) HeaderView {
	return HeaderView{
		Nav:      NavItems(),
		BlogURL:  site.BlogURL,
		Scrolled: h.scrolled,
		MenuOpen: h.menuOpen,
	}
}

// Banner is the dismissible lead magnet banner at the top of the page.
type Banner struct {
	dismissed bool
}

// Dismiss hides the banner for the rest of the mount.
func (b *Banner) Dismiss() {
	b.dismissed = true
}

// Reset shows the banner again.
func (b *Banner) Reset() {
	b.dismissed = false
}

// Visible reports whether the banner is shown.
func (b *Banner) Visible() bool {
	return !b.dismissed
}
