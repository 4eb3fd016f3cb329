package view

import (
	"strconv"
	"time"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ui/schedule"
)

// Marquee defaults.
const (
	DefaultMarqueeInterval  = 30 * time.Millisecond
	DefaultMarqueeStep      = 1.0
	DefaultMarqueeItemWidth = 320.0
)

// MarqueeConfig tunes the proof strip animation.
type MarqueeConfig struct {
	Interval  time.Duration
	Step      float64
	ItemWidth float64
	IconURL   func(raw string) string
}

// ProofItem is one tile of the proof strip.
type ProofItem struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        Image  `json:"icon"`
}

// Marquee is the endlessly scrolling proof strip. The entries are rendered
// twice back to back; the offset creeps forward each tick and snaps to zero
// once the first copy has scrolled out, which reads as a seamless loop. An
// empty list renders nothing and never schedules a tick. All methods must
// run inside the schedule.Loop.
type Marquee struct {
	sched    schedule.Scheduler
	cfg      MarqueeConfig
	onChange func()

	entries  []domain.SocialProofEntry
	items    []ProofItem
	offset   float64
	measured float64
	task     schedule.Task
}

// NewMarquee creates an unmounted marquee.
func NewMarquee(sched schedule.Scheduler, cfg MarqueeConfig, onChange func()) *Marquee {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultMarqueeInterval
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultMarqueeStep
	}
	if cfg.ItemWidth <= 0 {
		cfg.ItemWidth = DefaultMarqueeItemWidth
	}
	if cfg.IconURL == nil {
		cfg.IconURL = func(raw string) string { return domain.FaviconURL("", raw) }
	}
	if onChange == nil {
		onChange = func() {}
	}

	return &Marquee{sched: sched, cfg: cfg, onChange: onChange}
}

// Mount renders entries and starts scrolling when there is anything to
// scroll.
func (m *Marquee) Mount(entries []domain.SocialProofEntry) {
	m.stop()
	m.entries = entries
	m.items = m.duplicate(entries)
	m.offset = 0
	m.measured = 0

	if len(entries) > 0 {
		m.task = m.sched.Every(m.cfg.Interval, m.Tick)
	}
}

// Unmount stops scrolling.
func (m *Marquee) Unmount() {
	m.stop()
}

func (m *Marquee) stop() {
	if m.task != nil {
		m.task.Cancel()
		m.task = nil
	}
}

func (m *Marquee) duplicate(entries []domain.SocialProofEntry) []ProofItem {
	if len(entries) == 0 {
		return nil
	}

	items := make([]ProofItem, 0, 2*len(entries))
	for copyIdx := range 2 {
		for i, e := range entries {
			items = append(items, ProofItem{
				Key:         e.Name + "-" + strconv.Itoa(copyIdx*len(entries)+i),
				Name:        e.Name,
				Description: e.Description,
				Icon: Image{
					Src:      m.cfg.IconURL(domain.ProofDomain(e.Name)),
					Fallback: e.Logo,
				},
			})
		}
	}

	return items
}

// Tick advances the offset one step, or wraps it to zero once it has
// reached half the scroll width.
func (m *Marquee) Tick() {
	if len(m.entries) == 0 {
		return
	}

	if m.offset >= m.ScrollWidth()/2 {
		m.offset = 0
	} else {
		m.offset += m.cfg.Step
	}

	m.onChange()
}

// ScrollTo moves the offset directly, as a user drag would.
func (m *Marquee) ScrollTo(offset float64) {
	if offset < 0 {
		offset = 0
	}

	m.offset = offset
}

// Measure records the scroll width reported by the client. Non-positive
// widths fall back to the estimate.
func (m *Marquee) Measure(width float64) {
	if width <= 0 {
		m.measured = 0
		return
	}

	m.measured = width
}

// ScrollWidth is the measured width, or the estimate from item count.
func (m *Marquee) ScrollWidth() float64 {
	if m.measured > 0 {
		return m.measured
	}

	return float64(len(m.items)) * m.cfg.ItemWidth
}

// Offset returns the current scroll offset.
func (m *Marquee) Offset() float64 {
	return m.offset
}

// Items returns the rendered tiles (two copies of the entries).
func (m *Marquee) Items() []ProofItem {
	return m.items
}

// Running reports whether the scroll timer is live.
func (m *Marquee) Running() bool {
	return m.task != nil
}
