package view

import (
	"time"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ui/schedule"
)

// DefaultCarouselInterval is how long the hero shows each project.
const DefaultCarouselInterval = 5 * time.Second

// Carousel rotates the hero's featured project. It owns at most one
// repeating task, which exists only while mounted with a non-empty list.
// All methods must run inside the schedule.Loop.
type Carousel struct {
	sched    schedule.Scheduler
	interval time.Duration
	onChange func()

	projects []domain.Project
	index    int
	mounted  bool
	task     schedule.Task
}

// NewCarousel creates an unmounted carousel. onChange runs after every
// automatic advance.
func NewCarousel(sched schedule.Scheduler, interval time.Duration, onChange func()) *Carousel {
	if interval <= 0 {
		interval = DefaultCarouselInterval
	}

	if onChange == nil {
		onChange = func() {}
	}

	return &Carousel{sched: sched, interval: interval, onChange: onChange}
}

// Mount shows projects and starts rotating.
func (c *Carousel) Mount(projects []domain.Project) {
	if c.mounted {
		c.SetProjects(projects)
		return
	}

	c.mounted = true
	c.projects = projects
	c.index = 0
	c.start()
}

// SetProjects swaps the list. The timer restarts, and the index resets,
// only when the list identity changes; passing the same slice again is a
// no-op.
func (c *Carousel) SetProjects(projects []domain.Project) {
	if sameProjects(c.projects, projects) {
		return
	}

	c.projects = projects
	c.index = 0
	if c.mounted {
		c.stop()
		c.start()
	}
}

// Unmount cancels the timer.
func (c *Carousel) Unmount() {
	c.stop()
	c.mounted = false
}

func (c *Carousel) start() {
	if len(c.projects) == 0 {
		return
	}

	c.task = c.sched.Every(c.interval, c.advance)
}

func (c *Carousel) stop() {
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}

func (c *Carousel) advance() {
	if len(c.projects) == 0 {
		return
	}

	c.index = (c.index + 1) % len(c.projects)
	c.onChange()
}

// Running reports whether the rotation timer is live.
func (c *Carousel) Running() bool {
	return c.task != nil
}

// Index returns the displayed position.
func (c *Carousel) Index() int {
	return c.index
}

// Current returns the displayed project.
func (c *Carousel) Current() (domain.Project, bool) {
	if len(c.projects) == 0 {
		return domain.Project{}, false
	}

	return c.projects[c.index], true
}

// Click hands the displayed project, not the first one, to selectProject.
func (c *Carousel) Click(selectProject func(domain.Project)) {
	if p, ok := c.Current(); ok {
		selectProject(p)
	}
}

// sameProjects compares slice identity: same backing array and length.
func sameProjects(a, b []domain.Project) bool {
	if len(a) != len(b) {
		return false
	}

	return len(a) == 0 || &a[0] == &b[0]
}
