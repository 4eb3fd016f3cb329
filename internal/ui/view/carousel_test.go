package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/domain/domaintest"
	"github.com/jsamuelsen/marketing-site/internal/ui/schedule"
)

func TestCarousel_FullCycleShowsEachProjectOnce(t *testing.T) {
	for n := 1; n <= 3; n++ {
		projects := domaintest.Projects()[:n]
		sched := schedule.NewVirtual(nil)
		c := NewCarousel(sched, 0, nil)
		c.Mount(projects)

		start := c.Index()
		var shown []string
		for range n {
			p, ok := c.Current()
			require.True(t, ok)
			shown = append(shown, p.Name)
			sched.Advance(5000 * time.Millisecond)
		}

		assert.Equal(t, start, c.Index(), "n=%d", n)

		var want []string
		for _, p := range projects {
			want = append(want, p.Name)
		}
		assert.Equal(t, want, shown, "n=%d", n)
	}
}

func TestCarousel_DoesNotAdvanceEarly(t *testing.T) {
	sched := schedule.NewVirtual(nil)
	var changes int
	c := NewCarousel(sched, 5*time.Second, func() { changes++ })
	c.Mount(domaintest.Projects())

	sched.Advance(4999 * time.Millisecond)
	assert.Equal(t, 0, c.Index())

	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, 1, changes)
}

func TestCarousel_EmptyHasNoTimer(t *testing.T) {
	sched := schedule.NewVirtual(nil)
	c := NewCarousel(sched, 0, nil)
	c.Mount(nil)

	assert.False(t, c.Running())
	assert.Equal(t, 0, sched.Pending())

	_, ok := c.Current()
	assert.False(t, ok)

	c.Click(func(domain.Project) { t.Fatal("click on empty carousel selected a project") })
}

func TestCarousel_UnmountCancelsTimer(t *testing.T) {
	sched := schedule.NewVirtual(nil)
	c := NewCarousel(sched, 0, nil)
	c.Mount(domaintest.Projects())
	require.Equal(t, 1, sched.Pending())

	c.Unmount()

	assert.Equal(t, 0, sched.Pending())
	sched.Advance(time.Minute)
	assert.Equal(t, 0, c.Index())
}

func TestCarousel_RestartsOnlyOnIdentityChange(t *testing.T) {
	sched := schedule.NewVirtual(nil)
	c := NewCarousel(sched, 0, nil)
	projects := domaintest.Projects()
	c.Mount(projects)

	sched.Advance(7 * time.Second)
	require.Equal(t, 1, c.Index())

	// Same slice: the running timer keeps its phase.
	c.SetProjects(projects)
	sched.Advance(3 * time.Second)
	assert.Equal(t, 2, c.Index())

	// New slice with equal contents: restart from the first project with a
	// fresh period.
	c.SetProjects(domaintest.Projects())
	assert.Equal(t, 0, c.Index())
	sched.Advance(4 * time.Second)
	assert.Equal(t, 0, c.Index())
	sched.Advance(time.Second)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, 1, sched.Pending())

	// Shrinking to empty stops the timer.
	c.SetProjects(nil)
	assert.False(t, c.Running())
	assert.Equal(t, 0, sched.Pending())
}

func TestCarousel_ClickSelectsDisplayedProject(t *testing.T) {
	sched := schedule.NewVirtual(nil)
	c := NewCarousel(sched, 0, nil)
	c.Mount(domaintest.Projects())
	sched.Advance(10 * time.Second)

	var selected domain.Project
	c.Click(func(p domain.Project) { selected = p })

	assert.Equal(t, "Note Engine", selected.Name)
}

func TestHero_UsesCarouselPosition(t *testing.T) {
	sched := schedule.NewVirtual(nil)
	site := domaintest.Site()
	c := NewCarousel(sched, 0, nil)
	c.Mount(site.Projects)
	sched.Advance(5 * time.Second)

	hero := Hero(site, c, Options{})

	require.NotNil(t, hero.Featured)
	assert.Equal(t, "Site Audit", hero.Featured.Name)
	assert.Equal(t, 1, hero.Index)
	assert.Equal(t, 3, hero.Total)
	assert.Len(t, hero.Businesses, 2)
}
