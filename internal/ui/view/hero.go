package view

import "github.com/jsamuelsen/marketing-site/internal/domain"

// HeroView is the rendered hero section.
type HeroView struct {
	Name       string       `json:"name"`
	Tagline    string       `json:"tagline"`
	Photo      string       `json:"photo"`
	Businesses []Venture    `json:"businesses"`
	Featured   *ProjectCard `json:"featured,omitempty"`
	Index      int          `json:"index"`
	Total      int          `json:"total"`
}

// Hero renders the hero with the carousel's current project. Featured is
// nil when there are no projects.
func Hero(site *domain.Site, carousel *Carousel, opts Options) HeroView {
	h := HeroView{
		Name:       site.Personal.Name,
		Tagline:    site.Personal.Tagline,
		Photo:      site.Personal.Photo,
		Businesses: Ventures(site, opts),
		Total:      len(site.Projects),
	}

	if carousel == nil {
		if len(site.Projects) > 0 {
			card := NewProjectCard(site.Projects[0])
			h.Featured = &card
		}

		return h
	}

	if p, ok := carousel.Current(); ok {
		card := NewProjectCard(p)
		h.Featured = &card
		h.Index = carousel.Index()
	}

	return h
}
