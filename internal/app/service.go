// Package app contains the application services behind the HTTP surface:
// content lookups, lead capture and the favicon proxy. Services depend on
// port interfaces, never on concrete adapters.
package app

import (
	"context"
	"log/slog"
	"slices"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/platform/logging"
	"github.com/jsamuelsen/marketing-site/internal/ports"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
)

// SiteService answers read queries against the current content snapshot.
// Every call reads the snapshot once, so a concurrent reload never mixes
// two versions in one answer.
type SiteService struct {
	source ports.SiteSource
	origin string
	logger *slog.Logger
}

// SiteServiceConfig holds optional configuration for the service.
type SiteServiceConfig struct {
	// Origin is the public site URL used in structured data.
	Origin string
	Logger *slog.Logger
}

// NewSiteService creates a site service over source.
func NewSiteService(source ports.SiteSource, cfg *SiteServiceConfig) *SiteService {
	s := &SiteService{source: source, logger: slog.Default()}
	if cfg != nil {
		s.origin = cfg.Origin
		if cfg.Logger != nil {
			s.logger = cfg.Logger
		}
	}
	s.logger = s.logger.With(slog.String("component", "app.SiteService"))

	return s
}

// Site returns the current snapshot.
func (s *SiteService) Site() *domain.Site {
	return s.source.Current()
}

// Origin returns the public site URL.
func (s *SiteService) Origin() string {
	return s.origin
}

// Projects returns the projects of the current snapshot; nil when the
// section is hidden.
func (s *SiteService) Projects() []domain.Project {
	return s.source.Current().Projects
}

// Project looks a project up by slug.
// Returns domain.ErrNotFound for an unknown slug.
func (s *SiteService) Project(ctx context.Context, slug string) (domain.Project, error) {
	p, err := s.source.Current().ProjectBySlug(slug)
	if err != nil {
		logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "project lookup missed", slog.String("slug", slug))
	}

	return p, err
}

// CaseStudies returns the case studies of the current snapshot.
func (s *SiteService) CaseStudies() []domain.CaseStudy {
	return s.source.Current().CaseStudies
}

// CaseStudy looks a case study up by slug.
// Returns domain.ErrNotFound for an unknown slug.
func (s *SiteService) CaseStudy(ctx context.Context, slug string) (domain.CaseStudy, error) {
	cs, err := s.source.Current().CaseStudyBySlug(slug)
	if err != nil {
		logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "case study lookup missed", slog.String("slug", slug))
	}

	return cs, err
}

// StructuredData returns the JSON-LD Person graph for the current snapshot.
func (s *SiteService) StructuredData() page.Person {
	return page.StructuredData(s.source.Current(), s.origin)
}

// IconHosts lists every hostname the page shows an icon for: businesses,
// social links and the guessed social proof domains. Duplicates are
// dropped and first-seen order is kept.
func (s *SiteService) IconHosts() []string {
	site := s.source.Current()

	hosts := site.BusinessHosts()
	for _, l := range site.SocialLinks {
		hosts = append(hosts, domain.Hostname(l.URL))
	}
	for _, e := range site.SocialProof {
		hosts = append(hosts, domain.ProofDomain(e.Name))
	}

	seen := make(map[string]struct{}, len(hosts))

	return slices.DeleteFunc(hosts, func(h string) bool {
		if _, dup := seen[h]; dup || h == "" {
			return true
		}
		seen[h] = struct{}{}
		return false
	})
}
