package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/platform/logging"
	"github.com/jsamuelsen/marketing-site/internal/platform/telemetry"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

const (
	// DefaultLeadPageSize is used when a listing asks for no particular size.
	DefaultLeadPageSize = 50

	// MaxLeadPageSize caps a single listing page.
	MaxLeadPageSize = 200

	maxEmailLength = 254
)

// LeadService captures lead magnet signups. It implements
// ports.LeadSubmitter for the interaction controller and the lead API.
type LeadService struct {
	repo    ports.LeadRepository
	flags   ports.FeatureFlags
	metrics *telemetry.Collectors
	exec    *Executor
	clock   clockwork.Clock
	newID   func() string
	logger  *slog.Logger
	check   *validator.Validate
}

// LeadServiceConfig holds optional configuration for the service.
type LeadServiceConfig struct {
	Logger  *slog.Logger
	Metrics *telemetry.Collectors
	Clock   clockwork.Clock

	// NewID generates lead IDs. Defaults to random UUIDs.
	NewID func() string
}

// NewLeadService creates a lead service. flags may be nil, in which case
// capture is always enabled.
func NewLeadService(repo ports.LeadRepository, flags ports.FeatureFlags, cfg *LeadServiceConfig) *LeadService {
	if cfg == nil {
		cfg = &LeadServiceConfig{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "app.LeadService"))

	s := &LeadService{
		repo:    repo,
		flags:   flags,
		metrics: cfg.Metrics,
		exec:    NewExecutor(logger),
		clock:   cfg.Clock,
		newID:   cfg.NewID,
		logger:  logger,
		check:   validator.New(validator.WithRequiredStructEnabled()),
	}

	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}

	return s
}

type leadInput struct {
	email  string
	magnet domain.LeadMagnetType
	source string
}

// SubmitLead validates and stores a lead.
// Returns domain.ErrValidation for a malformed email, a magnet that does not
// collect email or an unknown source; domain.ErrForbidden while lead capture
// is switched off; domain.ErrConflict when the email already signed up for
// the magnet.
func (s *LeadService) SubmitLead(ctx context.Context, email string, magnet domain.LeadMagnetType, source string) (*domain.Lead, error) {
	op := Operation[leadInput, *domain.Lead, *domain.Lead]{
		Name:     "submit lead",
		Validate: s.validateLead,
		Perform: func(_ context.Context, in leadInput) (*domain.Lead, error) {
			return &domain.Lead{
				ID:        s.newID(),
				Email:     in.email,
				Magnet:    in.magnet,
				Source:    in.source,
				CreatedAt: s.clock.Now().UTC(),
			}, nil
		},
		Verify: func(_ context.Context, in leadInput, lead *domain.Lead) (*domain.Lead, error) {
			if _, err := uuid.Parse(lead.ID); err != nil {
				return nil, domain.NewValidationErrorWithValue("id", "must be a UUID", lead.ID)
			}
			return lead, nil
		},
		Archive: func(ctx context.Context, _ leadInput, lead *domain.Lead) error {
			return s.repo.Save(ctx, lead)
		},
		Respond: func(ctx context.Context, _ leadInput, lead *domain.Lead) (*domain.Lead, error) {
			s.metrics.LeadCaptured(lead.Magnet.String(), lead.Source)
			logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "lead captured",
				slog.String("lead_id", lead.ID),
				slog.String("magnet", lead.Magnet.String()),
				slog.String("source", lead.Source),
				slog.String("email", lead.Email),
			)
			return lead, nil
		},
	}

	return Execute(ctx, s.exec, op, leadInput{
		email:  strings.ToLower(strings.TrimSpace(email)),
		magnet: magnet,
		source: source,
	})
}

func (s *LeadService) validateLead(ctx context.Context, in leadInput) error {
	if s.flags != nil && !s.flags.IsEnabled(ctx, ports.FlagLeadCapture, true) {
		return domain.NewForbiddenError("submit lead", "lead capture is disabled")
	}

	if err := s.check.Var(in.email, "required,email"); err != nil || len(in.email) > maxEmailLength {
		return domain.NewValidationError("email", "must be a valid email address")
	}

	if !in.magnet.CollectsEmail() {
		return domain.NewValidationErrorWithValue("magnet", "does not collect email", in.magnet.String())
	}

	switch in.source {
	case domain.SourceModal, domain.SourceFooter, domain.SourceAPI:
	default:
		return domain.NewValidationErrorWithValue("source", "must be one of modal, footer, api", in.source)
	}

	return nil
}

// LeadPage is one page of the newest-first lead listing.
type LeadPage struct {
	Leads []domain.Lead
	Total int

	// Next is the cursor of the following page, nil on the last page.
	Next *ports.LeadCursor
}

// ListLeads returns up to limit leads older than cursor along with the
// total count. The page and the count are read concurrently.
func (s *LeadService) ListLeads(ctx context.Context, cursor ports.LeadCursor, limit int) (*LeadPage, error) {
	switch {
	case limit <= 0:
		limit = DefaultLeadPageSize
	case limit > MaxLeadPageSize:
		limit = MaxLeadPageSize
	}

	leads, total, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Lead, error) {
			// One extra row tells whether another page follows.
			return s.repo.List(ctx, cursor, limit+1)
		},
		s.repo.Count,
	)
	if err != nil {
		return nil, err
	}

	page := &LeadPage{Leads: leads, Total: total}
	if len(leads) > limit {
		page.Leads = leads[:limit]
		last := page.Leads[limit-1]
		page.Next = &ports.LeadCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	return page, nil
}
