package siteconfig

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

var _ ports.SiteSource = (*Store)(nil)

// ReloadFunc observes the outcome of every reload attempt.
type ReloadFunc func(err error)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report reloads.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithReloadHook registers fn to run after every reload attempt.
func WithReloadHook(fn ReloadFunc) Option {
	return func(s *Store) { s.hooks = append(s.hooks, fn) }
}

// Store holds the current content snapshot. Readers never see a partially
// loaded document: a reload builds a new *domain.Site and swaps it in, and
// a reload that fails leaves the previous snapshot in place.
type Store struct {
	path    string
	logger  *slog.Logger
	hooks   []ReloadFunc
	current atomic.Pointer[domain.Site]

	mu      sync.Mutex
	nextID  uint64
	subs    map[uint64]func(*domain.Site)
	reloads sync.Mutex
}

// NewStore loads the document at path. It fails when the initial load
// fails; there is no snapshot to fall back on.
func NewStore(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: slog.Default(),
		subs:   make(map[uint64]func(*domain.Site)),
	}
	for _, opt := range opts {
		opt(s)
	}

	site, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.current.Store(site)

	return s, nil
}

// NewStaticStore wraps an already loaded site. Reload on a static store
// always fails.
func NewStaticStore(site *domain.Site) *Store {
	s := &Store{logger: slog.Default(), subs: make(map[uint64]func(*domain.Site))}
	s.current.Store(site)

	return s
}

// Path returns the content file path, empty for a static store.
func (s *Store) Path() string {
	return s.path
}

// Current implements ports.SiteSource.
func (s *Store) Current() *domain.Site {
	return s.current.Load()
}

// Subscribe implements ports.SiteSource. fn runs on the reloading goroutine
// after each successful reload.
func (s *Store) Subscribe(fn func(*domain.Site)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Reload parses the file again and, on success, publishes the new
// snapshot to subscribers.
func (s *Store) Reload(ctx context.Context) error {
	s.reloads.Lock()
	defer s.reloads.Unlock()

	if s.path == "" {
		return s.finish(ctx, domain.NewUnavailableError("content reload", "store has no backing file"))
	}

	site, err := Load(s.path)
	if err != nil {
		return s.finish(ctx, err)
	}

	s.current.Store(site)

	s.mu.Lock()
	subs := make([]func(*domain.Site), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(site)
	}

	return s.finish(ctx, nil)
}

func (s *Store) finish(ctx context.Context, err error) error {
	if err != nil {
		s.logger.ErrorContext(ctx, "content reload failed, keeping previous snapshot",
			slog.String("path", s.path),
			slog.Any("error", err),
		)
	} else {
		s.logger.InfoContext(ctx, "content reloaded", slog.String("path", s.path))
	}

	for _, hook := range s.hooks {
		hook(err)
	}

	return err
}
