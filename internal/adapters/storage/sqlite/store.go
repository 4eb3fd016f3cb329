// Package sqlite is the SQLite storage adapter. One database file holds the
// captured leads and the favicon cache.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/marketing-site/internal/ports"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Connection pragmas. They go in the DSN so every pooled connection gets
// them, not only the first.
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
	"foreign_keys(ON)",
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL,
		magnet     TEXT NOT NULL,
		source     TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE (email, magnet)
	)`,
	`CREATE INDEX IF NOT EXISTS leads_created ON leads (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS cache (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`,
}

var _ ports.HealthChecker = (*Store)(nil)

// Store owns the database handle.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}

	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrating sqlite: %w", err)
		}
	}

	return &Store{db: db, clock: clock}, nil
}

func dsn(path string) string {
	q := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		q = append(q, "_pragma="+url.QueryEscape(p))
	}

	return "file:" + path + "?" + strings.Join(q, "&")
}

// Leads returns the lead repository backed by this store.
func (s *Store) Leads() *LeadRepository {
	return &LeadRepository{db: s.db, clock: s.clock}
}

// Icons returns the cache backed by this store.
func (s *Store) Icons() *Cache {
	return &Cache{db: s.db, clock: s.clock}
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "sqlite"
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlite: %w", err)
	}

	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
