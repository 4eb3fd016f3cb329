package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

var _ ports.Cache = (*Cache)(nil)

// Cache is a key/value cache with per-entry expiry. Expired rows are
// treated as missing on read and removed by Sweep.
type Cache struct {
	db    *sql.DB
	clock clockwork.Clock
}

// noExpiry marks entries stored with a zero TTL.
const noExpiry = 0

// Get implements ports.Cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt int64
	)

	err := c.db.QueryRowContext(ctx, `SELECT value, expires_at FROM cache WHERE key = ?`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if expiresAt != noExpiry && c.clock.Now().UnixNano() >= expiresAt {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	return value, nil
}

// Set implements ports.Cache.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := int64(noExpiry)
	if ttl > 0 {
		expiresAt = c.clock.Now().Add(ttl).UnixNano()
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}

	return nil
}

// Delete implements ports.Cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	return nil
}

// Sweep removes expired entries and returns how many were removed.
func (c *Cache) Sweep(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM cache WHERE expires_at != ? AND expires_at <= ?`,
		noExpiry, c.clock.Now().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("sweeping cache: %w", err)
	}

	return res.RowsAffected()
}
