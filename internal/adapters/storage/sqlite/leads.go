package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

var _ ports.LeadRepository = (*LeadRepository)(nil)

// LeadRepository stores leads. Timestamps are kept as Unix nanoseconds so
// the newest-first listing sorts numerically.
type LeadRepository struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Save implements ports.LeadRepository. A zero CreatedAt is stamped with
// the store's clock.
func (r *LeadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = r.clock.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO leads (id, email, magnet, source, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (email, magnet) DO NOTHING`,
		lead.ID, lead.Email, lead.Magnet.String(), lead.Source, lead.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}

	if n == 0 {
		return domain.NewConflictError("lead", "email already signed up for "+lead.Magnet.String())
	}

	return nil
}

// List implements ports.LeadRepository.
func (r *LeadRepository) List(ctx context.Context, cursor ports.LeadCursor, limit int) ([]domain.Lead, error) {
	if limit <= 0 {
		return nil, nil
	}

	var (
		rows *sql.Rows
		err  error
	)

	if cursor.IsZero() {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, email, magnet, source, created_at FROM leads
			 ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	} else {
		ts := cursor.CreatedAt.UnixNano()
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, email, magnet, source, created_at FROM leads
			 WHERE created_at < ? OR (created_at = ? AND id < ?)
			 ORDER BY created_at DESC, id DESC LIMIT ?`, ts, ts, cursor.ID, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0, limit)
	for rows.Next() {
		var (
			l      domain.Lead
			magnet string
			ts     int64
		)

		if err := rows.Scan(&l.ID, &l.Email, &magnet, &l.Source, &ts); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}

		if err := l.Magnet.UnmarshalText([]byte(magnet)); err != nil {
			return nil, fmt.Errorf("lead %s: %w", l.ID, err)
		}

		l.CreatedAt = time.Unix(0, ts).UTC()
		leads = append(leads, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}

	return leads, nil
}

// Count implements ports.LeadRepository.
func (r *LeadRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting leads: %w", err)
	}

	return n, nil
}
