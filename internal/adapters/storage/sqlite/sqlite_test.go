package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func openStore(t *testing.T) (*Store, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(epoch)
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "site.db"), clock)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, clock
}

func TestStore_Health(t *testing.T) {
	s, _ := openStore(t)

	assert.Equal(t, "sqlite", s.Name())
	assert.NoError(t, s.Check(context.Background()))
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Leads().Save(ctx, &domain.Lead{ID: "a", Email: "a@example.com", Magnet: domain.MagnetNewsletter, Source: domain.SourceAPI}))

	n, err := s.Leads().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLeads_SaveStampsAndRejectsDuplicates(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	repo := s.Leads()

	lead := &domain.Lead{ID: "l-1", Email: "grace@example.com", Magnet: domain.MagnetChecklist, Source: domain.SourceModal}
	require.NoError(t, repo.Save(ctx, lead))
	assert.Equal(t, epoch, lead.CreatedAt)

	dup := &domain.Lead{ID: "l-2", Email: "grace@example.com", Magnet: domain.MagnetChecklist, Source: domain.SourceFooter}
	err := repo.Save(ctx, dup)
	assert.True(t, domain.IsConflict(err))

	other := &domain.Lead{ID: "l-3", Email: "grace@example.com", Magnet: domain.MagnetNewsletter, Source: domain.SourceFooter}
	require.NoError(t, repo.Save(ctx, other), "same email, different magnet")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLeads_ListPagesNewestFirst(t *testing.T) {
	s, clock := openStore(t)
	ctx := context.Background()
	repo := s.Leads()

	for i := range 5 {
		require.NoError(t, repo.Save(ctx, &domain.Lead{
			ID:     fmt.Sprintf("l-%d", i),
			Email:  fmt.Sprintf("u%d@example.com", i),
			Magnet: domain.MagnetNewsletter,
			Source: domain.SourceAPI,
		}))
		clock.Advance(time.Minute)
	}

	page1, err := repo.List(ctx, ports.LeadCursor{}, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "l-4", page1[0].ID)
	assert.Equal(t, "l-3", page1[1].ID)
	assert.Equal(t, domain.MagnetNewsletter, page1[0].Magnet)

	last := page1[len(page1)-1]
	page2, err := repo.List(ctx, ports.LeadCursor{CreatedAt: last.CreatedAt, ID: last.ID}, 10)
	require.NoError(t, err)
	require.Len(t, page2, 3)
	assert.Equal(t, "l-2", page2[0].ID)
	assert.Equal(t, "l-0", page2[2].ID)

	none, err := repo.List(ctx, ports.LeadCursor{}, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCache_TTL(t *testing.T) {
	s, clock := openStore(t)
	ctx := context.Background()
	cache := s.Icons()

	_, err := cache.Get(ctx, "engineworks.io")
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, cache.Set(ctx, "engineworks.io", []byte("png"), time.Hour))
	require.NoError(t, cache.Set(ctx, "forever", []byte("svg"), 0))

	got, err := cache.Get(ctx, "engineworks.io")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)

	clock.Advance(time.Hour)
	_, err = cache.Get(ctx, "engineworks.io")
	assert.True(t, domain.IsNotFound(err), "expired")

	got, err = cache.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("svg"), got)

	n, err := cache.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, cache.Delete(ctx, "forever"))
	require.NoError(t, cache.Delete(ctx, "forever"))
	_, err = cache.Get(ctx, "forever")
	assert.True(t, domain.IsNotFound(err))
}

func TestCache_Overwrite(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	cache := s.Icons()

	require.NoError(t, cache.Set(ctx, "k", []byte("one"), time.Minute))
	require.NoError(t, cache.Set(ctx, "k", []byte("two"), time.Minute))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}
