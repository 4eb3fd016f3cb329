package siteconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/domain/domaintest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoad_MatchesFixture(t *testing.T) {
	site, err := Load("testdata/site.yaml")
	require.NoError(t, err)

	if diff := cmp.Diff(domaintest.Site(), site); diff != "" {
		t.Errorf("loaded site mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OptionalListsStayNil(t *testing.T) {
	site, err := Load("testdata/minimal.yaml")
	require.NoError(t, err)

	assert.Nil(t, site.Projects)
	assert.Nil(t, site.CaseStudies)
	assert.Empty(t, site.BlogURL)
	assert.Equal(t, domain.MagnetNewsletter, site.LeadMagnet.Type)
}

func TestLoad_UnknownStatusRejected(t *testing.T) {
	_, err := Load("testdata/bad_status.yaml")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "Deprecated")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "empty document",
			doc:     "",
			wantErr: "document is empty",
		},
		{
			name:    "unknown key",
			doc:     "personal: {name: A, email: a@example.com}\nfavourite: blue\n",
			wantErr: "field favourite not found",
		},
		{
			name:    "unknown timeline type",
			doc:     "timeline: [{year: '2020', title: T, type: hobby}]\n",
			wantErr: "hobby",
		},
		{
			name:    "unknown magnet type",
			doc:     "leadMagnet: {title: T, type: webinar}\n",
			wantErr: "webinar",
		},
		{
			name: "bad email and business url",
			doc: `personal: {name: A, email: not-an-email}
businesses: [{name: B, url: example}]
leadMagnet: {title: T, type: call}
seo: {title: S}
`,
			wantErr: "personal.email: must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	site := domaintest.Site()
	site.Personal.Email = ""
	site.Businesses[1].URL = "noteg"

	err := Validate(site)
	require.Error(t, err)

	var fields []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ve *domain.ValidationError
		require.True(t, errors.As(e, &ve))
		fields = append(fields, ve.Field)
	}
	assert.ElementsMatch(t, []string{"personal.email", "businesses[1].url"}, fields)
}

func TestValidate_UnknownPlatformAllowed(t *testing.T) {
	site := domaintest.Site()
	site.SocialLinks = append(site.SocialLinks, domain.SocialLink{Platform: "bluesky", URL: "https://bsky.app/ada"})

	assert.NoError(t, Validate(site))
}

func writeContent(t *testing.T, path, src string) {
	t.Helper()

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestStore_ReloadSwapsIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	writeContent(t, path, "testdata/site.yaml")

	var hookErrs []error
	s, err := NewStore(path, WithReloadHook(func(err error) { hookErrs = append(hookErrs, err) }))
	require.NoError(t, err)

	first := s.Current()
	require.NotNil(t, first)

	var seen []*domain.Site
	unsubscribe := s.Subscribe(func(site *domain.Site) { seen = append(seen, site) })

	writeContent(t, path, "testdata/minimal.yaml")
	require.NoError(t, s.Reload(context.Background()))

	second := s.Current()
	assert.NotSame(t, first, second)
	assert.Equal(t, "Grace Hopper", second.Personal.Name)
	require.Len(t, seen, 1)
	assert.Same(t, second, seen[0])

	unsubscribe()
	unsubscribe()
	require.NoError(t, s.Reload(context.Background()))
	assert.Len(t, seen, 1)
	assert.Equal(t, []error{nil, nil}, hookErrs)
}

func TestStore_FailedReloadKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	writeContent(t, path, "testdata/site.yaml")

	s, err := NewStore(path)
	require.NoError(t, err)
	before := s.Current()

	writeContent(t, path, "testdata/bad_status.yaml")
	err = s.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, before, s.Current())
}

func TestStore_InitialLoadFails(t *testing.T) {
	_, err := NewStore("testdata/bad_status.yaml")
	assert.Error(t, err)
}

func TestStaticStore(t *testing.T) {
	site := domaintest.Site()
	s := NewStaticStore(site)

	assert.Same(t, site, s.Current())
	err := s.Reload(context.Background())
	assert.True(t, domain.IsUnavailable(err))
	assert.Same(t, site, s.Current())
}

type countingReloader struct {
	n atomic.Int32
}

func (r *countingReloader) Reload(context.Context) error {
	r.n.Add(1)
	return nil
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	writeContent(t, path, "testdata/site.yaml")

	r := &countingReloader{}
	w, err := NewWatcher(path, r, 50*time.Millisecond, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	for range 3 {
		writeContent(t, path, "testdata/minimal.yaml")
	}

	require.Eventually(t, func() bool { return r.n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), r.n.Load(), "one reload per burst")

	cancel()
	require.NoError(t, <-done)
}
