package acl

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jsamuelsen/marketing-site/internal/adapters/clients"
	"github.com/jsamuelsen/marketing-site/internal/domain"
)

const (
	faviconServiceName = "favicon"

	// DefaultIconSize is the pixel size requested from the favicon service.
	DefaultIconSize = domain.FaviconSize

	// maxIconBytes bounds a single icon download.
	maxIconBytes = 256 << 10
)

// FaviconClient fetches site icons from a Google-style favicon service:
// GET <base>?sz=<size>&domain=<host>. It implements ports.IconFetcher and
// an optional ports.HealthChecker.
type FaviconClient struct {
	BaseAdapter
	size int
}

// NewFaviconClient creates a favicon adapter over client. The client's
// base URL is the favicon endpoint itself.
func NewFaviconClient(client *clients.Client, size int) *FaviconClient {
	if size <= 0 {
		size = DefaultIconSize
	}

	return &FaviconClient{
		BaseAdapter: NewBaseAdapter(client, faviconServiceName),
		size:        size,
	}
}

// FetchIcon returns the icon for host.
// Returns domain.ErrValidation for a malformed host, domain.ErrNotFound when
// the service has no icon and domain.ErrUnavailable when it is unreachable.
func (c *FaviconClient) FetchIcon(ctx context.Context, host string) (*domain.Icon, error) {
	host, err := NormalizeHost(host)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("sz", strconv.Itoa(c.size))
	query.Set("domain", host)

	resp, err := c.Get(ctx, "", query, "fetch favicon", host)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	data, err := c.ReadLimited(resp.Body, maxIconBytes)
	if err != nil {
		return nil, err
	}

	return translateIcon(host, contentType, data)
}

// translateIcon validates the upstream payload. Anything that is not a
// non-empty image is treated as missing.
func translateIcon(host, contentType string, data []byte) (*domain.Icon, error) {
	if len(data) == 0 {
		return nil, domain.NewNotFoundError(faviconServiceName, host)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		mediaType = http.DetectContentType(data)
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return nil, domain.NewNotFoundError(faviconServiceName, host)
	}

	return &domain.Icon{
		Host:        host,
		ContentType: mediaType,
		Data:        data,
	}, nil
}

// NormalizeHost reduces a URL or hostname to a lowercase hostname.
func NormalizeHost(raw string) (string, error) {
	host := strings.ToLower(domain.Hostname(raw))
	if host == "" {
		return "", domain.NewValidationError("host", "is required")
	}

	if strings.ContainsAny(host, " /\\:?#@") || (!strings.Contains(host, ".") && host != "localhost") {
		return "", domain.NewValidationErrorWithValue("host", "must be a hostname", raw)
	}

	return host, nil
}

// Name implements ports.HealthChecker.
func (c *FaviconClient) Name() string {
	return faviconServiceName
}

// Check reports the upstream unavailable while the circuit breaker is open.
// It makes no request of its own.
func (c *FaviconClient) Check(context.Context) error {
	if state := c.Client().CircuitState(); state == clients.StateOpen {
		return domain.NewUnavailableError(faviconServiceName, "circuit breaker "+state.String())
	}

	return nil
}

// Optional implements ports.OptionalChecker: pages render with fallback
// icons while the favicon service is down.
func (c *FaviconClient) Optional() bool {
	return true
}
