package acl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/marketing-site/internal/adapters/clients"
	"github.com/jsamuelsen/marketing-site/internal/domain"
)

// BaseAdapter provides common functionality for ACL adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the upstream service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET and returns the successful response. Failures come
// back as domain errors with the response body already closed.
func (a *BaseAdapter) Get(ctx context.Context, path string, query url.Values, operation, entityID string) (*http.Response, error) {
	call := Call{Service: a.serviceName, Operation: operation, Key: entityID}

	resp, err := a.client.Get(ctx, path, query)
	if err != nil {
		return nil, MapHTTPError(call, nil, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

		return nil, MapHTTPError(call, resp, nil)
	}

	return resp, nil
}

const drainLimit = 4 << 10

// ReadLimited reads and closes body, failing when it exceeds limit bytes.
func (a *BaseAdapter) ReadLimited(body io.ReadCloser, limit int64) ([]byte, error) {
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, domain.NewUnavailableError(a.serviceName, fmt.Sprintf("reading response: %v", err))
	}

	if int64(len(data)) > limit {
		return nil, domain.NewValidationError("", fmt.Sprintf("response exceeds %d bytes", limit))
	}

	return data, nil
}
