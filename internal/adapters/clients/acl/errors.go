package acl

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jsamuelsen/marketing-site/internal/adapters/clients"
	"github.com/jsamuelsen/marketing-site/internal/domain"
)

// Call identifies an upstream request in the errors it produces. Key names
// the requested resource, e.g. the host whose favicon was asked for.
type Call struct {
	Service   string
	Operation string
	Key       string
}

// MapHTTPError turns the outcome of an upstream call into a domain error.
// resp may be nil when err is set. A 2xx response maps to nil.
func MapHTTPError(call Call, resp *http.Response, err error) error {
	switch {
	case err != nil:
		return call.transportError(err)
	case resp == nil:
		return domain.NewUnavailableError(call.Service, "no response received")
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	default:
		return call.statusError(resp.StatusCode)
	}
}

func (c Call) transportError(err error) error {
	reason := fmt.Sprintf("%s failed: %v", c.Operation, err)

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		reason = "circuit breaker open during " + c.Operation
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		reason = "max retries exceeded during " + c.Operation
	}

	return domain.NewUnavailableError(c.Service, reason)
}

func (c Call) statusError(status int) error {
	switch status {
	case http.StatusNotFound, http.StatusGone:
		return domain.NewNotFoundError(c.Service, c.Key)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewValidationError("", fmt.Sprintf("%s rejected: status %d", c.Operation, status))
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewForbiddenError(c.Operation, fmt.Sprintf("upstream answered %d", status))
	case http.StatusTooManyRequests:
		return domain.NewUnavailableError(c.Service, "rate limit exceeded")
	}

	return domain.NewUnavailableError(c.Service, fmt.Sprintf("%s failed with status %d", c.Operation, status))
}
