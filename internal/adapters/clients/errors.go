// Package clients provides an instrumented HTTP client for upstream
// services such as the favicon service.
package clients

import "errors"

// Client errors are infrastructure failures. Adapters in package acl
// translate them into domain errors.
var (
	// ErrCircuitOpen is returned without contacting the upstream while the
	// circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
