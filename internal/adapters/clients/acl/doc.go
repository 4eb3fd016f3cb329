// Package acl translates upstream HTTP services into domain terms.
//
// Each adapter embeds [BaseAdapter], keeps the upstream's wire format
// unexported, and returns only domain types and domain errors. Upstream
// failures map as follows:
//   - 404 Not Found → [domain.ErrNotFound]
//   - 400/422 → [domain.ErrValidation]
//   - 401/403 → [domain.ErrForbidden]
//   - 429, 5xx, transport errors → [domain.ErrUnavailable]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// also become [domain.ErrUnavailable].
//
// [FaviconClient] is the one adapter the site needs: it fetches icons for
// social and project hostnames from the public favicon service.
package acl
