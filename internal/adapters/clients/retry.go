package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/marketing-site/internal/platform/config"
)

// retryPolicy repeats failed attempts with exponential backoff. Only
// transport failures, 429 and 5xx answers are repeated.
type retryPolicy struct {
	cfg   config.RetryConfig
	clock clockwork.Clock
}

// run calls send until it succeeds, fails permanently, or the attempts
// run out. With more than one attempt configured, exhaustion wraps
// ErrMaxRetriesExceeded around the last failure.
func (p retryPolicy) run(ctx context.Context, logger *slog.Logger, send func(context.Context) (*http.Response, error)) (*http.Response, error) {
	var last error

	for attempt := range p.cfg.MaxAttempts {
		if attempt > 0 {
			wait := p.backoff(attempt)
			logger.Debug("retrying request", slog.Int("attempt", attempt+1), slog.Duration("backoff", wait))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-p.clock.After(wait):
			}
		}

		resp, err := send(ctx)
		switch {
		case err != nil && !retryableError(err):
			return nil, err
		case err != nil:
			last = err
		case retryableStatus(resp.StatusCode):
			_ = resp.Body.Close()
			last = fmt.Errorf("upstream status %d", resp.StatusCode)
		default:
			return resp, nil
		}
	}

	if p.cfg.MaxAttempts > 1 {
		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, last)
	}

	return nil, last
}

// backoff is InitialInterval * Multiplier^(attempt-1), capped at
// MaxInterval, then spread by ±JitterFactor.
func (p retryPolicy) backoff(attempt int) time.Duration {
	d := float64(p.cfg.InitialInterval) * math.Pow(p.cfg.Multiplier, float64(attempt-1))

	if limit := float64(p.cfg.MaxInterval); limit > 0 && d > limit {
		d = limit
	}

	if f := p.cfg.JitterFactor; f > 0 {
		d += d * f * (rand.Float64()*2 - 1) //nolint:gosec // jitter only
	}

	return time.Duration(d)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// retryableError accepts network timeouts and dial or read failures.
// Cancellation is never retried.
func retryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
