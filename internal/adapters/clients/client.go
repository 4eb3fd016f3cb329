package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/middleware"
	"github.com/jsamuelsen/marketing-site/internal/platform/config"
	"github.com/jsamuelsen/marketing-site/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/marketing-site/internal/adapters/clients"

	defaultTimeout = 10 * time.Second

	defaultUserAgent = "marketing-site/1.0"
)

// Config configures an HTTP client instance.
type Config struct {
	// BaseURL is the base URL for all requests, e.g. "https://www.google.com/s2/favicons".
	BaseURL string

	// ServiceName identifies the upstream for logging and tracing.
	ServiceName string

	// Timeout is the per-attempt request timeout. Retries and backoff may
	// add to the total.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// UserAgent is sent with every request.
	UserAgent string

	// Logger is optional. If nil, slog.Default is used.
	Logger *slog.Logger

	// Clock drives backoff waits and the circuit breaker. If nil, the real
	// clock is used.
	Clock clockwork.Clock
}

// Client is an instrumented HTTP client for upstream services with retry,
// a circuit breaker, OpenTelemetry spans and metrics, and request ID
// propagation.
type Client struct {
	http      *http.Client
	baseURL   string
	upstream  string
	userAgent string
	logger    *slog.Logger
	cb        *CircuitBreaker
	clock     clockwork.Clock
	retry     retryPolicy
	tracer    trace.Tracer
	metrics   *instruments
}

// New creates a client. Zero Timeout, MaxAttempts and UserAgent are
// replaced by defaults, written back into cfg.
func New(cfg *Config) (*Client, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("config is required")
	case cfg.ServiceName == "":
		return nil, errors.New("service name is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "clients.Client"), slog.String("upstream", cfg.ServiceName))

	metrics, err := newInstruments()
	if err != nil {
		return nil, err
	}

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	}, clock)
	cb.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed", slog.String("from", from.String()), slog.String("to", to.String()))
	})

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        cfg.Transport.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.Transport.MaxIdleConnsPerHost,
				IdleConnTimeout:     cfg.Transport.IdleConnTimeout,
			},
		},
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		upstream:  cfg.ServiceName,
		userAgent: cfg.UserAgent,
		logger:    logger,
		cb:        cb,
		clock:     clock,
		retry:     retryPolicy{cfg: cfg.Retry, clock: clock},
		tracer:    otel.Tracer(instrumentationName),
		metrics:   metrics,
	}, nil
}

// Get performs a GET on the base URL joined with path and query.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path, query), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// Do sends req through the circuit breaker and retry policy inside a
// client span. Only bodiless requests are retried safely.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := c.clock.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("upstream", c.upstream),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.cb.Allow() {
		c.metrics.record(ctx, c.upstream, req.Method, 0, 0, "circuit_open")
		logger.Warn("request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.upstream,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.upstream),
		),
	)
	defer span.End()

	c.setHeaders(ctx, req)

	resp, err := c.retry.run(ctx, logger, func(ctx context.Context) (*http.Response, error) {
		return c.http.Do(req.WithContext(ctx))
	})
	elapsed := c.clock.Since(start)

	if err != nil {
		c.cb.RecordFailure()
		span.SetStatus(codes.Error, err.Error())
		c.metrics.record(ctx, c.upstream, req.Method, 0, elapsed, "error")
		logger.Warn("request failed", slog.Duration("duration", elapsed), slog.Any("error", err))

		return nil, err
	}

	c.cb.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(resp.StatusCode))
	}

	c.metrics.record(ctx, c.upstream, req.Method, resp.StatusCode, elapsed, strconv.Itoa(resp.StatusCode/100)+"xx")
	logger.Debug("request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", elapsed))

	return resp, nil
}

// CircuitState returns the current state of the circuit breaker.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

// setHeaders stamps the user agent, the inbound request and correlation
// IDs, and the trace context onto req.
func (c *Client) setHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}
	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// buildURL joins the base URL, path and query. An empty path addresses the
// base URL itself.
func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL
	if path != "" {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		u += path
	}

	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

// instruments are the client-side request metrics.
type instruments struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

func newInstruments() (*instruments, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("client duration histogram: %w", err)
	}

	total, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("client request counter: %w", err)
	}

	return &instruments{duration: duration, total: total}, nil
}

func (m *instruments) record(ctx context.Context, upstream, method string, status int, elapsed time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", upstream),
		attribute.String("result", result),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	m.duration.Record(ctx, elapsed.Seconds(), opt)
	m.total.Add(ctx, 1, opt)
}
