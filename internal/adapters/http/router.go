package http

import (
	"html/template"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/handlers"
	"github.com/jsamuelsen/marketing-site/internal/adapters/http/middleware"
	"github.com/jsamuelsen/marketing-site/internal/platform/config"
	"github.com/jsamuelsen/marketing-site/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AuthConfig guards the admin routes.
	AuthConfig *config.AuthConfig

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// Timeout is the deadline of API requests. Zero disables it.
	Timeout time.Duration

	// SecureCookies marks the visitor cookie Secure.
	SecureCookies bool

	// Templates renders the page. Required when Page is set.
	Templates *template.Template

	// Handlers. A nil handler leaves its routes unmounted.
	Health  *handlers.HealthHandler
	Page    *handlers.PageHandler
	Site    *handlers.SiteHandler
	Leads   *handlers.LeadHandler
	Icons   *handlers.IconHandler
	Session *handlers.SessionHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - request-scoped logger for the ID middleware to enrich
//  3. Request ID and Correlation ID
//  4. OpenTelemetry - tracing and metrics (skips probes)
//  5. Logging - request logging (skips probes and static assets)
//
// Route groups:
//   - /-/ (internal): probes, build info, metrics
//   - /icons/: favicon proxy
//   - / and /ws/session: the page and its live session, with a visitor
//   - /api/v1/: read API and lead capture, with a visitor and a deadline
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	name := "marketing-site"
	if cfg.AppConfig != nil {
		name = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(name)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.Templates != nil {
		engine.SetHTMLTemplate(cfg.Templates)
	}

	// Probes: no visitor, no timeout.
	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	if cfg.Icons != nil {
		cfg.Icons.RegisterRoutes(engine)
	}

	visited := engine.Group("", middleware.Visitor(cfg.SecureCookies))

	if cfg.Page != nil {
		cfg.Page.RegisterRoutes(visited)
	}

	if cfg.Session != nil {
		cfg.Session.RegisterRoutes(visited)
	}

	apiV1 := visited.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

// setupAPIRoutes registers the read API and lead capture.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Site != nil {
		cfg.Site.RegisterRoutes(rg)
	}

	if cfg.Leads != nil {
		cfg.Leads.RegisterRoutes(rg, middleware.RequireAdmin(cfg.AuthConfig))
	}
}
