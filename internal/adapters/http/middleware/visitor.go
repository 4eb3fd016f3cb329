package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/marketing-site/internal/ports"
)

// VisitorCookie holds the anonymous visitor ID used for flag rollouts.
const VisitorCookie = "ms_visitor"

const visitorMaxAge = 365 * 24 * 60 * 60

// Visitor attaches a stable anonymous visitor to the request context so
// percentage rollouts give one visitor the same answer on every request.
// A visitor without a valid cookie gets a new ID.
func Visitor(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     VisitorCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   visitorMaxAge,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := ports.WithFeatureFlagVisitor(c.Request.Context(), &ports.FeatureFlagVisitor{
			ID:         id,
			Attributes: map[string]any{"referrer": c.Request.Referer()},
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
