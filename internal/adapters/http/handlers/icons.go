package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/dto"
	"github.com/jsamuelsen/marketing-site/internal/app"
)

// HeaderIconFallback marks a response carrying the placeholder icon.
const HeaderIconFallback = "X-Icon-Fallback"

// fallbackMaxAge keeps browsers from pinning a placeholder while the
// upstream recovers.
const fallbackMaxAge = time.Minute

// IconHandler proxies favicons through the icon cache.
type IconHandler struct {
	icons  *app.IconService
	maxAge time.Duration
}

// NewIconHandler creates an icon handler. maxAge is the browser cache
// lifetime of real icons.
func NewIconHandler(icons *app.IconService, maxAge time.Duration) *IconHandler {
	return &IconHandler{icons: icons, maxAge: maxAge}
}

// GetIcon handles GET /icons/:host. Upstream failures answer 200 with the
// fallback icon and the X-Icon-Fallback header; a malformed host is a 400.
func (h *IconHandler) GetIcon(c *gin.Context) {
	icon, err := h.icons.Icon(c.Request.Context(), c.Param("host"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	maxAge := h.maxAge
	if icon.Fallback {
		maxAge = fallbackMaxAge
		c.Header(HeaderIconFallback, "true")
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, icon.ContentType, icon.Data)
}

// RegisterRoutes mounts the proxy under app.IconProxyPath.
func (h *IconHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(app.IconProxyPath+":host", h.GetIcon)
}
