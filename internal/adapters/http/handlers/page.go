package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/dto"
	"github.com/jsamuelsen/marketing-site/internal/adapters/http/web"
	"github.com/jsamuelsen/marketing-site/internal/app"
	"github.com/jsamuelsen/marketing-site/internal/ports"
)

// PageHandler serves the server-rendered page and its script.
type PageHandler struct {
	pages *app.PageService
}

// NewPageHandler creates a page handler. The engine must have the web
// templates installed with SetHTMLTemplate.
func NewPageHandler(pages *app.PageService) *PageHandler {
	return &PageHandler{pages: pages}
}

// GetPage handles GET /. The page is complete without script; the live
// session script is included while the session flag is on.
func (h *PageHandler) GetPage(c *gin.Context) {
	ctx := c.Request.Context()

	rendered, err := h.pages.Render(ctx)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	data, err := web.NewPageData(rendered, web.Options{
		Live:        h.pages.Enabled(ctx, ports.FlagLiveSession),
		SessionPath: SessionPath,
		LeadForm:    h.pages.Enabled(ctx, ports.FlagLeadCapture),
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.HTML(http.StatusOK, web.PageTemplate, data)
}

// RegisterRoutes mounts the page and the embedded assets.
func (h *PageHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.GetPage)
	r.StaticFS(strings.TrimSuffix(web.StaticPath, "/"), http.FS(web.Static()))
}
