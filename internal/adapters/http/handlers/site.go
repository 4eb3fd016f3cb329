package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/dto"
	"github.com/jsamuelsen/marketing-site/internal/app"
	"github.com/jsamuelsen/marketing-site/internal/ui/page"
)

// SiteHandler serves the content snapshot as JSON.
type SiteHandler struct {
	site  *app.SiteService
	pages *app.PageService
}

// NewSiteHandler creates a site handler. pages supplies the favicon URL
// mapping so API icons match the rendered page.
func NewSiteHandler(site *app.SiteService, pages *app.PageService) *SiteHandler {
	return &SiteHandler{site: site, pages: pages}
}

// GetSite handles GET /api/v1/site.
//
// @Summary Get the site content
// @Tags site
// @Produce json
// @Success 200 {object} dto.SiteResponse
// @Router /api/v1/site [get]
func (h *SiteHandler) GetSite(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSiteResponse(h.site.Site(), h.pages.IconURL(c.Request.Context())))
}

// ListProjects handles GET /api/v1/projects. An absent section lists as
// empty.
func (h *SiteHandler) ListProjects(c *gin.Context) {
	items := dto.NewProjectResponses(h.site.Projects())
	if items == nil {
		items = []dto.ProjectResponse{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetProject handles GET /api/v1/projects/:slug.
//
// @Summary Get a project
// @Tags site
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/projects/{slug} [get]
func (h *SiteHandler) GetProject(c *gin.Context) {
	p, err := h.site.Project(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProjectResponse(p))
}

// ListCaseStudies handles GET /api/v1/case-studies.
func (h *SiteHandler) ListCaseStudies(c *gin.Context) {
	items := dto.NewCaseStudyResponses(h.site.CaseStudies())
	if items == nil {
		items = []dto.CaseStudyResponse{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetCaseStudy handles GET /api/v1/case-studies/:slug.
func (h *SiteHandler) GetCaseStudy(c *gin.Context) {
	cs, err := h.site.CaseStudy(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCaseStudyResponse(cs))
}

// GetStructuredData handles GET /api/v1/structured-data with the same
// JSON-LD graph the page embeds.
func (h *SiteHandler) GetStructuredData(c *gin.Context) {
	body, err := json.Marshal(h.site.StructuredData())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, page.StructuredDataType+"; charset=utf-8", body)
}

// RegisterRoutes registers the content routes on rg.
func (h *SiteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/site", h.GetSite)
	rg.GET("/projects", h.ListProjects)
	rg.GET("/projects/:slug", h.GetProject)
	rg.GET("/case-studies", h.ListCaseStudies)
	rg.GET("/case-studies/:slug", h.GetCaseStudy)
	rg.GET("/structured-data", h.GetStructuredData)
}
