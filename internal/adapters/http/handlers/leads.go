package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/dto"
	"github.com/jsamuelsen/marketing-site/internal/app"
)

// LeadHandler captures and lists leads.
type LeadHandler struct {
	leads *app.LeadService
	site  *app.SiteService
}

// NewLeadHandler creates a lead handler. site supplies the default magnet
// for submissions that name none.
func NewLeadHandler(leads *app.LeadService, site *app.SiteService) *LeadHandler {
	return &LeadHandler{leads: leads, site: site}
}

// CreateLead handles POST /api/v1/leads.
//
// @Summary Capture a lead
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body dto.CreateLeadRequest true "Lead"
// @Success 201 {object} dto.CreateLeadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/leads [post]
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req dto.CreateLeadRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	magnet := req.MagnetType(h.site.Site().LeadMagnet.Type)

	lead, err := h.leads.SubmitLead(c.Request.Context(), req.Email, magnet, req.SourceOrDefault())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateLeadResponse{
		ID:        lead.ID,
		Magnet:    lead.Magnet.String(),
		CreatedAt: lead.CreatedAt,
	})
}

// ListLeads handles GET /api/v1/leads, newest first.
//
// @Summary List captured leads
// @Tags leads
// @Produce json
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.Page[dto.LeadResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	var req dto.PageRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	cursor, err := dto.DecodeLeadCursor(req.Cursor)
	if err != nil {
		dto.RespondWithValidationErrors(c, map[string]string{"cursor": err.Error()})
		return
	}

	page, err := h.leads.ListLeads(c.Request.Context(), cursor, req.GetLimit())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := dto.Page[dto.LeadResponse]{
		Items: make([]dto.LeadResponse, 0, len(page.Leads)),
		Total: page.Total,
	}
	for i := range page.Leads {
		resp.Items = append(resp.Items, dto.NewLeadResponse(&page.Leads[i]))
	}
	if page.Next != nil {
		resp.HasMore = true
		resp.NextCursor = dto.EncodeLeadCursor(*page.Next)
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers the lead routes on rg. The listing runs behind
// admin.
func (h *LeadHandler) RegisterRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc) {
	rg.POST("/leads", h.CreateLead)
	rg.GET("/leads", admin, h.ListLeads)
}
