package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// GateHandler handles the stop-sale gate API endpoints
type GateHandler struct {
	BaseHandler
	gateService *salesapp.GateService
}

// NewGateHandler creates a new GateHandler
func NewGateHandler(gateService *salesapp.GateService) *GateHandler {
	return &GateHandler{gateService: gateService}
}

// RegisterRoutes registers all gate routes
func (h *GateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	gate := rg.Group("/gate")
	{
		gate.GET("", h.Status)
		gate.POST("/toggle", h.Toggle)
		gate.GET("/history", h.History)
	}
}

// Status returns the current gate state
func (h *GateHandler) Status(c *gin.Context) {
	h.Success(c, salesapp.GateStatusResponse{State: h.gateService.Current()})
}

// Toggle stops or resumes sales
func (h *GateHandler) Toggle(c *gin.Context) {
	var req salesapp.ToggleGateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity not asserted")
		return
	}
	req.ActorID = userID
	req.Role = getUserRole(c)

	log, err := h.gateService.Toggle(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, log)
}

// History returns the gate toggle history, newest first
func (h *GateHandler) History(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := listReq.ToFilter()
	if state := c.Query("state"); state != "" {
		filter.Filters["new_state"] = state
	}

	page, err := h.gateService.History(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
