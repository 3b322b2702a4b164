package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// CreditHandler handles credit ledger API endpoints
type CreditHandler struct {
	BaseHandler
	creditService  *salesapp.CreditService
	depositService *salesapp.DepositService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(creditService *salesapp.CreditService, depositService *salesapp.DepositService) *CreditHandler {
	return &CreditHandler{
		creditService:  creditService,
		depositService: depositService,
	}
}

// RegisterRoutes registers all credit and deposit routes
func (h *CreditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	credits := rg.Group("/credits")
	{
		credits.GET("", h.List)
		credits.GET("/sale/:sale_id", h.GetBySale)
		credits.GET("/:id", h.GetByID)
		credits.POST("/:id/payments", h.ApplyPayment)
	}
	rg.GET("/deposits", h.ListDeposits)
}

// GetByID retrieves a credit with its payment history
func (h *CreditHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit ID format")
		return
	}

	credit, err := h.creditService.GetCredit(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, credit)
}

// GetBySale retrieves the credit attached to a sale
func (h *CreditHandler) GetBySale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("sale_id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	credit, err := h.creditService.GetCreditBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, credit)
}

// List retrieves a paginated list of credits
func (h *CreditHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := listReq.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if customer := c.Query("customer_name"); customer != "" {
		filter.Filters["customer_name"] = customer
	}

	page, err := h.creditService.ListCredits(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ApplyPayment settles part of a credit's outstanding balance
func (h *CreditHandler) ApplyPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit ID format")
		return
	}

	var req salesapp.ApplyCreditPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreditID = id

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity not asserted")
		return
	}
	req.RecordedBy = userID

	credit, err := h.creditService.ApplyPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, credit)
}

// ListDeposits retrieves a paginated list of deposits
func (h *CreditHandler) ListDeposits(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := listReq.ToFilter()
	if source := c.Query("source"); source != "" {
		filter.Filters["source"] = source
	}
	if method := c.Query("payment_method"); method != "" {
		filter.Filters["payment_method"] = method
	}

	page, err := h.depositService.ListDeposits(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
