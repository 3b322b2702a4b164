package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// SaleHandler handles sale transaction API endpoints
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/invoice/:invoice", h.GetByInvoice)
		sales.GET("/:id", h.GetByID)
		sales.PUT("/:id", h.Update)
		sales.POST("/:id/receipt-print", h.RecordReceiptPrint)
	}
}

// Create converts a cart into a completed sale
func (h *SaleHandler) Create(c *gin.Context) {
	var req salesapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// The gateway-asserted identity wins over whatever the body claims
	if userID, err := getUserID(c); err == nil {
		req.CashierID = userID
	}
	req.CashierRole = getUserRole(c)

	if req.CashierID == uuid.Nil {
		h.Unauthorized(c, "Caller identity not asserted")
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetByID retrieves a sale by ID
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetByInvoice retrieves a sale by invoice number
func (h *SaleHandler) GetByInvoice(c *gin.Context) {
	sale, err := h.saleService.GetSaleByInvoice(c.Request.Context(), c.Param("invoice"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// List retrieves a paginated list of sales
func (h *SaleHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := listReq.ToFilter()
	if cashierID := c.Query("cashier_id"); cashierID != "" {
		if id, err := uuid.Parse(cashierID); err == nil {
			filter.Filters["cashier_id"] = id
		}
	}
	if method := c.Query("payment_method"); method != "" {
		filter.Filters["payment_method"] = method
	}
	if from := c.Query("from"); from != "" {
		t, err := parseDateTime(from)
		if err != nil {
			h.BadRequest(c, "Invalid from date")
			return
		}
		filter.Filters["from"] = t
	}
	if to := c.Query("to"); to != "" {
		t, err := parseDateTime(to)
		if err != nil {
			h.BadRequest(c, "Invalid to date")
			return
		}
		filter.Filters["to"] = t
	}

	page, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update replaces an existing sale's lines and payment details
func (h *SaleHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req salesapp.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.SaleID = id

	sale, err := h.saleService.UpdateSale(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// RecordReceiptPrint bumps the sale's receipt print counter
func (h *SaleHandler) RecordReceiptPrint(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.RecordReceiptPrint(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}
