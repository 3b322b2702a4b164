package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input for registering a product on the ledger
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=100"`
	Category          string          `json:"category" binding:"max=50"`
	SKU               string          `json:"sku" binding:"required,min=1,max=50"`
	Quantity          int64           `json:"quantity" binding:"gte=0"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold int64           `json:"low_stock_threshold" binding:"gte=0"`
}

// UpdateProductRequest is the input for changing product details.
// Quantity is deliberately absent: stock moves only through sales,
// restocks and counted adjustments.
type UpdateProductRequest struct {
	ProductID         uuid.UUID       `json:"-"`
	Name              string          `json:"name" binding:"required,min=1,max=100"`
	Category          string          `json:"category" binding:"max=50"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold int64           `json:"low_stock_threshold" binding:"gte=0"`
}

// RestockRequest is the input for adding received stock
type RestockRequest struct {
	ProductID uuid.UUID `json:"-"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// AdjustStockRequest is the input for a counted stock adjustment
type AdjustStockRequest struct {
	ProductID      uuid.UUID `json:"-"`
	ActualQuantity int64     `json:"actual_quantity" binding:"gte=0"`
	Reason         string    `json:"reason" binding:"required,min=1,max=255"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	SKU               string          `json:"sku"`
	Quantity          int64           `json:"quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	BelowThreshold    bool            `json:"below_threshold"`
	StockValue        decimal.Decimal `json:"stock_value"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Category:          p.Category,
		SKU:               p.SKU,
		Quantity:          p.Quantity,
		CostPrice:         p.CostPrice,
		SellingPrice:      p.SellingPrice,
		LowStockThreshold: p.LowStockThreshold,
		BelowThreshold:    p.IsBelowThreshold(),
		StockValue:        p.StockValue().Amount(),
		CreatedAt:         p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
