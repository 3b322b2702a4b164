package catalog

import (
	"github.com/retailpos/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeStockDeducted       = "catalog.stock.deducted"
	EventTypeStockRestored       = "catalog.stock.restored"
	EventTypeStockAdjusted       = "catalog.stock.adjusted"
	EventTypeStockBelowThreshold = "catalog.stock.below_threshold"
)

// StockDeductedEvent is raised when stock is removed by a sale
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int64  `json:"quantity"`
	Remaining   int64  `json:"remaining"`
}

// NewStockDeductedEvent creates a new stock deducted event
func NewStockDeductedEvent(p *Product, quantity int64) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, "Product", p.ID),
		ProductName:     p.Name,
		SKU:             p.SKU,
		Quantity:        quantity,
		Remaining:       p.Quantity,
	}
}

// StockRestoredEvent is raised when stock is returned after an update or cancellation
type StockRestoredEvent struct {
	shared.BaseDomainEvent
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int64  `json:"quantity"`
	Remaining   int64  `json:"remaining"`
}

// NewStockRestoredEvent creates a new stock restored event
func NewStockRestoredEvent(p *Product, quantity int64) *StockRestoredEvent {
	return &StockRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRestored, "Product", p.ID),
		ProductName:     p.Name,
		SKU:             p.SKU,
		Quantity:        quantity,
		Remaining:       p.Quantity,
	}
}

// StockAdjustedEvent is raised when the on-hand quantity is corrected manually
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	OldQuantity int64  `json:"old_quantity"`
	NewQuantity int64  `json:"new_quantity"`
	Reason      string `json:"reason"`
}

// NewStockAdjustedEvent creates a new stock adjusted event
func NewStockAdjustedEvent(p *Product, oldQty, newQty int64, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "Product", p.ID),
		ProductName:     p.Name,
		SKU:             p.SKU,
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
		Reason:          reason,
	}
}

// StockBelowThresholdEvent is raised when stock falls to or below the alert threshold
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int64  `json:"quantity"`
	Threshold   int64  `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a new low stock alert event
func NewStockBelowThresholdEvent(p *Product) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, "Product", p.ID),
		ProductName:     p.Name,
		SKU:             p.SKU,
		Quantity:        p.Quantity,
		Threshold:       p.LowStockThreshold,
	}
}
