package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product is the aggregate root for the stock ledger. The on-hand quantity
// is the only field that requires mutual exclusion: every decrement must go
// through Deduct while the caller holds the product's row lock inside an
// open transaction.
type Product struct {
	shared.BaseAggregateRoot
	Name              string          `gorm:"size:100;not null"`
	Category          string          `gorm:"size:50"`
	SKU               string          `gorm:"size:50;uniqueIndex;not null"`
	Quantity          int64           `gorm:"not null;default:0"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LowStockThreshold int64           `gorm:"not null;default:5"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with validated fields
func NewProduct(name, sku, category string, quantity int64, costPrice, sellingPrice decimal.Decimal, lowStockThreshold int64) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product name cannot be empty")
	}
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product SKU cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product quantity cannot be negative")
	}
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product prices cannot be negative")
	}
	if lowStockThreshold < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Low stock threshold cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          category,
		SKU:               sku,
		Quantity:          quantity,
		CostPrice:         costPrice,
		SellingPrice:      sellingPrice,
		LowStockThreshold: lowStockThreshold,
	}, nil
}

// CanFulfill returns true if the on-hand quantity covers the requested one
func (p *Product) CanFulfill(quantity int64) bool {
	return quantity > 0 && p.Quantity >= quantity
}

// Deduct removes quantity from stock. The caller must hold the product's
// row lock: the quantity read here is only authoritative under that lock.
func (p *Product) Deduct(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Deduction quantity must be positive")
	}
	if p.Quantity < quantity {
		return &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   quantity,
			Available:   p.Quantity,
		}
	}

	p.Quantity -= quantity
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewStockDeductedEvent(p, quantity))
	if p.Quantity <= p.LowStockThreshold {
		p.AddDomainEvent(NewStockBelowThresholdEvent(p))
	}

	return nil
}

// Restore adds quantity back to stock (sale update or cancellation), under
// the same lock discipline as Deduct.
func (p *Product) Restore(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Restore quantity must be positive")
	}

	p.Quantity += quantity
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewStockRestoredEvent(p, quantity))

	return nil
}

// AdjustQuantity sets the on-hand quantity to an actual counted value
func (p *Product) AdjustQuantity(actual int64, reason string) error {
	if actual < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Actual quantity cannot be negative")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Adjustment reason is required")
	}

	old := p.Quantity
	p.Quantity = actual
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewStockAdjustedEvent(p, old, actual, reason))

	if p.Quantity <= p.LowStockThreshold {
		p.AddDomainEvent(NewStockBelowThresholdEvent(p))
	}

	return nil
}

// IsBelowThreshold returns true if quantity is at or below the alert threshold
func (p *Product) IsBelowThreshold() bool {
	return p.Quantity <= p.LowStockThreshold
}

// StockValue returns the value of the on-hand stock at cost price
func (p *Product) StockValue() valueobject.Money {
	return valueobject.NewMoneyNGN(p.CostPrice.Mul(decimal.NewFromInt(p.Quantity)))
}

// SellingPriceMoney returns the selling price as a Money value object
func (p *Product) SellingPriceMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(p.SellingPrice)
}

// InsufficientStockError reports a deduction that would drive stock negative.
// It matches shared.ErrInsufficientStock via errors.Is.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int64
	Available   int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

// Is matches the shared insufficient-stock sentinel
func (e *InsufficientStockError) Is(target error) bool {
	t, ok := target.(*shared.DomainError)
	return ok && t.Code == shared.ErrInsufficientStock.Code
}
