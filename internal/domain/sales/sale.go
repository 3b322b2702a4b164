package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Sale is the aggregate root for a finalized point-of-sale transaction.
// It is created atomically with its lines and the matching stock deduction,
// and is immutable afterwards except for the receipt print counter and the
// rare reverse-then-reapply update path.
type Sale struct {
	shared.BaseAggregateRoot
	InvoiceNumber     string             `gorm:"size:20;uniqueIndex;not null"`
	CashierID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	CustomerName      string             `gorm:"size:100"`
	Lines             []SaleLine         `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Subtotal          valueobject.Money  `gorm:"type:decimal(12,2);not null"`
	DiscountAmount    valueobject.Money  `gorm:"type:decimal(12,2);not null"`
	VATPercent        decimal.Decimal    `gorm:"type:decimal(5,2);not null"`
	VATAmount         valueobject.Money  `gorm:"type:decimal(12,2);not null"`
	TotalAmount       valueobject.Money  `gorm:"type:decimal(12,2);not null"`
	PaymentMethod     PaymentMethod      `gorm:"size:20;not null"`
	AmountPaid        valueobject.Money  `gorm:"type:decimal(12,2);not null"`
	ChangeDue         valueobject.Money  `gorm:"type:decimal(12,2);not null"`
	ReceiptPrintCount int                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleLine is one line of a sale with the unit price snapshotted at sale
// time, independent of later product price changes.
type SaleLine struct {
	shared.BaseEntity
	SaleID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductName  string            `gorm:"size:100;not null"`
	SKU          string            `gorm:"size:50;not null"`
	Quantity     int64             `gorm:"not null"`
	UnitPrice    valueobject.Money `gorm:"type:decimal(12,2);not null"`
	LineSubtotal valueobject.Money `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// NewInvoiceNumber generates a human-shareable invoice identifier.
// Format: INV- followed by 12 uppercase hex characters. 48 random bits
// keep the birthday collision odds negligible for a store's lifetime of
// sales; the unique index on invoice_number backstops the remainder.
func NewInvoiceNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "INV-" + strings.ToUpper(raw[:12])
}

// NewSale builds a finalized sale from resolved lines and a computed pricing
// breakdown. The caller is responsible for having deducted stock for every
// line inside the same transaction that persists the sale.
func NewSale(cashierID uuid.UUID, customerName string, method PaymentMethod, lines []SaleLine, pricing Pricing, vatPercent, amountPaid decimal.Decimal) (*Sale, error) {
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cashier reference is required")
	}
	if err := ValidateSalePaymentMethod(method); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale must contain at least one line item")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     NewInvoiceNumber(),
		CashierID:         cashierID,
		CustomerName:      strings.TrimSpace(customerName),
		Subtotal:          valueobject.NewMoneyNGN(pricing.Subtotal),
		DiscountAmount:    valueobject.NewMoneyNGN(pricing.EffectiveDiscount),
		VATPercent:        vatPercent,
		VATAmount:         valueobject.NewMoneyNGN(pricing.VATAmount),
		TotalAmount:       valueobject.NewMoneyNGN(pricing.Total),
		PaymentMethod:     method,
		AmountPaid:        valueobject.NewMoneyNGN(amountPaid),
		ChangeDue:         valueobject.NewMoneyNGN(pricing.Change),
	}
	sale.attachLines(lines)

	sale.AddDomainEvent(NewSaleCompletedEvent(sale))
	return sale, nil
}

// NewSaleLine builds a line with its subtotal computed from the snapshot price
func NewSaleLine(productID uuid.UUID, productName, sku string, quantity int64, unitPrice decimal.Decimal) (SaleLine, error) {
	if quantity <= 0 {
		return SaleLine{}, shared.NewDomainError("INVALID_INPUT", "Line item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return SaleLine{}, shared.NewDomainError("INVALID_INPUT", "Line item unit price cannot be negative")
	}
	return SaleLine{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		ProductName:  productName,
		SKU:          sku,
		Quantity:     quantity,
		UnitPrice:    valueobject.NewMoneyNGN(unitPrice),
		LineSubtotal: valueobject.NewMoneyNGN(unitPrice.Mul(decimal.NewFromInt(quantity))),
	}, nil
}

// ReplaceLines swaps the sale's lines and pricing for the update path.
// Stock for the old lines must already be restored and stock for the new
// lines deducted inside the same transaction.
func (s *Sale) ReplaceLines(lines []SaleLine, pricing Pricing, vatPercent decimal.Decimal, method PaymentMethod, amountPaid decimal.Decimal) error {
	if err := ValidateSalePaymentMethod(method); err != nil {
		return err
	}
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Sale must contain at least one line item")
	}

	s.Subtotal = valueobject.NewMoneyNGN(pricing.Subtotal)
	s.DiscountAmount = valueobject.NewMoneyNGN(pricing.EffectiveDiscount)
	s.VATPercent = vatPercent
	s.VATAmount = valueobject.NewMoneyNGN(pricing.VATAmount)
	s.TotalAmount = valueobject.NewMoneyNGN(pricing.Total)
	s.PaymentMethod = method
	s.AmountPaid = valueobject.NewMoneyNGN(amountPaid)
	s.ChangeDue = valueobject.NewMoneyNGN(pricing.Change)
	s.attachLines(lines)
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSaleUpdatedEvent(s))
	return nil
}

func (s *Sale) attachLines(lines []SaleLine) {
	for i := range lines {
		lines[i].SaleID = s.ID
	}
	s.Lines = lines
}

// RecordReceiptPrint increments the print counter. The counter is the only
// field that changes on a finalized sale in normal operation.
func (s *Sale) RecordReceiptPrint() {
	s.ReceiptPrintCount++
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewReceiptPrintedEvent(s))
}

// RequiresCredit reports whether a credit record must accompany this sale
func (s *Sale) RequiresCredit() bool {
	return s.PaymentMethod == PaymentCredit
}

// OutstandingAmount returns total minus paid, used to seed the credit record
func (s *Sale) OutstandingAmount() valueobject.Money {
	return s.TotalAmount.MustSubtract(s.AmountPaid)
}
