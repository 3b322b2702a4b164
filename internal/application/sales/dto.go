package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleLineInput is one requested cart line. The product may be referenced by
// ID, name or SKU; unit price is optional and defaults to the product's
// current selling price.
type SaleLineInput struct {
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name"`
	SKU         string           `json:"sku"`
	Quantity    int64            `json:"quantity" binding:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest is the input for creating a sale. The cashier identity
// comes from the gateway-asserted headers, never from the body.
type CreateSaleRequest struct {
	CashierID      uuid.UUID           `json:"-"`
	CashierRole    sales.Role          `json:"-"`
	CustomerName   string              `json:"customer_name" binding:"omitempty,max=100"`
	PaymentMethod  sales.PaymentMethod `json:"payment_method" binding:"required"`
	AmountPaid     decimal.Decimal     `json:"amount_paid"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	VATPercent     decimal.Decimal     `json:"vat_percent"`
	Lines          []SaleLineInput     `json:"lines" binding:"required,min=1,dive"`
}

// UpdateSaleRequest replaces an existing sale's lines and payment details
type UpdateSaleRequest struct {
	SaleID         uuid.UUID           `json:"-"`
	CustomerName   string              `json:"customer_name" binding:"omitempty,max=100"`
	PaymentMethod  sales.PaymentMethod `json:"payment_method" binding:"required"`
	AmountPaid     decimal.Decimal     `json:"amount_paid"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	VATPercent     decimal.Decimal     `json:"vat_percent"`
	Lines          []SaleLineInput     `json:"lines" binding:"required,min=1,dive"`
}

// ApplyCreditPaymentRequest is the input for settling part of a credit
type ApplyCreditPaymentRequest struct {
	CreditID      uuid.UUID           `json:"-"`
	Amount        decimal.Decimal     `json:"amount" binding:"required"`
	PaymentMethod sales.PaymentMethod `json:"payment_method" binding:"required"`
	RecordedBy    uuid.UUID           `json:"-"`
	Remarks       string              `json:"remarks" binding:"omitempty,max=255"`
}

// ToggleGateRequest is the input for stopping or resuming sales. The actor
// identity comes from the gateway-asserted headers.
type ToggleGateRequest struct {
	ActorID uuid.UUID       `json:"-"`
	Role    sales.Role      `json:"-"`
	State   sales.GateState `json:"state" binding:"required,oneof=open stopped"`
	Reason  string          `json:"reason" binding:"omitempty,max=255"`
}

// SaleLineResponse is one persisted sale line
type SaleLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
}

// SaleResponse is the API representation of a sale
type SaleResponse struct {
	ID                uuid.UUID           `json:"id"`
	InvoiceNumber     string              `json:"invoice_number"`
	CashierID         uuid.UUID           `json:"cashier_id"`
	CustomerName      string              `json:"customer_name,omitempty"`
	Lines             []SaleLineResponse  `json:"lines"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	DiscountAmount    decimal.Decimal     `json:"discount_amount"`
	VATPercent        decimal.Decimal     `json:"vat_percent"`
	VATAmount         decimal.Decimal     `json:"vat_amount"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	PaymentMethod     sales.PaymentMethod `json:"payment_method"`
	AmountPaid        decimal.Decimal     `json:"amount_paid"`
	ChangeDue         decimal.Decimal     `json:"change_due"`
	ReceiptPrintCount int                 `json:"receipt_print_count"`
	CreatedAt         time.Time           `json:"created_at"`
}

// CreditPaymentResponse is one recorded payment against a credit
type CreditPaymentResponse struct {
	ID            uuid.UUID           `json:"id"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod sales.PaymentMethod `json:"payment_method"`
	RecordedBy    uuid.UUID           `json:"recorded_by"`
	Remarks       string              `json:"remarks,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// CreditResponse is the API representation of a credit
type CreditResponse struct {
	ID            uuid.UUID               `json:"id"`
	SaleID        uuid.UUID               `json:"sale_id"`
	InvoiceNumber string                  `json:"invoice_number"`
	CustomerName  string                  `json:"customer_name"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	AmountPaid    decimal.Decimal         `json:"amount_paid"`
	Outstanding   decimal.Decimal         `json:"outstanding"`
	Status        sales.CreditStatus      `json:"status"`
	Payments      []CreditPaymentResponse `json:"payments"`
	CreatedAt     time.Time               `json:"created_at"`
}

// GateStatusResponse is the current gate state
type GateStatusResponse struct {
	State sales.GateState `json:"state"`
}

// GateLogResponse is one entry of the gate toggle history
type GateLogResponse struct {
	ID            uuid.UUID       `json:"id"`
	PreviousState sales.GateState `json:"previous_state"`
	NewState      sales.GateState `json:"new_state"`
	ActorID       uuid.UUID       `json:"actor_id"`
	ActorRole     sales.Role      `json:"actor_role"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToSaleResponse converts a sale aggregate to its API representation
func ToSaleResponse(s *sales.Sale) SaleResponse {
	lines := make([]SaleLineResponse, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, SaleLineResponse{
			ID:           line.ID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			SKU:          line.SKU,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice.Amount(),
			LineSubtotal: line.LineSubtotal.Amount(),
		})
	}
	return SaleResponse{
		ID:                s.ID,
		InvoiceNumber:     s.InvoiceNumber,
		CashierID:         s.CashierID,
		CustomerName:      s.CustomerName,
		Lines:             lines,
		Subtotal:          s.Subtotal.Amount(),
		DiscountAmount:    s.DiscountAmount.Amount(),
		VATPercent:        s.VATPercent,
		VATAmount:         s.VATAmount.Amount(),
		TotalAmount:       s.TotalAmount.Amount(),
		PaymentMethod:     s.PaymentMethod,
		AmountPaid:        s.AmountPaid.Amount(),
		ChangeDue:         s.ChangeDue.Amount(),
		ReceiptPrintCount: s.ReceiptPrintCount,
		CreatedAt:         s.CreatedAt,
	}
}

// ToCreditResponse converts a credit aggregate to its API representation
func ToCreditResponse(c *sales.Credit) CreditResponse {
	payments := make([]CreditPaymentResponse, 0, len(c.Payments))
	for _, p := range c.Payments {
		payments = append(payments, CreditPaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount.Amount(),
			PaymentMethod: p.PaymentMethod,
			RecordedBy:    p.RecordedBy,
			Remarks:       p.Remarks,
			CreatedAt:     p.CreatedAt,
		})
	}
	return CreditResponse{
		ID:            c.ID,
		SaleID:        c.SaleID,
		InvoiceNumber: c.InvoiceNumber,
		CustomerName:  c.CustomerName,
		TotalAmount:   c.TotalAmount.Amount(),
		AmountPaid:    c.AmountPaid.Amount(),
		Outstanding:   c.Outstanding.Amount(),
		Status:        c.Status,
		Payments:      payments,
		CreatedAt:     c.CreatedAt,
	}
}

// ToGateLogResponse converts a gate log entry to its API representation
func ToGateLogResponse(l *sales.GateLog) GateLogResponse {
	return GateLogResponse{
		ID:            l.ID,
		PreviousState: l.PreviousState,
		NewState:      l.NewState,
		ActorID:       l.ActorID,
		ActorRole:     l.ActorRole,
		Reason:        l.Reason,
		CreatedAt:     l.CreatedAt,
	}
}
