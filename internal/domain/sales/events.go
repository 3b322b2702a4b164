package sales

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Event types for the sales context
const (
	EventTypeSaleCompleted        = "sales.sale.completed"
	EventTypeSaleUpdated          = "sales.sale.updated"
	EventTypeReceiptPrinted       = "sales.sale.receipt_printed"
	EventTypeCreditCreated        = "sales.credit.created"
	EventTypeCreditPaymentApplied = "sales.credit.payment_applied"
	EventTypeGateToggled          = "sales.gate.toggled"
)

// SaleCompletedEvent is raised when a sale commits with its stock deduction
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string        `json:"invoice_number"`
	CashierID     uuid.UUID     `json:"cashier_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Total         string        `json:"total"`
	LineCount     int           `json:"line_count"`
}

// NewSaleCompletedEvent creates a new sale completed event
func NewSaleCompletedEvent(s *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, "Sale", s.ID),
		InvoiceNumber:   s.InvoiceNumber,
		CashierID:       s.CashierID,
		PaymentMethod:   s.PaymentMethod,
		Total:           s.TotalAmount.StringFixed(2),
		LineCount:       len(s.Lines),
	}
}

// SaleUpdatedEvent is raised when a sale's lines are replaced
type SaleUpdatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Total         string `json:"total"`
	LineCount     int    `json:"line_count"`
}

// NewSaleUpdatedEvent creates a new sale updated event
func NewSaleUpdatedEvent(s *Sale) *SaleUpdatedEvent {
	return &SaleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleUpdated, "Sale", s.ID),
		InvoiceNumber:   s.InvoiceNumber,
		Total:           s.TotalAmount.StringFixed(2),
		LineCount:       len(s.Lines),
	}
}

// ReceiptPrintedEvent is raised each time a receipt copy is printed
type ReceiptPrintedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	PrintCount    int    `json:"print_count"`
}

// NewReceiptPrintedEvent creates a new receipt printed event
func NewReceiptPrintedEvent(s *Sale) *ReceiptPrintedEvent {
	return &ReceiptPrintedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptPrinted, "Sale", s.ID),
		InvoiceNumber:   s.InvoiceNumber,
		PrintCount:      s.ReceiptPrintCount,
	}
}

// CreditCreatedEvent is raised when a credit sale produces its credit record
type CreditCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string       `json:"invoice_number"`
	CustomerName  string       `json:"customer_name"`
	Outstanding   string       `json:"outstanding"`
	Status        CreditStatus `json:"status"`
}

// NewCreditCreatedEvent creates a new credit created event
func NewCreditCreatedEvent(c *Credit) *CreditCreatedEvent {
	return &CreditCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditCreated, "Credit", c.ID),
		InvoiceNumber:   c.InvoiceNumber,
		CustomerName:    c.CustomerName,
		Outstanding:     c.Outstanding.StringFixed(2),
		Status:          c.Status,
	}
}

// CreditPaymentAppliedEvent is raised when a payment settles part of a credit.
// Digital marks payments that should produce a deposit record.
type CreditPaymentAppliedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string        `json:"invoice_number"`
	PaymentID     uuid.UUID     `json:"payment_id"`
	Amount        string        `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	RecordedBy    uuid.UUID     `json:"recorded_by"`
	Digital       bool          `json:"digital"`
	Outstanding   string        `json:"outstanding"`
	Status        CreditStatus  `json:"status"`
}

// NewCreditPaymentAppliedEvent creates a new credit payment applied event
func NewCreditPaymentAppliedEvent(c *Credit, p *CreditPayment) *CreditPaymentAppliedEvent {
	return &CreditPaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditPaymentApplied, "Credit", c.ID),
		InvoiceNumber:   c.InvoiceNumber,
		PaymentID:       p.ID,
		Amount:          p.Amount.StringFixed(2),
		PaymentMethod:   p.PaymentMethod,
		RecordedBy:      p.RecordedBy,
		Digital:         p.PaymentMethod.IsDigital(),
		Outstanding:     c.Outstanding.StringFixed(2),
		Status:          c.Status,
	}
}

// GateToggledEvent is raised when the sale gate changes state
type GateToggledEvent struct {
	shared.BaseDomainEvent
	PreviousState GateState `json:"previous_state"`
	NewState      GateState `json:"new_state"`
	ActorID       uuid.UUID `json:"actor_id"`
	Reason        string    `json:"reason"`
}

// NewGateToggledEvent creates a new gate toggled event
func NewGateToggledEvent(log *GateLog) *GateToggledEvent {
	return &GateToggledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGateToggled, "GateLog", log.ID),
		PreviousState:   log.PreviousState,
		NewState:        log.NewState,
		ActorID:         log.ActorID,
		Reason:          log.Reason,
	}
}
