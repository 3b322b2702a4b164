package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// CreditStatus is derived purely from amount_paid and outstanding.
// It is never set independently.
type CreditStatus string

const (
	CreditPending       CreditStatus = "pending"
	CreditPartiallyPaid CreditStatus = "partially_paid"
	CreditCleared       CreditStatus = "cleared"
)

// DefaultCreditCustomer labels credit records with no customer name
const DefaultCreditCustomer = "Walk-in Customer"

// DeriveCreditStatus computes the status from the two amounts.
// Outstanding at or below zero means cleared, any payment means
// partially paid, otherwise pending.
func DeriveCreditStatus(amountPaid, outstanding valueobject.Money) CreditStatus {
	if !outstanding.IsPositive() {
		return CreditCleared
	}
	if amountPaid.IsPositive() {
		return CreditPartiallyPaid
	}
	return CreditPending
}

// Credit tracks the unpaid balance of a sale settled on credit.
// One-to-one with its sale, mutated only through ApplyPayment under
// a row lock held by the enclosing transaction.
type Credit struct {
	shared.BaseAggregateRoot
	SaleID        uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null"`
	InvoiceNumber string            `gorm:"size:20;not null;index"`
	CustomerName  string            `gorm:"size:100;not null"`
	TotalAmount   valueobject.Money `gorm:"type:decimal(12,2);not null"`
	AmountPaid    valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Outstanding   valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Status        CreditStatus      `gorm:"size:20;not null;index"`
	Payments      []CreditPayment   `gorm:"foreignKey:CreditID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Credit) TableName() string {
	return "credits"
}

// CreditPayment is an append-only record of one payment against a credit
type CreditPayment struct {
	shared.BaseEntity
	CreditID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount        valueobject.Money `gorm:"type:decimal(12,2);not null"`
	PaymentMethod PaymentMethod     `gorm:"size:20;not null"`
	RecordedBy    uuid.UUID         `gorm:"type:uuid;not null"`
	Remarks       string            `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (CreditPayment) TableName() string {
	return "credit_payments"
}

// NewCreditForSale creates the credit record that accompanies a credit sale.
// The amount already tendered at the till counts as paid.
func NewCreditForSale(sale *Sale) (*Credit, error) {
	if !sale.RequiresCredit() {
		return nil, shared.NewDomainError("INVALID_STATE", "Sale was not made on credit")
	}

	customer := sale.CustomerName
	if customer == "" {
		customer = DefaultCreditCustomer
	}

	outstanding := sale.OutstandingAmount()
	if outstanding.IsNegative() {
		outstanding = valueobject.ZeroNGN()
	}

	credit := &Credit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            sale.ID,
		InvoiceNumber:     sale.InvoiceNumber,
		CustomerName:      customer,
		TotalAmount:       sale.TotalAmount,
		AmountPaid:        sale.AmountPaid,
		Outstanding:       outstanding,
		Status:            DeriveCreditStatus(sale.AmountPaid, outstanding),
	}
	credit.AddDomainEvent(NewCreditCreatedEvent(credit))
	return credit, nil
}

// ApplyPayment records a payment against the outstanding balance. Amount
// must be positive and must not exceed the outstanding balance. The parent
// totals, the derived status and the appended payment row change as one step.
func (c *Credit) ApplyPayment(amount valueobject.Money, method PaymentMethod, recordedBy uuid.UUID, remarks string) (*CreditPayment, error) {
	if err := ValidateCreditPaymentMethod(method); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	exceeds, err := c.Outstanding.LessThan(amount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment currency does not match credit currency")
	}
	if exceeds {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment amount exceeds outstanding balance")
	}

	c.AmountPaid = c.AmountPaid.MustAdd(amount)
	c.Outstanding = c.Outstanding.MustSubtract(amount)
	c.Status = DeriveCreditStatus(c.AmountPaid, c.Outstanding)
	c.UpdatedAt = time.Now()

	payment := CreditPayment{
		BaseEntity:    shared.NewBaseEntity(),
		CreditID:      c.ID,
		Amount:        amount,
		PaymentMethod: method,
		RecordedBy:    recordedBy,
		Remarks:       remarks,
	}
	c.Payments = append(c.Payments, payment)

	c.AddDomainEvent(NewCreditPaymentAppliedEvent(c, &payment))
	return &payment, nil
}
