package sales

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// Deposit records money that entered a bank channel. Created automatically
// when a credit payment is settled by a digital method.
type Deposit struct {
	shared.BaseEntity
	Reference     string            `gorm:"size:50;not null;index"`
	Source        string            `gorm:"size:50;not null"`
	Amount        valueobject.Money `gorm:"type:decimal(12,2);not null"`
	PaymentMethod PaymentMethod     `gorm:"size:20;not null"`
	RecordedBy    uuid.UUID         `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Deposit) TableName() string {
	return "deposits"
}

// NewDepositForCreditPayment builds the deposit that mirrors a digital
// credit payment
func NewDepositForCreditPayment(invoiceNumber string, payment *CreditPayment) (*Deposit, error) {
	if !payment.PaymentMethod.IsDigital() {
		return nil, shared.NewDomainError("INVALID_STATE", "Deposits are only recorded for digital payment methods")
	}
	return &Deposit{
		BaseEntity:    shared.NewBaseEntity(),
		Reference:     invoiceNumber,
		Source:        "credit_payment",
		Amount:        payment.Amount,
		PaymentMethod: payment.PaymentMethod,
		RecordedBy:    payment.RecordedBy,
	}, nil
}
