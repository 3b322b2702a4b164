package sales

import "github.com/retailpos/backend/internal/domain/shared"

// PaymentMethod is how a sale or credit payment is settled
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentPOS      PaymentMethod = "pos"
	PaymentBank     PaymentMethod = "bank"
	PaymentCredit   PaymentMethod = "credit"
)

// ValidateSalePaymentMethod checks the methods accepted at the till
func ValidateSalePaymentMethod(m PaymentMethod) error {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentPOS, PaymentCredit:
		return nil
	}
	return shared.NewDomainError("INVALID_INPUT", "Unsupported payment method: "+string(m))
}

// ValidateCreditPaymentMethod checks the methods accepted for settling credit
func ValidateCreditPaymentMethod(m PaymentMethod) error {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentPOS, PaymentBank:
		return nil
	}
	return shared.NewDomainError("INVALID_INPUT", "Unsupported credit payment method: "+string(m))
}

// IsDigital reports whether the method moves money through a bank channel.
// Digital credit payments produce a deposit record as a side effect.
func (m PaymentMethod) IsDigital() bool {
	switch m {
	case PaymentTransfer, PaymentPOS, PaymentBank:
		return true
	}
	return false
}

// Role is the caller's role as asserted by the upstream gateway
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
)

// IsPrivileged reports whether the role may sell through a stopped gate
// and toggle the gate itself
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleManager
}
