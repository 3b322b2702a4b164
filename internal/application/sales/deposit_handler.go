package sales

import (
	"context"

	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// DepositOnPaymentHandler records a deposit whenever a credit payment is
// settled through a digital channel. It runs post-commit: a deposit failure
// is logged and retried by operations, never rolled into the payment.
type DepositOnPaymentHandler struct {
	depositRepo sales.DepositRepository
	logger      *zap.Logger
}

// NewDepositOnPaymentHandler creates a new DepositOnPaymentHandler
func NewDepositOnPaymentHandler(depositRepo sales.DepositRepository, logger *zap.Logger) *DepositOnPaymentHandler {
	return &DepositOnPaymentHandler{
		depositRepo: depositRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *DepositOnPaymentHandler) EventTypes() []string {
	return []string{sales.EventTypeCreditPaymentApplied}
}

// Handle records the mirroring deposit for digital payments
func (h *DepositOnPaymentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	applied, ok := event.(*sales.CreditPaymentAppliedEvent)
	if !ok || !applied.Digital {
		return nil
	}

	amount, err := valueobject.NewMoneyNGNFromString(applied.Amount)
	if err != nil {
		return err
	}

	payment := &sales.CreditPayment{
		BaseEntity:    shared.NewBaseEntity(),
		Amount:        amount,
		PaymentMethod: applied.PaymentMethod,
		RecordedBy:    applied.RecordedBy,
	}
	deposit, err := sales.NewDepositForCreditPayment(applied.InvoiceNumber, payment)
	if err != nil {
		return err
	}
	if err := h.depositRepo.Create(ctx, deposit); err != nil {
		h.logger.Error("failed to record deposit for credit payment",
			zap.String("invoice", applied.InvoiceNumber),
			zap.String("amount", applied.Amount),
			zap.Error(err))
		return err
	}

	h.logger.Info("deposit recorded for digital credit payment",
		zap.String("invoice", applied.InvoiceNumber),
		zap.String("amount", applied.Amount),
		zap.String("method", string(applied.PaymentMethod)))
	return nil
}
