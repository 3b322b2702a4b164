package sales

import (
	"context"

	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditTrailHandler writes a structured audit line for every business
// action. Durable audit storage is an external consumer; this handler only
// emits the trail.
type AuditTrailHandler struct {
	logger *zap.Logger
}

// NewAuditTrailHandler creates a new AuditTrailHandler
func NewAuditTrailHandler(logger *zap.Logger) *AuditTrailHandler {
	return &AuditTrailHandler{logger: logger.Named("audit")}
}

// EventTypes returns the event types this handler is interested in
func (h *AuditTrailHandler) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCompleted,
		sales.EventTypeSaleUpdated,
		sales.EventTypeReceiptPrinted,
		sales.EventTypeCreditCreated,
		sales.EventTypeCreditPaymentApplied,
		sales.EventTypeGateToggled,
	}
}

// Handle records the audit entry
func (h *AuditTrailHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("audit",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()))
	return nil
}
