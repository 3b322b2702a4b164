package sales

import (
	"context"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler reacts to stock falling to or below a product's threshold.
// It runs post-commit; the actual notification delivery (email, dashboard)
// belongs to an external collaborator that consumes these log lines or
// subscribes alongside this handler.
type LowStockHandler struct {
	logger *zap.Logger
}

// NewLowStockHandler creates a new LowStockHandler
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockBelowThreshold}
}

// Handle processes a low stock event
func (h *LowStockHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*catalog.StockBelowThresholdEvent)
	if !ok {
		return nil
	}
	h.logger.Warn("product stock below threshold",
		zap.String("product_id", alert.AggregateID().String()),
		zap.String("product", alert.ProductName),
		zap.String("sku", alert.SKU),
		zap.Int64("quantity", alert.Quantity),
		zap.Int64("threshold", alert.Threshold))
	return nil
}
