package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	// Create persists a new sale with its lines
	Create(ctx context.Context, sale *Sale) error

	// Update persists changes to an existing sale
	Update(ctx context.Context, sale *Sale) error

	// FindByID retrieves a sale with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByInvoiceNumber retrieves a sale by its invoice identifier
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Sale, error)

	// DeleteLines removes the sale's current lines, used by the update path
	DeleteLines(ctx context.Context, saleID uuid.UUID) error

	// List retrieves sales matching the filter
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*Sale], error)
}

// CreditRepository defines persistence operations for credits
type CreditRepository interface {
	// Create persists a new credit
	Create(ctx context.Context, credit *Credit) error

	// Update persists changes to an existing credit and its payments
	Update(ctx context.Context, credit *Credit) error

	// FindByID retrieves a credit with its payments
	FindByID(ctx context.Context, id uuid.UUID) (*Credit, error)

	// FindByIDForUpdate retrieves a credit under a row lock so payment
	// application is serialized per credit
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Credit, error)

	// FindBySaleID retrieves the credit attached to a sale
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*Credit, error)

	// List retrieves credits matching the filter, optionally by status
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*Credit], error)
}

// DepositRepository defines persistence operations for deposits
type DepositRepository interface {
	// Create persists a new deposit
	Create(ctx context.Context, deposit *Deposit) error

	// List retrieves deposits matching the filter
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*Deposit], error)
}

// GateLogRepository defines persistence operations for the gate history
type GateLogRepository interface {
	// Append persists a new gate log entry
	Append(ctx context.Context, log *GateLog) error

	// Latest returns the most recent entry, or nil when the log is empty
	Latest(ctx context.Context) (*GateLog, error)

	// History retrieves log entries, newest first
	History(ctx context.Context, filter shared.Filter) (shared.Paginated[*GateLog], error)
}
