package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DepositService reads the deposit book. Deposits are written only by the
// post-commit payment handler, so this service is query-only.
type DepositService struct {
	depositRepo sales.DepositRepository
	logger      *zap.Logger
}

// NewDepositService creates a new DepositService
func NewDepositService(depositRepo sales.DepositRepository, logger *zap.Logger) *DepositService {
	return &DepositService{
		depositRepo: depositRepo,
		logger:      logger,
	}
}

// DepositResponse is the API representation of a deposit
type DepositResponse struct {
	ID            uuid.UUID           `json:"id"`
	Reference     string              `json:"reference"`
	Source        string              `json:"source"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod sales.PaymentMethod `json:"payment_method"`
	RecordedBy    uuid.UUID           `json:"recorded_by"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ToDepositResponse converts a deposit to its API representation
func ToDepositResponse(d *sales.Deposit) DepositResponse {
	return DepositResponse{
		ID:            d.ID,
		Reference:     d.Reference,
		Source:        d.Source,
		Amount:        d.Amount.Amount(),
		PaymentMethod: d.PaymentMethod,
		RecordedBy:    d.RecordedBy,
		CreatedAt:     d.CreatedAt,
	}
}

// ListDeposits retrieves deposits matching the filter
func (s *DepositService) ListDeposits(ctx context.Context, filter shared.Filter) (shared.Paginated[DepositResponse], error) {
	page, err := s.depositRepo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[DepositResponse]{}, err
	}
	items := make([]DepositResponse, 0, len(page.Items))
	for _, deposit := range page.Items {
		items = append(items, ToDepositResponse(deposit))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}
