package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CreditService applies payments against outstanding credits. Each payment
// runs under a row lock on the credit so the derived status and the
// appended payment row commit as one step.
type CreditService struct {
	scope      TransactionScope
	creditRepo sales.CreditRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewCreditService creates a new CreditService
func NewCreditService(scope TransactionScope, creditRepo sales.CreditRepository, logger *zap.Logger) *CreditService {
	return &CreditService{
		scope:      scope,
		creditRepo: creditRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for post-commit side effects
func (s *CreditService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// ApplyPayment settles part of a credit's outstanding balance
func (s *CreditService) ApplyPayment(ctx context.Context, req ApplyCreditPaymentRequest) (*CreditResponse, error) {
	if req.RecordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Recorder reference is required")
	}

	var credit *sales.Credit
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		credit, err = repos.CreditRepo().FindByIDForUpdate(ctx, req.CreditID)
		if err != nil {
			return err
		}

		amount := valueobject.NewMoneyNGN(req.Amount)
		if _, err := credit.ApplyPayment(amount, req.PaymentMethod, req.RecordedBy, req.Remarks); err != nil {
			return err
		}
		if err := repos.CreditRepo().Update(ctx, credit); err != nil {
			return err
		}
		events = drainEvents(&credit.BaseAggregateRoot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("credit payment applied",
		zap.String("invoice", credit.InvoiceNumber),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("outstanding", credit.Outstanding.StringFixed(2)),
		zap.String("status", string(credit.Status)))

	if s.publisher != nil && len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish credit events", zap.Error(err))
		}
	}

	resp := ToCreditResponse(credit)
	return &resp, nil
}

// GetCredit retrieves a credit with its payment history
func (s *CreditService) GetCredit(ctx context.Context, id uuid.UUID) (*CreditResponse, error) {
	credit, err := s.creditRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCreditResponse(credit)
	return &resp, nil
}

// GetCreditBySale retrieves the credit attached to a sale
func (s *CreditService) GetCreditBySale(ctx context.Context, saleID uuid.UUID) (*CreditResponse, error) {
	credit, err := s.creditRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	resp := ToCreditResponse(credit)
	return &resp, nil
}

// ListCredits retrieves credits matching the filter. Pass status via
// filter.Filters["status"] to narrow to pending, partially_paid or cleared.
func (s *CreditService) ListCredits(ctx context.Context, filter shared.Filter) (shared.Paginated[CreditResponse], error) {
	page, err := s.creditRepo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[CreditResponse]{}, err
	}
	items := make([]CreditResponse, 0, len(page.Items))
	for _, credit := range page.Items {
		items = append(items, ToCreditResponse(credit))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}
