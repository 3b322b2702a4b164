package sales

import (
	"context"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a sale
// touches. Everything executed within one scope commits or rolls back as a
// single atomic unit: the caller never observes a sale row without its stock
// deduction, or vice versa.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories scoped to
// the current transaction. Row locks taken through ProductRepo.FindForUpdate
// and CreditRepo.FindByIDForUpdate are held until the scope commits or
// rolls back.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() sales.SaleRepository
	// CreditRepo returns the credit repository scoped to the current transaction
	CreditRepo() sales.CreditRepository
	// GateLogRepo returns the gate log repository scoped to the current transaction
	GateLogRepo() sales.GateLogRepository
}

// NoOpTransactionScope runs the function against plain repositories without
// a real transaction. Useful for tests that don't exercise atomicity.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	saleRepo    sales.SaleRepository
	creditRepo  sales.CreditRepository
	gateLogRepo sales.GateLogRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	saleRepo sales.SaleRepository,
	creditRepo sales.CreditRepository,
	gateLogRepo sales.GateLogRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		creditRepo:  creditRepo,
		gateLogRepo: gateLogRepo,
	}
}

// Execute runs fn against the plain repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

// SaleRepo returns the sale repository
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository { return s.saleRepo }

// CreditRepo returns the credit repository
func (s *NoOpTransactionScope) CreditRepo() sales.CreditRepository { return s.creditRepo }

// GateLogRepo returns the gate log repository
func (s *NoOpTransactionScope) GateLogRepo() sales.GateLogRepository { return s.gateLogRepo }
