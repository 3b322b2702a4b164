package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService coordinates sale creation and update: gate check, product
// resolution, optimistic stock pre-check, then one atomic unit that locks
// products in ascending-ID order, re-validates stock under the locks,
// persists the sale and applies the deductions. Side effects (low-stock
// alerts, audit trail, deposits) run post-commit through the event bus and
// can never roll a committed sale back.
type SaleService struct {
	scope       TransactionScope
	productRepo catalog.ProductRepository
	saleRepo    sales.SaleRepository
	gate        *GateService
	publisher   shared.EventPublisher
	logger      *zap.Logger

	defaultVAT decimal.Decimal
	lockWait   time.Duration
}

// NewSaleService creates a new SaleService
func NewSaleService(
	scope TransactionScope,
	productRepo catalog.ProductRepository,
	saleRepo sales.SaleRepository,
	gate *GateService,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		scope:       scope,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		gate:        gate,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for post-commit side effects
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetDefaultVATPercent sets the VAT rate applied when a request carries none
func (s *SaleService) SetDefaultVATPercent(percent decimal.Decimal) {
	s.defaultVAT = percent
}

// SetLockWaitTimeout bounds how long a sale may wait on product row locks
func (s *SaleService) SetLockWaitTimeout(d time.Duration) {
	s.lockWait = d
}

// vatPercent returns the request's VAT rate, falling back to the configured
// default when the request carries zero
func (s *SaleService) vatPercent(requested decimal.Decimal) decimal.Decimal {
	if requested.IsZero() && !s.defaultVAT.IsZero() {
		return s.defaultVAT
	}
	return requested
}

// execute runs fn in the transaction scope, bounded by the lock wait
// timeout. A deadline hit surfaces as a lock timeout rejection.
func (s *SaleService) execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	if s.lockWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lockWait)
		defer cancel()
	}
	err := s.scope.Execute(ctx, fn)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return shared.ErrLockTimeout
	}
	return err
}

// resolvedLine is a cart line after product resolution, with the unit price
// snapshotted for the life of the sale
type resolvedLine struct {
	product   *catalog.Product
	quantity  int64
	unitPrice decimal.Decimal
}

// CreateSale converts a cart into a persisted sale, deducting stock in the
// same atomic unit. Exactly one of three outcomes is observable: the full
// sale with all its deductions, a typed rejection, or a gate refusal.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	if !s.gate.CanCreateSale(req.CashierRole) {
		return nil, shared.ErrGateClosed
	}
	if err := sales.ValidateSalePaymentMethod(req.PaymentMethod); err != nil {
		return nil, err
	}
	if req.CashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cashier reference is required")
	}

	resolved, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	// Optimistic pre-check on unlocked reads. Cheap rejection only; the
	// authoritative check happens again under the row locks.
	if err := precheckStock(resolved); err != nil {
		return nil, err
	}

	vat := s.vatPercent(req.VATPercent)
	pricing, err := sales.CalculatePricing(sales.PricingInput{
		Lines:          priceLines(resolved),
		DiscountAmount: req.DiscountAmount,
		VATPercent:     vat,
		AmountTendered: req.AmountPaid,
	})
	if err != nil {
		return nil, err
	}

	var sale *sales.Sale
	var events []shared.DomainEvent

	err = s.execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := lockProducts(ctx, repos, resolved)
		if err != nil {
			return err
		}

		// Re-validate and deduct under lock. Any failure aborts the whole
		// unit; partial deduction across lines is never observable.
		for _, line := range resolved {
			if err := locked[line.product.ID].Deduct(line.quantity); err != nil {
				return err
			}
		}

		saleLines, err := buildSaleLines(resolved)
		if err != nil {
			return err
		}

		sale, err = sales.NewSale(req.CashierID, req.CustomerName, req.PaymentMethod, saleLines, pricing, vat, req.AmountPaid)
		if err != nil {
			return err
		}
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}
		for _, p := range locked {
			if err := repos.ProductRepo().Update(ctx, p); err != nil {
				return err
			}
		}

		if sale.RequiresCredit() {
			credit, err := sales.NewCreditForSale(sale)
			if err != nil {
				return err
			}
			if err := repos.CreditRepo().Create(ctx, credit); err != nil {
				return err
			}
			events = append(events, drainEvents(&credit.BaseAggregateRoot)...)
		}

		events = append(events, drainEvents(&sale.BaseAggregateRoot)...)
		for _, p := range locked {
			events = append(events, drainEvents(&p.BaseAggregateRoot)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale completed",
		zap.String("invoice", sale.InvoiceNumber),
		zap.String("cashier_id", sale.CashierID.String()),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(sale.Lines)))

	s.publishEvents(ctx, events)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// UpdateSale replaces an existing sale's lines. Stock for the old lines is
// restored and stock for the new lines deducted inside one atomic unit; if
// the new lines fail validation the restore rolls back with everything else
// and the original sale stands untouched.
func (s *SaleService) UpdateSale(ctx context.Context, req UpdateSaleRequest) (*SaleResponse, error) {
	if err := sales.ValidateSalePaymentMethod(req.PaymentMethod); err != nil {
		return nil, err
	}

	resolved, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	vat := s.vatPercent(req.VATPercent)
	pricing, err := sales.CalculatePricing(sales.PricingInput{
		Lines:          priceLines(resolved),
		DiscountAmount: req.DiscountAmount,
		VATPercent:     vat,
		AmountTendered: req.AmountPaid,
	})
	if err != nil {
		return nil, err
	}

	var sale *sales.Sale
	var events []shared.DomainEvent

	err = s.execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, req.SaleID)
		if err != nil {
			return err
		}

		// Lock the union of old and new products so both the restore and
		// the deduction happen under the same locks.
		ids := make([]uuid.UUID, 0, len(sale.Lines)+len(resolved))
		for _, old := range sale.Lines {
			ids = append(ids, old.ProductID)
		}
		for _, line := range resolved {
			ids = append(ids, line.product.ID)
		}
		lockedList, err := repos.ProductRepo().FindForUpdate(ctx, dedupe(ids))
		if err != nil {
			return err
		}
		locked := indexByID(lockedList)

		for _, old := range sale.Lines {
			p, ok := locked[old.ProductID]
			if !ok {
				return shared.NewDomainError("NOT_FOUND", "Product from original sale no longer exists: "+old.ProductName)
			}
			if err := p.Restore(old.Quantity); err != nil {
				return err
			}
		}
		for _, line := range resolved {
			p, ok := locked[line.product.ID]
			if !ok {
				return shared.NewDomainError("NOT_FOUND", "Product not found under lock: "+line.product.Name)
			}
			if err := p.Deduct(line.quantity); err != nil {
				return err
			}
		}

		if err := repos.SaleRepo().DeleteLines(ctx, sale.ID); err != nil {
			return err
		}

		saleLines, err := buildSaleLines(resolved)
		if err != nil {
			return err
		}
		if err := sale.ReplaceLines(saleLines, pricing, vat, req.PaymentMethod, req.AmountPaid); err != nil {
			return err
		}
		sale.CustomerName = strings.TrimSpace(req.CustomerName)

		if err := repos.SaleRepo().Update(ctx, sale); err != nil {
			return err
		}
		for _, p := range locked {
			if err := repos.ProductRepo().Update(ctx, p); err != nil {
				return err
			}
		}

		if sale.RequiresCredit() {
			if _, err := repos.CreditRepo().FindBySaleID(ctx, sale.ID); err != nil {
				if !errors.Is(err, shared.ErrNotFound) {
					return err
				}
				credit, err := sales.NewCreditForSale(sale)
				if err != nil {
					return err
				}
				if err := repos.CreditRepo().Create(ctx, credit); err != nil {
					return err
				}
				events = append(events, drainEvents(&credit.BaseAggregateRoot)...)
			}
		}

		events = append(events, drainEvents(&sale.BaseAggregateRoot)...)
		for _, p := range locked {
			events = append(events, drainEvents(&p.BaseAggregateRoot)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale updated",
		zap.String("invoice", sale.InvoiceNumber),
		zap.String("total", sale.TotalAmount.StringFixed(2)))

	s.publishEvents(ctx, events)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// RecordReceiptPrint bumps the sale's print counter
func (s *SaleService) RecordReceiptPrint(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *sales.Sale
	var events []shared.DomainEvent

	err := s.execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		sale.RecordReceiptPrint()
		if err := repos.SaleRepo().Update(ctx, sale); err != nil {
			return err
		}
		events = drainEvents(&sale.BaseAggregateRoot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// GetSale retrieves a sale by ID
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// GetSaleByInvoice retrieves a sale by invoice number
func (s *SaleService) GetSaleByInvoice(ctx context.Context, invoiceNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// ListSales retrieves sales matching the filter
func (s *SaleService) ListSales(ctx context.Context, filter shared.Filter) (shared.Paginated[SaleResponse], error) {
	page, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[SaleResponse]{}, err
	}
	items := make([]SaleResponse, 0, len(page.Items))
	for _, sale := range page.Items {
		items = append(items, ToSaleResponse(sale))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// resolveLines turns raw line inputs into resolved products with snapshot
// prices. Resolution is by ID first, then case-insensitive name, then SKU.
func (s *SaleService) resolveLines(ctx context.Context, inputs []SaleLineInput) ([]resolvedLine, error) {
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale must contain at least one line item")
	}

	resolved := make([]resolvedLine, 0, len(inputs))
	for _, input := range inputs {
		if input.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Line item quantity must be positive")
		}
		ref, err := catalog.ParseProductRef(input.ProductID, input.ProductName, input.SKU)
		if err != nil {
			return nil, err
		}
		product, err := s.productRepo.Resolve(ctx, ref)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND", "Unknown product reference: "+ref.String())
			}
			return nil, err
		}

		unitPrice := product.SellingPrice
		if input.UnitPrice != nil {
			if input.UnitPrice.IsNegative() {
				return nil, shared.NewDomainError("INVALID_INPUT", "Line item unit price cannot be negative")
			}
			unitPrice = *input.UnitPrice
		}

		resolved = append(resolved, resolvedLine{
			product:   product,
			quantity:  input.Quantity,
			unitPrice: unitPrice,
		})
	}
	return resolved, nil
}

// publishEvents fires post-commit events. Handler failures are logged and
// never affect the already-committed sale.
func (s *SaleService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// precheckStock aggregates requested quantities per product and rejects
// requests that an unlocked read already shows cannot be satisfied
func precheckStock(resolved []resolvedLine) error {
	wanted := make(map[uuid.UUID]int64)
	for _, line := range resolved {
		wanted[line.product.ID] += line.quantity
	}
	for _, line := range resolved {
		if !line.product.CanFulfill(wanted[line.product.ID]) {
			return &catalog.InsufficientStockError{
				ProductID:   line.product.ID,
				ProductName: line.product.Name,
				Requested:   wanted[line.product.ID],
				Available:   line.product.Quantity,
			}
		}
	}
	return nil
}

// lockProducts acquires row locks on every product the resolved lines
// reference. FindForUpdate sorts ids ascending so concurrent multi-line
// sales cannot deadlock on lock order.
func lockProducts(ctx context.Context, repos TransactionalRepositories, resolved []resolvedLine) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(resolved))
	for _, line := range resolved {
		ids = append(ids, line.product.ID)
	}
	products, err := repos.ProductRepo().FindForUpdate(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}

	locked := indexByID(products)
	for _, line := range resolved {
		if _, ok := locked[line.product.ID]; !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found under lock: "+line.product.Name)
		}
	}
	return locked, nil
}

// buildSaleLines snapshots the resolved products into sale lines
func buildSaleLines(resolved []resolvedLine) ([]sales.SaleLine, error) {
	lines := make([]sales.SaleLine, 0, len(resolved))
	for _, line := range resolved {
		saleLine, err := sales.NewSaleLine(line.product.ID, line.product.Name, line.product.SKU, line.quantity, line.unitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, saleLine)
	}
	return lines, nil
}

// priceLines projects resolved lines into pricing calculator input
func priceLines(resolved []resolvedLine) []sales.PriceLine {
	lines := make([]sales.PriceLine, 0, len(resolved))
	for _, line := range resolved {
		lines = append(lines, sales.PriceLine{Quantity: line.quantity, UnitPrice: line.unitPrice})
	}
	return lines
}

// drainEvents collects and clears an aggregate's pending events
func drainEvents(root *shared.BaseAggregateRoot) []shared.DomainEvent {
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	return events
}

// dedupe removes duplicate ids while preserving first-seen order
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// indexByID maps products by their ID
func indexByID(products []*catalog.Product) map[uuid.UUID]*catalog.Product {
	m := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}
