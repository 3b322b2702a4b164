package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stack holds the application services wired against one test database,
// mirroring the composition in cmd/server.
type stack struct {
	products *catalogapp.ProductService
	sales    *salesapp.SaleService
	credits  *salesapp.CreditService
	deposits *salesapp.DepositService
	gate     *salesapp.GateService
}

func newStack(t *testing.T) *stack {
	t.Helper()

	db := NewTestDB(t)
	log := zap.NewNop()
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	creditRepo := persistence.NewGormCreditRepository(db.DB)
	depositRepo := persistence.NewGormDepositRepository(db.DB)
	gateLogRepo := persistence.NewGormGateLogRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	bus := event.NewInMemoryEventBus(log)
	depositOnPayment := salesapp.NewDepositOnPaymentHandler(depositRepo, log)
	bus.Subscribe(depositOnPayment, depositOnPayment.EventTypes()...)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(ctx) })

	gate := salesapp.NewGateService(gateLogRepo, cache.NewGateFlag(), log)
	require.NoError(t, gate.Init(ctx))

	saleSvc := salesapp.NewSaleService(scope, productRepo, saleRepo, gate, log)
	saleSvc.SetEventPublisher(bus)

	creditSvc := salesapp.NewCreditService(scope, creditRepo, log)
	creditSvc.SetEventPublisher(bus)

	productSvc := catalogapp.NewProductService(productRepo, log)
	productSvc.SetEventPublisher(bus)

	return &stack{
		products: productSvc,
		sales:    saleSvc,
		credits:  creditSvc,
		deposits: salesapp.NewDepositService(depositRepo, log),
		gate:     gate,
	}
}

func (s *stack) seedProduct(t *testing.T, name, sku string, qty, price int64) *catalogapp.ProductResponse {
	t.Helper()
	resp, err := s.products.CreateProduct(context.Background(), catalogapp.CreateProductRequest{
		Name:              name,
		Category:          "General",
		SKU:               sku,
		Quantity:          qty,
		CostPrice:         decimal.NewFromInt(price).Mul(decimal.NewFromFloat(0.9)).Round(2),
		SellingPrice:      decimal.NewFromInt(price),
		LowStockThreshold: 5,
	})
	require.NoError(t, err)
	return resp
}

func (s *stack) stockOf(t *testing.T, sku string) int64 {
	t.Helper()
	resp, err := s.products.GetProductBySKU(context.Background(), sku)
	require.NoError(t, err)
	return resp.Quantity
}

func TestCashSaleDeductsStock(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.seedProduct(t, "Bag of Rice 50kg", "RICE-50KG", 40, 42000)
	s.seedProduct(t, "Peak Milk", "MILK-01", 12, 300)

	resp, err := s.sales.CreateSale(ctx, salesapp.CreateSaleRequest{
		CashierID:     uuid.New(),
		CashierRole:   sales.RoleCashier,
		PaymentMethod: sales.PaymentCash,
		AmountPaid:    decimal.NewFromInt(90000),
		Lines: []salesapp.SaleLineInput{
			{SKU: "RICE-50KG", Quantity: 2},
			{ProductName: "Peak Milk", Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.InvoiceNumber, "INV-"))
	assert.Equal(t, "84900.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "84900.00", resp.TotalAmount.StringFixed(2))
	assert.Equal(t, "5100.00", resp.ChangeDue.StringFixed(2))
	require.Len(t, resp.Lines, 2)

	assert.Equal(t, int64(38), s.stockOf(t, "RICE-50KG"))
	assert.Equal(t, int64(9), s.stockOf(t, "MILK-01"))

	byInvoice, err := s.sales.GetSaleByInvoice(ctx, resp.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, byInvoice.ID)
	assert.Len(t, byInvoice.Lines, 2)
}

func TestInsufficientStockRejectsWholeSale(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.seedProduct(t, "Bag of Rice 50kg", "RICE-50KG", 40, 42000)
	s.seedProduct(t, "Peak Milk", "MILK-01", 12, 300)

	_, err := s.sales.CreateSale(ctx, salesapp.CreateSaleRequest{
		CashierID:     uuid.New(),
		CashierRole:   sales.RoleCashier,
		PaymentMethod: sales.PaymentCash,
		AmountPaid:    decimal.NewFromInt(100000),
		Lines: []salesapp.SaleLineInput{
			{SKU: "RICE-50KG", Quantity: 2},
			{SKU: "MILK-01", Quantity: 13},
		},
	})
	require.Error(t, err)

	var stockErr *catalog.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(13), stockErr.Requested)
	assert.Equal(t, int64(12), stockErr.Available)

	// No partial deduction is ever observable
	assert.Equal(t, int64(40), s.stockOf(t, "RICE-50KG"))
	assert.Equal(t, int64(12), s.stockOf(t, "MILK-01"))
}

func TestCreditSaleLifecycle(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.seedProduct(t, "Bag of Rice 50kg", "RICE-50KG", 40, 42000)

	sale, err := s.sales.CreateSale(ctx, salesapp.CreateSaleRequest{
		CashierID:     uuid.New(),
		CashierRole:   sales.RoleCashier,
		CustomerName:  "Mrs Adeoye",
		PaymentMethod: sales.PaymentCredit,
		AmountPaid:    decimal.NewFromInt(20000),
		Lines: []salesapp.SaleLineInput{
			{SKU: "RICE-50KG", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(38), s.stockOf(t, "RICE-50KG"))

	credit, err := s.credits.GetCreditBySale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.InvoiceNumber, credit.InvoiceNumber)
	assert.Equal(t, "Mrs Adeoye", credit.CustomerName)
	assert.Equal(t, "64000.00", credit.Outstanding.StringFixed(2))
	assert.Equal(t, sales.CreditPartiallyPaid, credit.Status)

	settled, err := s.credits.ApplyPayment(ctx, salesapp.ApplyCreditPaymentRequest{
		CreditID:      credit.ID,
		Amount:        decimal.NewFromInt(64000),
		PaymentMethod: sales.PaymentTransfer,
		RecordedBy:    uuid.New(),
		Remarks:       "balance cleared",
	})
	require.NoError(t, err)
	assert.Equal(t, sales.CreditCleared, settled.Status)
	assert.True(t, settled.Outstanding.IsZero())
	require.Len(t, settled.Payments, 1)

	// A digital settlement leaves a matching deposit behind
	deposits, err := s.deposits.ListDeposits(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Equal(t, int64(1), deposits.Total)
	assert.Equal(t, "64000.00", deposits.Items[0].Amount.StringFixed(2))
	assert.Equal(t, sales.PaymentTransfer, deposits.Items[0].PaymentMethod)
}

func TestStoppedGateBlocksCashiers(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.seedProduct(t, "Peak Milk", "MILK-01", 12, 300)

	manager := uuid.New()
	_, err := s.gate.Toggle(ctx, salesapp.ToggleGateRequest{
		ActorID: manager,
		Role:    sales.RoleManager,
		State:   sales.GateStopped,
		Reason:  "stock audit",
	})
	require.NoError(t, err)

	req := salesapp.CreateSaleRequest{
		CashierID:     uuid.New(),
		CashierRole:   sales.RoleCashier,
		PaymentMethod: sales.PaymentCash,
		AmountPaid:    decimal.NewFromInt(300),
		Lines: []salesapp.SaleLineInput{
			{SKU: "MILK-01", Quantity: 1},
		},
	}
	_, err = s.sales.CreateSale(ctx, req)
	require.True(t, errors.Is(err, shared.ErrGateClosed))
	assert.Equal(t, int64(12), s.stockOf(t, "MILK-01"))

	// Privileged roles sell through a stopped gate
	req.CashierRole = sales.RoleManager
	_, err = s.sales.CreateSale(ctx, req)
	require.NoError(t, err)

	_, err = s.gate.Toggle(ctx, salesapp.ToggleGateRequest{
		ActorID: manager,
		Role:    sales.RoleManager,
		State:   sales.GateOpen,
		Reason:  "audit done",
	})
	require.NoError(t, err)

	req.CashierRole = sales.RoleCashier
	_, err = s.sales.CreateSale(ctx, req)
	require.NoError(t, err)

	history, err := s.gate.History(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), history.Total)
}

func TestUpdateSaleRestoresStock(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.seedProduct(t, "Bag of Rice 50kg", "RICE-50KG", 40, 42000)
	s.seedProduct(t, "Peak Milk", "MILK-01", 12, 300)

	sale, err := s.sales.CreateSale(ctx, salesapp.CreateSaleRequest{
		CashierID:     uuid.New(),
		CashierRole:   sales.RoleCashier,
		PaymentMethod: sales.PaymentCash,
		AmountPaid:    decimal.NewFromInt(210000),
		Lines: []salesapp.SaleLineInput{
			{SKU: "RICE-50KG", Quantity: 5},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(35), s.stockOf(t, "RICE-50KG"))

	updated, err := s.sales.UpdateSale(ctx, salesapp.UpdateSaleRequest{
		SaleID:        sale.ID,
		PaymentMethod: sales.PaymentCash,
		AmountPaid:    decimal.NewFromInt(85000),
		Lines: []salesapp.SaleLineInput{
			{SKU: "RICE-50KG", Quantity: 2},
			{SKU: "MILK-01", Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "84600.00", updated.TotalAmount.StringFixed(2))
	assert.Equal(t, int64(38), s.stockOf(t, "RICE-50KG"))
	assert.Equal(t, int64(10), s.stockOf(t, "MILK-01"))
	assert.Equal(t, sale.InvoiceNumber, updated.InvoiceNumber)
}

func TestReceiptPrintCounter(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.seedProduct(t, "Peak Milk", "MILK-01", 12, 300)

	sale, err := s.sales.CreateSale(ctx, salesapp.CreateSaleRequest{
		CashierID:     uuid.New(),
		CashierRole:   sales.RoleCashier,
		PaymentMethod: sales.PaymentCash,
		AmountPaid:    decimal.NewFromInt(600),
		Lines: []salesapp.SaleLineInput{
			{SKU: "MILK-01", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, sale.ReceiptPrintCount)

	printed, err := s.sales.RecordReceiptPrint(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, printed.ReceiptPrintCount)

	printed, err = s.sales.RecordReceiptPrint(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, printed.ReceiptPrintCount)
}
