package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	salesdomain "github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type creditFixture struct {
	store     *memStore
	service   *CreditService
	publisher *capturingPublisher
	creditID  uuid.UUID
	invoice   string
}

func newCreditFixture(t *testing.T) *creditFixture {
	t.Helper()
	f := newSaleFixture(t)
	water := f.addProduct(t, "Bottled Water", "SKU-001", 50, 100, 5)

	resp, err := f.service.CreateSale(context.Background(), CreateSaleRequest{
		CashierID:     uuid.New(),
		CashierRole:   salesdomain.RoleCashier,
		CustomerName:  "Ada",
		PaymentMethod: salesdomain.PaymentCredit,
		AmountPaid:    decimal.NewFromInt(300),
		Lines:         []SaleLineInput{{ProductID: water.ID.String(), Quantity: 10}},
	})
	require.NoError(t, err)

	var creditID uuid.UUID
	f.store.mu.Lock()
	for id := range f.store.credits {
		creditID = id
	}
	f.store.mu.Unlock()

	publisher := &capturingPublisher{
		handlers: []shared.EventHandler{
			NewDepositOnPaymentHandler(&memDepositRepo{store: f.store, locked: true}, zap.NewNop()),
		},
	}
	service := NewCreditService(&fakeScope{store: f.store}, &memCreditRepo{store: f.store, locked: true}, zap.NewNop())
	service.SetEventPublisher(publisher)

	return &creditFixture{
		store:     f.store,
		service:   service,
		publisher: publisher,
		creditID:  creditID,
		invoice:   resp.InvoiceNumber,
	}
}

func TestApplyCreditPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("full settlement clears the credit", func(t *testing.T) {
		f := newCreditFixture(t)

		resp, err := f.service.ApplyPayment(ctx, ApplyCreditPaymentRequest{
			CreditID:      f.creditID,
			Amount:        decimal.NewFromInt(700),
			PaymentMethod: salesdomain.PaymentCash,
			RecordedBy:    uuid.New(),
		})
		require.NoError(t, err)

		assert.Equal(t, "0", resp.Outstanding.String())
		assert.Equal(t, salesdomain.CreditCleared, resp.Status)
		require.Len(t, resp.Payments, 1)
	})

	t.Run("partial payment stays partially paid", func(t *testing.T) {
		f := newCreditFixture(t)

		resp, err := f.service.ApplyPayment(ctx, ApplyCreditPaymentRequest{
			CreditID:      f.creditID,
			Amount:        decimal.NewFromInt(200),
			PaymentMethod: salesdomain.PaymentCash,
			RecordedBy:    uuid.New(),
		})
		require.NoError(t, err)
		assert.Equal(t, "500", resp.Outstanding.String())
		assert.Equal(t, salesdomain.CreditPartiallyPaid, resp.Status)
	})

	t.Run("overpayment is rejected without state change", func(t *testing.T) {
		f := newCreditFixture(t)

		_, err := f.service.ApplyPayment(ctx, ApplyCreditPaymentRequest{
			CreditID:      f.creditID,
			Amount:        decimal.NewFromInt(701),
			PaymentMethod: salesdomain.PaymentCash,
			RecordedBy:    uuid.New(),
		})
		require.Error(t, err)

		credit, err := f.service.GetCredit(ctx, f.creditID)
		require.NoError(t, err)
		assert.Equal(t, "700", credit.Outstanding.String())
		assert.Empty(t, credit.Payments)
	})

	t.Run("digital payment records a deposit post-commit", func(t *testing.T) {
		f := newCreditFixture(t)

		_, err := f.service.ApplyPayment(ctx, ApplyCreditPaymentRequest{
			CreditID:      f.creditID,
			Amount:        decimal.NewFromInt(400),
			PaymentMethod: salesdomain.PaymentTransfer,
			RecordedBy:    uuid.New(),
		})
		require.NoError(t, err)

		f.store.mu.Lock()
		defer f.store.mu.Unlock()
		require.Len(t, f.store.deposits, 1)
		assert.Equal(t, f.invoice, f.store.deposits[0].Reference)
		assert.Equal(t, "400.00", f.store.deposits[0].Amount.StringFixed(2))
	})

	t.Run("cash payment records no deposit", func(t *testing.T) {
		f := newCreditFixture(t)

		_, err := f.service.ApplyPayment(ctx, ApplyCreditPaymentRequest{
			CreditID:      f.creditID,
			Amount:        decimal.NewFromInt(400),
			PaymentMethod: salesdomain.PaymentCash,
			RecordedBy:    uuid.New(),
		})
		require.NoError(t, err)

		f.store.mu.Lock()
		defer f.store.mu.Unlock()
		assert.Empty(t, f.store.deposits)
	})

	t.Run("unknown credit id", func(t *testing.T) {
		f := newCreditFixture(t)

		_, err := f.service.ApplyPayment(ctx, ApplyCreditPaymentRequest{
			CreditID:      uuid.New(),
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: salesdomain.PaymentCash,
			RecordedBy:    uuid.New(),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestListCreditsByStatus(t *testing.T) {
	ctx := context.Background()
	f := newCreditFixture(t)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(salesdomain.CreditPartiallyPaid)

	page, err := f.service.ListCredits(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, salesdomain.CreditPartiallyPaid, page.Items[0].Status)

	filter.Filters["status"] = string(salesdomain.CreditCleared)
	page, err = f.service.ListCredits(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
