package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCreditRepository creates a GormCreditRepository with a mocked SQL connection
func newMockCreditRepository(t *testing.T) (*GormCreditRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCreditRepository(gormDB), mock, mockDB
}

func creditColumns() []string {
	return []string{
		"id", "sale_id", "invoice_number", "customer_name",
		"total_amount", "amount_paid", "outstanding", "status",
	}
}

func TestGormCreditRepository_FindByID(t *testing.T) {
	t.Run("finds existing credit with payments", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditRepository(t)
		defer mockDB.Close()

		creditID := uuid.New()
		saleID := uuid.New()

		rows := sqlmock.NewRows(creditColumns()).AddRow(
			creditID, saleID, "INV-1A2B3C4D", "Walk-in Customer",
			decimal.NewFromInt(1000), decimal.NewFromInt(300), decimal.NewFromInt(700),
			string(sales.CreditPending),
		)

		mock.ExpectQuery(`SELECT \* FROM "credits" WHERE id = \$1`).
			WithArgs(creditID, 1).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT \* FROM "credit_payments"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "credit_id", "amount"}))

		credit, err := repo.FindByID(context.Background(), creditID)

		assert.NoError(t, err)
		assert.NotNil(t, credit)
		assert.Equal(t, creditID, credit.ID)
		assert.Equal(t, sales.CreditPending, credit.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent credit", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditRepository(t)
		defer mockDB.Close()

		creditID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "credits" WHERE id = \$1`).
			WithArgs(creditID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		credit, err := repo.FindByID(context.Background(), creditID)

		assert.Error(t, err)
		assert.Nil(t, credit)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the credit row with FOR UPDATE", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditRepository(t)
		defer mockDB.Close()

		creditID := uuid.New()
		saleID := uuid.New()

		rows := sqlmock.NewRows(creditColumns()).AddRow(
			creditID, saleID, "INV-1A2B3C4D", "Walk-in Customer",
			decimal.NewFromInt(1000), decimal.NewFromInt(300), decimal.NewFromInt(700),
			string(sales.CreditPartiallyPaid),
		)

		mock.ExpectQuery(`SELECT \* FROM "credits" WHERE id = \$1 .*FOR UPDATE`).
			WithArgs(creditID, 1).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT \* FROM "credit_payments"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "credit_id", "amount"}))

		credit, err := repo.FindByIDForUpdate(context.Background(), creditID)

		assert.NoError(t, err)
		assert.Equal(t, creditID, credit.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditRepository_FindBySaleID(t *testing.T) {
	t.Run("returns not found when sale has no credit", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "credits" WHERE sale_id = \$1`).
			WithArgs(saleID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		credit, err := repo.FindBySaleID(context.Background(), saleID)

		assert.Nil(t, credit)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditRepository_List(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "credits" WHERE status = \$1`).
			WithArgs(string(sales.CreditPending)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(creditColumns()).AddRow(
			uuid.New(), uuid.New(), "INV-1A2B3C4D", "Walk-in Customer",
			decimal.NewFromInt(1000), decimal.Zero, decimal.NewFromInt(1000),
			string(sales.CreditPending),
		)
		mock.ExpectQuery(`SELECT \* FROM "credits" WHERE status = \$1`).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT \* FROM "credit_payments"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "credit_id", "amount"}))

		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(sales.CreditPending)

		result, err := repo.List(context.Background(), filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		assert.Len(t, result.Items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements CreditRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockCreditRepository(t)
		defer mockDB.Close()

		var _ sales.CreditRepository = repo
	})
}
