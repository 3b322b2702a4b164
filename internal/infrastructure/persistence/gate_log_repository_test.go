package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGateLogRepository creates a GormGateLogRepository with a mocked SQL connection
func newMockGateLogRepository(t *testing.T) (*GormGateLogRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormGateLogRepository(gormDB), mock, mockDB
}

func TestGormGateLogRepository_Append(t *testing.T) {
	t.Run("inserts a log entry", func(t *testing.T) {
		repo, mock, mockDB := newMockGateLogRepository(t)
		defer mockDB.Close()

		log, err := sales.NewGateLog(sales.GateOpen, sales.GateStopped,
			uuid.New(), sales.RoleManager, "end of day")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "gate_logs"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = repo.Append(context.Background(), log)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormGateLogRepository_Latest(t *testing.T) {
	t.Run("returns the most recent entry", func(t *testing.T) {
		repo, mock, mockDB := newMockGateLogRepository(t)
		defer mockDB.Close()

		logID := uuid.New()
		actorID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "previous_state", "new_state", "actor_id", "actor_role", "reason", "created_at",
		}).AddRow(
			logID, string(sales.GateOpen), string(sales.GateStopped),
			actorID, string(sales.RoleManager), "end of day", time.Now(),
		)

		mock.ExpectQuery(`SELECT \* FROM "gate_logs" ORDER BY created_at DESC`).
			WithArgs(1).
			WillReturnRows(rows)

		log, err := repo.Latest(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, sales.GateStopped, log.NewState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for empty log", func(t *testing.T) {
		repo, mock, mockDB := newMockGateLogRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "gate_logs" ORDER BY created_at DESC`).
			WithArgs(1).
			WillReturnError(gorm.ErrRecordNotFound)

		log, err := repo.Latest(context.Background())

		assert.Nil(t, log)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormGateLogRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements GateLogRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockGateLogRepository(t)
		defer mockDB.Close()

		var _ sales.GateLogRepository = repo
	})
}
