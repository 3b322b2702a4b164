// Package integration exercises the full stack against a real database:
// GORM repositories, the transaction scope and the application services
// wired together the same way cmd/server wires them.
package integration

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
)

var dbSeq atomic.Int64

// NewTestDB opens a fresh in-memory sqlite database with the full schema.
// Each call gets its own database, so tests stay isolated and can run in
// parallel. The shared-cache DSN keeps the database alive across the pool's
// connections for the life of the test.
func NewTestDB(t *testing.T) *persistence.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:pos_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:          "sqlite",
		Path:            dsn,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 5,
	})
	require.NoError(t, err, "Failed to open test database")

	require.NoError(t, db.DB.AutoMigrate(
		&catalog.Product{},
		&sales.Sale{},
		&sales.SaleLine{},
		&sales.Credit{},
		&sales.CreditPayment{},
		&sales.Deposit{},
		&sales.GateLog{},
	), "Failed to migrate test schema")

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
