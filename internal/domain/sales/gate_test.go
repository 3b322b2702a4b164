package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateLog(t *testing.T) {
	actor := uuid.New()

	t.Run("privileged role may toggle", func(t *testing.T) {
		log, err := NewGateLog(GateOpen, GateStopped, actor, RoleManager, "stocktake in progress")
		require.NoError(t, err)
		assert.Equal(t, GateOpen, log.PreviousState)
		assert.Equal(t, GateStopped, log.NewState)
		assert.Equal(t, "stocktake in progress", log.Reason)
	})

	t.Run("cashier may not toggle", func(t *testing.T) {
		_, err := NewGateLog(GateOpen, GateStopped, actor, RoleCashier, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("no-op toggle is rejected", func(t *testing.T) {
		_, err := NewGateLog(GateOpen, GateOpen, actor, RoleAdmin, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown state is rejected", func(t *testing.T) {
		_, err := NewGateLog(GateOpen, GateState("half-open"), actor, RoleAdmin, "")
		require.Error(t, err)
	})
}

func TestRolePrivileges(t *testing.T) {
	assert.True(t, RoleAdmin.IsPrivileged())
	assert.True(t, RoleManager.IsPrivileged())
	assert.False(t, RoleCashier.IsPrivileged())
	assert.False(t, Role("GUEST").IsPrivileged())
}
