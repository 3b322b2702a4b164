package sales

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// GateState is the sale gate's binary state
type GateState string

const (
	GateOpen    GateState = "open"
	GateStopped GateState = "stopped"
)

// GateLog is one append-only entry in the gate's toggle history.
// The current state is always the most recent entry's NewState.
type GateLog struct {
	shared.BaseEntity
	PreviousState GateState `gorm:"size:10;not null"`
	NewState      GateState `gorm:"size:10;not null"`
	ActorID       uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole     Role      `gorm:"size:20;not null"`
	Reason        string    `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (GateLog) TableName() string {
	return "gate_logs"
}

// NewGateLog records a toggle. Only privileged roles may change the gate,
// and a no-op toggle is rejected so the history stays meaningful.
func NewGateLog(previous, next GateState, actorID uuid.UUID, role Role, reason string) (*GateLog, error) {
	if !role.IsPrivileged() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only managers and admins may toggle the sale gate")
	}
	if next != GateOpen && next != GateStopped {
		return nil, shared.NewDomainError("INVALID_INPUT", "Gate state must be open or stopped")
	}
	if previous == next {
		return nil, shared.NewDomainError("INVALID_STATE", "Gate is already "+string(next))
	}
	return &GateLog{
		BaseEntity:    shared.NewBaseEntity(),
		PreviousState: previous,
		NewState:      next,
		ActorID:       actorID,
		ActorRole:     role,
		Reason:        strings.TrimSpace(reason),
	}, nil
}
