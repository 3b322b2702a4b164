package cache

import (
	"sync/atomic"

	"github.com/retailpos/backend/internal/domain/sales"
)

// GateFlag is the process-wide cached sale gate state. Reads happen on the
// hot path of every sale; writes only on toggle and at startup. Lifecycle:
// initialized to open, seeded from the durable log at startup, then mutated
// only through the gate service.
type GateFlag struct {
	state atomic.Value // sales.GateState
}

// NewGateFlag creates a gate flag starting in the open state
func NewGateFlag() *GateFlag {
	f := &GateFlag{}
	f.state.Store(sales.GateOpen)
	return f
}

// Current returns the cached gate state
func (f *GateFlag) Current() sales.GateState {
	return f.state.Load().(sales.GateState)
}

// Set replaces the cached gate state
func (f *GateFlag) Set(state sales.GateState) {
	f.state.Store(state)
}
