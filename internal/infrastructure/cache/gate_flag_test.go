package cache

import (
	"sync"
	"testing"

	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/stretchr/testify/assert"
)

func TestGateFlag(t *testing.T) {
	t.Run("starts open", func(t *testing.T) {
		f := NewGateFlag()
		assert.Equal(t, sales.GateOpen, f.Current())
	})

	t.Run("set is visible to readers", func(t *testing.T) {
		f := NewGateFlag()
		f.Set(sales.GateStopped)
		assert.Equal(t, sales.GateStopped, f.Current())
		f.Set(sales.GateOpen)
		assert.Equal(t, sales.GateOpen, f.Current())
	})

	t.Run("concurrent reads and writes are safe", func(t *testing.T) {
		f := NewGateFlag()
		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					f.Set(sales.GateStopped)
				} else {
					f.Set(sales.GateOpen)
				}
			}(i)
			go func() {
				defer wg.Done()
				state := f.Current()
				assert.Contains(t, []sales.GateState{sales.GateOpen, sales.GateStopped}, state)
			}()
		}
		wg.Wait()
	})
}

func TestParseGateState(t *testing.T) {
	assert.Equal(t, sales.GateStopped, parseGateState("stopped"))
	assert.Equal(t, sales.GateOpen, parseGateState("open"))
	assert.Equal(t, sales.GateOpen, parseGateState("garbage"))
}
