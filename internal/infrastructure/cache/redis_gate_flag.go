package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/retailpos/backend/internal/domain/sales"
	"go.uber.org/zap"
)

const (
	gateStateKey    = "pos:gate:state"
	gateUpdatesChan = "pos:gate:updates"
)

// RedisGateFlag shares the gate state across instances through Redis while
// keeping reads local. Each instance serves Current from its in-process
// flag; toggles write through to Redis and fan out over pub/sub so every
// instance refreshes without polling.
type RedisGateFlag struct {
	local  *GateFlag
	client *redis.Client
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewRedisGateFlag creates a Redis-backed gate flag
func NewRedisGateFlag(client *redis.Client, logger *zap.Logger) *RedisGateFlag {
	return &RedisGateFlag{
		local:  NewGateFlag(),
		client: client,
		logger: logger,
	}
}

// Start loads the shared state and subscribes to update notifications.
// Call Stop to release the subscription.
func (f *RedisGateFlag) Start(ctx context.Context) error {
	val, err := f.client.Get(ctx, gateStateKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if err == nil {
		f.local.Set(parseGateState(val))
	}

	subCtx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	sub := f.client.Subscribe(subCtx, gateUpdatesChan)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				state := parseGateState(msg.Payload)
				f.local.Set(state)
				f.logger.Info("gate state refreshed from redis",
					zap.String("state", string(state)))
			}
		}
	}()
	return nil
}

// Stop ends the pub/sub subscription
func (f *RedisGateFlag) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Current returns the locally cached gate state
func (f *RedisGateFlag) Current() sales.GateState {
	return f.local.Current()
}

// Set writes the state through to Redis and notifies other instances.
// The local cache updates even if Redis is unreachable so this instance
// keeps enforcing the toggle.
func (f *RedisGateFlag) Set(state sales.GateState) {
	f.local.Set(state)

	ctx := context.Background()
	if err := f.client.Set(ctx, gateStateKey, string(state), 0).Err(); err != nil {
		f.logger.Error("failed to persist gate state to redis", zap.Error(err))
		return
	}
	if err := f.client.Publish(ctx, gateUpdatesChan, string(state)).Err(); err != nil {
		f.logger.Warn("failed to broadcast gate state update", zap.Error(err))
	}
}

func parseGateState(val string) sales.GateState {
	if val == string(sales.GateStopped) {
		return sales.GateStopped
	}
	return sales.GateOpen
}
