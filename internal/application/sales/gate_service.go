package sales

import (
	"context"
	"errors"

	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// GateCache holds the gate's current state for lock-free reads on the sale
// hot path. Implementations must make Set visible to concurrent readers.
type GateCache interface {
	// Current returns the cached gate state
	Current() sales.GateState
	// Set replaces the cached gate state
	Set(state sales.GateState)
}

// GateService owns the stop-sale switch. The durable truth is the
// append-only gate log; the cache is refreshed on every toggle and at
// startup so the coordinator never hits storage to admit a sale.
type GateService struct {
	logRepo   sales.GateLogRepository
	cache     GateCache
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewGateService creates a new GateService
func NewGateService(logRepo sales.GateLogRepository, cache GateCache, logger *zap.Logger) *GateService {
	return &GateService{
		logRepo: logRepo,
		cache:   cache,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *GateService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Init seeds the cache from the latest log entry. An empty log means the
// gate starts open.
func (s *GateService) Init(ctx context.Context) error {
	latest, err := s.logRepo.Latest(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.cache.Set(sales.GateOpen)
			return nil
		}
		return err
	}
	if latest == nil {
		s.cache.Set(sales.GateOpen)
		return nil
	}
	s.cache.Set(latest.NewState)
	return nil
}

// Current returns the cached gate state without touching storage
func (s *GateService) Current() sales.GateState {
	return s.cache.Current()
}

// CanCreateSale reports whether a caller with the given role may start a
// sale right now. Privileged roles sell through a stopped gate.
func (s *GateService) CanCreateSale(role sales.Role) bool {
	return s.cache.Current() == sales.GateOpen || role.IsPrivileged()
}

// Toggle changes the gate state, appends the history entry and refreshes
// the cache. Only privileged roles may toggle.
func (s *GateService) Toggle(ctx context.Context, req ToggleGateRequest) (*GateLogResponse, error) {
	current := s.cache.Current()

	log, err := sales.NewGateLog(current, req.State, req.ActorID, req.Role, req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.logRepo.Append(ctx, log); err != nil {
		return nil, err
	}
	s.cache.Set(log.NewState)

	s.logger.Info("sale gate toggled",
		zap.String("previous", string(log.PreviousState)),
		zap.String("new", string(log.NewState)),
		zap.String("actor_id", log.ActorID.String()),
		zap.String("reason", log.Reason))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, sales.NewGateToggledEvent(log)); err != nil {
			s.logger.Warn("failed to publish gate toggled event", zap.Error(err))
		}
	}

	resp := ToGateLogResponse(log)
	return &resp, nil
}

// History returns the toggle history, newest first
func (s *GateService) History(ctx context.Context, filter shared.Filter) (shared.Paginated[GateLogResponse], error) {
	page, err := s.logRepo.History(ctx, filter)
	if err != nil {
		return shared.Paginated[GateLogResponse]{}, err
	}
	items := make([]GateLogResponse, 0, len(page.Items))
	for _, log := range page.Items {
		items = append(items, ToGateLogResponse(log))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}
