package persistence

import (
	"context"
	"errors"

	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormGateLogRepository implements GateLogRepository using GORM.
// The gate log is append-only: entries are never updated or deleted.
type GormGateLogRepository struct {
	db *gorm.DB
}

// NewGormGateLogRepository creates a new GormGateLogRepository
func NewGormGateLogRepository(db *gorm.DB) *GormGateLogRepository {
	return &GormGateLogRepository{db: db}
}

// Append persists a new gate log entry
func (r *GormGateLogRepository) Append(ctx context.Context, log *sales.GateLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Latest returns the most recent entry
func (r *GormGateLogRepository) Latest(ctx context.Context) (*sales.GateLog, error) {
	var log sales.GateLog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// History retrieves log entries, newest first
func (r *GormGateLogRepository) History(ctx context.Context, filter shared.Filter) (shared.Paginated[*sales.GateLog], error) {
	query := r.db.WithContext(ctx).Model(&sales.GateLog{})

	for key, value := range filter.Filters {
		switch key {
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		case "new_state":
			query = query.Where("new_state = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*sales.GateLog]{}, err
	}

	page, pageSize := normalizePagination(filter)

	var items []*sales.GateLog
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return shared.Paginated[*sales.GateLog]{}, err
	}

	return shared.NewPaginated(items, total, page, pageSize), nil
}

// Ensure GormGateLogRepository implements GateLogRepository
var _ sales.GateLogRepository = (*GormGateLogRepository)(nil)
