package persistence

import (
	"context"

	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDepositRepository implements DepositRepository using GORM
type GormDepositRepository struct {
	db *gorm.DB
}

// NewGormDepositRepository creates a new GormDepositRepository
func NewGormDepositRepository(db *gorm.DB) *GormDepositRepository {
	return &GormDepositRepository{db: db}
}

// Create persists a new deposit
func (r *GormDepositRepository) Create(ctx context.Context, deposit *sales.Deposit) error {
	return r.db.WithContext(ctx).Create(deposit).Error
}

// List retrieves deposits matching the filter
func (r *GormDepositRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*sales.Deposit], error) {
	query := r.db.WithContext(ctx).Model(&sales.Deposit{})

	if filter.Search != "" {
		query = query.Where("reference LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "source":
			query = query.Where("source = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*sales.Deposit]{}, err
	}

	page, pageSize := normalizePagination(filter)
	orderBy := ValidateSortField(filter.OrderBy, DepositSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var items []*sales.Deposit
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return shared.Paginated[*sales.Deposit]{}, err
	}

	return shared.NewPaginated(items, total, page, pageSize), nil
}

// Ensure GormDepositRepository implements DepositRepository
var _ sales.DepositRepository = (*GormDepositRepository)(nil)
