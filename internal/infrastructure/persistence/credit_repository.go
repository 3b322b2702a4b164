package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCreditRepository implements CreditRepository using GORM
type GormCreditRepository struct {
	db *gorm.DB
}

// NewGormCreditRepository creates a new GormCreditRepository
func NewGormCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

// Create persists a new credit
func (r *GormCreditRepository) Create(ctx context.Context, credit *sales.Credit) error {
	if err := r.db.WithContext(ctx).Create(credit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing credit and its payments
func (r *GormCreditRepository) Update(ctx context.Context, credit *sales.Credit) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(credit).Error
}

// FindByID retrieves a credit with its payments
func (r *GormCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Credit, error) {
	var credit sales.Credit
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&credit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &credit, nil
}

// FindByIDForUpdate retrieves a credit under a FOR UPDATE row lock so
// payment application is serialized per credit. The lock covers the credit
// row only; payments load through a separate unlocked query.
func (r *GormCreditRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Credit, error) {
	var credit sales.Credit
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Payments").
		First(&credit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &credit, nil
}

// FindBySaleID retrieves the credit attached to a sale
func (r *GormCreditRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*sales.Credit, error) {
	var credit sales.Credit
	if err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&credit, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &credit, nil
}

// List retrieves credits matching the filter, optionally by status
func (r *GormCreditRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*sales.Credit], error) {
	query := r.db.WithContext(ctx).Model(&sales.Credit{})
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*sales.Credit]{}, err
	}

	page, pageSize := normalizePagination(filter)
	orderBy := ValidateSortField(filter.OrderBy, CreditSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var items []*sales.Credit
	if err := query.
		Preload("Payments").
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return shared.Paginated[*sales.Credit]{}, err
	}

	return shared.NewPaginated(items, total, page, pageSize), nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCreditRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number LIKE ? OR customer_name LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_name":
			query = query.Where("LOWER(customer_name) = LOWER(?)", value)
		}
	}
	return query
}

// Ensure GormCreditRepository implements CreditRepository
var _ sales.CreditRepository = (*GormCreditRepository)(nil)
