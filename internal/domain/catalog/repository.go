package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	// Create persists a new product
	Create(ctx context.Context, product *Product) error

	// Update persists changes to an existing product
	Update(ctx context.Context, product *Product) error

	// FindByID retrieves a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU retrieves a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByName retrieves a product by case-insensitive name match
	FindByName(ctx context.Context, name string) (*Product, error)

	// Resolve looks up a product by reference: ID, then name, then SKU
	Resolve(ctx context.Context, ref ProductRef) (*Product, error)

	// FindForUpdate loads the given products under row locks. Implementations
	// must sort ids ascending before locking so concurrent multi-line sales
	// acquire locks in the same order.
	FindForUpdate(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// List retrieves products matching the filter
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[*Product], error)

	// FindBelowThreshold retrieves products at or below their low stock threshold
	FindBelowThreshold(ctx context.Context) ([]*Product, error)

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error
}
