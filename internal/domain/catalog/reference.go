package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// RefKind discriminates the ways a sale line may identify a product
type RefKind string

const (
	RefByID   RefKind = "id"
	RefByName RefKind = "name"
	RefBySKU  RefKind = "sku"
)

// ProductRef identifies a product by ID, name or SKU. Resolution order is
// ID first, then case-insensitive name, then SKU.
type ProductRef struct {
	Kind RefKind
	ID   uuid.UUID
	Name string
	SKU  string
}

// RefByProductID builds a reference by product ID
func RefByProductID(id uuid.UUID) ProductRef {
	return ProductRef{Kind: RefByID, ID: id}
}

// RefByProductName builds a reference by product name
func RefByProductName(name string) ProductRef {
	return ProductRef{Kind: RefByName, Name: name}
}

// RefByProductSKU builds a reference by SKU
func RefByProductSKU(sku string) ProductRef {
	return ProductRef{Kind: RefBySKU, SKU: sku}
}

// ParseProductRef builds a reference from loosely-typed request fields.
// A parseable UUID wins, then name, then SKU.
func ParseProductRef(id, name, sku string) (ProductRef, error) {
	if id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return ProductRef{}, shared.NewDomainError("INVALID_INPUT", "Invalid product ID format")
		}
		return RefByProductID(parsed), nil
	}
	if strings.TrimSpace(name) != "" {
		return RefByProductName(strings.TrimSpace(name)), nil
	}
	if strings.TrimSpace(sku) != "" {
		return RefByProductSKU(strings.TrimSpace(sku)), nil
	}
	return ProductRef{}, shared.NewDomainError("INVALID_INPUT", "Product reference requires an ID, name or SKU")
}

// String returns a human-readable representation for logs and errors
func (r ProductRef) String() string {
	switch r.Kind {
	case RefByID:
		return "id:" + r.ID.String()
	case RefByName:
		return "name:" + r.Name
	case RefBySKU:
		return "sku:" + r.SKU
	default:
		return "unknown"
	}
}
