package persistence

import "strings"

// Sort parameters come straight from query strings and end up interpolated
// into ORDER BY, so both the field and the direction are checked against
// fixed allow-lists here rather than escaped.

// ValidateSortOrder normalizes the direction, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when the allow-list contains it,
// otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	if trimmed := strings.TrimSpace(sortField); allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"category":      true,
	"sku":           true,
	"quantity":      true,
	"cost_price":    true,
	"selling_price": true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"customer_name":  true,
	"payment_method": true,
	"total_amount":   true,
	"amount_paid":    true,
}

// CreditSortFields contains allowed sort fields for credits
var CreditSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"customer_name":  true,
	"status":         true,
	"total_amount":   true,
	"amount_paid":    true,
	"outstanding":    true,
}

// DepositSortFields contains allowed sort fields for deposits
var DepositSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"reference":      true,
	"source":         true,
	"amount":         true,
	"payment_method": true,
}

// GateLogSortFields contains allowed sort fields for gate logs
var GateLogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"new_state":  true,
	"actor_role": true,
}
