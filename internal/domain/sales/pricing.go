package sales

import (
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PriceLine is one cart line as seen by the pricing calculator
type PriceLine struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity times unit price
func (l PriceLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// PricingInput carries everything the calculator needs
type PricingInput struct {
	Lines          []PriceLine
	DiscountAmount decimal.Decimal
	VATPercent     decimal.Decimal
	AmountTendered decimal.Decimal
}

// Pricing is the computed financial breakdown of a sale
type Pricing struct {
	Subtotal          decimal.Decimal
	EffectiveDiscount decimal.Decimal
	VATBase           decimal.Decimal
	VATAmount         decimal.Decimal
	Total             decimal.Decimal
	Change            decimal.Decimal
}

// CalculatePricing computes subtotal, discount, VAT, total and change.
// Pure function: no side effects, no locking, exact decimal arithmetic.
// The discount is an absolute amount clamped to the subtotal so the total
// never goes negative. VAT is rounded half-up to 2 decimal places.
func CalculatePricing(in PricingInput) (Pricing, error) {
	if len(in.Lines) == 0 {
		return Pricing{}, shared.NewDomainError("INVALID_INPUT", "Sale must contain at least one line item")
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return Pricing{}, shared.NewDomainError("INVALID_INPUT", "Line item quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return Pricing{}, shared.NewDomainError("INVALID_INPUT", "Line item unit price cannot be negative")
		}
	}
	if in.DiscountAmount.IsNegative() {
		return Pricing{}, shared.NewDomainError("INVALID_INPUT", "Discount amount cannot be negative")
	}
	if in.VATPercent.IsNegative() {
		return Pricing{}, shared.NewDomainError("INVALID_INPUT", "VAT percentage cannot be negative")
	}
	if in.AmountTendered.IsNegative() {
		return Pricing{}, shared.NewDomainError("INVALID_INPUT", "Amount tendered cannot be negative")
	}

	subtotal := decimal.Zero
	for _, line := range in.Lines {
		subtotal = subtotal.Add(line.Subtotal())
	}

	discount := in.DiscountAmount
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	base := subtotal.Sub(discount)
	vat := base.Mul(in.VATPercent).Div(decimal.NewFromInt(100)).Round(2)
	total := base.Add(vat)

	change := in.AmountTendered.Sub(total)
	if change.IsNegative() {
		change = decimal.Zero
	}

	return Pricing{
		Subtotal:          subtotal,
		EffectiveDiscount: discount,
		VATBase:           base,
		VATAmount:         vat,
		Total:             total,
		Change:            change,
	}, nil
}
