package domain

import "github.com/shopspring/decimal"

func init() {
	// Persisted cart/order documents store monetary values as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DiscountedTotal applies a percentage discount to a cart total.
// The result is rounded to exactly 2 decimal places, half away from zero,
// on the final value only. Intermediate sums are never rounded.
func DiscountedTotal(cartTotal, discountPercent decimal.Decimal) decimal.Decimal {
	discount := cartTotal.Mul(discountPercent).Div(decimal.NewFromInt(100))
	return cartTotal.Sub(discount).Round(2)
}

// LineTotal is the snapshotted unit price multiplied by the quantity.
func LineTotal(unitPrice decimal.Decimal, count int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(count)))
}
