package billing

import (
	"math"

	"github.com/rahu431/snapbill-service/internal/domain"
)

// FeeInputs holds the five fee scalars applied on top of the line items.
// Discount, Shipping, Handling and Packaging are fixed amounts in the invoice
// currency; TaxRate is a percentage.
type FeeInputs struct {
	Discount  float64
	TaxRate   float64
	Shipping  float64
	Handling  float64
	Packaging float64
}

// Breakdown is the materialized financial summary of a draft
type Breakdown struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// Subtotal sums quantity times unit price over all items. Summation order
// follows the item list; float64 rounding makes the result order-dependent
// only at negligible magnitudes, which callers tolerate.
func Subtotal(items []domain.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Quantity * item.Price
	}
	return sum
}

// Totals computes the full financial breakdown for a set of line items and
// fee inputs. Tax applies to the discounted subtotal, not the raw subtotal,
// and the grand total is clamped at zero so an oversized discount can never
// produce a negative invoice. The function is pure; inputs are expected to be
// finite, which the boundary guarantees via Sanitize.
func Totals(items []domain.LineItem, fees FeeInputs) Breakdown {
	subtotal := Subtotal(items)
	taxAmount := (subtotal - fees.Discount) * (fees.TaxRate / 100)
	total := subtotal - fees.Discount + taxAmount + fees.Shipping + fees.Handling + fees.Packaging
	return Breakdown{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     math.Max(0, total),
	}
}

// Sanitize coerces NaN and infinities to zero. All numeric inputs pass
// through here at the HTTP/parser boundary before reaching the calculator.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SanitizeFees applies Sanitize to every fee scalar
func SanitizeFees(fees FeeInputs) FeeInputs {
	return FeeInputs{
		Discount:  Sanitize(fees.Discount),
		TaxRate:   Sanitize(fees.TaxRate),
		Shipping:  Sanitize(fees.Shipping),
		Handling:  Sanitize(fees.Handling),
		Packaging: Sanitize(fees.Packaging),
	}
}
