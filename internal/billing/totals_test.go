package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rahu431/snapbill-service/internal/domain"
)

func TestTotalsBasic(t *testing.T) {
	items := []domain.LineItem{
		{ID: "1", Description: "Consulting", Quantity: 2, Price: 25},
	}
	b := Totals(items, FeeInputs{Discount: 10, TaxRate: 8, Shipping: 5})

	assert.InDelta(t, 50.0, b.Subtotal, 1e-9)
	assert.InDelta(t, 3.2, b.TaxAmount, 1e-9)
	assert.InDelta(t, 48.2, b.Total, 1e-9)
}

func TestTaxAppliesToDiscountedSubtotal(t *testing.T) {
	items := []domain.LineItem{
		{ID: "1", Description: "Widget", Quantity: 1, Price: 100},
	}
	b := Totals(items, FeeInputs{Discount: 20, TaxRate: 10})

	// 10% of (100 - 20), not 10% of 100
	assert.InDelta(t, 8.0, b.TaxAmount, 1e-9)
}

func TestTotalClampedAtZero(t *testing.T) {
	items := []domain.LineItem{
		{ID: "1", Description: "Cheap", Quantity: 1, Price: 10},
	}
	b := Totals(items, FeeInputs{Discount: 500})

	assert.Equal(t, 0.0, b.Total)
	assert.InDelta(t, 10.0, b.Subtotal, 1e-9)
}

func TestTotalsZeroFees(t *testing.T) {
	items := []domain.LineItem{
		{ID: "1", Description: "A", Quantity: 3, Price: 4},
		{ID: "2", Description: "B", Quantity: 0.5, Price: 10},
	}
	b := Totals(items, FeeInputs{})

	assert.InDelta(t, 17.0, b.Subtotal, 1e-9)
	assert.InDelta(t, 0.0, b.TaxAmount, 1e-9)
	assert.InDelta(t, 17.0, b.Total, 1e-9)
}

func TestTotalsEmptyItems(t *testing.T) {
	b := Totals(nil, FeeInputs{Shipping: 5})

	assert.Equal(t, 0.0, b.Subtotal)
	assert.InDelta(t, 5.0, b.Total, 1e-9)
}

func TestSubtotalOrderIndependent(t *testing.T) {
	a := []domain.LineItem{
		{Quantity: 2, Price: 9.99},
		{Quantity: 1, Price: 0.01},
		{Quantity: 3, Price: 7},
	}
	reversed := []domain.LineItem{a[2], a[1], a[0]}

	assert.InDelta(t, Subtotal(a), Subtotal(reversed), 1e-9)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, 0.0, Sanitize(math.NaN()))
	assert.Equal(t, 0.0, Sanitize(math.Inf(1)))
	assert.Equal(t, 0.0, Sanitize(math.Inf(-1)))
	assert.Equal(t, 12.5, Sanitize(12.5))
}

func TestSanitizeFees(t *testing.T) {
	fees := SanitizeFees(FeeInputs{
		Discount: math.NaN(),
		TaxRate:  math.Inf(1),
		Shipping: 3,
	})

	assert.Equal(t, 0.0, fees.Discount)
	assert.Equal(t, 0.0, fees.TaxRate)
	assert.Equal(t, 3.0, fees.Shipping)
}
