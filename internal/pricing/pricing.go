// Package pricing computes the price of a configured pizza.
//
// All arithmetic goes through shopspring/decimal so sums of cent values never
// pick up binary floating point drift; results are rounded half-up to cents.
package pricing

import (
	"fmt"

	"pizza-builder-backend/internal/models"

	"github.com/shopspring/decimal"
)

// BuildPrice sums every base once, the sauce if any, and each topping times
// its amount. Inputs are assumed to have passed the validation gate.
func BuildPrice(base []models.Selection, sauce *models.Selection, meat, veggie []models.Selection) float64 {
	total := decimal.Zero
	for _, b := range base {
		total = total.Add(decimal.NewFromFloat(b.Price))
	}
	if sauce != nil {
		total = total.Add(decimal.NewFromFloat(sauce.Price))
	}
	total = total.Add(toppings(meat)).Add(toppings(veggie))
	return toFloat(total)
}

func toppings(items []models.Selection) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range items {
		amount := t.Amount
		if amount < 1 {
			amount = 1
		}
		sum = sum.Add(decimal.NewFromFloat(t.Price).Mul(decimal.NewFromInt(int64(amount))))
	}
	return sum
}

// LineTotal is price × quantity summed over lines, rounded to cents.
func LineTotal(lines []models.OrderItem) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.PizzaPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return toFloat(total)
}

// Round2 rounds v half-up (away from zero) to two decimal places.
func Round2(v float64) float64 {
	return toFloat(decimal.NewFromFloat(v))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// PriceMismatchError reports a client-declared price that disagrees with the
// server's own computation.
type PriceMismatchError struct {
	Field    string
	Declared float64
	Computed float64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("%s mismatch: declared %.2f, computed %.2f", e.Field, e.Declared, e.Computed)
}

// VerifyPrice compares a declared value against computed at cent precision.
// A nil declared value is never a mismatch.
func VerifyPrice(field string, declared *float64, computed float64) error {
	if declared == nil {
		return nil
	}
	if !decimal.NewFromFloat(*declared).Round(2).Equal(decimal.NewFromFloat(computed).Round(2)) {
		return &PriceMismatchError{Field: field, Declared: *declared, Computed: computed}
	}
	return nil
}
