package calculator

import "github.com/shopspring/decimal"

// Round2 rounds an amount to 2 decimal places, half away from zero.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// mul multiplies in decimal space so that, for example, 3 × 0.1 prices to 0.30.
func mul(pages int, price float64) float64 {
	return decimal.NewFromInt(int64(pages)).Mul(decimal.NewFromFloat(price)).InexactFloat64()
}

// sum adds amounts in decimal space.
func sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.InexactFloat64()
}
