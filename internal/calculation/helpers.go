package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	twelve       = decimal.NewFromInt(12)
	daysPerMonth = decimal.NewFromFloat(30.44)
	daysPerYear  = decimal.NewFromFloat(365.25)
)

// percent converts a percentage (2.5) to a fraction (0.025)
func percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}

// pow raises base to a fractional exponent. decimal.Pow only handles integer
// exponents reliably, so the power goes through float64 and comes back as a
// decimal for the money arithmetic. Results that are not finite collapse to
// zero; decimal cannot represent NaN or Inf.
func pow(base, exp decimal.Decimal) decimal.Decimal {
	v := math.Pow(base.InexactFloat64(), exp.InexactFloat64())
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// yearsFromDays converts elapsed days to fractional years of 365.25 days
func yearsFromDays(days int) decimal.Decimal {
	return decimal.NewFromInt(int64(days)).Div(daysPerYear)
}

// monthsFromDays converts elapsed days to fractional months of 30.44 days
func monthsFromDays(days int) decimal.Decimal {
	return decimal.NewFromInt(int64(days)).Div(daysPerMonth)
}
