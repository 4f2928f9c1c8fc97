package calculation

import (
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/shopspring/decimal"
)

// OpportunityCostRate is the annual return (%) assumed on sale proceeds
// reinvested elsewhere, charged against every month of holding.
var OpportunityCostRate = decimal.NewFromInt(3)

// SellNowProceeds is what the owner keeps from a sale on asOf after costs,
// SSD and the CPF refund.
func SellNowProceeds(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	salePrice := property.EffectiveCurrentValue()
	totalCost := TotalCost(property, refinances, asOf)
	ssd := CalculateSSD(salePrice, property.PurchaseDate, asOf)
	cpfRefund := CPFRefundAtSale(property.CPFAmount, property.PurchaseDate, asOf, 0)
	return salePrice.Sub(totalCost).Sub(ssd).Sub(cpfRefund)
}

// ProjectedValue grows the effective current value at appreciationPct per
// year, compounded over holdMonths/12 years.
func ProjectedValue(currentValue, appreciationPct decimal.Decimal, holdMonths int) decimal.Decimal {
	if holdMonths == 0 {
		return currentValue
	}
	years := decimal.NewFromInt(int64(holdMonths)).Div(twelve)
	return currentValue.Mul(pow(decimal.NewFromInt(1).Add(percent(appreciationPct)), years))
}

// AdditionalMortgageInterest is a simple-interest estimate of what the loan
// costs over the hold period, on the latest refinance's terms when one exists.
func AdditionalMortgageInterest(property *domain.Property, refinances []domain.Refinance, holdMonths int) decimal.Decimal {
	loan := property.MortgageAmount
	rate := property.MortgageInterestRate
	if latest, ok := domain.LatestRefinance(refinances); ok {
		loan = latest.LoanAmount
		rate = latest.InterestRate
	}
	if loan.IsZero() || rate.IsZero() || holdMonths <= 0 {
		return decimal.Zero
	}
	return loan.Mul(percent(rate)).Mul(decimal.NewFromInt(int64(holdMonths)).Div(twelve))
}

// OpportunityCost is the return forgone on positive sell-now proceeds over
// the hold period.
func OpportunityCost(sellNowProceeds decimal.Decimal, holdMonths int) decimal.Decimal {
	if holdMonths <= 0 || sellNowProceeds.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return sellNowProceeds.Mul(percent(OpportunityCostRate)).Mul(decimal.NewFromInt(int64(holdMonths)).Div(twelve))
}

// HoldProceeds projects net sale proceeds if the owner holds for holdMonths
// and the property appreciates at appreciationPct per year. At holdMonths = 0
// it agrees with SellNowProceeds except on the rare days where the whole-year
// and day-threshold SSD tiers differ.
func HoldProceeds(property *domain.Property, holdMonths int, appreciationPct decimal.Decimal, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	projected := ProjectedValue(property.EffectiveCurrentValue(), appreciationPct, holdMonths)
	totalCost := TotalCost(property, refinances, asOf)

	ssdRate := SSDRateAtSale(property.PurchaseDate, asOf, holdMonths)
	ssd := projected.Mul(percent(decimal.NewFromInt(int64(ssdRate))))

	cpfRefund := CPFRefundAtSale(property.CPFAmount, property.PurchaseDate, asOf, holdMonths)
	extraInterest := AdditionalMortgageInterest(property, refinances, holdMonths)
	opportunity := OpportunityCost(SellNowProceeds(property, refinances, asOf), holdMonths)

	return projected.
		Sub(totalCost).
		Sub(extraInterest).
		Sub(ssd).
		Sub(cpfRefund).
		Sub(opportunity)
}

// ProjectValues returns the purchase-year value, the current value and one
// projected value per year for the next years years, each projected point
// compounded from the current value.
func ProjectValues(property *domain.Property, appreciationPct decimal.Decimal, years int, asOf time.Time) []domain.ValuePoint {
	current := property.EffectiveCurrentValue()
	points := []domain.ValuePoint{
		{Year: property.PurchaseDate.Year(), Value: property.PurchasePrice, Kind: domain.ValueHistorical},
		{Year: asOf.Year(), Value: current, Kind: domain.ValueCurrent},
	}
	growth := decimal.NewFromInt(1).Add(percent(appreciationPct))
	for i := 1; i <= years; i++ {
		points = append(points, domain.ValuePoint{
			Year:  asOf.Year() + i,
			Value: current.Mul(growth.Pow(decimal.NewFromInt(int64(i)))),
			Kind:  domain.ValueProjection,
		})
	}
	return points
}

// AppreciationSensitivity evaluates the standard hold scenarios across a
// range of appreciation rates, from minPct to maxPct inclusive.
func AppreciationSensitivity(property *domain.Property, refinances []domain.Refinance, asOf time.Time, minPct, maxPct, step decimal.Decimal) []domain.SensitivityPoint {
	if step.LessThanOrEqual(decimal.Zero) || maxPct.LessThan(minPct) {
		return nil
	}
	var points []domain.SensitivityPoint
	for rate := minPct; rate.LessThanOrEqual(maxPct); rate = rate.Add(step) {
		points = append(points, domain.SensitivityPoint{
			AppreciationRate: rate,
			Scenarios:        BuildScenarios(property, refinances, asOf, rate),
		})
	}
	return points
}
