package calculation

import (
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// TotalCost is purchase price plus stamp duty, renovation, agent fees and the
// mortgage interest paid up to asOf.
func TotalCost(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	return property.PurchasePrice.
		Add(property.StampDuty).
		Add(property.RenovationCost).
		Add(property.AgentFees).
		Add(MortgageInterestPaidWithRefinances(property, refinances, asOf))
}

// NetProfit is the effective current value less total cost and CPF accrued interest
func NetProfit(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	totalCost := TotalCost(property, refinances, asOf)
	cpfInterest := CPFAccruedInterest(property.CPFAmount, property.PurchaseDate, asOf)
	return property.EffectiveCurrentValue().Sub(totalCost).Sub(cpfInterest)
}

// ROI is net profit as a percentage of total cost. Zero when cost is zero.
func ROI(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	totalCost := TotalCost(property, refinances, asOf)
	if totalCost.IsZero() {
		return decimal.Zero
	}
	return NetProfit(property, refinances, asOf).Div(totalCost).Mul(hundred)
}

// ProfitPercentage is the metric compared against a property's profit target
func ProfitPercentage(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	return ROI(property, refinances, asOf)
}

// AnnualizedReturn compounds the cumulative ROI ratio down to a per-year
// figure: (1 + ROI/100)^(1/years) - 1, in percent. This annualizes the profit
// ratio, not the change in property value.
func AnnualizedReturn(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	years := yearsFromDays(dateutil.DaysBetween(property.PurchaseDate, asOf))
	if years.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	ratio := decimal.NewFromInt(1).Add(percent(ROI(property, refinances, asOf)))
	if ratio.LessThanOrEqual(decimal.Zero) {
		// total loss; a fractional power of a non-positive ratio is undefined
		return hundred.Neg()
	}
	return pow(ratio, decimal.NewFromInt(1).Div(years)).Mul(hundred).Sub(hundred)
}

// BreakEvenPrice approximates the sale price needed to recover all costs net
// of SSD. SSD is levied on the pre-SSD cost basis rather than solved for the
// sale price itself.
func BreakEvenPrice(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	base := TotalCost(property, refinances, asOf).
		Add(CPFAccruedInterest(property.CPFAmount, property.PurchaseDate, asOf))
	return base.Add(CalculateSSD(base, property.PurchaseDate, asOf))
}

// TargetSalePrice is the effective value at which ROI reaches the property's
// profit target. Zero when no target is set.
func TargetSalePrice(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	if !property.HasTarget() {
		return decimal.Zero
	}
	totalCost := TotalCost(property, refinances, asOf)
	cpfInterest := CPFAccruedInterest(property.CPFAmount, property.PurchaseDate, asOf)
	multiplier := decimal.NewFromInt(1).Add(percent(property.TargetProfitPercentage))
	return totalCost.Mul(multiplier).Add(cpfInterest)
}

// GrossYield is annual rental as a percentage of current value
func GrossYield(monthlyRental, currentValue decimal.Decimal) decimal.Decimal {
	if currentValue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return monthlyRental.Mul(twelve).Mul(hundred).Div(currentValue)
}

// NetYield is annual rental less annual expenses as a percentage of current value
func NetYield(monthlyRental, currentValue, annualExpenses decimal.Decimal) decimal.Decimal {
	if currentValue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return monthlyRental.Mul(twelve).Sub(annualExpenses).Mul(hundred).Div(currentValue)
}

// EstimateAnnualExpenses applies the flat expense convention: maintenance,
// a property tax proxy of a fraction of annual rental, and insurance.
func EstimateAnnualExpenses(monthlyRental decimal.Decimal, assumptions domain.Assumptions) decimal.Decimal {
	a := assumptions.WithDefaults()
	annualRental := monthlyRental.Mul(twelve)
	return a.AnnualMaintenance.
		Add(annualRental.Mul(a.PropertyTaxRentalFactor)).
		Add(a.AnnualInsurance)
}
