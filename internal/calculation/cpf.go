package calculation

import (
	"time"

	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// CPFAccrualRate is the CPF Ordinary Account rate applied to funds withdrawn
// for a property purchase (annual %).
var CPFAccrualRate = decimal.NewFromFloat(2.5)

// cpfGrowth returns (1 + 2.5%)^(days/365.25)
func cpfGrowth(days int) decimal.Decimal {
	return pow(decimal.NewFromInt(1).Add(percent(CPFAccrualRate)), yearsFromDays(days))
}

// CPFAccruedInterest is the notional interest owed back to CPF on asOf for
// funds used in the purchase.
func CPFAccruedInterest(cpfAmount decimal.Decimal, purchaseDate, asOf time.Time) decimal.Decimal {
	if cpfAmount.IsZero() {
		return decimal.Zero
	}
	days := dateutil.DaysBetween(purchaseDate, asOf)
	if days <= 0 {
		return decimal.Zero
	}
	return cpfAmount.Mul(cpfGrowth(days)).Sub(cpfAmount)
}

// CPFRefundAtSale is the principal plus accrued interest refunded to CPF on a
// sale holdMonths after asOf.
func CPFRefundAtSale(cpfAmount decimal.Decimal, purchaseDate, asOf time.Time, holdMonths int) decimal.Decimal {
	if cpfAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	saleDate := dateutil.AddMonths(asOf, holdMonths)
	return cpfAmount.Mul(cpfGrowth(dateutil.DaysBetween(purchaseDate, saleDate)))
}
