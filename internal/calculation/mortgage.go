package calculation

import (
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// MORTGAGE ASSUMPTIONS:
//
// 1. Elapsed time is measured in average months of 30.44 days, not calendar
//    months. Only whole elapsed months accrue interest.
//
// 2. A refinance is amortized as a brand-new loan from its own date with its
//    own amount, rate and tenure. The prior segment's remaining balance is not
//    carried over; this is an approximation kept for parity with the figures
//    users already see.

// MonthlyPayment returns the fixed annuity payment for a loan.
// Returns zero for a zero loan, rate or tenure.
func MonthlyPayment(loanAmount, annualRatePct decimal.Decimal, tenureYears int) decimal.Decimal {
	if loanAmount.IsZero() || annualRatePct.IsZero() || tenureYears <= 0 {
		return decimal.Zero
	}
	monthlyRate := percent(annualRatePct).Div(twelve)
	totalMonths := decimal.NewFromInt(int64(tenureYears * 12))
	factor := pow(decimal.NewFromInt(1).Add(monthlyRate), totalMonths)
	return loanAmount.Mul(monthlyRate).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
}

// TotalScheduleInterest is the interest paid over the full loan schedule
func TotalScheduleInterest(loanAmount, annualRatePct decimal.Decimal, tenureYears int) decimal.Decimal {
	payment := MonthlyPayment(loanAmount, annualRatePct, tenureYears)
	if payment.IsZero() {
		return decimal.Zero
	}
	return payment.Mul(decimal.NewFromInt(int64(tenureYears * 12))).Sub(loanAmount)
}

// MortgageInterestPaid returns the interest paid on a fixed-payment loan from
// startDate to asOf. Once the schedule is complete the closed-form total is
// returned instead of simulating.
func MortgageInterestPaid(loanAmount, annualRatePct decimal.Decimal, tenureYears int, startDate, asOf time.Time) decimal.Decimal {
	if loanAmount.IsZero() || annualRatePct.IsZero() || tenureYears <= 0 {
		return decimal.Zero
	}

	elapsed := monthsFromDays(dateutil.DaysBetween(startDate, asOf))
	if elapsed.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	totalMonths := tenureYears * 12
	if elapsed.GreaterThanOrEqual(decimal.NewFromInt(int64(totalMonths))) {
		return TotalScheduleInterest(loanAmount, annualRatePct, tenureYears)
	}

	monthlyRate := percent(annualRatePct).Div(twelve)
	payment := MonthlyPayment(loanAmount, annualRatePct, tenureYears)

	balance := loanAmount
	var interestPaid decimal.Decimal
	months := int(elapsed.Floor().IntPart())
	for month := 1; month <= months; month++ {
		interest := balance.Mul(monthlyRate)
		interestPaid = interestPaid.Add(interest)
		balance = balance.Sub(payment.Sub(interest))
	}
	return interestPaid
}

// AmortizationSegments splits the loan timeline at each refinance. The first
// segment runs from purchase to the first refinance under the original terms;
// each refinance runs to the next refinance, the last one to asOf.
func AmortizationSegments(property *domain.Property, refinances []domain.Refinance, asOf time.Time) []domain.AmortizationSegment {
	sorted := domain.SortRefinances(refinances)

	end := asOf
	if len(sorted) > 0 {
		end = sorted[0].RefinanceDate
	}
	segments := []domain.AmortizationSegment{{
		Kind:         domain.SegmentOriginal,
		Start:        property.PurchaseDate,
		End:          end,
		LoanAmount:   property.MortgageAmount,
		InterestRate: property.MortgageInterestRate,
		TenureYears:  property.MortgageTenureYears,
	}}

	for i, refi := range sorted {
		end := asOf
		if i < len(sorted)-1 {
			end = sorted[i+1].RefinanceDate
		}
		segments = append(segments, domain.AmortizationSegment{
			Kind:         domain.SegmentRefinance,
			Index:        i + 1,
			Start:        refi.RefinanceDate,
			End:          end,
			LoanAmount:   refi.LoanAmount,
			InterestRate: refi.InterestRate,
			TenureYears:  refi.TenureYears,
		})
	}

	for i := range segments {
		s := &segments[i]
		s.InterestPaid = MortgageInterestPaid(s.LoanAmount, s.InterestRate, s.TenureYears, s.Start, s.End)
	}
	return segments
}

// MortgageInterestPaidWithRefinances sums interest across the original loan
// and every refinance segment up to asOf.
func MortgageInterestPaidWithRefinances(property *domain.Property, refinances []domain.Refinance, asOf time.Time) decimal.Decimal {
	if len(refinances) == 0 {
		return MortgageInterestPaid(property.MortgageAmount, property.MortgageInterestRate, property.MortgageTenureYears, property.PurchaseDate, asOf)
	}

	var total decimal.Decimal
	for _, segment := range AmortizationSegments(property, refinances, asOf) {
		total = total.Add(segment.InterestPaid)
	}
	return total
}
