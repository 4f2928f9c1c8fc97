package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment(t *testing.T) {
	// 360k over 25 years at 2.75% is roughly S$1,660.72 a month
	payment := MonthlyPayment(decimal.NewFromInt(360000), dec(2.75), 25)
	assert.InDelta(t, 1660.72, payment.InexactFloat64(), 0.05)

	assert.True(t, MonthlyPayment(decimal.Zero, dec(2.75), 25).IsZero())
	assert.True(t, MonthlyPayment(decimal.NewFromInt(360000), decimal.Zero, 25).IsZero())
	assert.True(t, MonthlyPayment(decimal.NewFromInt(360000), dec(2.75), 0).IsZero())
}

func TestMortgageInterestPaid_ZeroCases(t *testing.T) {
	start := dateutil.Date(2020, 1, 1)
	asOf := dateutil.Date(2024, 1, 1)

	tests := []struct {
		name   string
		loan   decimal.Decimal
		rate   decimal.Decimal
		tenure int
		from   time.Time
		to     time.Time
	}{
		{"zero loan", decimal.Zero, dec(3.5), 25, start, asOf},
		{"zero rate", decimal.NewFromInt(100000), decimal.Zero, 25, start, asOf},
		{"zero tenure", decimal.NewFromInt(100000), dec(3.5), 0, start, asOf},
		{"start after as-of", decimal.NewFromInt(100000), dec(3.5), 25, asOf, start},
		{"same day", decimal.NewFromInt(100000), dec(3.5), 25, start, start},
		{"less than one month", decimal.NewFromInt(100000), dec(3.5), 25, start, dateutil.Date(2020, 1, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MortgageInterestPaid(tt.loan, tt.rate, tt.tenure, tt.from, tt.to)
			assert.True(t, result.IsZero(), "expected zero, got %s", result.String())
		})
	}
}

func TestMortgageInterestPaid_FirstMonth(t *testing.T) {
	// 31 days is 1.02 average months: exactly one month of interest on the full balance
	result := MortgageInterestPaid(decimal.NewFromInt(360000), dec(2.75), 25,
		dateutil.Date(2024, 1, 1), dateutil.Date(2024, 2, 1))
	assert.InDelta(t, 825.0, result.InexactFloat64(), 0.01)
}

func TestMortgageInterestPaid_FullTerm(t *testing.T) {
	loan := decimal.NewFromInt(300000)
	rate := dec(3.0)
	payment := MonthlyPayment(loan, rate, 20)

	result := MortgageInterestPaid(loan, rate, 20, dateutil.Date(2000, 1, 1), dateutil.Date(2024, 1, 1))

	expected := payment.Mul(decimal.NewFromInt(240)).Sub(loan)
	assert.True(t, expected.Equal(result), "expected closed form %s, got %s", expected.String(), result.String())
	assert.True(t, TotalScheduleInterest(loan, rate, 20).Equal(result))
}

func TestMortgageInterestPaid_PartialBelowFullTerm(t *testing.T) {
	loan := decimal.NewFromInt(360000)
	rate := dec(2.75)
	start := dateutil.Date(2022, 6, 15)

	twoYears := MortgageInterestPaid(loan, rate, 25, start, dateutil.Date(2024, 6, 15))
	fiveYears := MortgageInterestPaid(loan, rate, 25, start, dateutil.Date(2027, 6, 15))
	full := TotalScheduleInterest(loan, rate, 25)

	assert.True(t, twoYears.IsPositive())
	assert.True(t, fiveYears.GreaterThan(twoYears))
	assert.True(t, full.GreaterThan(fiveYears))
	// interest on a declining balance stays under simple interest on the full loan
	assert.True(t, twoYears.LessThan(loan.Mul(dec(0.0275)).Mul(decimal.NewFromInt(2))))
}

func TestMortgageInterestPaidWithRefinances_NoRefinances(t *testing.T) {
	property := sampleCondo()
	dates := []time.Time{
		dateutil.Date(2022, 6, 15),
		dateutil.Date(2023, 1, 1),
		dateutil.Date(2024, 6, 15),
		dateutil.Date(2060, 1, 1),
	}

	for _, asOf := range dates {
		single := MortgageInterestPaid(property.MortgageAmount, property.MortgageInterestRate,
			property.MortgageTenureYears, property.PurchaseDate, asOf)
		withRefis := MortgageInterestPaidWithRefinances(&property, nil, asOf)
		assert.True(t, single.Equal(withRefis), "as of %s: %s vs %s", dateutil.Format(asOf), single, withRefis)
	}
}

func TestAmortizationSegments(t *testing.T) {
	property := sampleCondo()
	later := refinance(dateutil.Date(2024, 1, 1), 330000, 3.1, 22)
	earlier := refinance(dateutil.Date(2023, 6, 15), 345000, 3.6, 24)
	refis := []domain.Refinance{later, earlier}

	segments := AmortizationSegments(&property, refis, evaluationDate)

	require.Len(t, segments, 3)
	assert.Equal(t, domain.SegmentOriginal, segments[0].Kind)
	assert.Equal(t, property.PurchaseDate, segments[0].Start)
	assert.Equal(t, earlier.RefinanceDate, segments[0].End)
	assert.Equal(t, "Original loan", segments[0].Label())

	assert.Equal(t, domain.SegmentRefinance, segments[1].Kind)
	assert.Equal(t, 1, segments[1].Index)
	assert.True(t, segments[1].LoanAmount.Equal(earlier.LoanAmount))
	assert.Equal(t, later.RefinanceDate, segments[1].End)

	assert.Equal(t, 2, segments[2].Index)
	assert.Equal(t, evaluationDate, segments[2].End)
	assert.Equal(t, "Refinance 2", segments[2].Label())

	// caller's slice keeps its order
	assert.Equal(t, later.RefinanceDate, refis[0].RefinanceDate)

	var sum decimal.Decimal
	for _, s := range segments {
		expected := MortgageInterestPaid(s.LoanAmount, s.InterestRate, s.TenureYears, s.Start, s.End)
		assert.True(t, expected.Equal(s.InterestPaid))
		sum = sum.Add(s.InterestPaid)
	}
	assert.True(t, sum.Equal(MortgageInterestPaidWithRefinances(&property, refis, evaluationDate)))
}

func TestMortgageInterestPaidWithRefinances_FreshLoanPerSegment(t *testing.T) {
	property := sampleCondo()
	refi := refinance(dateutil.Date(2023, 6, 15), 345000, 3.6, 24)

	total := MortgageInterestPaidWithRefinances(&property, []domain.Refinance{refi}, evaluationDate)

	original := MortgageInterestPaid(property.MortgageAmount, property.MortgageInterestRate, 25,
		property.PurchaseDate, refi.RefinanceDate)
	fresh := MortgageInterestPaid(refi.LoanAmount, refi.InterestRate, refi.TenureYears,
		refi.RefinanceDate, evaluationDate)
	assert.True(t, original.Add(fresh).Equal(total))
}
