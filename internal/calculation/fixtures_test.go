package calculation

import (
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// evaluationDate is the fixed "today" used by the end-to-end fixtures
var evaluationDate = dateutil.Date(2024, 6, 15)

// sampleCondo is purchased two years before evaluationDate
func sampleCondo() domain.Property {
	return domain.Property{
		ID:                   1,
		Name:                 "Tampines Condo",
		Type:                 domain.PropertyTypeCondo,
		PurchasePrice:        decimal.NewFromInt(450000),
		PurchaseDate:         dateutil.Date(2022, 6, 15),
		StampDuty:            decimal.NewFromInt(8100),
		RenovationCost:       decimal.NewFromInt(20000),
		AgentFees:            decimal.NewFromInt(5000),
		CPFAmount:            decimal.NewFromInt(150000),
		CurrentValue:         decimal.NewFromInt(480000),
		MortgageAmount:       decimal.NewFromInt(360000),
		MortgageInterestRate: decimal.NewFromFloat(2.75),
		MortgageTenureYears:  25,
		MonthlyRental:        decimal.NewFromInt(2500),
	}
}

func refinance(date time.Time, loan int64, rate float64, tenure int) domain.Refinance {
	return domain.Refinance{
		RefinanceDate: date,
		LoanAmount:    decimal.NewFromInt(loan),
		InterestRate:  decimal.NewFromFloat(rate),
		TenureYears:   tenure,
	}
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
