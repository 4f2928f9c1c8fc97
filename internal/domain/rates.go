package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MASRates is a snapshot of Monetary Authority of Singapore reference rates (annual %)
type MASRates struct {
	Source                string          `json:"source"`
	LastUpdated           time.Time       `json:"last_updated"`
	SOR3M                 decimal.Decimal `json:"sor_3m"`
	SORA1M                decimal.Decimal `json:"sora_1m"`
	SORA3M                decimal.Decimal `json:"sora_3m"`
	FixedDeposit12M       decimal.Decimal `json:"fixed_deposit_12m"`
	SavingsReference      decimal.Decimal `json:"savings_reference"`
	EstimatedHomeLoanRate decimal.Decimal `json:"estimated_home_loan_rate"`
}

// LatestMASRates returns the maintained snapshot. The MAS table is not stable
// enough to scrape, so the figures are updated by hand.
func LatestMASRates() MASRates {
	return MASRates{
		Source:                "MAS Table of Rates Snapshot (maintained in app)",
		LastUpdated:           time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC),
		SOR3M:                 decimal.NewFromFloat(2.84),
		SORA1M:                decimal.NewFromFloat(2.91),
		SORA3M:                decimal.NewFromFloat(2.96),
		FixedDeposit12M:       decimal.NewFromFloat(2.35),
		SavingsReference:      decimal.NewFromFloat(0.15),
		EstimatedHomeLoanRate: decimal.NewFromFloat(2.95),
	}
}
