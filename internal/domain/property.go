package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PropertyType classifies a Singapore residential property
type PropertyType string

const (
	PropertyTypeHDB    PropertyType = "HDB"
	PropertyTypeCondo  PropertyType = "Condo"
	PropertyTypeLanded PropertyType = "Landed"
)

// Valid reports whether the type is one of the supported property types
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHDB, PropertyTypeCondo, PropertyTypeLanded:
		return true
	}
	return false
}

// Property is a purchased property together with its financing terms.
// Rates are annual percentages (2.75 means 2.75%).
type Property struct {
	ID                     int64           `yaml:"id,omitempty" json:"id,omitempty"`
	Name                   string          `yaml:"name" json:"name"`
	Address                string          `yaml:"address" json:"address"`
	Type                   PropertyType    `yaml:"type" json:"type"`
	PurchasePrice          decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	PurchaseDate           time.Time       `yaml:"purchase_date" json:"purchase_date"`
	StampDuty              decimal.Decimal `yaml:"stamp_duty" json:"stamp_duty"`
	RenovationCost         decimal.Decimal `yaml:"renovation_cost" json:"renovation_cost"`
	AgentFees              decimal.Decimal `yaml:"agent_fees" json:"agent_fees"`
	CPFAmount              decimal.Decimal `yaml:"cpf_amount" json:"cpf_amount"`
	CurrentValue           decimal.Decimal `yaml:"current_value" json:"current_value"` // zero means "use purchase price"
	MortgageAmount         decimal.Decimal `yaml:"mortgage_amount" json:"mortgage_amount"`
	MortgageInterestRate   decimal.Decimal `yaml:"mortgage_interest_rate" json:"mortgage_interest_rate"`
	MortgageTenureYears    int             `yaml:"mortgage_tenure" json:"mortgage_tenure"`
	MonthlyRental          decimal.Decimal `yaml:"monthly_rental" json:"monthly_rental"`
	TargetProfitPercentage decimal.Decimal `yaml:"target_profit_percentage" json:"target_profit_percentage"` // zero means no target
	TargetProfitAlertSent  bool            `yaml:"target_profit_alert_sent,omitempty" json:"target_profit_alert_sent,omitempty"`

	Refinances []Refinance `yaml:"refinances,omitempty" json:"refinances,omitempty"`
}

// EffectiveCurrentValue returns the current value, falling back to the
// purchase price when no valuation has been recorded.
func (p *Property) EffectiveCurrentValue() decimal.Decimal {
	if p.CurrentValue.IsPositive() {
		return p.CurrentValue
	}
	return p.PurchasePrice
}

// HasTarget reports whether a profit target is configured
func (p *Property) HasTarget() bool {
	return p.TargetProfitPercentage.IsPositive()
}

// Refinance replaces the outstanding loan with new terms from RefinanceDate on.
type Refinance struct {
	ID            int64           `yaml:"id,omitempty" json:"id,omitempty"`
	PropertyID    int64           `yaml:"property_id,omitempty" json:"property_id,omitempty"`
	RefinanceDate time.Time       `yaml:"refinance_date" json:"refinance_date"`
	LoanAmount    decimal.Decimal `yaml:"loan_amount" json:"loan_amount"`
	InterestRate  decimal.Decimal `yaml:"interest_rate" json:"interest_rate"`
	TenureYears   int             `yaml:"tenure" json:"tenure"`
	Description   string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// SortRefinances returns a copy of refinances ordered by date, oldest first.
// The input slice is left untouched.
func SortRefinances(refinances []Refinance) []Refinance {
	sorted := make([]Refinance, len(refinances))
	copy(sorted, refinances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RefinanceDate.Before(sorted[j].RefinanceDate)
	})
	return sorted
}

// LatestRefinance returns the most recent refinance, if any
func LatestRefinance(refinances []Refinance) (Refinance, bool) {
	if len(refinances) == 0 {
		return Refinance{}, false
	}
	sorted := SortRefinances(refinances)
	return sorted[len(sorted)-1], true
}
