package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SSDCountdown describes where a property sits in the Seller's Stamp Duty schedule
type SSDCountdown struct {
	YearsOwned         int  `json:"years_owned"`
	DaysSincePurchase  int  `json:"days_since_purchase"`
	CurrentRatePercent int  `json:"current_rate"`
	NextRatePercent    int  `json:"next_rate"`
	DaysToNextTier     int  `json:"days_to_next_tier"`
	IsExempt           bool `json:"is_exempt"`
}

// SegmentKind tags an amortization segment
type SegmentKind string

const (
	SegmentOriginal  SegmentKind = "original"
	SegmentRefinance SegmentKind = "refinance"
)

// AmortizationSegment is one stretch of the loan timeline amortized under a
// single set of terms. Each refinance starts a fresh schedule; balances are
// not carried over between segments.
type AmortizationSegment struct {
	Kind         SegmentKind     `json:"kind"`
	Index        int             `json:"index"` // 0 for the original loan, N for the Nth refinance
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureYears  int             `json:"tenure_years"`
	InterestPaid decimal.Decimal `json:"interest_paid"`
}

// Label returns a human-readable segment name
func (s AmortizationSegment) Label() string {
	if s.Kind == SegmentOriginal {
		return "Original loan"
	}
	return fmt.Sprintf("Refinance %d", s.Index)
}

// ScenarioResult is the projected outcome of selling after HoldMonths
type ScenarioResult struct {
	Label                string          `json:"label"`
	HoldMonths           int             `json:"hold_months"`
	ProjectedNetProceeds decimal.Decimal `json:"projected_net_proceeds"`
}

// Recommendation is the best of a set of sell/hold scenarios
type Recommendation struct {
	Best                        ScenarioResult   `json:"best"`
	Message                     string           `json:"message"`
	AdditionalProceedsVsSellNow decimal.Decimal  `json:"additional_proceeds_vs_sell_now"`
	Scenarios                   []ScenarioResult `json:"scenarios"`
}

// IsSellNow reports whether the recommendation is to sell immediately
func (r Recommendation) IsSellNow() bool {
	return r.Best.HoldMonths == 0
}

// ValuePointKind tags a point on a value history/projection series
type ValuePointKind string

const (
	ValueHistorical ValuePointKind = "historical"
	ValueCurrent    ValuePointKind = "current"
	ValueProjection ValuePointKind = "projection"
)

// ValuePoint is a property value for a calendar year
type ValuePoint struct {
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
	Kind  ValuePointKind  `json:"kind"`
}

// SensitivityPoint holds hold-scenario proceeds for one appreciation rate
type SensitivityPoint struct {
	AppreciationRate decimal.Decimal  `json:"appreciation_rate"`
	Scenarios        []ScenarioResult `json:"scenarios"`
}

// PropertySummary bundles every metric computed for one property at AsOf
type PropertySummary struct {
	Property Property  `json:"property"`
	AsOf     time.Time `json:"as_of"`

	EffectiveValue       decimal.Decimal `json:"effective_value"`
	MortgageInterestPaid decimal.Decimal `json:"mortgage_interest_paid"`
	CPFAccruedInterest   decimal.Decimal `json:"cpf_accrued_interest"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	NetProfit            decimal.Decimal `json:"net_profit"`
	ROI                  decimal.Decimal `json:"roi"`
	AnnualizedReturn     decimal.Decimal `json:"annualized_return"`
	BreakEvenPrice       decimal.Decimal `json:"break_even_price"`
	TargetSalePrice      decimal.Decimal `json:"target_sale_price,omitempty"`

	SSDPayable    decimal.Decimal `json:"ssd_payable"`
	SSDCountdown  SSDCountdown    `json:"ssd_countdown"`
	SSDFreeDate   time.Time       `json:"ssd_free_date"`
	DaysToSSDFree int             `json:"days_to_ssd_free"`

	AnnualRental   decimal.Decimal `json:"annual_rental"`
	AnnualExpenses decimal.Decimal `json:"annual_expenses"`
	GrossYield     decimal.Decimal `json:"gross_yield"`
	NetYield       decimal.Decimal `json:"net_yield"`

	AppreciationRate decimal.Decimal       `json:"appreciation_rate"`
	Scenarios        []ScenarioResult      `json:"scenarios"`
	Recommendation   Recommendation        `json:"recommendation"`
	ValueProjection  []ValuePoint          `json:"value_projection"`
	Segments         []AmortizationSegment `json:"segments"`
}

// PortfolioSummary aggregates every property in a portfolio
type PortfolioSummary struct {
	AsOf              time.Time         `json:"as_of"`
	Properties        []PropertySummary `json:"properties"`
	TotalInvestment   decimal.Decimal   `json:"total_investment"`
	TotalCurrentValue decimal.Decimal   `json:"total_current_value"`
	TotalProfit       decimal.Decimal   `json:"total_profit"`
}

// SSDQuote is a standalone SSD estimate for a hypothetical sale
type SSDQuote struct {
	SalePrice    decimal.Decimal `json:"sale_price"`
	PurchaseDate time.Time       `json:"purchase_date"`
	AsOf         time.Time       `json:"as_of"`
	SSD          decimal.Decimal `json:"ssd"`
	Countdown    SSDCountdown    `json:"countdown"`
	SSDFreeDate  time.Time       `json:"ssd_free_date"`
	AgentFees    decimal.Decimal `json:"agent_fees"`
	NetProceeds  decimal.Decimal `json:"net_proceeds"`
	// WaitSavings is what reaching the next tier would save in SSD
	WaitSavings decimal.Decimal `json:"wait_savings"`
}
