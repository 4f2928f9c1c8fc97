package calculation

import (
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Engine builds property and portfolio summaries. The clock is read once per
// top-level call and the same asOf date is used for every metric in it.
type Engine struct {
	Assumptions domain.Assumptions
	Logger      Logger
	Clock       func() time.Time
}

// NewEngine creates an engine with default assumptions and the wall clock
func NewEngine() *Engine {
	return &Engine{
		Assumptions: domain.DefaultAssumptions(),
		Logger:      NopLogger{},
		Clock:       time.Now,
	}
}

// NewEngineWithAssumptions creates an engine with the given assumptions,
// filling unset fields with defaults
func NewEngineWithAssumptions(assumptions domain.Assumptions) *Engine {
	e := NewEngine()
	e.Assumptions = assumptions.WithDefaults()
	return e
}

// SetLogger sets the logger; nil installs a NopLogger
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = logger
}

// AsOf pins the engine clock to a fixed date
func (e *Engine) AsOf(date time.Time) *Engine {
	e.Clock = func() time.Time { return date }
	return e
}

// Today samples the clock and returns the date-only evaluation date
func (e *Engine) Today() time.Time {
	if e.Clock == nil {
		return dateutil.DateOnly(time.Now())
	}
	return dateutil.DateOnly(e.Clock())
}

// Summarize computes every metric for one property at today's date
func (e *Engine) Summarize(property domain.Property) *domain.PropertySummary {
	return e.SummarizeAt(property, e.Today())
}

// SummarizeAt computes every metric for one property at asOf
func (e *Engine) SummarizeAt(property domain.Property, asOf time.Time) *domain.PropertySummary {
	p := &property
	refis := domain.SortRefinances(p.Refinances)
	p.Refinances = refis
	a := e.Assumptions.WithDefaults()

	e.Logger.Debugf("summarizing %q as of %s (%d refinances)", p.Name, dateutil.Format(asOf), len(refis))

	value := p.EffectiveCurrentValue()
	annualRental := p.MonthlyRental.Mul(twelve)
	annualExpenses := EstimateAnnualExpenses(p.MonthlyRental, a)

	s := &domain.PropertySummary{
		Property:             *p,
		AsOf:                 asOf,
		EffectiveValue:       value,
		MortgageInterestPaid: MortgageInterestPaidWithRefinances(p, refis, asOf),
		CPFAccruedInterest:   CPFAccruedInterest(p.CPFAmount, p.PurchaseDate, asOf),
		TotalCost:            TotalCost(p, refis, asOf),
		NetProfit:            NetProfit(p, refis, asOf),
		ROI:                  ROI(p, refis, asOf),
		AnnualizedReturn:     AnnualizedReturn(p, refis, asOf),
		BreakEvenPrice:       BreakEvenPrice(p, refis, asOf),
		TargetSalePrice:      TargetSalePrice(p, refis, asOf),

		SSDPayable:    CalculateSSD(value, p.PurchaseDate, asOf),
		SSDCountdown:  SSDCountdownAt(p.PurchaseDate, asOf),
		SSDFreeDate:   SSDFreeDate(p.PurchaseDate),
		DaysToSSDFree: DaysToSSDFree(p.PurchaseDate, asOf),

		AnnualRental:   annualRental,
		AnnualExpenses: annualExpenses,
		GrossYield:     GrossYield(p.MonthlyRental, value),
		NetYield:       NetYield(p.MonthlyRental, value, annualExpenses),

		AppreciationRate: a.AppreciationRate,
		Scenarios:        BuildScenarios(p, refis, asOf, a.AppreciationRate),
		Recommendation:   SellOrHoldRecommendation(p, refis, asOf),
		ValueProjection:  ProjectValues(p, a.AppreciationRate, a.ProjectionYears, asOf),
		Segments:         AmortizationSegments(p, refis, asOf),
	}

	if s.NetProfit.IsNegative() {
		e.Logger.Debugf("%q is below break-even: net %s, break-even price %s",
			p.Name, s.NetProfit.StringFixed(2), s.BreakEvenPrice.StringFixed(2))
	}
	return s
}

// SummarizePortfolio summarizes every property at one shared date
func (e *Engine) SummarizePortfolio(properties []domain.Property) *domain.PortfolioSummary {
	asOf := e.Today()
	summary := &domain.PortfolioSummary{AsOf: asOf}
	for _, p := range properties {
		ps := e.SummarizeAt(p, asOf)
		summary.Properties = append(summary.Properties, *ps)
		summary.TotalInvestment = summary.TotalInvestment.Add(ps.TotalCost)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(ps.EffectiveValue)
	}
	summary.TotalProfit = summary.TotalCurrentValue.Sub(summary.TotalInvestment)
	e.Logger.Infof("portfolio of %d properties: investment %s, value %s",
		len(properties), summary.TotalInvestment.StringFixed(0), summary.TotalCurrentValue.StringFixed(0))
	return summary
}

// Sensitivity runs the hold scenarios across appreciation rates at today's date
func (e *Engine) Sensitivity(property domain.Property, minPct, maxPct, step decimal.Decimal) []domain.SensitivityPoint {
	asOf := e.Today()
	return AppreciationSensitivity(&property, property.Refinances, asOf, minPct, maxPct, step)
}
