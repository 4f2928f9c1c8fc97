package calculation

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RecommendationAppreciationRate is the fixed appreciation (%) the sell/hold
// recommendation assumes, independent of the user's projection rate.
var RecommendationAppreciationRate = decimal.NewFromInt(3)

const (
	LabelSellNow     = "Sell now"
	LabelHoldOneYear = "Hold 1 year"
	LabelHoldTwoYear = "Hold 2 years"
	LabelHoldSSDFree = "Hold until SSD-free"
)

// BuildScenarios evaluates selling now, holding one year, two years, and
// until the day-based SSD period ends. Sell now is always first.
func BuildScenarios(property *domain.Property, refinances []domain.Refinance, asOf time.Time, appreciationPct decimal.Decimal) []domain.ScenarioResult {
	ssdFreeMonths := MonthsToSSDFree(property.PurchaseDate, asOf)
	return []domain.ScenarioResult{
		{Label: LabelSellNow, HoldMonths: 0, ProjectedNetProceeds: SellNowProceeds(property, refinances, asOf)},
		{Label: LabelHoldOneYear, HoldMonths: 12, ProjectedNetProceeds: HoldProceeds(property, 12, appreciationPct, refinances, asOf)},
		{Label: LabelHoldTwoYear, HoldMonths: 24, ProjectedNetProceeds: HoldProceeds(property, 24, appreciationPct, refinances, asOf)},
		{Label: LabelHoldSSDFree, HoldMonths: ssdFreeMonths, ProjectedNetProceeds: HoldProceeds(property, ssdFreeMonths, appreciationPct, refinances, asOf)},
	}
}

// SelectRecommendation picks the scenario with the highest proceeds. The
// first scenario is the sell-now baseline and wins ties.
func SelectRecommendation(scenarios []domain.ScenarioResult) domain.Recommendation {
	if len(scenarios) == 0 {
		return domain.Recommendation{Message: "Recommended: Sell now"}
	}

	baseline := scenarios[0]
	best := baseline
	for _, s := range scenarios[1:] {
		if s.ProjectedNetProceeds.GreaterThan(best.ProjectedNetProceeds) {
			best = s
		}
	}

	rec := domain.Recommendation{
		Best:      best,
		Scenarios: scenarios,
	}
	if best.HoldMonths == 0 {
		rec.Message = "Recommended: Sell now"
		return rec
	}

	rec.AdditionalProceedsVsSellNow = best.ProjectedNetProceeds.Sub(baseline.ProjectedNetProceeds)
	rec.Message = fmt.Sprintf("Recommended: Hold %d more months to save %s in SSD-adjusted proceeds",
		best.HoldMonths, FormatSGD(rec.AdditionalProceedsVsSellNow))
	return rec
}

// SellOrHoldRecommendation compares the standard scenarios at the fixed
// recommendation appreciation rate.
func SellOrHoldRecommendation(property *domain.Property, refinances []domain.Refinance, asOf time.Time) domain.Recommendation {
	return SelectRecommendation(BuildScenarios(property, refinances, asOf, RecommendationAppreciationRate))
}

var sgdPrinter = message.NewPrinter(language.English)

// FormatSGD renders an amount as whole Singapore dollars with grouping, e.g. S$12,345
func FormatSGD(amount decimal.Decimal) string {
	rounded := amount.Round(0).IntPart()
	if rounded < 0 {
		return sgdPrinter.Sprintf("-S$%d", -rounded)
	}
	return sgdPrinter.Sprintf("S$%d", rounded)
}
