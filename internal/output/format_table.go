package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/rgehrsitz/sgprop/internal/breakeven"
	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	ruleWidth         = 80
	displayDateLayout = "02/01/2006"
)

// TableFormatter formats summaries as console tables
type TableFormatter struct {
	// Brief skips the per-property detail sections
	Brief bool
}

func (tf *TableFormatter) Name() string { return "table" }

// Format generates the portfolio overview followed by one detail section per property
func (tf *TableFormatter) Format(summary *domain.PortfolioSummary) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("SINGAPORE PROPERTY PORTFOLIO\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	sb.WriteString(fmt.Sprintf("As of: %s\n\n", FormatDate(summary.AsOf)))

	nameWidth := 24
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %-6s %*s %*s %*s %*s\n",
		nameWidth, "Property",
		"Type",
		numWidth, "Value",
		numWidth, "Net Profit",
		8, "ROI",
		numWidth, "SSD Payable"))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")

	for i := range summary.Properties {
		ps := &summary.Properties[i]
		sb.WriteString(fmt.Sprintf("%-*s %-6s %*s %*s %*s %*s\n",
			nameWidth, truncate(ps.Property.Name, nameWidth),
			ps.Property.Type,
			numWidth, FormatCurrency(ps.EffectiveValue),
			numWidth, FormatCurrency(ps.NetProfit),
			8, FormatPercentage(ps.ROI),
			numWidth, FormatCurrency(ps.SSDPayable)))
	}

	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	sb.WriteString(fmt.Sprintf("Total investment:    %s\n", FormatCurrency(summary.TotalInvestment)))
	sb.WriteString(fmt.Sprintf("Total current value: %s\n", FormatCurrency(summary.TotalCurrentValue)))
	sb.WriteString(fmt.Sprintf("Total profit:        %s%s\n", deltaSymbol(summary.TotalProfit), FormatCurrency(summary.TotalProfit)))
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")

	if !tf.Brief {
		for i := range summary.Properties {
			sb.WriteString("\n")
			sb.WriteString(RenderPropertyDetail(&summary.Properties[i]))
		}
	}

	return []byte(sb.String()), nil
}

// RenderPropertyDetail renders returns, SSD status, yields, loan segments and
// the sell/hold comparison for one property
func RenderPropertyDetail(ps *domain.PropertySummary) string {
	var sb strings.Builder
	p := ps.Property

	sb.WriteString(fmt.Sprintf("%s (%s)\n", strings.ToUpper(p.Name), p.Type))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	sb.WriteString(fmt.Sprintf("  Address:              %s\n", p.Address))
	sb.WriteString(fmt.Sprintf("  Purchased:            %s for %s\n", FormatDate(p.PurchaseDate), FormatCurrency(p.PurchasePrice)))
	sb.WriteString(fmt.Sprintf("  Current value:        %s\n", FormatCurrency(ps.EffectiveValue)))

	sb.WriteString("\n  RETURNS\n")
	sb.WriteString(fmt.Sprintf("  Mortgage interest:    %s\n", FormatCurrency(ps.MortgageInterestPaid)))
	sb.WriteString(fmt.Sprintf("  CPF accrued interest: %s\n", FormatCurrency(ps.CPFAccruedInterest)))
	sb.WriteString(fmt.Sprintf("  Total cost:           %s\n", FormatCurrency(ps.TotalCost)))
	sb.WriteString(fmt.Sprintf("  Net profit:           %s%s\n", deltaSymbol(ps.NetProfit), FormatCurrency(ps.NetProfit)))
	sb.WriteString(fmt.Sprintf("  ROI:                  %s\n", FormatPercentage(ps.ROI)))
	sb.WriteString(fmt.Sprintf("  Annualized return:    %s\n", FormatPercentage(ps.AnnualizedReturn)))
	sb.WriteString(fmt.Sprintf("  Break-even price:     %s\n", FormatCurrency(ps.BreakEvenPrice)))
	if p.HasTarget() {
		sb.WriteString(fmt.Sprintf("  Target sale price:    %s (%s target)\n",
			FormatCurrency(ps.TargetSalePrice), FormatPercentage(p.TargetProfitPercentage)))
	}

	sb.WriteString("\n  SELLER'S STAMP DUTY\n")
	sb.WriteString(RenderSSDStatus(ps.SSDCountdown, ps.SSDFreeDate, ps.DaysToSSDFree))
	sb.WriteString(fmt.Sprintf("  SSD if sold today:    %s\n", FormatCurrency(ps.SSDPayable)))

	if ps.AnnualRental.IsPositive() {
		sb.WriteString("\n  RENTAL\n")
		sb.WriteString(fmt.Sprintf("  Annual rental:        %s\n", FormatCurrency(ps.AnnualRental)))
		sb.WriteString(fmt.Sprintf("  Annual expenses:      %s\n", FormatCurrency(ps.AnnualExpenses)))
		sb.WriteString(fmt.Sprintf("  Gross yield:          %s\n", FormatPercentage(ps.GrossYield)))
		sb.WriteString(fmt.Sprintf("  Net yield:            %s\n", FormatPercentage(ps.NetYield)))
	}

	if hasLoan(ps.Segments) {
		sb.WriteString("\n  MORTGAGE TIMELINE\n")
		sb.WriteString(RenderSegments(ps.Segments))
	}

	sb.WriteString("\n")
	sb.WriteString(RenderRecommendation(ps))
	return sb.String()
}

// RenderSSDStatus renders the SSD tier and countdown lines
func RenderSSDStatus(c domain.SSDCountdown, freeDate time.Time, daysToFree int) string {
	var sb strings.Builder
	if c.IsExempt {
		sb.WriteString(fmt.Sprintf("  Status:               Exempt since %s\n", FormatDate(freeDate)))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("  Current rate:         %d%% (%d days owned)\n", c.CurrentRatePercent, c.DaysSincePurchase))
	sb.WriteString(fmt.Sprintf("  Next rate:            %d%% in %d days\n", c.NextRatePercent, c.DaysToNextTier))
	if daysToFree < 0 {
		daysToFree = 0
	}
	sb.WriteString(fmt.Sprintf("  SSD-free on:          %s (%d days)\n", FormatDate(freeDate), daysToFree))
	return sb.String()
}

// RenderSegments renders the amortization segments as a table
func RenderSegments(segments []domain.AmortizationSegment) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %-14s %-10s %-10s %12s %7s %6s %12s\n",
		"Segment", "From", "To", "Loan", "Rate", "Years", "Interest"))
	for _, s := range segments {
		sb.WriteString(fmt.Sprintf("  %-14s %-10s %-10s %12s %7s %6d %12s\n",
			s.Label(),
			FormatDate(s.Start),
			FormatDate(s.End),
			FormatCurrency(s.LoanAmount),
			FormatPercentage(s.InterestRate),
			s.TenureYears,
			FormatCurrency(s.InterestPaid)))
	}
	return sb.String()
}

// RenderRecommendation renders the scenario table and the sell/hold verdict
func RenderRecommendation(ps *domain.PropertySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  SELL OR HOLD (at %s appreciation)\n", FormatPercentage(calculation.RecommendationAppreciationRate)))
	sb.WriteString(RenderScenarios(ps.Recommendation.Scenarios, ps.Recommendation.Best.Label))
	sb.WriteString(fmt.Sprintf("  %s\n", ps.Recommendation.Message))
	return sb.String()
}

// RenderScenarios renders scenario proceeds, marking the best one
func RenderScenarios(scenarios []domain.ScenarioResult, best string) string {
	var sb strings.Builder
	for _, s := range scenarios {
		marker := " "
		if s.Label == best {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("  %s %-30s %3d mo %15s\n",
			marker, truncate(s.Label, 30), s.HoldMonths, FormatCurrency(s.ProjectedNetProceeds)))
	}
	return sb.String()
}

// RenderProjection renders the yearly value series and the scenario proceeds
// at the summary's appreciation rate
func RenderProjection(ps *domain.PropertySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("VALUE PROJECTION: %s (%s p.a.)\n", ps.Property.Name, FormatPercentage(ps.AppreciationRate)))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	for _, v := range ps.ValueProjection {
		sb.WriteString(fmt.Sprintf("  %d  %-10s %15s\n", v.Year, v.Kind, FormatCurrency(v.Value)))
	}
	sb.WriteString("\n  Scenarios\n")
	sb.WriteString(RenderScenarios(ps.Scenarios, ""))
	return sb.String()
}

// RenderSensitivity renders hold proceeds for each appreciation rate, one
// column per scenario
func RenderSensitivity(name string, points []domain.SensitivityPoint) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("APPRECIATION SENSITIVITY: %s\n", name))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	if len(points) == 0 {
		sb.WriteString("  (no rates in range)\n")
		return sb.String()
	}

	colWidth := 14
	sb.WriteString(fmt.Sprintf("  %8s", "Rate"))
	for _, s := range points[0].Scenarios {
		sb.WriteString(fmt.Sprintf(" %*s", colWidth, fmt.Sprintf("%d mo", s.HoldMonths)))
	}
	sb.WriteString("\n")

	for _, point := range points {
		sb.WriteString(fmt.Sprintf("  %8s", FormatPercentage(point.AppreciationRate)))
		for _, s := range point.Scenarios {
			sb.WriteString(fmt.Sprintf(" %*s", colWidth, FormatCurrency(s.ProjectedNetProceeds)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderBreakEven renders the appreciation each hold scenario needs to match
// selling now
func RenderBreakEven(name string, results []breakeven.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("BREAK-EVEN APPRECIATION: %s\n", name))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	if len(results) == 0 {
		sb.WriteString("  (no hold scenarios)\n")
		return sb.String()
	}
	for _, r := range results {
		var rate string
		switch r.Outcome {
		case breakeven.OutcomeHoldAlways:
			rate = "below " + FormatPercentage(r.Rate)
		case breakeven.OutcomeSellAlways:
			rate = "above " + FormatPercentage(r.Rate)
		default:
			rate = FormatPercentage(r.Rate)
		}
		sb.WriteString(fmt.Sprintf("  %-30s %3d mo %16s p.a.\n", truncate(r.Label, 30), r.HoldMonths, rate))
	}
	sb.WriteString(fmt.Sprintf("\n  Sell now nets %s. Holding wins when appreciation beats the rate shown.\n",
		FormatCurrency(results[0].SellNowProceeds)))
	return sb.String()
}

// RenderBSD renders a Buyer's Stamp Duty quote with the bracket breakdown
func RenderBSD(price decimal.Decimal) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("BUYER'S STAMP DUTY on %s\n", FormatCurrency(price)))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	for _, b := range calculation.BSDBrackets {
		if !price.GreaterThan(b.Min) {
			break
		}
		upper := price
		label := fmt.Sprintf("above %s", FormatCurrency(b.Min))
		if !b.Max.IsZero() {
			upper = decimal.Min(price, b.Max)
			label = fmt.Sprintf("%s - %s", FormatCurrency(b.Min), FormatCurrency(b.Max))
		}
		sb.WriteString(fmt.Sprintf("  %-28s %4s %15s\n", label,
			b.Rate.Mul(decimal.NewFromInt(100)).String()+"%",
			FormatCurrency(upper.Sub(b.Min).Mul(b.Rate))))
	}
	sb.WriteString(fmt.Sprintf("  %-33s %15s\n", "Total BSD", FormatCurrency(calculation.CalculateBSD(price))))
	return sb.String()
}

// RenderSSDQuote renders the result of the SSD quick calculator
func RenderSSDQuote(q domain.SSDQuote) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SELLER'S STAMP DUTY on %s (purchased %s, selling %s)\n",
		FormatCurrency(q.SalePrice), FormatDate(q.PurchaseDate), FormatDate(q.AsOf)))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	sb.WriteString(RenderSSDStatus(q.Countdown, q.SSDFreeDate, dateutil.DaysBetween(q.AsOf, q.SSDFreeDate)))
	sb.WriteString(fmt.Sprintf("  Sale price:           %s\n", FormatCurrency(q.SalePrice)))
	sb.WriteString(fmt.Sprintf("  SSD:                 -%s\n", FormatCurrency(q.SSD)))
	sb.WriteString(fmt.Sprintf("  Agent fees (2%%):     -%s\n", FormatCurrency(q.AgentFees)))
	sb.WriteString(fmt.Sprintf("  Net proceeds:         %s\n", FormatCurrency(q.NetProceeds)))
	if !q.Countdown.IsExempt {
		sb.WriteString(fmt.Sprintf("\n  Waiting %d more days could save %s in SSD.\n",
			q.Countdown.DaysToNextTier, FormatCurrency(q.WaitSavings)))
	}
	return sb.String()
}

// RenderRates renders the MAS reference rate snapshot
func RenderRates(r domain.MASRates) string {
	var sb strings.Builder
	sb.WriteString("MAS REFERENCE RATES\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"SOR 3M", r.SOR3M},
		{"SORA 1M", r.SORA1M},
		{"SORA 3M", r.SORA3M},
		{"Fixed deposit 12M", r.FixedDeposit12M},
		{"Savings reference", r.SavingsReference},
		{"Estimated home loan rate", r.EstimatedHomeLoanRate},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %-26s %8s\n", row.label, FormatPercentage(row.value)))
	}
	sb.WriteString(fmt.Sprintf("\n  Source: %s, updated %s\n", r.Source, FormatDate(r.LastUpdated)))
	return sb.String()
}

// RenderPropertyList renders stored properties one per row
func RenderPropertyList(properties []domain.Property) string {
	if len(properties) == 0 {
		return "No stored properties.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%4s  %-24s %-6s %-10s %13s %13s %8s  %s\n",
		"ID", "Property", "Type", "Purchased", "Price", "Value", "Target", "Alert"))
	sb.WriteString(strings.Repeat("-", ruleWidth+12) + "\n")
	for i := range properties {
		p := &properties[i]
		target, alert := "-", "-"
		if p.HasTarget() {
			target = FormatPercentage(p.TargetProfitPercentage)
			alert = "pending"
			if p.TargetProfitAlertSent {
				alert = "sent"
			}
		}
		sb.WriteString(fmt.Sprintf("%4d  %-24s %-6s %-10s %13s %13s %8s  %s\n",
			p.ID, truncate(p.Name, 24), p.Type, FormatDate(p.PurchaseDate),
			FormatCurrency(p.PurchasePrice), FormatCurrency(p.EffectiveCurrentValue()), target, alert))
	}
	return sb.String()
}

// RenderRefinanceList renders a property's refinances, oldest first
func RenderRefinanceList(name string, refis []domain.Refinance) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("REFINANCES: %s\n", name))
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	if len(refis) == 0 {
		sb.WriteString("(none)\n")
		return sb.String()
	}
	for _, r := range domain.SortRefinances(refis) {
		sb.WriteString(fmt.Sprintf("%4d  %-10s %13s %8s %3d yrs  %s\n",
			r.ID, FormatDate(r.RefinanceDate), FormatCurrency(r.LoanAmount),
			FormatPercentage(r.InterestRate), r.TenureYears, r.Description))
	}
	return sb.String()
}

// FormatCurrency renders whole Singapore dollars with grouping
func FormatCurrency(amount decimal.Decimal) string {
	return calculation.FormatSGD(amount)
}

// FormatPercentage renders a percentage with two decimals
func FormatPercentage(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// FormatDate renders a date as dd/mm/yyyy
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(displayDateLayout)
}

func deltaSymbol(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+"
	}
	return ""
}

func hasLoan(segments []domain.AmortizationSegment) bool {
	for _, s := range segments {
		if s.LoanAmount.IsPositive() {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
