package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
)

// CSVFormatter writes one row per property
type CSVFormatter struct{}

func (cf *CSVFormatter) Name() string { return "csv" }

var csvHeader = []string{
	"ID",
	"Name",
	"Type",
	"Purchase Date",
	"Purchase Price",
	"Current Value",
	"Total Cost",
	"Net Profit",
	"ROI %",
	"Annualized Return %",
	"Break Even Price",
	"SSD Payable",
	"SSD Rate %",
	"Days To SSD Free",
	"SSD Free Date",
	"Gross Yield %",
	"Net Yield %",
	"Best Scenario",
	"Additional Proceeds vs Sell Now",
}

// Format generates CSV output for a portfolio summary
func (cf *CSVFormatter) Format(summary *domain.PortfolioSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range summary.Properties {
		if err := writer.Write(cf.formatRow(&summary.Properties[i])); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cf *CSVFormatter) formatRow(ps *domain.PropertySummary) []string {
	p := ps.Property
	daysToFree := ps.DaysToSSDFree
	if daysToFree < 0 {
		daysToFree = 0
	}
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Name,
		string(p.Type),
		dateutil.Format(p.PurchaseDate),
		p.PurchasePrice.StringFixed(2),
		ps.EffectiveValue.StringFixed(2),
		ps.TotalCost.StringFixed(2),
		ps.NetProfit.StringFixed(2),
		ps.ROI.StringFixed(2),
		ps.AnnualizedReturn.StringFixed(2),
		ps.BreakEvenPrice.StringFixed(2),
		ps.SSDPayable.StringFixed(2),
		strconv.Itoa(ps.SSDCountdown.CurrentRatePercent),
		strconv.Itoa(daysToFree),
		dateutil.Format(ps.SSDFreeDate),
		ps.GrossYield.StringFixed(2),
		ps.NetYield.StringFixed(2),
		ps.Recommendation.Best.Label,
		ps.Recommendation.AdditionalProceedsVsSellNow.StringFixed(2),
	}
}
