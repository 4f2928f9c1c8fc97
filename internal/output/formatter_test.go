package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/sgprop/internal/breakeven"
	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePortfolioSummary() *domain.PortfolioSummary {
	properties := []domain.Property{
		{
			ID:                   1,
			Name:                 "Tampines Condo",
			Address:              "1 Tampines Ave",
			Type:                 domain.PropertyTypeCondo,
			PurchasePrice:        decimal.NewFromInt(450000),
			PurchaseDate:         dateutil.Date(2022, 6, 15),
			StampDuty:            decimal.NewFromInt(8100),
			CPFAmount:            decimal.NewFromInt(150000),
			CurrentValue:         decimal.NewFromInt(480000),
			MortgageAmount:       decimal.NewFromInt(360000),
			MortgageInterestRate: decimal.NewFromFloat(2.75),
			MortgageTenureYears:  25,
			MonthlyRental:        decimal.NewFromInt(2500),
			Refinances: []domain.Refinance{{
				RefinanceDate: dateutil.Date(2023, 6, 15),
				LoanAmount:    decimal.NewFromInt(340000),
				InterestRate:  decimal.NewFromFloat(3.1),
				TenureYears:   24,
			}},
		},
		{
			ID:            2,
			Name:          "Bishan HDB",
			Address:       "Blk 123 Bishan St",
			Type:          domain.PropertyTypeHDB,
			PurchasePrice: decimal.NewFromInt(400000),
			PurchaseDate:  dateutil.Date(2015, 3, 1),
		},
	}
	return calculation.NewEngine().AsOf(dateutil.Date(2024, 6, 15)).SummarizePortfolio(properties)
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"table", "table"},
		{"console", "table"},
		{"text", "table"},
		{"", "table"},
		{"JSON", "json"},
		{"json-compact", "json"},
		{" csv ", "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := GetFormatterByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.Name())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := GetFormatterByName("html")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
		assert.Contains(t, err.Error(), "csv, json, json-compact, table")
	})
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "json-compact", "table"}, AvailableFormatterNames())
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "count", F: func(s *domain.PortfolioSummary) ([]byte, error) {
		return []byte(strings.Repeat("x", len(s.Properties))), nil
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteFormatted(&buf, f, samplePortfolioSummary()))
	assert.Equal(t, "count", f.Name())
	assert.Equal(t, "xx", buf.String())
}

func TestWriteFormatted_NilSummary(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFormatted(&buf, &TableFormatter{}, nil)
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestTableFormatter(t *testing.T) {
	summary := samplePortfolioSummary()

	data, err := (&TableFormatter{}).Format(summary)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "SINGAPORE PROPERTY PORTFOLIO")
	assert.Contains(t, out, "As of: 15/06/2024")
	assert.Contains(t, out, "Tampines Condo")
	assert.Contains(t, out, "Bishan HDB")
	assert.Contains(t, out, "Total investment:    "+FormatCurrency(summary.TotalInvestment))
	assert.Contains(t, out, "TAMPINES CONDO (Condo)")
	assert.Contains(t, out, "MORTGAGE TIMELINE")
	assert.Contains(t, out, "Refinance 1")
	assert.Contains(t, out, "Current rate:         4%")
	assert.Contains(t, out, "Status:               Exempt since 01/03/2018")
	assert.Contains(t, out, summary.Properties[0].Recommendation.Message)

	// the cash-bought flat has no rental or loan sections of its own
	hdb := RenderPropertyDetail(&summary.Properties[1])
	assert.NotContains(t, hdb, "RENTAL")
	assert.NotContains(t, hdb, "MORTGAGE TIMELINE")

	t.Run("brief", func(t *testing.T) {
		data, err := (&TableFormatter{Brief: true}).Format(summary)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "RETURNS")
		assert.Contains(t, string(data), "Bishan HDB")
	})
}

func TestCSVFormatter(t *testing.T) {
	summary := samplePortfolioSummary()

	data, err := (&CSVFormatter{}).Format(summary)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per property")

	header := records[0]
	assert.Equal(t, "ID", header[0])
	for _, row := range records[1:] {
		assert.Len(t, row, len(header))
	}

	condo := records[1]
	assert.Equal(t, "1", condo[0])
	assert.Equal(t, "Tampines Condo", condo[1])
	assert.Equal(t, "Condo", condo[2])
	assert.Equal(t, "2022-06-15", condo[3])
	assert.Equal(t, "450000.00", condo[4])
	assert.Equal(t, "4", condo[12])

	hdb := records[2]
	assert.Equal(t, "0", hdb[12])
	assert.Equal(t, "0", hdb[13], "days to SSD-free clamps at zero")
}

func TestJSONFormatter(t *testing.T) {
	summary := samplePortfolioSummary()

	for _, pretty := range []bool{true, false} {
		data, err := (&JSONFormatter{Pretty: pretty}).Format(summary)
		require.NoError(t, err)
		assert.Equal(t, pretty, strings.Contains(string(data), "\n  "))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		props, ok := decoded["properties"].([]any)
		require.True(t, ok)
		assert.Len(t, props, 2)
		assert.Contains(t, decoded, "total_investment")
	}
}

func TestRenderSSDQuote(t *testing.T) {
	q := calculation.QuoteSSD(decimal.NewFromInt(500000), dateutil.Date(2024, 1, 1), dateutil.Date(2024, 6, 1))
	out := RenderSSDQuote(q)

	assert.Contains(t, out, "Current rate:         12%")
	assert.Contains(t, out, "SSD:                 -S$60,000")
	assert.Contains(t, out, "Agent fees (2%):     -S$10,000")
	assert.Contains(t, out, "Net proceeds:         S$430,000")
	assert.Contains(t, out, "could save S$20,000 in SSD")

	exempt := RenderSSDQuote(calculation.QuoteSSD(decimal.NewFromInt(500000), dateutil.Date(2020, 1, 1), dateutil.Date(2024, 6, 1)))
	assert.Contains(t, exempt, "Exempt since 01/01/2023")
	assert.NotContains(t, exempt, "could save")
}

func TestRenderBSD(t *testing.T) {
	out := RenderBSD(decimal.NewFromInt(450000))

	assert.Contains(t, out, "S$0 - S$180,000")
	assert.Contains(t, out, "S$360,000 - S$1,000,000")
	assert.NotContains(t, out, "above S$1,000,000")
	assert.Contains(t, out, "S$8,100")

	large := RenderBSD(decimal.NewFromInt(1500000))
	assert.Contains(t, large, "above S$1,000,000")
	assert.Contains(t, large, "S$44,600")
}

func TestRenderRates(t *testing.T) {
	out := RenderRates(domain.LatestMASRates())
	assert.Contains(t, out, "SORA 3M")
	assert.Contains(t, out, "2.96%")
	assert.Contains(t, out, "updated 26/02/2026")
}

func TestRenderSensitivity(t *testing.T) {
	summary := samplePortfolioSummary()
	p := summary.Properties[0].Property
	points := calculation.AppreciationSensitivity(&p, p.Refinances, summary.AsOf,
		decimal.NewFromInt(0), decimal.NewFromInt(4), decimal.NewFromInt(2))

	out := RenderSensitivity(p.Name, points)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3+len(points))
	assert.Contains(t, out, "0.00%")
	assert.Contains(t, out, "4.00%")

	assert.Contains(t, RenderSensitivity("Empty", nil), "(no rates in range)")
}

func TestRenderBreakEven(t *testing.T) {
	results := []breakeven.Result{
		{Label: calculation.LabelHoldOneYear, HoldMonths: 12, Rate: decimal.NewFromFloat(1.234),
			SellNowProceeds: decimal.NewFromInt(120000), Outcome: breakeven.OutcomeConverged},
		{Label: calculation.LabelHoldTwoYear, HoldMonths: 24, Rate: decimal.NewFromInt(30),
			Outcome: breakeven.OutcomeSellAlways},
		{Label: calculation.LabelHoldSSDFree, HoldMonths: 5, Rate: decimal.NewFromInt(-20),
			Outcome: breakeven.OutcomeHoldAlways},
	}
	out := RenderBreakEven("Tampines Condo", results)

	assert.Contains(t, out, "BREAK-EVEN APPRECIATION: Tampines Condo")
	assert.Contains(t, out, "1.23%")
	assert.Contains(t, out, "above 30.00%")
	assert.Contains(t, out, "below -20.00%")
	assert.Contains(t, out, "Sell now nets S$120,000")

	assert.Contains(t, RenderBreakEven("Empty", nil), "(no hold scenarios)")
}

func TestRenderProjection(t *testing.T) {
	summary := samplePortfolioSummary()
	out := RenderProjection(&summary.Properties[0])

	assert.Contains(t, out, "VALUE PROJECTION: Tampines Condo")
	assert.Contains(t, out, "current")
	assert.Contains(t, out, "projection")
	assert.Contains(t, out, calculation.LabelSellNow)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "S$1,234,568", FormatCurrency(decimal.NewFromFloat(1234567.89)))
	assert.Equal(t, "3.10%", FormatPercentage(decimal.NewFromFloat(3.1)))
	assert.Equal(t, "15/06/2024", FormatDate(dateutil.Date(2024, 6, 15)))
	assert.Equal(t, "-", FormatDate(dateutil.Date(1, 1, 1)))
	assert.Equal(t, "Short", truncate("Short", 10))
	assert.Equal(t, "A very...", truncate("A very long name", 9))
}

func TestRenderPropertyList(t *testing.T) {
	assert.Equal(t, "No stored properties.\n", RenderPropertyList(nil))

	out := RenderPropertyList([]domain.Property{
		{ID: 3, Name: "Queenstown Condo", Type: domain.PropertyTypeCondo, PurchaseDate: dateutil.Date(2021, 1, 1),
			PurchasePrice: decimal.NewFromInt(300000), CurrentValue: decimal.NewFromInt(600000),
			TargetProfitPercentage: decimal.NewFromInt(10), TargetProfitAlertSent: true},
		{ID: 4, Name: "Punggol HDB", Type: domain.PropertyTypeHDB, PurchaseDate: dateutil.Date(2021, 6, 22),
			PurchasePrice: decimal.NewFromInt(500000)},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "Queenstown Condo")
	assert.Contains(t, lines[2], "01/01/2021")
	assert.Contains(t, lines[2], "S$600,000")
	assert.Contains(t, lines[2], "10.00%")
	assert.True(t, strings.HasSuffix(lines[2], "sent"))
	assert.Contains(t, lines[3], "S$500,000", "value falls back to the purchase price")
	assert.True(t, strings.HasSuffix(lines[3], "-"))
}

func TestRenderRefinanceList(t *testing.T) {
	assert.Contains(t, RenderRefinanceList("Tampines Condo", nil), "(none)")

	out := RenderRefinanceList("Tampines Condo", []domain.Refinance{
		{ID: 2, RefinanceDate: dateutil.Date(2024, 1, 2), LoanAmount: decimal.NewFromInt(345000), InterestRate: decimal.RequireFromString("3.1"), TenureYears: 23, Description: "repricing"},
		{ID: 1, RefinanceDate: dateutil.Date(2023, 3, 1), LoanAmount: decimal.NewFromInt(350000), InterestRate: decimal.RequireFromString("3.6"), TenureYears: 24},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "01/03/2023", "oldest first")
	assert.Contains(t, lines[3], "3.10%")
	assert.Contains(t, lines[3], "repricing")
}
