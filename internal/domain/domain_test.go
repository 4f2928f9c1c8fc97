package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPropertyType_Valid(t *testing.T) {
	for _, pt := range []PropertyType{PropertyTypeHDB, PropertyTypeCondo, PropertyTypeLanded} {
		assert.True(t, pt.Valid(), pt)
	}
	for _, pt := range []PropertyType{"", "hdb", "Shophouse"} {
		assert.False(t, pt.Valid(), pt)
	}
}

func TestProperty_EffectiveCurrentValue(t *testing.T) {
	p := Property{PurchasePrice: decimal.NewFromInt(500000)}
	assert.True(t, p.EffectiveCurrentValue().Equal(decimal.NewFromInt(500000)), "falls back to purchase price")

	p.CurrentValue = decimal.NewFromInt(560000)
	assert.True(t, p.EffectiveCurrentValue().Equal(decimal.NewFromInt(560000)))
}

func TestProperty_HasTarget(t *testing.T) {
	p := Property{}
	assert.False(t, p.HasTarget())
	p.TargetProfitPercentage = decimal.NewFromInt(15)
	assert.True(t, p.HasTarget())
}

func TestSortRefinances(t *testing.T) {
	refis := []Refinance{
		{ID: 3, RefinanceDate: date(2024, 1, 1)},
		{ID: 1, RefinanceDate: date(2021, 6, 1)},
		{ID: 2, RefinanceDate: date(2022, 9, 1)},
	}

	sorted := SortRefinances(refis)
	require.Len(t, sorted, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, int64(3), refis[0].ID, "input order is left untouched")

	assert.Empty(t, SortRefinances(nil))
}

func TestLatestRefinance(t *testing.T) {
	_, ok := LatestRefinance(nil)
	assert.False(t, ok)

	latest, ok := LatestRefinance([]Refinance{
		{ID: 2, RefinanceDate: date(2024, 1, 1)},
		{ID: 1, RefinanceDate: date(2021, 6, 1)},
	})
	require.True(t, ok)
	assert.Equal(t, int64(2), latest.ID)
}

func TestAssumptions_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultAssumptions(), Assumptions{}.WithDefaults())

	custom := Assumptions{AppreciationRate: decimal.NewFromFloat(2.5), ProjectionYears: 10}.WithDefaults()
	assert.True(t, custom.AppreciationRate.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, 10, custom.ProjectionYears)
	assert.True(t, custom.AnnualMaintenance.Equal(decimal.NewFromInt(3000)))
	assert.True(t, custom.PropertyTaxRentalFactor.Equal(decimal.NewFromFloat(0.01)))
}

func TestTelegramSettings_Configured(t *testing.T) {
	tests := []struct {
		name     string
		settings TelegramSettings
		expected bool
	}{
		{"complete", TelegramSettings{BotToken: "t", ChatID: "c", AlertsEnabled: true}, true},
		{"disabled", TelegramSettings{BotToken: "t", ChatID: "c"}, false},
		{"no token", TelegramSettings{ChatID: "c", AlertsEnabled: true}, false},
		{"no chat", TelegramSettings{BotToken: "t", AlertsEnabled: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.Configured())
		})
	}
}

func TestAmortizationSegment_Label(t *testing.T) {
	assert.Equal(t, "Original loan", AmortizationSegment{Kind: SegmentOriginal}.Label())
	assert.Equal(t, "Refinance 2", AmortizationSegment{Kind: SegmentRefinance, Index: 2}.Label())
}

func TestRecommendation_IsSellNow(t *testing.T) {
	assert.True(t, Recommendation{Best: ScenarioResult{HoldMonths: 0}}.IsSellNow())
	assert.False(t, Recommendation{Best: ScenarioResult{HoldMonths: 12}}.IsSellNow())
}

func TestLatestMASRates(t *testing.T) {
	r := LatestMASRates()
	assert.NotEmpty(t, r.Source)
	assert.Equal(t, date(2026, 2, 26), r.LastUpdated)
	assert.True(t, r.SORA3M.Equal(decimal.NewFromFloat(2.96)))
}
