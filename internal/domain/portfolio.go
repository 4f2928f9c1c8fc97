package domain

import (
	"github.com/shopspring/decimal"
)

// Assumptions are the user-adjustable projection parameters
type Assumptions struct {
	AppreciationRate        decimal.Decimal `yaml:"appreciation_rate" json:"appreciation_rate"`                 // annual %, used for presentation scenarios
	AnnualMaintenance       decimal.Decimal `yaml:"annual_maintenance" json:"annual_maintenance"`               // flat S$ per year
	AnnualInsurance         decimal.Decimal `yaml:"annual_insurance" json:"annual_insurance"`                   // flat S$ per year
	PropertyTaxRentalFactor decimal.Decimal `yaml:"property_tax_rental_factor" json:"property_tax_rental_factor"` // fraction of annual rental
	ProjectionYears         int             `yaml:"projection_years" json:"projection_years"`
}

// DefaultAssumptions mirrors the figures shown on the property page
func DefaultAssumptions() Assumptions {
	return Assumptions{
		AppreciationRate:        decimal.NewFromInt(3),
		AnnualMaintenance:       decimal.NewFromInt(3000),
		AnnualInsurance:         decimal.NewFromInt(300),
		PropertyTaxRentalFactor: decimal.NewFromFloat(0.01),
		ProjectionYears:         5,
	}
}

// WithDefaults fills unset fields from DefaultAssumptions
func (a Assumptions) WithDefaults() Assumptions {
	d := DefaultAssumptions()
	if a.AppreciationRate.IsZero() {
		a.AppreciationRate = d.AppreciationRate
	}
	if a.AnnualMaintenance.IsZero() {
		a.AnnualMaintenance = d.AnnualMaintenance
	}
	if a.AnnualInsurance.IsZero() {
		a.AnnualInsurance = d.AnnualInsurance
	}
	if a.PropertyTaxRentalFactor.IsZero() {
		a.PropertyTaxRentalFactor = d.PropertyTaxRentalFactor
	}
	if a.ProjectionYears <= 0 {
		a.ProjectionYears = d.ProjectionYears
	}
	return a
}

// TelegramSettings holds per-user alert delivery settings
type TelegramSettings struct {
	BotToken      string `yaml:"bot_token" json:"bot_token"`
	ChatID        string `yaml:"chat_id" json:"chat_id"`
	AlertsEnabled bool   `yaml:"alerts_enabled" json:"alerts_enabled"`
}

// Configured reports whether alerts can be delivered
func (t TelegramSettings) Configured() bool {
	return t.AlertsEnabled && t.BotToken != "" && t.ChatID != ""
}

// Portfolio is the complete input file: properties, assumptions and alert settings
type Portfolio struct {
	Owner       string           `yaml:"owner,omitempty" json:"owner,omitempty"`
	Properties  []Property       `yaml:"properties" json:"properties"`
	Assumptions Assumptions      `yaml:"assumptions" json:"assumptions"`
	Telegram    TelegramSettings `yaml:"telegram,omitempty" json:"telegram,omitempty"`
}
