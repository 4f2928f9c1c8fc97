package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	maxPurchasePrice = decimal.NewFromInt(100_000_000)
	maxInterestRate  = decimal.NewFromInt(30)
	maxTargetProfit  = decimal.NewFromInt(1000)
)

const (
	maxTenureYears   = 35
	maxNameLength    = 200
	maxAddressLength = 500
	maxBotToken      = 200
	maxChatID        = 100
)

// InputParser handles parsing of portfolio files
type InputParser struct {
	// Today returns the date purchase dates are checked against
	Today func() time.Time
	// KeepUnnumbered leaves properties without an id at zero so a store can
	// assign one instead of the file position
	KeepUnnumbered bool
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{Today: time.Now}
}

// LoadFromFile loads a portfolio from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Portfolio, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, normalizes and validates a portfolio document
func (ip *InputParser) Parse(data []byte) (*domain.Portfolio, error) {
	var portfolio domain.Portfolio
	if err := yaml.Unmarshal(data, &portfolio); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.normalize(&portfolio)

	if err := ip.ValidatePortfolio(&portfolio); err != nil {
		return nil, fmt.Errorf("portfolio validation failed: %w", err)
	}

	return &portfolio, nil
}

// normalize truncates dates to calendar days, numbers unnumbered properties
// and fills unset assumptions
func (ip *InputParser) normalize(portfolio *domain.Portfolio) {
	for i := range portfolio.Properties {
		p := &portfolio.Properties[i]
		if p.ID == 0 && !ip.KeepUnnumbered {
			p.ID = int64(i + 1)
		}
		p.PurchaseDate = dateutil.DateOnly(p.PurchaseDate)
		for j := range p.Refinances {
			r := &p.Refinances[j]
			r.PropertyID = p.ID
			r.RefinanceDate = dateutil.DateOnly(r.RefinanceDate)
		}
	}
	portfolio.Assumptions = portfolio.Assumptions.WithDefaults()
}

// ValidatePortfolio validates every property, its refinances, the
// assumptions and the alert settings
func (ip *InputParser) ValidatePortfolio(portfolio *domain.Portfolio) error {
	if len(portfolio.Properties) == 0 {
		return fmt.Errorf("no properties provided")
	}

	seen := make(map[int64]bool, len(portfolio.Properties))
	for i := range portfolio.Properties {
		p := &portfolio.Properties[i]
		if err := ip.ValidateProperty(p); err != nil {
			return fmt.Errorf("property %d (%s) validation failed: %w", i, p.Name, err)
		}
		if p.ID == 0 {
			continue
		}
		if seen[p.ID] {
			return fmt.Errorf("property %d (%s): duplicate id %d", i, p.Name, p.ID)
		}
		seen[p.ID] = true
	}

	if err := ip.validateAssumptions(&portfolio.Assumptions); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}
	if err := ValidateTelegramSettings(portfolio.Telegram); err != nil {
		return fmt.Errorf("telegram settings validation failed: %w", err)
	}
	return nil
}

// ValidateProperty validates a single property and its refinances
func (ip *InputParser) ValidateProperty(p *domain.Property) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Name) > maxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	if p.Address == "" {
		return fmt.Errorf("address is required")
	}
	if len(p.Address) > maxAddressLength {
		return fmt.Errorf("address cannot exceed %d characters", maxAddressLength)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("type must be 'HDB', 'Condo', or 'Landed', got %q", p.Type)
	}

	if p.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("purchase price must be positive")
	}
	if p.PurchasePrice.GreaterThan(maxPurchasePrice) {
		return fmt.Errorf("purchase price cannot exceed %s", maxPurchasePrice.String())
	}
	if p.PurchaseDate.IsZero() {
		return fmt.Errorf("purchase date is required")
	}
	if today := ip.today(); p.PurchaseDate.After(today) {
		return fmt.Errorf("purchase date %s cannot be after today (%s)",
			dateutil.Format(p.PurchaseDate), dateutil.Format(today))
	}

	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"stamp duty", p.StampDuty},
		{"renovation cost", p.RenovationCost},
		{"agent fees", p.AgentFees},
		{"current value", p.CurrentValue},
		{"CPF amount", p.CPFAmount},
		{"mortgage amount", p.MortgageAmount},
		{"monthly rental", p.MonthlyRental},
	}
	for _, f := range nonNegative {
		if f.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", f.field)
		}
	}

	if err := validateLoanTerms(p.MortgageInterestRate, p.MortgageTenureYears); err != nil {
		return fmt.Errorf("mortgage: %w", err)
	}
	if p.TargetProfitPercentage.IsNegative() || p.TargetProfitPercentage.GreaterThan(maxTargetProfit) {
		return fmt.Errorf("target profit percentage must be between 0 and %s", maxTargetProfit.String())
	}

	for i := range p.Refinances {
		if err := ValidateRefinance(p, &p.Refinances[i]); err != nil {
			return fmt.Errorf("refinance %d validation failed: %w", i, err)
		}
	}
	return nil
}

// ValidateRefinance checks a refinance against the property it belongs to
func ValidateRefinance(p *domain.Property, r *domain.Refinance) error {
	if r.RefinanceDate.IsZero() {
		return fmt.Errorf("refinance date is required")
	}
	if r.RefinanceDate.Before(p.PurchaseDate) {
		return fmt.Errorf("refinance date %s cannot be before purchase date %s",
			dateutil.Format(r.RefinanceDate), dateutil.Format(p.PurchaseDate))
	}
	if r.LoanAmount.IsNegative() {
		return fmt.Errorf("loan amount cannot be negative")
	}
	return validateLoanTerms(r.InterestRate, r.TenureYears)
}

func validateLoanTerms(rate decimal.Decimal, tenure int) error {
	if rate.IsNegative() || rate.GreaterThan(maxInterestRate) {
		return fmt.Errorf("interest rate must be between 0 and %s%%", maxInterestRate.String())
	}
	if tenure < 0 || tenure > maxTenureYears {
		return fmt.Errorf("tenure must be between 0 and %d years", maxTenureYears)
	}
	return nil
}

func (ip *InputParser) validateAssumptions(a *domain.Assumptions) error {
	if a.AppreciationRate.LessThan(decimal.NewFromInt(-50)) || a.AppreciationRate.GreaterThan(decimal.NewFromInt(50)) {
		return fmt.Errorf("appreciation rate must be between -50%% and 50%%")
	}
	if a.AnnualMaintenance.IsNegative() {
		return fmt.Errorf("annual maintenance cannot be negative")
	}
	if a.AnnualInsurance.IsNegative() {
		return fmt.Errorf("annual insurance cannot be negative")
	}
	if a.PropertyTaxRentalFactor.IsNegative() || a.PropertyTaxRentalFactor.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("property tax rental factor must be between 0 and 1")
	}
	if a.ProjectionYears > 50 {
		return fmt.Errorf("projection years must be between 1 and 50")
	}
	return nil
}

// ValidateTelegramSettings bounds the alert credentials
func ValidateTelegramSettings(t domain.TelegramSettings) error {
	if len(t.BotToken) > maxBotToken {
		return fmt.Errorf("bot token cannot exceed %d characters", maxBotToken)
	}
	if len(t.ChatID) > maxChatID {
		return fmt.Errorf("chat id cannot exceed %d characters", maxChatID)
	}
	return nil
}

func (ip *InputParser) today() time.Time {
	if ip.Today == nil {
		return dateutil.DateOnly(time.Now())
	}
	return dateutil.DateOnly(ip.Today())
}
