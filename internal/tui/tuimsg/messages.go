// Package tuimsg holds the messages exchanged between the TUI root model and
// its scenes.
package tuimsg

import (
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/shopspring/decimal"
)

// PortfolioLoadedMsg signals the portfolio file has been parsed
type PortfolioLoadedMsg struct {
	Portfolio *domain.Portfolio
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// PropertySelectedMsg signals a property was picked from the portfolio list
type PropertySelectedMsg struct {
	Index int
}

// AppreciationChangedMsg signals the appreciation slider moved
type AppreciationChangedMsg struct {
	Rate decimal.Decimal
}

// SummaryReadyMsg carries a property summary recalculated for a new rate
type SummaryReadyMsg struct {
	Index   int
	Summary *domain.PropertySummary
}
