// Package breakeven solves for the appreciation rate at which holding a
// property for a scenario's period nets the same as selling it today.
package breakeven

import (
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/shopspring/decimal"
)

// Outcome describes how a solve ended
type Outcome string

const (
	// OutcomeConverged means the break-even rate lies inside the search range
	OutcomeConverged Outcome = "converged"
	// OutcomeHoldAlways means holding beats selling now even at the lowest rate searched
	OutcomeHoldAlways Outcome = "hold_always_better"
	// OutcomeSellAlways means selling now wins even at the highest rate searched
	OutcomeSellAlways Outcome = "sell_always_better"
	// OutcomeMaxIterations means the iteration budget ran out before converging
	OutcomeMaxIterations Outcome = "max_iterations"
)

// SolverOptions configures the bisection
type SolverOptions struct {
	// Tolerance is the proceeds gap in S$ accepted as break-even
	Tolerance     decimal.Decimal
	MaxIterations int
	// MinRate and MaxRate bound the annual appreciation searched, in percent
	MinRate decimal.Decimal
	MaxRate decimal.Decimal
}

// DefaultSolverOptions searches -20% to 30% p.a. to within a dollar
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1),
		MaxIterations: 100,
		MinRate:       decimal.NewFromInt(-20),
		MaxRate:       decimal.NewFromInt(30),
	}
}

// Validate checks that the options describe a usable search
func (o SolverOptions) Validate() error {
	if o.MinRate.GreaterThanOrEqual(o.MaxRate) {
		return &BreakEvenError{
			Operation: "validate_options",
			Message:   "min rate must be below max rate",
		}
	}
	if o.MaxIterations <= 0 {
		return &BreakEvenError{
			Operation: "validate_options",
			Message:   "max iterations must be positive",
		}
	}
	if !o.Tolerance.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_options",
			Message:   "tolerance must be positive",
		}
	}
	return nil
}

// Request asks for the break-even rate of one hold period
type Request struct {
	Property   domain.Property
	HoldMonths int
	AsOf       time.Time
	// Label names the scenario in the result; optional
	Label string
}

// Result is the break-even appreciation rate of one hold scenario
type Result struct {
	PropertyID int64  `json:"property_id"`
	Name       string `json:"name"`
	Label      string `json:"label"`
	HoldMonths int    `json:"hold_months"`

	// Rate is the break-even annual appreciation in percent. For the
	// always-outcomes it is the search bound that was tested.
	Rate            decimal.Decimal `json:"rate"`
	SellNowProceeds decimal.Decimal `json:"sell_now_proceeds"`
	HoldProceeds    decimal.Decimal `json:"hold_proceeds"`

	Outcome    Outcome `json:"outcome"`
	Iterations int     `json:"iterations"`
}

// BreakEvenError represents errors from the break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
