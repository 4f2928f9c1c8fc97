package breakeven

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/shopspring/decimal"
)

// rateResolution stops the bisection once the bracket is this narrow (percent)
var rateResolution = decimal.NewFromFloat(0.0001)

var two = decimal.NewFromInt(2)

// Solver finds break-even appreciation rates by bisection. Hold proceeds
// rise with the appreciation rate, so there is at most one crossing.
type Solver struct {
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(options SolverOptions) *Solver {
	return &Solver{Options: options}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultSolverOptions())
}

// Solve finds the appreciation rate at which holding for req.HoldMonths
// matches selling at req.AsOf
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}
	if req.HoldMonths <= 0 {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("hold months must be positive, got %d", req.HoldMonths),
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := &req.Property
	refis := domain.SortRefinances(p.Refinances)
	sellNow := calculation.SellNowProceeds(p, refis, req.AsOf)
	hold := func(rate decimal.Decimal) decimal.Decimal {
		return calculation.HoldProceeds(p, req.HoldMonths, rate, refis, req.AsOf)
	}

	result := &Result{
		PropertyID:      p.ID,
		Name:            p.Name,
		Label:           req.Label,
		HoldMonths:      req.HoldMonths,
		SellNowProceeds: sellNow,
	}

	lo, hi := s.Options.MinRate, s.Options.MaxRate
	if atLo := hold(lo); atLo.GreaterThanOrEqual(sellNow) {
		result.Rate, result.HoldProceeds, result.Outcome = lo, atLo, OutcomeHoldAlways
		return result, nil
	}
	if atHi := hold(hi); atHi.LessThan(sellNow) {
		result.Rate, result.HoldProceeds, result.Outcome = hi, atHi, OutcomeSellAlways
		return result, nil
	}

	for result.Iterations < s.Options.MaxIterations {
		result.Iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two)
		proceeds := hold(mid)
		result.Rate, result.HoldProceeds = mid, proceeds

		diff := proceeds.Sub(sellNow)
		if diff.Abs().LessThan(s.Options.Tolerance) || hi.Sub(lo).LessThan(rateResolution) {
			result.Outcome = OutcomeConverged
			return result, nil
		}
		if diff.IsNegative() {
			lo = mid
		} else {
			hi = mid
		}
	}

	result.Outcome = OutcomeMaxIterations
	return result, nil
}

// SolveScenarios solves every hold scenario of the property at asOf. Hold
// scenarios with no remaining period, such as waiting for SSD-free on an
// exempt property, are skipped.
func (s *Solver) SolveScenarios(ctx context.Context, property domain.Property, asOf time.Time) ([]Result, error) {
	scenarios := calculation.BuildScenarios(&property, domain.SortRefinances(property.Refinances), asOf, calculation.RecommendationAppreciationRate)

	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		if sc.HoldMonths <= 0 {
			continue
		}
		r, err := s.Solve(ctx, Request{Property: property, HoldMonths: sc.HoldMonths, AsOf: asOf, Label: sc.Label})
		if err != nil {
			return nil, &BreakEvenError{
				Operation: "solve_scenarios",
				Message:   fmt.Sprintf("%s for %s", sc.Label, property.Name),
				Cause:     err,
			}
		}
		results = append(results, *r)
	}
	return results, nil
}
