package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/sgprop/internal/breakeven"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func summaryCmd(opts *globalOptions) *cobra.Command {
	var (
		format string
		brief  bool
	)
	cmd := &cobra.Command{
		Use:   "summary [portfolio-file]",
		Short: "Summarize every property in a portfolio",
		Long: fmt.Sprintf("Computes returns, SSD status, rental yields and sell-or-hold scenarios "+
			"for every property. Formats: %s.", strings.Join(output.AvailableFormatterNames(), ", ")),
		Args: opts.portfolioArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := output.GetFormatterByName(format)
			if err != nil {
				return err
			}
			if table, ok := formatter.(*output.TableFormatter); ok {
				table.Brief = brief
			}

			portfolio, err := opts.portfolio(cmd.Context(), args)
			if err != nil {
				return err
			}
			engine, err := opts.engine(portfolio)
			if err != nil {
				return err
			}
			return output.WriteFormatted(cmd.OutOrStdout(), formatter, engine.SummarizePortfolio(portfolio.Properties))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format")
	cmd.Flags().BoolVar(&brief, "brief", false, "Table format: print only the overview rows")
	return cmd
}

type recommendationReport struct {
	ID             int64                 `json:"id"`
	Name           string                `json:"name"`
	Recommendation domain.Recommendation `json:"recommendation"`
}

func recommendCmd(opts *globalOptions) *cobra.Command {
	var (
		format   string
		property string
	)
	cmd := &cobra.Command{
		Use:   "recommend [portfolio-file]",
		Short: "Recommend whether to sell now or hold",
		Long: "Compares selling now with holding 1 year, 2 years and until SSD-free at a fixed " +
			"appreciation rate, net of SSD, agent fees, extra interest and opportunity cost.",
		Args: opts.portfolioArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := summarizeSelected(cmd.Context(), opts, args, property, nil, 0)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				reports := make([]recommendationReport, 0, len(summaries))
				for _, ps := range summaries {
					reports = append(reports, recommendationReport{
						ID:             ps.Property.ID,
						Name:           ps.Property.Name,
						Recommendation: ps.Recommendation,
					})
				}
				return writeJSON(cmd.OutOrStdout(), reports)
			case "table", "":
				out := cmd.OutOrStdout()
				for i := range summaries {
					fmt.Fprintf(out, "%s\n", summaries[i].Property.Name)
					fmt.Fprint(out, output.RenderRecommendation(&summaries[i]))
					fmt.Fprintln(out)
				}
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: json, table)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringVarP(&property, "property", "p", "", "Only this property (ID or name)")
	return cmd
}

type projectionReport struct {
	ID               int64                   `json:"id"`
	Name             string                  `json:"name"`
	AppreciationRate decimal.Decimal         `json:"appreciation_rate"`
	ValueProjection  []domain.ValuePoint     `json:"value_projection"`
	Scenarios        []domain.ScenarioResult `json:"scenarios"`
}

func projectCmd(opts *globalOptions) *cobra.Command {
	var (
		format       string
		property     string
		appreciation string
		years        int
	)
	cmd := &cobra.Command{
		Use:   "project [portfolio-file]",
		Short: "Project property values and hold scenarios",
		Long: "Projects yearly values at an appreciation rate (the portfolio assumption unless " +
			"--appreciation is given) and the net proceeds of each hold scenario at that rate.",
		Args: opts.portfolioArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rate *decimal.Decimal
			if cmd.Flags().Changed("appreciation") {
				r, err := parseDecimalFlag("appreciation", appreciation)
				if err != nil {
					return err
				}
				rate = &r
			}
			if years < 0 {
				return fmt.Errorf("--years must not be negative")
			}

			summaries, err := summarizeSelected(cmd.Context(), opts, args, property, rate, years)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				reports := make([]projectionReport, 0, len(summaries))
				for _, ps := range summaries {
					reports = append(reports, projectionReport{
						ID:               ps.Property.ID,
						Name:             ps.Property.Name,
						AppreciationRate: ps.AppreciationRate,
						ValueProjection:  ps.ValueProjection,
						Scenarios:        ps.Scenarios,
					})
				}
				return writeJSON(cmd.OutOrStdout(), reports)
			case "table", "":
				out := cmd.OutOrStdout()
				for i := range summaries {
					fmt.Fprint(out, output.RenderProjection(&summaries[i]))
					fmt.Fprintln(out)
				}
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: json, table)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringVarP(&property, "property", "p", "", "Only this property (ID or name)")
	cmd.Flags().StringVar(&appreciation, "appreciation", "", "Annual appreciation rate in percent")
	cmd.Flags().IntVar(&years, "years", 0, "Projection horizon in years (portfolio assumption when 0)")
	return cmd
}

type sensitivityReport struct {
	ID     int64                     `json:"id"`
	Name   string                    `json:"name"`
	Points []domain.SensitivityPoint `json:"points"`
}

func sensitivityCmd(opts *globalOptions) *cobra.Command {
	var (
		format   string
		property string
		minRate  string
		maxRate  string
		step     string
	)
	cmd := &cobra.Command{
		Use:   "sensitivity [portfolio-file]",
		Short: "Show hold proceeds across appreciation rates",
		Args:  opts.portfolioArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := parseDecimalFlag("min", minRate)
			if err != nil {
				return err
			}
			hi, err := parseDecimalFlag("max", maxRate)
			if err != nil {
				return err
			}
			st, err := parseDecimalFlag("step", step)
			if err != nil {
				return err
			}
			if !st.IsPositive() {
				return fmt.Errorf("--step must be positive")
			}
			if lo.GreaterThan(hi) {
				return fmt.Errorf("--min %s is above --max %s", lo, hi)
			}

			portfolio, err := opts.portfolio(cmd.Context(), args)
			if err != nil {
				return err
			}
			properties, err := filterProperties(portfolio.Properties, property)
			if err != nil {
				return err
			}
			engine, err := opts.engine(portfolio)
			if err != nil {
				return err
			}

			reports := make([]sensitivityReport, 0, len(properties))
			for _, p := range properties {
				reports = append(reports, sensitivityReport{
					ID:     p.ID,
					Name:   p.Name,
					Points: engine.Sensitivity(p, lo, hi, st),
				})
			}

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), reports)
			case "table", "":
				out := cmd.OutOrStdout()
				for _, r := range reports {
					fmt.Fprint(out, output.RenderSensitivity(r.Name, r.Points))
					fmt.Fprintln(out)
				}
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: json, table)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringVarP(&property, "property", "p", "", "Only this property (ID or name)")
	cmd.Flags().StringVar(&minRate, "min", "-2", "Lowest appreciation rate in percent")
	cmd.Flags().StringVar(&maxRate, "max", "6", "Highest appreciation rate in percent")
	cmd.Flags().StringVar(&step, "step", "1", "Rate increment in percent")
	return cmd
}

type breakEvenReport struct {
	ID      int64              `json:"id"`
	Name    string             `json:"name"`
	Results []breakeven.Result `json:"results"`
}

func breakEvenCmd(opts *globalOptions) *cobra.Command {
	var (
		format   string
		property string
		minRate  string
		maxRate  string
	)
	cmd := &cobra.Command{
		Use:   "breakeven [portfolio-file]",
		Short: "Find the appreciation each hold scenario needs to beat selling now",
		Args:  opts.portfolioArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			solverOpts := breakeven.DefaultSolverOptions()
			var err error
			if solverOpts.MinRate, err = parseDecimalFlag("min", minRate); err != nil {
				return err
			}
			if solverOpts.MaxRate, err = parseDecimalFlag("max", maxRate); err != nil {
				return err
			}
			if err := solverOpts.Validate(); err != nil {
				return err
			}

			portfolio, err := opts.portfolio(cmd.Context(), args)
			if err != nil {
				return err
			}
			properties, err := filterProperties(portfolio.Properties, property)
			if err != nil {
				return err
			}
			asOf, err := opts.evaluationDate()
			if err != nil {
				return err
			}

			solver := breakeven.NewSolver(solverOpts)
			reports := make([]breakEvenReport, 0, len(properties))
			for _, p := range properties {
				results, err := solver.SolveScenarios(cmd.Context(), p, asOf)
				if err != nil {
					return err
				}
				reports = append(reports, breakEvenReport{ID: p.ID, Name: p.Name, Results: results})
			}

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), reports)
			case "table", "":
				out := cmd.OutOrStdout()
				for _, r := range reports {
					fmt.Fprint(out, output.RenderBreakEven(r.Name, r.Results))
					fmt.Fprintln(out)
				}
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: json, table)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringVarP(&property, "property", "p", "", "Only this property (ID or name)")
	cmd.Flags().StringVar(&minRate, "min", "-20", "Lowest appreciation rate searched in percent")
	cmd.Flags().StringVar(&maxRate, "max", "30", "Highest appreciation rate searched in percent")
	return cmd
}

func validateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [portfolio-file]",
		Short: "Validate a portfolio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := opts.loadPortfolio(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Portfolio %s is valid (%d properties)\n", args[0], len(portfolio.Properties))
			return nil
		},
	}
}

// summarizeSelected summarizes the selected properties at one shared date.
// A non-nil rate or positive years override the portfolio assumptions.
func summarizeSelected(ctx context.Context, opts *globalOptions, args []string, selector string, rate *decimal.Decimal, years int) ([]domain.PropertySummary, error) {
	portfolio, err := opts.portfolio(ctx, args)
	if err != nil {
		return nil, err
	}
	properties, err := filterProperties(portfolio.Properties, selector)
	if err != nil {
		return nil, err
	}
	engine, err := opts.engine(portfolio)
	if err != nil {
		return nil, err
	}
	if rate != nil {
		engine.Assumptions.AppreciationRate = *rate
	}
	if years > 0 {
		engine.Assumptions.ProjectionYears = years
	}
	return engine.SummarizePortfolio(properties).Properties, nil
}

func parseDecimalFlag(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := (&output.JSONFormatter{Pretty: true}).Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
