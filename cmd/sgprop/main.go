package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/config"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/rgehrsitz/sgprop/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	debug   bool
	envFile string
	asOf    string
	fromDB  bool
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sgprop %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "sgprop",
		Short: "Singapore property investment calculator",
		Long: "Calculates stamp duties, mortgage interest, CPF accrued interest, returns and " +
			"sell-or-hold scenarios for a portfolio of Singapore residential properties, " +
			"and sends SSD and profit target alerts over Telegram.",
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "Path to an env file (defaults to ./.env when present)")
	root.PersistentFlags().StringVar(&opts.asOf, "as-of", "", "Evaluation date as YYYY-MM-DD (defaults to today)")
	root.PersistentFlags().BoolVar(&opts.fromDB, "db", false, "Analyse the properties in the alert database instead of a portfolio file")

	root.AddCommand(
		summaryCmd(opts),
		recommendCmd(opts),
		projectCmd(opts),
		sensitivityCmd(opts),
		breakEvenCmd(opts),
		validateCmd(opts),
		bsdCmd(),
		ssdCmd(opts),
		ratesCmd(),
		importCmd(opts),
		propertyCmd(opts),
		refinanceCmd(opts),
		settingsCmd(opts),
		alertsCmd(opts),
		versionCmd(),
	)
	return root
}

// evaluationDate resolves --as-of, falling back to today
func (o *globalOptions) evaluationDate() (time.Time, error) {
	if o.asOf == "" {
		return dateutil.DateOnly(time.Now()), nil
	}
	d, err := dateutil.Parse(o.asOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of: %w", err)
	}
	return d, nil
}

func (o *globalOptions) logger() (*zap.Logger, error) {
	base, err := logger.New(o.debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return base, nil
}

// parser validates purchase and refinance dates against the evaluation date
func (o *globalOptions) parser() (*config.InputParser, error) {
	asOf, err := o.evaluationDate()
	if err != nil {
		return nil, err
	}
	return &config.InputParser{Today: func() time.Time { return asOf }}, nil
}

// loadPortfolio parses and validates a portfolio file
func (o *globalOptions) loadPortfolio(path string) (*domain.Portfolio, error) {
	parser, err := o.parser()
	if err != nil {
		return nil, err
	}
	return parser.LoadFromFile(path)
}

// engine builds a calculation engine for the portfolio's assumptions pinned
// to the evaluation date. Engine logging is only wired with --debug.
func (o *globalOptions) engine(portfolio *domain.Portfolio) (*calculation.Engine, error) {
	asOf, err := o.evaluationDate()
	if err != nil {
		return nil, err
	}
	e := calculation.NewEngineWithAssumptions(portfolio.Assumptions).AsOf(asOf)
	if o.debug {
		base, err := o.logger()
		if err != nil {
			return nil, err
		}
		e.SetLogger(logger.Sugared(base, "calculation"))
	}
	return e, nil
}

// filterProperties narrows a portfolio to the property whose ID or name
// matches selector. An empty selector keeps every property.
func filterProperties(properties []domain.Property, selector string) ([]domain.Property, error) {
	if selector == "" {
		return properties, nil
	}
	for _, p := range properties {
		if fmt.Sprint(p.ID) == selector || p.Name == selector {
			return []domain.Property{p}, nil
		}
	}
	return nil, fmt.Errorf("no property matches %q", selector)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
