package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/sgprop/internal/alerts"
	"github.com/rgehrsitz/sgprop/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func importCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [portfolio-file]",
		Short: "Import a portfolio into the alert database",
		Long: "Validates a portfolio file and writes its properties, refinances and Telegram " +
			"settings into the SQLite database the alert jobs read (SGPROP_DB_PATH). " +
			"Properties with an id update that row; properties without one are added as new rows.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := opts.parser()
			if err != nil {
				return err
			}
			parser.KeepUnnumbered = true
			portfolio, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.store.ImportPortfolio(cmd.Context(), portfolio)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d properties into %s\n", n, db.cfg.Store.Path)
			return nil
		},
	}
}

func alertsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Run or schedule the SSD and profit target alerts",
	}
	cmd.AddCommand(alertsRunCmd(opts), alertsServeCmd(opts))
	return cmd
}

// alertStack adds the alert checker to the database stack
type alertStack struct {
	*dbStack
	checker *alerts.Checker
}

func openAlertStack(opts *globalOptions) (*alertStack, error) {
	db, err := openDB(opts)
	if err != nil {
		return nil, err
	}

	checker := alerts.NewChecker(db.store, db.sender(), logger.Named(db.logger, "alerts"))
	checker.Fallback = db.fallbackTelegram()
	checker.AlertDays = db.cfg.Alerts.AlertDays
	if opts.asOf != "" {
		asOf, err := opts.evaluationDate()
		if err != nil {
			db.Close()
			return nil, err
		}
		checker.Clock = func() time.Time { return asOf }
	}

	return &alertStack{dbStack: db, checker: checker}, nil
}

func alertsRunCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "run [ssd|profit|all]",
		Short:     "Run the alert checks once",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"ssd", "profit", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "all"
			if len(args) == 1 {
				which = args[0]
			}

			stack, err := openAlertStack(opts)
			if err != nil {
				return err
			}
			defer stack.Close()

			ctx := cmd.Context()
			if which == "ssd" || which == "all" {
				report, err := stack.checker.RunSSDCheck(ctx)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), "SSD check", report)
			}
			if which == "profit" || which == "all" {
				report, err := stack.checker.RunProfitCheck(ctx)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), "Profit check", report)
			}
			return nil
		},
	}
}

func alertsServeCmd(opts *globalOptions) *cobra.Command {
	var runNow bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the alert checks on their cron schedules until interrupted",
		Long: "Schedules the SSD check (SGPROP_SSD_CRON) and the profit check " +
			"(SGPROP_PROFIT_CRON) and runs until SIGINT or SIGTERM.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := openAlertStack(opts)
			if err != nil {
				return err
			}
			defer stack.Close()

			if !stack.cfg.Alerts.Enabled {
				return fmt.Errorf("alerts are disabled (SGPROP_ALERTS_ENABLED=false)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if runNow {
				if _, err := stack.checker.RunSSDCheck(ctx); err != nil {
					stack.logger.Error("ssd check failed", zap.Error(err))
				}
				if _, err := stack.checker.RunProfitCheck(ctx); err != nil {
					stack.logger.Error("profit check failed", zap.Error(err))
				}
			}

			scheduler := alerts.NewScheduler(stack.checker, logger.Named(stack.logger, "scheduler"))
			if err := scheduler.RegisterAll(stack.cfg.Alerts.SSDCron, stack.cfg.Alerts.ProfitCron); err != nil {
				return err
			}
			scheduler.Start()
			fmt.Fprintf(cmd.OutOrStdout(), "Alert scheduler running (ssd %q, profit %q)\n",
				stack.cfg.Alerts.SSDCron, stack.cfg.Alerts.ProfitCron)

			<-ctx.Done()
			scheduler.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "Run both checks once before scheduling")
	return cmd
}

func printReport(w io.Writer, name string, r *alerts.Report) {
	fmt.Fprintf(w, "%s: checked %d, sent %d\n", name, r.Checked, r.Sent)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
}
