package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/config"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/notifier"
	"github.com/rgehrsitz/sgprop/internal/output"
	"github.com/rgehrsitz/sgprop/internal/store"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/rgehrsitz/sgprop/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dbStack is the app config, logger and store behind the database commands
type dbStack struct {
	cfg    *config.AppConfig
	logger *zap.Logger
	store  *store.SQLiteStore
}

func openDB(opts *globalOptions) (*dbStack, error) {
	cfg, err := config.LoadAppConfig(opts.envFile)
	if err != nil {
		return nil, err
	}
	base, err := opts.logger()
	if err != nil {
		return nil, err
	}
	st, err := store.NewSQLiteStore(cfg.Store.Path, logger.Named(base, "store"))
	if err != nil {
		return nil, err
	}
	return &dbStack{cfg: cfg, logger: base, store: st}, nil
}

func (d *dbStack) Close() {
	_ = d.store.Close()
	_ = d.logger.Sync()
}

func (d *dbStack) sender() *notifier.TelegramClient {
	return notifier.NewTelegramClient(d.cfg.Telegram.BaseURL, logger.Named(d.logger, "telegram"))
}

// fallbackTelegram is the env configured delivery used when none is stored
func (d *dbStack) fallbackTelegram() domain.TelegramSettings {
	return domain.TelegramSettings{
		BotToken:      d.cfg.Telegram.BotToken,
		ChatID:        d.cfg.Telegram.ChatID,
		AlertsEnabled: d.cfg.Alerts.Enabled,
	}
}

// portfolioArgs takes one portfolio file, or nothing with --db
func (o *globalOptions) portfolioArgs(cmd *cobra.Command, args []string) error {
	if o.fromDB {
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(1)(cmd, args)
}

// portfolio loads the analysed portfolio from the file argument, or from the
// alert database with --db. Stored properties use the default assumptions.
func (o *globalOptions) portfolio(ctx context.Context, args []string) (*domain.Portfolio, error) {
	if !o.fromDB {
		return o.loadPortfolio(args[0])
	}

	db, err := openDB(o)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	properties, err := db.store.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, fmt.Errorf("no properties stored in %s", db.cfg.Store.Path)
	}

	portfolio := &domain.Portfolio{Properties: properties, Assumptions: domain.DefaultAssumptions()}
	parser, err := o.parser()
	if err != nil {
		return nil, err
	}
	if err := parser.ValidatePortfolio(portfolio); err != nil {
		return nil, fmt.Errorf("stored portfolio: %w", err)
	}
	return portfolio, nil
}

func parseID(kind, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, value)
	}
	return id, nil
}

// decimalFlags parses the named string flags that were set on cmd into their
// targets, leaving the rest untouched
func decimalFlags(cmd *cobra.Command, targets map[string]*decimal.Decimal, values map[string]*string) error {
	for name, target := range targets {
		if !cmd.Flags().Changed(name) {
			continue
		}
		d, err := parseDecimalFlag(name, *values[name])
		if err != nil {
			return err
		}
		*target = d
	}
	return nil
}

func propertyCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "property",
		Short: "Manage the properties stored in the alert database",
	}
	cmd.AddCommand(
		propertyListCmd(opts),
		propertyAddCmd(opts),
		propertySetCmd(opts),
		propertyDeleteCmd(opts),
	)
	return cmd
}

func propertyListCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			properties, err := db.store.ListProperties(cmd.Context())
			if err != nil {
				return err
			}
			switch format {
			case "json":
				if properties == nil {
					properties = []domain.Property{}
				}
				return writeJSON(cmd.OutOrStdout(), properties)
			case "table", "":
				fmt.Fprint(cmd.OutOrStdout(), output.RenderPropertyList(properties))
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: json, table)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	return cmd
}

// propertyFields are the money and rate flags shared by add and set
type propertyFields struct {
	price, stampDuty, renovation, agentFees, value, cpf string
	mortgage, rate, rental, target                      string
}

func (f *propertyFields) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.price, "price", "", "Purchase price")
	flags.StringVar(&f.stampDuty, "stamp-duty", "", "Buyer's stamp duty paid (computed from the price when omitted on add)")
	flags.StringVar(&f.renovation, "renovation", "", "Renovation cost")
	flags.StringVar(&f.agentFees, "agent-fees", "", "Agent fees paid on purchase")
	flags.StringVar(&f.value, "value", "", "Current valuation")
	flags.StringVar(&f.cpf, "cpf", "", "CPF used for the purchase")
	flags.StringVar(&f.mortgage, "mortgage", "", "Mortgage amount")
	flags.StringVar(&f.rate, "rate", "", "Mortgage interest rate in percent")
	flags.StringVar(&f.rental, "rental", "", "Monthly rental")
	flags.StringVar(&f.target, "target", "", "Profit target in percent (0 clears it)")
}

func (f *propertyFields) apply(cmd *cobra.Command, p *domain.Property) error {
	return decimalFlags(cmd,
		map[string]*decimal.Decimal{
			"price": &p.PurchasePrice, "stamp-duty": &p.StampDuty, "renovation": &p.RenovationCost,
			"agent-fees": &p.AgentFees, "value": &p.CurrentValue, "cpf": &p.CPFAmount,
			"mortgage": &p.MortgageAmount, "rate": &p.MortgageInterestRate,
			"rental": &p.MonthlyRental, "target": &p.TargetProfitPercentage,
		},
		map[string]*string{
			"price": &f.price, "stamp-duty": &f.stampDuty, "renovation": &f.renovation,
			"agent-fees": &f.agentFees, "value": &f.value, "cpf": &f.cpf,
			"mortgage": &f.mortgage, "rate": &f.rate,
			"rental": &f.rental, "target": &f.target,
		})
}

func propertyAddCmd(opts *globalOptions) *cobra.Command {
	var (
		fields       propertyFields
		name         string
		address      string
		propertyType string
		purchased    string
		tenure       int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a property to the alert database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateutil.Parse(purchased)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			p := domain.Property{
				Name:                name,
				Address:             address,
				Type:                domain.PropertyType(propertyType),
				PurchaseDate:        date,
				MortgageTenureYears: tenure,
			}
			if err := fields.apply(cmd, &p); err != nil {
				return err
			}
			if !cmd.Flags().Changed("stamp-duty") && p.PurchasePrice.IsPositive() {
				p.StampDuty = calculation.CalculateBSD(p.PurchasePrice)
			}

			parser, err := opts.parser()
			if err != nil {
				return err
			}
			if err := parser.ValidateProperty(&p); err != nil {
				return err
			}

			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.store.CreateProperty(cmd.Context(), &p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added property %d (%s)\n", p.ID, p.Name)
			return nil
		},
	}
	fields.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Property name")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&propertyType, "type", "", "HDB, Condo or Landed")
	cmd.Flags().StringVar(&purchased, "date", "", "Purchase date as YYYY-MM-DD")
	cmd.Flags().IntVar(&tenure, "tenure", 0, "Mortgage tenure in years")
	for _, required := range []string{"name", "address", "type", "price", "date"} {
		_ = cmd.MarkFlagRequired(required)
	}
	return cmd
}

func propertySetCmd(opts *globalOptions) *cobra.Command {
	var (
		fields  propertyFields
		name    string
		address string
		tenure  int
	)
	cmd := &cobra.Command{
		Use:   "set [property-id]",
		Short: "Update fields of a stored property",
		Long: "Updates only the flags given. Changing --target re-arms the profit alert " +
			"so it fires again when the new target is reached.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("property", args[0])
			if err != nil {
				return err
			}

			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			p, err := db.store.GetProperty(ctx, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("address") {
				p.Address = address
			}
			if cmd.Flags().Changed("tenure") {
				p.MortgageTenureYears = tenure
			}
			if err := fields.apply(cmd, p); err != nil {
				return err
			}

			parser, err := opts.parser()
			if err != nil {
				return err
			}
			if err := parser.ValidateProperty(p); err != nil {
				return err
			}
			if err := db.store.UpdateProperty(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated property %d (%s)\n", p.ID, p.Name)
			return nil
		},
	}
	fields.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Property name")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().IntVar(&tenure, "tenure", 0, "Mortgage tenure in years")
	return cmd
}

func propertyDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [property-id]",
		Short: "Delete a stored property and its refinances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("property", args[0])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.store.DeleteProperty(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted property %d\n", id)
			return nil
		},
	}
}

func refinanceCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refinance",
		Short: "Manage the refinances of stored properties",
	}
	cmd.AddCommand(refinanceListCmd(opts), refinanceAddCmd(opts), refinanceDeleteCmd(opts))
	return cmd
}

func refinanceListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [property-id]",
		Short: "List a stored property's refinances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("property", args[0])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			p, err := db.store.GetProperty(ctx, id)
			if err != nil {
				return err
			}
			refis, err := db.store.ListRefinances(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output.RenderRefinanceList(p.Name, refis))
			return nil
		},
	}
}

func refinanceAddCmd(opts *globalOptions) *cobra.Command {
	var (
		refinanced  string
		amount      string
		rate        string
		tenure      int
		description string
	)
	cmd := &cobra.Command{
		Use:   "add [property-id]",
		Short: "Record a refinance for a stored property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("property", args[0])
			if err != nil {
				return err
			}
			r := domain.Refinance{PropertyID: id, TenureYears: tenure, Description: description}
			if r.RefinanceDate, err = dateutil.Parse(refinanced); err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			if r.LoanAmount, err = parseDecimalFlag("amount", amount); err != nil {
				return err
			}
			if r.InterestRate, err = parseDecimalFlag("rate", rate); err != nil {
				return err
			}

			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			p, err := db.store.GetProperty(ctx, id)
			if err != nil {
				return err
			}
			if err := config.ValidateRefinance(p, &r); err != nil {
				return err
			}
			if err := db.store.AddRefinance(ctx, &r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added refinance %d to property %d (%s)\n", r.ID, id, p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&refinanced, "date", "", "Refinance date as YYYY-MM-DD")
	cmd.Flags().StringVar(&amount, "amount", "", "New loan amount")
	cmd.Flags().StringVar(&rate, "rate", "", "New interest rate in percent")
	cmd.Flags().IntVar(&tenure, "tenure", 0, "New tenure in years")
	cmd.Flags().StringVar(&description, "description", "", "Free-form note")
	for _, required := range []string{"date", "amount", "rate", "tenure"} {
		_ = cmd.MarkFlagRequired(required)
	}
	return cmd
}

func refinanceDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [refinance-id]",
		Short: "Delete one refinance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("refinance", args[0])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.store.DeleteRefinance(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted refinance %d\n", id)
			return nil
		},
	}
}

func settingsCmd(opts *globalOptions) *cobra.Command {
	telegram := &cobra.Command{
		Use:   "telegram",
		Short: "Show, change or test the Telegram alert settings",
	}
	telegram.AddCommand(telegramShowCmd(opts), telegramSetCmd(opts), telegramTestCmd(opts))

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage stored settings",
	}
	cmd.AddCommand(telegram)
	return cmd
}

// effectiveTelegram returns the stored settings, or the env fallback when
// nothing is stored, mirroring the alert checks
func (d *dbStack) effectiveTelegram(ctx context.Context) (domain.TelegramSettings, string, error) {
	stored, err := d.store.TelegramSettings(ctx)
	if err != nil {
		return domain.TelegramSettings{}, "", err
	}
	if stored.BotToken == "" && stored.ChatID == "" {
		return d.fallbackTelegram(), "environment", nil
	}
	return stored, "database", nil
}

func maskToken(token string) string {
	if token == "" {
		return "(unset)"
	}
	if i := len(token) - 4; i > 0 {
		return "***" + token[i:]
	}
	return "***"
}

func telegramShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the Telegram settings the alerts use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			t, source, err := db.effectiveTelegram(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source:    %s\n", source)
			fmt.Fprintf(out, "Bot token: %s\n", maskToken(t.BotToken))
			fmt.Fprintf(out, "Chat ID:   %s\n", t.ChatID)
			fmt.Fprintf(out, "Enabled:   %t\n", t.AlertsEnabled)
			return nil
		},
	}
}

func telegramSetCmd(opts *globalOptions) *cobra.Command {
	var (
		token   string
		chatID  string
		enabled bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Telegram bot token, chat and alert switch",
		Long:  "Updates only the flags given; the rest keep their stored values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			t, err := db.store.TelegramSettings(ctx)
			if err != nil {
				return err
			}
			if t == (domain.TelegramSettings{}) {
				t.AlertsEnabled = true
			}
			if cmd.Flags().Changed("token") {
				t.BotToken = token
			}
			if cmd.Flags().Changed("chat") {
				t.ChatID = chatID
			}
			if cmd.Flags().Changed("enabled") {
				t.AlertsEnabled = enabled
			}
			if err := config.ValidateTelegramSettings(t); err != nil {
				return err
			}
			if err := db.store.SaveTelegramSettings(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved Telegram settings (chat %s, alerts enabled: %t)\n", t.ChatID, t.AlertsEnabled)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Bot token from @BotFather")
	cmd.Flags().StringVar(&chatID, "chat", "", "Chat ID the alerts go to")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Whether alerts are sent")
	return cmd
}

func telegramTestCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test message with the current Telegram settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			t, _, err := db.effectiveTelegram(ctx)
			if err != nil {
				return err
			}
			if t.BotToken == "" || t.ChatID == "" {
				return fmt.Errorf("telegram bot token and chat id are required")
			}
			if err := db.sender().SendMessage(ctx, t.BotToken, t.ChatID, notifier.FormatTestMessage()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test message sent to chat %s\n", t.ChatID)
			return nil
		},
	}
}
