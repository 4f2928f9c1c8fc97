package main

import (
	"fmt"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/internal/output"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type bsdQuote struct {
	Price decimal.Decimal `json:"price"`
	BSD   decimal.Decimal `json:"bsd"`
}

func bsdCmd() *cobra.Command {
	var (
		price  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "bsd",
		Short: "Quote Buyer's Stamp Duty for a purchase price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePrice(price)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), bsdQuote{Price: p, BSD: calculation.CalculateBSD(p)})
			case "table", "":
				fmt.Fprint(cmd.OutOrStdout(), output.RenderBSD(p))
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: json, table)", format)
			}
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "Purchase price in S$")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func ssdCmd(opts *globalOptions) *cobra.Command {
	var (
		price    string
		purchase string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "ssd",
		Short: "Quote Seller's Stamp Duty and net proceeds for a sale",
		Long: "Quotes SSD on a sale at --price for a property bought on --date, selling on " +
			"--as-of (today by default), with a 2% agent fee and the savings from waiting " +
			"for the next SSD tier.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePrice(price)
			if err != nil {
				return err
			}
			purchaseDate, err := dateutil.Parse(purchase)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			asOf, err := opts.evaluationDate()
			if err != nil {
				return err
			}
			if purchaseDate.After(asOf) {
				return fmt.Errorf("purchase date %s is after the sale date %s",
					dateutil.Format(purchaseDate), dateutil.Format(asOf))
			}

			quote := calculation.QuoteSSD(p, purchaseDate, asOf)
			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), quote)
			case "table", "":
				fmt.Fprint(cmd.OutOrStdout(), output.RenderSSDQuote(quote))
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: json, table)", format)
			}
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "Sale price in S$")
	cmd.Flags().StringVar(&purchase, "date", "", "Purchase date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func ratesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the MAS reference interest rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rates := domain.LatestMASRates()
			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), rates)
			case "table", "":
				fmt.Fprint(cmd.OutOrStdout(), output.RenderRates(rates))
				return nil
			default:
				return fmt.Errorf("unsupported format %q (available: json, table)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	return cmd
}

func parsePrice(value string) (decimal.Decimal, error) {
	p, err := parseDecimalFlag("price", value)
	if err != nil {
		return decimal.Zero, err
	}
	if !p.IsPositive() {
		return decimal.Zero, fmt.Errorf("--price must be positive, got %s", value)
	}
	return p, nil
}
