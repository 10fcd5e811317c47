package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

func newAddCmd(e *env) *cobra.Command {
	var req request.CreatePositionRequest
	var dateSold string
	var sharesSold float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a position to the ledger",
		Example: `  ledgerctl add --owner alice --ticker BTC --type CRYPTO --account CRYPTO \
      --currency CAD --bought 2024-01-05 --shares 0.25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dateSold != "" || cmd.Flags().Changed("shares-sold") {
				req.DateSold = &dateSold
				req.SharesSold = &sharesSold
			}

			p, err := service.NewLedgerService(e.store, e.logger).AddPosition(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Owner, "owner", "", "owner name")
	f.StringVar(&req.Ticker, "ticker", "", "ticker symbol")
	f.StringVar(&req.StockType, "type", "STOCK", "stock type: CRYPTO or STOCK")
	f.StringVar(&req.Account, "account", "PERS", "account bucket: CRYPTO, TFSA or PERS")
	f.StringVar(&req.Currency, "currency", "USD", "quote currency: USD, CAD or EUR")
	f.StringVar(&req.DateBought, "bought", "", "purchase date, YYYY-MM-DD")
	f.Float64Var(&req.SharesBought, "shares", 0, "shares bought")
	f.StringVar(&dateSold, "sold", "", "sale date for an already sold position, YYYY-MM-DD")
	f.Float64Var(&sharesSold, "shares-sold", 0, "shares sold on --sold")
	for _, name := range []string{"owner", "ticker", "bought", "shares"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
