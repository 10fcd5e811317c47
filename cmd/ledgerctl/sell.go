package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/validation"
)

func newSellCmd(e *env) *cobra.Command {
	var req request.CreateSaleRequest

	cmd := &cobra.Command{
		Use:   "sell POSITION_ID",
		Short: "Record a sale of some or all shares of a position",
		Long: `Appends a sale tranche referencing the buy record. The buy record is
not modified; several sales of one position are allowed as long as they do
not exceed the shares bought.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateUUID(args[0]); err != nil {
				return err
			}
			t, err := service.NewLedgerService(e.store, e.logger).RecordSale(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.DateSold, "date", "", "sale date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&req.SharesSold, "shares", 0, "shares sold")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("shares")
	return cmd
}
