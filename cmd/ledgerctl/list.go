package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

func newListCmd(e *env) *cobra.Command {
	var owner, output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger records in append order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			positions, err := service.NewLedgerService(e.store, e.logger).ListPositions(cmd.Context(), owner)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case "text":
				renderPositions(w, positions)
				return nil
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(positions)
			case "yaml":
				enc := yaml.NewEncoder(w)
				defer enc.Close()
				return enc.Encode(positions)
			default:
				return fmt.Errorf("unknown output format %q: must be text, json or yaml", output)
			}
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "only list this owner's records")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func renderPositions(w io.Writer, positions []model.Position) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Owner", "Symbol", "Account", "Bought", "Shares", "Sold", "Shares Sold", "Tranche Of"})
	table.SetBorder(false)

	for _, p := range positions {
		sold, sharesSold := "", ""
		if p.DateSold != nil {
			sold = p.DateSold.Format("2006-01-02")
		}
		if p.SharesSold != nil {
			sharesSold = strconv.FormatFloat(*p.SharesSold, 'f', -1, 64)
		}
		table.Append([]string{
			p.ID,
			p.Owner,
			p.MarketSymbol(),
			string(p.Account),
			p.DateBought.Format("2006-01-02"),
			strconv.FormatFloat(p.SharesBought, 'f', -1, 64),
			sold,
			sharesSold,
			p.TrancheOf,
		})
	}
	table.Render()
}
