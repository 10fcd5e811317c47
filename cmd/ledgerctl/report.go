package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

func newReportCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute profits per owner and account",
		Long: `Prices every position in the ledger and prints one row per owner:
the current value of unsold positions converted to the reference currency,
and the profit in the CRYPTO, TFSA and PERSONAL account buckets.

Owners whose prices could not be fetched are listed as incomplete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prices, closePrices := e.newPrices(e.cfg.Prices, e.logger)
			defer closePrices()

			agg := service.NewAggregator(prices, e.now, e.cfg.Report.Workers, e.logger)
			svc := service.NewReportService(e.store, agg, e.cfg.Report.ReferenceCurrency, e.now, e.logger)

			table, err := svc.BuildReport(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case "text":
				table.RenderText(w)
				return nil
			case "csv":
				return table.WriteCSV(w)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			default:
				return fmt.Errorf("unknown output format %q: must be text, csv or json", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, csv or json")
	return cmd
}
