// Package report shapes aggregated owner rows into the table consumed by
// charts, the HTTP API and the CLI.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// Columns of the report table.
var Columns = []string{"Owner", "INVESTMENTS", "CRYPTO", "TFSA", "PERSONAL"}

// Row is one owner's line. Values are rounded to two decimal places.
type Row struct {
	Owner       string   `json:"Owner" yaml:"owner"`
	Investments *float64 `json:"INVESTMENTS" yaml:"investments"`
	Crypto      float64  `json:"CRYPTO" yaml:"crypto"`
	TFSA        float64  `json:"TFSA" yaml:"tfsa"`
	Personal    float64  `json:"PERSONAL" yaml:"personal"`
	HasProfits  bool     `json:"hasProfits" yaml:"hasProfits"`
	Complete    bool     `json:"complete" yaml:"complete"`
	Errors      []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Table is a full report.
type Table struct {
	GeneratedAt       time.Time      `json:"generatedAt" yaml:"generatedAt"`
	ReferenceCurrency model.Currency `json:"referenceCurrency" yaml:"referenceCurrency"`
	Columns           []string       `json:"columns" yaml:"columns"`
	Rows              []Row          `json:"rows" yaml:"rows"`
	Incomplete        []string       `json:"incomplete" yaml:"incomplete"`
}

// Build converts aggregated rows into a report table, keeping their order.
func Build(rows []model.OwnerReport, refCurrency model.Currency, generatedAt time.Time) Table {
	t := Table{
		GeneratedAt:       generatedAt,
		ReferenceCurrency: refCurrency,
		Columns:           Columns,
		Rows:              make([]Row, len(rows)),
		Incomplete:        []string{},
	}
	for i, r := range rows {
		row := Row{
			Owner:      r.Owner,
			Crypto:     round(r.CryptoProfit),
			TFSA:       round(r.TFSAProfit),
			Personal:   round(r.PersProfit),
			HasProfits: r.ProfitsAvailable,
			Complete:   r.Complete,
			Errors:     r.Errors,
		}
		if r.InvestmentsValue != nil {
			v := round(*r.InvestmentsValue)
			row.Investments = &v
		}
		if !r.Complete {
			t.Incomplete = append(t.Incomplete, r.Owner)
		}
		t.Rows[i] = row
	}
	return t
}

func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RenderText writes the table for a terminal. Profit columns of incomplete
// rows and unavailable investments print as n/a.
func (t Table) RenderText(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	cur := string(t.ReferenceCurrency)
	for _, r := range t.Rows {
		cells := []string{r.Owner, "n/a", "n/a", "n/a", "n/a"}
		if r.Investments != nil {
			cells[1] = money.NewFromFloat(*r.Investments, cur).Display()
		}
		if r.HasProfits {
			cells[2] = formatProfit(r.Crypto)
			cells[3] = formatProfit(r.TFSA)
			cells[4] = formatProfit(r.Personal)
		}
		table.Append(cells)
	}
	table.Render()

	for _, owner := range t.Incomplete {
		fmt.Fprintf(w, "incomplete: %s\n", owner)
	}
}

// formatProfit prints a profit in the asset's quote currency, which may
// differ per position, so no currency symbol is attached.
func formatProfit(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteCSV writes the table with its header row. Unavailable values are
// written as empty cells.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, r := range t.Rows {
		investments := ""
		if r.Investments != nil {
			investments = formatProfit(*r.Investments)
		}
		cells := []string{r.Owner, investments, "", "", ""}
		if r.HasProfits {
			cells[2] = formatProfit(r.Crypto)
			cells[3] = formatProfit(r.TFSA)
			cells[4] = formatProfit(r.Personal)
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
