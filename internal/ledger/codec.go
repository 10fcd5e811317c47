package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// DateFormat is the calendar date layout used in every ledger column.
const DateFormat = "2006-01-02"

// Null is written into the sold columns of unsold positions.
const Null = "NULL"

// Ledger columns. The first nine are the historical layout and keep their
// order; ID and TRANCHE_OF were appended for sale tranches.
const (
	ColCurrency     = "CURRENCY"
	ColOwner        = "OWNER"
	ColStockType    = "STOCK_TYPE"
	ColAccount      = "ACCOUNT"
	ColTicker       = "TICKER"
	ColDateBought   = "DATE_BOUGHT"
	ColSharesBought = "SHARES_BOUGHT"
	ColDateSold     = "DATE_SOLD"
	ColSharesSold   = "SHARES_SOLD"
	ColID           = "ID"
	ColTrancheOf    = "TRANCHE_OF"
)

// Columns is the header written to new ledger files.
var Columns = []string{
	ColCurrency, ColOwner, ColStockType, ColAccount, ColTicker,
	ColDateBought, ColSharesBought, ColDateSold, ColSharesSold,
	ColID, ColTrancheOf,
}

// requiredColumns must be present in any ledger header.
var requiredColumns = Columns[:9]

// IsAbsent reports whether a raw cell holds one of the sentinels that mean
// "no value".
func IsAbsent(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", Null, "null", "nan", "NaN", "NAN":
		return true
	}
	return false
}

// normalizeColumn accepts both "STOCK TYPE" and "STOCK_TYPE" spellings.
func normalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), " ", "_")
}

// header maps column names to their index in a row.
type header map[string]int

func parseHeader(row []string) (header, error) {
	h := make(header, len(row))
	for i, name := range row {
		h[normalizeColumn(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("missing column %s in ledger header", col)
		}
	}
	return h, nil
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// EncodeRow converts a position into ledger cells in Columns order.
func EncodeRow(p model.Position) []string {
	dateSold, sharesSold := Null, Null
	if p.DateSold != nil {
		dateSold = p.DateSold.Format(DateFormat)
	}
	if p.SharesSold != nil {
		sharesSold = strconv.FormatFloat(*p.SharesSold, 'f', -1, 64)
	}
	return []string{
		string(p.Currency),
		p.Owner,
		string(p.StockType),
		string(p.Account),
		p.Ticker,
		p.DateBought.Format(DateFormat),
		strconv.FormatFloat(p.SharesBought, 'f', -1, 64),
		dateSold,
		sharesSold,
		p.ID,
		p.TrancheOf,
	}
}

// decodeRow converts ledger cells into a position. Absent sentinels become
// nil; a sold date without a share count (or the reverse) is kept as read and
// left for service.BuildLots to reject when the ledger is aggregated.
func (h header) decodeRow(row []string) (model.Position, error) {
	p := model.Position{
		Currency:  model.Currency(strings.ToUpper(h.get(row, ColCurrency))),
		Owner:     h.get(row, ColOwner),
		StockType: model.StockType(strings.ToUpper(h.get(row, ColStockType))),
		Account:   model.Account(strings.ToUpper(h.get(row, ColAccount))),
		Ticker:    strings.ToUpper(h.get(row, ColTicker)),
		ID:        h.get(row, ColID),
		TrancheOf: h.get(row, ColTrancheOf),
	}

	var err error
	if p.DateBought, err = time.Parse(DateFormat, h.get(row, ColDateBought)); err != nil {
		return model.Position{}, fmt.Errorf("invalid %s: %w", ColDateBought, err)
	}
	if p.SharesBought, err = strconv.ParseFloat(h.get(row, ColSharesBought), 64); err != nil {
		return model.Position{}, fmt.Errorf("invalid %s: %w", ColSharesBought, err)
	}

	if raw := h.get(row, ColDateSold); !IsAbsent(raw) {
		d, err := time.Parse(DateFormat, raw)
		if err != nil {
			return model.Position{}, fmt.Errorf("invalid %s: %w", ColDateSold, err)
		}
		p.DateSold = &d
	}
	if raw := h.get(row, ColSharesSold); !IsAbsent(raw) {
		s, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Position{}, fmt.Errorf("invalid %s: %w", ColSharesSold, err)
		}
		p.SharesSold = &s
	}
	if IsAbsent(p.ID) {
		p.ID = ""
	}
	if IsAbsent(p.TrancheOf) {
		p.TrancheOf = ""
	}

	return p, nil
}
