package model

import (
	"fmt"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
)

// PricePoint is one trading day of a price series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// OwnerReport is the aggregated profit of one owner, one row per distinct
// owner in the ledger. It is built fresh on every aggregation run.
//
// InvestmentsValue is nil when it could not be computed or converted.
// ProfitsAvailable is false when any position of the owner could not be
// priced; the bucket totals are then zero and meaningless. Complete is false
// when any price or FX lookup failed; Errors then holds the reasons.
type OwnerReport struct {
	Owner            string   `json:"owner"`
	InvestmentsValue *float64 `json:"investmentsValue"`
	CryptoProfit     float64  `json:"cryptoProfit"`
	TFSAProfit       float64  `json:"tfsaProfit"`
	PersProfit       float64  `json:"persProfit"`
	ProfitsAvailable bool     `json:"profitsAvailable"`
	Complete         bool     `json:"complete"`
	Errors           []string `json:"errors,omitempty"`
}

// AddProfit routes a profit amount into the bucket of the given account.
// An unknown account leaves the buckets untouched and returns an error
// wrapping apperrors.ErrValidation.
func (r *OwnerReport) AddProfit(account Account, amount float64) error {
	switch account {
	case AccountCrypto:
		r.CryptoProfit += amount
	case AccountTFSA:
		r.TFSAProfit += amount
	case AccountPers:
		r.PersProfit += amount
	default:
		return fmt.Errorf("%w: unknown account %q", apperrors.ErrValidation, account)
	}
	return nil
}

// Trend is the price series of a single position together with its profit.
type Trend struct {
	Symbol string       `json:"symbol"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Points []PricePoint `json:"points"`
	Profit float64      `json:"profit"`
}
