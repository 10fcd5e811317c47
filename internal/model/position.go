package model

import (
	"fmt"
	"time"
)

// Currency is the native currency a position is quoted in.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	CAD Currency = "CAD"
	EUR Currency = "EUR"
)

// ValidCurrency contains the allowed currency values.
var ValidCurrency = map[Currency]bool{USD: true, CAD: true, EUR: true}

// StockType distinguishes crypto assets from listed stocks. It only affects
// how the market symbol is built, never which account bucket profit lands in.
type StockType string

// Supported stock types.
const (
	StockTypeCrypto StockType = "CRYPTO"
	StockTypeStock  StockType = "STOCK"
)

// ValidStockType contains the allowed stock type values.
var ValidStockType = map[StockType]bool{StockTypeCrypto: true, StockTypeStock: true}

// Account selects the profit attribution bucket of a position.
type Account string

// Supported account buckets.
const (
	AccountCrypto Account = "CRYPTO"
	AccountTFSA   Account = "TFSA"
	AccountPers   Account = "PERS"
)

// Accounts lists the account buckets in report column order.
var Accounts = []Account{AccountCrypto, AccountTFSA, AccountPers}

// ValidAccount contains the allowed account values.
var ValidAccount = map[Account]bool{AccountCrypto: true, AccountTFSA: true, AccountPers: true}

// Position is one row of the ledger: a buy event, a buy with an embedded sale
// (legacy rows), or a sale tranche referencing the buy it reduces.
//
// DateSold and SharesSold are nil when absent. ID and TrancheOf are empty for
// legacy rows written before tranche identifiers existed.
type Position struct {
	ID           string     `json:"id,omitempty" yaml:"id,omitempty"`
	TrancheOf    string     `json:"trancheOf,omitempty" yaml:"trancheOf,omitempty"`
	Currency     Currency   `json:"currency" yaml:"currency"`
	Owner        string     `json:"owner" yaml:"owner"`
	StockType    StockType  `json:"stockType" yaml:"stockType"`
	Account      Account    `json:"account" yaml:"account"`
	Ticker       string     `json:"ticker" yaml:"ticker"`
	DateBought   time.Time  `json:"dateBought" yaml:"dateBought"`
	SharesBought float64    `json:"sharesBought" yaml:"sharesBought"`
	DateSold     *time.Time `json:"dateSold,omitempty" yaml:"dateSold,omitempty"`
	SharesSold   *float64   `json:"sharesSold,omitempty" yaml:"sharesSold,omitempty"`
}

// MarketSymbol returns the ticker as presented to the price source.
// Crypto assets are quoted against their currency, e.g. BTC-USD.
func (p Position) MarketSymbol() string {
	return MarketSymbol(p.Ticker, p.StockType, p.Currency)
}

// MarketSymbol applies the crypto currency-suffix rule to a ticker.
func MarketSymbol(ticker string, stockType StockType, currency Currency) string {
	if stockType == StockTypeCrypto {
		return fmt.Sprintf("%s-%s", ticker, currency)
	}
	return ticker
}

// IsTranche reports whether the row is a sale tranche against another record.
func (p Position) IsTranche() bool {
	return p.TrancheOf != ""
}

// IsSold reports whether the row carries a sale with a non-zero share count.
// An absent share count and zero are equivalent.
func (p Position) IsSold() bool {
	return p.DateSold != nil && p.SharesSold != nil && *p.SharesSold > 0
}

// Sale is one sale event against a lot.
type Sale struct {
	Date   time.Time `json:"date"`
	Shares float64   `json:"shares"`
}

// Lot is a buy record together with every sale made against it. It is the
// unit the profit calculator and the aggregator work on.
type Lot struct {
	Position Position
	Sales    []Sale
}

// SharesSold returns the total number of shares sold from the lot.
func (l Lot) SharesSold() float64 {
	var total float64
	for _, s := range l.Sales {
		total += s.Shares
	}
	return total
}

// Remaining returns the number of shares still held.
func (l Lot) Remaining() float64 {
	return l.Position.SharesBought - l.SharesSold()
}

// Unsold reports whether no sale was ever recorded against the lot.
func (l Lot) Unsold() bool {
	return len(l.Sales) == 0
}
