package testutil

import (
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// PositionBuilder provides a fluent interface for creating test positions.
//
// Example usage:
//
//	// Unsold stock with defaults
//	p := testutil.NewPosition().Build()
//
//	// Crypto held in the TFSA bucket
//	p := testutil.NewPosition().
//	    WithOwner("alice").
//	    WithTicker("BTC").
//	    Crypto().
//	    InAccount(model.AccountTFSA).
//	    Build()
type PositionBuilder struct {
	p model.Position
}

// NewPosition creates a PositionBuilder with sensible defaults: 10 shares of
// AAA in USD bought on 2023-01-01 by "alice" in the personal account.
func NewPosition() *PositionBuilder {
	return &PositionBuilder{p: model.Position{
		ID:           MakeID(),
		Currency:     model.USD,
		Owner:        "alice",
		StockType:    model.StockTypeStock,
		Account:      model.AccountPers,
		Ticker:       "AAA",
		DateBought:   Date("2023-01-01"),
		SharesBought: 10,
	}}
}

func (b *PositionBuilder) WithID(id string) *PositionBuilder {
	b.p.ID = id
	return b
}

func (b *PositionBuilder) WithOwner(owner string) *PositionBuilder {
	b.p.Owner = owner
	return b
}

func (b *PositionBuilder) WithTicker(ticker string) *PositionBuilder {
	b.p.Ticker = ticker
	return b
}

func (b *PositionBuilder) WithCurrency(c model.Currency) *PositionBuilder {
	b.p.Currency = c
	return b
}

// Crypto marks the position as a crypto asset.
func (b *PositionBuilder) Crypto() *PositionBuilder {
	b.p.StockType = model.StockTypeCrypto
	return b
}

func (b *PositionBuilder) InAccount(a model.Account) *PositionBuilder {
	b.p.Account = a
	return b
}

func (b *PositionBuilder) BoughtOn(date string, shares float64) *PositionBuilder {
	b.p.DateBought = Date(date)
	b.p.SharesBought = shares
	return b
}

// SoldOn records a sale on the buy row itself, like legacy ledgers do.
func (b *PositionBuilder) SoldOn(date string, shares float64) *PositionBuilder {
	b.p.DateSold = DatePtr(date)
	b.p.SharesSold = FloatPtr(shares)
	return b
}

// Build returns the position.
func (b *PositionBuilder) Build() model.Position {
	return b.p
}

// SaleTranche builds a sale tranche of parent.
func SaleTranche(parent model.Position, date string, shares float64) model.Position {
	t := parent
	t.ID = MakeID()
	t.TrancheOf = parent.ID
	t.DateSold = DatePtr(date)
	t.SharesSold = FloatPtr(shares)
	return t
}
