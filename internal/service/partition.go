package service

import (
	"fmt"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/validation"
)

// Partition groups ledger records by owner. Owners keeps first-seen order;
// each owner's records keep their ledger order.
type Partition struct {
	Owners    []string
	Positions map[string][]model.Position
}

// PartitionByOwner groups records by owner equality across the whole input,
// whether or not same-owner rows are adjacent. The input is not modified.
func PartitionByOwner(records []model.Position) Partition {
	p := Partition{
		Owners:    []string{},
		Positions: make(map[string][]model.Position),
	}
	for _, r := range records {
		if _, seen := p.Positions[r.Owner]; !seen {
			p.Owners = append(p.Owners, r.Owner)
		}
		p.Positions[r.Owner] = append(p.Positions[r.Owner], r)
	}
	return p
}

// BuildLots folds sale tranches into the buy records they reference. Buy
// records keep their ledger order. A legacy row that carries its own sale
// becomes a lot with that one sale.
//
// Every record is validated first, since stores hand back rows as written.
// The first invalid record fails the whole set with an error wrapping
// apperrors.ErrValidation.
func BuildLots(records []model.Position) ([]model.Lot, error) {
	for _, r := range records {
		if err := validation.ValidatePosition(r); err != nil {
			return nil, fmt.Errorf("%s bought %s: %w", r.MarketSymbol(), r.DateBought.Format("2006-01-02"), err)
		}
	}

	lots := []model.Lot{}
	byID := make(map[string]int)

	for _, r := range records {
		if r.IsTranche() {
			continue
		}
		lot := model.Lot{Position: r}
		if r.IsSold() {
			lot.Sales = append(lot.Sales, model.Sale{Date: *r.DateSold, Shares: *r.SharesSold})
		}
		if r.ID != "" {
			byID[r.ID] = len(lots)
		}
		lots = append(lots, lot)
	}

	for _, r := range records {
		if !r.IsTranche() {
			continue
		}
		i, ok := byID[r.TrancheOf]
		if !ok {
			return nil, fmt.Errorf("%w: tranche %s of %s", apperrors.ErrOrphanTranche, r.ID, r.TrancheOf)
		}
		if !r.IsSold() {
			continue
		}
		if r.DateSold.Before(lots[i].Position.DateBought) {
			return nil, fmt.Errorf("%w: tranche %s sold before %s was bought", apperrors.ErrValidation, r.ID, r.TrancheOf)
		}
		lots[i].Sales = append(lots[i].Sales, model.Sale{Date: *r.DateSold, Shares: *r.SharesSold})
	}

	for _, lot := range lots {
		if lot.SharesSold() > lot.Position.SharesBought {
			return nil, fmt.Errorf("%w: %s %s bought %s", apperrors.ErrOversold,
				lot.Position.Ticker, lot.Position.ID, lot.Position.DateBought.Format("2006-01-02"))
		}
	}

	return lots, nil
}
