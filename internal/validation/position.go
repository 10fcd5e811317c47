package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// ValidatePosition checks a ledger record against the position invariants:
//   - currency, stockType and account are known values
//   - owner and ticker are non-empty
//   - sharesBought is positive
//   - a sold date requires 0 < sharesSold <= sharesBought, and sharesSold
//     requires a sold date
//   - the sold date does not precede the buy date
//   - a tranche carries a valid parent UUID and a sale
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidatePosition(p model.Position) error {
	errors := make(map[string]string)

	if !model.ValidCurrency[p.Currency] {
		errors["currency"] = fmt.Sprintf("invalid currency: %s", p.Currency)
	}
	if !model.ValidStockType[p.StockType] {
		errors["stockType"] = fmt.Sprintf("invalid stock type: %s", p.StockType)
	}
	if !model.ValidAccount[p.Account] {
		errors["account"] = fmt.Sprintf("invalid account: %s", p.Account)
	}
	if strings.TrimSpace(p.Owner) == "" {
		errors["owner"] = "owner is required"
	} else if strings.ContainsAny(p.Owner, ",\r\n") {
		errors["owner"] = "owner cannot contain commas or line breaks"
	}
	if strings.TrimSpace(p.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	} else if p.Ticker != strings.ToUpper(p.Ticker) {
		errors["ticker"] = "ticker must be uppercase"
	}
	if p.DateBought.IsZero() {
		errors["dateBought"] = "dateBought is required"
	}
	if p.SharesBought <= 0 {
		errors["sharesBought"] = "sharesBought must be positive"
	}

	switch {
	case p.DateSold != nil && p.SharesSold == nil:
		errors["sharesSold"] = "sharesSold is required when dateSold is set"
	case p.DateSold == nil && p.SharesSold != nil && *p.SharesSold != 0:
		errors["dateSold"] = "dateSold is required when sharesSold is set"
	case p.DateSold != nil:
		if *p.SharesSold <= 0 || *p.SharesSold > p.SharesBought {
			errors["sharesSold"] = "sharesSold must be positive and at most sharesBought"
		}
		if p.DateSold.Before(p.DateBought) {
			errors["dateSold"] = "dateSold cannot precede dateBought"
		}
	}

	if p.TrancheOf != "" {
		if err := ValidateUUID(p.TrancheOf); err != nil {
			errors["trancheOf"] = err.Error()
		}
		if p.DateSold == nil {
			errors["dateSold"] = "a sale tranche requires dateSold"
		}
	}
	if p.ID != "" {
		if err := ValidateUUID(p.ID); err != nil {
			errors["id"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateCreatePosition validates a creation request and converts it into a
// position. Enum values and the ticker are canonicalized to uppercase.
func ValidateCreatePosition(req request.CreatePositionRequest) (model.Position, error) {
	errors := make(map[string]string)

	p := model.Position{
		Currency:     model.Currency(strings.ToUpper(strings.TrimSpace(req.Currency))),
		Owner:        strings.TrimSpace(req.Owner),
		StockType:    model.StockType(strings.ToUpper(strings.TrimSpace(req.StockType))),
		Account:      model.Account(strings.ToUpper(strings.TrimSpace(req.Account))),
		Ticker:       strings.ToUpper(strings.TrimSpace(req.Ticker)),
		SharesBought: req.SharesBought,
		SharesSold:   req.SharesSold,
	}

	if strings.TrimSpace(req.DateBought) == "" {
		errors["dateBought"] = "dateBought is required"
	} else if d, err := time.Parse("2006-01-02", req.DateBought); err != nil {
		errors["dateBought"] = err.Error()
	} else {
		p.DateBought = d
	}

	if req.DateSold != nil && strings.TrimSpace(*req.DateSold) != "" {
		d, err := time.Parse("2006-01-02", *req.DateSold)
		if err != nil {
			errors["dateSold"] = err.Error()
		} else {
			p.DateSold = &d
		}
	}

	if len(errors) > 0 {
		return model.Position{}, &Error{Fields: errors}
	}

	if err := ValidatePosition(p); err != nil {
		return model.Position{}, err
	}
	return p, nil
}

// ValidateCreateSale validates a sale tranche request against the buy record
// it reduces and the shares already sold from it.
func ValidateCreateSale(req request.CreateSaleRequest, parent model.Position, alreadySold float64) (time.Time, error) {
	errors := make(map[string]string)

	var dateSold time.Time
	if strings.TrimSpace(req.DateSold) == "" {
		errors["dateSold"] = "dateSold is required"
	} else if d, err := time.Parse("2006-01-02", req.DateSold); err != nil {
		errors["dateSold"] = err.Error()
	} else if d.Before(parent.DateBought) {
		errors["dateSold"] = "dateSold cannot precede dateBought"
	} else {
		dateSold = d
	}

	if req.SharesSold <= 0 {
		errors["sharesSold"] = "sharesSold must be positive"
	} else if alreadySold+req.SharesSold > parent.SharesBought {
		errors["sharesSold"] = fmt.Sprintf("only %g of %g shares remain", parent.SharesBought-alreadySold, parent.SharesBought)
	}

	if len(errors) > 0 {
		return time.Time{}, &Error{Fields: errors}
	}
	return dateSold, nil
}
