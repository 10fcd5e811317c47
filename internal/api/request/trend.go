package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// TrendQuery describes a single position whose price trend and profit are
// requested without storing it.
type TrendQuery struct {
	Ticker       string
	StockType    model.StockType
	Currency     model.Currency
	DateBought   time.Time
	SharesBought float64
	DateSold     *time.Time
	SharesSold   float64
}

// ParseTrendQuery extracts and validates trend parameters from query values.
//
// Validation rules:
//   - ticker, dateBought and sharesBought are required
//   - stockType defaults to STOCK, currency defaults to USD
//   - dateSold and sharesSold are optional but must be given together
//   - dates must be YYYY-MM-DD or RFC3339
func ParseTrendQuery(
	tickerParam, stockTypeParam, currencyParam,
	dateBoughtParam, sharesBoughtParam, dateSoldParam, sharesSoldParam string,
) (*TrendQuery, error) {
	q := &TrendQuery{
		Ticker:    strings.ToUpper(strings.TrimSpace(tickerParam)),
		StockType: model.StockTypeStock,
		Currency:  model.USD,
	}
	if q.Ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	if stockTypeParam != "" {
		q.StockType = model.StockType(strings.ToUpper(stockTypeParam))
		if !model.ValidStockType[q.StockType] {
			return nil, fmt.Errorf("invalid stockType: %s", stockTypeParam)
		}
	}
	if currencyParam != "" {
		q.Currency = model.Currency(strings.ToUpper(currencyParam))
		if !model.ValidCurrency[q.Currency] {
			return nil, fmt.Errorf("invalid currency: %s", currencyParam)
		}
	}

	if dateBoughtParam == "" {
		return nil, fmt.Errorf("dateBought is required")
	}
	dateBought, err := parseDate(dateBoughtParam)
	if err != nil {
		return nil, fmt.Errorf("invalid dateBought: %w", err)
	}
	q.DateBought = dateBought

	if sharesBoughtParam == "" {
		return nil, fmt.Errorf("sharesBought is required")
	}
	q.SharesBought, err = strconv.ParseFloat(sharesBoughtParam, 64)
	if err != nil || q.SharesBought <= 0 {
		return nil, fmt.Errorf("sharesBought must be a positive number")
	}

	if (dateSoldParam == "") != (sharesSoldParam == "") {
		return nil, fmt.Errorf("dateSold and sharesSold must be given together")
	}
	if dateSoldParam != "" {
		dateSold, err := parseDate(dateSoldParam)
		if err != nil {
			return nil, fmt.Errorf("invalid dateSold: %w", err)
		}
		if dateSold.Before(q.DateBought) {
			return nil, fmt.Errorf("dateSold cannot precede dateBought")
		}
		q.DateSold = &dateSold

		q.SharesSold, err = strconv.ParseFloat(sharesSoldParam, 64)
		if err != nil || q.SharesSold <= 0 || q.SharesSold > q.SharesBought {
			return nil, fmt.Errorf("sharesSold must be positive and at most sharesBought")
		}
	}

	return q, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
