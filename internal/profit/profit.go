// Package profit computes realized and unrealized profit of positions from
// historical close prices.
package profit

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/pricesource"
)

// Clock returns the current time. "Today" is always read through it.
type Clock func() time.Time

// Input is the immutable description of one position the calculator prices.
// DateSold nil or SharesSold zero both mean "not sold".
type Input struct {
	Symbol       string
	DateBought   time.Time
	DateSold     *time.Time
	SharesBought float64
	SharesSold   float64
}

// Calculator computes profit for positions using a price source.
type Calculator struct {
	source pricesource.Source
	now    Clock
}

// NewCalculator creates a Calculator. A nil clock uses time.Now.
func NewCalculator(source pricesource.Source, now Clock) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{source: source, now: now}
}

// Today returns the current calendar date in UTC.
func (c *Calculator) Today() time.Time {
	return Day(c.now())
}

// ComputeProfit returns the profit of one position.
//
//   - not sold: (last - first) over [bought, today] times shares bought
//   - partially sold: the sold shares are marked through the sale date, the
//     remaining shares through today
//   - fully sold: (last - first) over [bought, sold] times shares sold
func (c *Calculator) ComputeProfit(ctx context.Context, in Input) (float64, error) {
	if in.DateSold == nil || in.SharesSold == 0 {
		return c.markToDate(ctx, in.Symbol, in.DateBought, c.Today(), in.SharesBought)
	}

	sold, err := c.markToDate(ctx, in.Symbol, in.DateBought, *in.DateSold, in.SharesSold)
	if err != nil {
		return 0, err
	}
	if in.SharesSold >= in.SharesBought {
		return sold, nil
	}

	held, err := c.markToDate(ctx, in.Symbol, in.DateBought, c.Today(), in.SharesBought-in.SharesSold)
	if err != nil {
		return 0, err
	}
	return sold + held, nil
}

// ComputeLotProfit returns the profit of a buy and all of its sale tranches.
// Each tranche is marked through its own sale date and whatever remains is
// marked through today. A lot with a single sale prices exactly like
// ComputeProfit.
func (c *Calculator) ComputeLotProfit(ctx context.Context, lot model.Lot) (float64, error) {
	symbol := lot.Position.MarketSymbol()
	bought := lot.Position.DateBought

	if len(lot.Sales) == 1 {
		sale := lot.Sales[0]
		return c.ComputeProfit(ctx, Input{
			Symbol:       symbol,
			DateBought:   bought,
			DateSold:     &sale.Date,
			SharesBought: lot.Position.SharesBought,
			SharesSold:   sale.Shares,
		})
	}

	var total float64
	for _, sale := range lot.Sales {
		if sale.Shares == 0 {
			continue
		}
		p, err := c.markToDate(ctx, symbol, bought, sale.Date, sale.Shares)
		if err != nil {
			return 0, err
		}
		total += p
	}

	if remaining := lot.Remaining(); remaining > 0 {
		p, err := c.markToDate(ctx, symbol, bought, c.Today(), remaining)
		if err != nil {
			return 0, err
		}
		total += p
	}

	return total, nil
}

// MarketValue returns the current value of shares: the last close over
// [bought, today] times shares.
func (c *Calculator) MarketValue(ctx context.Context, symbol string, bought time.Time, shares float64) (float64, error) {
	series, err := c.Series(ctx, symbol, bought, c.Today())
	if err != nil {
		return 0, err
	}
	return series[len(series)-1].Close * shares, nil
}

// Series fetches a non-empty price series. An empty answer from the price
// source is reported as *apperrors.PriceUnavailableError.
func (c *Calculator) Series(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s ends before it starts", apperrors.ErrInvalidDateRange, symbol)
	}

	series, err := c.source.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, &apperrors.PriceUnavailableError{Symbol: symbol, Start: start, End: end}
	}
	return series, nil
}

// markToDate returns (last close - first close) over [start, end] times shares.
func (c *Calculator) markToDate(ctx context.Context, symbol string, start, end time.Time, shares float64) (float64, error) {
	series, err := c.Series(ctx, symbol, start, end)
	if err != nil {
		return 0, err
	}
	return (series[len(series)-1].Close - series[0].Close) * shares, nil
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
