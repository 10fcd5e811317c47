package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/pricesource"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/profit"
)

// TrendService prices a single, unsaved position for charting.
type TrendService struct {
	source pricesource.Source
	now    profit.Clock
}

// NewTrendService creates a new TrendService.
func NewTrendService(source pricesource.Source, now profit.Clock) *TrendService {
	return &TrendService{source: source, now: now}
}

// Trend returns the close series from the purchase date through the sale
// date, or through today when the position is not sold, along with the
// position's profit.
func (s *TrendService) Trend(ctx context.Context, q request.TrendQuery) (*model.Trend, error) {
	calc := profit.NewCalculator(pricesource.NewMemo(s.source), s.now)
	symbol := model.MarketSymbol(q.Ticker, q.StockType, q.Currency)

	start := profit.Day(q.DateBought)
	end := calc.Today()
	if q.DateSold != nil {
		end = profit.Day(*q.DateSold)
	}

	points, err := calc.Series(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTrend, err)
	}

	p, err := calc.ComputeProfit(ctx, profit.Input{
		Symbol:       symbol,
		DateBought:   q.DateBought,
		DateSold:     q.DateSold,
		SharesBought: q.SharesBought,
		SharesSold:   q.SharesSold,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeProfits, err)
	}

	return &model.Trend{
		Symbol: symbol,
		Start:  start,
		End:    end,
		Points: points,
		Profit: p,
	}, nil
}
