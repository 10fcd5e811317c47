package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/testutil"
)

func TestTrendService_Trend(t *testing.T) {
	src := testutil.NewStubSource().
		WithCloses("ETH-USD", testutil.Date("2023-12-28"), 10, 11, 12, 13, 14)
	svc := service.NewTrendService(src, testutil.FixedClock(today))

	t.Run("unsold runs through today", func(t *testing.T) {
		trend, err := svc.Trend(context.Background(), request.TrendQuery{
			Ticker:       "ETH",
			StockType:    model.StockTypeCrypto,
			Currency:     model.USD,
			DateBought:   testutil.Date("2023-12-29"),
			SharesBought: 2,
		})
		if err != nil {
			t.Fatalf("Trend() error = %v", err)
		}
		if trend.Symbol != "ETH-USD" {
			t.Errorf("Symbol = %s, want ETH-USD", trend.Symbol)
		}
		if len(trend.Points) != 4 {
			t.Errorf("got %d points, want 4", len(trend.Points))
		}
		if !trend.End.Equal(testutil.Date(today)) {
			t.Errorf("End = %v, want today", trend.End)
		}
		if !almostEqual(trend.Profit, (14-11)*2) {
			t.Errorf("Profit = %v, want 6", trend.Profit)
		}
	})

	t.Run("sold runs through the sale date", func(t *testing.T) {
		trend, err := svc.Trend(context.Background(), request.TrendQuery{
			Ticker:       "ETH",
			StockType:    model.StockTypeCrypto,
			Currency:     model.USD,
			DateBought:   testutil.Date("2023-12-28"),
			SharesBought: 2,
			DateSold:     testutil.DatePtr("2023-12-30"),
			SharesSold:   2,
		})
		if err != nil {
			t.Fatalf("Trend() error = %v", err)
		}
		if len(trend.Points) != 3 {
			t.Errorf("got %d points, want 3", len(trend.Points))
		}
		if !almostEqual(trend.Profit, (12-10)*2) {
			t.Errorf("Profit = %v, want 4", trend.Profit)
		}
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := svc.Trend(context.Background(), request.TrendQuery{
			Ticker:       "NOPE",
			StockType:    model.StockTypeStock,
			Currency:     model.USD,
			DateBought:   testutil.Date("2023-12-28"),
			SharesBought: 1,
		})
		if !errors.Is(err, apperrors.ErrPriceUnavailable) {
			t.Errorf("error = %v, want ErrPriceUnavailable", err)
		}
	})
}
