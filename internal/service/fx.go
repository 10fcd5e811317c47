package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/profit"
)

// FXPair returns the price source symbol quoting one unit of from in to,
// e.g. USDCAD=X.
func FXPair(from, to model.Currency) string {
	return fmt.Sprintf("%s%s=X", from, to)
}

// FXConverter converts amounts with the last available close of an FX pair.
type FXConverter struct {
	calc *profit.Calculator
}

// NewFXConverter creates a converter reading rates through calc.
func NewFXConverter(calc *profit.Calculator) *FXConverter {
	return &FXConverter{calc: calc}
}

// Convert converts amount from one currency to another using the last close
// of the pair over [anchor, today]. Same-currency amounts pass through.
func (c *FXConverter) Convert(ctx context.Context, amount float64, from, to model.Currency, anchor time.Time) (float64, error) {
	if from == to {
		return amount, nil
	}

	pair := FXPair(from, to)
	series, err := c.calc.Series(ctx, pair, anchor, c.calc.Today())
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", apperrors.ErrCurrencyConversion, pair, err)
	}
	rate := series[len(series)-1].Close
	if rate <= 0 {
		return 0, fmt.Errorf("%w: %s: non-positive rate %g", apperrors.ErrCurrencyConversion, pair, rate)
	}

	return amount * rate, nil
}
