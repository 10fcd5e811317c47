package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// DefaultBaseURL is the Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const _chartPath = "/v8/finance/chart/{symbol}"

// Options configures a FinanceClient.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	Retries       int
	RetryWait     time.Duration
	RatePerMinute int
}

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
// Requests are rate limited and transport failures are retried with backoff.
type FinanceClient struct {
	client      *resty.Client
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.RetryWait <= 0 {
		o.RetryWait = 500 * time.Millisecond
	}
	if o.RatePerMinute <= 0 {
		o.RatePerMinute = 120
	}
	return o
}

// CallBudget is the longest one Fetch can take when every attempt runs into
// Timeout: the first attempt, each retry and the longest backoff before it.
// It is zero when Timeout is not set.
func (o Options) CallBudget() time.Duration {
	if o.Timeout <= 0 {
		return 0
	}
	o = o.withDefaults()
	attempts := time.Duration(o.Retries + 1)
	return attempts*o.Timeout + time.Duration(o.Retries)*o.maxRetryWait()
}

func (o Options) maxRetryWait() time.Duration {
	return 10 * o.RetryWait
}

// NewFinanceClient creates a new Yahoo Finance client.
func NewFinanceClient(opts Options, log logger.Logger) *FinanceClient {
	opts = opts.withDefaults()

	client := resty.New().
		SetLogger(log).
		SetBaseURL(opts.BaseURL).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.maxRetryWait()).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &FinanceClient{
		client:      client,
		rateLimiter: ratelimit.New(opts.RatePerMinute, ratelimit.Per(time.Minute)),
		logger:      log,
	}
}

// Close releases the underlying HTTP client resources.
func (c *FinanceClient) Close() error {
	return c.client.Close()
}

// Fetch implements pricesource.Source. Both ends of the range are inclusive
// calendar days. Unknown symbols and ranges without trading data produce an
// empty series.
func (c *FinanceClient) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	raw, found, err := c.QueryYahooSymbolByDateRange(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if !found {
		return []model.PricePoint{}, nil
	}

	chart, err := c.ParseChart(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrPriceSource, symbol, err)
	}

	points := make([]model.PricePoint, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		if ind.Date.Before(day(start)) || ind.Date.After(day(end)) {
			continue
		}
		points = append(points, model.PricePoint{
			Date:  ind.Date,
			Open:  ind.PriceOpen,
			High:  ind.PriceHigh,
			Low:   ind.PriceLow,
			Close: ind.PriceClose,
		})
	}
	return points, nil
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
// Days with a null close are skipped. A response without timestamps parses
// into a chart with no indicators.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := yahooResult.Chart.Result[0]

	chart := PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       []Indicators{},
	}

	if len(result.Timestamp) == 0 {
		return chart, nil
	}
	if len(result.Indicators.Quote) == 0 {
		return PriceChart{}, fmt.Errorf("no quote data returned")
	}
	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	for i, ts := range result.Timestamp {
		closePrice := value(quote.Close, i)
		if closePrice == nil {
			continue
		}
		ind := Indicators{
			Date:       day(time.Unix(ts, 0)),
			PriceClose: *closePrice,
		}
		if v := value(quote.Open, i); v != nil {
			ind.PriceOpen = *v
		}
		if v := value(quote.High, i); v != nil {
			ind.PriceHigh = *v
		}
		if v := value(quote.Low, i); v != nil {
			ind.PriceLow = *v
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			ind.Volume = *quote.Volume[i]
		}
		chart.Indicators = append(chart.Indicators, ind)
	}

	return chart, nil
}

// QueryYahooSymbolByDateRange fetches daily price data for a symbol within a
// date range. found is false when Yahoo does not know the symbol.
func (c *FinanceClient) QueryYahooSymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, bool, error) {
	c.rateLimiter.Take()

	// period2 is exclusive, so ask for the day after endDate.
	period1 := day(startDate).Unix()
	period2 := day(endDate).AddDate(0, 0, 1).Unix()

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"period1":  strconv.FormatInt(period1, 10),
			"period2":  strconv.FormatInt(period2, 10),
		}).
		SetResult(&Response{}).
		SetError(&Response{}).
		Get(_chartPath)
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, false, ctx.Err()
		}
		return Response{}, false, fmt.Errorf("%w: %s: %v", apperrors.ErrPriceSource, symbol, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", symbol, resp.Status(), resp.Duration())

	if resp.StatusCode() == http.StatusNotFound {
		return Response{}, false, nil
	}
	if resp.IsError() {
		if e, ok := resp.Error().(*Response); ok && e.Chart.Error != nil {
			return Response{}, false, fmt.Errorf("%w: %s: yahoo error: %s %s",
				apperrors.ErrPriceSource, symbol, e.Chart.Error.Code, e.Chart.Error.Description)
		}
		return Response{}, false, fmt.Errorf("%w: %s: unexpected status %s", apperrors.ErrPriceSource, symbol, resp.Status())
	}

	result, ok := resp.Result().(*Response)
	if !ok || result == nil {
		return Response{}, false, fmt.Errorf("%w: %s: empty response", apperrors.ErrPriceSource, symbol)
	}
	if result.Chart.Error != nil {
		if result.Chart.Error.Code == "Not Found" {
			return Response{}, false, nil
		}
		return Response{}, false, fmt.Errorf("%w: %s: yahoo error: %s %s",
			apperrors.ErrPriceSource, symbol, result.Chart.Error.Code, result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, false, nil
	}

	return *result, true, nil
}

func value(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

// day truncates t to midnight UTC.
func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
