// Package pricesource defines the historical price lookup used by the profit
// engine, along with the wrappers that bound and memoize it.
package pricesource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// Source returns the daily price series of a symbol over an inclusive date
// range, ordered by date. An unknown symbol or a range without trading data
// yields an empty series, not an error; errors are reserved for transport
// failures.
type Source interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	return f(ctx, symbol, start, end)
}

// Timeout bounds every call to the wrapped source. A call that exceeds d
// fails with apperrors.ErrPriceSourceTimeout.
type Timeout struct {
	source Source
	d      time.Duration
}

// NewTimeout wraps source so that no single fetch runs longer than d.
func NewTimeout(source Source, d time.Duration) *Timeout {
	return &Timeout{source: source, d: d}
}

// Fetch implements Source.
func (t *Timeout) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	type result struct {
		points []model.PricePoint
		err    error
	}
	done := make(chan result, 1)
	go func() {
		points, err := t.source.Fetch(ctx, symbol, start, end)
		done <- result{points, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return nil, timeoutError(symbol, start, end, r.err)
		}
		return r.points, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, timeoutError(symbol, start, end, ctx.Err())
		}
		return nil, ctx.Err()
	}
}

func timeoutError(symbol string, start, end time.Time, cause error) error {
	return fmt.Errorf("%w: %s %s..%s: %v", apperrors.ErrPriceSourceTimeout,
		symbol, start.Format("2006-01-02"), end.Format("2006-01-02"), cause)
}

type key struct {
	symbol string
	start  string
	end    string
}

func (k key) String() string {
	return k.symbol + "|" + k.start + "|" + k.end
}

// Memo caches series by (symbol, start, end). It is meant to live for one
// aggregation run; concurrent requests for the same key share one fetch.
// Failed fetches are not cached.
type Memo struct {
	source Source
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[key][]model.PricePoint
}

// NewMemo wraps source with a run-scoped cache.
func NewMemo(source Source) *Memo {
	return &Memo{
		source: source,
		cache:  make(map[key][]model.PricePoint),
	}
}

// Fetch implements Source.
func (m *Memo) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	k := key{symbol: symbol, start: start.Format("2006-01-02"), end: end.Format("2006-01-02")}

	m.mu.RLock()
	points, ok := m.cache[k]
	m.mu.RUnlock()
	if ok {
		return points, nil
	}

	v, err, _ := m.group.Do(k.String(), func() (interface{}, error) {
		points, err := m.source.Fetch(ctx, symbol, start, end)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.cache[k] = points
		m.mu.Unlock()
		return points, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]model.PricePoint), nil
}

// Len returns the number of cached series.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
