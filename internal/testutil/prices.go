package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
)

// StubSource is a deterministic in-memory price source. Each symbol has a
// full daily series; Fetch returns the points inside the requested range.
// Calls are counted per symbol so tests can assert on caching.
//
// Example usage:
//
//	src := testutil.NewStubSource().
//	    WithCloses("AAA", Date("2024-01-01"), 10, 11, 12).
//	    WithError("BROKEN", errors.New("boom"))
type StubSource struct {
	mu     sync.Mutex
	series map[string][]model.PricePoint
	errs   map[string]error
	delay  time.Duration
	calls  map[string]int
}

// NewStubSource creates an empty stub. Unknown symbols return an empty series.
func NewStubSource() *StubSource {
	return &StubSource{
		series: make(map[string][]model.PricePoint),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

// WithCloses adds one point per consecutive day starting at start.
func (s *StubSource) WithCloses(symbol string, start time.Time, closes ...float64) *StubSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range closes {
		s.series[symbol] = append(s.series[symbol], model.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		})
	}
	return s
}

// WithPoint adds a single close on date.
func (s *StubSource) WithPoint(symbol string, date time.Time, close float64) *StubSource {
	return s.WithCloses(symbol, date, close)
}

// WithError makes every fetch of symbol fail with err.
func (s *StubSource) WithError(symbol string, err error) *StubSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[symbol] = err
	return s
}

// WithDelay makes every fetch wait d before answering, or until the context
// is done.
func (s *StubSource) WithDelay(d time.Duration) *StubSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	return s
}

// Fetch implements pricesource.Source.
func (s *StubSource) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	s.mu.Lock()
	s.calls[symbol]++
	delay := s.delay
	err := s.errs[symbol]
	series := s.series[symbol]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	points := []model.PricePoint{}
	for _, p := range series {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

// Calls returns how many times symbol was fetched.
func (s *StubSource) Calls(symbol string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[symbol]
}

// TotalCalls returns the number of fetches across all symbols.
func (s *StubSource) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}
