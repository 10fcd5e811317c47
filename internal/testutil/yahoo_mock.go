package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/yahoo"
)

// CreateMockYahooResponse creates a Yahoo chart response with one day per
// close starting at start. A NaN-free nil entry is produced for closes < 0
// so tests can exercise null handling.
func CreateMockYahooResponse(symbol string, start time.Time, closes ...float64) yahoo.Response {
	n := len(closes)
	timestamps := make([]int64, n)
	opens := make([]*float64, n)
	highs := make([]*float64, n)
	lows := make([]*float64, n)
	closeValues := make([]*float64, n)
	volumes := make([]*int64, n)

	for i, c := range closes {
		// Yahoo stamps trading days at market open, not midnight.
		timestamps[i] = start.AddDate(0, 0, i).Add(14*time.Hour + 30*time.Minute).Unix()
		if c < 0 {
			continue
		}
		closePrice, open, high, low := c, c-0.5, c+1, c-1
		volume := int64(1000000 + i*10000)
		opens[i] = &open
		highs[i] = &high
		lows[i] = &low
		closeValues[i] = &closePrice
		volumes[i] = &volume
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:       symbol,
						Currency:     "USD",
						ExchangeName: "NMS",
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{
							{
								Open:   opens,
								High:   highs,
								Low:    lows,
								Close:  closeValues,
								Volume: volumes,
							},
						},
					},
				},
			},
		},
	}
}

// CreateMockYahooNotFound creates the response Yahoo sends for unknown symbols.
func CreateMockYahooNotFound() yahoo.Response {
	return yahoo.Response{
		Chart: yahoo.Chart{
			Error: &yahoo.APIError{Code: "Not Found", Description: "No data found, symbol may be delisted"},
		},
	}
}

// MockYahooServer serves canned chart responses keyed by symbol. Symbols
// without a response get a 404 with Yahoo's not-found body.
type MockYahooServer struct {
	*httptest.Server
	responses map[string]yahoo.Response
	status    map[string]int
	hits      atomic.Int64

	mu       sync.Mutex
	failures map[string]int
}

// NewMockYahooServer starts a mock chart API and closes it on test cleanup.
func NewMockYahooServer(t *testing.T) *MockYahooServer {
	t.Helper()
	m := &MockYahooServer{
		responses: make(map[string]yahoo.Response),
		status:    make(map[string]int),
		failures:  make(map[string]int),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Close)
	return m
}

// WithResponse registers the chart returned for symbol.
func (m *MockYahooServer) WithResponse(symbol string, resp yahoo.Response) *MockYahooServer {
	m.responses[symbol] = resp
	return m
}

// WithStatus makes requests for symbol fail with the given HTTP status.
func (m *MockYahooServer) WithStatus(symbol string, status int) *MockYahooServer {
	m.status[symbol] = status
	return m
}

// FailFirst makes the next n requests for symbol fail with a 500 before the
// registered response is served.
func (m *MockYahooServer) FailFirst(symbol string, n int) *MockYahooServer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[symbol] = n
	return m
}

// Hits returns the number of requests served.
func (m *MockYahooServer) Hits() int {
	return int(m.hits.Load())
}

func (m *MockYahooServer) serve(w http.ResponseWriter, r *http.Request) {
	m.hits.Add(1)
	symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")

	w.Header().Set("Content-Type", "application/json")
	m.mu.Lock()
	failing := m.failures[symbol] > 0
	if failing {
		m.failures[symbol]--
	}
	m.mu.Unlock()
	if failing {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if status, ok := m.status[symbol]; ok {
		w.WriteHeader(status)
		return
	}
	resp, ok := m.responses[symbol]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		//nolint:errcheck // Test server
		json.NewEncoder(w).Encode(CreateMockYahooNotFound())
		return
	}
	//nolint:errcheck // Test server
	json.NewEncoder(w).Encode(resp)
}
