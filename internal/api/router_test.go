package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/handlers"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/config"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/model"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/report"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/repository"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/testutil"
)

const today = "2024-01-01"

type testServer struct {
	handler http.Handler
	store   *repository.PositionRepository
}

func newTestServer(t *testing.T, src *testutil.StubSource) *testServer {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := repository.NewPositionRepository(db)

	cfg := &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	services := api.Services{
		System: testutil.NewTestSystemService(t, db),
		Ledger: service.NewLedgerService(store, logger.NewNop()),
		Report: testutil.NewTestReportService(t, store, src, today),
		Trend:  service.NewTrendService(src, testutil.FixedClock(today)),
	}
	return &testServer{
		handler: api.NewRouter(services, cfg, logger.NewNop()),
		store:   store,
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, testutil.NewJSONRequest(method, target, body))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testutil.NewStubSource())

	w := s.do(t, http.MethodGet, "/api/system/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	resp := decode[handlers.HealthResponse](t, w)
	if resp.Status != "healthy" || resp.Backend != "sqlite" {
		t.Errorf("response = %+v", resp)
	}
}

func TestPositions_CreateListAndSell(t *testing.T) {
	s := newTestServer(t, testutil.NewStubSource())

	w := s.do(t, http.MethodPost, "/api/position", `{
		"currency": "CAD",
		"owner": "alice",
		"stockType": "STOCK",
		"account": "TFSA",
		"ticker": "shop.to",
		"dateBought": "2023-01-01",
		"sharesBought": 10
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", w.Code, w.Body.String())
	}
	created := decode[model.Position](t, w)
	if created.ID == "" || created.Ticker != "SHOP.TO" {
		t.Fatalf("created = %+v", created)
	}

	w = s.do(t, http.MethodPost, "/api/position/"+created.ID+"/sale", `{"dateSold":"2023-06-01","sharesSold":4}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("sale status = %d, want 201: %s", w.Code, w.Body.String())
	}
	tranche := decode[model.Position](t, w)
	if tranche.TrancheOf != created.ID || tranche.SharesSold == nil || *tranche.SharesSold != 4 {
		t.Errorf("tranche = %+v", tranche)
	}

	w = s.do(t, http.MethodPost, "/api/position/"+created.ID+"/sale", `{"dateSold":"2023-07-01","sharesSold":7}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversell status = %d, want 400", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/position?owner=alice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
	if positions := decode[[]model.Position](t, w); len(positions) != 2 {
		t.Errorf("got %d positions, want 2", len(positions))
	}

	w = s.do(t, http.MethodGet, "/api/position?owner=bob", "")
	if positions := decode[[]model.Position](t, w); len(positions) != 0 {
		t.Errorf("got %d positions for bob, want 0", len(positions))
	}
}

func TestPositions_Errors(t *testing.T) {
	s := newTestServer(t, testutil.NewStubSource())

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{"malformed body", http.MethodPost, "/api/position", `{"owner":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/position", `{"owner":"a","color":"red"}`, http.StatusBadRequest},
		{"invalid position", http.MethodPost, "/api/position", `{"owner":"a","currency":"GBP"}`, http.StatusBadRequest},
		{"sale with bad uuid", http.MethodPost, "/api/position/123/sale", `{"dateSold":"2023-06-01","sharesSold":1}`, http.StatusBadRequest},
		{"sale of unknown position", http.MethodPost, "/api/position/" + testutil.MakeID() + "/sale", `{"dateSold":"2023-06-01","sharesSold":1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.target, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestReport(t *testing.T) {
	src := testutil.NewStubSource().
		WithPoint("SHOP.TO", testutil.Date("2023-01-01"), 100).
		WithPoint("SHOP.TO", testutil.Date(today), 110)
	s := newTestServer(t, src)

	w := s.do(t, http.MethodGet, "/api/report/latest", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("latest before build status = %d, want 503", w.Code)
	}

	testutil.SeedLedger(t, s.store,
		testutil.NewPosition().WithTicker("SHOP.TO").WithCurrency(model.CAD).InAccount(model.AccountTFSA).Build(),
		testutil.NewPosition().WithOwner("bob").WithTicker("GONE").WithCurrency(model.CAD).Build(),
	)

	w = s.do(t, http.MethodGet, "/api/report", "")
	if w.Code != http.StatusOK {
		t.Fatalf("report status = %d, want 200: %s", w.Code, w.Body.String())
	}
	table := decode[report.Table](t, w)
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	alice := table.Rows[0]
	if alice.Owner != "alice" || alice.TFSA != 100 || alice.Investments == nil || *alice.Investments != 1100 {
		t.Errorf("alice = %+v", alice)
	}
	if len(table.Incomplete) != 1 || table.Incomplete[0] != "bob" {
		t.Errorf("Incomplete = %v, want [bob]", table.Incomplete)
	}

	w = s.do(t, http.MethodGet, "/api/report/latest", "")
	if w.Code != http.StatusOK {
		t.Fatalf("latest status = %d, want 200", w.Code)
	}
	if latest := decode[report.Table](t, w); len(latest.Rows) != 2 {
		t.Errorf("latest has %d rows, want 2", len(latest.Rows))
	}
}

func TestTrend(t *testing.T) {
	src := testutil.NewStubSource().
		WithCloses("AAPL", testutil.Date("2023-12-29"), 100, 101, 102, 103)
	s := newTestServer(t, src)

	w := s.do(t, http.MethodGet, "/api/trend?ticker=aapl&dateBought=2023-12-29&sharesBought=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	trend := decode[model.Trend](t, w)
	if trend.Symbol != "AAPL" || len(trend.Points) != 4 || trend.Profit != 6 {
		t.Errorf("trend = %+v", trend)
	}

	w = s.do(t, http.MethodGet, "/api/trend?ticker=aapl", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing params status = %d, want 400", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/trend?ticker=NONE&dateBought=2023-12-29&sharesBought=1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown symbol status = %d, want 404: %s", w.Code, w.Body.String())
	}
}
