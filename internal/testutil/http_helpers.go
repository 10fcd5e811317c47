package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
)

// NewJSONRequest creates a request for target. A non-empty body is sent with
// a JSON content type; an empty one sends no body.
func NewJSONRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// WithURLParams attaches chi path parameters to req so handlers that read
// chi.URLParam can be called without a router.
//
//	req := testutil.WithURLParams(
//	    testutil.NewJSONRequest(http.MethodPost, "/api/position/"+id+"/sale", body),
//	    map[string]string{"uuid": id},
//	)
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// WithQuery replaces the query string of req with params.
//
//	req := testutil.WithQuery(
//	    testutil.NewJSONRequest(http.MethodGet, "/api/trend", ""),
//	    map[string]string{"ticker": "AAPL", "dateBought": "2024-01-02", "sharesBought": "10"},
//	)
func WithQuery(req *http.Request, params map[string]string) *http.Request {
	q := req.URL.Query()
	for key, value := range params {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()
	return req
}
