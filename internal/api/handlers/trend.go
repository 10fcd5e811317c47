package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

// TrendHandler serves price trends of single positions.
type TrendHandler struct {
	trendService *service.TrendService
}

// NewTrendHandler creates a new TrendHandler.
func NewTrendHandler(trendService *service.TrendService) *TrendHandler {
	return &TrendHandler{
		trendService: trendService,
	}
}

// Trend handles GET requests for the close series and profit of a position
// described by query parameters. Nothing is stored.
//
// Endpoint: GET /api/trend
// Query Parameters:
//   - ticker: Required
//   - stockType: CRYPTO or STOCK (default STOCK)
//   - currency: USD, CAD or EUR (default USD)
//   - dateBought, sharesBought: Required
//   - dateSold, sharesSold: Optional, given together
//
// Response: 200 OK with model.Trend
// Error: 400 Bad Request if parameters are invalid
// Error: 404 Not Found if the price source has no data for the range
// Error: 502 Bad Gateway / 504 Gateway Timeout on price source failure
func (h *TrendHandler) Trend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := request.ParseTrendQuery(
		q.Get("ticker"),
		q.Get("stockType"),
		q.Get("currency"),
		q.Get("dateBought"),
		q.Get("sharesBought"),
		q.Get("dateSold"),
		q.Get("sharesSold"),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request parameters", err.Error())
		return
	}

	trend, err := h.trendService.Trend(r.Context(), *query)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTrend)
		return
	}

	response.RespondJSON(w, http.StatusOK, trend)
}
