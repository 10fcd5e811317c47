package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

// PositionHandler handles HTTP requests for ledger position endpoints.
type PositionHandler struct {
	ledgerService *service.LedgerService
}

// NewPositionHandler creates a new PositionHandler with the provided service dependency.
func NewPositionHandler(ledgerService *service.LedgerService) *PositionHandler {
	return &PositionHandler{
		ledgerService: ledgerService,
	}
}

// Positions handles GET requests to list the ledger in append order.
//
// Endpoint: GET /api/position
// Query Parameters:
//   - owner: Optional owner name to filter by
//
// Response: 200 OK with array of Position
// Error: 500 Internal Server Error if the ledger cannot be read
func (h *PositionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.ledgerService.ListPositions(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToReadLedger)
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}

// CreatePosition handles POST requests to append a new position.
//
// Endpoint: POST /api/position
// Request Body: CreatePositionRequest
// Response: 201 Created with Position
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 500 Internal Server Error if the ledger append fails
func (h *PositionHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	position, err := h.ledgerService.AddPosition(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAppendLedger)
		return
	}

	response.RespondJSON(w, http.StatusCreated, position)
}

// RecordSale handles POST requests to append a sale tranche to a buy record.
//
// Endpoint: POST /api/position/{uuid}/sale
// Request Body: CreateSaleRequest
// Response: 201 Created with the tranche Position
// Error: 400 Bad Request if the ID is invalid (validated by middleware) or the sale exceeds the remaining shares
// Error: 404 Not Found if no buy record has the ID
// Error: 500 Internal Server Error if the ledger cannot be read or appended
func (h *PositionHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	positionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.CreateSaleRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tranche, err := h.ledgerService.RecordSale(r.Context(), positionID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAppendLedger)
		return
	}

	response.RespondJSON(w, http.StatusCreated, tranche)
}
