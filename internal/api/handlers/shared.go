package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
)

// maxBodyBytes bounds request bodies; a single position is far smaller.
const maxBodyBytes = 1 << 16

// parseJSON decodes the request body into T, rejecting unknown fields and
// trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if dec.More() {
		return v, fmt.Errorf("unexpected data after JSON body")
	}
	return v, nil
}

// respondServiceError maps service errors onto HTTP status codes. fallback is
// the message used for unexpected failures.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidDateRange):
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, apperrors.ErrPositionNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPositionNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrReportNotYetAvailable):
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrReportNotYetAvailable.Error(), "")
	case errors.Is(err, apperrors.ErrPriceUnavailable):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPriceUnavailable.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPriceSourceTimeout):
		response.RespondError(w, http.StatusGatewayTimeout, apperrors.ErrPriceSourceTimeout.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPriceSource):
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrPriceSource.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
