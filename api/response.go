package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/security"
	"github.com/hireloop/marketplace/services"
	"github.com/hireloop/marketplace/stores"
	"github.com/hireloop/marketplace/utils"
)

type ErrorResponse struct {
	Error      string `json:"error"`
	RetryAfter int64  `json:"retry_after_seconds,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// writeServiceError maps domain failures to HTTP statuses. Invalid
// transitions and exceeded refund balances are permanent: the caller must
// not retry the same request. Rate limits are transient and carry the
// retry delay.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidTransition *models.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: invalidTransition.Error()})
		return
	}

	var rateLimited *security.RateLimitedError
	if errors.As(err, &rateLimited) {
		w.Header().Set("Retry-After", strconv.FormatInt(rateLimited.RetryAfter, 10))
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error:      "too many requests",
			RetryAfter: rateLimited.RetryAfter,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrProviderNotFound),
		errors.Is(err, services.ErrPlanNotFound),
		errors.Is(err, services.ErrEarningNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrRefundExceedsBalance):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidRefundAmount),
		errors.Is(err, services.ErrInvalidBookingPrice),
		errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrBookingNotPaid):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, stores.ErrIdempotencyInProgress):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		utils.Error(r.Context(), "request failed", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
