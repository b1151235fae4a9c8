package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/econsim/clearing/internal/adapter/http/dto"
	"github.com/econsim/clearing/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrBankNotFound),
		errors.Is(err, domain.ErrCentralBankNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrInstrumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOverdraftNotAllowed),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrMoneyTypeMismatch),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidPartyID),
		errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrAmbiguousOrder),
		errors.Is(err, domain.ErrInsufficientDepth),
		errors.Is(err, domain.ErrOrderNotSplittable):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientInventory),
		errors.Is(err, domain.ErrNoTransactionsAccount):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotBankCustomer),
		errors.Is(err, domain.ErrNotCreditBank):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
