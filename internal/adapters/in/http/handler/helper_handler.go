// internal/adapters/in/http/handler/helper_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	cartdom "voltmart/internal/domain/cart"
	orderdom "voltmart/internal/domain/order"
	productdom "voltmart/internal/domain/product"
	settingsdom "voltmart/internal/domain/settings"
	"voltmart/internal/application/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response failed: %v", err)
	}
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainErr maps domain/usecase errors onto HTTP statuses. Unknown
// errors become 500 and are logged; missing resources and bad arguments
// stay in the 4xx range.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, usecase.ErrOrderInvalidArgument),
		errors.Is(err, usecase.ErrProductInvalidArgument),
		errors.Is(err, usecase.ErrWishlistInvalidArgument),
		errors.Is(err, usecase.ErrSettingsInvalidArgument),
		errors.Is(err, usecase.ErrAuthInvalidArgument),
		errors.Is(err, cartdom.ErrInvalidItem),
		errors.Is(err, cartdom.ErrInvalidCart),
		errors.Is(err, productdom.ErrInvalid),
		errors.Is(err, orderdom.ErrInvalid),
		errors.Is(err, orderdom.ErrEmptyOrder),
		errors.Is(err, settingsdom.ErrInvalid),
		errors.Is(err, usecase.ErrOrderEmptyCart):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrCartNotFound),
		errors.Is(err, cartdom.ErrNotFound),
		errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, settingsdom.ErrNotConfigured):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, productdom.ErrDuplicateSKU),
		errors.Is(err, cartdom.ErrAlreadyExists):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, productdom.ErrOutOfStock):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, orderdom.ErrInvalidTransition):
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, usecase.ErrOrderForbidden):
		writeErr(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("[http] internal error: %v", err)
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}

// readJSON decodes the request body into dst, rejecting unknown fields.
func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
}

// firstNonEmpty picks the first non-empty string; used where a request field
// has a documented name and a shorthand alias.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
