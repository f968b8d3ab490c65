package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/cafe404-pos/api/internal/cart"
	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/cafe404-pos/api/internal/checkout"
	"github.com/cafe404-pos/api/internal/kitchen"
	"github.com/cafe404-pos/api/internal/tables"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps component errors onto HTTP statuses: unknown
// references are 404, state conflicts are 409, bad input is 400, and a
// persistence failure is 500 with the detail kept in the server log.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	var (
		stockErr *checkout.InsufficientStockError
		persErr  *checkout.PersistenceError
	)
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, kitchen.ErrNotFound),
		errors.Is(err, tables.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &stockErr),
		errors.Is(err, catalog.ErrStockUnderflow),
		errors.Is(err, kitchen.ErrBadTransition),
		errors.Is(err, tables.ErrOccupied),
		errors.Is(err, tables.ErrNotOccupied):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidPayment),
		errors.Is(err, catalog.ErrInvalidItem),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrLineIndex):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &persErr):
		log.Printf("ERROR: %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
