package handler

import (
	"net/http"

	"github.com/cafe404-pos/api/internal/tables"
	"github.com/go-chi/chi/v5"
)

// TableHandler exposes the floor map. Occupation happens only through
// checkout; the API only lists and releases.
type TableHandler struct {
	registry *tables.Registry
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(reg *tables.Registry) *TableHandler {
	return &TableHandler{registry: reg}
}

// RegisterRoutes registers table endpoints. Mounted at /tables.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/{id}/release", h.Release)
}

// List returns every table with its occupancy state, in fixed floor order.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

// Release frees an occupied table after the party leaves.
func (h *TableHandler) Release(w http.ResponseWriter, r *http.Request) {
	tbl, err := h.registry.Release(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "release table", err)
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}
