package handler

import (
	"net/http"
	"strconv"

	"github.com/cafe404-pos/api/internal/ledger"
	"github.com/go-chi/chi/v5"
)

// ReportsHandler serves sales rollups computed from the ledger.
type ReportsHandler struct {
	ledger *ledger.Ledger
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(l *ledger.Ledger) *ReportsHandler {
	return &ReportsHandler{ledger: l}
}

// RegisterRoutes registers report endpoints. Mounted at /reports.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/by-category", h.ByCategory)
	r.Get("/by-payment", h.ByPaymentMethod)
	r.Get("/top-items", h.TopItems)
}

type summaryResponse struct {
	Totals          ledger.Aggregate            `json:"totals"`
	ByPaymentMethod map[string]ledger.Aggregate `json:"by_payment_method"`
}

// Summary returns overall revenue, profit and quantity, split by payment
// method.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summaryResponse{
		Totals:          h.ledger.Totals(),
		ByPaymentMethod: h.ledger.ByPaymentMethod(),
	})
}

// ByCategory returns revenue/profit rollups per menu category.
func (h *ReportsHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.ByCategory())
}

// ByPaymentMethod returns revenue/profit rollups per payment method.
func (h *ReportsHandler) ByPaymentMethod(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.ByPaymentMethod())
}

// TopItems returns best sellers by quantity. The limit query parameter
// defaults to 5.
func (h *ReportsHandler) TopItems(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.ledger.TopItems(limit))
}
