package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cafe404-pos/api/internal/cart"
	"github.com/cafe404-pos/api/internal/checkout"
	"github.com/cafe404-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// CartHandler exposes per-session carts and the checkout operation. Sessions
// are identified by an opaque {sid} path segment chosen by the terminal.
type CartHandler struct {
	carts    *cart.Manager
	checkout *checkout.Orchestrator
	hub      *ws.Hub
	taxRate  decimal.Decimal
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *cart.Manager, co *checkout.Orchestrator, hub *ws.Hub, taxRate decimal.Decimal) *CartHandler {
	return &CartHandler{carts: carts, checkout: co, hub: hub, taxRate: taxRate}
}

// RegisterRoutes registers cart endpoints. Mounted at /carts/{sid}.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Delete("/items/{idx}", h.RemoveItem)
	r.Post("/checkout", h.Checkout)
}

// --- Request / Response types ---

type addItemRequest struct {
	ItemID string `json:"item_id"`
	Qty    int    `json:"qty"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
	Table         string `json:"table"`
	Customer      string `json:"customer"`
}

type cartResponse struct {
	Lines    []cart.Line     `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func (h *CartHandler) toCartResponse(c *cart.Cart) cartResponse {
	return cartResponse{
		Lines:    c.Lines(),
		Subtotal: c.Subtotal(),
		Tax:      c.Tax(h.taxRate),
		Total:    c.Total(h.taxRate),
	}
}

// --- Handlers ---

// Get returns the session's cart with running totals.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Session(chi.URLParam(r, "sid"))
	writeJSON(w, http.StatusOK, h.toCartResponse(c))
}

// AddItem adds qty of an item to the session's cart at the current catalog
// price. Lines for the same item merge.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.carts.Session(chi.URLParam(r, "sid"))
	if _, err := c.Add(req.ItemID, req.Qty); err != nil {
		writeDomainError(w, "add cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toCartResponse(c))
}

// RemoveItem deletes one line by its position in the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line index")
		return
	}

	c := h.carts.Session(chi.URLParam(r, "sid"))
	if err := c.Remove(idx); err != nil {
		writeDomainError(w, "remove cart item", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toCartResponse(c))
}

// Clear drops every line from the session's cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.carts.Session(chi.URLParam(r, "sid")).Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Checkout commits the session's cart as one sale and notifies kitchen
// displays. Validation failures leave all state untouched and map to 4xx.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.carts.Session(chi.URLParam(r, "sid"))
	res, err := h.checkout.Checkout(r.Context(), c, req.PaymentMethod, req.Table, req.Customer)
	if err != nil {
		writeDomainError(w, "checkout", err)
		return
	}

	h.hub.Broadcast(ws.EventTicketCreated, res.Ticket)
	writeJSON(w, http.StatusCreated, res)
}
