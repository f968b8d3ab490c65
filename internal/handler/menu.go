package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/cafe404-pos/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// MenuHandler exposes the catalog: listing for terminals, upsert and restock
// for administration.
type MenuHandler struct {
	catalog *catalog.Catalog
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(c *catalog.Catalog) *MenuHandler {
	return &MenuHandler{catalog: c}
}

// RegisterRoutes registers menu endpoints. Mounted at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Upsert)
	r.Patch("/{id}/stock", h.AdjustStock)
}

// --- Request / Response types ---

type upsertItemRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	CostPrice string `json:"cost_price"`
	Category  string `json:"category"`
	Stock     int    `json:"stock"`
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

// --- Handlers ---

// List returns menu items in fixed menu order, optionally filtered by the
// category query parameter.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !enum.IsValidCategory(category) {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.List(category))
}

// Get returns a single menu item by ID.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "get menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Upsert creates or replaces a menu item.
func (h *MenuHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}
	costPrice, err := decimal.NewFromString(req.CostPrice)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cost_price")
		return
	}

	item := catalog.MenuItem{
		ID:        req.ID,
		Name:      req.Name,
		Price:     price,
		CostPrice: costPrice,
		Category:  req.Category,
		Stock:     req.Stock,
	}
	if err := h.catalog.Upsert(r.Context(), item); err != nil {
		writeDomainError(w, "upsert menu item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// AdjustStock applies a signed delta to an item's stock. Positive for
// restocks; a negative delta cannot take stock below zero.
func (h *MenuHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.catalog.AdjustStock(r.Context(), chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		writeDomainError(w, "adjust stock", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
