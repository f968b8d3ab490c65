package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cafe404-pos/api/internal/kitchen"
	"github.com/cafe404-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// KitchenHandler exposes the active ticket queue to kitchen displays.
type KitchenHandler struct {
	queue *kitchen.Queue
	hub   *ws.Hub
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(q *kitchen.Queue, hub *ws.Hub) *KitchenHandler {
	return &KitchenHandler{queue: q, hub: hub}
}

// RegisterRoutes registers kitchen endpoints. Mounted at /kitchen.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tickets", h.List)
	r.Patch("/tickets/{id}/status", h.UpdateStatus)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// List returns active tickets in creation order.
func (h *KitchenHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.queue.Active())
}

// UpdateStatus advances a ticket one step forward. Any other transition is a
// 409. Reaching SERVED removes the ticket from the active queue.
func (h *KitchenHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ticket ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.queue.Advance(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, "advance ticket", err)
		return
	}

	h.hub.Broadcast(ws.EventTicketStatus, ticket)
	writeJSON(w, http.StatusOK, ticket)
}
