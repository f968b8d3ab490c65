package router

import (
	"net/http"

	"github.com/cafe404-pos/api/internal/cart"
	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/cafe404-pos/api/internal/checkout"
	"github.com/cafe404-pos/api/internal/config"
	"github.com/cafe404-pos/api/internal/handler"
	"github.com/cafe404-pos/api/internal/kitchen"
	"github.com/cafe404-pos/api/internal/ledger"
	"github.com/cafe404-pos/api/internal/tables"
	"github.com/cafe404-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the initialized aggregates the router wires handlers to.
type Deps struct {
	Catalog  *catalog.Catalog
	Carts    *cart.Manager
	Checkout *checkout.Orchestrator
	Kitchen  *kitchen.Queue
	Tables   *tables.Registry
	Ledger   *ledger.Ledger
	Hub      *ws.Hub
}

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// WebSocket route for kitchen displays
	r.Get("/ws/kitchen", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, w, r)
	})

	menuHandler := handler.NewMenuHandler(d.Catalog)
	r.Route("/menu", menuHandler.RegisterRoutes)

	cartHandler := handler.NewCartHandler(d.Carts, d.Checkout, d.Hub, cfg.TaxRate)
	r.Route("/carts/{sid}", cartHandler.RegisterRoutes)

	kitchenHandler := handler.NewKitchenHandler(d.Kitchen, d.Hub)
	r.Route("/kitchen", kitchenHandler.RegisterRoutes)

	tableHandler := handler.NewTableHandler(d.Tables)
	r.Route("/tables", tableHandler.RegisterRoutes)

	reportsHandler := handler.NewReportsHandler(d.Ledger)
	r.Route("/reports", reportsHandler.RegisterRoutes)

	return r
}
