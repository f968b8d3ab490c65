package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/cafe404-pos/api/internal/cart"
	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/cafe404-pos/api/internal/checkout"
	"github.com/cafe404-pos/api/internal/config"
	"github.com/cafe404-pos/api/internal/kitchen"
	"github.com/cafe404-pos/api/internal/ledger"
	"github.com/cafe404-pos/api/internal/router"
	"github.com/cafe404-pos/api/internal/store/memstore"
	"github.com/cafe404-pos/api/internal/store/pgstore"
	"github.com/cafe404-pos/api/internal/tables"
	"github.com/cafe404-pos/api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
)

// persister is the union of every component's storage interface, satisfied by
// both memstore and pgstore.
type persister interface {
	catalog.Persister
	ledger.Persister
	kitchen.Persister
	tables.Persister
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	var store persister
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("Unable to ping database: %v", err)
		}
		log.Println("Connected to database")
		store = pgstore.New(pool)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		store = memstore.New()
	}

	cat, err := catalog.New(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	led, err := ledger.New(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}
	kit, err := kitchen.New(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load kitchen queue: %v", err)
	}
	tab, err := tables.New(ctx, store, cfg.TableCount)
	if err != nil {
		log.Fatalf("Failed to load tables: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, router.Deps{
		Catalog:  cat,
		Carts:    cart.NewManager(cat),
		Checkout: checkout.New(cat, led, kit, tab, cfg.TaxRate),
		Kitchen:  kit,
		Tables:   tab,
		Ledger:   led,
		Hub:      hub,
	})

	log.Printf("Starting server on :%s (tax rate %s, %d tables)",
		cfg.Port, cfg.TaxRate.String(), cfg.TableCount)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
