package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cafe404-pos/api/internal/cart"
	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/cafe404-pos/api/internal/checkout"
	"github.com/cafe404-pos/api/internal/enum"
	"github.com/cafe404-pos/api/internal/handler"
	"github.com/cafe404-pos/api/internal/kitchen"
	"github.com/cafe404-pos/api/internal/ledger"
	"github.com/cafe404-pos/api/internal/store/memstore"
	"github.com/cafe404-pos/api/internal/tables"
	"github.com/cafe404-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func amount(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

var testTaxRate = amount("0.11")

// testEnv wires every handler over an in-memory store, mirroring the
// production wiring minus middleware.
type testEnv struct {
	router  *chi.Mux
	catalog *catalog.Catalog
	kitchen *kitchen.Queue
	tables  *tables.Registry
	ledger  *ledger.Ledger
}

func testMenu() []catalog.MenuItem {
	return []catalog.MenuItem{
		{ID: "C01", Name: "Kopi Python", Price: amount("25000"), CostPrice: amount("8000"), Category: enum.CategoryMinuman, Stock: 10},
		{ID: "C02", Name: "Matcha Learning", Price: amount("30000"), CostPrice: amount("12000"), Category: enum.CategoryMinuman, Stock: 10},
		{ID: "F01", Name: "Nasi Goreng Framework", Price: amount("35000"), CostPrice: amount("15000"), Category: enum.CategoryMakanan, Stock: 5},
		{ID: "S01", Name: "Dimsum 404", Price: amount("20000"), CostPrice: amount("9000"), Category: enum.CategorySnack, Stock: 8},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memstore.NewWithMenu(testMenu())

	cat, err := catalog.New(ctx, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	led, err := ledger.New(ctx, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kit, err := kitchen.New(ctx, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tab, err := tables.New(ctx, store, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	carts := cart.NewManager(cat)
	orch := checkout.New(cat, led, kit, tab, testTaxRate)
	hub := ws.NewHub()
	go hub.Run()

	r := chi.NewRouter()
	r.Route("/menu", handler.NewMenuHandler(cat).RegisterRoutes)
	r.Route("/carts/{sid}", handler.NewCartHandler(carts, orch, hub, testTaxRate).RegisterRoutes)
	r.Route("/kitchen", handler.NewKitchenHandler(kit, hub).RegisterRoutes)
	r.Route("/tables", handler.NewTableHandler(tab).RegisterRoutes)
	r.Route("/reports", handler.NewReportsHandler(led).RegisterRoutes)

	return &testEnv{router: r, catalog: cat, kitchen: kit, tables: tab, ledger: led}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// checkoutSession adds the given lines to a session cart and commits it.
func (e *testEnv) checkoutSession(t *testing.T, sid string, items map[string]int, payment, table string) map[string]interface{} {
	t.Helper()
	for id, qty := range items {
		rr := e.do(t, http.MethodPost, "/carts/"+sid+"/items", map[string]interface{}{"item_id": id, "qty": qty})
		if rr.Code != http.StatusOK {
			t.Fatalf("add %s: status %d, body %s", id, rr.Code, rr.Body.String())
		}
	}
	rr := e.do(t, http.MethodPost, "/carts/"+sid+"/checkout", map[string]interface{}{
		"payment_method": payment,
		"table":          table,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("checkout: status %d, body %s", rr.Code, rr.Body.String())
	}
	return decodeObject(t, rr)
}

func decodeObject(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}
