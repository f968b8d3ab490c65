package handler_test

import (
	"net/http"
	"testing"
)

func seedSales(t *testing.T, env *testEnv) {
	t.Helper()
	// 2×25000 CASH, then 1×25000 + 1×20000 QRIS.
	env.checkoutSession(t, "t1", map[string]int{"C01": 2}, "CASH", "")
	env.checkoutSession(t, "t2", map[string]int{"C01": 1, "S01": 1}, "QRIS", "")
}

func TestReportsSummary(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)

	rr := env.do(t, http.MethodGet, "/reports/summary", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	resp := decodeObject(t, rr)
	totals := resp["totals"].(map[string]interface{})
	// Revenue 3×25000 + 20000 = 95000; profit 3×17000 + 11000 = 62000.
	if totals["revenue"] != "95000" || totals["profit"] != "62000" || totals["qty"].(float64) != 4 {
		t.Errorf("totals: %v", totals)
	}

	byMethod := resp["by_payment_method"].(map[string]interface{})
	cash := byMethod["CASH"].(map[string]interface{})
	if cash["revenue"] != "50000" {
		t.Errorf("CASH revenue: got %v, want 50000", cash["revenue"])
	}
}

func TestReportsByCategory(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)

	rr := env.do(t, http.MethodGet, "/reports/by-category", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	resp := decodeObject(t, rr)
	minuman := resp["MINUMAN"].(map[string]interface{})
	if minuman["revenue"] != "75000" || minuman["qty"].(float64) != 3 {
		t.Errorf("MINUMAN: %v", minuman)
	}
	snack := resp["SNACK"].(map[string]interface{})
	if snack["revenue"] != "20000" {
		t.Errorf("SNACK: %v", snack)
	}
}

func TestReportsTopItems(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)

	rr := env.do(t, http.MethodGet, "/reports/top-items?limit=1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	top := decodeList(t, rr)
	if len(top) != 1 || top[0]["name"] != "Kopi Python" || top[0]["qty"].(float64) != 3 {
		t.Errorf("top items: %v", top)
	}

	rr = env.do(t, http.MethodGet, "/reports/top-items?limit=0", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid limit: got %d, want 400", rr.Code)
	}
}
