package handler_test

import (
	"net/http"
	"testing"
)

func TestCartAddAndTotals(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "C01", "qty": 2})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	cart := decodeObject(t, rr)
	lines := cart["lines"].([]interface{})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	// 2×25000 = 50000, tax 5500, total 55500
	if cart["subtotal"] != "50000" || cart["tax"] != "5500" || cart["total"] != "55500" {
		t.Errorf("totals: subtotal=%v tax=%v total=%v", cart["subtotal"], cart["tax"], cart["total"])
	}
}

func TestCartAdd_MergesSameItem(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "C01", "qty": 3})
	rr := env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "C01", "qty": 4})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}

	cart := decodeObject(t, rr)
	lines := cart["lines"].([]interface{})
	if len(lines) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(lines))
	}
	if qty := lines[0].(map[string]interface{})["qty"].(float64); qty != 7 {
		t.Errorf("merged qty: got %v, want 7", qty)
	}
}

func TestCartAdd_Errors(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "Z99", "qty": 1})
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown item: got %d, want 404", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "C01", "qty": 0})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("zero qty: got %d, want 400", rr.Code)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "C01", "qty": 1})
	env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "S01", "qty": 1})

	rr := env.do(t, http.MethodDelete, "/carts/t1/items/0", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("remove: got %d", rr.Code)
	}
	cart := decodeObject(t, rr)
	lines := cart["lines"].([]interface{})
	if len(lines) != 1 || lines[0].(map[string]interface{})["item_id"] != "S01" {
		t.Errorf("remaining lines: %v", lines)
	}

	rr = env.do(t, http.MethodDelete, "/carts/t1/items/5", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad index: got %d, want 400", rr.Code)
	}

	rr = env.do(t, http.MethodDelete, "/carts/t1/", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("clear: got %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/carts/t1/", nil)
	cart = decodeObject(t, rr)
	if len(cart["lines"].([]interface{})) != 0 {
		t.Error("cart not cleared")
	}
}

func TestCartSessionIsolation(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "C01", "qty": 1})
	rr := env.do(t, http.MethodGet, "/carts/t2/", nil)
	cart := decodeObject(t, rr)
	if len(cart["lines"].([]interface{})) != 0 {
		t.Error("sessions must not share carts")
	}
}

func TestCheckout_HappyPath(t *testing.T) {
	env := newTestEnv(t)

	res := env.checkoutSession(t, "t1", map[string]int{"C01": 2}, "CASH", "")
	if res["subtotal"] != "50000" || res["tax"] != "5500" || res["total"] != "55500" {
		t.Errorf("totals: %v", res)
	}
	if res["ticket_number"] != "TKT-001" {
		t.Errorf("ticket number: got %v", res["ticket_number"])
	}

	// The response embeds the full kitchen ticket.
	ticket, ok := res["ticket"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing ticket object in %v", res)
	}
	if lines := ticket["lines"].([]interface{}); len(lines) != 1 {
		t.Errorf("ticket lines: got %v", lines)
	}
	if ticket["label"] != "takeaway" || ticket["status"] != "PENDING" {
		t.Errorf("ticket: label=%v status=%v", ticket["label"], ticket["status"])
	}

	// Cart is now empty.
	rr := env.do(t, http.MethodGet, "/carts/t1/", nil)
	if len(decodeObject(t, rr)["lines"].([]interface{})) != 0 {
		t.Error("cart not cleared after checkout")
	}

	// Stock decremented.
	rr = env.do(t, http.MethodGet, "/menu/C01", nil)
	if stock := decodeObject(t, rr)["stock"].(float64); stock != 8 {
		t.Errorf("stock after checkout: got %v, want 8", stock)
	}
}

func TestCheckout_Statuses(t *testing.T) {
	env := newTestEnv(t)

	// Empty cart.
	rr := env.do(t, http.MethodPost, "/carts/t1/checkout", map[string]interface{}{"payment_method": "CASH"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty cart: got %d, want 400", rr.Code)
	}

	// Insufficient stock: F01 has 5.
	env.do(t, http.MethodPost, "/carts/t1/items", map[string]interface{}{"item_id": "F01", "qty": 7})
	rr = env.do(t, http.MethodPost, "/carts/t1/checkout", map[string]interface{}{"payment_method": "CASH"})
	if rr.Code != http.StatusConflict {
		t.Errorf("insufficient stock: got %d, want 409", rr.Code)
	}

	// Invalid payment method.
	rr = env.do(t, http.MethodPost, "/carts/t1/checkout", map[string]interface{}{"payment_method": "CHEQUE"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid payment: got %d, want 400", rr.Code)
	}

	// Unknown table.
	rr = env.do(t, http.MethodPost, "/carts/t1/checkout", map[string]interface{}{"payment_method": "CASH", "table": "42"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown table: got %d, want 404", rr.Code)
	}
}

func TestCheckout_OccupiedTable(t *testing.T) {
	env := newTestEnv(t)

	env.checkoutSession(t, "t1", map[string]int{"C01": 1}, "CASH", "2")

	env.do(t, http.MethodPost, "/carts/t2/items", map[string]interface{}{"item_id": "S01", "qty": 1})
	rr := env.do(t, http.MethodPost, "/carts/t2/checkout", map[string]interface{}{"payment_method": "QRIS", "table": "2"})
	if rr.Code != http.StatusConflict {
		t.Errorf("occupied table: got %d, want 409", rr.Code)
	}
}
