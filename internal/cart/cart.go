package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/shopspring/decimal"
)

// Errors returned by cart operations.
var (
	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrLineIndex       = errors.New("line index out of range")
)

// Line is one pending purchase. Name, category and prices are snapshotted at
// add time so later catalog edits do not change an open cart.
type Line struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Qty       int             `json:"qty"`
}

// Cart is a per-session ordered list of lines. Each session owns exactly one
// cart and drives it from one goroutine, so the cart itself is unlocked.
type Cart struct {
	catalog *catalog.Catalog
	lines   []Line
}

// New creates an empty cart validating against the given catalog.
func New(c *catalog.Catalog) *Cart {
	return &Cart{catalog: c}
}

// Add appends qty of the item, snapshotting the current catalog price. A line
// for the same item merges quantities instead of duplicating. Adding is
// optimistic: stock is not checked until checkout.
func (c *Cart) Add(itemID string, qty int) (Line, error) {
	if qty <= 0 {
		return Line{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}

	it, err := c.catalog.Get(itemID)
	if err != nil {
		return Line{}, err
	}

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Qty += qty
			return c.lines[i], nil
		}
	}

	line := Line{
		ItemID:    it.ID,
		Name:      it.Name,
		Category:  it.Category,
		UnitPrice: it.Price,
		CostPrice: it.CostPrice,
		Qty:       qty,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// Remove deletes the line at index, preserving order of the rest.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: %d", ErrLineIndex, index)
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Clear drops all lines.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart's lines in order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Subtotal is Σ(unit price × qty).
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return sum
}

// Tax is the subtotal multiplied by rate, rounded to whole rupiah.
func (c *Cart) Tax(rate decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Mul(rate).Round(0)
}

// Total is subtotal plus tax at the given rate.
func (c *Cart) Total(rate decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Add(c.Tax(rate))
}

// Manager hands out carts keyed by session ID. Only the map access is locked;
// the carts themselves stay single-writer.
type Manager struct {
	catalog *catalog.Catalog

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewManager creates a Manager backed by the given catalog.
func NewManager(c *catalog.Catalog) *Manager {
	return &Manager{
		catalog: c,
		carts:   make(map[string]*Cart),
	}
}

// Session returns the session's cart, creating it on first use.
func (m *Manager) Session(id string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[id]
	if !ok {
		c = New(m.catalog)
		m.carts[id] = c
	}
	return c
}
