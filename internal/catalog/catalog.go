package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cafe404-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the catalog.
var (
	ErrNotFound       = errors.New("menu item not found")
	ErrStockUnderflow = errors.New("stock would go negative")
	ErrInvalidItem    = errors.New("invalid menu item")
)

// MenuItem is a sellable catalog entry. Price and CostPrice are in rupiah.
// Stock is mutated only by restocks and by checkout's decrement.
type MenuItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Category  string          `json:"category"`
	Stock     int             `json:"stock"`
}

// Persister is the slice of the storage adapter the catalog needs.
type Persister interface {
	ReadMenu(ctx context.Context) ([]MenuItem, error)
	WriteMenuItem(ctx context.Context, item MenuItem) error
}

// Catalog owns the menu. Items keep insertion order for listing. Safe for
// concurrent use: terminals read while restocks and checkout decrements write.
type Catalog struct {
	store Persister

	mu    sync.RWMutex
	order []string
	items map[string]MenuItem
}

// New loads the menu from the store.
func New(ctx context.Context, store Persister) (*Catalog, error) {
	items, err := store.ReadMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}

	c := &Catalog{
		store: store,
		items: make(map[string]MenuItem, len(items)),
	}
	for _, it := range items {
		if _, dup := c.items[it.ID]; !dup {
			c.order = append(c.order, it.ID)
		}
		c.items[it.ID] = it
	}
	return c, nil
}

// Get returns the item with the given ID.
func (c *Catalog) Get(id string) (MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	if !ok {
		return MenuItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return it, nil
}

// List returns items in insertion order. An empty category means no filter.
func (c *Catalog) List(category string) []MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]MenuItem, 0, len(c.order))
	for _, id := range c.order {
		it := c.items[id]
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// AdjustStock applies delta to the item's stock and persists the result.
// Fails without mutating if the item is unknown or stock would go negative.
func (c *Catalog) AdjustStock(ctx context.Context, id string, delta int) (MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[id]
	if !ok {
		return MenuItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := it.Stock + delta
	if next < 0 {
		return MenuItem{}, fmt.Errorf("%w: %s has %d, delta %d", ErrStockUnderflow, id, it.Stock, delta)
	}

	it.Stock = next
	if err := c.store.WriteMenuItem(ctx, it); err != nil {
		return MenuItem{}, fmt.Errorf("write menu item %s: %w", id, err)
	}
	c.items[id] = it
	return it, nil
}

// Upsert creates or replaces an item. Administrative path; the order path
// never calls this.
func (c *Catalog) Upsert(ctx context.Context, item MenuItem) error {
	if item.ID == "" || item.Name == "" {
		return fmt.Errorf("%w: id and name are required", ErrInvalidItem)
	}
	if item.Price.IsNegative() || item.CostPrice.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}
	if item.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrInvalidItem)
	}
	if !enum.IsValidCategory(item.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, item.Category)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.WriteMenuItem(ctx, item); err != nil {
		return fmt.Errorf("write menu item %s: %w", item.ID, err)
	}
	if _, exists := c.items[item.ID]; !exists {
		c.order = append(c.order, item.ID)
	}
	c.items[item.ID] = item
	return nil
}
