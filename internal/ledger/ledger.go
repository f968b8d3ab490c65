package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one committed sale line. Entries are append-only: never updated or
// deleted by normal operation. Name, category and prices are snapshots from
// the moment of sale.
type Entry struct {
	ID            uuid.UUID       `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	ItemID        string          `json:"item_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Qty           int             `json:"qty"`
	LineTotal     decimal.Decimal `json:"line_total"`
	Profit        decimal.Decimal `json:"profit"`
	PaymentMethod string          `json:"payment_method"`
	Label         string          `json:"label"`
}

// Persister is the slice of the storage adapter the ledger needs.
type Persister interface {
	ReadLedger(ctx context.Context) ([]Entry, error)
	AppendLedgerEntry(ctx context.Context, e Entry) error
}

// Aggregate is a rollup of ledger lines.
type Aggregate struct {
	Qty     int             `json:"qty"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// Ledger is a pure append/query store. All business rules live in checkout;
// the ledger validates nothing. Safe for concurrent use: report reads run
// while checkouts append.
type Ledger struct {
	store Persister

	mu      sync.RWMutex
	entries []Entry
}

// New loads existing entries from the store in chronological order.
func New(ctx context.Context, store Persister) (*Ledger, error) {
	entries, err := store.ReadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return &Ledger{store: store, entries: entries}, nil
}

// Append persists one entry and adds it to the in-memory log. Only checkout
// calls this.
func (l *Ledger) Append(ctx context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.AppendLedgerEntry(ctx, e); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	l.entries = append(l.entries, e)
	return nil
}

// All returns every entry in insertion (chronological) order.
func (l *Ledger) All() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// SumBy sums line totals of entries matching pred.
func (l *Ledger) SumBy(pred func(Entry) bool) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range l.entries {
		if pred(e) {
			sum = sum.Add(e.LineTotal)
		}
	}
	return sum
}

// Totals returns overall revenue, profit and line count.
func (l *Ledger) Totals() Aggregate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	agg := Aggregate{Revenue: decimal.Zero, Profit: decimal.Zero}
	for _, e := range l.entries {
		agg.Qty += e.Qty
		agg.Revenue = agg.Revenue.Add(e.LineTotal)
		agg.Profit = agg.Profit.Add(e.Profit)
	}
	return agg
}

// ByCategory groups revenue/profit by category snapshot.
func (l *Ledger) ByCategory() map[string]Aggregate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.groupBy(func(e Entry) string { return e.Category })
}

// ByPaymentMethod groups revenue/profit by payment method.
func (l *Ledger) ByPaymentMethod() map[string]Aggregate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.groupBy(func(e Entry) string { return e.PaymentMethod })
}

func (l *Ledger) groupBy(key func(Entry) string) map[string]Aggregate {
	out := make(map[string]Aggregate)
	for _, e := range l.entries {
		k := key(e)
		agg, ok := out[k]
		if !ok {
			agg = Aggregate{Revenue: decimal.Zero, Profit: decimal.Zero}
		}
		agg.Qty += e.Qty
		agg.Revenue = agg.Revenue.Add(e.LineTotal)
		agg.Profit = agg.Profit.Add(e.Profit)
		out[k] = agg
	}
	return out
}

// ItemRank is one row of the top-items report.
type ItemRank struct {
	Name    string          `json:"name"`
	Qty     int             `json:"qty"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopItems returns the n best-selling items by quantity, ties broken by name
// so the order is stable.
func (l *Ledger) TopItems(n int) []ItemRank {
	l.mu.RLock()
	defer l.mu.RUnlock()
	byName := make(map[string]*ItemRank)
	for _, e := range l.entries {
		r, ok := byName[e.Name]
		if !ok {
			r = &ItemRank{Name: e.Name, Revenue: decimal.Zero}
			byName[e.Name] = r
		}
		r.Qty += e.Qty
		r.Revenue = r.Revenue.Add(e.LineTotal)
	}

	ranks := make([]ItemRank, 0, len(byName))
	for _, r := range byName {
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Qty != ranks[j].Qty {
			return ranks[i].Qty > ranks[j].Qty
		}
		return ranks[i].Name < ranks[j].Name
	})
	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}
