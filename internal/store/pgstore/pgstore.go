// Package pgstore is the PostgreSQL persistence adapter. It implements the
// same component persister interfaces as memstore, so the two are
// interchangeable behind the aggregates.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/cafe404-pos/api/internal/kitchen"
	"github.com/cafe404-pos/api/internal/ledger"
	"github.com/cafe404-pos/api/internal/tables"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists through a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool. The caller owns the pool's lifecycle.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) ReadMenu(ctx context.Context) ([]catalog.MenuItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, price, cost_price, category, stock
		 FROM menu_items
		 ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query menu_items: %w", err)
	}
	defer rows.Close()

	var out []catalog.MenuItem
	for rows.Next() {
		var it catalog.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.CostPrice, &it.Category, &it.Stock); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) WriteMenuItem(ctx context.Context, item catalog.MenuItem) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO menu_items (id, name, price, cost_price, category, stock)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name,
		     price = EXCLUDED.price,
		     cost_price = EXCLUDED.cost_price,
		     category = EXCLUDED.category,
		     stock = EXCLUDED.stock`,
		item.ID, item.Name, item.Price, item.CostPrice, item.Category, item.Stock)
	if err != nil {
		return fmt.Errorf("upsert menu item %s: %w", item.ID, err)
	}
	return nil
}

func (s *Store) ReadLedger(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, ts, item_id, name, category, unit_price, cost_price,
		        qty, line_total, profit, payment_method, label
		 FROM ledger_entries
		 ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query ledger_entries: %w", err)
	}
	defer rows.Close()

	var out []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ItemID, &e.Name, &e.Category,
			&e.UnitPrice, &e.CostPrice, &e.Qty, &e.LineTotal, &e.Profit,
			&e.PaymentMethod, &e.Label); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) AppendLedgerEntry(ctx context.Context, e ledger.Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ledger_entries
		     (id, ts, item_id, name, category, unit_price, cost_price,
		      qty, line_total, profit, payment_method, label)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.Timestamp, e.ItemID, e.Name, e.Category, e.UnitPrice, e.CostPrice,
		e.Qty, e.LineTotal, e.Profit, e.PaymentMethod, e.Label)
	if err != nil {
		return fmt.Errorf("insert ledger entry %s: %w", e.ID, err)
	}
	return nil
}

func (s *Store) ReadKitchenQueue(ctx context.Context) ([]kitchen.Ticket, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, number, label, lines, status, created_at
		 FROM kitchen_tickets
		 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query kitchen_tickets: %w", err)
	}
	defer rows.Close()

	var out []kitchen.Ticket
	for rows.Next() {
		var (
			t     kitchen.Ticket
			lines []byte
		)
		if err := rows.Scan(&t.ID, &t.Number, &t.Label, &lines, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan kitchen ticket: %w", err)
		}
		if err := json.Unmarshal(lines, &t.Lines); err != nil {
			return nil, fmt.Errorf("decode ticket %s lines: %w", t.Number, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) WriteKitchenTicket(ctx context.Context, t kitchen.Ticket) error {
	lines, err := json.Marshal(t.Lines)
	if err != nil {
		return fmt.Errorf("encode ticket %s lines: %w", t.Number, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO kitchen_tickets (id, number, label, lines, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET status = EXCLUDED.status`,
		t.ID, t.Number, t.Label, lines, t.Status, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert kitchen ticket %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) DeleteKitchenTicket(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM kitchen_tickets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete kitchen ticket %s: %w", id, err)
	}
	return nil
}

func (s *Store) ReadTables(ctx context.Context) ([]tables.Table, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, status, ticket_id FROM table_states`)
	if err != nil {
		return nil, fmt.Errorf("query table_states: %w", err)
	}
	defer rows.Close()

	var out []tables.Table
	for rows.Next() {
		var t tables.Table
		if err := rows.Scan(&t.ID, &t.Status, &t.TicketID); err != nil {
			return nil, fmt.Errorf("scan table state: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) WriteTableState(ctx context.Context, t tables.Table) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO table_states (id, status, ticket_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET status = EXCLUDED.status,
		     ticket_id = EXCLUDED.ticket_id`,
		t.ID, t.Status, t.TicketID)
	if err != nil {
		return fmt.Errorf("upsert table state %s: %w", t.ID, err)
	}
	return nil
}
