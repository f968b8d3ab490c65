// Package memstore is the in-memory persistence adapter. It is the reference
// backend for development and tests; pgstore is the durable one. Writes are
// trivially "durable" for the lifetime of the process.
package memstore

import (
	"context"
	"sync"

	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/cafe404-pos/api/internal/kitchen"
	"github.com/cafe404-pos/api/internal/ledger"
	"github.com/cafe404-pos/api/internal/tables"
	"github.com/google/uuid"
)

// Store implements every component's persister interface over process-local
// maps. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	menu    []catalog.MenuItem
	entries []ledger.Entry
	tickets []kitchen.Ticket
	tables  map[string]tables.Table
}

// New creates an empty store.
func New() *Store {
	return &Store{tables: make(map[string]tables.Table)}
}

// NewWithMenu creates a store pre-populated with menu items, for seeding and
// tests.
func NewWithMenu(items []catalog.MenuItem) *Store {
	s := New()
	s.menu = append(s.menu, items...)
	return s
}

func (s *Store) ReadMenu(ctx context.Context) ([]catalog.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.MenuItem, len(s.menu))
	copy(out, s.menu)
	return out, nil
}

func (s *Store) WriteMenuItem(ctx context.Context, item catalog.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.menu {
		if s.menu[i].ID == item.ID {
			s.menu[i] = item
			return nil
		}
	}
	s.menu = append(s.menu, item)
	return nil
}

func (s *Store) ReadLedger(ctx context.Context) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Store) AppendLedgerEntry(ctx context.Context, e ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *Store) ReadKitchenQueue(ctx context.Context) ([]kitchen.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]kitchen.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out, nil
}

func (s *Store) WriteKitchenTicket(ctx context.Context, t kitchen.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID == t.ID {
			s.tickets[i] = t
			return nil
		}
	}
	s.tickets = append(s.tickets, t)
	return nil
}

func (s *Store) DeleteKitchenTicket(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) ReadTables(ctx context.Context) ([]tables.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tables.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) WriteTableState(ctx context.Context, t tables.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
	return nil
}
