package tables

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/cafe404-pos/api/internal/enum"
	"github.com/google/uuid"
)

// Errors returned by the table registry.
var (
	ErrNotFound    = errors.New("table not found")
	ErrOccupied    = errors.New("table is occupied")
	ErrNotOccupied = errors.New("table is not occupied")
)

// Table is one physical seat group. TicketID points at the occupying kitchen
// ticket while OCCUPIED, and is nil while EMPTY.
type Table struct {
	ID       string     `json:"id"`
	Status   string     `json:"status"`
	TicketID *uuid.UUID `json:"ticket_id,omitempty"`
}

// Persister is the slice of the storage adapter the registry needs.
type Persister interface {
	ReadTables(ctx context.Context) ([]Table, error)
	WriteTableState(ctx context.Context, t Table) error
}

// Registry tracks occupancy for the fixed table set "1"..N. Safe for
// concurrent use: checkout occupies while staff release and the floor map
// polls.
type Registry struct {
	store Persister

	mu    sync.RWMutex
	order []string
	byID  map[string]*Table
}

// New builds the registry for count tables, overlaying any persisted
// occupancy state.
func New(ctx context.Context, store Persister, count int) (*Registry, error) {
	r := &Registry{
		store: store,
		byID:  make(map[string]*Table, count),
	}
	for i := 1; i <= count; i++ {
		id := strconv.Itoa(i)
		r.order = append(r.order, id)
		r.byID[id] = &Table{ID: id, Status: enum.TableStatusEmpty}
	}

	persisted, err := store.ReadTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	for _, t := range persisted {
		if cur, ok := r.byID[t.ID]; ok {
			*cur = t
		}
	}
	return r, nil
}

// Get returns the table with the given ID.
func (r *Registry) Get(id string) (Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *t, nil
}

// List returns all tables in fixed order.
func (r *Registry) List() []Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Table, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// Occupy transitions a table EMPTY -> OCCUPIED, associating the kitchen
// ticket. Only checkout calls this; an occupied table is refused rather than
// silently reassigned.
func (r *Registry) Occupy(ctx context.Context, id string, ticketID uuid.UUID) (Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if t.Status != enum.TableStatusEmpty {
		return Table{}, fmt.Errorf("%w: %s", ErrOccupied, id)
	}

	updated := Table{ID: id, Status: enum.TableStatusOccupied, TicketID: &ticketID}
	if err := r.store.WriteTableState(ctx, updated); err != nil {
		return Table{}, fmt.Errorf("write table %s: %w", id, err)
	}
	*t = updated
	return updated, nil
}

// Release transitions a table OCCUPIED -> EMPTY. Staff-triggered; the only
// precondition is the current state.
func (r *Registry) Release(ctx context.Context, id string) (Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if t.Status != enum.TableStatusOccupied {
		return Table{}, fmt.Errorf("%w: %s", ErrNotOccupied, id)
	}

	updated := Table{ID: id, Status: enum.TableStatusEmpty}
	if err := r.store.WriteTableState(ctx, updated); err != nil {
		return Table{}, fmt.Errorf("write table %s: %w", id, err)
	}
	*t = updated
	return updated, nil
}
