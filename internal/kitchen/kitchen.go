package kitchen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cafe404-pos/api/internal/enum"
	"github.com/google/uuid"
)

// Errors returned by the kitchen queue.
var (
	ErrNotFound      = errors.New("ticket not found")
	ErrBadTransition = errors.New("invalid ticket transition")
)

// TicketLine is one (item name, quantity) snapshot on a ticket.
type TicketLine struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Ticket is a preparation work item for one completed checkout.
type Ticket struct {
	ID        uuid.UUID    `json:"id"`
	Number    string       `json:"number"`
	Label     string       `json:"label"`
	Lines     []TicketLine `json:"lines"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Persister is the slice of the storage adapter the queue needs.
type Persister interface {
	ReadKitchenQueue(ctx context.Context) ([]Ticket, error)
	WriteKitchenTicket(ctx context.Context, t Ticket) error
	DeleteKitchenTicket(ctx context.Context, id uuid.UUID) error
}

// allowedTransitions defines the forward-only ticket state machine.
var allowedTransitions = map[string]string{
	enum.TicketStatusPending: enum.TicketStatusCooking,
	enum.TicketStatusCooking: enum.TicketStatusServed,
}

// Queue holds active tickets in creation order. Served tickets leave the
// queue; archival is not kept here. Safe for concurrent use: displays poll
// while checkouts enqueue and staff advance.
type Queue struct {
	store Persister

	mu    sync.RWMutex
	order []uuid.UUID
	byID  map[uuid.UUID]*Ticket
	seq   int
}

// New loads the active queue from the store. The human-readable ticket
// sequence resumes past the highest loaded number.
func New(ctx context.Context, store Persister) (*Queue, error) {
	tickets, err := store.ReadKitchenQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("read kitchen queue: %w", err)
	}

	q := &Queue{
		store: store,
		byID:  make(map[uuid.UUID]*Ticket, len(tickets)),
	}
	for i := range tickets {
		t := tickets[i]
		q.order = append(q.order, t.ID)
		q.byID[t.ID] = &t
		var n int
		if _, err := fmt.Sscanf(t.Number, "TKT-%d", &n); err == nil && n > q.seq {
			q.seq = n
		}
	}
	return q, nil
}

// NextNumber returns the next human-readable ticket number.
func (q *Queue) NextNumber() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	return fmt.Sprintf("TKT-%03d", q.seq)
}

// Enqueue adds a new ticket and persists it. Only checkout calls this.
func (q *Queue) Enqueue(ctx context.Context, t Ticket) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.store.WriteKitchenTicket(ctx, t); err != nil {
		return fmt.Errorf("write ticket %s: %w", t.Number, err)
	}
	q.order = append(q.order, t.ID)
	q.byID[t.ID] = &t
	return nil
}

// Get returns the active ticket with the given ID.
func (q *Queue) Get(id uuid.UUID) (Ticket, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	t, ok := q.byID[id]
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *t, nil
}

// Active returns the active tickets in creation order.
func (q *Queue) Active() []Ticket {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Ticket, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, *q.byID[id])
	}
	return out
}

// Advance moves a ticket to next. Transitions are staff-triggered and
// monotonic: only the single forward step from the current state is valid.
// Reaching SERVED removes the ticket from the active queue.
func (q *Queue) Advance(ctx context.Context, id uuid.UUID, next string) (Ticket, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	t, ok := q.byID[id]
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	allowed, ok := allowedTransitions[t.Status]
	if !ok || allowed != next {
		return Ticket{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, t.Status, next)
	}

	if next == enum.TicketStatusServed {
		if err := q.store.DeleteKitchenTicket(ctx, id); err != nil {
			return Ticket{}, fmt.Errorf("delete ticket %s: %w", t.Number, err)
		}
		t.Status = next
		served := *t
		delete(q.byID, id)
		for i, oid := range q.order {
			if oid == id {
				q.order = append(q.order[:i], q.order[i+1:]...)
				break
			}
		}
		return served, nil
	}

	updated := *t
	updated.Status = next
	if err := q.store.WriteKitchenTicket(ctx, updated); err != nil {
		return Ticket{}, fmt.Errorf("write ticket %s: %w", t.Number, err)
	}
	*t = updated
	return updated, nil
}
