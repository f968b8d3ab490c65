package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cafe404-pos/api/internal/cart"
	"github.com/cafe404-pos/api/internal/catalog"
	"github.com/cafe404-pos/api/internal/enum"
	"github.com/cafe404-pos/api/internal/kitchen"
	"github.com/cafe404-pos/api/internal/ledger"
	"github.com/cafe404-pos/api/internal/tables"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errors returned by checkout validation.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidPayment = errors.New("invalid payment method")
)

// InsufficientStockError reports the first cart line whose requested quantity
// exceeds available stock. Returned before any state is touched.
type InsufficientStockError struct {
	ItemID    string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

// PersistenceError reports a durable-write failure after validation passed,
// naming the mutation step that failed. The system may be partially applied;
// the log carries what was already committed.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure at %s: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Result summarizes a committed checkout. Ticket is the enqueued kitchen
// ticket in full, so displays receiving the broadcast need not re-fetch.
type Result struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	TicketID     uuid.UUID       `json:"ticket_id"`
	TicketNumber string          `json:"ticket_number"`
	Ticket       kitchen.Ticket  `json:"ticket"`
}

// Orchestrator turns a cart into a committed sale: stock decremented, ledger
// appended, kitchen ticket enqueued, table occupied, cart cleared. The four
// aggregates have no shared transaction primitive, so every line is validated
// against current stock before anything is mutated, and the whole sequence
// runs under one mutex so concurrent checkouts cannot both pass validation
// against stock that covers only one of them.
type Orchestrator struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	kitchen *kitchen.Queue
	tables  *tables.Registry
	taxRate decimal.Decimal

	mu sync.Mutex
}

// New wires the orchestrator to its four aggregates.
func New(cat *catalog.Catalog, led *ledger.Ledger, kit *kitchen.Queue, tab *tables.Registry, taxRate decimal.Decimal) *Orchestrator {
	return &Orchestrator{
		catalog: cat,
		ledger:  led,
		kitchen: kit,
		tables:  tab,
		taxRate: taxRate,
	}
}

// Checkout commits the cart as one sale. tableLabel is "" or
// enum.TakeawayLabel for takeaway orders; customer defaults to "Guest".
// Validation errors (ErrEmptyCart, *InsufficientStockError, table conflicts,
// ErrInvalidPayment) leave every aggregate untouched. A *PersistenceError
// means a write failed mid-sequence; the operator log carries the applied
// steps for reconciliation.
func (o *Orchestrator) Checkout(ctx context.Context, crt *cart.Cart, paymentMethod, tableLabel, customer string) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// --- Validate everything before mutating anything ---
	if crt.Len() == 0 {
		return nil, ErrEmptyCart
	}
	if !enum.IsValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayment, paymentMethod)
	}

	dineIn := tableLabel != "" && tableLabel != enum.TakeawayLabel
	if dineIn {
		tbl, err := o.tables.Get(tableLabel)
		if err != nil {
			return nil, err
		}
		if tbl.Status != enum.TableStatusEmpty {
			return nil, fmt.Errorf("%w: %s", tables.ErrOccupied, tableLabel)
		}
	}

	lines := crt.Lines()
	for _, l := range lines {
		it, err := o.catalog.Get(l.ItemID)
		if err != nil {
			return nil, err
		}
		if l.Qty > it.Stock {
			return nil, &InsufficientStockError{
				ItemID:    it.ID,
				Name:      it.Name,
				Requested: l.Qty,
				Available: it.Stock,
			}
		}
	}

	if customer == "" {
		customer = "Guest"
	}
	ticketLabel := tableLabel
	if !dineIn {
		ticketLabel = enum.TakeawayLabel
	}

	subtotal := crt.Subtotal()
	tax := crt.Tax(o.taxRate)
	total := crt.Total(o.taxRate)
	now := time.Now()
	ticketID := uuid.New()
	ticketNumber := o.kitchen.NextNumber()

	// --- Apply mutations in fixed order ---

	// a. Stock decrements. Validation already passed, so an error here is a
	// persistence failure, not an underflow.
	for i, l := range lines {
		if _, err := o.catalog.AdjustStock(ctx, l.ItemID, -l.Qty); err != nil {
			log.Printf("ERROR: checkout %s: stock decrement for %s failed after %d of %d lines applied; manual reconciliation required: %v",
				ticketNumber, l.ItemID, i, len(lines), err)
			return nil, &PersistenceError{Step: "stock decrement", Err: err}
		}
	}

	// b. Ledger rows, one per line.
	for i, l := range lines {
		qty := decimal.NewFromInt(int64(l.Qty))
		entry := ledger.Entry{
			ID:            uuid.New(),
			Timestamp:     now,
			ItemID:        l.ItemID,
			Name:          l.Name,
			Category:      l.Category,
			UnitPrice:     l.UnitPrice,
			CostPrice:     l.CostPrice,
			Qty:           l.Qty,
			LineTotal:     l.UnitPrice.Mul(qty),
			Profit:        l.UnitPrice.Sub(l.CostPrice).Mul(qty),
			PaymentMethod: paymentMethod,
			Label:         customer,
		}
		if err := o.ledger.Append(ctx, entry); err != nil {
			log.Printf("ERROR: checkout %s: ledger append for %s failed; stock already decremented for all %d lines, %d ledger rows written; manual reconciliation required: %v",
				ticketNumber, l.ItemID, len(lines), i, err)
			return nil, &PersistenceError{Step: "ledger append", Err: err}
		}
	}

	// c. Kitchen ticket.
	ticketLines := make([]kitchen.TicketLine, len(lines))
	for i, l := range lines {
		ticketLines[i] = kitchen.TicketLine{Name: l.Name, Qty: l.Qty}
	}
	ticket := kitchen.Ticket{
		ID:        ticketID,
		Number:    ticketNumber,
		Label:     ticketLabel,
		Lines:     ticketLines,
		Status:    enum.TicketStatusPending,
		CreatedAt: now,
	}
	if err := o.kitchen.Enqueue(ctx, ticket); err != nil {
		log.Printf("ERROR: checkout %s: ticket enqueue failed; stock and ledger already applied; manual reconciliation required: %v",
			ticketNumber, err)
		return nil, &PersistenceError{Step: "ticket enqueue", Err: err}
	}

	// d. Table occupancy, dine-in only.
	if dineIn {
		if _, err := o.tables.Occupy(ctx, tableLabel, ticketID); err != nil {
			log.Printf("ERROR: checkout %s: occupy table %s failed; stock, ledger and ticket already applied; manual reconciliation required: %v",
				ticketNumber, tableLabel, err)
			return nil, &PersistenceError{Step: "table occupy", Err: err}
		}
	}

	// e. Cart teardown.
	crt.Clear()

	log.Printf("checkout %s committed: %d lines, total %s (%s), label %s",
		ticketNumber, len(lines), total.StringFixed(0), paymentMethod, ticketLabel)

	return &Result{
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        total,
		TicketID:     ticketID,
		TicketNumber: ticketNumber,
		Ticket:       ticket,
	}, nil
}
