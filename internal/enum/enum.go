package enum

// ── State machines ──

const (
	TicketStatusPending = "PENDING"
	TicketStatusCooking = "COOKING"
	TicketStatusServed  = "SERVED"
)

const (
	TableStatusEmpty    = "EMPTY"
	TableStatusOccupied = "OCCUPIED"
)

// ── Configurable labels ──

const (
	CategoryMinuman = "MINUMAN"
	CategoryMakanan = "MAKANAN"
	CategorySnack   = "SNACK"
)

const (
	PaymentMethodCash = "CASH"
	PaymentMethodQRIS = "QRIS"
)

// TakeawayLabel is the reserved order label for orders without a table.
const TakeawayLabel = "takeaway"

// IsValidCategory reports whether s is one of the fixed menu categories.
func IsValidCategory(s string) bool {
	switch s {
	case CategoryMinuman, CategoryMakanan, CategorySnack:
		return true
	}
	return false
}

// IsValidPaymentMethod reports whether s is an accepted payment method.
func IsValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodQRIS:
		return true
	}
	return false
}
