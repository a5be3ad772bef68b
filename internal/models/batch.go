package models

// PaymentStatus is the settlement state of a saved batch.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusPaid    PaymentStatus = "PAID"
)

// Batch represents one saved calculation.
// Totals are sums over the batch's documents at save time.
type Batch struct {
	// ID is the unique identifier for the batch (UUID format).
	ID string

	// UserID is the owner of the batch.
	UserID string

	TotalDocuments int
	TotalPages     int
	TotalCost      float64
	PricePerPage   float64

	// PaymentStatus becomes PAID once every share is paid and never reverts.
	PaymentStatus PaymentStatus

	// CreatedAt is the Unix timestamp when the batch was saved.
	CreatedAt int64
}
