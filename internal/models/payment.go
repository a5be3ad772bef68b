package models

// PaymentShare is one payer's portion of a batch's total cost.
//
// AmountToPay is a running balance: redistribution overwrites it with an even
// split, partial payments reduce it, and it may go negative on overpayment.
type PaymentShare struct {
	// ID is the unique identifier for the share (UUID format).
	ID string

	// BatchID is the batch this share belongs to.
	BatchID string

	// PersonName is unique per batch, compared case-insensitively.
	PersonName string

	AmountToPay float64
	IsPaid      bool

	// CreatedAt is the Unix timestamp when the share was created.
	CreatedAt int64
}
