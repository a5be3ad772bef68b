package calculator

import (
	"errors"
	"strings"

	"github.com/mmynk/pagetally/internal/models"
)

var (
	ErrEmptyName      = errors.New("please enter a name")
	ErrDuplicatePayer = errors.New("this person is already in the list")
)

// AmountPerPayer returns the even share of totalCost for count payers,
// rounded to 2 decimal places. Zero payers owe nothing.
func AmountPerPayer(totalCost float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return Round2(totalCost / float64(count))
}

// Redistribute overwrites every share's AmountToPay with an even split of
// totalCost. IsPaid is left as-is even though the amount owed changes.
func Redistribute(shares []models.PaymentShare, totalCost float64) []models.PaymentShare {
	out := make([]models.PaymentShare, len(shares))
	if len(shares) == 0 {
		return out
	}
	amount := AmountPerPayer(totalCost, len(shares))
	for i, s := range shares {
		s.AmountToPay = amount
		out[i] = s
	}
	return out
}

// NormalizeName trims a payer name for storage and comparison.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// HasPayer reports whether name is already taken, ignoring case and
// surrounding whitespace.
func HasPayer(shares []models.PaymentShare, name string) bool {
	name = NormalizeName(name)
	for _, s := range shares {
		if strings.EqualFold(NormalizeName(s.PersonName), name) {
			return true
		}
	}
	return false
}

// ValidatePayerName rejects empty names and names already in shares.
func ValidatePayerName(shares []models.PaymentShare, name string) error {
	if NormalizeName(name) == "" {
		return ErrEmptyName
	}
	if HasPayer(shares, name) {
		return ErrDuplicatePayer
	}
	return nil
}

// AddPayer appends a new unpaid share for name and redistributes totalCost
// across the full set. On validation failure shares is returned untouched.
func AddPayer(name string, shares []models.PaymentShare, totalCost float64, newShare models.PaymentShare) ([]models.PaymentShare, error) {
	if err := ValidatePayerName(shares, name); err != nil {
		return shares, err
	}
	newShare.PersonName = NormalizeName(name)
	newShare.IsPaid = false

	next := make([]models.PaymentShare, 0, len(shares)+1)
	next = append(next, shares...)
	next = append(next, newShare)
	return Redistribute(next, totalCost), nil
}

// RemovePayer drops the share with the given ID and redistributes totalCost
// across the remaining shares.
func RemovePayer(id string, shares []models.PaymentShare, totalCost float64) []models.PaymentShare {
	remaining := make([]models.PaymentShare, 0, len(shares))
	for _, s := range shares {
		if s.ID != id {
			remaining = append(remaining, s)
		}
	}
	return Redistribute(remaining, totalCost)
}

// RecordPartialPayment reduces the share's running balance by amountPaid.
// Overpayment leaves a negative balance, which is kept as a credit.
func RecordPartialPayment(share models.PaymentShare, amountPaid float64) models.PaymentShare {
	share.AmountToPay = Round2(sum(share.AmountToPay, -amountPaid))
	share.IsPaid = share.AmountToPay <= 0
	return share
}

// TogglePaid flips IsPaid without touching the amount.
func TogglePaid(share models.PaymentShare) models.PaymentShare {
	share.IsPaid = !share.IsPaid
	return share
}
