package calculator

import (
	"sort"

	"github.com/mmynk/pagetally/internal/models"
)

// Progress describes how much of a batch's total has been paid.
type Progress struct {
	TotalPaid      float64
	TotalRemaining float64 // Never negative
	PercentPaid    float64 // 0 when totalCost is 0
}

// ShareTotals splits outstanding amounts by payment state.
type ShareTotals struct {
	TotalPaid   float64 // Σ AmountToPay over paid shares
	TotalUnpaid float64 // Σ AmountToPay over unpaid shares
}

// BatchTotals splits batch costs by batch payment status.
type BatchTotals struct {
	TotalPaid   float64
	TotalUnpaid float64
	TotalAmount float64
}

// UnpaidBatch is one batch contributing to a person's unpaid total.
type UnpaidBatch struct {
	BatchID   string
	ShareID   string
	Amount    float64
	CreatedAt int64
}

// UnpaidPerson is the unpaid rollup for one person name across batches.
type UnpaidPerson struct {
	Name        string
	TotalUnpaid float64
	Batches     []UnpaidBatch
}

// CalculateProgress computes paid/remaining figures for a batch's shares.
func CalculateProgress(shares []models.PaymentShare, totalCost float64) Progress {
	var paid []float64
	for _, s := range shares {
		if s.IsPaid {
			paid = append(paid, s.AmountToPay)
		}
	}
	p := Progress{TotalPaid: sum(paid...)}
	p.TotalRemaining = sum(totalCost, -p.TotalPaid)
	if p.TotalRemaining < 0 {
		p.TotalRemaining = 0
	}
	if totalCost > 0 {
		p.PercentPaid = p.TotalPaid / totalCost * 100
	}
	return p
}

// CalculateShareTotals sums share balances by payment state.
func CalculateShareTotals(shares []models.PaymentShare) ShareTotals {
	var paid, unpaid []float64
	for _, s := range shares {
		if s.IsPaid {
			paid = append(paid, s.AmountToPay)
		} else {
			unpaid = append(unpaid, s.AmountToPay)
		}
	}
	return ShareTotals{TotalPaid: sum(paid...), TotalUnpaid: sum(unpaid...)}
}

// CalculateBatchTotals sums batch costs by batch payment status.
func CalculateBatchTotals(batches []models.Batch) BatchTotals {
	var paid, unpaid []float64
	for _, b := range batches {
		if b.PaymentStatus == models.StatusPaid {
			paid = append(paid, b.TotalCost)
		} else {
			unpaid = append(unpaid, b.TotalCost)
		}
	}
	t := BatchTotals{TotalPaid: sum(paid...), TotalUnpaid: sum(unpaid...)}
	t.TotalAmount = sum(t.TotalPaid, t.TotalUnpaid)
	return t
}

// UnpaidByPerson groups unpaid shares by person name across batches.
// Shares whose batch is not in batches are skipped. The result is sorted by
// total unpaid, largest first.
//
// Algorithm:
// - Index batches by ID
// - For each unpaid share: add its amount to the person's total and record the batch
// - Sort people by total unpaid descending (name breaks ties)
func UnpaidByPerson(batches []models.Batch, shares []models.PaymentShare) []UnpaidPerson {
	byID := make(map[string]models.Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}

	people := make(map[string]*UnpaidPerson)
	var order []string
	for _, s := range shares {
		if s.IsPaid {
			continue
		}
		batch, ok := byID[s.BatchID]
		if !ok {
			continue
		}

		person, exists := people[s.PersonName]
		if !exists {
			person = &UnpaidPerson{Name: s.PersonName}
			people[s.PersonName] = person
			order = append(order, s.PersonName)
		}
		person.TotalUnpaid = sum(person.TotalUnpaid, s.AmountToPay)
		person.Batches = append(person.Batches, UnpaidBatch{
			BatchID:   batch.ID,
			ShareID:   s.ID,
			Amount:    s.AmountToPay,
			CreatedAt: batch.CreatedAt,
		})
	}

	result := make([]UnpaidPerson, 0, len(order))
	for _, name := range order {
		result = append(result, *people[name])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalUnpaid != result[j].TotalUnpaid {
			return result[i].TotalUnpaid > result[j].TotalUnpaid
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// AllPaid reports whether a batch has shares and every one of them is paid.
func AllPaid(shares []models.PaymentShare) bool {
	if len(shares) == 0 {
		return false
	}
	for _, s := range shares {
		if !s.IsPaid {
			return false
		}
	}
	return true
}

// PromoteStatus returns PAID when every share is paid and the current
// status otherwise. A PAID batch is never demoted.
func PromoteStatus(current models.PaymentStatus, shares []models.PaymentShare) models.PaymentStatus {
	if AllPaid(shares) {
		return models.StatusPaid
	}
	return current
}
