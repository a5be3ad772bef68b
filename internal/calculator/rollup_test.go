package calculator

import (
	"testing"

	"github.com/mmynk/pagetally/internal/models"
)

func TestCalculateProgress(t *testing.T) {
	tests := []struct {
		name          string
		shares        []models.PaymentShare
		totalCost     float64
		wantPaid      float64
		wantRemaining float64
		wantPercent   float64
	}{
		{
			name: "half paid",
			shares: []models.PaymentShare{
				{AmountToPay: 35, IsPaid: true},
				{AmountToPay: 35},
			},
			totalCost:     70,
			wantPaid:      35,
			wantRemaining: 35,
			wantPercent:   50,
		},
		{
			name:          "zero cost has zero percent",
			shares:        []models.PaymentShare{{AmountToPay: 0, IsPaid: true}},
			totalCost:     0,
			wantPaid:      0,
			wantRemaining: 0,
			wantPercent:   0,
		},
		{
			name: "remaining never negative",
			shares: []models.PaymentShare{
				{AmountToPay: 60, IsPaid: true},
				{AmountToPay: 60, IsPaid: true},
			},
			totalCost:     100,
			wantPaid:      120,
			wantRemaining: 0,
			wantPercent:   120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateProgress(tt.shares, tt.totalCost)
			if got.TotalPaid != tt.wantPaid {
				t.Errorf("TotalPaid = %v, want %v", got.TotalPaid, tt.wantPaid)
			}
			if got.TotalRemaining != tt.wantRemaining {
				t.Errorf("TotalRemaining = %v, want %v", got.TotalRemaining, tt.wantRemaining)
			}
			if got.PercentPaid != tt.wantPercent {
				t.Errorf("PercentPaid = %v, want %v", got.PercentPaid, tt.wantPercent)
			}
		})
	}
}

func TestCalculateShareTotals(t *testing.T) {
	got := CalculateShareTotals([]models.PaymentShare{
		{AmountToPay: 17.5, IsPaid: true},
		{AmountToPay: 17.5},
		{AmountToPay: 15},
		{AmountToPay: -2, IsPaid: true},
	})
	if got.TotalPaid != 15.5 {
		t.Errorf("TotalPaid = %v, want 15.5", got.TotalPaid)
	}
	if got.TotalUnpaid != 32.5 {
		t.Errorf("TotalUnpaid = %v, want 32.5", got.TotalUnpaid)
	}
}

func TestCalculateBatchTotals(t *testing.T) {
	got := CalculateBatchTotals([]models.Batch{
		{TotalCost: 70, PaymentStatus: models.StatusPaid},
		{TotalCost: 30, PaymentStatus: models.StatusPending},
		{TotalCost: 0.1, PaymentStatus: models.StatusPending},
	})
	if got.TotalPaid != 70 || got.TotalUnpaid != 30.1 || got.TotalAmount != 100.1 {
		t.Errorf("unexpected totals %+v", got)
	}
}

func TestUnpaidByPerson(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", CreatedAt: 100},
		{ID: "b2", CreatedAt: 200},
	}
	shares := []models.PaymentShare{
		{ID: "s1", BatchID: "b1", PersonName: "Alice", AmountToPay: 10},
		{ID: "s2", BatchID: "b2", PersonName: "Alice", AmountToPay: 5},
		{ID: "s3", BatchID: "b1", PersonName: "Bob", AmountToPay: 10, IsPaid: true},
		{ID: "s4", BatchID: "b2", PersonName: "Bob", AmountToPay: 20},
		{ID: "s5", BatchID: "missing", PersonName: "Carol", AmountToPay: 99},
	}

	got := UnpaidByPerson(batches, shares)
	if len(got) != 2 {
		t.Fatalf("expected 2 people, got %d: %+v", len(got), got)
	}

	bob := got[0]
	if bob.Name != "Bob" || bob.TotalUnpaid != 20 || len(bob.Batches) != 1 {
		t.Errorf("unexpected first entry %+v", bob)
	}
	if bob.Batches[0].ShareID != "s4" || bob.Batches[0].CreatedAt != 200 {
		t.Errorf("unexpected Bob batch %+v", bob.Batches[0])
	}

	alice := got[1]
	if alice.Name != "Alice" || alice.TotalUnpaid != 15 || len(alice.Batches) != 2 {
		t.Errorf("unexpected second entry %+v", alice)
	}
}

func TestPromoteStatus(t *testing.T) {
	tests := []struct {
		name    string
		current models.PaymentStatus
		shares  []models.PaymentShare
		want    models.PaymentStatus
	}{
		{
			name:    "all paid promotes",
			current: models.StatusPending,
			shares:  []models.PaymentShare{{IsPaid: true}, {IsPaid: true}},
			want:    models.StatusPaid,
		},
		{
			name:    "some unpaid stays pending",
			current: models.StatusPending,
			shares:  []models.PaymentShare{{IsPaid: true}, {IsPaid: false}},
			want:    models.StatusPending,
		},
		{
			name:    "no shares stays pending",
			current: models.StatusPending,
			want:    models.StatusPending,
		},
		{
			name:    "paid never reverts",
			current: models.StatusPaid,
			shares:  []models.PaymentShare{{IsPaid: false}},
			want:    models.StatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PromoteStatus(tt.current, tt.shares); got != tt.want {
				t.Errorf("PromoteStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}
