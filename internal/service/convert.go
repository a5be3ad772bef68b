package service

import (
	"github.com/mmynk/pagetally/internal/calculator"
	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// ToAPIDocuments converts domain documents to their wire form.
func ToAPIDocuments(docs []models.Document) []api.Document {
	out := make([]api.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, api.Document{
			ID:         d.ID,
			BatchID:    d.BatchID,
			Name:       d.Name,
			PageCount:  d.PageCount,
			Cost:       d.Cost,
			UploadDate: d.UploadDate,
			SourceKind: string(d.Source),
		})
	}
	return out
}

// ToAPIDraft converts a draft and attaches its freshly computed summary.
func ToAPIDraft(d *models.Draft) *api.Draft {
	s := calculator.Summarize(d.Documents, d.PricePerPage)
	return &api.Draft{
		Documents:    ToAPIDocuments(d.Documents),
		PricePerPage: d.PricePerPage,
		Summary: api.Summary{
			TotalDocuments: s.TotalDocuments,
			TotalPages:     s.TotalPages,
			TotalCost:      s.TotalCost,
		},
		UpdatedAt: d.UpdatedAt,
	}
}

func toAPIBatch(b *models.Batch) *api.Batch {
	return &api.Batch{
		ID:             b.ID,
		TotalDocuments: b.TotalDocuments,
		TotalPages:     b.TotalPages,
		TotalCost:      b.TotalCost,
		PricePerPage:   b.PricePerPage,
		PaymentStatus:  string(b.PaymentStatus),
		CreatedAt:      b.CreatedAt,
	}
}

func toAPIShares(shares []models.PaymentShare) []api.PaymentShare {
	out := make([]api.PaymentShare, 0, len(shares))
	for _, s := range shares {
		out = append(out, api.PaymentShare{
			ID:          s.ID,
			BatchID:     s.BatchID,
			PersonName:  s.PersonName,
			AmountToPay: s.AmountToPay,
			IsPaid:      s.IsPaid,
			CreatedAt:   s.CreatedAt,
		})
	}
	return out
}

func toAPIProgress(p calculator.Progress) api.Progress {
	return api.Progress{
		TotalPaid:      p.TotalPaid,
		TotalRemaining: p.TotalRemaining,
		PercentPaid:    p.PercentPaid,
	}
}

func toAPIUnpaid(people []calculator.UnpaidPerson) []api.UnpaidPerson {
	out := make([]api.UnpaidPerson, 0, len(people))
	for _, p := range people {
		batches := make([]api.UnpaidBatch, 0, len(p.Batches))
		for _, b := range p.Batches {
			batches = append(batches, api.UnpaidBatch{
				BatchID:   b.BatchID,
				ShareID:   b.ShareID,
				Amount:    b.Amount,
				CreatedAt: b.CreatedAt,
			})
		}
		out = append(out, api.UnpaidPerson{
			Name:        p.Name,
			TotalUnpaid: p.TotalUnpaid,
			Batches:     batches,
		})
	}
	return out
}
