package calculator

import "github.com/mmynk/pagetally/internal/models"

// Summary holds aggregate totals over a set of documents.
type Summary struct {
	TotalDocuments int
	TotalPages     int
	TotalCost      float64
}

// DocumentCost returns the cost of a document with the given page count.
func DocumentCost(pageCount int, pricePerPage float64) float64 {
	return mul(pageCount, pricePerPage)
}

// Summarize folds documents into totals.
// TotalCost is recomputed from page counts and the current price, so stale
// per-document costs never leak into the total.
func Summarize(docs []models.Document, pricePerPage float64) Summary {
	var s Summary
	costs := make([]float64, 0, len(docs))
	for _, d := range docs {
		s.TotalDocuments++
		s.TotalPages += d.PageCount
		costs = append(costs, DocumentCost(d.PageCount, pricePerPage))
	}
	s.TotalCost = sum(costs...)
	return s
}

// Reprice returns a copy of docs with every cost recomputed at pricePerPage.
func Reprice(docs []models.Document, pricePerPage float64) []models.Document {
	out := make([]models.Document, len(docs))
	for i, d := range docs {
		d.Cost = DocumentCost(d.PageCount, pricePerPage)
		out[i] = d
	}
	return out
}
