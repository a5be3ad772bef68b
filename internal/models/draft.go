package models

// DefaultPricePerPage is the price used when a user has no draft yet.
const DefaultPricePerPage = 2.00

// Draft is the uncommitted calculator state for one user.
// It is replaced as a whole on every change.
type Draft struct {
	Documents    []Document `json:"documents"`
	PricePerPage float64    `json:"price_per_page"`
	UpdatedAt    int64      `json:"updated_at"`
}

// NewDraft returns an empty draft at the given price.
func NewDraft(price float64) *Draft {
	return &Draft{Documents: []Document{}, PricePerPage: price}
}
