package api

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

// Document is one priced document in a draft or saved batch.
type Document struct {
	ID         string  `json:"id"`
	BatchID    string  `json:"batch_id,omitempty"`
	Name       string  `json:"name"`
	PageCount  int     `json:"page_count"`
	Cost       float64 `json:"cost"`
	UploadDate int64   `json:"upload_date"`
	SourceKind string  `json:"source_kind"`
}

// Summary holds aggregate totals over a set of documents.
type Summary struct {
	TotalDocuments int     `json:"total_documents"`
	TotalPages     int     `json:"total_pages"`
	TotalCost      float64 `json:"total_cost"`
}

// Draft is the user's uncommitted calculator state.
type Draft struct {
	Documents    []Document `json:"documents"`
	PricePerPage float64    `json:"price_per_page"`
	Summary      Summary    `json:"summary"`
	UpdatedAt    int64      `json:"updated_at"`
}

// Batch is a saved calculation.
type Batch struct {
	ID             string  `json:"id"`
	TotalDocuments int     `json:"total_documents"`
	TotalPages     int     `json:"total_pages"`
	TotalCost      float64 `json:"total_cost"`
	PricePerPage   float64 `json:"price_per_page"`
	PaymentStatus  string  `json:"payment_status"`
	CreatedAt      int64   `json:"created_at"`
}

// PaymentShare is one payer's running balance on a batch.
type PaymentShare struct {
	ID          string  `json:"id"`
	BatchID     string  `json:"batch_id"`
	PersonName  string  `json:"person_name"`
	AmountToPay float64 `json:"amount_to_pay"`
	IsPaid      bool    `json:"is_paid"`
	CreatedAt   int64   `json:"created_at"`
}

// Progress describes how much of a batch's total has been paid.
type Progress struct {
	TotalPaid      float64 `json:"total_paid"`
	TotalRemaining float64 `json:"total_remaining"`
	PercentPaid    float64 `json:"percent_paid"`
}

// ShareTotals sums share balances by payment state.
type ShareTotals struct {
	TotalPaid   float64 `json:"total_paid"`
	TotalUnpaid float64 `json:"total_unpaid"`
}

// BatchTotals sums batch costs by batch status.
type BatchTotals struct {
	TotalPaid   float64 `json:"total_paid"`
	TotalUnpaid float64 `json:"total_unpaid"`
	TotalAmount float64 `json:"total_amount"`
}

// UnpaidBatch is one batch contributing to a person's unpaid total.
type UnpaidBatch struct {
	BatchID   string  `json:"batch_id"`
	ShareID   string  `json:"share_id"`
	Amount    float64 `json:"amount"`
	CreatedAt int64   `json:"created_at"`
}

// UnpaidPerson rolls up one person's unpaid shares across batches.
type UnpaidPerson struct {
	Name        string        `json:"name"`
	TotalUnpaid float64       `json:"total_unpaid"`
	Batches     []UnpaidBatch `json:"batches"`
}

// FileError reports an uploaded file that could not be processed.
type FileError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// EstimateInfo describes how an uploaded document's page count was derived.
type EstimateInfo struct {
	DocumentID string `json:"document_id"`
	Format     string `json:"format"`
	Method     string `json:"method"`
	MIMEType   string `json:"mime_type"`
}
