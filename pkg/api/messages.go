package api

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// CalculatorService

type GetDraftRequest struct{}

// DraftResponse is returned by every CalculatorService call that changes the draft.
type DraftResponse struct {
	Draft *Draft `json:"draft"`
}

type AddManualDocumentRequest struct {
	Name      string `json:"name"`
	PageCount int    `json:"page_count"`
}

type UpdatePageCountRequest struct {
	DocumentID string `json:"document_id"`
	PageCount  int    `json:"page_count"`
}

type RemoveDocumentRequest struct {
	DocumentID string `json:"document_id"`
}

type ClearDocumentsRequest struct{}

type SetPricePerPageRequest struct {
	PricePerPage float64 `json:"price_per_page"`
}

type SaveBatchRequest struct {
	// Payers names the people splitting the cost. Empty uses the server default list.
	Payers []string `json:"payers,omitempty"`
}

type SaveBatchResponse struct {
	Batch     *Batch         `json:"batch"`
	Documents []Document     `json:"documents"`
	Shares    []PaymentShare `json:"shares"`
}

type LoadBatchRequest struct {
	BatchID string `json:"batch_id"`
}

// PaymentService

type ListSharesRequest struct {
	BatchID string `json:"batch_id"`
}

// SharesResponse is returned by every PaymentService call scoped to one batch.
type SharesResponse struct {
	Batch    *Batch         `json:"batch"`
	Shares   []PaymentShare `json:"shares"`
	Progress Progress       `json:"progress"`
}

type AddPayerRequest struct {
	BatchID string `json:"batch_id"`
	Name    string `json:"name"`
}

type RemovePayerRequest struct {
	ShareID string `json:"share_id"`
}

type TogglePaidRequest struct {
	ShareID string `json:"share_id"`
}

type RecordPartialPaymentRequest struct {
	ShareID string  `json:"share_id"`
	Amount  float64 `json:"amount"`
}

type MarkAllPaidForPersonRequest struct {
	PersonName string `json:"person_name"`
}

type MarkAllPaidForPersonResponse struct {
	UpdatedShares int `json:"updated_shares"`
	// PaidBatchIDs lists batches promoted to PAID by this call.
	PaidBatchIDs []string `json:"paid_batch_ids"`
}

// HistoryService

type ListHistoryRequest struct{}

// HistoryEntry is one saved batch with its shares.
type HistoryEntry struct {
	Batch  *Batch         `json:"batch"`
	Shares []PaymentShare `json:"shares"`
}

type ListHistoryResponse struct {
	Entries        []HistoryEntry `json:"entries"`
	ShareTotals    ShareTotals    `json:"share_totals"`
	BatchTotals    BatchTotals    `json:"batch_totals"`
	UnpaidByPerson []UnpaidPerson `json:"unpaid_by_person"`
}

type DeleteBatchRequest struct {
	BatchID string `json:"batch_id"`
}

type DeleteBatchResponse struct{}

// Upload endpoint (plain HTTP, multipart)

type UploadResponse struct {
	Documents []Document     `json:"documents"`
	Estimates []EstimateInfo `json:"estimates"`
	Errors    []FileError    `json:"errors"`
	Draft     *Draft         `json:"draft"`
}
