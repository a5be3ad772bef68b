package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/pagetally/internal/calculator"
	"github.com/mmynk/pagetally/internal/drafts"
	"github.com/mmynk/pagetally/internal/estimator"
	"github.com/mmynk/pagetally/internal/metrics"
	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage"
	"github.com/mmynk/pagetally/pkg/api"
)

// CalculatorOptions configures defaults for new drafts and saved batches.
type CalculatorOptions struct {
	// DefaultPrice seeds drafts for users who have none. Zero means free printing.
	DefaultPrice float64
	// DefaultPayers are used by SaveBatch when the request names nobody.
	DefaultPayers []string
}

// CalculatorService implements the CalculatorService RPC interface.
// It owns the per-user draft and turns it into saved batches.
type CalculatorService struct {
	store  storage.Store
	drafts drafts.Store
	opts   CalculatorOptions
	logger *slog.Logger
}

// NewCalculatorService creates a new calculator service.
func NewCalculatorService(store storage.Store, draftStore drafts.Store, opts CalculatorOptions, logger *slog.Logger) *CalculatorService {
	return &CalculatorService{
		store:  store,
		drafts: draftStore,
		opts:   opts,
		logger: logger,
	}
}

// Draft returns the user's current draft, or a fresh one at the default price.
func (s *CalculatorService) Draft(ctx context.Context, userID string) (*models.Draft, error) {
	d, ok, err := s.drafts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.NewDraft(s.opts.DefaultPrice), nil
	}
	return d, nil
}

// AppendDocuments adds already-priced documents to the user's draft and
// returns the updated draft.
func (s *CalculatorService) AppendDocuments(ctx context.Context, userID string, docs []models.Document) (*models.Draft, error) {
	d, err := s.Draft(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.Documents = append(d.Documents, docs...)
	d.Documents = calculator.Reprice(d.Documents, d.PricePerPage)
	if err := s.putDraft(ctx, userID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CalculatorService) putDraft(ctx context.Context, userID string, d *models.Draft) error {
	d.UpdatedAt = time.Now().Unix()
	return s.drafts.Put(ctx, userID, d)
}

// mutate loads the draft, applies fn and stores the result.
func (s *CalculatorService) mutate(ctx context.Context, fn func(d *models.Draft) error) (*connect.Response[api.DraftResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.Draft(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load draft", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := s.putDraft(ctx, userID, d); err != nil {
		s.logger.Error("Failed to store draft", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.DraftResponse{Draft: ToAPIDraft(d)}), nil
}

// GetDraft returns the user's current draft with its summary.
func (s *CalculatorService) GetDraft(ctx context.Context, req *connect.Request[api.GetDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.Draft(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load draft", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.DraftResponse{Draft: ToAPIDraft(d)}), nil
}

// AddManualDocument adds a document whose page count was typed in.
func (s *CalculatorService) AddManualDocument(ctx context.Context, req *connect.Request[api.AddManualDocumentRequest]) (*connect.Response[api.DraftResponse], error) {
	s.logger.Info("AddManualDocument request", "name", req.Msg.Name, "page_count", req.Msg.PageCount)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("document name is required"))
	}
	if err := estimator.ValidateManualPageCount(req.Msg.PageCount); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	return s.mutate(ctx, func(d *models.Draft) error {
		d.Documents = append(d.Documents, models.Document{
			ID:         uuid.New().String(),
			Name:       name,
			PageCount:  req.Msg.PageCount,
			Cost:       calculator.DocumentCost(req.Msg.PageCount, d.PricePerPage),
			UploadDate: time.Now().Unix(),
			Source:     models.SourceManual,
		})
		return nil
	})
}

// UpdatePageCount overrides the page count of one draft document.
func (s *CalculatorService) UpdatePageCount(ctx context.Context, req *connect.Request[api.UpdatePageCountRequest]) (*connect.Response[api.DraftResponse], error) {
	if err := estimator.ValidateManualPageCount(req.Msg.PageCount); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	return s.mutate(ctx, func(d *models.Draft) error {
		docs := make([]models.Document, len(d.Documents))
		found := false
		for i, doc := range d.Documents {
			if doc.ID == req.Msg.DocumentID {
				doc.PageCount = req.Msg.PageCount
				doc.Cost = calculator.DocumentCost(doc.PageCount, d.PricePerPage)
				found = true
			}
			docs[i] = doc
		}
		if !found {
			return connect.NewError(connect.CodeNotFound, ErrDocumentMissing)
		}
		d.Documents = docs
		return nil
	})
}

// RemoveDocument drops one document from the draft.
func (s *CalculatorService) RemoveDocument(ctx context.Context, req *connect.Request[api.RemoveDocumentRequest]) (*connect.Response[api.DraftResponse], error) {
	return s.mutate(ctx, func(d *models.Draft) error {
		docs := make([]models.Document, 0, len(d.Documents))
		for _, doc := range d.Documents {
			if doc.ID != req.Msg.DocumentID {
				docs = append(docs, doc)
			}
		}
		if len(docs) == len(d.Documents) {
			return connect.NewError(connect.CodeNotFound, ErrDocumentMissing)
		}
		d.Documents = docs
		return nil
	})
}

// ClearDocuments empties the draft but keeps its price.
func (s *CalculatorService) ClearDocuments(ctx context.Context, req *connect.Request[api.ClearDocumentsRequest]) (*connect.Response[api.DraftResponse], error) {
	return s.mutate(ctx, func(d *models.Draft) error {
		d.Documents = []models.Document{}
		return nil
	})
}

// SetPricePerPage changes the price and reprices every draft document.
func (s *CalculatorService) SetPricePerPage(ctx context.Context, req *connect.Request[api.SetPricePerPageRequest]) (*connect.Response[api.DraftResponse], error) {
	if req.Msg.PricePerPage < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrNegativePrice)
	}

	return s.mutate(ctx, func(d *models.Draft) error {
		d.PricePerPage = req.Msg.PricePerPage
		d.Documents = calculator.Reprice(d.Documents, d.PricePerPage)
		return nil
	})
}

// SaveBatch persists the draft as a new batch with evenly split payer shares.
// Every save gets a fresh batch ID and fresh document IDs; the draft is kept.
func (s *CalculatorService) SaveBatch(ctx context.Context, req *connect.Request[api.SaveBatchRequest]) (*connect.Response[api.SaveBatchResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SaveBatch request", "user_id", userID, "payers", len(req.Msg.Payers))

	d, err := s.Draft(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load draft", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if len(d.Documents) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrNoDocuments)
	}

	now := time.Now().Unix()
	summary := calculator.Summarize(d.Documents, d.PricePerPage)
	batch := &models.Batch{
		ID:             uuid.New().String(),
		UserID:         userID,
		TotalDocuments: summary.TotalDocuments,
		TotalPages:     summary.TotalPages,
		TotalCost:      summary.TotalCost,
		PricePerPage:   d.PricePerPage,
		PaymentStatus:  models.StatusPending,
		CreatedAt:      now,
	}

	docs := calculator.Reprice(d.Documents, d.PricePerPage)
	for i := range docs {
		docs[i].ID = uuid.New().String()
		docs[i].BatchID = batch.ID
	}

	payers := req.Msg.Payers
	if len(payers) == 0 {
		payers = s.opts.DefaultPayers
	}
	shares := []models.PaymentShare{}
	for _, name := range payers {
		shares, err = calculator.AddPayer(name, shares, batch.TotalCost, models.PaymentShare{
			ID:        uuid.New().String(),
			BatchID:   batch.ID,
			CreatedAt: now,
		})
		if err != nil {
			return nil, payerError(err)
		}
	}

	if err := s.store.CreateBatch(ctx, batch, docs, shares); err != nil {
		return nil, storageError(s.logger, "Failed to save batch", err)
	}
	metrics.IncBatchSaved()

	s.logger.Info("Batch saved", "batch_id", batch.ID, "documents", batch.TotalDocuments, "total_cost", batch.TotalCost)
	return connect.NewResponse(&api.SaveBatchResponse{
		Batch:     toAPIBatch(batch),
		Documents: ToAPIDocuments(docs),
		Shares:    toAPIShares(shares),
	}), nil
}

// LoadBatch replaces the draft with a saved batch's documents and price.
// The draft is only touched once the batch has been read successfully.
func (s *CalculatorService) LoadBatch(ctx context.Context, req *connect.Request[api.LoadBatchRequest]) (*connect.Response[api.DraftResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("LoadBatch request", "user_id", userID, "batch_id", req.Msg.BatchID)

	batch, err := ownedBatch(ctx, s.store, s.logger, userID, req.Msg.BatchID)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.ListDocuments(ctx, batch.ID)
	if err != nil {
		return nil, storageError(s.logger, "Failed to load documents", err)
	}

	d := models.NewDraft(batch.PricePerPage)
	d.Documents = append(d.Documents, docs...)
	if err := s.putDraft(ctx, userID, d); err != nil {
		s.logger.Error("Failed to store draft", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.DraftResponse{Draft: ToAPIDraft(d)}), nil
}
