package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/internal/calculator"
	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage"
	"github.com/mmynk/pagetally/pkg/api"
)

// HistoryService implements the HistoryService RPC interface.
type HistoryService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(store storage.Store, logger *slog.Logger) *HistoryService {
	return &HistoryService{store: store, logger: logger}
}

// loadHistory reads a user's batches (newest first) and all of their shares.
func loadHistory(ctx context.Context, store storage.Store, userID string) ([]models.Batch, []models.PaymentShare, error) {
	ptrs, err := store.ListBatchesByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	batches := make([]models.Batch, 0, len(ptrs))
	for _, b := range ptrs {
		batches = append(batches, *b)
	}
	shares, err := store.ListSharesByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return batches, shares, nil
}

// ListHistory returns every saved batch with its shares and the
// paid/unpaid rollups across them.
func (s *HistoryService) ListHistory(ctx context.Context, req *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ListHistory request", "user_id", userID)

	batches, shares, err := loadHistory(ctx, s.store, userID)
	if err != nil {
		return nil, storageError(s.logger, "Failed to load history", err)
	}

	byBatch := make(map[string][]models.PaymentShare, len(batches))
	for _, sh := range shares {
		byBatch[sh.BatchID] = append(byBatch[sh.BatchID], sh)
	}

	entries := make([]api.HistoryEntry, 0, len(batches))
	for i := range batches {
		entries = append(entries, api.HistoryEntry{
			Batch:  toAPIBatch(&batches[i]),
			Shares: toAPIShares(byBatch[batches[i].ID]),
		})
	}

	st := calculator.CalculateShareTotals(shares)
	bt := calculator.CalculateBatchTotals(batches)
	return connect.NewResponse(&api.ListHistoryResponse{
		Entries:        entries,
		ShareTotals:    api.ShareTotals{TotalPaid: st.TotalPaid, TotalUnpaid: st.TotalUnpaid},
		BatchTotals:    api.BatchTotals{TotalPaid: bt.TotalPaid, TotalUnpaid: bt.TotalUnpaid, TotalAmount: bt.TotalAmount},
		UnpaidByPerson: toAPIUnpaid(calculator.UnpaidByPerson(batches, shares)),
	}), nil
}

// DeleteBatch removes a saved batch with its documents and shares.
func (s *HistoryService) DeleteBatch(ctx context.Context, req *connect.Request[api.DeleteBatchRequest]) (*connect.Response[api.DeleteBatchResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteBatch request", "user_id", userID, "batch_id", req.Msg.BatchID)

	batch, err := ownedBatch(ctx, s.store, s.logger, userID, req.Msg.BatchID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteBatch(ctx, batch.ID); err != nil {
		return nil, storageError(s.logger, "Failed to delete batch", err)
	}
	return connect.NewResponse(&api.DeleteBatchResponse{}), nil
}
