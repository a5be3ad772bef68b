package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/pagetally/internal/calculator"
	"github.com/mmynk/pagetally/internal/metrics"
	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage"
	"github.com/mmynk/pagetally/pkg/api"
)

// PaymentService implements the PaymentService RPC interface.
//
// Share writes are issued one at a time without a transaction. A failure
// part-way leaves the earlier writes in place; the next read shows the
// stored state.
type PaymentService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(store storage.Store, logger *slog.Logger) *PaymentService {
	return &PaymentService{store: store, logger: logger}
}

// ListShares returns a batch's shares and payment progress.
func (s *PaymentService) ListShares(ctx context.Context, req *connect.Request[api.ListSharesRequest]) (*connect.Response[api.SharesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	batch, err := ownedBatch(ctx, s.store, s.logger, userID, req.Msg.BatchID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, batch)
}

// AddPayer adds a named payer to a batch and re-splits the total.
func (s *PaymentService) AddPayer(ctx context.Context, req *connect.Request[api.AddPayerRequest]) (*connect.Response[api.SharesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AddPayer request", "batch_id", req.Msg.BatchID, "name", req.Msg.Name)

	batch, err := ownedBatch(ctx, s.store, s.logger, userID, req.Msg.BatchID)
	if err != nil {
		return nil, err
	}
	shares, err := s.store.ListSharesByBatch(ctx, batch.ID)
	if err != nil {
		return nil, storageError(s.logger, "Failed to list shares", err)
	}

	next, err := calculator.AddPayer(req.Msg.Name, shares, batch.TotalCost, models.PaymentShare{
		ID:        uuid.New().String(),
		BatchID:   batch.ID,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return nil, payerError(err)
	}

	added := next[len(next)-1]
	if err := s.store.CreateShare(ctx, &added); err != nil {
		return nil, storageError(s.logger, "Failed to create share", err)
	}
	if err := s.writeAmounts(ctx, next[:len(next)-1]); err != nil {
		return nil, err
	}
	return s.settle(ctx, batch)
}

// RemovePayer deletes a share and re-splits the total across the rest.
func (s *PaymentService) RemovePayer(ctx context.Context, req *connect.Request[api.RemovePayerRequest]) (*connect.Response[api.SharesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("RemovePayer request", "share_id", req.Msg.ShareID)

	share, batch, err := s.ownedShare(ctx, userID, req.Msg.ShareID)
	if err != nil {
		return nil, err
	}
	shares, err := s.store.ListSharesByBatch(ctx, batch.ID)
	if err != nil {
		return nil, storageError(s.logger, "Failed to list shares", err)
	}

	if err := s.store.DeleteShare(ctx, share.ID); err != nil {
		return nil, storageError(s.logger, "Failed to delete share", err)
	}
	if err := s.writeAmounts(ctx, calculator.RemovePayer(share.ID, shares, batch.TotalCost)); err != nil {
		return nil, err
	}
	return s.settle(ctx, batch)
}

// TogglePaid flips one share's paid flag.
func (s *PaymentService) TogglePaid(ctx context.Context, req *connect.Request[api.TogglePaidRequest]) (*connect.Response[api.SharesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("TogglePaid request", "share_id", req.Msg.ShareID)

	share, batch, err := s.ownedShare(ctx, userID, req.Msg.ShareID)
	if err != nil {
		return nil, err
	}
	updated := calculator.TogglePaid(*share)
	if err := s.store.UpdateShare(ctx, &updated); err != nil {
		return nil, storageError(s.logger, "Failed to update share", err)
	}
	return s.settle(ctx, batch)
}

// RecordPartialPayment reduces a share's running balance.
func (s *PaymentService) RecordPartialPayment(ctx context.Context, req *connect.Request[api.RecordPartialPaymentRequest]) (*connect.Response[api.SharesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("RecordPartialPayment request", "share_id", req.Msg.ShareID, "amount", req.Msg.Amount)

	if req.Msg.Amount <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrInvalidAmount)
	}
	share, batch, err := s.ownedShare(ctx, userID, req.Msg.ShareID)
	if err != nil {
		return nil, err
	}
	updated := calculator.RecordPartialPayment(*share, req.Msg.Amount)
	if err := s.store.UpdateShare(ctx, &updated); err != nil {
		return nil, storageError(s.logger, "Failed to update share", err)
	}
	return s.settle(ctx, batch)
}

// MarkAllPaidForPerson marks every unpaid share held by a person, across all
// of the user's batches, as paid. Amounts are left unchanged.
func (s *PaymentService) MarkAllPaidForPerson(ctx context.Context, req *connect.Request[api.MarkAllPaidForPersonRequest]) (*connect.Response[api.MarkAllPaidForPersonResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name := calculator.NormalizeName(req.Msg.PersonName)
	s.logger.Info("MarkAllPaidForPerson request", "user_id", userID, "name", name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, calculator.ErrEmptyName)
	}

	batches, shares, err := loadHistory(ctx, s.store, userID)
	if err != nil {
		return nil, storageError(s.logger, "Failed to load history", err)
	}

	var person *calculator.UnpaidPerson
	unpaid := calculator.UnpaidByPerson(batches, shares)
	for i := range unpaid {
		if unpaid[i].Name == name {
			person = &unpaid[i]
			break
		}
	}
	if person == nil {
		return connect.NewResponse(&api.MarkAllPaidForPersonResponse{PaidBatchIDs: []string{}}), nil
	}

	byID := make(map[string]models.PaymentShare, len(shares))
	for _, sh := range shares {
		byID[sh.ID] = sh
	}
	resp := &api.MarkAllPaidForPersonResponse{PaidBatchIDs: []string{}}
	touched := make(map[string]bool)
	for _, b := range person.Batches {
		sh := byID[b.ShareID]
		sh.IsPaid = true
		if err := s.store.UpdateShare(ctx, &sh); err != nil {
			return nil, storageError(s.logger, "Failed to update share", err)
		}
		resp.UpdatedShares++
		touched[b.BatchID] = true
	}

	for i := range batches {
		if !touched[batches[i].ID] {
			continue
		}
		promoted, err := s.promote(ctx, &batches[i])
		if err != nil {
			return nil, err
		}
		if promoted {
			resp.PaidBatchIDs = append(resp.PaidBatchIDs, batches[i].ID)
		}
	}
	return connect.NewResponse(resp), nil
}

// ownedShare loads a share and its batch, checking ownership.
func (s *PaymentService) ownedShare(ctx context.Context, userID, shareID string) (*models.PaymentShare, *models.Batch, error) {
	share, err := s.store.GetShare(ctx, shareID)
	if err != nil {
		return nil, nil, storageError(s.logger, "Failed to load share", err)
	}
	batch, err := ownedBatch(ctx, s.store, s.logger, userID, share.BatchID)
	if err != nil {
		return nil, nil, err
	}
	return share, batch, nil
}

// writeAmounts stores each share's redistributed amount.
func (s *PaymentService) writeAmounts(ctx context.Context, shares []models.PaymentShare) error {
	for i := range shares {
		if err := s.store.UpdateShare(ctx, &shares[i]); err != nil {
			return storageError(s.logger, "Failed to update share", err)
		}
	}
	return nil
}

// promote re-runs the status check for a batch and stores a change.
// It reports whether the batch was promoted to PAID by this call.
func (s *PaymentService) promote(ctx context.Context, batch *models.Batch) (bool, error) {
	shares, err := s.store.ListSharesByBatch(ctx, batch.ID)
	if err != nil {
		return false, storageError(s.logger, "Failed to list shares", err)
	}
	next := calculator.PromoteStatus(batch.PaymentStatus, shares)
	if next == batch.PaymentStatus {
		return false, nil
	}
	if err := s.store.UpdateBatchStatus(ctx, batch.ID, next); err != nil {
		return false, storageError(s.logger, "Failed to update batch status", err)
	}
	batch.PaymentStatus = next
	metrics.IncBatchPaid()
	s.logger.Info("Batch fully paid", "batch_id", batch.ID)
	return true, nil
}

// settle promotes the batch if needed and returns its current shares.
func (s *PaymentService) settle(ctx context.Context, batch *models.Batch) (*connect.Response[api.SharesResponse], error) {
	if _, err := s.promote(ctx, batch); err != nil {
		return nil, err
	}
	return s.respond(ctx, batch)
}

func (s *PaymentService) respond(ctx context.Context, batch *models.Batch) (*connect.Response[api.SharesResponse], error) {
	shares, err := s.store.ListSharesByBatch(ctx, batch.ID)
	if err != nil {
		return nil, storageError(s.logger, "Failed to list shares", err)
	}
	return connect.NewResponse(&api.SharesResponse{
		Batch:    toAPIBatch(batch),
		Shares:   toAPIShares(shares),
		Progress: toAPIProgress(calculator.CalculateProgress(shares, batch.TotalCost)),
	}), nil
}
