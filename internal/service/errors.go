package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/internal/auth"
	"github.com/mmynk/pagetally/internal/calculator"
	"github.com/mmynk/pagetally/internal/middleware"
	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage"
)

var (
	ErrNoDocuments     = errors.New("add at least one document before saving")
	ErrNegativePrice   = errors.New("price per page cannot be negative")
	ErrInvalidAmount   = errors.New("payment amount must be greater than 0")
	ErrDocumentMissing = errors.New("document not found")
	ErrNotOwner        = errors.New("batch belongs to another user")
)

// requireUser returns the authenticated user's ID from ctx.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// storageError maps a store failure to a Connect error, logging anything
// that is not a plain not-found.
func storageError(logger *slog.Logger, msg string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	logger.Error(msg, "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

// payerError maps payer-name validation failures.
func payerError(err error) error {
	if errors.Is(err, calculator.ErrDuplicatePayer) {
		return connect.NewError(connect.CodeAlreadyExists, err)
	}
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// ownedBatch loads a batch and checks that userID owns it.
func ownedBatch(ctx context.Context, store storage.Store, logger *slog.Logger, userID, batchID string) (*models.Batch, error) {
	if batchID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("batch_id is required"))
	}
	batch, err := store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, storageError(logger, "Failed to load batch", err)
	}
	if batch.UserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, ErrNotOwner)
	}
	return batch, nil
}
