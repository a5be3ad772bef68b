// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/pagetally/internal/models"
)

// ErrNotFound is returned when a batch or share does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for batch, document, share and user storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateBatch persists a batch with its documents and shares in one
	// transaction. Missing IDs and timestamps are filled in.
	CreateBatch(ctx context.Context, batch *models.Batch, docs []models.Document, shares []models.PaymentShare) error

	// GetBatch retrieves a batch by its ID, or ErrNotFound.
	GetBatch(ctx context.Context, batchID string) (*models.Batch, error)

	// ListBatchesByUser returns a user's batches, newest first.
	ListBatchesByUser(ctx context.Context, userID string) ([]*models.Batch, error)

	// UpdateBatchStatus sets a batch's payment status, or returns ErrNotFound.
	UpdateBatchStatus(ctx context.Context, batchID string, status models.PaymentStatus) error

	// DeleteBatch removes a batch together with its documents and shares.
	DeleteBatch(ctx context.Context, batchID string) error

	// ListDocuments returns the documents saved with a batch.
	ListDocuments(ctx context.Context, batchID string) ([]models.Document, error)

	// CreateShare adds a payer to an existing batch.
	CreateShare(ctx context.Context, share *models.PaymentShare) error

	// GetShare retrieves a share by its ID, or ErrNotFound.
	GetShare(ctx context.Context, shareID string) (*models.PaymentShare, error)

	// ListSharesByBatch returns a batch's shares in creation order.
	ListSharesByBatch(ctx context.Context, batchID string) ([]models.PaymentShare, error)

	// ListSharesByUser returns the shares of every batch the user owns.
	ListSharesByUser(ctx context.Context, userID string) ([]models.PaymentShare, error)

	// UpdateShare writes a share's amount and paid flag, or returns ErrNotFound.
	UpdateShare(ctx context.Context, share *models.PaymentShare) error

	// DeleteShare removes a share, or returns ErrNotFound.
	DeleteShare(ctx context.Context, shareID string) error

	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
