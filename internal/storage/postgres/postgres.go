// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store on PostgreSQL.
type PostgresStore struct {
	db *gorm.DB
}

// New connects to dsn and migrates the schema.
func New(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewWithDB(db)
}

// NewWithDB wraps an open GORM connection and migrates the schema.
func NewWithDB(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&userRow{}, &batchRow{}, &documentRow{}, &shareRow{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound maps gorm.ErrRecordNotFound to storage.ErrNotFound.
func notFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", kind, err)
}

// requireAffected maps a zero-row write to storage.ErrNotFound.
func requireAffected(tx *gorm.DB, kind, id string) error {
	if tx.Error != nil {
		return fmt.Errorf("failed to write %s: %w", kind, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

// CreateBatch persists a batch, its documents and its shares in one transaction.
func (s *PostgresStore) CreateBatch(ctx context.Context, batch *models.Batch, docs []models.Document, shares []models.PaymentShare) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	if batch.CreatedAt == 0 {
		batch.CreatedAt = time.Now().Unix()
	}
	if batch.PaymentStatus == "" {
		batch.PaymentStatus = models.StatusPending
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toBatchRow(batch)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert batch: %w", err)
		}

		if len(docs) > 0 {
			docRows := make([]documentRow, len(docs))
			for i := range docs {
				if docs[i].ID == "" {
					docs[i].ID = uuid.New().String()
				}
				docs[i].BatchID = batch.ID
				docRows[i] = toDocumentRow(docs[i])
			}
			if err := tx.Create(&docRows).Error; err != nil {
				return fmt.Errorf("failed to insert documents: %w", err)
			}
		}

		if len(shares) > 0 {
			now := time.Now().Unix()
			shareRows := make([]shareRow, len(shares))
			for i := range shares {
				if shares[i].ID == "" {
					shares[i].ID = uuid.New().String()
				}
				if shares[i].CreatedAt == 0 {
					shares[i].CreatedAt = now
				}
				shares[i].BatchID = batch.ID
				shareRows[i] = toShareRow(shares[i])
			}
			if err := tx.Create(&shareRows).Error; err != nil {
				return fmt.Errorf("failed to insert shares: %w", err)
			}
		}
		return nil
	})
}

// GetBatch retrieves a batch by ID.
func (s *PostgresStore) GetBatch(ctx context.Context, batchID string) (*models.Batch, error) {
	var row batchRow
	if err := s.db.WithContext(ctx).Where("id = ?", batchID).First(&row).Error; err != nil {
		return nil, notFound(err, "batch", batchID)
	}
	return row.toModel(), nil
}

// ListBatchesByUser returns a user's batches, newest first.
func (s *PostgresStore) ListBatchesByUser(ctx context.Context, userID string) ([]*models.Batch, error) {
	var rows []batchRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	batches := make([]*models.Batch, len(rows))
	for i, r := range rows {
		batches[i] = r.toModel()
	}
	return batches, nil
}

// UpdateBatchStatus sets a batch's payment status.
func (s *PostgresStore) UpdateBatchStatus(ctx context.Context, batchID string, status models.PaymentStatus) error {
	tx := s.db.WithContext(ctx).Model(&batchRow{}).
		Where("id = ?", batchID).
		Update("payment_status", string(status))
	return requireAffected(tx, "batch", batchID)
}

// DeleteBatch removes a batch with its documents and shares.
func (s *PostgresStore) DeleteBatch(ctx context.Context, batchID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("batch_id = ?", batchID).Delete(&documentRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete documents: %w", err)
		}
		if err := tx.Where("batch_id = ?", batchID).Delete(&shareRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete shares: %w", err)
		}
		return requireAffected(tx.Where("id = ?", batchID).Delete(&batchRow{}), "batch", batchID)
	})
}

// ListDocuments returns the documents saved with a batch in upload order.
func (s *PostgresStore) ListDocuments(ctx context.Context, batchID string) ([]models.Document, error) {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("upload_date, name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]models.Document, len(rows))
	for i, r := range rows {
		docs[i] = r.toModel()
	}
	return docs, nil
}

// CreateShare adds a payer to an existing batch.
func (s *PostgresStore) CreateShare(ctx context.Context, share *models.PaymentShare) error {
	if share.ID == "" {
		share.ID = uuid.New().String()
	}
	if share.CreatedAt == 0 {
		share.CreatedAt = time.Now().Unix()
	}
	row := toShareRow(*share)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert share: %w", err)
	}
	return nil
}

// GetShare retrieves a share by ID.
func (s *PostgresStore) GetShare(ctx context.Context, shareID string) (*models.PaymentShare, error) {
	var row shareRow
	if err := s.db.WithContext(ctx).Where("id = ?", shareID).First(&row).Error; err != nil {
		return nil, notFound(err, "share", shareID)
	}
	share := row.toModel()
	return &share, nil
}

// ListSharesByBatch returns a batch's shares in creation order.
func (s *PostgresStore) ListSharesByBatch(ctx context.Context, batchID string) ([]models.PaymentShare, error) {
	var rows []shareRow
	err := s.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at, person_name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return sharesToModels(rows), nil
}

// ListSharesByUser returns the shares of every batch the user owns.
func (s *PostgresStore) ListSharesByUser(ctx context.Context, userID string) ([]models.PaymentShare, error) {
	var rows []shareRow
	err := s.db.WithContext(ctx).
		Joins("JOIN document_batches ON document_batches.id = payment_shares.batch_id").
		Where("document_batches.user_id = ?", userID).
		Order("document_batches.created_at DESC, payment_shares.created_at, payment_shares.person_name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return sharesToModels(rows), nil
}

func sharesToModels(rows []shareRow) []models.PaymentShare {
	shares := make([]models.PaymentShare, len(rows))
	for i, r := range rows {
		shares[i] = r.toModel()
	}
	return shares
}

// UpdateShare writes a share's amount and paid flag.
func (s *PostgresStore) UpdateShare(ctx context.Context, share *models.PaymentShare) error {
	tx := s.db.WithContext(ctx).Model(&shareRow{}).
		Where("id = ?", share.ID).
		Updates(map[string]any{
			"amount_to_pay": share.AmountToPay,
			"is_paid":       share.IsPaid,
		})
	return requireAffected(tx, "share", share.ID)
}

// DeleteShare removes a share.
func (s *PostgresStore) DeleteShare(ctx context.Context, shareID string) error {
	tx := s.db.WithContext(ctx).Where("id = ?", shareID).Delete(&shareRow{})
	return requireAffected(tx, "share", shareID)
}

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	row := toUserRow(user)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by their ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// getUser returns nil, nil when no user matches.
func (s *PostgresStore) getUser(ctx context.Context, where string, arg string) (*models.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where(where, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.toModel(), nil
}
