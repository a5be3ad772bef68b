package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertShare(ctx context.Context, db execer, share *models.PaymentShare) error {
	if share.ID == "" {
		share.ID = uuid.New().String()
	}
	if share.CreatedAt == 0 {
		share.CreatedAt = time.Now().Unix()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO payment_shares (id, batch_id, person_name, amount_to_pay, is_paid, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		share.ID, share.BatchID, share.PersonName, share.AmountToPay, share.IsPaid, share.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert share: %w", err)
	}
	return nil
}

// CreateShare adds a payer to an existing batch.
func (s *SQLiteStore) CreateShare(ctx context.Context, share *models.PaymentShare) error {
	return insertShare(ctx, s.db, share)
}

const shareColumns = `s.id, s.batch_id, s.person_name, s.amount_to_pay, s.is_paid, s.created_at`

func scanShare(row interface{ Scan(...any) error }) (models.PaymentShare, error) {
	var sh models.PaymentShare
	err := row.Scan(&sh.ID, &sh.BatchID, &sh.PersonName, &sh.AmountToPay, &sh.IsPaid, &sh.CreatedAt)
	return sh, err
}

// GetShare retrieves a share by ID.
func (s *SQLiteStore) GetShare(ctx context.Context, shareID string) (*models.PaymentShare, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+shareColumns+" FROM payment_shares s WHERE s.id = ?",
		shareID,
	)
	sh, err := scanShare(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("share %s: %w", shareID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return &sh, nil
}

// ListSharesByBatch returns a batch's shares in creation order.
func (s *SQLiteStore) ListSharesByBatch(ctx context.Context, batchID string) ([]models.PaymentShare, error) {
	return s.queryShares(ctx,
		"SELECT "+shareColumns+" FROM payment_shares s WHERE s.batch_id = ? ORDER BY s.created_at, s.rowid",
		batchID,
	)
}

// ListSharesByUser returns the shares of every batch the user owns.
func (s *SQLiteStore) ListSharesByUser(ctx context.Context, userID string) ([]models.PaymentShare, error) {
	return s.queryShares(ctx,
		`SELECT `+shareColumns+` FROM payment_shares s
		JOIN document_batches b ON b.id = s.batch_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC, s.created_at, s.rowid`,
		userID,
	)
}

func (s *SQLiteStore) queryShares(ctx context.Context, query string, args ...any) ([]models.PaymentShare, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	shares := []models.PaymentShare{}
	for rows.Next() {
		sh, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}

// UpdateShare writes a share's amount and paid flag.
func (s *SQLiteStore) UpdateShare(ctx context.Context, share *models.PaymentShare) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE payment_shares SET amount_to_pay = ?, is_paid = ? WHERE id = ?",
		share.AmountToPay, share.IsPaid, share.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}
	return requireAffected(res, "share", share.ID)
}

// DeleteShare removes a share.
func (s *SQLiteStore) DeleteShare(ctx context.Context, shareID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM payment_shares WHERE id = ?", shareID)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	return requireAffected(res, "share", shareID)
}
