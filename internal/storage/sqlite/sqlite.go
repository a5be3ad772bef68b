// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// PRAGMAs are per connection; a single connection keeps foreign keys on.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBatch persists a batch, its documents and its shares.
func (s *SQLiteStore) CreateBatch(ctx context.Context, batch *models.Batch, docs []models.Document, shares []models.PaymentShare) error {
	// Generate IDs if not set
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	if batch.CreatedAt == 0 {
		batch.CreatedAt = time.Now().Unix()
	}
	if batch.PaymentStatus == "" {
		batch.PaymentStatus = models.StatusPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO document_batches
			(id, user_id, total_documents, total_pages, total_cost, price_per_page, payment_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.UserID, batch.TotalDocuments, batch.TotalPages,
		batch.TotalCost, batch.PricePerPage, string(batch.PaymentStatus), batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	for i := range docs {
		doc := &docs[i]
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		doc.BatchID = batch.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (id, batch_id, name, page_count, cost, upload_date, source_kind)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			doc.ID, doc.BatchID, doc.Name, doc.PageCount, doc.Cost, doc.UploadDate, string(doc.Source),
		)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	for i := range shares {
		share := &shares[i]
		share.BatchID = batch.ID
		if err := insertShare(ctx, tx, share); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const batchColumns = `id, user_id, total_documents, total_pages, total_cost, price_per_page, payment_status, created_at`

func scanBatch(row interface{ Scan(...any) error }) (*models.Batch, error) {
	b := &models.Batch{}
	var status string
	if err := row.Scan(&b.ID, &b.UserID, &b.TotalDocuments, &b.TotalPages,
		&b.TotalCost, &b.PricePerPage, &status, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.PaymentStatus = models.PaymentStatus(status)
	return b, nil
}

// GetBatch retrieves a batch by ID.
func (s *SQLiteStore) GetBatch(ctx context.Context, batchID string) (*models.Batch, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+batchColumns+" FROM document_batches WHERE id = ?",
		batchID,
	)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s: %w", batchID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return b, nil
}

// ListBatchesByUser returns a user's batches, newest first.
func (s *SQLiteStore) ListBatchesByUser(ctx context.Context, userID string) ([]*models.Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+batchColumns+" FROM document_batches WHERE user_id = ? ORDER BY created_at DESC, rowid DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	batches := []*models.Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate batches: %w", err)
	}

	return batches, nil
}

// UpdateBatchStatus sets a batch's payment status.
func (s *SQLiteStore) UpdateBatchStatus(ctx context.Context, batchID string, status models.PaymentStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE document_batches SET payment_status = ? WHERE id = ?",
		string(status), batchID,
	)
	if err != nil {
		return fmt.Errorf("failed to update batch status: %w", err)
	}
	return requireAffected(res, "batch", batchID)
}

// DeleteBatch removes a batch. Documents and shares go with it via ON DELETE CASCADE.
func (s *SQLiteStore) DeleteBatch(ctx context.Context, batchID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM document_batches WHERE id = ?", batchID)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	return requireAffected(res, "batch", batchID)
}

// ListDocuments returns the documents saved with a batch in upload order.
func (s *SQLiteStore) ListDocuments(ctx context.Context, batchID string) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, name, page_count, cost, upload_date, source_kind
		FROM documents WHERE batch_id = ? ORDER BY upload_date, rowid`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var d models.Document
		var source string
		if err := rows.Scan(&d.ID, &d.BatchID, &d.Name, &d.PageCount, &d.Cost, &d.UploadDate, &source); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.Source = models.SourceKind(source)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// requireAffected maps a zero-row write to storage.ErrNotFound.
func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
