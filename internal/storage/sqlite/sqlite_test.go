package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()

	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestSQLiteStore_Batches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "alice@example.com")

	t.Run("CreateBatch fills IDs and links children", func(t *testing.T) {
		batch := &models.Batch{
			UserID:         user.ID,
			TotalDocuments: 2,
			TotalPages:     15,
			TotalCost:      30,
			PricePerPage:   2,
		}
		docs := []models.Document{
			{Name: "a.pdf", PageCount: 10, Cost: 20, UploadDate: 100, Source: models.SourceUploaded},
			{Name: "manual", PageCount: 5, Cost: 10, UploadDate: 101, Source: models.SourceManual},
		}
		shares := []models.PaymentShare{
			{PersonName: "Alice", AmountToPay: 15},
			{PersonName: "Bob", AmountToPay: 15},
		}

		if err := store.CreateBatch(ctx, batch, docs, shares); err != nil {
			t.Fatalf("CreateBatch failed: %v", err)
		}
		if batch.ID == "" || batch.CreatedAt == 0 {
			t.Fatalf("Expected ID and CreatedAt to be generated, got %+v", batch)
		}
		if batch.PaymentStatus != models.StatusPending {
			t.Errorf("Expected PENDING status, got %s", batch.PaymentStatus)
		}

		got, err := store.GetBatch(ctx, batch.ID)
		if err != nil {
			t.Fatalf("GetBatch failed: %v", err)
		}
		if *got != *batch {
			t.Errorf("Batch mismatch: got %+v, want %+v", got, batch)
		}

		gotDocs, err := store.ListDocuments(ctx, batch.ID)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(gotDocs) != 2 {
			t.Fatalf("Expected 2 documents, got %d", len(gotDocs))
		}
		if gotDocs[0].Name != "a.pdf" || gotDocs[1].Source != models.SourceManual {
			t.Errorf("Unexpected documents: %+v", gotDocs)
		}
		if gotDocs[0].BatchID != batch.ID {
			t.Errorf("Document not linked to batch: %s", gotDocs[0].BatchID)
		}

		gotShares, err := store.ListSharesByBatch(ctx, batch.ID)
		if err != nil {
			t.Fatalf("ListSharesByBatch failed: %v", err)
		}
		if len(gotShares) != 2 || gotShares[0].PersonName != "Alice" || gotShares[1].PersonName != "Bob" {
			t.Errorf("Unexpected shares: %+v", gotShares)
		}
	})

	t.Run("GetBatch returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetBatch(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListBatchesByUser is newest first and scoped", func(t *testing.T) {
		other := createUser(t, store, "bob@example.com")

		older := &models.Batch{UserID: other.ID, TotalCost: 1, CreatedAt: 1000}
		newer := &models.Batch{UserID: other.ID, TotalCost: 2, CreatedAt: 2000}
		for _, b := range []*models.Batch{older, newer} {
			if err := store.CreateBatch(ctx, b, nil, nil); err != nil {
				t.Fatalf("CreateBatch failed: %v", err)
			}
		}

		batches, err := store.ListBatchesByUser(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListBatchesByUser failed: %v", err)
		}
		if len(batches) != 2 {
			t.Fatalf("Expected 2 batches, got %d", len(batches))
		}
		if batches[0].ID != newer.ID || batches[1].ID != older.ID {
			t.Errorf("Expected newest first, got %s then %s", batches[0].ID, batches[1].ID)
		}
	})

	t.Run("UpdateBatchStatus", func(t *testing.T) {
		batch := &models.Batch{UserID: user.ID}
		if err := store.CreateBatch(ctx, batch, nil, nil); err != nil {
			t.Fatalf("CreateBatch failed: %v", err)
		}
		if err := store.UpdateBatchStatus(ctx, batch.ID, models.StatusPaid); err != nil {
			t.Fatalf("UpdateBatchStatus failed: %v", err)
		}
		got, _ := store.GetBatch(ctx, batch.ID)
		if got.PaymentStatus != models.StatusPaid {
			t.Errorf("Expected PAID, got %s", got.PaymentStatus)
		}

		err := store.UpdateBatchStatus(ctx, "missing", models.StatusPaid)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteBatch cascades", func(t *testing.T) {
		batch := &models.Batch{UserID: user.ID}
		docs := []models.Document{{Name: "x", PageCount: 1, Source: models.SourceManual}}
		shares := []models.PaymentShare{{PersonName: "Alice"}}
		if err := store.CreateBatch(ctx, batch, docs, shares); err != nil {
			t.Fatalf("CreateBatch failed: %v", err)
		}

		if err := store.DeleteBatch(ctx, batch.ID); err != nil {
			t.Fatalf("DeleteBatch failed: %v", err)
		}
		if _, err := store.GetBatch(ctx, batch.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected batch to be gone, got %v", err)
		}
		if _, err := store.GetShare(ctx, shares[0].ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected share to be gone, got %v", err)
		}
		gotDocs, _ := store.ListDocuments(ctx, batch.ID)
		if len(gotDocs) != 0 {
			t.Errorf("Expected documents to be gone, got %d", len(gotDocs))
		}

		if err := store.DeleteBatch(ctx, batch.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("CreateBatch rolls back on invalid document", func(t *testing.T) {
		batch := &models.Batch{UserID: user.ID}
		docs := []models.Document{{Name: "bad", PageCount: 0}}
		if err := store.CreateBatch(ctx, batch, docs, nil); err == nil {
			t.Fatal("Expected error for zero page count")
		}
		if _, err := store.GetBatch(ctx, batch.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected batch insert to be rolled back, got %v", err)
		}
	})
}

func TestSQLiteStore_Shares(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "alice@example.com")

	batch := &models.Batch{UserID: user.ID, TotalCost: 70}
	if err := store.CreateBatch(ctx, batch, nil, []models.PaymentShare{{PersonName: "Alice", AmountToPay: 70}}); err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}

	share := &models.PaymentShare{BatchID: batch.ID, PersonName: "Bob", AmountToPay: 35}
	if err := store.CreateShare(ctx, share); err != nil {
		t.Fatalf("CreateShare failed: %v", err)
	}
	if share.ID == "" {
		t.Fatal("Expected share ID to be generated")
	}

	share.AmountToPay = -2.5
	share.IsPaid = true
	if err := store.UpdateShare(ctx, share); err != nil {
		t.Fatalf("UpdateShare failed: %v", err)
	}

	got, err := store.GetShare(ctx, share.ID)
	if err != nil {
		t.Fatalf("GetShare failed: %v", err)
	}
	if got.AmountToPay != -2.5 || !got.IsPaid {
		t.Errorf("Update not persisted: %+v", got)
	}

	byUser, err := store.ListSharesByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListSharesByUser failed: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("Expected 2 shares for user, got %d", len(byUser))
	}

	if err := store.DeleteShare(ctx, share.ID); err != nil {
		t.Fatalf("DeleteShare failed: %v", err)
	}
	if err := store.DeleteShare(ctx, share.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateShare(ctx, share); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createUser(t, store, "alice@example.com")

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail = %+v, %v", byEmail, err)
	}
	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil || byID == nil || byID.Email != user.Email || byID.DisplayName != "Test User" {
		t.Fatalf("GetUserByID = %+v, %v", byID, err)
	}

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("Expected nil, nil for missing user, got %+v, %v", missing, err)
	}

	dup := models.NewUser("alice@example.com", "Other", "hash")
	if err := store.CreateUser(ctx, dup); err == nil {
		t.Error("Expected duplicate email to fail")
	}
}
