package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/pkg/api"
)

func TestHistoryService_ListHistory(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	addDocs(t, env, 10, 5, 20)
	older := saveBatch(t, env, "Alice", "Bob")
	if _, err := env.calc.ClearDocuments(ctx, connect.NewRequest(&api.ClearDocumentsRequest{})); err != nil {
		t.Fatalf("ClearDocuments failed: %v", err)
	}
	addDocs(t, env, 15)
	newer := saveBatch(t, env, "Bob")

	// Pay off Alice's share on the older batch.
	alice := shareByName(t, older.Shares, "Alice")
	if _, err := env.payment.TogglePaid(ctx, connect.NewRequest(&api.TogglePaidRequest{ShareID: alice.ID})); err != nil {
		t.Fatalf("TogglePaid failed: %v", err)
	}
	// Another user's batch must not show up.
	otherReq := connect.NewRequest(&api.ListHistoryRequest{})
	otherReq.Header().Set(testUserHeader, env.other.ID)

	resp, err := env.history.ListHistory(ctx, connect.NewRequest(&api.ListHistoryRequest{}))
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	h := resp.Msg

	if len(h.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(h.Entries))
	}
	if h.Entries[0].Batch.ID != newer.Batch.ID || h.Entries[1].Batch.ID != older.Batch.ID {
		t.Errorf("expected newest batch first")
	}
	if len(h.Entries[1].Shares) != 2 {
		t.Errorf("older batch: expected 2 shares, got %d", len(h.Entries[1].Shares))
	}

	if h.ShareTotals.TotalPaid != 35 || h.ShareTotals.TotalUnpaid != 65 {
		t.Errorf("share totals: expected 35 paid / 65 unpaid, got %+v", h.ShareTotals)
	}
	if h.BatchTotals.TotalAmount != 100 || h.BatchTotals.TotalUnpaid != 100 {
		t.Errorf("batch totals: expected 100 unpaid of 100, got %+v", h.BatchTotals)
	}

	if len(h.UnpaidByPerson) != 1 {
		t.Fatalf("expected only Bob unpaid, got %+v", h.UnpaidByPerson)
	}
	bob := h.UnpaidByPerson[0]
	if bob.Name != "Bob" || bob.TotalUnpaid != 65 || len(bob.Batches) != 2 {
		t.Errorf("Bob rollup: got %+v", bob)
	}

	otherResp, err := env.history.ListHistory(ctx, otherReq)
	if err != nil {
		t.Fatalf("ListHistory (other user) failed: %v", err)
	}
	if len(otherResp.Msg.Entries) != 0 {
		t.Errorf("other user: expected no entries, got %d", len(otherResp.Msg.Entries))
	}
}

func TestHistoryService_DeleteBatch(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()
	addDocs(t, env, 3)
	saved := saveBatch(t, env, "Alice")

	t.Run("other user cannot delete", func(t *testing.T) {
		req := connect.NewRequest(&api.DeleteBatchRequest{BatchID: saved.Batch.ID})
		req.Header().Set(testUserHeader, env.other.ID)
		_, err := env.history.DeleteBatch(ctx, req)
		expectCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("delete removes batch and shares", func(t *testing.T) {
		if _, err := env.history.DeleteBatch(ctx, connect.NewRequest(&api.DeleteBatchRequest{BatchID: saved.Batch.ID})); err != nil {
			t.Fatalf("DeleteBatch failed: %v", err)
		}
		_, err := env.payment.ListShares(ctx, connect.NewRequest(&api.ListSharesRequest{BatchID: saved.Batch.ID}))
		expectCode(t, err, connect.CodeNotFound)

		shares, err := env.store.ListSharesByUser(ctx, env.user.ID)
		if err != nil {
			t.Fatalf("ListSharesByUser failed: %v", err)
		}
		if len(shares) != 0 {
			t.Errorf("expected shares deleted, got %d", len(shares))
		}
	})

	t.Run("missing batch", func(t *testing.T) {
		_, err := env.history.DeleteBatch(ctx, connect.NewRequest(&api.DeleteBatchRequest{BatchID: saved.Batch.ID}))
		expectCode(t, err, connect.CodeNotFound)
	})
}
