package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/pkg/api"
)

func TestGetDraft_Default(t *testing.T) {
	env := setupTestServer(t, testOptions())

	resp, err := env.calc.GetDraft(context.Background(), connect.NewRequest(&api.GetDraftRequest{}))
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if resp.Msg.Draft.PricePerPage != models.DefaultPricePerPage {
		t.Errorf("price: expected %v, got %v", models.DefaultPricePerPage, resp.Msg.Draft.PricePerPage)
	}
	if len(resp.Msg.Draft.Documents) != 0 {
		t.Errorf("expected empty draft, got %d documents", len(resp.Msg.Draft.Documents))
	}
}

func TestGetDraft_ZeroConfiguredPrice(t *testing.T) {
	env := setupTestServer(t, CalculatorOptions{DefaultPrice: 0})

	resp, err := env.calc.GetDraft(context.Background(), connect.NewRequest(&api.GetDraftRequest{}))
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if resp.Msg.Draft.PricePerPage != 0 {
		t.Errorf("price: expected configured 0, got %v", resp.Msg.Draft.PricePerPage)
	}
}

func TestCalculator_DraftFlow(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	draft := addDocs(t, env, 10, 5, 20)
	if draft.Summary.TotalDocuments != 3 || draft.Summary.TotalPages != 35 || draft.Summary.TotalCost != 70 {
		t.Fatalf("summary: expected 3 docs / 35 pages / 70.00, got %+v", draft.Summary)
	}
	for _, d := range draft.Documents {
		if d.SourceKind != string(models.SourceManual) {
			t.Errorf("%s: expected manual source, got %q", d.Name, d.SourceKind)
		}
	}

	t.Run("price change reprices every document", func(t *testing.T) {
		resp, err := env.calc.SetPricePerPage(ctx, connect.NewRequest(&api.SetPricePerPageRequest{PricePerPage: 1.5}))
		if err != nil {
			t.Fatalf("SetPricePerPage failed: %v", err)
		}
		d := resp.Msg.Draft
		if d.Summary.TotalCost != 52.5 {
			t.Errorf("total: expected 52.50, got %v", d.Summary.TotalCost)
		}
		if d.Documents[0].Cost != 15 {
			t.Errorf("first cost: expected 15.00, got %v", d.Documents[0].Cost)
		}
	})

	t.Run("update page count", func(t *testing.T) {
		resp, err := env.calc.UpdatePageCount(ctx, connect.NewRequest(&api.UpdatePageCountRequest{
			DocumentID: draft.Documents[0].ID,
			PageCount:  12,
		}))
		if err != nil {
			t.Fatalf("UpdatePageCount failed: %v", err)
		}
		d := resp.Msg.Draft
		if d.Documents[0].PageCount != 12 || d.Documents[0].Cost != 18 {
			t.Errorf("expected 12 pages at 18.00, got %+v", d.Documents[0])
		}
		if d.Summary.TotalPages != 37 {
			t.Errorf("pages: expected 37, got %d", d.Summary.TotalPages)
		}
	})

	t.Run("remove document", func(t *testing.T) {
		resp, err := env.calc.RemoveDocument(ctx, connect.NewRequest(&api.RemoveDocumentRequest{
			DocumentID: draft.Documents[1].ID,
		}))
		if err != nil {
			t.Fatalf("RemoveDocument failed: %v", err)
		}
		if len(resp.Msg.Draft.Documents) != 2 {
			t.Errorf("expected 2 documents, got %d", len(resp.Msg.Draft.Documents))
		}
	})

	t.Run("clear keeps price", func(t *testing.T) {
		resp, err := env.calc.ClearDocuments(ctx, connect.NewRequest(&api.ClearDocumentsRequest{}))
		if err != nil {
			t.Fatalf("ClearDocuments failed: %v", err)
		}
		d := resp.Msg.Draft
		if len(d.Documents) != 0 || d.Summary.TotalCost != 0 {
			t.Errorf("expected empty draft, got %+v", d)
		}
		if d.PricePerPage != 1.5 {
			t.Errorf("price: expected 1.5, got %v", d.PricePerPage)
		}
	})
}

func TestCalculator_Validation(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		code connect.Code
	}{
		{
			name: "manual document without name",
			call: func() error {
				_, err := env.calc.AddManualDocument(ctx, connect.NewRequest(&api.AddManualDocumentRequest{Name: "  ", PageCount: 3}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "manual document with zero pages",
			call: func() error {
				_, err := env.calc.AddManualDocument(ctx, connect.NewRequest(&api.AddManualDocumentRequest{Name: "Notes", PageCount: 0}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "manual document with negative pages",
			call: func() error {
				_, err := env.calc.AddManualDocument(ctx, connect.NewRequest(&api.AddManualDocumentRequest{Name: "Notes", PageCount: -4}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "negative price",
			call: func() error {
				_, err := env.calc.SetPricePerPage(ctx, connect.NewRequest(&api.SetPricePerPageRequest{PricePerPage: -1}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "update unknown document",
			call: func() error {
				_, err := env.calc.UpdatePageCount(ctx, connect.NewRequest(&api.UpdatePageCountRequest{DocumentID: "missing", PageCount: 2}))
				return err
			},
			code: connect.CodeNotFound,
		},
		{
			name: "remove unknown document",
			call: func() error {
				_, err := env.calc.RemoveDocument(ctx, connect.NewRequest(&api.RemoveDocumentRequest{DocumentID: "missing"}))
				return err
			},
			code: connect.CodeNotFound,
		},
		{
			name: "save empty draft",
			call: func() error {
				_, err := env.calc.SaveBatch(ctx, connect.NewRequest(&api.SaveBatchRequest{Payers: []string{"Alice"}}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCode(t, tt.call(), tt.code)
		})
	}
}

func TestSaveBatch(t *testing.T) {
	env := setupTestServer(t, CalculatorOptions{DefaultPrice: models.DefaultPricePerPage, DefaultPayers: []string{"Ann", "Ben", "Cy", "Dee"}})
	ctx := context.Background()
	draft := addDocs(t, env, 10, 5, 20)

	t.Run("named payers split evenly", func(t *testing.T) {
		saved := saveBatch(t, env, "Alice", " Bob ")
		if saved.Batch.TotalCost != 70 || saved.Batch.TotalPages != 35 || saved.Batch.TotalDocuments != 3 {
			t.Errorf("batch totals: got %+v", saved.Batch)
		}
		if saved.Batch.PaymentStatus != string(models.StatusPending) {
			t.Errorf("status: expected PENDING, got %s", saved.Batch.PaymentStatus)
		}
		if len(saved.Shares) != 2 {
			t.Fatalf("expected 2 shares, got %d", len(saved.Shares))
		}
		for _, s := range saved.Shares {
			if s.AmountToPay != 35 || s.IsPaid {
				t.Errorf("share %s: expected unpaid 35.00, got %+v", s.PersonName, s)
			}
		}
		shareByName(t, saved.Shares, "Bob")

		for i, d := range saved.Documents {
			if d.ID == draft.Documents[i].ID {
				t.Errorf("document %d kept its draft ID", i)
			}
			if d.BatchID != saved.Batch.ID {
				t.Errorf("document %d: batch ID %q, want %q", i, d.BatchID, saved.Batch.ID)
			}
		}
	})

	t.Run("default payers", func(t *testing.T) {
		saved := saveBatch(t, env)
		if len(saved.Shares) != 4 {
			t.Fatalf("expected 4 default shares, got %d", len(saved.Shares))
		}
		for _, s := range saved.Shares {
			if s.AmountToPay != 17.5 {
				t.Errorf("share %s: expected 17.50, got %v", s.PersonName, s.AmountToPay)
			}
		}
	})

	t.Run("each save gets a new batch", func(t *testing.T) {
		first := saveBatch(t, env, "Alice")
		second := saveBatch(t, env, "Alice")
		if first.Batch.ID == second.Batch.ID {
			t.Error("expected distinct batch IDs")
		}
	})

	t.Run("duplicate payers rejected", func(t *testing.T) {
		_, err := env.calc.SaveBatch(ctx, connect.NewRequest(&api.SaveBatchRequest{Payers: []string{"Alice", "ALICE"}}))
		expectCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("draft survives save", func(t *testing.T) {
		resp, err := env.calc.GetDraft(ctx, connect.NewRequest(&api.GetDraftRequest{}))
		if err != nil {
			t.Fatalf("GetDraft failed: %v", err)
		}
		if len(resp.Msg.Draft.Documents) != 3 {
			t.Errorf("expected 3 draft documents, got %d", len(resp.Msg.Draft.Documents))
		}
	})
}

func TestLoadBatch(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	addDocs(t, env, 4, 6)
	if _, err := env.calc.SetPricePerPage(ctx, connect.NewRequest(&api.SetPricePerPageRequest{PricePerPage: 3})); err != nil {
		t.Fatalf("SetPricePerPage failed: %v", err)
	}
	saved := saveBatch(t, env, "Alice")

	if _, err := env.calc.ClearDocuments(ctx, connect.NewRequest(&api.ClearDocumentsRequest{})); err != nil {
		t.Fatalf("ClearDocuments failed: %v", err)
	}
	addDocs(t, env, 1)

	t.Run("not found leaves draft untouched", func(t *testing.T) {
		_, err := env.calc.LoadBatch(ctx, connect.NewRequest(&api.LoadBatchRequest{BatchID: "missing"}))
		expectCode(t, err, connect.CodeNotFound)

		resp, err := env.calc.GetDraft(ctx, connect.NewRequest(&api.GetDraftRequest{}))
		if err != nil {
			t.Fatalf("GetDraft failed: %v", err)
		}
		if len(resp.Msg.Draft.Documents) != 1 {
			t.Errorf("expected draft with 1 document, got %d", len(resp.Msg.Draft.Documents))
		}
	})

	t.Run("other user's batch", func(t *testing.T) {
		req := connect.NewRequest(&api.LoadBatchRequest{BatchID: saved.Batch.ID})
		req.Header().Set(testUserHeader, env.other.ID)
		_, err := env.calc.LoadBatch(ctx, req)
		expectCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("restores documents and price", func(t *testing.T) {
		resp, err := env.calc.LoadBatch(ctx, connect.NewRequest(&api.LoadBatchRequest{BatchID: saved.Batch.ID}))
		if err != nil {
			t.Fatalf("LoadBatch failed: %v", err)
		}
		d := resp.Msg.Draft
		if d.PricePerPage != 3 {
			t.Errorf("price: expected 3, got %v", d.PricePerPage)
		}
		if d.Summary.TotalPages != 10 || d.Summary.TotalCost != 30 {
			t.Errorf("summary: expected 10 pages / 30.00, got %+v", d.Summary)
		}
	})
}
