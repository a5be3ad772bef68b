package upload

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmynk/pagetally/internal/drafts"
	"github.com/mmynk/pagetally/internal/estimator"
	"github.com/mmynk/pagetally/internal/middleware"
	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/service"
	"github.com/mmynk/pagetally/pkg/api"
)

type testFile struct {
	name    string
	content string
}

func multipartBody(t *testing.T, files ...testFile) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile(FormField, f.name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := io.WriteString(part, f.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// withUser authenticates every request as userID.
func withUser(userID string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), userID, "")))
	})
}

func newTestHandler(t *testing.T, maxFileBytes, maxBodyBytes int64) (*Handler, *drafts.MemoryStore) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	draftStore := drafts.NewMemoryStore()
	calc := service.NewCalculatorService(nil, draftStore, service.CalculatorOptions{DefaultPrice: models.DefaultPricePerPage}, logger)
	intake := estimator.NewIntake(estimator.New(estimator.WithTempDir(t.TempDir())), maxFileBytes, nil)
	return NewHandler(intake, calc, maxBodyBytes, logger), draftStore
}

func TestUpload(t *testing.T) {
	h, _ := newTestHandler(t, 16, 0)
	body, contentType := multipartBody(t,
		testFile{"notes.txt", "hello"},
		testFile{"huge.pdf", strings.Repeat("x", 32)},
		testFile{"readme.md", "# title"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	withUser("user-1", h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(resp.Documents))
	}
	if resp.Documents[0].Name != "notes.txt" || resp.Documents[1].Name != "readme.md" {
		t.Errorf("documents out of order: %+v", resp.Documents)
	}
	for i, d := range resp.Documents {
		if d.PageCount != 1 || d.Cost != 2 || d.SourceKind != "uploaded" {
			t.Errorf("document %d: expected 1 page at 2.00 uploaded, got %+v", i, d)
		}
		if resp.Estimates[i].DocumentID != d.ID || resp.Estimates[i].Method != "default" {
			t.Errorf("estimate %d: got %+v", i, resp.Estimates[i])
		}
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Name != "huge.pdf" {
		t.Errorf("expected huge.pdf rejected, got %+v", resp.Errors)
	}
	if resp.Draft.Summary.TotalDocuments != 2 || resp.Draft.Summary.TotalCost != 4 {
		t.Errorf("draft summary: got %+v", resp.Draft.Summary)
	}
}

func TestUpload_AppendsToExistingDraft(t *testing.T) {
	h, draftStore := newTestHandler(t, 0, 0)
	handler := withUser("user-1", h)

	for i := 0; i < 2; i++ {
		body, contentType := multipartBody(t, testFile{"page.txt", "x"})
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("upload %d: status %d", i, rec.Code)
		}
	}

	d, ok, err := draftStore.Get(t.Context(), "user-1")
	if err != nil || !ok {
		t.Fatalf("expected stored draft, ok=%v err=%v", ok, err)
	}
	if len(d.Documents) != 2 {
		t.Errorf("expected 2 documents after two uploads, got %d", len(d.Documents))
	}
}

func TestUpload_Rejections(t *testing.T) {
	h, _ := newTestHandler(t, 0, 256)

	emptyBody, emptyType := multipartBody(t)
	bigBody, bigType := multipartBody(t, testFile{"big.txt", strings.Repeat("y", 1024)})

	tests := []struct {
		name        string
		user        string
		body        io.Reader
		contentType string
		want        int
	}{
		{"unauthenticated", "", emptyBody, emptyType, http.StatusUnauthorized},
		{"not multipart", "user-1", strings.NewReader("{}"), "application/json", http.StatusBadRequest},
		{"no files", "user-1", emptyBody, emptyType, http.StatusBadRequest},
		{"body too large", "user-1", bigBody, bigType, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/uploads", tt.body)
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			var handler http.Handler = h
			if tt.user != "" {
				handler = withUser(tt.user, h)
			}
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: expected %d, got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}
