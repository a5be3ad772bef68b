// Package upload serves the multipart endpoint that turns uploaded files into
// draft documents.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmynk/pagetally/internal/estimator"
	"github.com/mmynk/pagetally/internal/metrics"
	"github.com/mmynk/pagetally/internal/middleware"
	"github.com/mmynk/pagetally/internal/models"
	"github.com/mmynk/pagetally/internal/service"
	"github.com/mmynk/pagetally/pkg/api"
)

// FormField is the multipart field carrying the files.
const FormField = "files"

// memoryLimit is how much of a multipart body is held in memory before
// spilling to temp files.
const memoryLimit = 32 << 20

// Drafts is the draft access the handler needs.
type Drafts interface {
	Draft(ctx context.Context, userID string) (*models.Draft, error)
	AppendDocuments(ctx context.Context, userID string, docs []models.Document) (*models.Draft, error)
}

// Handler accepts uploads and appends the estimated documents to the
// caller's draft.
type Handler struct {
	intake       *estimator.Intake
	drafts       Drafts
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewHandler creates an upload handler. maxBodyBytes caps the whole request
// body; <= 0 disables the cap.
func NewHandler(intake *estimator.Intake, drafts Drafts, maxBodyBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		intake:       intake,
		drafts:       drafts,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// ServeHTTP handles POST /api/uploads.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authorization token required")
		return
	}

	if h.maxBodyBytes > 0 {
		if r.ContentLength > h.maxBodyBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[FormField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	draft, err := h.drafts.Draft(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to load draft", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load draft")
		return
	}

	sources := make([]estimator.Source, 0, len(headers))
	for _, fh := range headers {
		sources = append(sources, estimator.Source{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	h.logger.Info("Upload request", "user_id", userID, "files", len(sources))
	result := h.intake.Process(ctx, sources, draft.PricePerPage)
	metrics.IncUploadAccepted(len(result.Documents))
	metrics.IncUploadRejected(len(result.Errors))

	if len(result.Documents) > 0 {
		draft, err = h.drafts.AppendDocuments(ctx, userID, result.Documents)
		if err != nil {
			h.logger.Error("Failed to store draft", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to store draft")
			return
		}
	}

	resp := api.UploadResponse{
		Documents: service.ToAPIDocuments(result.Documents),
		Estimates: make([]api.EstimateInfo, 0, len(result.Estimates)),
		Errors:    make([]api.FileError, 0, len(result.Errors)),
		Draft:     service.ToAPIDraft(draft),
	}
	for i, est := range result.Estimates {
		resp.Estimates = append(resp.Estimates, api.EstimateInfo{
			DocumentID: result.Documents[i].ID,
			Format:     string(est.Format),
			Method:     string(est.Method),
			MIMEType:   est.MIMEType,
		})
	}
	for _, fe := range result.Errors {
		resp.Errors = append(resp.Errors, api.FileError{Name: fe.Name, Error: fe.Err.Error()})
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
