package estimator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/pagetally/internal/calculator"
	"github.com/mmynk/pagetally/internal/models"
)

var (
	ErrEmptyFileName = errors.New("file has no name")
	ErrFileTooLarge  = errors.New("file exceeds the upload size limit")
)

// Source is one uploaded file waiting to be estimated.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileError records why one file was skipped.
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// Archiver stores raw uploads somewhere durable and returns their location.
type Archiver interface {
	Archive(ctx context.Context, name string, content []byte) (string, error)
}

// IntakeResult is the outcome of processing a set of uploads.
// Documents and Estimates are parallel slices in upload order.
type IntakeResult struct {
	Documents []models.Document
	Estimates []Estimate
	Errors    []FileError
}

// Intake turns uploaded files into priced documents.
type Intake struct {
	estimator    *Estimator
	maxFileBytes int64
	archiver     Archiver
}

// NewIntake creates an intake pipeline. maxFileBytes <= 0 disables the size
// check; archiver may be nil.
func NewIntake(est *Estimator, maxFileBytes int64, archiver Archiver) *Intake {
	return &Intake{estimator: est, maxFileBytes: maxFileBytes, archiver: archiver}
}

// Process estimates and prices files one at a time in the order given.
// A failing file is recorded in Errors and does not stop the rest.
func (in *Intake) Process(ctx context.Context, files []Source, pricePerPage float64) IntakeResult {
	result := IntakeResult{
		Documents: []models.Document{},
		Estimates: []Estimate{},
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, FileError{Name: f.Name, Err: err})
			continue
		}

		doc, est, err := in.processOne(ctx, f, pricePerPage)
		if err != nil {
			slog.Warn("Skipping uploaded file", "file", f.Name, "error", err)
			result.Errors = append(result.Errors, FileError{Name: f.Name, Err: err})
			continue
		}
		result.Documents = append(result.Documents, doc)
		result.Estimates = append(result.Estimates, est)
	}

	return result
}

func (in *Intake) processOne(ctx context.Context, f Source, pricePerPage float64) (models.Document, Estimate, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return models.Document{}, Estimate{}, ErrEmptyFileName
	}

	content, err := in.read(f)
	if err != nil {
		return models.Document{}, Estimate{}, err
	}

	est := in.estimator.EstimatePages(ctx, name, content)

	if in.archiver != nil {
		location, err := in.archiver.Archive(ctx, name, content)
		if err != nil {
			slog.Warn("Failed to archive upload", "file", name, "error", err)
		} else {
			slog.Debug("Archived upload", "file", name, "location", location)
		}
	}

	doc := models.Document{
		ID:         uuid.New().String(),
		Name:       name,
		PageCount:  est.Pages,
		Cost:       calculator.DocumentCost(est.Pages, pricePerPage),
		UploadDate: time.Now().Unix(),
		Source:     models.SourceUploaded,
	}
	return doc, est, nil
}

func (in *Intake) read(f Source) ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("file has no content")
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if in.maxFileBytes > 0 {
		r = io.LimitReader(rc, in.maxFileBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if in.maxFileBytes > 0 && int64(len(content)) > in.maxFileBytes {
		return nil, ErrFileTooLarge
	}
	return content, nil
}
