// Package estimator maps raw document bytes to a printable page count.
//
// Each supported format has a Strategy with a structural estimate (parse the
// document) and a size-based fallback. EstimatePages never fails: parse
// errors and parser panics degrade to the fallback, and unsupported formats
// count as a single page.
package estimator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Format identifies the estimation strategy used for a document.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatUnknown Format = "unknown"
)

// Method records how a page count was produced.
type Method string

const (
	MethodStructural Method = "structural"
	MethodFallback   Method = "fallback"
	MethodDefault    Method = "default"
	MethodManual     Method = "manual"
)

// Estimate is the outcome of estimating one document.
type Estimate struct {
	Pages    int // Always >= 1
	Format   Format
	Method   Method
	MIMEType string
}

// Strategy estimates page counts for one document format.
type Strategy interface {
	Format() Format
	// Extensions lists the lower-case file extensions routed to this strategy.
	Extensions() []string
	// Structural parses the document at path. It may return an error or panic;
	// the Estimator recovers from both.
	Structural(ctx context.Context, path string) (int, error)
	// Fallback estimates from the file size alone. Always >= 1.
	Fallback(size int64) int
}

// Observer is notified after every estimate.
type Observer func(est Estimate, elapsed time.Duration)

// Estimator dispatches documents to strategies by extension or content.
type Estimator struct {
	byExt    map[string]Strategy
	tempDir  string
	observer Observer
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithObserver registers a callback invoked after every estimate.
func WithObserver(o Observer) Option {
	return func(e *Estimator) { e.observer = o }
}

// WithTempDir sets where documents are spooled for parsing.
func WithTempDir(dir string) Option {
	return func(e *Estimator) { e.tempDir = dir }
}

// WithStrategy registers an additional strategy, replacing any strategy
// already registered for the same extensions.
func WithStrategy(s Strategy) Option {
	return func(e *Estimator) { e.register(s) }
}

// New creates an Estimator with the PDF and DOCX strategies registered.
func New(opts ...Option) *Estimator {
	e := &Estimator{byExt: make(map[string]Strategy)}
	e.register(NewPDFStrategy())
	e.register(NewDOCXStrategy())
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Estimator) register(s Strategy) {
	for _, ext := range s.Extensions() {
		e.byExt[ext] = s
	}
}

// EstimatePages returns the estimated page count of a document.
func (e *Estimator) EstimatePages(ctx context.Context, name string, content []byte) Estimate {
	start := time.Now()
	est := e.estimate(ctx, name, content)
	if e.observer != nil {
		e.observer(est, time.Since(start))
	}
	return est
}

func (e *Estimator) estimate(ctx context.Context, name string, content []byte) Estimate {
	mtype := mimetype.Detect(content)
	strategy := e.lookup(name, mtype)
	if strategy == nil {
		return Estimate{Pages: 1, Format: FormatUnknown, Method: MethodDefault, MIMEType: mtype.String()}
	}

	est := Estimate{Format: strategy.Format(), MIMEType: mtype.String()}
	size := int64(len(content))

	if size == 0 {
		est.Pages = strategy.Fallback(size)
		est.Method = MethodFallback
		return est
	}

	pages, err := e.structural(ctx, strategy, content)
	if err != nil || pages < 1 {
		slog.Warn("Structural estimate failed, using size fallback",
			"file", name,
			"format", est.Format,
			"size", size,
			"error", err,
		)
		est.Pages = strategy.Fallback(size)
		est.Method = MethodFallback
		return est
	}

	est.Pages = pages
	est.Method = MethodStructural
	return est
}

// lookup picks a strategy by file extension, sniffing the content when the
// name has no extension.
func (e *Estimator) lookup(name string, mtype *mimetype.MIME) Strategy {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = mtype.Extension()
	}
	return e.byExt[ext]
}

// structural spools content to a temp file and runs the strategy's parser,
// turning panics into errors.
func (e *Estimator) structural(ctx context.Context, s Strategy, content []byte) (pages int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := os.CreateTemp(e.tempDir, "estimate-*."+string(s.Format()))
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(content); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to spool document: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to spool document: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return s.Structural(ctx, path)
}
