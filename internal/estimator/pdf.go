package estimator

import (
	"context"
	"fmt"
	"unicode"

	"github.com/tsawler/tabula/reader"
)

const (
	// minSubstantiveRunes is the non-space text length a page must exceed to
	// count without an image.
	minSubstantiveRunes = 50
	// imageDensityDivisor sets the inflation to 1 + imagePageFraction/2.
	imageDensityDivisor = 2
)

// pdfPage is what the PDF strategy learns about one page.
type pdfPage struct {
	textRunes int
	hasImage  bool
}

func (p pdfPage) substantive() bool {
	return p.textRunes > minSubstantiveRunes || p.hasImage
}

// PDFStrategy estimates PDF page counts from the page tree.
type PDFStrategy struct{}

// NewPDFStrategy creates the PDF strategy.
func NewPDFStrategy() *PDFStrategy {
	return &PDFStrategy{}
}

func (s *PDFStrategy) Format() Format { return FormatPDF }

func (s *PDFStrategy) Extensions() []string { return []string{".pdf"} }

func (s *PDFStrategy) Fallback(size int64) int { return tieredPages(size, pdfTiers) }

// Structural reads every page's text and images and scores the result.
func (s *PDFStrategy) Structural(ctx context.Context, path string) (int, error) {
	pages, err := readPDFPages(ctx, path)
	if err != nil {
		return 0, err
	}
	return scorePDF(pages), nil
}

func readPDFPages(ctx context.Context, path string) ([]pdfPage, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to read page tree: %w", err)
	}
	if count <= 0 {
		return nil, fmt.Errorf("empty page tree")
	}

	pages := make([]pdfPage, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := r.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("failed to load page %d: %w", i+1, err)
		}

		var p pdfPage
		// A page whose content stream cannot be decoded still exists; it just
		// contributes no text.
		if fragments, err := r.ExtractTextFragments(page); err == nil {
			for _, f := range fragments {
				p.textRunes += countNonSpace(f.Text)
			}
		}
		if images, err := r.ExtractPageImages(page); err == nil && len(images) > 0 {
			p.hasImage = true
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// scorePDF turns per-page stats into a page count.
//
// Algorithm:
//   - Count substantive pages (enough text, or an image)
//   - If any page has an image, inflate the whole count by
//     1 + (image pages / total pages) / 2, rounding up
//   - A non-empty page tree never scores below 1
func scorePDF(pages []pdfPage) int {
	if len(pages) == 0 {
		return 0
	}

	var substantive, withImages int
	for _, p := range pages {
		if p.substantive() {
			substantive++
		}
		if p.hasImage {
			withImages++
		}
	}

	n := substantive
	if withImages > 0 {
		// Integer form of ceil(substantive × (1 + withImages/(divisor×total))).
		denom := imageDensityDivisor * len(pages)
		num := substantive * (denom + withImages)
		n = (num + denom - 1) / denom
	}
	if n < 1 {
		return 1
	}
	return n
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
