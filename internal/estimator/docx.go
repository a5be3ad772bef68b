package estimator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/tabula/docx"
)

// Layout assumptions for a printed A4/Letter page of body text.
const (
	wordsPerPage      = 500
	charsPerPage      = 3000
	charsPerLine      = 90
	linesPerPage      = 46
	paragraphsPerPage = 12

	denseWordsPerParagraph  = 100
	denseCharsPerLine       = 80
	sparseWordsPerParagraph = 25
	sparseCharsPerLine      = 40

	denseFactor  = 0.85
	sparseFactor = 1.15

	wordsWeight      = 0.4
	charsWeight      = 0.3
	linesWeight      = 0.2
	paragraphsWeight = 0.1
)

// textStats holds the counts the DOCX strategy scores.
type textStats struct {
	words      int
	chars      int
	lines      int // visual lines after wrapping at charsPerLine
	paragraphs int
}

// DOCXStrategy estimates word-processing documents from their text.
// Legacy .doc files are routed here too; they fail to open as DOCX and fall
// back to the size estimate.
type DOCXStrategy struct{}

// NewDOCXStrategy creates the DOCX strategy.
func NewDOCXStrategy() *DOCXStrategy {
	return &DOCXStrategy{}
}

func (s *DOCXStrategy) Format() Format { return FormatDOCX }

func (s *DOCXStrategy) Extensions() []string { return []string{".docx", ".doc"} }

func (s *DOCXStrategy) Fallback(size int64) int { return tieredPages(size, docxTiers) }

// Structural extracts the document text and scores it.
func (s *DOCXStrategy) Structural(ctx context.Context, path string) (int, error) {
	r, err := docx.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open docx: %w", err)
	}
	defer r.Close()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	text, err := r.Text()
	if err != nil {
		return 0, fmt.Errorf("failed to extract text: %w", err)
	}
	return scoreDOCX(collectTextStats(text)), nil
}

func collectTextStats(text string) textStats {
	var st textStats
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		n := utf8.RuneCountInString(para)
		st.paragraphs++
		st.chars += n
		st.words += len(strings.Fields(para))
		st.lines += (n + charsPerLine - 1) / charsPerLine
	}
	return st
}

// densityFactor scales words/chars per page: dense text fits less per page.
func densityFactor(st textStats) float64 {
	if st.paragraphs == 0 || st.lines == 0 {
		return 1
	}
	wordsPerParagraph := float64(st.words) / float64(st.paragraphs)
	charsPerVisualLine := float64(st.chars) / float64(st.lines)

	switch {
	case wordsPerParagraph > denseWordsPerParagraph || charsPerVisualLine > denseCharsPerLine:
		return denseFactor
	case wordsPerParagraph < sparseWordsPerParagraph && charsPerVisualLine < sparseCharsPerLine:
		return sparseFactor
	default:
		return 1
	}
}

// scoreDOCX combines four independent estimates into a weighted average,
// rounded up, never below 1.
func scoreDOCX(st textStats) int {
	factor := densityFactor(st)

	byWords := float64(st.words) / (wordsPerPage * factor)
	byChars := float64(st.chars) / (charsPerPage * factor)
	byLines := float64(st.lines) / linesPerPage
	byParagraphs := float64(st.paragraphs) / paragraphsPerPage

	weighted := wordsWeight*byWords + charsWeight*byChars + linesWeight*byLines + paragraphsWeight*byParagraphs
	n := int(math.Ceil(weighted))
	if n < 1 {
		return 1
	}
	return n
}
