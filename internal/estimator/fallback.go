package estimator

import "math"

const bytesPerMB = 1024 * 1024

// sizeTier applies pagesPerMB to the part of a file below upToMB.
type sizeTier struct {
	upToMB     float64
	pagesPerMB float64
}

var (
	pdfTiers = []sizeTier{
		{upToMB: 1, pagesPerMB: 10},
		{upToMB: 5, pagesPerMB: 6},
		{upToMB: 20, pagesPerMB: 4},
		{upToMB: math.Inf(1), pagesPerMB: 2},
	}
	docxTiers = []sizeTier{
		{upToMB: 0.5, pagesPerMB: 60},
		{upToMB: 2, pagesPerMB: 30},
		{upToMB: 10, pagesPerMB: 12},
		{upToMB: math.Inf(1), pagesPerMB: 5},
	}
)

// tieredPages estimates pages from size with marginal tiers: each tier's
// rate applies only to the megabytes inside that tier, so the result never
// decreases as size grows.
func tieredPages(size int64, tiers []sizeTier) int {
	mb := float64(size) / bytesPerMB
	var pages, lower float64
	for _, t := range tiers {
		if mb <= lower {
			break
		}
		upper := math.Min(mb, t.upToMB)
		pages += (upper - lower) * t.pagesPerMB
		lower = t.upToMB
	}
	n := int(math.Ceil(pages))
	if n < 1 {
		return 1
	}
	return n
}
