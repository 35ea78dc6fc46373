// Package extract turns fetched listing pages into product records. Two
// extractors exist: a heuristic one driven by text patterns, and one that
// delegates to an LLM endpoint with a strict JSON Schema. Both sit behind
// the same interface so the pipeline does not care which produced a page's
// records.
package extract

import (
	"context"

	"github.com/refurbtrack/price-tracker/internal/types"
)

// Page is the reduced text of one fetched listing page plus the context
// the extractor needs to build complete records.
type Page struct {
	Competitor  string
	BaseURL     string
	URL         string
	ProductType types.ProductType
	Text        string
}

// Extractor produces product records from one page.
type Extractor interface {
	Extract(ctx context.Context, page Page) ([]types.ProductRecord, error)
}

// Fetcher retrieves raw page bodies. Implemented by the paced HTTP
// client; narrowed here so tests can stub it.
type Fetcher interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}
