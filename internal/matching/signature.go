// Package matching builds stable product identities so the same physical
// configuration observed on different scrapes, or on different competitor
// sites, resolves to the same key.
package matching

import (
	"strings"

	"github.com/refurbtrack/price-tracker/internal/types"
)

// Signature returns the canonical identity string for a product record.
//
// The signature is the "|"-joined sequence of the lowercased, trimmed
// brand, model, product type, processor, RAM and storage, in that order.
// Absent fields are skipped entirely rather than encoded as a sentinel:
// "dell|latitude 5400|laptop" and "dell|latitude 5400|laptop|i5-8350u"
// are distinct identities, and an unknown processor can never collide
// with a listed one.
//
// The function is pure and total. It never consults price, title, URL or
// availability, so a price change or retitle never changes identity.
func Signature(r types.ProductRecord) string {
	parts := make([]string, 0, 6)
	for _, field := range []string{
		r.Brand,
		r.Model,
		string(r.ProductType),
		r.Config.Processor,
		r.Config.RAM,
		r.Config.Storage,
	} {
		v := strings.ToLower(strings.TrimSpace(field))
		if v == "" {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "|")
}

// ComparisonKey returns a looser, normalized identity used for
// cross-competitor price comparison. Unlike Signature it runs each field
// through the domain normalizers, so "Intel Core i5-8350U" on one site and
// "i5 8350U" on another land on the same key. It is intentionally NOT used
// for persistence identity; the durable merge key must be conservative.
func ComparisonKey(r types.ProductRecord) string {
	parts := make([]string, 0, 6)
	for _, v := range []string{
		NormalizeBrand(r.Brand),
		NormalizeModel(r.Model),
		strings.ToLower(string(r.ProductType)),
		NormalizeProcessor(r.Config.Processor),
		NormalizeRAM(r.Config.RAM),
		NormalizeStorage(r.Config.Storage),
	} {
		if v == "" {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "|")
}

// CountDistinct returns the number of distinct signatures in records.
// Used when reporting how many unique configurations a scrape produced.
func CountDistinct(records []types.ProductRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[Signature(r)] = struct{}{}
	}
	return len(seen)
}
