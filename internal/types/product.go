// Package types defines the shared data model for competitor price tracking.
package types

import "time"

// ProductType classifies a listing as a laptop or desktop machine.
type ProductType string

const (
	ProductTypeLaptop  ProductType = "Laptop"
	ProductTypeDesktop ProductType = "Desktop"
)

// AllowedBrands is the closed brand allow-list. Records from any other
// brand are dropped at the extraction boundary, and dropped again here if
// one slips through.
var AllowedBrands = []string{"Dell", "HP", "Lenovo"}

// IsAllowedBrand reports whether brand is on the allow-list.
func IsAllowedBrand(brand string) bool {
	for _, b := range AllowedBrands {
		if b == brand {
			return true
		}
	}
	return false
}

// ProductConfig is the attribute bag for a listing's hardware configuration.
// Every field is optional; an absent field is encoded as the empty string
// and omitted from JSON. Absence is distinct from a listed-but-unknown
// value and must never be replaced with a placeholder that looks like data.
type ProductConfig struct {
	Processor        string `json:"processor,omitempty"`
	RAM              string `json:"ram,omitempty"`
	Storage          string `json:"storage,omitempty"`
	CosmeticGrade    string `json:"cosmetic_grade,omitempty"`
	FormFactor       string `json:"form_factor,omitempty"`
	ScreenResolution string `json:"screen_resolution,omitempty"`
	ScreenSize       string `json:"screen_size,omitempty"`
}

// ProductRecord is one observed listing on a competitor site.
//
// Price is a pointer because absence means "unknown", never zero.
// URL is always absolute; the extraction boundary resolves relative links
// against the competitor's base URL before a record enters the core.
type ProductRecord struct {
	Competitor   string        `json:"competitor,omitempty"`
	Brand        string        `json:"brand"`
	Model        string        `json:"model"`
	ProductType  ProductType   `json:"product_type"`
	Title        string        `json:"title"`
	Price        *float64      `json:"price,omitempty"`
	URL          string        `json:"url,omitempty"`
	Availability string        `json:"availability,omitempty"`
	Config       ProductConfig `json:"config"`
}

// CompetitorSnapshot is the set of records currently believed true for one
// competitor, plus the change-tracking metadata recorded on every accepted
// update.
type CompetitorSnapshot struct {
	Competitor    string          `json:"competitor"`
	Website       string          `json:"website,omitempty"`
	ScrapeDate    time.Time       `json:"scrape_date"`
	TotalProducts int             `json:"total_products"`
	PreviousCount int             `json:"previous_count"`
	Change        int             `json:"change"`
	Products      []ProductRecord `json:"products"`
}

// Dataset maps competitor name to its current snapshot. It is the durable
// store's in-memory form; the store replaces one competitor's entry
// wholesale on each accepted update.
type Dataset map[string]CompetitorSnapshot

// Clone returns a fully independent deep copy of the dataset. Backups must
// never share slices with the live dataset.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	for name, snap := range d {
		products := make([]ProductRecord, len(snap.Products))
		copy(products, snap.Products)
		for i := range products {
			if p := products[i].Price; p != nil {
				v := *p
				products[i].Price = &v
			}
		}
		snap.Products = products
		out[name] = snap
	}
	return out
}

// Float64Ptr is a convenience helper for building records with a known price.
func Float64Ptr(v float64) *float64 { return &v }
