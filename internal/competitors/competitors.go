// Package competitors holds the registry of tracked competitor sites and
// the URL mechanics for walking their paginated listings.
package competitors

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/refurbtrack/price-tracker/internal/types"
)

// Listing is one paginated category page on a competitor site, tagged
// with the product type its records should carry.
type Listing struct {
	URL         string
	ProductType types.ProductType
}

// Competitor describes one tracked site.
type Competitor struct {
	Name     string
	BaseURL  string
	Listings []Listing
}

// Registry is the closed set of tracked competitors, keyed by name.
// Order matters for scraping, so iteration goes through Names.
var registry = []Competitor{
	{
		Name:    "PCLiquidations",
		BaseURL: "https://www.pcliquidations.com",
		Listings: []Listing{
			{URL: "https://www.pcliquidations.com/refurbished-laptops", ProductType: types.ProductTypeLaptop},
			{URL: "https://www.pcliquidations.com/refurbished-desktop-computers", ProductType: types.ProductTypeDesktop},
		},
	},
	{
		Name:    "DiscountElectronics",
		BaseURL: "https://discountelectronics.com",
		Listings: []Listing{
			{URL: "https://discountelectronics.com/refurbished-laptops/", ProductType: types.ProductTypeLaptop},
			{URL: "https://discountelectronics.com/refurbished-computers/", ProductType: types.ProductTypeDesktop},
		},
	},
	{
		Name:    "SystemLiquidation",
		BaseURL: "https://systemliquidation.com",
		Listings: []Listing{
			{URL: "https://systemliquidation.com/collections/refurbished-laptops", ProductType: types.ProductTypeLaptop},
			{URL: "https://systemliquidation.com/collections/refurbished-mobile-workstations", ProductType: types.ProductTypeLaptop},
			{URL: "https://systemliquidation.com/collections/refurbished-desktop-computers", ProductType: types.ProductTypeDesktop},
		},
	},
	{
		Name:    "DellRefurbished",
		BaseURL: "https://www.dellrefurbished.com",
		Listings: []Listing{
			{URL: "https://www.dellrefurbished.com/laptops", ProductType: types.ProductTypeLaptop},
			{URL: "https://www.dellrefurbished.com/desktop-computers", ProductType: types.ProductTypeDesktop},
			{URL: "https://www.dellrefurbished.com/computer-workstation", ProductType: types.ProductTypeDesktop},
		},
	},
	{
		Name:    "DiscountPC",
		BaseURL: "https://discountpc.com",
		Listings: []Listing{
			{URL: "https://discountpc.com/collections/laptops", ProductType: types.ProductTypeLaptop},
			{URL: "https://discountpc.com/collections/desktops", ProductType: types.ProductTypeDesktop},
		},
	},
	{
		Name:    "EvergreenElectronics",
		BaseURL: "https://evergreenelectronics.com",
		Listings: []Listing{
			{URL: "https://evergreenelectronics.com/collections/certified-refurbished-laptops", ProductType: types.ProductTypeLaptop},
			{URL: "https://evergreenelectronics.com/collections/windows-11-computers", ProductType: types.ProductTypeDesktop},
		},
	},
}

// All returns every tracked competitor in scraping order.
func All() []Competitor {
	out := make([]Competitor, len(registry))
	copy(out, registry)
	return out
}

// Names returns competitor names in scraping order.
func Names() []string {
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = c.Name
	}
	return names
}

// Get looks up a competitor by name.
func Get(name string) (Competitor, error) {
	for _, c := range registry {
		if c.Name == name {
			return c, nil
		}
	}
	return Competitor{}, fmt.Errorf("unknown competitor %q (available: %s)", name, strings.Join(Names(), ", "))
}

// PageURL builds the URL for the nth page of a listing. Page 1 is the
// listing URL itself; later pages append a page query parameter, reusing
// "&" when the URL already carries a query string.
func PageURL(listingURL string, page int) string {
	if page <= 1 {
		return listingURL
	}
	sep := "?"
	if strings.Contains(listingURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", listingURL, sep, page)
}

// AbsoluteURL resolves a possibly relative product link against the
// competitor's base URL. Absolute links pass through untouched, and an
// unparseable link is returned as-is rather than guessed at.
func (c Competitor) AbsoluteURL(link string) string {
	if link == "" {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	if ref.IsAbs() {
		return link
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}
