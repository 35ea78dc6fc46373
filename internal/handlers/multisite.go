package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/refurbtrack/price-tracker/internal/matching"
	"github.com/refurbtrack/price-tracker/internal/types"
)

// SitePrice is one competitor's offer inside a comparison group.
type SitePrice struct {
	Competitor string   `json:"competitor"`
	Title      string   `json:"title"`
	Price      *float64 `json:"price,omitempty"`
	URL        string   `json:"url,omitempty"`
}

// ComparisonGroup is one hardware configuration observed on multiple
// competitor sites.
type ComparisonGroup struct {
	Key         string            `json:"key"`
	Brand       string            `json:"brand"`
	Model       string            `json:"model"`
	ProductType types.ProductType `json:"product_type"`
	Sites       []SitePrice       `json:"sites"`
	LowestPrice *float64          `json:"lowest_price,omitempty"`
}

// MultiSiteResponse is the cross-competitor comparison payload.
type MultiSiteResponse struct {
	Groups []ComparisonGroup `json:"groups"`
	Total  int               `json:"total"`
}

// GetMultiSite godoc
// @Summary Products matched across competitor sites
// @Description Groups products by normalized configuration so the same
// @Description machine listed on several sites appears once with all offers.
// @Tags data
// @Produce json
// @Param min_sites query int false "Minimum number of sites per group" default(2)
// @Success 200 {object} MultiSiteResponse
// @Router /api/multi-site [get]
func (h *Handlers) GetMultiSite(c *gin.Context) {
	minSites := 2
	if raw := c.Query("min_sites"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			minSites = n
		}
	}

	groups := CompareAcrossSites(h.store.Load(), minSites)
	c.JSON(http.StatusOK, MultiSiteResponse{Groups: groups, Total: len(groups)})
}

// CompareAcrossSites groups every product in the dataset by its
// normalized comparison key and keeps groups listed on at least minSites
// distinct competitors. The normalized key tolerates per-site spelling
// differences; the durable store never uses it.
func CompareAcrossSites(data types.Dataset, minSites int) []ComparisonGroup {
	byKey := make(map[string]*ComparisonGroup)
	competitorsPerKey := make(map[string]map[string]struct{})

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, rec := range data[name].Products {
			key := matching.ComparisonKey(rec)
			if key == "" {
				continue
			}

			group, ok := byKey[key]
			if !ok {
				group = &ComparisonGroup{
					Key:         key,
					Brand:       rec.Brand,
					Model:       rec.Model,
					ProductType: rec.ProductType,
				}
				byKey[key] = group
				competitorsPerKey[key] = make(map[string]struct{})
			}
			competitorsPerKey[key][name] = struct{}{}

			group.Sites = append(group.Sites, SitePrice{
				Competitor: name,
				Title:      rec.Title,
				Price:      rec.Price,
				URL:        rec.URL,
			})
			if rec.Price != nil && (group.LowestPrice == nil || *rec.Price < *group.LowestPrice) {
				v := *rec.Price
				group.LowestPrice = &v
			}
		}
	}

	var out []ComparisonGroup
	for key, group := range byKey {
		if len(competitorsPerKey[key]) < minSites {
			continue
		}
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
