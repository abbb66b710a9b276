// Package plans holds the two subscription tiers sold by the shop.
package plans

import (
	"sort"

	"github.com/BruksfildServices01/lefade-api/internal/models"
)

const (
	Standard = "standard"
	Deluxe   = "deluxe"
)

// Catalog is read-only after construction.
type Catalog struct {
	byID map[string]models.Plan
}

// NewCatalog builds the catalog with the external billing price references
// configured for this deployment.
func NewCatalog(standardPriceRef, deluxePriceRef string) *Catalog {
	return &Catalog{byID: map[string]models.Plan{
		Standard: {
			ID:               Standard,
			Name:             "Standard",
			PriceMonthly:     3999,
			CutsPerMonth:     2,
			IsHome:           false,
			ExternalPriceRef: standardPriceRef,
		},
		Deluxe: {
			ID:               Deluxe,
			Name:             "Deluxe",
			PriceMonthly:     6000,
			CutsPerMonth:     2,
			IsHome:           true,
			ExternalPriceRef: deluxePriceRef,
		},
	}}
}

func (c *Catalog) Get(id string) (models.Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All returns the plans ordered by price.
func (c *Catalog) All() []models.Plan {
	out := make([]models.Plan, 0, len(c.byID))
	for _, p := range c.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PriceMonthly < out[j].PriceMonthly
	})
	return out
}

// ByPriceRef resolves a plan from the external price reference.
func (c *Catalog) ByPriceRef(ref string) (models.Plan, bool) {
	if ref == "" {
		return models.Plan{}, false
	}
	for _, p := range c.byID {
		if p.ExternalPriceRef == ref {
			return p, true
		}
	}
	return models.Plan{}, false
}
