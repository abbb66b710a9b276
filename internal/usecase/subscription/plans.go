package subscription

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
	"github.com/BruksfildServices01/lefade-api/internal/plans"
)

type ListPlans struct {
	catalog *plans.Catalog
	gateway payments.Gateway
}

func NewListPlans(catalog *plans.Catalog, gateway payments.Gateway) *ListPlans {
	return &ListPlans{catalog: catalog, gateway: gateway}
}

func (uc *ListPlans) Catalog() []models.Plan {
	return uc.catalog.All()
}

// Recurring lists the active recurring prices configured at the provider.
// It falls back to the local catalog when the provider is disabled or
// unreachable.
func (uc *ListPlans) Recurring(ctx context.Context) []payments.Price {
	if uc.gateway != nil && uc.gateway.Enabled() {
		prices, err := uc.gateway.ListRecurringPrices(ctx)
		if err == nil && len(prices) > 0 {
			return prices
		}
		if err != nil && !errors.Is(err, payments.ErrDisabled) {
			logging.FromContext(ctx).Warn().Err(err).Msg("failed to list provider prices, using catalog")
		}
	}

	out := make([]payments.Price, 0)
	for _, p := range uc.catalog.All() {
		out = append(out, payments.Price{
			ID:       p.ID,
			Name:     p.Name,
			Amount:   p.PriceMonthly,
			Interval: "month",
		})
	}
	return out
}
