package pricing

import (
	"testing"

	"github.com/Zxen1/Events-Platform-sub002/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ToPricing(t *testing.T) {
	r := newTestRegistry(t)
	seedTemplate(t, r)
	_, _ = r.AddGroup()
	require.NoError(t, r.SetAllocatedAreas("B", true))
	_, _ = r.AddArea("B")
	require.NoError(t, r.RenameArea("B", 1, "VIP"))
	require.NoError(t, r.SetGroupCurrency("B", "EUR"))
	require.NoError(t, r.SetTierCurrency("B", 1, 0, "GBP"))
	require.NoError(t, r.SetTierPrice("B", 1, 0, "99.9"))

	value := r.ToPricing()

	assert.Equal(t, map[string]string{"A": "18+", "B": "18+"}, value.AgeRatings)
	require.Len(t, value.PricingGroups["A"], 1)
	assert.Equal(t, model.AreaValue{
		AllocatedAreas: 0,
		TicketArea:     "General",
		Tiers:          []model.TierValue{{PricingTier: "Early Bird", Currency: "USD", Price: "10.00"}},
	}, value.PricingGroups["A"][0])

	require.Len(t, value.PricingGroups["B"], 2)
	assert.Equal(t, 1, value.PricingGroups["B"][0].AllocatedAreas)
	assert.Equal(t, "EUR", value.PricingGroups["B"][0].Tiers[0].Currency)
	assert.Equal(t, model.TierValue{Currency: "GBP", Price: "99.90"}, value.PricingGroups["B"][1].Tiers[0])
}

func TestRegistry_RoundTrip(t *testing.T) {
	r := newTestRegistry(t)
	seedTemplate(t, r)
	_, _ = r.AddGroup()
	_, _ = r.AddGroup()
	require.NoError(t, r.SetAllocatedAreas("C", true))
	_, _ = r.AddArea("C")
	_, _ = r.AddTier("C", 1)
	require.NoError(t, r.SetTierPrice("C", 1, 1, "4.2"))
	require.NoError(t, r.SetGroupCurrency("B", "EUR"))
	require.NoError(t, r.SetTierCurrency("C", 0, 0, "NZD"))
	first := r.ToPricing()

	restored := newTestRegistry(t)
	mapping := restored.FromPricing(first)

	assert.Equal(t, Relabel{"A": "A", "B": "B", "C": "C"}, mapping)
	assert.Equal(t, first, restored.ToPricing())
	assert.Equal(t, first, restored.ToPricing())
}

func TestRegistry_FromPricing(t *testing.T) {
	t.Run("Success - relabels gaps and truncates undivided extras", func(t *testing.T) {
		r := newTestRegistry(t)

		mapping := r.FromPricing(model.PricingValue{
			PricingGroups: map[string][]model.AreaValue{
				"C": {{AllocatedAreas: 0, TicketArea: "One"}, {AllocatedAreas: 0, TicketArea: "Two"}},
				"A": {{AllocatedAreas: 1, TicketArea: "Floor", Tiers: []model.TierValue{{PricingTier: "Std", Price: "12"}}}},
			},
			AgeRatings: map[string]string{"C": "PG"},
		})

		assert.Equal(t, Relabel{"A": "A", "C": "B"}, mapping)
		b, err := r.Group("B")
		require.NoError(t, err)
		assert.Equal(t, "PG", b.AgeRating)
		require.Len(t, b.Areas(), 1)
		assert.Equal(t, "One", b.Areas()[0].Name)
		assert.Len(t, b.Areas()[0].Tiers, 1)

		a, _ := r.Group("A")
		assert.True(t, a.AllocatedAreas())
		assert.Equal(t, "12.00", a.Areas()[0].Tiers[0].Price)
	})

	t.Run("Success - empty input keeps group A", func(t *testing.T) {
		r := newTestRegistry(t)
		_, _ = r.AddGroup()

		r.FromPricing(model.PricingValue{})

		assert.Equal(t, []string{"A"}, r.GroupKeys())
	})

	t.Run("Success - lifts shared group currency", func(t *testing.T) {
		r := newTestRegistry(t)

		r.FromPricing(model.PricingValue{PricingGroups: map[string][]model.AreaValue{
			"A": {{TicketArea: "x", Tiers: []model.TierValue{{Currency: "EUR"}, {Currency: "EUR"}}}},
		}})

		a, _ := r.Group("A")
		assert.Equal(t, "EUR", a.Currency)
		assert.Equal(t, "", a.Areas()[0].Tiers[1].Currency)
	})
}

func TestDecodePricing(t *testing.T) {
	blob := []byte(`{
		"pricing_groups": {
			"A": [
				{"allocated_areas": "1", "ticket_area": "Floor", "tiers": [{"pricing_tier": "Std", "currency": "USD", "price": "5.00"}, "junk"]},
				{"allocated_areas": true, "ticket_area": "Balcony"},
				42
			],
			"B": "not-an-array",
			"C": [{"allocated_areas": 0, "tiers": []}]
		},
		"age_ratings": {"A": "18+", "B": 7}
	}`)

	value, skipped := DecodePricing(blob)

	assert.Equal(t, 4, skipped)
	require.Len(t, value.PricingGroups["A"], 1)
	assert.Equal(t, 1, value.PricingGroups["A"][0].AllocatedAreas)
	assert.Len(t, value.PricingGroups["A"][0].Tiers, 1)
	assert.NotContains(t, value.PricingGroups, "B")
	assert.Equal(t, "", value.PricingGroups["C"][0].TicketArea)
	assert.Equal(t, map[string]string{"A": "18+"}, value.AgeRatings)

	_, skipped = DecodePricing([]byte(`[1,2]`))
	assert.Equal(t, 1, skipped)
}
