package insights

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"

	"shopsight/models"
	"shopsight/utils"
)

// MockMethod tags payloads produced by the deterministic generator.
const MockMethod = "mock_projection"

// ProductSeed reduces a product name to a stable integer seed via SHA-1.
// Everything pseudo-random-looking in the mock payloads is fixed arithmetic
// over this seed, so identical names yield bit-identical output across runs.
func ProductSeed(productName string) uint64 {
	digest := sha1.Sum([]byte(productName))
	return binary.BigEndian.Uint64(digest[:8])
}

// seedFraction maps a slice of the seed onto [0, 1) with four decimal digits
// of resolution. The salt selects independent slices for different values.
func seedFraction(seed, salt uint64) float64 {
	return float64((seed/(salt*7+1))%10000) / 10000
}

// GenerateForecast projects the next 30 days for a product. When KPIs are
// available the projection anchors on the real 30-day revenue (or lifetime
// revenue for products without recent sales); otherwise a seed-derived
// synthetic baseline keeps the payload available. The seeded growth factor is
// bounded to [-5%, +15%].
func GenerateForecast(productName string, kpis *models.KPISummary) models.MockForecast {
	seed := ProductSeed(productName)

	baseRevenue := float64(40000 + seed%25000)
	baseUnits := float64(900 + seed%350)
	if kpis != nil {
		switch {
		case kpis.Revenue30d > 0:
			baseRevenue = kpis.Revenue30d
		case kpis.TotalRevenue > 0:
			baseRevenue = kpis.TotalRevenue
		}
		switch {
		case kpis.Units30d > 0:
			baseUnits = float64(kpis.Units30d)
		case kpis.TotalUnits > 0:
			baseUnits = float64(kpis.TotalUnits)
		}
	}

	revenueGrowth := -0.05 + 0.20*seedFraction(seed, 1)
	unitsGrowth := -0.05 + 0.20*seedFraction(seed, 2)

	revenue := utils.Round2(baseRevenue * (1 + revenueGrowth))
	units := int(baseUnits*(1+unitsGrowth) + 0.5)

	revenueCI := max(revenue*0.12, 3500)
	unitsCI := max(int(float64(units)*0.15), 45)

	return models.MockForecast{
		PeriodLabel: "Next 30 Days",
		Revenue:     revenue,
		RevenueLow:  utils.Round2(max(revenue-revenueCI, 0)),
		RevenueHigh: utils.Round2(revenue + revenueCI),
		Units:       units,
		UnitsLow:    max(units-unitsCI, 0),
		UnitsHigh:   units + unitsCI,
		Method:      MockMethod,
	}
}

// GenerateSegments returns the three fixed buyer archetypes with seeded
// weight splits. Each weight lands in [10, 60] and the three always sum to
// exactly 100.
func GenerateSegments(productName string) []models.MockSegment {
	seed := ProductSeed(productName)
	first := int(20 + seed%26)       // [20, 45]
	second := int(20 + (seed/26)%26) // [20, 45]
	third := 100 - first - second    // [10, 60]

	return []models.MockSegment{
		{
			Segment: "Digital Loyalists",
			Share:   first,
			Traits:  "Frequent shoppers who engage with push alerts and in-app exclusives.",
		},
		{
			Segment: "Store Stylists",
			Share:   second,
			Traits:  "Prefer in-store styling sessions and tactile experiences before purchasing.",
		},
		{
			Segment: "Seasonal Gifters",
			Share:   third,
			Traits:  "Buy around key holidays; respond well to curated gift guides and bundles.",
		},
	}
}

// actionCatalog is the fixed set of guidance cards. Selection rotates through
// it from a seed-derived starting index; no card content depends on KPIs.
var actionCatalog = []models.MockAction{
	{
		Title: "Cross-Sell Opportunity",
		Body: "Merchandising teams can bundle %s with complementary accessories to grow average order value. " +
			"Position curated looks on product detail pages and at checkout to save shoppers time.",
	},
	{
		Title: "Inventory Planning",
		Body: "Supply planners should maintain roughly two weeks of forward cover in regional hubs to stay ahead of demand spikes for %s. " +
			"Prioritise store-to-store transfers before triggering new buys to protect margin.",
	},
	{
		Title: "Marketing Insight",
		Body: "Growth marketing can re-engage lapsed %s purchasers with a limited-time offer and refreshed creative. " +
			"Highlight comfort and versatility across channels to reinforce value.",
	},
	{
		Title: "Price & Promo Review",
		Body: "Pricing teams should compare %s against category benchmarks before the next markdown window. " +
			"Test a modest bundle discount ahead of broad price cuts to protect perceived value.",
	},
	{
		Title: "Channel Rebalance",
		Body: "Allocation planners can shift %s inventory toward the strongest-converting channel for the coming period. " +
			"Review weekly sell-through before committing replenishment volume.",
	},
}

// GenerateActions picks three consecutive cards from the catalog starting at
// a seed-derived index. KPI availability changes nothing about the selection;
// this component never fails on a well-formed product name.
func GenerateActions(productName string, kpis *models.KPISummary) []models.MockAction {
	seed := ProductSeed(productName)
	start := int(seed % uint64(len(actionCatalog)))

	actions := make([]models.MockAction, 0, 3)
	for i := 0; i < 3; i++ {
		card := actionCatalog[(start+i)%len(actionCatalog)]
		actions = append(actions, models.MockAction{
			Title: card.Title,
			Body:  fmt.Sprintf(card.Body, productName),
		})
	}
	return actions
}
