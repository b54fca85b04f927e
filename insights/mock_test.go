package insights

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"shopsight/models"
)

func TestGenerateForecastDeterministic(t *testing.T) {
	first := GenerateForecast("Classic Tee", nil)
	second := GenerateForecast("Classic Tee", nil)
	assert.Equal(t, first, second)

	kpis := &models.KPISummary{Revenue30d: 1000, Units30d: 40}
	withBase := GenerateForecast("Classic Tee", kpis)
	withBaseAgain := GenerateForecast("Classic Tee", kpis)
	assert.Equal(t, withBase, withBaseAgain)
}

func TestGenerateForecastVariesByProduct(t *testing.T) {
	a := GenerateForecast("Classic Tee", nil)
	b := GenerateForecast("Jade Denim", nil)
	assert.NotEqual(t, a, b)
}

func TestGenerateForecastGrowthBounds(t *testing.T) {
	kpis := &models.KPISummary{Revenue30d: 1000, Units30d: 100}
	for _, name := range []string{"Classic Tee", "Jade Denim", "Ultraboost", "Strap top", "Hoka One"} {
		forecast := GenerateForecast(name, kpis)
		assert.GreaterOrEqual(t, forecast.Revenue, 950.0, name)
		assert.LessOrEqual(t, forecast.Revenue, 1150.0, name)
		assert.GreaterOrEqual(t, forecast.Units, 95, name)
		assert.LessOrEqual(t, forecast.Units, 115, name)
	}
}

func TestGenerateForecastInternallyConsistent(t *testing.T) {
	forecast := GenerateForecast("Classic Tee", &models.KPISummary{Revenue30d: 5000, Units30d: 120})

	assert.Equal(t, "Next 30 Days", forecast.PeriodLabel)
	assert.Equal(t, MockMethod, forecast.Method)
	assert.LessOrEqual(t, forecast.RevenueLow, forecast.Revenue)
	assert.GreaterOrEqual(t, forecast.RevenueHigh, forecast.Revenue)
	assert.LessOrEqual(t, forecast.UnitsLow, forecast.Units)
	assert.GreaterOrEqual(t, forecast.UnitsHigh, forecast.Units)
	assert.GreaterOrEqual(t, forecast.UnitsLow, 0)
	assert.GreaterOrEqual(t, forecast.RevenueLow, 0.0)
}

func TestGenerateForecastWithoutKPIsUsesSyntheticBaseline(t *testing.T) {
	// no KPIs degrades quality, never availability
	forecast := GenerateForecast("Classic Tee", nil)
	assert.Greater(t, forecast.Revenue, 0.0)
	assert.Greater(t, forecast.Units, 0)

	// zero-valued KPIs fall through to the synthetic baseline too
	zero := GenerateForecast("Classic Tee", &models.KPISummary{})
	assert.Equal(t, forecast, zero)
}

func TestGenerateSegments(t *testing.T) {
	segments := GenerateSegments("Classic Tee")
	assert.Len(t, segments, 3)

	total := 0
	for _, segment := range segments {
		total += segment.Share
		assert.GreaterOrEqual(t, segment.Share, 10, segment.Segment)
		assert.LessOrEqual(t, segment.Share, 60, segment.Segment)
		assert.NotEmpty(t, segment.Traits)
	}
	assert.Equal(t, 100, total)
}

func TestGenerateSegmentsDeterministic(t *testing.T) {
	assert.Equal(t, GenerateSegments("Classic Tee"), GenerateSegments("Classic Tee"))
}

func TestGenerateSegmentsBoundsAcrossProducts(t *testing.T) {
	for _, name := range []string{"Classic Tee", "Jade Denim", "Ultraboost", "Strap top", "Hoka One", "P-3050"} {
		total := 0
		for _, segment := range GenerateSegments(name) {
			total += segment.Share
			assert.GreaterOrEqual(t, segment.Share, 10, name)
			assert.LessOrEqual(t, segment.Share, 60, name)
		}
		assert.Equal(t, 100, total, name)
	}
}

func TestGenerateActions(t *testing.T) {
	actions := GenerateActions("Classic Tee", nil)
	assert.Len(t, actions, 3)
	for _, action := range actions {
		assert.NotEmpty(t, action.Title)
		assert.True(t, strings.Contains(action.Body, "Classic Tee"), action.Title)
	}

	// deterministic, and KPI availability does not change the selection
	assert.Equal(t, actions, GenerateActions("Classic Tee", &models.KPISummary{TotalRevenue: 10}))
}

func TestProductSeedStable(t *testing.T) {
	assert.Equal(t, ProductSeed("Classic Tee"), ProductSeed("Classic Tee"))
	assert.NotEqual(t, ProductSeed("Classic Tee"), ProductSeed("classic tee"))
}
