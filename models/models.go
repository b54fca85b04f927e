package models

import "time"

// --- Catalog ---

// ArticleSummary holds curated product metadata sourced from the warehouse.
// Rows are immutable once ingested.
type ArticleSummary struct {
	ProductID    string     `json:"product_id"`
	ProductName  string     `json:"product_name"`
	Category     string     `json:"category"`
	Department   string     `json:"department"`
	AvgPrice     float64    `json:"avg_price"`
	TotalUnits   int        `json:"total_units"`
	TotalRevenue float64    `json:"total_revenue"`
	FirstSale    *time.Time `json:"first_sale,omitempty"`
	LastSale     *time.Time `json:"last_sale,omitempty"`
}

// SearchResult is a catalog search hit, grouped by product name with a
// colour-aware descriptor.
type SearchResult struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Descriptor  string `json:"descriptor"`
}

// --- Warehouse rows ---

// DailyMetric is one day of aggregated sales for an article on a given
// channel/region split. Rows come back date ascending per article.
type DailyMetric struct {
	ProductID string    `json:"product_id"`
	Date      time.Time `json:"transaction_date"`
	Units     int       `json:"units"`
	Revenue   float64   `json:"gross_revenue"`
	UnitPrice float64   `json:"unit_price"`
	Channel   string    `json:"channel"`
	Region    string    `json:"region"`
}

// --- Derived analytics ---

// KPISummary holds the headline numbers for a product over a period.
// Recomputed on every request, no independent lifecycle.
type KPISummary struct {
	TotalRevenue      float64   `json:"total_revenue"`
	TotalUnits        int       `json:"total_units"`
	AverageOrderValue float64   `json:"average_order_value"`
	AvgUnitPrice      float64   `json:"avg_unit_price"`
	GrossMarginPct    float64   `json:"gross_margin_pct"`
	Revenue30d        float64   `json:"revenue_30d"`
	Revenue30dGrowth  float64   `json:"revenue_30d_growth"`
	Units30d          int       `json:"units_30d"`
	Units30dGrowth    float64   `json:"units_30d_growth"`
	PeriodStart       time.Time `json:"period_start"`
	PeriodEnd         time.Time `json:"period_end"`
}

// TrendPoint is one fixed-width bucket in a chronological trend series.
type TrendPoint struct {
	PeriodStart time.Time `json:"period_start"`
	Revenue     float64   `json:"revenue"`
	Units       int       `json:"units"`
}

// MixEntry is a revenue share split along one dimension (channel or region).
type MixEntry struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Share   float64 `json:"share"`
}

// --- Mock insight payloads ---

// MockForecast is a deterministic forward projection keyed by product
// identity. Identical product name always yields an identical payload.
type MockForecast struct {
	PeriodLabel string  `json:"period"`
	Revenue     float64 `json:"forecast_revenue"`
	RevenueLow  float64 `json:"forecast_revenue_low"`
	RevenueHigh float64 `json:"forecast_revenue_high"`
	Units       int     `json:"forecast_units"`
	UnitsLow    int     `json:"forecast_units_low"`
	UnitsHigh   int     `json:"forecast_units_high"`
	Method      string  `json:"method"`
}

// MockSegment is one buyer persona with its weight share in percent.
type MockSegment struct {
	Segment string `json:"segment"`
	Share   int    `json:"share"`
	Traits  string `json:"traits"`
}

// MockAction is a single recommended-action card.
type MockAction struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// --- Narrative ---

// NarrativeResult carries generated copy plus its provenance so callers can
// distinguish live model output from the deterministic fallback.
type NarrativeResult struct {
	Text   string `json:"text"`
	Source string `json:"source"` // "model" or "fallback"
}
