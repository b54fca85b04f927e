// Package insights computes product-level KPIs and trend series from the
// warehouse's daily metric rows, and generates the deterministic mock
// payloads (forecast, personas, actions) the dashboard shows alongside them.
package insights

import (
	"context"
	"sort"
	"time"

	"shopsight/models"
	"shopsight/utils"
	"shopsight/warehouse"
)

// GrossMarginPct is a fixed demo constant; margin data is not in the
// warehouse.
const GrossMarginPct = 38.0

// Bucket selects the trend aggregation width.
type Bucket string

const (
	BucketWeekly  Bucket = "weekly"
	BucketMonthly Bucket = "monthly"
)

// Engine computes KPIs and trends for one article at a time. It holds no
// state beyond the reader, so a single Engine is safe for concurrent use.
type Engine struct {
	Warehouse warehouse.Reader
}

func NewEngine(r warehouse.Reader) *Engine {
	return &Engine{Warehouse: r}
}

// KPIs aggregates the article's daily metrics into a KPISummary. Unknown
// article ids fail with warehouse.ErrArticleNotFound.
func (e *Engine) KPIs(ctx context.Context, articleID string, from, to time.Time) (*models.KPISummary, error) {
	if _, err := e.Warehouse.GetArticle(ctx, articleID); err != nil {
		return nil, err
	}
	metrics, err := e.Warehouse.DailyMetrics(ctx, articleID, from, to)
	if err != nil {
		return nil, err
	}
	summary := SummaryMetrics(metrics)
	return &summary, nil
}

// Trend returns the article's bucketed trend series over its full history.
func (e *Engine) Trend(ctx context.Context, articleID string, bucket Bucket) ([]models.TrendPoint, error) {
	if _, err := e.Warehouse.GetArticle(ctx, articleID); err != nil {
		return nil, err
	}
	metrics, err := e.Warehouse.DailyMetrics(ctx, articleID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	return TimeSeries(metrics, bucket), nil
}

// Mixes returns the channel and region revenue splits for an article.
func (e *Engine) Mixes(ctx context.Context, articleID string) (channel, region []models.MixEntry, err error) {
	if _, err := e.Warehouse.GetArticle(ctx, articleID); err != nil {
		return nil, nil, err
	}
	metrics, err := e.Warehouse.DailyMetrics(ctx, articleID, time.Time{}, time.Time{})
	if err != nil {
		return nil, nil, err
	}
	return ChannelMix(metrics), RegionMix(metrics), nil
}

// SummaryMetrics aggregates daily metric rows into the headline KPI set.
// Figures equal a direct sum over the rows: channel/region splits are part of
// the row key, so nothing is double counted. Average order value is defined
// as 0 when no units were sold.
func SummaryMetrics(metrics []models.DailyMetric) models.KPISummary {
	var summary models.KPISummary
	summary.GrossMarginPct = GrossMarginPct
	if len(metrics) == 0 {
		return summary
	}

	var totalRevenue, priceSum float64
	var totalUnits int
	for _, m := range metrics {
		totalRevenue += m.Revenue
		totalUnits += m.Units
		priceSum += m.UnitPrice
	}

	summary.TotalRevenue = utils.Round2(totalRevenue)
	summary.TotalUnits = totalUnits
	summary.AvgUnitPrice = utils.Round2(priceSum / float64(len(metrics)))
	if totalUnits > 0 {
		summary.AverageOrderValue = utils.Round2(totalRevenue / float64(totalUnits))
	}
	summary.PeriodStart = metrics[0].Date
	summary.PeriodEnd = metrics[len(metrics)-1].Date

	// Last-30-days window vs the 30 days before it, anchored at the most
	// recent sale date.
	end := summary.PeriodEnd
	recentStart := end.AddDate(0, 0, -30)
	prevStart := recentStart.AddDate(0, 0, -30)

	var recentRevenue, prevRevenue float64
	var recentUnits, prevUnits int
	for _, m := range metrics {
		switch {
		case m.Date.After(recentStart):
			recentRevenue += m.Revenue
			recentUnits += m.Units
		case m.Date.After(prevStart):
			prevRevenue += m.Revenue
			prevUnits += m.Units
		}
	}

	summary.Revenue30d = utils.Round2(recentRevenue)
	summary.Revenue30dGrowth = utils.GrowthPct(recentRevenue, prevRevenue)
	summary.Units30d = recentUnits
	summary.Units30dGrowth = utils.GrowthPct(float64(recentUnits), float64(prevUnits))
	return summary
}

// TimeSeries aggregates daily rows into fixed-width buckets for charting.
// The series is chronological and contiguous: buckets with no sales are
// synthesized with zero values so chart gaps are explicit, never dropped.
func TimeSeries(metrics []models.DailyMetric, bucket Bucket) []models.TrendPoint {
	if len(metrics) == 0 {
		return []models.TrendPoint{}
	}

	type agg struct {
		revenue float64
		units   int
	}
	buckets := make(map[time.Time]*agg)
	first := bucketStart(metrics[0].Date, bucket)
	last := first
	for _, m := range metrics {
		start := bucketStart(m.Date, bucket)
		if start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
		entry, ok := buckets[start]
		if !ok {
			entry = &agg{}
			buckets[start] = entry
		}
		entry.revenue += m.Revenue
		entry.units += m.Units
	}

	series := make([]models.TrendPoint, 0, len(buckets))
	for start := first; !start.After(last); start = nextBucket(start, bucket) {
		point := models.TrendPoint{PeriodStart: start}
		if entry, ok := buckets[start]; ok {
			point.Revenue = utils.Round2(entry.revenue)
			point.Units = entry.units
		}
		series = append(series, point)
	}
	return series
}

// bucketStart truncates a date to its bucket boundary: Monday for weekly
// buckets, the first of the month for monthly ones.
func bucketStart(t time.Time, bucket Bucket) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if bucket == BucketMonthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func nextBucket(start time.Time, bucket Bucket) time.Time {
	if bucket == BucketMonthly {
		return start.AddDate(0, 1, 0)
	}
	return start.AddDate(0, 0, 7)
}

// ChannelMix splits revenue by sales channel.
func ChannelMix(metrics []models.DailyMetric) []models.MixEntry {
	return revenueMix(metrics, func(m models.DailyMetric) string { return m.Channel })
}

// RegionMix splits revenue by region bucket.
func RegionMix(metrics []models.DailyMetric) []models.MixEntry {
	return revenueMix(metrics, func(m models.DailyMetric) string { return m.Region })
}

// revenueMix groups revenue by a label and attaches each group's share of the
// total in percent. Shares always sum to 100 for non-empty input: rounding
// residue is folded into the largest entry.
func revenueMix(metrics []models.DailyMetric, label func(models.DailyMetric) string) []models.MixEntry {
	grouped := make(map[string]float64)
	var order []string
	var total float64
	for _, m := range metrics {
		key := label(m)
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] += m.Revenue
		total += m.Revenue
	}
	if len(grouped) == 0 {
		return []models.MixEntry{}
	}
	if total == 0 {
		total = 1.0
	}

	entries := make([]models.MixEntry, 0, len(grouped))
	for _, key := range order {
		entries = append(entries, models.MixEntry{
			Label:   key,
			Revenue: utils.Round2(grouped[key]),
			Share:   utils.Round2(grouped[key] / total * 100),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Revenue > entries[j].Revenue })

	var shareSum float64
	for _, e := range entries {
		shareSum += e.Share
	}
	entries[0].Share = utils.Round2(entries[0].Share + 100 - shareSum)
	return entries
}
