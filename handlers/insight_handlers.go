package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"shopsight/insights"
	"shopsight/llm"
)

// parseDate accepts the date formats the dashboard sends.
func parseDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// dateRange reads the optional from/to query bounds. Zero values leave the
// corresponding bound open.
func dateRange(c *fiber.Ctx) (from, to time.Time, err error) {
	if s := c.Query("from"); s != "" {
		if from, err = parseDate(s); err != nil {
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = parseDate(s); err != nil {
			return
		}
	}
	return
}

// HandleGetKPIs computes the KPI summary for a product.
// GET /api/v1/products/:articleId/kpis?from=&to=
func HandleGetKPIs(c *fiber.Ctx) error {
	articleID := c.Params("articleId")

	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid date format"})
	}

	kpis, err := engine.KPIs(c.Context(), articleID, from, to)
	if err != nil {
		return warehouseError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": kpis})
}

// HandleGetTrend returns the bucketed trend series for a product.
// GET /api/v1/products/:articleId/trend?bucket=weekly|monthly
func HandleGetTrend(c *fiber.Ctx) error {
	articleID := c.Params("articleId")

	bucket := insights.Bucket(c.Query("bucket", string(insights.BucketWeekly)))
	if bucket != insights.BucketWeekly && bucket != insights.BucketMonthly {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "bucket must be 'weekly' or 'monthly'"})
	}

	trend, err := engine.Trend(c.Context(), articleID, bucket)
	if err != nil {
		return warehouseError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"bucket": bucket, "points": trend}})
}

// HandleGetMix returns the channel and region revenue splits for a product.
// GET /api/v1/products/:articleId/mix
func HandleGetMix(c *fiber.Ctx) error {
	articleID := c.Params("articleId")

	channel, region, err := engine.Mixes(c.Context(), articleID)
	if err != nil {
		return warehouseError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"channel": channel, "region": region}})
}

// HandleGetInsights assembles the full insight payload: real KPIs and trend,
// deterministic forecast/segments/actions, and the narrative layer. Mock and
// narrative content never produce an error status; only an unknown product
// id does.
// GET /api/v1/products/:articleId/insights
func HandleGetInsights(c *fiber.Ctx) error {
	ctx := c.Context()
	articleID := c.Params("articleId")

	article, err := store.GetArticle(ctx, articleID)
	if err != nil {
		return warehouseError(c, err)
	}

	metrics, err := store.DailyMetrics(ctx, articleID, time.Time{}, time.Time{})
	if err != nil {
		return warehouseError(c, err)
	}

	kpis := insights.SummaryMetrics(metrics)
	trend := insights.TimeSeries(metrics, insights.BucketWeekly)
	channelMix := insights.ChannelMix(metrics)
	regionMix := insights.RegionMix(metrics)

	forecast := insights.GenerateForecast(article.ProductName, &kpis)
	segments := insights.GenerateSegments(article.ProductName)
	actions := insights.GenerateActions(article.ProductName, &kpis)

	bundle := narrator.Summarise(ctx, llm.SummaryInput{
		ProductName:     article.ProductName,
		Metrics:         kpis,
		Forecast:        forecast,
		Segments:        segments,
		FallbackActions: actions,
	})
	commentary := narrator.TrendCommentary(ctx, article.ProductName, trend, kpis)

	log.Printf("Insights assembled for %s (narrative source: %s)", articleID, bundle.Summary.Source)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"product":     article,
			"kpis":        kpis,
			"trend":       fiber.Map{"bucket": insights.BucketWeekly, "points": trend},
			"channel_mix": channelMix,
			"region_mix":  regionMix,
			"forecast":    forecast,
			"segments":    segments,
			"actions":     bundle.Actions,
			"narrative":   bundle.Summary,
			"commentary":  commentary,
		},
	})
}

// HandleAskProduct answers a free-form question about a product.
// POST /api/v1/products/:articleId/ask
func HandleAskProduct(c *fiber.Ctx) error {
	ctx := c.Context()
	articleID := c.Params("articleId")

	var body struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&body); err != nil || body.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "A question is required"})
	}

	article, err := store.GetArticle(ctx, articleID)
	if err != nil {
		return warehouseError(c, err)
	}

	metrics, err := store.DailyMetrics(ctx, articleID, time.Time{}, time.Time{})
	if err != nil {
		return warehouseError(c, err)
	}

	kpis := insights.SummaryMetrics(metrics)
	answer := narrator.Answer(ctx, llm.AnswerInput{
		ProductName: article.ProductName,
		Question:    body.Question,
		Metrics:     kpis,
		Forecast:    insights.GenerateForecast(article.ProductName, &kpis),
		Segments:    insights.GenerateSegments(article.ProductName),
		RecentWeeks: insights.TimeSeries(metrics, insights.BucketWeekly),
		ChannelMix:  insights.ChannelMix(metrics),
		RegionMix:   insights.RegionMix(metrics),
	})

	return c.JSON(fiber.Map{"success": true, "data": answer})
}
