package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"shopsight/llm"
	"shopsight/models"
	"shopsight/warehouse"
)

// fakeReader serves a single article from memory.
type fakeReader struct {
	article models.ArticleSummary
	metrics []models.DailyMetric
}

func (f *fakeReader) FindArticles(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	return []models.SearchResult{{
		ProductID:   f.article.ProductID,
		ProductName: f.article.ProductName,
		Category:    f.article.Category,
	}}, nil
}

func (f *fakeReader) GetArticle(ctx context.Context, articleID string) (*models.ArticleSummary, error) {
	if articleID != f.article.ProductID {
		return nil, warehouse.ErrArticleNotFound
	}
	article := f.article
	return &article, nil
}

func (f *fakeReader) DailyMetrics(ctx context.Context, articleID string, from, to time.Time) ([]models.DailyMetric, error) {
	if articleID != f.article.ProductID {
		return nil, warehouse.ErrArticleNotFound
	}
	var out []models.DailyMetric
	for _, m := range f.metrics {
		if !from.IsZero() && m.Date.Before(from) {
			continue
		}
		if !to.IsZero() && m.Date.After(to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func newTestApp() *fiber.App {
	reader := &fakeReader{
		article: models.ArticleSummary{
			ProductID:    "706016001",
			ProductName:  "Classic Tee",
			Category:     "Jersey Basic",
			Department:   "Menswear",
			AvgPrice:     24.99,
			TotalUnits:   6,
			TotalRevenue: 125,
		},
		metrics: []models.DailyMetric{
			{ProductID: "706016001", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Units: 2, Revenue: 40, UnitPrice: 20, Channel: "Online", Region: "US-West"},
			{ProductID: "706016001", Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), Units: 1, Revenue: 25, UnitPrice: 25, Channel: "Retail Store", Region: "Europe"},
			{ProductID: "706016001", Date: time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), Units: 3, Revenue: 60, UnitPrice: 20, Channel: "Online", Region: "US-West"},
		},
	}
	Init(reader, llm.NewOrchestrator("", ""))

	app := fiber.New()
	app.Get("/api/v1/products/search", HandleSearchProducts)
	app.Get("/api/v1/products/:articleId", HandleGetProduct)
	app.Get("/api/v1/products/:articleId/kpis", HandleGetKPIs)
	app.Get("/api/v1/products/:articleId/trend", HandleGetTrend)
	app.Get("/api/v1/products/:articleId/mix", HandleGetMix)
	app.Get("/api/v1/products/:articleId/insights", HandleGetInsights)
	app.Post("/api/v1/products/:articleId/ask", HandleAskProduct)
	return app
}

func bodyJSON(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp)
	assert.NoError(t, err)
	var payload map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestHandleGetProduct(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/706016001", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	payload := bodyJSON(t, resp.Body)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "Classic Tee", data["product_name"])
}

func TestHandleGetProductNotFound(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/999999999", nil))
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleGetKPIs(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/706016001/kpis", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	payload := bodyJSON(t, resp.Body)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, 125.0, data["total_revenue"])
	assert.Equal(t, 6.0, data["total_units"])
}

func TestHandleGetKPIsBadDate(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/706016001/kpis?from=yesterday", nil))
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleGetTrendIncludesGapBucket(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/706016001/trend", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	payload := bodyJSON(t, resp.Body)
	points := payload["data"].(map[string]interface{})["points"].([]interface{})
	assert.Len(t, points, 4)
	gap := points[2].(map[string]interface{})
	assert.Equal(t, 0.0, gap["revenue"])
}

func TestHandleGetTrendBadBucket(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/706016001/trend?bucket=hourly", nil))
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleGetMixSharesSum(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/706016001/mix", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	payload := bodyJSON(t, resp.Body)
	data := payload["data"].(map[string]interface{})
	for _, key := range []string{"channel", "region"} {
		var sum float64
		for _, entry := range data[key].([]interface{}) {
			sum += entry.(map[string]interface{})["share"].(float64)
		}
		assert.InDelta(t, 100.0, sum, 0.01, key)
	}
}

func TestHandleGetInsightsServesFallbackNarrative(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/706016001/insights", nil), 5000)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	payload := bodyJSON(t, resp.Body)
	data := payload["data"].(map[string]interface{})

	narrative := data["narrative"].(map[string]interface{})
	assert.Equal(t, "fallback", narrative["source"])
	assert.Contains(t, narrative["text"], "125.00")

	segments := data["segments"].([]interface{})
	assert.Len(t, segments, 3)

	actions := data["actions"].([]interface{})
	assert.Len(t, actions, 3)

	forecast := data["forecast"].(map[string]interface{})
	assert.Equal(t, "mock_projection", forecast["method"])
}

func TestHandleAskProduct(t *testing.T) {
	app := newTestApp()

	body := bytes.NewBufferString(`{"question": "How is the trend?"}`)
	req := httptest.NewRequest("POST", "/api/v1/products/706016001/ask", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	payload := bodyJSON(t, resp.Body)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "fallback", data["source"])
	assert.NotEmpty(t, data["text"])
}

func TestHandleAskProductMissingQuestion(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/api/v1/products/706016001/ask", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleSearchProducts(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/search?q=tee", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	payload := bodyJSON(t, resp.Body)
	results := payload["data"].([]interface{})
	assert.Len(t, results, 1)
}
