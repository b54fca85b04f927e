// Package llm produces narrative copy for the dashboard. Every operation
// attempts a single structured call to the configured model and falls back to
// deterministic, metric-grounded templates on any failure: missing
// credential, transport fault, timeout, or a response that does not validate.
// Callers always receive a NarrativeResult; errors never propagate.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"shopsight/models"
)

// Source tags on NarrativeResult.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// requestTimeout bounds every model call so the dashboard never hangs on
// network I/O. A timeout is treated like any other model failure.
const requestTimeout = 12 * time.Second

const maxActions = 3

// Orchestrator drives the model-or-fallback decision. A nil Provider means
// no credential is configured, which is a valid setup: all output then comes
// from the fallback templates.
type Orchestrator struct {
	Provider Provider
	Timeout  time.Duration
}

// NewOrchestrator wires a Gemini provider when an API key is configured and
// leaves the provider nil otherwise.
func NewOrchestrator(apiKey, model string) *Orchestrator {
	o := &Orchestrator{Timeout: requestTimeout}
	if apiKey != "" {
		o.Provider = &GeminiProvider{APIKey: apiKey, Model: model}
	}
	return o
}

func (o *Orchestrator) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return requestTimeout
}

// SummaryInput carries the real figures the summary is grounded in.
type SummaryInput struct {
	ProductName     string
	Metrics         models.KPISummary
	Forecast        models.MockForecast
	Segments        []models.MockSegment
	FallbackActions []models.MockAction
}

// InsightBundle is the executive summary plus its recommended actions.
type InsightBundle struct {
	Summary models.NarrativeResult `json:"summary"`
	Actions []models.MockAction    `json:"actions"`
}

// Summarise produces the executive summary and action list for a product.
// The model is instructed to return a JSON object with 'summary' and
// 'actions'; anything that fails to parse or validate is rejected in favour
// of the deterministic fallback built from the real KPI figures.
func (o *Orchestrator) Summarise(ctx context.Context, in SummaryInput) InsightBundle {
	fallback := InsightBundle{
		Summary: models.NarrativeResult{Text: fallbackSummary(in), Source: SourceFallback},
		Actions: in.FallbackActions,
	}
	if o.Provider == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()

	raw, err := o.Provider.Generate(ctx, summaryPrompt(in))
	if err != nil {
		log.Printf("Narrative model call failed, using fallback: %v", err)
		return fallback
	}

	summary, actions, err := parseSummaryResponse(raw)
	if err != nil {
		log.Printf("Narrative response rejected, using fallback: %v", err)
		return fallback
	}

	bundle := InsightBundle{
		Summary: models.NarrativeResult{Text: summary, Source: SourceModel},
		Actions: fallback.Actions,
	}
	if len(actions) > 0 {
		bundle.Actions = actions
	}
	return bundle
}

// TrendCommentary produces a short note on recent weekly momentum.
func (o *Orchestrator) TrendCommentary(ctx context.Context, productName string, recentWeeks []models.TrendPoint, metrics models.KPISummary) models.NarrativeResult {
	fallback := models.NarrativeResult{Text: fallbackCommentary(metrics), Source: SourceFallback}
	if o.Provider == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()

	raw, err := o.Provider.Generate(ctx, commentaryPrompt(productName, recentWeeks, metrics))
	if err != nil {
		log.Printf("Trend commentary call failed, using fallback: %v", err)
		return fallback
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return fallback
	}
	return models.NarrativeResult{Text: text, Source: SourceModel}
}

// AnswerInput is the full analytics context handed to the copilot.
type AnswerInput struct {
	ProductName string
	Question    string
	Metrics     models.KPISummary
	Forecast    models.MockForecast
	Segments    []models.MockSegment
	RecentWeeks []models.TrendPoint
	ChannelMix  []models.MixEntry
	RegionMix   []models.MixEntry
}

// Answer responds to a free-form question about the product. The fallback
// routes on question keywords over the real metrics, so an answer is always
// available.
func (o *Orchestrator) Answer(ctx context.Context, in AnswerInput) models.NarrativeResult {
	fallback := models.NarrativeResult{Text: fallbackAnswer(in), Source: SourceFallback}
	if o.Provider == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()

	raw, err := o.Provider.Generate(ctx, answerPrompt(in))
	if err != nil {
		log.Printf("Copilot answer call failed, using fallback: %v", err)
		return fallback
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return fallback
	}
	return models.NarrativeResult{Text: text, Source: SourceModel}
}

// --- Prompts ---

func summaryPrompt(in SummaryInput) string {
	prompt, _ := json.MarshalIndent(map[string]interface{}{
		"instruction": "You are an executive retail analytics assistant. Analyse the product performance " +
			"data and produce a concise summary plus up to three recommended actions. " +
			"Return a JSON object with keys 'summary' (string) and 'actions' (list of " +
			"objects with 'title' and 'body'). Ground your response in the numbers provided. " +
			"Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.",
		"context": map[string]interface{}{
			"product":  in.ProductName,
			"metrics":  in.Metrics,
			"forecast": in.Forecast,
			"segments": in.Segments,
		},
		"style": map[string]string{
			"summary_length":      "2 paragraphs max",
			"actions_expectation": "actionable, specific, prioritised",
		},
	}, "", "  ")
	return string(prompt)
}

func commentaryPrompt(productName string, recentWeeks []models.TrendPoint, metrics models.KPISummary) string {
	prompt, _ := json.MarshalIndent(map[string]interface{}{
		"instruction": "You are analysing weekly sales data. Highlight trend changes, spikes, or slowdowns " +
			"in 2 sentences. Use the data provided and avoid generic statements.",
		"product":      productName,
		"recent_weeks": lastWeeks(recentWeeks, 12),
		"latest_metrics": map[string]interface{}{
			"revenue_30d":        metrics.Revenue30d,
			"revenue_30d_growth": metrics.Revenue30dGrowth,
			"units_30d":          metrics.Units30d,
		},
	}, "", "  ")
	return string(prompt)
}

func answerPrompt(in AnswerInput) string {
	prompt, _ := json.MarshalIndent(map[string]interface{}{
		"instruction": "You are an analytics copilot inside a commerce dashboard. " +
			"Answer the user's question using the context provided. " +
			"If data is insufficient, acknowledge the limitation.",
		"context": map[string]interface{}{
			"product":      in.ProductName,
			"metrics":      in.Metrics,
			"forecast":     in.Forecast,
			"segments":     in.Segments,
			"recent_weeks": lastWeeks(in.RecentWeeks, 12),
			"channel_mix":  in.ChannelMix,
			"region_mix":   in.RegionMix,
		},
		"question": in.Question,
	}, "", "  ")
	return string(prompt)
}

func lastWeeks(points []models.TrendPoint, n int) []models.TrendPoint {
	if len(points) > n {
		return points[len(points)-n:]
	}
	return points
}

// --- Response validation ---

// extractJSON trims anything the model wrapped around the JSON object.
func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

// parseSummaryResponse validates the structured summary payload: required
// fields present with the right types, non-empty summary, at most three
// well-formed actions.
func parseSummaryResponse(raw string) (string, []models.MockAction, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return "", nil, errors.New("response contains no JSON object")
	}

	var payload struct {
		Summary string `json:"summary"`
		Actions []struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		} `json:"actions"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return "", nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	summary := strings.TrimSpace(payload.Summary)
	if summary == "" {
		return "", nil, errors.New("response missing summary field")
	}

	actions := make([]models.MockAction, 0, maxActions)
	for _, a := range payload.Actions {
		if a.Title == "" || a.Body == "" {
			continue
		}
		actions = append(actions, models.MockAction{Title: a.Title, Body: a.Body})
		if len(actions) == maxActions {
			break
		}
	}
	return summary, actions, nil
}
