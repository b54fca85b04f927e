package llm

import (
	"fmt"
	"strings"

	"shopsight/models"
)

// fallbackSummary templates the executive summary from the real KPI figures,
// so the surfaced text always reflects genuine historical numbers even when
// the model path is unavailable.
func fallbackSummary(in SummaryInput) string {
	topSegment := models.MockSegment{Segment: "Core Buyers"}
	if len(in.Segments) > 0 {
		topSegment = in.Segments[0]
	}
	return fmt.Sprintf(
		"%s generated $%.2f in lifetime revenue, with $%.2f in the last 30 days (%.2f%% vs prior period). "+
			"Average selling price holds at $%.2f. Next month we expect roughly $%.2f in revenue (%d units). "+
			"Focus engagement on the %s segment (%d%% of buyers) to maintain momentum.",
		in.ProductName,
		in.Metrics.TotalRevenue,
		in.Metrics.Revenue30d,
		in.Metrics.Revenue30dGrowth,
		in.Metrics.AvgUnitPrice,
		in.Forecast.Revenue,
		in.Forecast.Units,
		topSegment.Segment,
		topSegment.Share,
	)
}

func fallbackCommentary(metrics models.KPISummary) string {
	return fmt.Sprintf(
		"Revenue over the past 30 days is tracking %.1f%% versus the prior month; "+
			"momentum looks steady with minor weekly fluctuations.",
		metrics.Revenue30dGrowth,
	)
}

// fallbackAnswer routes the question by keyword over the real analytics
// context. Every branch grounds its copy in actual metrics.
func fallbackAnswer(in AnswerInput) string {
	question := strings.ToLower(in.Question)

	base := fmt.Sprintf(
		"%s generated $%.0f in the last 30 days (%.1f%% vs. the prior month). ",
		in.ProductName, in.Metrics.Revenue30d, in.Metrics.Revenue30dGrowth,
	)
	forecastLine := fmt.Sprintf(
		"We expect around $%.0f revenue and %d units next month.",
		in.Forecast.Revenue, in.Forecast.Units,
	)

	switch {
	case containsAny(question, "trend", "momentum", "trajectory"):
		return strings.TrimSpace(base + lastWeekDelta(in.RecentWeeks) + " " + forecastLine)
	case containsAny(question, "forecast", "next"):
		return base + forecastLine
	case containsAny(question, "segment", "customer"):
		return base + topSegmentLine(in.Segments)
	case containsAny(question, "channel", "region"):
		return base + topChannelLine(in.ChannelMix)
	case containsAny(question, "what can you do", "help"):
		return "I can summarise performance, call out momentum shifts, highlight key buyer cohorts, " +
			"and forecast next month's sales. Try asking about the revenue trend, top segments, " +
			"or how the forecast looks."
	}

	detail := topSegmentLine(in.Segments)
	if detail == "" {
		detail = topChannelLine(in.ChannelMix)
	}
	return strings.TrimSpace(base + detail + " " + forecastLine)
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lastWeekDelta(recentWeeks []models.TrendPoint) string {
	if len(recentWeeks) < 2 {
		return ""
	}
	latest := recentWeeks[len(recentWeeks)-1].Revenue
	prev := recentWeeks[len(recentWeeks)-2].Revenue
	delta := latest - prev
	var pct float64
	if prev != 0 {
		pct = delta / prev * 100
	}
	direction := "up"
	if delta < 0 {
		direction = "down"
	}
	if pct < 0 {
		pct = -pct
	}
	return fmt.Sprintf("Last week revenue was $%.0f, %s %.1f%% versus the prior week.", latest, direction, pct)
}

func topSegmentLine(segments []models.MockSegment) string {
	if len(segments) == 0 {
		return ""
	}
	return fmt.Sprintf("The leading buyer cohort is %s at %d%% share.", segments[0].Segment, segments[0].Share)
}

func topChannelLine(channelMix []models.MixEntry) string {
	if len(channelMix) == 0 {
		return ""
	}
	return fmt.Sprintf("%s contributes about %.0f%% of revenue.", channelMix[0].Label, channelMix[0].Share)
}
