package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/txintel/txintel/internal/model"
)

// insightGenerator produces informational observations about an event. It is
// never gated by approval and never fails a request: any internal panic is
// recovered and downgraded to "no insight produced".
type insightGenerator struct {
	logger *slog.Logger
	cfg    Config
}

func newInsightGenerator(cfg Config, logger *slog.Logger) *insightGenerator {
	return &insightGenerator{logger: logger, cfg: cfg}
}

// EventInsights inspects the event for anomalies and spending patterns. It
// runs concurrently with the categorization path and consumes only the
// immutable event.
func (g *insightGenerator) EventInsights(event model.EventData) (insights []model.AgentInsight) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("insight generation panicked", "panic", r)
			insights = nil
		}
	}()

	if !event.HasTransaction() {
		return nil
	}
	txn := *event.Transaction

	if g.cfg.AnomalyDetection {
		if insight := g.anomalyInsight(txn, event.Payload); insight != nil {
			insights = append(insights, *insight)
		}
	}
	if g.cfg.PatternInsights {
		if insight := g.patternInsight(txn, event.Payload); insight != nil {
			insights = append(insights, *insight)
		}
	}
	return insights
}

// anomalyInsight flags transactions whose magnitude exceeds the configured
// multiple of the caller-supplied recent average for the category. Without an
// average in the payload there is nothing to compare against.
func (g *insightGenerator) anomalyInsight(txn model.TransactionData, payload map[string]any) *model.AgentInsight {
	average, ok := recentAverage(txn.Category, payload)
	if !ok || average.IsZero() {
		return nil
	}

	amount := txn.Amount.Abs()
	threshold := average.Abs().Mul(decimal.NewFromFloat(g.cfg.AnomalyMultiplier))
	if amount.LessThanOrEqual(threshold) {
		return nil
	}

	ratio := amount.Div(average.Abs())
	return &model.AgentInsight{
		Type:  model.InsightAnomaly,
		Title: "Unusually large transaction",
		Description: fmt.Sprintf("Amount %s is %sx the recent average of %s for this category.",
			amount.StringFixed(2), ratio.StringFixed(1), average.Abs().StringFixed(2)),
		Confidence: 0.8,
		Data: map[string]any{
			"transaction_id": txn.ID,
			"amount":         amount.String(),
			"recent_average": average.Abs().String(),
			"multiplier":     g.cfg.AnomalyMultiplier,
		},
	}
}

// patternInsight flags recurring charges. The caller supplies recent
// descriptions in the payload; three or more case-insensitive matches with
// the current description counts as a recurring pattern.
func (g *insightGenerator) patternInsight(txn model.TransactionData, payload map[string]any) *model.AgentInsight {
	raw, ok := payload["recent_descriptions"].([]any)
	if !ok {
		return nil
	}

	current := strings.ToLower(strings.TrimSpace(txn.Description))
	if current == "" {
		return nil
	}

	occurrences := 0
	for _, entry := range raw {
		if s, ok := entry.(string); ok && strings.ToLower(strings.TrimSpace(s)) == current {
			occurrences++
		}
	}
	if occurrences < 3 {
		return nil
	}

	return &model.AgentInsight{
		Type:        model.InsightPattern,
		Title:       "Recurring transaction",
		Description: fmt.Sprintf("Seen %d recent transactions matching %q; this looks like a recurring charge.", occurrences, txn.Description),
		Confidence:  0.7,
		Data: map[string]any{
			"transaction_id": txn.ID,
			"occurrences":    occurrences,
		},
	}
}

// DecisionInsight summarizes which signal source decided the categorization,
// for transparency. Runs after the categorization path resolves.
func (g *insightGenerator) DecisionInsight(decision model.Decision) model.AgentInsight {
	return model.AgentInsight{
		Type:        model.InsightCategorization,
		Title:       fmt.Sprintf("Categorized as %s", decision.Category),
		Description: decision.Reasoning,
		Confidence:  decision.Confidence,
		Data: map[string]any{
			"category": decision.Category,
			"source":   string(decision.Source),
		},
	}
}

// recentAverage pulls the caller-supplied spending average for the category
// from the event payload. Two shapes are accepted: a flat "recent_average"
// number, or a "category_averages" map keyed by category name.
func recentAverage(category string, payload map[string]any) (decimal.Decimal, bool) {
	if payload == nil {
		return decimal.Decimal{}, false
	}
	if raw, ok := payload["recent_average"]; ok {
		return toDecimal(raw)
	}
	if averages, ok := payload["category_averages"].(map[string]any); ok && category != "" {
		if raw, ok := averages[category]; ok {
			return toDecimal(raw)
		}
	}
	return decimal.Decimal{}, false
}

func toDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case decimal.Decimal:
		return v, true
	default:
		return decimal.Decimal{}, false
	}
}
