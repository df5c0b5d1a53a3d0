package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/extract"
	"github.com/txintel/txintel/internal/model"
)

// processDocument handles the extraction path for document-only events. The
// document is extracted, a category decision derived from its entities (or
// the heuristic floor over the raw text), and the result gated like any
// other categorization.
func (e *Engine) processDocument(ctx context.Context, event model.EventData, logger *slog.Logger) ([]model.AgentAction, []model.AgentInsight, error) {
	docText := event.DocumentText()
	targetID := documentTargetID(event.Payload)

	userCtx := model.UserContext{}
	if event.UserContext != nil {
		userCtx = *event.UserContext
	}

	var insights []model.AgentInsight
	var decision model.Decision

	result, err := e.extractDocument(ctx, docText)
	switch {
	case err == nil:
		insights = append(insights, documentSummaryInsight(result))
		if d := decisionFromExtraction(result); d != nil {
			decision = *d
		} else {
			decision = e.heuristic.Categorize(documentFallbackText(result, docText))
		}
	case ctx.Err() != nil:
		return nil, nil, ctx.Err()
	case common.IsRecoverable(err):
		logger.Warn("document extraction degraded to heuristic floor", "error", err)
		insights = append(insights, degradationInsight(err))
		decision = e.heuristic.Categorize(docText)
	default:
		return nil, nil, err
	}

	action := gate(decision, targetID, userCtx, e.cfg)

	insights = append([]model.AgentInsight{e.insights.DecisionInsight(decision)}, insights...)

	logger.Info("document processed",
		"target_id", targetID,
		"category", decision.Category,
		"confidence", decision.Confidence,
		"decision_source", decision.Source,
		"requires_approval", action.RequiresApproval)

	return []model.AgentAction{action}, insights, nil
}

// extractDocument runs the extraction client with the engine's configured
// parameters. A nil extractor behaves like an unavailable service.
func (e *Engine) extractDocument(ctx context.Context, docText string) (model.ExtractionResult, error) {
	if e.extractor == nil {
		return model.ExtractionResult{}, fmt.Errorf("%w: no extractor configured", common.ErrExtractionUnavailable)
	}
	return e.extractor.Extract(ctx, docText, extract.DefaultReceiptExamples(), extract.Params{
		Passes:        e.cfg.ExtractionPasses,
		MaxCharBuffer: e.cfg.ExtractionBuffer,
		StrictSchema:  true,
	})
}

// documentSummaryInsight reports what extraction found: entity count, and
// merchant and total when present.
func documentSummaryInsight(result model.ExtractionResult) model.AgentInsight {
	data := map[string]any{
		"entities": len(result.Entities),
		"passes":   result.Passes,
	}

	parts := []string{fmt.Sprintf("Extracted %d entities in %d pass(es).", len(result.Entities), result.Passes)}
	if merchant := result.First(model.EntityMerchant); merchant != nil {
		data["merchant"] = merchant.Text
		parts = append(parts, fmt.Sprintf("Merchant: %s.", merchant.Text))
	}
	if total := result.First(model.EntityTotal); total != nil {
		data["total"] = total.Text
		if amount, ok := parseAmount(total.Text); ok {
			data["amount"] = amount.String()
		}
		parts = append(parts, fmt.Sprintf("Total: %s.", total.Text))
	}

	return model.AgentInsight{
		Type:        model.InsightCategorization,
		Title:       "Document extraction summary",
		Description: strings.Join(parts, " "),
		Confidence:  1.0,
		Data:        data,
	}
}

// documentFallbackText picks the text fed to the heuristic floor when no
// entity carries a category: the merchant name when extraction found one,
// otherwise the whole document.
func documentFallbackText(result model.ExtractionResult, docText string) string {
	if merchant := result.First(model.EntityMerchant); merchant != nil {
		return merchant.Text
	}
	return docText
}

// documentTargetID reads an optional transaction id from the payload, for
// documents attached to an existing transaction. Zero means unattached.
func documentTargetID(payload map[string]any) int64 {
	switch v := payload["transaction_id"].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// parseAmount strips currency punctuation from an extracted total and parses
// the remainder as a decimal amount.
func parseAmount(text string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimLeft(cleaned, "$€£")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}
