package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/extract"
	"github.com/txintel/txintel/internal/heuristic"
	"github.com/txintel/txintel/internal/model"
	"github.com/txintel/txintel/internal/rules"
)

// Confidence constants for the resolver.
const (
	// ruleMatchConfidence is assigned to rule matches: an explicit user
	// instruction is taken at face value.
	ruleMatchConfidence = 1.0
	// defaultEntityConfidence is used when the extraction service reports no
	// confidence of its own.
	defaultEntityConfidence = 0.75
	// extractionDiscount reflects model uncertainty in extraction-derived
	// confidences.
	extractionDiscount = 0.90
)

// signals carries everything one request's strategies may consult.
type signals struct {
	txn          model.TransactionData
	userCtx      model.UserContext
	documentText string
}

// resolution is the resolver's output: exactly one decision, plus any
// insights recording degradations or discarded signals along the way.
type resolution struct {
	Decision model.Decision
	Insights []model.AgentInsight
}

// strategy inspects the available signals and either produces a decision or
// defers to the next strategy by returning nil. Errors abort the request;
// recoverable failures must degrade to nil instead.
type strategy func(ctx context.Context, in *signals, out *resolution) (*model.Decision, error)

// resolver merges the rule, extraction, and heuristic signals into a single
// categorization decision by evaluating a prioritized strategy list.
type resolver struct {
	extractor   extract.Extractor
	categorizer *heuristic.Categorizer
	logger      *slog.Logger
	strategies  []strategy
	cfg         Config
}

func newResolver(extractor extract.Extractor, categorizer *heuristic.Categorizer, cfg Config, logger *slog.Logger) *resolver {
	r := &resolver{
		extractor:   extractor,
		categorizer: categorizer,
		logger:      logger,
		cfg:         cfg,
	}
	// Precedence order: explicit user rules, then the extraction signal,
	// then the heuristic floor. First non-nil decision wins.
	r.strategies = []strategy{
		r.ruleStrategy,
		r.extractionStrategy,
		r.heuristicStrategy,
	}
	return r
}

// Resolve produces exactly one decision for the transaction. It never
// returns "no decision": the heuristic floor backstops every request.
func (r *resolver) Resolve(ctx context.Context, txn model.TransactionData, userCtx model.UserContext, documentText string) (resolution, error) {
	in := &signals{
		txn:          txn,
		userCtx:      userCtx,
		documentText: documentText,
	}
	var out resolution

	for _, s := range r.strategies {
		decision, err := s(ctx, in, &out)
		if err != nil {
			return resolution{}, err
		}
		if decision != nil {
			out.Decision = *decision
			return out, nil
		}
	}

	// Unreachable: heuristicStrategy always decides.
	return resolution{}, fmt.Errorf("no categorization strategy produced a decision")
}

// ruleStrategy wins whenever a user rule matches the description.
func (r *resolver) ruleStrategy(_ context.Context, in *signals, out *resolution) (*model.Decision, error) {
	matcher := rules.NewMatcher(categorizeRules(in.userCtx.Rules))

	rule := matcher.Best(in.txn.Description)
	if rule == nil {
		return nil, nil
	}

	if in.documentText != "" && r.extractor != nil {
		// The extraction signal is discarded unevaluated once a rule wins;
		// surface that so the decision stays auditable.
		out.Insights = append(out.Insights, model.AgentInsight{
			Type:        model.InsightCategorization,
			Title:       "Extraction signal skipped",
			Description: fmt.Sprintf("Rule %d takes precedence; the attached document was not sent for extraction.", rule.ID),
			Confidence:  1.0,
			Data:        map[string]any{"rule_id": rule.ID},
		})
	}

	return &model.Decision{
		Category:   rule.Category,
		Confidence: ruleMatchConfidence,
		Source:     model.SourceRule,
		Reasoning:  fmt.Sprintf("Matched user rule %d: pattern %q assigns category %q", rule.ID, rule.Pattern, rule.Category),
	}, nil
}

// extractionStrategy derives a category from document extraction when the
// event carries document text. Recoverable extraction failures defer to the
// heuristic floor and record the degradation; cancellation aborts.
func (r *resolver) extractionStrategy(ctx context.Context, in *signals, out *resolution) (*model.Decision, error) {
	if in.documentText == "" || r.extractor == nil {
		return nil, nil
	}

	result, err := r.extractor.Extract(ctx, in.documentText, extract.DefaultReceiptExamples(), extract.Params{
		Passes:        r.cfg.ExtractionPasses,
		MaxCharBuffer: r.cfg.ExtractionBuffer,
		StrictSchema:  true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if common.IsRecoverable(err) {
			r.logger.Warn("extraction degraded to heuristic floor", "error", err)
			out.Insights = append(out.Insights, degradationInsight(err))
			return nil, nil
		}
		return nil, err
	}

	decision := decisionFromExtraction(result)
	if decision == nil {
		out.Insights = append(out.Insights, model.AgentInsight{
			Type:        model.InsightCategorization,
			Title:       "Extraction found no category",
			Description: "Document extraction succeeded but yielded no category-bearing entity; falling back to keyword heuristics.",
			Confidence:  1.0,
			Data:        map[string]any{"entities": len(result.Entities)},
		})
		return nil, nil
	}

	// Cross-signal check: a confident keyword hit that names a different
	// category marks the extraction decision as contested.
	keyword := r.categorizer.Categorize(in.txn.Description)
	if keyword.Category != heuristic.DefaultCategory && keyword.Category != decision.Category {
		decision.Disagreement = true
		out.Insights = append(out.Insights, model.AgentInsight{
			Type:        model.InsightCategorization,
			Title:       "Signals disagree",
			Description: fmt.Sprintf("Extraction suggests %q but keyword heuristics suggest %q; the action requires approval.", decision.Category, keyword.Category),
			Confidence:  1.0,
			Data: map[string]any{
				"extraction_category": decision.Category,
				"heuristic_category":  keyword.Category,
			},
		})
	}

	return decision, nil
}

// heuristicStrategy is the floor: it always decides.
func (r *resolver) heuristicStrategy(_ context.Context, in *signals, _ *resolution) (*model.Decision, error) {
	decision := r.categorizer.Categorize(in.txn.Description)
	return &decision, nil
}

// decisionFromExtraction maps a merged extraction result to a decision, or
// nil when no entity carries a category attribute.
func decisionFromExtraction(result model.ExtractionResult) *model.Decision {
	entity := categoryEntity(result)
	if entity == nil {
		return nil
	}

	confidence := defaultEntityConfidence
	if raw, ok := entity.Attributes["confidence"]; ok {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 && parsed <= 1 {
			confidence = parsed
		}
	}
	confidence *= extractionDiscount

	return &model.Decision{
		Category:   entity.Attributes["category"],
		Confidence: confidence,
		Source:     model.SourceExtraction,
		Reasoning: fmt.Sprintf("Document extraction tagged %s entity %q with category %q across %d pass(es)",
			entity.Class, entity.Text, entity.Attributes["category"], result.Passes),
	}
}

// categoryEntity returns the highest-precedence entity carrying a category
// attribute: merchant first, then anything else in source order.
func categoryEntity(result model.ExtractionResult) *model.Entity {
	if m := result.First(model.EntityMerchant); m != nil && m.Attributes["category"] != "" {
		return m
	}
	for i := range result.Entities {
		if result.Entities[i].Attributes["category"] != "" {
			return &result.Entities[i]
		}
	}
	return nil
}

// categorizeRules filters the user's rules down to those whose action is
// categorization (the empty action defaults to categorize).
func categorizeRules(all []model.Rule) []model.Rule {
	filtered := make([]model.Rule, 0, len(all))
	for _, rule := range all {
		if rule.Action == "" || rule.Action == model.RuleActionCategorize {
			filtered = append(filtered, rule)
		}
	}
	return filtered
}

// degradationInsight records a degrade-and-continue path in the response so
// the fallback is never silent.
func degradationInsight(err error) model.AgentInsight {
	return model.AgentInsight{
		Type:        model.InsightCategorization,
		Title:       "Extraction unavailable",
		Description: fmt.Sprintf("Extraction signal unavailable (%v); categorization fell back to keyword heuristics.", err),
		Confidence:  1.0,
		Data:        map[string]any{"degraded": true},
	}
}
