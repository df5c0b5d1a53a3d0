package engine

import (
	"github.com/txintel/txintel/internal/model"
)

// gate converts a decision into a proposed action and applies the approval
// policy. The action auto-applies only when every condition holds:
//
//   - confidence meets the auto-apply threshold
//   - the decision came from a user rule, or from an uncontested extraction
//   - the user has not disabled auto-categorization
//
// Heuristic decisions always require approval, whatever their confidence.
func gate(decision model.Decision, targetID int64, userCtx model.UserContext, cfg Config) model.AgentAction {
	auto := decision.Confidence >= cfg.AutoApplyThreshold &&
		trustedSource(decision) &&
		userCtx.AutoCategorize()

	return model.AgentAction{
		Type:             model.ActionCategorizeTransaction,
		TargetID:         targetID,
		Confidence:       decision.Confidence,
		RequiresApproval: !auto,
		Reason:           decision.Reasoning,
		Data: map[string]any{
			"category": decision.Category,
			"source":   string(decision.Source),
		},
	}
}

// trustedSource reports whether the decision's provenance permits
// auto-application at all.
func trustedSource(decision model.Decision) bool {
	switch decision.Source {
	case model.SourceRule:
		return true
	case model.SourceExtraction:
		return !decision.Disagreement
	default:
		return false
	}
}
