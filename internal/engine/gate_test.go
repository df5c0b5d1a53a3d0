package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/txintel/txintel/internal/model"
)

func TestGate(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name             string
		decision         model.Decision
		userCtx          model.UserContext
		requiresApproval bool
	}{
		{
			name:             "rule above threshold auto-applies",
			decision:         model.Decision{Category: "Groceries", Confidence: 1.0, Source: model.SourceRule},
			requiresApproval: false,
		},
		{
			name:             "extraction above threshold auto-applies",
			decision:         model.Decision{Category: "Groceries", Confidence: 0.9, Source: model.SourceExtraction},
			requiresApproval: false,
		},
		{
			name:             "extraction below threshold gated",
			decision:         model.Decision{Category: "Groceries", Confidence: 0.675, Source: model.SourceExtraction},
			requiresApproval: true,
		},
		{
			name:             "contested extraction gated despite confidence",
			decision:         model.Decision{Category: "Groceries", Confidence: 0.9, Source: model.SourceExtraction, Disagreement: true},
			requiresApproval: true,
		},
		{
			name:             "heuristic gated even at full confidence",
			decision:         model.Decision{Category: "Groceries", Confidence: 1.0, Source: model.SourceHeuristic},
			requiresApproval: true,
		},
		{
			name:             "user opt-out gates everything",
			decision:         model.Decision{Category: "Groceries", Confidence: 1.0, Source: model.SourceRule},
			userCtx:          model.UserContext{Preferences: map[string]bool{"auto_categorize": false}},
			requiresApproval: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := gate(tt.decision, 42, tt.userCtx, cfg)

			assert.Equal(t, model.ActionCategorizeTransaction, action.Type)
			assert.EqualValues(t, 42, action.TargetID)
			assert.Equal(t, tt.decision.Category, action.Data["category"])
			assert.Equal(t, tt.decision.Confidence, action.Confidence)
			assert.Equal(t, tt.requiresApproval, action.RequiresApproval)
		})
	}
}

func TestGate_ThresholdIsConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoApplyThreshold = 0.5

	decision := model.Decision{Category: "Dining", Confidence: 0.675, Source: model.SourceExtraction}
	action := gate(decision, 1, model.UserContext{}, cfg)
	assert.False(t, action.RequiresApproval)
}
