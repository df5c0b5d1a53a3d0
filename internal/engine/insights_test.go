package engine

import (
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txintel/txintel/internal/model"
)

func newTestGenerator(cfg Config) *insightGenerator {
	return newInsightGenerator(cfg, slog.Default())
}

func anomalyEvent(amount string, payload map[string]any) model.EventData {
	amt, _ := decimal.NewFromString(amount)
	return model.EventData{
		EventType: string(model.EventTransactionCreated),
		Payload:   payload,
		Transaction: &model.TransactionData{
			ID:          5,
			Description: "BIG PURCHASE",
			Category:    "Electronics",
			Amount:      amt,
		},
	}
}

func TestEventInsights_Anomaly(t *testing.T) {
	g := newTestGenerator(DefaultConfig())

	tests := []struct {
		name     string
		amount   string
		payload  map[string]any
		expected bool
	}{
		{
			name:     "exceeds multiplier",
			amount:   "-400.00",
			payload:  map[string]any{"recent_average": 100.0},
			expected: true,
		},
		{
			name:     "within multiplier",
			amount:   "-250.00",
			payload:  map[string]any{"recent_average": 100.0},
			expected: false,
		},
		{
			name:     "no average supplied",
			amount:   "-400.00",
			payload:  nil,
			expected: false,
		},
		{
			name:     "category averages map",
			amount:   "-400.00",
			payload:  map[string]any{"category_averages": map[string]any{"Electronics": 100.0}},
			expected: true,
		},
		{
			name:     "string-typed average",
			amount:   "-400.00",
			payload:  map[string]any{"recent_average": "100.00"},
			expected: true,
		},
		{
			name:     "zero average ignored",
			amount:   "-400.00",
			payload:  map[string]any{"recent_average": 0.0},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := g.EventInsights(anomalyEvent(tt.amount, tt.payload))
			anomaly := findInsight(insights, "Unusually large transaction")
			if tt.expected {
				require.NotNil(t, anomaly)
				assert.Equal(t, model.InsightAnomaly, anomaly.Type)
			} else {
				assert.Nil(t, anomaly)
			}
		})
	}
}

func TestEventInsights_AnomalyDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnomalyDetection = false
	g := newTestGenerator(cfg)

	insights := g.EventInsights(anomalyEvent("-400.00", map[string]any{"recent_average": 100.0}))
	assert.Nil(t, findInsight(insights, "Unusually large transaction"))
}

func TestEventInsights_RecurringPattern(t *testing.T) {
	g := newTestGenerator(DefaultConfig())

	event := anomalyEvent("-15.99", map[string]any{
		"recent_descriptions": []any{"big purchase", "BIG PURCHASE", "Big Purchase ", "unrelated"},
	})

	insights := g.EventInsights(event)
	pattern := findInsight(insights, "Recurring transaction")
	require.NotNil(t, pattern)
	assert.Equal(t, model.InsightPattern, pattern.Type)
	assert.Equal(t, 3, pattern.Data["occurrences"])
}

func TestEventInsights_NoTransaction(t *testing.T) {
	g := newTestGenerator(DefaultConfig())

	insights := g.EventInsights(model.EventData{
		EventType: string(model.EventDocumentImported),
		Payload:   map[string]any{"document_text": "RECEIPT", "recent_average": 1.0},
	})
	assert.Empty(t, insights)
}

func TestDecisionInsight(t *testing.T) {
	g := newTestGenerator(DefaultConfig())

	insight := g.DecisionInsight(model.Decision{
		Category:   "Dining",
		Confidence: 0.8,
		Source:     model.SourceHeuristic,
		Reasoning:  "Keyword \"cafe\" in description matched category \"Dining\"",
	})

	assert.Equal(t, model.InsightCategorization, insight.Type)
	assert.Equal(t, "Categorized as Dining", insight.Title)
	assert.Equal(t, 0.8, insight.Confidence)
	assert.Equal(t, string(model.SourceHeuristic), insight.Data["source"])
}
