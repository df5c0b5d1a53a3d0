package engine

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/extract"
	"github.com/txintel/txintel/internal/heuristic"
	"github.com/txintel/txintel/internal/model"
)

func newTestResolver(extractor extract.Extractor) *resolver {
	return newResolver(extractor, heuristic.NewCategorizer(nil), DefaultConfig(), slog.Default())
}

func TestResolver_RulePrecedence(t *testing.T) {
	// Extraction would say Entertainment, but the rule wins without the
	// extractor ever being called.
	mock := &extract.MockExtractor{
		Result: model.ExtractionResult{
			Entities: []model.Entity{
				{Class: model.EntityMerchant, Text: "DOC", Attributes: map[string]string{"category": "Entertainment"}},
			},
		},
	}
	r := newTestResolver(mock)

	userCtx := model.UserContext{Rules: []model.Rule{{ID: 3, Pattern: "netflix", Category: "Subscriptions"}}}
	txn := model.TransactionData{ID: 1, Description: "NETFLIX.COM"}

	res, err := r.Resolve(context.Background(), txn, userCtx, "DOC")
	require.NoError(t, err)

	assert.Equal(t, "Subscriptions", res.Decision.Category)
	assert.Equal(t, model.SourceRule, res.Decision.Source)
	assert.Equal(t, 1.0, res.Decision.Confidence)
	assert.Empty(t, mock.Calls())

	// The discarded document signal is surfaced, not dropped silently.
	require.NotNil(t, findInsight(res.Insights, "Extraction signal skipped"))
}

func TestResolver_ExtractionDecision(t *testing.T) {
	mock := &extract.MockExtractor{
		Result: model.ExtractionResult{
			Passes: 2,
			Entities: []model.Entity{
				{Class: model.EntityMerchant, Text: "SHOP", Attributes: map[string]string{"category": "Groceries"}},
			},
		},
	}
	r := newTestResolver(mock)

	txn := model.TransactionData{ID: 1, Description: "UNREMARKABLE 001"}

	res, err := r.Resolve(context.Background(), txn, model.UserContext{}, "SHOP receipt")
	require.NoError(t, err)

	assert.Equal(t, "Groceries", res.Decision.Category)
	assert.Equal(t, model.SourceExtraction, res.Decision.Source)
	// Default entity confidence discounted for model uncertainty.
	assert.InDelta(t, 0.75*0.90, res.Decision.Confidence, 1e-9)
	assert.False(t, res.Decision.Disagreement)
}

func TestResolver_ExtractionDisagreement(t *testing.T) {
	mock := &extract.MockExtractor{
		Result: model.ExtractionResult{
			Entities: []model.Entity{
				{Class: model.EntityMerchant, Text: "SHOP", Attributes: map[string]string{"category": "Entertainment", "confidence": "0.99"}},
			},
		},
	}
	r := newTestResolver(mock)

	// Keyword table confidently says Dining; extraction says Entertainment.
	txn := model.TransactionData{ID: 1, Description: "CORNER COFFEE CAFE"}

	res, err := r.Resolve(context.Background(), txn, model.UserContext{}, "doc")
	require.NoError(t, err)

	assert.Equal(t, "Entertainment", res.Decision.Category)
	assert.True(t, res.Decision.Disagreement)
	require.NotNil(t, findInsight(res.Insights, "Signals disagree"))
}

func TestResolver_RecoverableExtractionFallsThrough(t *testing.T) {
	for _, sentinel := range []error{common.ErrExtractionUnavailable, common.ErrExtractionParse, common.ErrRateLimit} {
		r := newTestResolver(&extract.MockExtractor{Err: sentinel})

		txn := model.TransactionData{ID: 1, Description: "TEST GROCERY STORE"}
		res, err := r.Resolve(context.Background(), txn, model.UserContext{}, "doc")
		require.NoError(t, err)

		assert.Equal(t, model.SourceHeuristic, res.Decision.Source)
		assert.Equal(t, "Groceries", res.Decision.Category)
		require.NotNil(t, findInsight(res.Insights, "Extraction unavailable"))
	}
}

func TestResolver_NoCategoryEntityFallsThrough(t *testing.T) {
	mock := &extract.MockExtractor{
		Result: model.ExtractionResult{
			Entities: []model.Entity{{Class: model.EntityTotal, Text: "$5.00"}},
		},
	}
	r := newTestResolver(mock)

	txn := model.TransactionData{ID: 1, Description: "NO KEYWORDS HERE"}
	res, err := r.Resolve(context.Background(), txn, model.UserContext{}, "doc")
	require.NoError(t, err)

	assert.Equal(t, heuristic.DefaultCategory, res.Decision.Category)
	assert.Equal(t, heuristic.DefaultConfidence, res.Decision.Confidence)
	require.NotNil(t, findInsight(res.Insights, "Extraction found no category"))
}

func TestResolver_HeuristicFloorWithoutDocument(t *testing.T) {
	r := newTestResolver(nil)

	txn := model.TransactionData{ID: 1, Description: "SOMETHING ELSE ENTIRELY"}
	res, err := r.Resolve(context.Background(), txn, model.UserContext{}, "")
	require.NoError(t, err)

	assert.Equal(t, heuristic.DefaultCategory, res.Decision.Category)
	assert.Equal(t, model.SourceHeuristic, res.Decision.Source)
}
