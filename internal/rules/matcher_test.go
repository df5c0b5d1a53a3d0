package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txintel/txintel/internal/model"
)

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name        string
		description string
		rules       []model.Rule
		wantIDs     []int64
	}{
		{
			name:        "single substring match",
			description: "WALMART SUPERCENTER #1234",
			rules: []model.Rule{
				{ID: 1, Pattern: "walmart", Action: model.RuleActionCategorize, Category: "Groceries"},
			},
			wantIDs: []int64{1},
		},
		{
			name:        "case insensitive match",
			description: "monthly NETFLIX charge",
			rules: []model.Rule{
				{ID: 3, Pattern: "Netflix", Action: model.RuleActionCategorize, Category: "Entertainment"},
			},
			wantIDs: []int64{3},
		},
		{
			name:        "no match returns empty",
			description: "SHELL OIL 57444",
			rules: []model.Rule{
				{ID: 1, Pattern: "walmart", Category: "Groceries"},
				{ID: 2, Pattern: "netflix", Category: "Entertainment"},
			},
			wantIDs: nil,
		},
		{
			name:        "longer pattern wins",
			description: "WALMART SUPERCENTER #1234",
			rules: []model.Rule{
				{ID: 1, Pattern: "walmart", Category: "Groceries"},
				{ID: 2, Pattern: "walmart supercenter", Category: "Household"},
			},
			wantIDs: []int64{2, 1},
		},
		{
			name:        "equal length breaks tie on lower id",
			description: "ACME MART STORE",
			rules: []model.Rule{
				{ID: 9, Pattern: "mart", Category: "Shopping"},
				{ID: 4, Pattern: "acme", Category: "Hardware"},
			},
			wantIDs: []int64{4, 9},
		},
		{
			name:        "empty pattern never matches",
			description: "anything at all",
			rules: []model.Rule{
				{ID: 1, Pattern: "  ", Category: "Broken"},
			},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(tt.rules)
			matches := m.Match(tt.description)

			gotIDs := make([]int64, 0, len(matches))
			for _, r := range matches {
				gotIDs = append(gotIDs, r.ID)
			}
			if tt.wantIDs == nil {
				assert.Empty(t, gotIDs)
				return
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	// Two equal-length patterns matching the same description must resolve
	// identically across repeated runs regardless of input order.
	ruleA := model.Rule{ID: 7, Pattern: "diner", Category: "Dining"}
	ruleB := model.Rule{ID: 2, Pattern: "grill", Category: "Dining"}

	forward := NewMatcher([]model.Rule{ruleA, ruleB})
	backward := NewMatcher([]model.Rule{ruleB, ruleA})

	for i := 0; i < 50; i++ {
		f := forward.Best("ROADSIDE DINER GRILL")
		b := backward.Best("ROADSIDE DINER GRILL")
		require.NotNil(t, f)
		require.NotNil(t, b)
		assert.Equal(t, int64(2), f.ID)
		assert.Equal(t, f.ID, b.ID)
	}
}

func TestMatcher_BestNilOnNoMatch(t *testing.T) {
	m := NewMatcher(nil)
	assert.Nil(t, m.Best("anything"))
}
