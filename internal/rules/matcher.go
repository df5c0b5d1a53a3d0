// Package rules evaluates user-authored pattern rules against transaction
// descriptions. Matching is pure and deterministic: no I/O, and identical
// input always yields identical output.
package rules

import (
	"sort"
	"strings"

	"github.com/txintel/txintel/internal/model"
)

// Matcher evaluates rules by case-insensitive substring containment on the
// transaction description.
type Matcher struct {
	rules []model.Rule
}

// NewMatcher creates a matcher over the given rules. Rule order from the
// caller is irrelevant; the tie-break below makes results reproducible.
func NewMatcher(rules []model.Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Match returns every rule whose pattern appears in the description,
// best match first. Tie-break: longer pattern wins (more specific), then
// lower rule ID. Zero matches returns an empty slice, not an error.
func (m *Matcher) Match(description string) []model.Rule {
	desc := strings.ToLower(description)

	var matches []model.Rule
	for _, rule := range m.rules {
		pattern := strings.ToLower(strings.TrimSpace(rule.Pattern))
		if pattern == "" {
			continue
		}
		if strings.Contains(desc, pattern) {
			matches = append(matches, rule)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		li := len(strings.TrimSpace(matches[i].Pattern))
		lj := len(strings.TrimSpace(matches[j].Pattern))
		if li != lj {
			return li > lj
		}
		return matches[i].ID < matches[j].ID
	})

	return matches
}

// Best returns the single winning rule for a description, or nil when no
// rule matches.
func (m *Matcher) Best(description string) *model.Rule {
	matches := m.Match(description)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}
