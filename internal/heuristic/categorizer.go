// Package heuristic provides the keyword fallback categorizer. It is a
// closed, ordered keyword table rather than a general classifier, so its
// behavior is fully enumerable: the first table entry with a keyword present
// in the lower-cased description wins.
package heuristic

import (
	"fmt"
	"strings"

	"github.com/txintel/txintel/internal/model"
)

// Fallback decision when no table entry matches.
const (
	DefaultCategory   = "Miscellaneous"
	DefaultConfidence = 0.6
)

// Entry is one row of the keyword table: any keyword hit assigns the
// category at the stated confidence.
type Entry struct {
	Category   string   `yaml:"category"`
	Keywords   []string `yaml:"keywords"`
	Confidence float64  `yaml:"confidence"`
}

// Categorizer classifies descriptions against an ordered keyword table.
type Categorizer struct {
	entries []Entry
}

// NewCategorizer creates a categorizer over the given table. A nil or empty
// table falls back to the built-in default table.
func NewCategorizer(entries []Entry) *Categorizer {
	if len(entries) == 0 {
		entries = DefaultTable()
	}
	return &Categorizer{entries: entries}
}

// Categorize returns the decision for a description. It never fails and
// never returns an empty category: the Miscellaneous floor backstops
// everything.
func (c *Categorizer) Categorize(description string) model.Decision {
	desc := strings.ToLower(description)

	for _, entry := range c.entries {
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.Contains(desc, kw) {
				return model.Decision{
					Category:   entry.Category,
					Confidence: entry.Confidence,
					Source:     model.SourceHeuristic,
					Reasoning:  fmt.Sprintf("Keyword %q in description matched category %q", kw, entry.Category),
				}
			}
		}
	}

	return model.Decision{
		Category:   DefaultCategory,
		Confidence: DefaultConfidence,
		Source:     model.SourceHeuristic,
		Reasoning:  fmt.Sprintf("No keyword matched description %q; using default category", description),
	}
}

// DefaultTable returns the built-in keyword table.
func DefaultTable() []Entry {
	return []Entry{
		{
			Category:   "Groceries",
			Keywords:   []string{"grocery", "supermarket", "market"},
			Confidence: 0.9,
		},
		{
			Category:   "Transportation",
			Keywords:   []string{"gas", "fuel", "parking", "transit"},
			Confidence: 0.85,
		},
		{
			Category:   "Dining",
			Keywords:   []string{"restaurant", "coffee", "cafe", "diner"},
			Confidence: 0.8,
		},
		{
			Category:   "Utilities",
			Keywords:   []string{"electric", "water", "internet", "utility"},
			Confidence: 0.8,
		},
		{
			Category:   "Entertainment",
			Keywords:   []string{"netflix", "spotify", "cinema", "streaming"},
			Confidence: 0.75,
		},
	}
}
