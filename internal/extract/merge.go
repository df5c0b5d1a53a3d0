package extract

import (
	"sort"
	"strings"

	"github.com/txintel/txintel/internal/model"
)

// attributeCandidate tracks one attribute set observed for an entity and how
// many passes agreed on it.
type attributeCandidate struct {
	attrs     map[string]string
	agreement int
}

// mergePasses merges per-pass entity lists into one de-duplicated list.
// Entities are identified by (class, text). When passes disagree on an
// entity's attributes, the attribute set with the highest agreement count
// wins; ties go to the earliest pass. The merged list is ordered by first
// appearance in the source document.
func mergePasses(document string, passes [][]model.Entity) []model.Entity {
	type mergedEntity struct {
		entity     model.Entity
		candidates []attributeCandidate
	}

	merged := make(map[string]*mergedEntity)
	var order []string

	for _, entities := range passes {
		seenThisPass := make(map[string]bool)
		for _, entity := range entities {
			key := entity.Key()
			if seenThisPass[key] {
				// Duplicates within one pass do not count as agreement.
				continue
			}
			seenThisPass[key] = true

			me, ok := merged[key]
			if !ok {
				me = &mergedEntity{entity: model.Entity{Class: entity.Class, Text: entity.Text}}
				merged[key] = me
				order = append(order, key)
			}

			found := false
			for i := range me.candidates {
				if attributesEqual(me.candidates[i].attrs, entity.Attributes) {
					me.candidates[i].agreement++
					found = true
					break
				}
			}
			if !found {
				// Candidates stay in first-observed order, so an agreement
				// tie resolves to the earliest pass.
				me.candidates = append(me.candidates, attributeCandidate{
					attrs:     entity.Attributes,
					agreement: 1,
				})
			}
		}
	}

	result := make([]model.Entity, 0, len(order))
	for _, key := range order {
		me := merged[key]
		me.entity.Attributes = winningAttributes(me.candidates)
		result = append(result, me.entity)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.Index(document, result[i].Text) < strings.Index(document, result[j].Text)
	})

	return result
}

// winningAttributes picks the attribute set with the highest agreement,
// breaking ties by earliest pass.
func winningAttributes(candidates []attributeCandidate) map[string]string {
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.agreement > best.agreement {
			best = c
		}
	}
	return best.attrs
}

func attributesEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
