package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/model"
)

// responseEnvelope is the entity schema the inference service must return.
type responseEnvelope struct {
	Extractions []struct {
		Class      string            `json:"extraction_class"`
		Text       string            `json:"extraction_text"`
		Attributes map[string]string `json:"attributes"`
	} `json:"extractions"`
}

// parseEntities maps raw inference output to entities. Output that cannot be
// mapped to the schema is an ErrExtractionParse. Entities whose text is not a
// verbatim substring of the source are dropped with a warning so the
// verbatim invariant always holds on what we keep.
func parseEntities(content, source string, logger *slog.Logger) ([]model.Entity, error) {
	content = cleanMarkdownWrapper(content)

	var envelope responseEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionParse, err)
	}
	if envelope.Extractions == nil {
		return nil, fmt.Errorf("%w: response has no extractions field", common.ErrExtractionParse)
	}

	entities := make([]model.Entity, 0, len(envelope.Extractions))
	for _, raw := range envelope.Extractions {
		if raw.Class == "" || raw.Text == "" {
			return nil, fmt.Errorf("%w: extraction missing class or text", common.ErrExtractionParse)
		}
		if !strings.Contains(source, raw.Text) {
			logger.Warn("dropping paraphrased extraction",
				"class", raw.Class,
				"text", raw.Text)
			continue
		}
		entities = append(entities, model.Entity{
			Class:      model.EntityClass(raw.Class),
			Text:       raw.Text,
			Attributes: raw.Attributes,
		})
	}

	sortByAppearance(source, entities)

	return entities, nil
}

// sortByAppearance orders entities by position of first appearance in the
// source text, preserving relative order for identical positions.
func sortByAppearance(source string, entities []model.Entity) {
	positions := make(map[string]int, len(entities))
	for _, e := range entities {
		if _, ok := positions[e.Text]; !ok {
			positions[e.Text] = strings.Index(source, e.Text)
		}
	}

	// Insertion sort keeps equal-position entities stable.
	for i := 1; i < len(entities); i++ {
		for j := i; j > 0 && positions[entities[j].Text] < positions[entities[j-1].Text]; j-- {
			entities[j], entities[j-1] = entities[j-1], entities[j]
		}
	}
}

// cleanMarkdownWrapper strips ```json fences some models wrap around output.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}
