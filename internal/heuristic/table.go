package heuristic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/txintel/txintel/internal/common"
)

// tableFile is the on-disk shape of a keyword table.
type tableFile struct {
	Categories []Entry `yaml:"categories"`
}

// LoadTable reads a keyword table from a YAML file. Entries keep file order;
// earlier entries take precedence during categorization.
func LoadTable(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword table: %w", err)
	}

	return ParseTable(data)
}

// ParseTable parses YAML keyword table content.
func ParseTable(data []byte) ([]Entry, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: keyword table: %v", common.ErrInvalidConfig, err)
	}

	for i, entry := range file.Categories {
		if entry.Category == "" {
			return nil, fmt.Errorf("%w: keyword table entry %d has no category", common.ErrInvalidConfig, i)
		}
		if len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("%w: keyword table entry %q has no keywords", common.ErrInvalidConfig, entry.Category)
		}
		if entry.Confidence <= 0 || entry.Confidence > 1 {
			return nil, fmt.Errorf("%w: keyword table entry %q confidence %v out of range", common.ErrInvalidConfig, entry.Category, entry.Confidence)
		}
	}

	return file.Categories, nil
}
