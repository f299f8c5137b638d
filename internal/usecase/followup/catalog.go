package followup

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed suggested.yaml
var catalogYAML []byte

// Suggestion is a predefined question with its prepared answer.
type Suggestion struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Catalog holds the fixed question sets.
type Catalog struct {
	Shortcut  []string     `yaml:"shortcut"`
	Suggested []Suggestion `yaml:"suggested"`
}

// LoadCatalog parses a catalog; nil data loads the built-in one.
func LoadCatalog(data []byte) (Catalog, error) {
	if data == nil {
		data = catalogYAML
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse question catalog: %w", err)
	}
	if len(c.Suggested) == 0 {
		return Catalog{}, fmt.Errorf("question catalog has no suggested questions")
	}
	return c, nil
}

// fallback returns up to n suggested questions.
func (c *Catalog) fallback(n int) []string {
	out := make([]string, 0, min(n, len(c.Suggested)))
	for _, s := range c.Suggested[:min(n, len(c.Suggested))] {
		out = append(out, s.Question)
	}
	return out
}
