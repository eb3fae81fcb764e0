package categorizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v2"
)

// CategoryConfig is one entry of the categories file.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig is the root of the categories file. Categories are matched
// in file order.
type CategoriesConfig struct {
	Default    string           `yaml:"default"`
	Categories []CategoryConfig `yaml:"categories"`
}

// LoadCategories reads a categories YAML file. Relative paths are resolved
// against the working directory.
func LoadCategories(categoriesFile string) (*CategoriesConfig, error) {
	var categoriesPath string
	if filepath.IsAbs(categoriesFile) {
		categoriesPath = categoriesFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		categoriesPath = filepath.Join(wd, categoriesFile)
	}

	data, err := os.ReadFile(categoriesPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", categoriesFile, err)
	}

	var config CategoriesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", categoriesFile, err)
	}

	if strings.TrimSpace(config.Default) == "" {
		config.Default = "Other"
	}
	for i, category := range config.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return nil, fmt.Errorf("category at index %d missing name", i)
		}
		if len(category.Keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", category.Name)
		}
	}

	return &config, nil
}

// Names lists the configured category names in file order.
func (c *CategoriesConfig) Names() []string {
	names := make([]string, len(c.Categories))
	for i, category := range c.Categories {
		names[i] = category.Name
	}
	return names
}

// KeywordClassifier picks the first category with a keyword present in the
// text. Single-word keywords must match a whole word; multi-word keywords
// match as a substring.
type KeywordClassifier struct {
	config *CategoriesConfig
}

var _ Predictor = (*KeywordClassifier)(nil)

func NewKeywordClassifier(config *CategoriesConfig) *KeywordClassifier {
	return &KeywordClassifier{config: config}
}

// Classify always returns a category, falling back to the default.
func (k *KeywordClassifier) Classify(text string) string {
	category, ok := k.match(text)
	if !ok {
		return k.config.Default
	}
	return category
}

// Predict reports a keyword match with full confidence, or an empty
// prediction when nothing matched.
func (k *KeywordClassifier) Predict(_ context.Context, text string) Prediction {
	category, ok := k.match(text)
	if !ok {
		return Prediction{}
	}
	confidence := 1.0
	return Prediction{Category: &category, Confidence: &confidence}
}

func (k *KeywordClassifier) match(text string) (string, bool) {
	lower := strings.ToLower(text)
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = struct{}{}
	}

	for _, category := range k.config.Categories {
		for _, keyword := range category.Keywords {
			kw := strings.ToLower(strings.TrimSpace(keyword))
			if kw == "" {
				continue
			}
			if strings.Contains(kw, " ") {
				if strings.Contains(lower, kw) {
					return category.Name, true
				}
				continue
			}
			if _, ok := words[kw]; ok {
				return category.Name, true
			}
		}
	}
	return "", false
}

// Chain asks each predictor in turn and returns the first non-empty
// prediction.
type Chain []Predictor

func (c Chain) Predict(ctx context.Context, text string) Prediction {
	for _, p := range c {
		if prediction := p.Predict(ctx, text); prediction.Category != nil {
			return prediction
		}
	}
	return Prediction{}
}
