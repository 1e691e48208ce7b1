// Package wiktextract implements the offline preprocessor that turns a
// streaming Wiktionary extract dump into a .fldic dictionary, deciding per
// word whether it is excluded, offensive, or normal by merging evidence
// across parts of speech and form_of relations.
package wiktextract

import (
	"fmt"
	"os"
	"regexp"

	"github.com/kaptinlin/jsonschema"

	jsoniter "github.com/json-iterator/go"
)

// configSchema constrains the shape of a preprocessor config file before it
// is unmarshaled, catching malformed input with a structured error instead
// of a panic deep inside rule compilation.
const configSchema = `{
  "type": "object",
  "required": ["projectSpecificWords", "filters"],
  "properties": {
    "projectSpecificWords": {"type": "array", "items": {"type": "string"}},
    "filters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "excluded", "offensive"],
        "properties": {
          "name": {"type": "string"},
          "excluded": {"$ref": "#/$defs/ruleSet"},
          "offensive": {"$ref": "#/$defs/ruleSet"}
        }
      }
    }
  },
  "$defs": {
    "ruleSet": {
      "type": "object",
      "properties": {
        "words": {"type": "array", "items": {"type": "string"}},
        "tags": {"type": "array", "items": {"type": "string"}},
        "categories": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

// ConfigError wraps a schema-validation or compilation failure encountered
// while loading a preprocessor config.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wiktextract: config %s: %s", e.Path, e.Reason)
}

// RuleSet is one side (excluded or offensive) of a named Filter.
type RuleSet struct {
	Words      []string `json:"words"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`

	compiledWords []*regexp.Regexp
	tagSet        map[string]struct{}
	categorySet   map[string]struct{}
}

func (r *RuleSet) compile() error {
	r.compiledWords = make([]*regexp.Regexp, 0, len(r.Words))
	for _, pattern := range r.Words {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("compiling word pattern %q: %w", pattern, err)
		}
		r.compiledWords = append(r.compiledWords, re)
	}
	r.tagSet = toSet(r.Tags)
	r.categorySet = toSet(r.Categories)
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// matches reports whether word, tags, or categories trip any rule in the
// set: a word regex match, or any tag/category intersection.
func (r *RuleSet) matches(word string, tags, categories []string) bool {
	for _, re := range r.compiledWords {
		if re.MatchString(word) {
			return true
		}
	}
	for _, tag := range tags {
		if _, ok := r.tagSet[tag]; ok {
			return true
		}
	}
	for _, category := range categories {
		if _, ok := r.categorySet[category]; ok {
			return true
		}
	}
	return false
}

// Filter names a pair of rule-sets selected at run time by name.
type Filter struct {
	Name      string  `json:"name"`
	Excluded  RuleSet `json:"excluded"`
	Offensive RuleSet `json:"offensive"`
}

// fallbackFilter matches nothing; used when neither the requested filter
// nor "root" exists in the config.
var fallbackFilter = Filter{Name: "fallback"}

// Config is the preprocessor's rule configuration.
type Config struct {
	ProjectSpecificWords []string `json:"projectSpecificWords"`
	Filters              []Filter `json:"filters"`
}

// DefaultConfig returns the configuration used when the caller supplies no
// config file: no project-specific words and no named filters, so
// GetFilter always falls through to the permissive fallback and every
// grammatically valid word is kept as normal.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads, schema-validates, and compiles a preprocessor config
// from path.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wiktextract: reading config %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(configSchema))
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("compiling built-in schema: %v", err)}
	}

	var asMap map[string]any
	if err := jsoniter.Unmarshal(raw, &asMap); err != nil {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("parsing JSON: %v", err)}
	}
	if result := schema.Validate(asMap); !result.IsValid() {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("schema validation failed: %v", result.Errors)}
	}

	var cfg Config
	if err := jsoniter.Unmarshal(raw, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("unmarshaling: %v", err)}
	}
	for i := range cfg.Filters {
		if err := cfg.Filters[i].Excluded.compile(); err != nil {
			return nil, &ConfigError{Path: path, Reason: err.Error()}
		}
		if err := cfg.Filters[i].Offensive.compile(); err != nil {
			return nil, &ConfigError{Path: path, Reason: err.Error()}
		}
	}
	return &cfg, nil
}

// GetFilter resolves name to a filter: an exact name match, else the
// filter named "root", else a permissive fallback that matches nothing.
func (c *Config) GetFilter(name string) Filter {
	for _, f := range c.Filters {
		if f.Name == name {
			return f
		}
	}
	for _, f := range c.Filters {
		if f.Name == "root" {
			return f
		}
	}
	return fallbackFilter
}
