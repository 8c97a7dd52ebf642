// Package catalog holds the immutable registry of detection rules. The
// catalog is loaded and validated once at startup and is safe to share
// across concurrent scans without locking.
package catalog

import (
	_ "embed"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/guardrail-ai/guardrail/internal/types"
)

//go:embed patterns.yaml
var defaultPatternData []byte

// PatternDef is the raw, pre-validation form of a detection rule as it
// appears in YAML.
type PatternDef struct {
	ID          string    `yaml:"id"`
	Category    Category  `yaml:"category"`
	Severity    Severity  `yaml:"severity"`
	Match       MatchKind `yaml:"match,omitempty"`
	Expr        string    `yaml:"expr"`
	Description string    `yaml:"description"`
}

// Pattern is a validated, compiled detection rule. Immutable after load.
type Pattern struct {
	ID          string
	Category    Category
	Severity    Severity
	Kind        MatchKind
	Expr        string
	Description string

	re *regexp.Regexp
}

// Matches reports whether the pattern matches anywhere in text.
// Matching is case-insensitive.
func (p *Pattern) Matches(text string) bool {
	return p.re.MatchString(text)
}

// Find returns the first matched span in text, or "" when there is none.
func (p *Pattern) Find(text string) string {
	return p.re.FindString(text)
}

type patternFile struct {
	Version  string       `yaml:"version"`
	Patterns []PatternDef `yaml:"patterns"`
}

// Catalog is the process-wide, read-only set of detection rules.
type Catalog struct {
	version    string
	patterns   []Pattern
	byCategory map[Category][]*Pattern
}

// Load parses, validates, and compiles the embedded default rule set.
// Any violation is fatal: the caller must not proceed with a partially
// loaded catalog.
func Load() (*Catalog, error) {
	return LoadBytes(defaultPatternData)
}

// LoadBytes builds a catalog from raw YAML rule data.
func LoadBytes(data []byte) (*Catalog, error) {
	var file patternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, types.WrapError(types.CATALOG_LOAD_FAILED, "failed to parse pattern data", err)
	}
	return New(file.Version, file.Patterns)
}

// New builds a catalog from pattern definitions, validating identifier
// uniqueness and matcher well-formedness. Errors name the offending pattern.
func New(version string, defs []PatternDef) (*Catalog, error) {
	c := &Catalog{
		version:    version,
		patterns:   make([]Pattern, 0, len(defs)),
		byCategory: make(map[Category][]*Pattern),
	}

	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, types.NewError(types.CATALOG_INVALID_FIELD, "pattern with empty id")
		}
		if _, dup := seen[def.ID]; dup {
			return nil, types.NewErrorf(types.CATALOG_DUPLICATE_ID, "duplicate pattern id %q", def.ID)
		}
		seen[def.ID] = struct{}{}

		if !def.Category.IsValid() {
			return nil, types.NewErrorf(types.CATALOG_INVALID_FIELD, "pattern %q has unknown category %q", def.ID, def.Category)
		}
		if !def.Severity.IsValid() {
			return nil, types.NewErrorf(types.CATALOG_INVALID_FIELD, "pattern %q has unknown severity %q", def.ID, def.Severity)
		}

		kind := def.Match
		if kind == "" {
			kind = MatchRegex
		}

		var expr string
		switch kind {
		case MatchRegex:
			expr = def.Expr
		case MatchKeyword:
			expr = regexp.QuoteMeta(def.Expr)
		default:
			return nil, types.NewErrorf(types.CATALOG_INVALID_FIELD, "pattern %q has unknown match kind %q", def.ID, def.Match)
		}

		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, types.WrapError(types.CATALOG_INVALID_MATCHER,
				"pattern "+def.ID+" has invalid matcher expression", err)
		}

		c.patterns = append(c.patterns, Pattern{
			ID:          def.ID,
			Category:    def.Category,
			Severity:    def.Severity,
			Kind:        kind,
			Expr:        def.Expr,
			Description: def.Description,
			re:          re,
		})
	}

	for i := range c.patterns {
		p := &c.patterns[i]
		c.byCategory[p.Category] = append(c.byCategory[p.Category], p)
	}

	return c, nil
}

// Version returns the rule set version string.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of loaded patterns.
func (c *Catalog) Len() int {
	return len(c.patterns)
}

// All returns every pattern in load order. The returned slice is a copy;
// the patterns themselves are shared and immutable.
func (c *Catalog) All() []*Pattern {
	out := make([]*Pattern, len(c.patterns))
	for i := range c.patterns {
		out[i] = &c.patterns[i]
	}
	return out
}

// ByCategory returns the patterns tagged with the given category, in load
// order. The result is nil when the category has no patterns.
func (c *Catalog) ByCategory(cat Category) []*Pattern {
	src := c.byCategory[cat]
	if src == nil {
		return nil
	}
	out := make([]*Pattern, len(src))
	copy(out, src)
	return out
}
