// Package detect runs every catalog rule against an input text and reports
// all matches. Scanning is total: any input string, including empty or
// control-character-only text, produces a (possibly empty) match list.
package detect

import "github.com/guardrail-ai/guardrail/internal/catalog"

// snippetLimit bounds the excerpt carried on each match, mirroring what
// ends up in event records and log lines.
const snippetLimit = 100

// Engine scans text against an immutable pattern catalog. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates a match engine over the given catalog.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Catalog returns the catalog the engine scans against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Scan evaluates every pattern in the catalog against text and returns all
// matches in catalog order. There is no short-circuiting: the scorer needs
// the complete threat picture, not just the first hit.
func (e *Engine) Scan(text string) []Match {
	if text == "" {
		return nil
	}

	var matches []Match
	snippet := truncate(text, snippetLimit)
	for _, p := range e.catalog.All() {
		if !p.Matches(text) {
			continue
		}
		matches = append(matches, Match{
			Pattern: p,
			Span:    p.Find(text),
			Snippet: snippet,
		})
	}
	return matches
}

// ScanThreats is the standalone scan API: it returns the reported view of
// every match, usable without any gate or session context.
func (e *Engine) ScanThreats(text string) []Threat {
	return Threats(e.Scan(text))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
