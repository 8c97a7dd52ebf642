package detect

import "github.com/guardrail-ai/guardrail/internal/catalog"

// Match is one occurrence of a catalog pattern found in scanned text.
// Overlapping patterns produce separate matches; nothing is deduplicated.
type Match struct {
	Pattern *catalog.Pattern
	// Span is the first matched substring, as it appeared in the input.
	Span string
	// Snippet is a bounded excerpt of the scanned input, kept for event
	// records and log lines.
	Snippet string
}

// Threat is the externally visible projection of a Match. Derived and
// read-only; it has no lifecycle of its own.
type Threat struct {
	ID          string            `json:"id"`
	Category    catalog.Category  `json:"category"`
	Severity    catalog.Severity  `json:"severity"`
	Description string            `json:"description"`
}

// Threat returns the reported view of the match.
func (m Match) Threat() Threat {
	return Threat{
		ID:          m.Pattern.ID,
		Category:    m.Pattern.Category,
		Severity:    m.Pattern.Severity,
		Description: m.Pattern.Description,
	}
}

// Threats projects a match list into its reported form.
func Threats(matches []Match) []Threat {
	if len(matches) == 0 {
		return nil
	}
	out := make([]Threat, len(matches))
	for i, m := range matches {
		out[i] = m.Threat()
	}
	return out
}
