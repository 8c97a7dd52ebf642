// Package risk converts match lists plus keyword signals into a bounded
// integer score and a discrete level. Scoring is deterministic and
// side-effect-free; the same matches and text always yield the same score.
package risk

import (
	"fmt"
	"strings"

	"github.com/guardrail-ai/guardrail/internal/catalog"
	"github.com/guardrail-ai/guardrail/internal/detect"
)

// KeywordWeight is one auxiliary keyword signal: a phrase looked up in the
// scanned text and a signed delta applied once per distinct occurrence.
type KeywordWeight struct {
	Phrase string `yaml:"phrase" mapstructure:"phrase"`
	Delta  int    `yaml:"delta" mapstructure:"delta"`
}

// WeightTable carries every tunable input of the scorer. The defaults are
// illustrative, not authoritative; deployments override them via config.
type WeightTable struct {
	Severity map[catalog.Severity]int
	Keywords []KeywordWeight
}

// DefaultWeights returns the stock weight table: severity contributions of
// 60/40/20/10 and the stock malicious/legitimate keyword lists.
func DefaultWeights() WeightTable {
	table := WeightTable{
		Severity: map[catalog.Severity]int{
			catalog.SeverityCritical: 60,
			catalog.SeverityHigh:     40,
			catalog.SeverityMedium:   20,
			catalog.SeverityLow:      10,
		},
	}

	malicious := []string{
		"email", "send", "execute", "delete", "drop", "reveal",
		"exfiltrate", "steal", "hack", "bypass", "exploit",
		"secret", "password", "credential", "token", "key",
	}
	legitimate := []string{
		"start fresh", "reset", "clear history", "begin again",
		"new session", "start over", "clear context",
	}

	for _, kw := range malicious {
		table.Keywords = append(table.Keywords, KeywordWeight{Phrase: kw, Delta: 11})
	}
	for _, kw := range legitimate {
		table.Keywords = append(table.Keywords, KeywordWeight{Phrase: kw, Delta: -15})
	}
	return table
}

// severityWeight falls back to the LOW contribution for severities missing
// from the table, so a sparse override can never zero out a detected threat.
func (t WeightTable) severityWeight(s catalog.Severity) int {
	if w, ok := t.Severity[s]; ok {
		return w
	}
	return t.Severity[catalog.SeverityLow]
}

// Reason is one line of the score breakdown, kept for operator display.
type Reason struct {
	Delta  int
	Detail string
}

func (r Reason) String() string {
	return fmt.Sprintf("%+d: %s", r.Delta, r.Detail)
}

// Assessment is the full scorer output: the clamped score, its derived
// level, and the per-contribution breakdown.
type Assessment struct {
	Score   int
	Level   Level
	Reasons []Reason
}

// Scorer computes risk scores from matches and keyword signals.
type Scorer struct {
	weights WeightTable
}

// NewScorer creates a scorer over the given weight table.
func NewScorer(weights WeightTable) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns the clamped [0,100] risk score and its level for one input.
// Adding a match to the set can never lower the score.
func (s *Scorer) Score(matches []detect.Match, text string) (int, Level) {
	a := s.Assess(matches, text)
	return a.Score, a.Level
}

// Assess computes the score together with its breakdown.
func (s *Scorer) Assess(matches []detect.Match, text string) Assessment {
	var a Assessment

	raw := 0
	for _, m := range matches {
		w := s.weights.severityWeight(m.Pattern.Severity)
		raw += w
		a.Reasons = append(a.Reasons, Reason{Delta: w, Detail: m.Pattern.Description})
	}

	lower := strings.ToLower(text)
	for _, kw := range s.weights.Keywords {
		if kw.Phrase == "" || kw.Delta == 0 {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw.Phrase)) {
			raw += kw.Delta
			a.Reasons = append(a.Reasons, Reason{Delta: kw.Delta, Detail: "keyword: " + kw.Phrase})
		}
	}

	a.Score = clamp(raw)
	a.Level = LevelForScore(a.Score)
	return a
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
