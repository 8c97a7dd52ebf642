// Package eventlog keeps the append-only record of every evaluation a
// monitor performs. There is no update or delete; Clear is the only reset,
// and it is always explicit.
package eventlog

import (
	"sync"

	"github.com/guardrail-ai/guardrail/internal/catalog"
	"github.com/guardrail-ai/guardrail/internal/gate"
)

// ScoreStats summarizes the score distribution across recorded events.
type ScoreStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
}

// Summary is the aggregate view over the log, consumed by audit queries.
type Summary struct {
	Count      int                      `json:"count"`
	Threats    int                      `json:"threats"`
	Scores     ScoreStats               `json:"scores"`
	ByCategory map[catalog.Category]int `json:"by_category"`
	BySeverity map[catalog.Severity]int `json:"by_severity"`
	ByVerdict  map[gate.Verdict]int     `json:"by_verdict"`
}

// Log is an append-only, mutex-guarded event store. It is owned by one
// monitor instance and safe for concurrent use across sessions; appends are
// serialized, so events land in the order their evaluations completed.
type Log struct {
	mu     sync.Mutex
	events []Event
}

// New creates an empty event log. The log has no capacity bound; callers
// needing bounded memory apply retention externally.
func New() *Log {
	return &Log{}
}

// Record appends one event. Events are never modified after this point.
func (l *Log) Record(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

// All returns every recorded event in insertion order.
func (l *Log) All() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Clear resets the log for the owning session.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// Summary aggregates the recorded events: counts, score distribution, and
// breakdowns by category, severity, and verdict.
func (l *Log) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Summary{
		Count:      len(l.events),
		ByCategory: make(map[catalog.Category]int),
		BySeverity: make(map[catalog.Severity]int),
		ByVerdict:  make(map[gate.Verdict]int),
	}
	if len(l.events) == 0 {
		return s
	}

	total := 0
	s.Scores.Min = l.events[0].Score
	s.Scores.Max = l.events[0].Score
	for _, e := range l.events {
		total += e.Score
		if e.Score < s.Scores.Min {
			s.Scores.Min = e.Score
		}
		if e.Score > s.Scores.Max {
			s.Scores.Max = e.Score
		}
		s.ByVerdict[e.Verdict]++
		for _, t := range e.Threats {
			s.Threats++
			s.ByCategory[t.Category]++
			s.BySeverity[t.Severity]++
		}
	}
	s.Scores.Mean = float64(total) / float64(len(l.events))
	return s
}
