package eventlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardrail-ai/guardrail/internal/catalog"
	"github.com/guardrail-ai/guardrail/internal/detect"
	"github.com/guardrail-ai/guardrail/internal/gate"
	"github.com/guardrail-ai/guardrail/internal/risk"
	"github.com/guardrail-ai/guardrail/internal/types"
)

func testEvent(score int, verdict gate.Verdict, threats ...detect.Threat) Event {
	return Event{
		ID:        types.NewID(),
		Stage:     StagePrompt,
		Text:      "payload",
		Threats:   threats,
		Score:     score,
		Level:     risk.LevelForScore(score),
		Verdict:   verdict,
		Timestamp: time.Now().UTC(),
	}
}

func TestRecordKeepsInsertionOrder(t *testing.T) {
	log := New()
	for i := 0; i < 5; i++ {
		e := testEvent(i*10, gate.VerdictAllowed)
		e.Text = fmt.Sprintf("payload %d", i)
		log.Record(e)
	}

	events := log.All()
	require.Len(t, events, 5)
	for i, e := range events {
		assert.Equal(t, fmt.Sprintf("payload %d", i), e.Text)
	}
	assert.Equal(t, 5, log.Len())
}

func TestAllReturnsCopy(t *testing.T) {
	log := New()
	log.Record(testEvent(10, gate.VerdictAllowed))

	events := log.All()
	events[0].Score = 999

	assert.Equal(t, 10, log.All()[0].Score)
}

func TestClear(t *testing.T) {
	log := New()
	log.Record(testEvent(10, gate.VerdictAllowed))
	log.Record(testEvent(50, gate.VerdictFlagged))

	log.Clear()
	assert.Equal(t, 0, log.Len())
	assert.Empty(t, log.All())
}

func TestSummaryEmpty(t *testing.T) {
	s := New().Summary()
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0, s.Threats)
	assert.Empty(t, s.ByVerdict)
}

func TestSummaryAggregates(t *testing.T) {
	log := New()
	log.Record(testEvent(0, gate.VerdictAllowed))
	log.Record(testEvent(40, gate.VerdictFlagged, detect.Threat{
		ID: "PI-001", Category: catalog.CategoryPromptInjection, Severity: catalog.SeverityHigh,
	}))
	log.Record(testEvent(95, gate.VerdictBlocked,
		detect.Threat{ID: "SQ-001", Category: catalog.CategorySQLInjection, Severity: catalog.SeverityCritical},
		detect.Threat{ID: "SQ-004", Category: catalog.CategorySQLInjection, Severity: catalog.SeverityMedium},
	))

	s := log.Summary()
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 3, s.Threats)
	assert.Equal(t, 0, s.Scores.Min)
	assert.Equal(t, 95, s.Scores.Max)
	assert.InDelta(t, 45.0, s.Scores.Mean, 0.001)

	assert.Equal(t, 1, s.ByVerdict[gate.VerdictAllowed])
	assert.Equal(t, 1, s.ByVerdict[gate.VerdictFlagged])
	assert.Equal(t, 1, s.ByVerdict[gate.VerdictBlocked])

	assert.Equal(t, 1, s.ByCategory[catalog.CategoryPromptInjection])
	assert.Equal(t, 2, s.ByCategory[catalog.CategorySQLInjection])
	assert.Equal(t, 1, s.BySeverity[catalog.SeverityCritical])
	assert.Equal(t, 1, s.BySeverity[catalog.SeverityHigh])
	assert.Equal(t, 1, s.BySeverity[catalog.SeverityMedium])
}

func TestConcurrentRecord(t *testing.T) {
	log := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				log.Record(testEvent(j, gate.VerdictAllowed))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, log.Len())
	assert.Equal(t, 1000, log.Summary().Count)
}
