// Package monitor wires the catalog, match engine, scorer, gate, event log,
// and review queue into the synchronous evaluation port. The whole evaluate
// path completes before the calling lifecycle hook returns; a blocked
// verdict is the caller's signal that the in-flight operation must not
// proceed.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/guardrail-ai/guardrail/internal/catalog"
	"github.com/guardrail-ai/guardrail/internal/detect"
	"github.com/guardrail-ai/guardrail/internal/eventlog"
	"github.com/guardrail-ai/guardrail/internal/gate"
	"github.com/guardrail-ai/guardrail/internal/review"
	"github.com/guardrail-ai/guardrail/internal/risk"
	"github.com/guardrail-ai/guardrail/internal/types"
)

// Stage re-exports the lifecycle hookpoints for callers of the port.
type Stage = eventlog.Stage

const (
	StagePrompt     = eventlog.StagePrompt
	StageToolInput  = eventlog.StageToolInput
	StageChainInput = eventlog.StageChainInput
)

// Decision is the outcome of one evaluation, returned synchronously to the
// host adapter.
type Decision struct {
	Verdict gate.Verdict    `json:"verdict"`
	Score   int             `json:"score"`
	Level   risk.Level      `json:"level"`
	Threats []detect.Threat `json:"threats,omitempty"`
	Reasons []risk.Reason   `json:"-"`

	// EventID identifies the recorded evaluation event.
	EventID types.ID `json:"event_id"`
	// ReviewItemID is set when a flagged verdict created a queue item.
	ReviewItemID types.ID `json:"review_item_id,omitempty"`
	// Diagnostic carries detail when an internal failure forced a blocked
	// verdict (fail closed, never fail open).
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Blocked reports whether the in-flight operation must not proceed.
func (d Decision) Blocked() bool {
	return d.Verdict == gate.VerdictBlocked
}

// scanner and scorer are the seams between the monitor and its pipeline
// stages, narrow enough to substitute in tests.
type scanner interface {
	Scan(text string) []detect.Match
}

type scorer interface {
	Assess(matches []detect.Match, text string) risk.Assessment
}

// Monitor owns the evaluate path and the per-instance event log and review
// queue. One monitor may be shared by several concurrent agent sessions;
// the catalog is immutable and the log and queue serialize internally.
type Monitor struct {
	engine  scanner
	scorer  scorer
	gate    *gate.Gate
	log     *eventlog.Log
	reviews *review.Queue
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) { m.logger = logger }
}

// WithTracer enables OpenTelemetry spans around each evaluation.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Monitor) { m.tracer = tracer }
}

// WithWeights overrides the scorer's weight table.
func WithWeights(w risk.WeightTable) Option {
	return func(m *Monitor) { m.scorer = risk.NewScorer(w) }
}

// New constructs a monitor over a loaded catalog. Construction fails only
// on invalid gate configuration.
func New(c *catalog.Catalog, cfg gate.Config, opts ...Option) (*Monitor, error) {
	g, err := gate.New(cfg)
	if err != nil {
		return nil, err
	}

	m := &Monitor{
		engine:  detect.NewEngine(c),
		scorer:  risk.NewScorer(risk.DefaultWeights()),
		gate:    g,
		log:     eventlog.New(),
		reviews: review.New(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Evaluate runs the full scan, score, decide, record path for one payload
// with no session attribution.
func (m *Monitor) Evaluate(ctx context.Context, stage Stage, text string) Decision {
	return m.evaluate(ctx, "", stage, text)
}

// Session returns a handle that attributes evaluations to one agent
// session. Handles share the monitor's log and queue.
func (m *Monitor) Session(id string) *Session {
	return &Session{monitor: m, id: id}
}

// Scan is the standalone scan API: it reports threats without gating,
// logging, or session context.
func (m *Monitor) Scan(text string) []detect.Threat {
	return detect.Threats(m.engine.Scan(text))
}

// Events returns the recorded evaluations in insertion order.
func (m *Monitor) Events() []eventlog.Event {
	return m.log.All()
}

// Summary aggregates the event log.
func (m *Monitor) Summary() eventlog.Summary {
	return m.log.Summary()
}

// ClearEvents resets the event log. Explicit, never automatic.
func (m *Monitor) ClearEvents() {
	m.log.Clear()
}

// PendingReviews lists queue items still awaiting human disposition.
func (m *Monitor) PendingReviews() []review.Item {
	return m.reviews.Pending()
}

// Reviews exposes the review queue for disposition flows.
func (m *Monitor) Reviews() *review.Queue {
	return m.reviews
}

// ResolveReview applies a human outcome to a pending review item.
func (m *Monitor) ResolveReview(id types.ID, outcome review.Outcome) (review.Item, error) {
	return m.reviews.Resolve(id, outcome)
}

func (m *Monitor) evaluate(ctx context.Context, session string, stage Stage, text string) (decision Decision) {
	var span trace.Span
	if m.tracer != nil {
		ctx, span = m.tracer.Start(ctx, "monitor.evaluate",
			trace.WithAttributes(
				attribute.String("guardrail.stage", string(stage)),
				attribute.String("guardrail.session", session),
			),
		)
		defer func() {
			span.SetAttributes(
				attribute.String("guardrail.verdict", string(decision.Verdict)),
				attribute.Int("guardrail.score", decision.Score),
			)
			span.End()
		}()
	}

	// Fail closed: an unexpected failure anywhere in the pipeline becomes a
	// blocked verdict with diagnostic detail, never a silent allow.
	defer func() {
		if r := recover(); r != nil {
			decision = Decision{
				Verdict:    gate.VerdictBlocked,
				Score:      100,
				Level:      risk.LevelCritical,
				Diagnostic: fmt.Sprintf("internal evaluation failure: %v", r),
			}
			m.logger.ErrorContext(ctx, "evaluation failed, blocking",
				"stage", stage,
				"session", session,
				"panic", fmt.Sprint(r),
			)
		}
	}()

	matches := m.engine.Scan(text)
	assessment := m.scorer.Assess(matches, text)
	verdict := m.gate.Decide(assessment.Score)
	threats := detect.Threats(matches)

	event := eventlog.Event{
		ID:        types.NewID(),
		SessionID: session,
		Stage:     stage,
		Text:      truncate(text, 100),
		Threats:   threats,
		Score:     assessment.Score,
		Level:     assessment.Level,
		Verdict:   verdict,
		Timestamp: time.Now().UTC(),
	}
	m.log.Record(event)

	decision = Decision{
		Verdict: verdict,
		Score:   assessment.Score,
		Level:   assessment.Level,
		Threats: threats,
		Reasons: assessment.Reasons,
		EventID: event.ID,
	}

	if verdict == gate.VerdictFlagged {
		item := m.reviews.Enqueue(event)
		decision.ReviewItemID = item.ID
	}

	switch {
	case verdict == gate.VerdictBlocked:
		m.logger.ErrorContext(ctx, "payload blocked",
			"stage", stage,
			"session", session,
			"score", assessment.Score,
			"level", assessment.Level,
			"threats", len(threats),
		)
	case len(threats) > 0:
		m.logger.WarnContext(ctx, "threats detected",
			"stage", stage,
			"session", session,
			"score", assessment.Score,
			"level", assessment.Level,
			"verdict", verdict,
			"threats", len(threats),
		)
	}

	return decision
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// Session attributes evaluations to one agent session. All handles of a
// monitor share its event log and review queue; each session's events keep
// their completion order.
type Session struct {
	monitor *Monitor
	id      string
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Evaluate runs the full evaluate path attributed to this session.
func (s *Session) Evaluate(ctx context.Context, stage Stage, text string) Decision {
	return s.monitor.evaluate(ctx, s.id, stage, text)
}
