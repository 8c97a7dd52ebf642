// Package langchain adapts the evaluation port to langchaingo's lifecycle
// callbacks. It is boundary code: the core makes no assumption about the
// host framework, and this adapter is responsible for turning a blocked
// decision into actually stopping the in-flight operation.
package langchain

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tmc/langchaingo/callbacks"

	"github.com/guardrail-ai/guardrail/internal/monitor"
)

// BlockedFunc is invoked synchronously when an evaluation blocks. The host
// wires this to whatever abort mechanism its agent loop supports.
type BlockedFunc func(ctx context.Context, stage monitor.Stage, text string, decision monitor.Decision)

// Callback monitors agent execution through langchaingo lifecycle hooks.
// Prompts, chain inputs, and tool inputs are each evaluated synchronously
// before the framework proceeds.
type Callback struct {
	callbacks.SimpleHandler

	session   *monitor.Session
	logger    *slog.Logger
	onBlocked BlockedFunc

	mu      sync.Mutex
	blocked []monitor.Decision
}

// Option configures a Callback.
type Option func(*Callback)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Callback) { c.logger = logger }
}

// WithOnBlocked registers the host's abort hook for blocked decisions.
func WithOnBlocked(fn BlockedFunc) Option {
	return func(c *Callback) { c.onBlocked = fn }
}

// NewCallback attaches a monitor session to langchaingo callbacks. Several
// callbacks may share one monitor; each gets its own session identifier.
func NewCallback(m *monitor.Monitor, sessionID string, opts ...Option) *Callback {
	c := &Callback{
		session: m.Session(sessionID),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleLLMStart evaluates each prompt before the model call proceeds.
func (c *Callback) HandleLLMStart(ctx context.Context, prompts []string) {
	for _, prompt := range prompts {
		c.evaluate(ctx, monitor.StagePrompt, prompt)
	}
}

// HandleChainStart evaluates every string-valued chain input.
func (c *Callback) HandleChainStart(ctx context.Context, inputs map[string]any) {
	for _, value := range inputs {
		if text, ok := value.(string); ok {
			c.evaluate(ctx, monitor.StageChainInput, text)
		}
	}
}

// HandleToolStart evaluates the tool input before the tool runs.
func (c *Callback) HandleToolStart(ctx context.Context, input string) {
	c.evaluate(ctx, monitor.StageToolInput, input)
}

// HandleLLMError logs model errors alongside the security events.
func (c *Callback) HandleLLMError(ctx context.Context, err error) {
	c.logger.ErrorContext(ctx, "llm error", "session", c.session.ID(), "error", err)
}

// HandleToolError logs tool errors alongside the security events.
func (c *Callback) HandleToolError(ctx context.Context, err error) {
	c.logger.ErrorContext(ctx, "tool error", "session", c.session.ID(), "error", err)
}

// Blocked returns every blocked decision seen so far, oldest first.
func (c *Callback) Blocked() []monitor.Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]monitor.Decision, len(c.blocked))
	copy(out, c.blocked)
	return out
}

func (c *Callback) evaluate(ctx context.Context, stage monitor.Stage, text string) {
	decision := c.session.Evaluate(ctx, stage, text)
	if !decision.Blocked() {
		return
	}

	c.mu.Lock()
	c.blocked = append(c.blocked, decision)
	c.mu.Unlock()

	if c.onBlocked != nil {
		c.onBlocked(ctx, stage, text, decision)
	}
}
