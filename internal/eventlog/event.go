package eventlog

import (
	"time"

	"github.com/guardrail-ai/guardrail/internal/detect"
	"github.com/guardrail-ai/guardrail/internal/gate"
	"github.com/guardrail-ai/guardrail/internal/risk"
	"github.com/guardrail-ai/guardrail/internal/types"
)

// Stage is the lifecycle hookpoint that triggered an evaluation.
type Stage string

const (
	StagePrompt     Stage = "prompt"
	StageToolInput  Stage = "tool-input"
	StageChainInput Stage = "chain-input"
)

// Event is one evaluation record. Created exactly once per evaluation and
// immutable thereafter; the log owns it.
type Event struct {
	ID        types.ID        `json:"id"`
	SessionID string          `json:"session_id,omitempty"`
	Stage     Stage           `json:"stage"`
	Text      string          `json:"text"`
	Threats   []detect.Threat `json:"threats,omitempty"`
	Score     int             `json:"score"`
	Level     risk.Level      `json:"level"`
	Verdict   gate.Verdict    `json:"verdict"`
	Timestamp time.Time       `json:"timestamp"`
}
