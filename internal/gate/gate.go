// Package gate applies configured thresholds to a risk score to produce a
// verdict. Each evaluation is independent: the gate keeps no state beyond
// its validated configuration.
package gate

import (
	"github.com/guardrail-ai/guardrail/internal/types"
)

// Verdict is the terminal outcome of one evaluation.
type Verdict string

const (
	VerdictAllowed Verdict = "allowed"
	VerdictFlagged Verdict = "flagged"
	VerdictBlocked Verdict = "blocked"
)

// Default thresholds: CRITICAL-band scores auto-block, MEDIUM and above is
// flagged for review.
const (
	DefaultAutoBlockThreshold = 81
	DefaultReviewThreshold    = 31
)

// Config holds the gate thresholds. Violating configurations are rejected
// at construction, never at evaluation time.
type Config struct {
	// AutoBlockThreshold is the minimum score that produces a blocked
	// verdict. Integer in [0,100].
	AutoBlockThreshold int
	// ReviewThreshold is the minimum score that produces a flagged verdict
	// when review queueing is enabled. Integer in [0,100], must not exceed
	// AutoBlockThreshold.
	ReviewThreshold int
	// EnableReviewQueue turns flagged verdicts on. When disabled, scores in
	// the review band fall through to allowed.
	EnableReviewQueue bool
}

// DefaultConfig returns the stock gate configuration.
func DefaultConfig() Config {
	return Config{
		AutoBlockThreshold: DefaultAutoBlockThreshold,
		ReviewThreshold:    DefaultReviewThreshold,
		EnableReviewQueue:  true,
	}
}

// Validate checks threshold bounds and ordering.
func (c Config) Validate() error {
	if c.AutoBlockThreshold < 0 || c.AutoBlockThreshold > 100 {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"auto_block_threshold %d outside [0,100]", c.AutoBlockThreshold)
	}
	if c.ReviewThreshold < 0 || c.ReviewThreshold > 100 {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"review_threshold %d outside [0,100]", c.ReviewThreshold)
	}
	if c.ReviewThreshold > c.AutoBlockThreshold {
		return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"review_threshold %d exceeds auto_block_threshold %d",
			c.ReviewThreshold, c.AutoBlockThreshold)
	}
	return nil
}

// Gate turns scores into verdicts using validated thresholds.
type Gate struct {
	cfg Config
}

// New constructs a gate, rejecting invalid threshold configurations.
func New(cfg Config) (*Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gate{cfg: cfg}, nil
}

// Config returns the gate's configuration.
func (g *Gate) Config() Config {
	return g.cfg
}

// Decide applies the transition rule in strict order: blocked when the
// score reaches the auto-block threshold, else flagged when it reaches the
// review threshold and queueing is enabled, else allowed.
func (g *Gate) Decide(score int) Verdict {
	switch {
	case score >= g.cfg.AutoBlockThreshold:
		return VerdictBlocked
	case score >= g.cfg.ReviewThreshold && g.cfg.EnableReviewQueue:
		return VerdictFlagged
	default:
		return VerdictAllowed
	}
}
