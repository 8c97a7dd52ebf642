// Package config loads the recognized configuration options from YAML and
// validates them before any component is constructed. Load and validation
// failures abort initialization; there is no silent fallback to defaults.
package config

import (
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/guardrail-ai/guardrail/internal/catalog"
	"github.com/guardrail-ai/guardrail/internal/gate"
	"github.com/guardrail-ai/guardrail/internal/risk"
	"github.com/guardrail-ai/guardrail/internal/types"
)

// Config is the validated configuration for a monitor instance.
type Config struct {
	Gate    gate.Config
	Weights risk.WeightTable
}

// Default returns the stock configuration: thresholds 81/31, review queue
// enabled, default weight table.
func Default() Config {
	return Config{
		Gate:    gate.DefaultConfig(),
		Weights: risk.DefaultWeights(),
	}
}

// file is the raw YAML shape. The weights section stays loosely typed so
// partial overrides decode cleanly; mapstructure turns it into the table.
type file struct {
	AutoBlockThreshold *int           `yaml:"auto_block_threshold"`
	ReviewThreshold    *int           `yaml:"review_threshold"`
	EnableReviewQueue  *bool          `yaml:"enable_review_queue"`
	Weights            map[string]any `yaml:"weights"`
}

type weightsSection struct {
	Severity map[string]int       `mapstructure:"severity"`
	Keywords []risk.KeywordWeight `mapstructure:"keywords"`
}

// Load reads and validates a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of the defaults and validates the
// result. Unset options keep their default values; invalid configurations
// are rejected here, never at evaluation time.
func Parse(data []byte) (Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to parse config", err)
	}

	cfg := Default()
	if f.AutoBlockThreshold != nil {
		cfg.Gate.AutoBlockThreshold = *f.AutoBlockThreshold
	}
	if f.ReviewThreshold != nil {
		cfg.Gate.ReviewThreshold = *f.ReviewThreshold
	}
	if f.EnableReviewQueue != nil {
		cfg.Gate.EnableReviewQueue = *f.EnableReviewQueue
	}

	if f.Weights != nil {
		var section weightsSection
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:  &section,
			TagName: "mapstructure",
		})
		if err != nil {
			return Config{}, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to create weights decoder", err)
		}
		if err := decoder.Decode(f.Weights); err != nil {
			return Config{}, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to decode weights", err)
		}

		for name, weight := range section.Severity {
			sev := catalog.Severity(name)
			if !sev.IsValid() {
				return Config{}, types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
					"unknown severity %q in weight table", name)
			}
			cfg.Weights.Severity[sev] = weight
		}
		if section.Keywords != nil {
			cfg.Weights.Keywords = section.Keywords
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks threshold bounds and ordering plus weight-table sanity.
// Severity contributions must stay positive: a detected threat may never
// lower the score.
func (c Config) Validate() error {
	if err := c.Gate.Validate(); err != nil {
		return err
	}
	for _, sev := range catalog.Severities() {
		weight, ok := c.Weights.Severity[sev]
		if !ok {
			return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
				"weight table missing severity %s", sev)
		}
		if weight <= 0 {
			return types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
				"severity %s weight %d must be positive", sev, weight)
		}
	}
	return nil
}
