package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guardrail-ai/guardrail/cmd/guardrail/internal"
	"github.com/guardrail-ai/guardrail/internal/catalog"
	"github.com/guardrail-ai/guardrail/internal/detect"
	"github.com/guardrail-ai/guardrail/internal/gate"
	"github.com/guardrail-ai/guardrail/internal/risk"
)

var scoreCmd = &cobra.Command{
	Use:   "score TEXT",
	Short: "Score the risk of a text payload",
	Long: `Scan text, compute its risk score and level, show the score breakdown,
and print the verdict the configured thresholds would produce.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cat, err := catalog.Load()
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "failed to load pattern catalog", err)
	}
	g, err := gate.New(cfg.Gate)
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "invalid thresholds", err)
	}

	engine := detect.NewEngine(cat)
	scorer := risk.NewScorer(cfg.Weights)

	matches := engine.Scan(args[0])
	assessment := scorer.Assess(matches, args[0])
	verdict := g.Decide(assessment.Score)

	cmd.Printf("Score:   %d/100\n", assessment.Score)
	cmd.Printf("Level:   %s\n", assessment.Level)
	cmd.Printf("Verdict: ")
	verdictColor(verdict).Fprintln(cmd.OutOrStdout(), string(verdict))

	if len(assessment.Reasons) > 0 {
		cmd.Println("\nBreakdown:")
		for _, r := range assessment.Reasons {
			cmd.Printf("  %s\n", r)
		}
	}
	return nil
}

func verdictColor(v gate.Verdict) *color.Color {
	switch v {
	case gate.VerdictBlocked:
		return color.New(color.FgRed, color.Bold)
	case gate.VerdictFlagged:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
