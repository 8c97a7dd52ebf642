package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guardrail-ai/guardrail/cmd/guardrail/internal"
	"github.com/guardrail-ai/guardrail/internal/catalog"
	"github.com/guardrail-ai/guardrail/internal/detect"
)

var detectCmd = &cobra.Command{
	Use:   "detect TEXT",
	Short: "Scan text for security threats",
	Long: `Scan text against the pattern catalog and print every detected threat.
Exits non-zero when any threat is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load()
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "failed to load pattern catalog", err)
	}

	engine := detect.NewEngine(cat)
	threats := engine.ScanThreats(args[0])

	if len(threats) == 0 {
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ No threats detected")
		return nil
	}

	color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "✗ Found %d threat(s):\n\n", len(threats))
	for _, t := range threats {
		severityColor(t.Severity).Fprintf(cmd.OutOrStdout(), "  [%s] ", t.Severity)
		cmd.Printf("%s: %s\n", t.Category, t.Description)
		cmd.Printf("    ID: %s\n", t.ID)
	}

	return internal.ThreatsFoundError
}

func severityColor(s catalog.Severity) *color.Color {
	switch s {
	case catalog.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case catalog.SeverityHigh:
		return color.New(color.FgYellow)
	case catalog.SeverityMedium:
		return color.New(color.FgBlue)
	default:
		return color.New(color.Faint)
	}
}
