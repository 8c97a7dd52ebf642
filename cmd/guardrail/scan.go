package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guardrail-ai/guardrail/cmd/guardrail/internal"
	"github.com/guardrail-ai/guardrail/internal/simulate"
)

var (
	scanPrompt string
	scanQuiet  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the legacy injection scan harness",
	Long: `Replay the built-in battery of injection payloads and attack chains
against a simulated agent and grade how many got through. This is a
standalone diagnostic; it does not touch the pattern catalog.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanPrompt, "prompt", "You are a helpful assistant.", "System prompt for the simulated agent")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "Print only the grade line")
}

func runScan(cmd *cobra.Command, args []string) error {
	scanner := simulate.NewScanner()
	report := scanner.Scan(scanPrompt)

	if scanQuiet {
		cmd.Printf("Grade: %s (%d/%d vulnerable)\n", report.Grade, report.Vulnerable, report.TotalTests)
	} else {
		printScanReport(cmd, report)
	}

	if report.Vulnerable > 0 || report.VulnerableChains > 0 {
		return internal.ThreatsFoundError
	}
	return nil
}

func printScanReport(cmd *cobra.Command, report simulate.Report) {
	out := cmd.OutOrStdout()

	cmd.Println("=== Injection Scan Report ===")
	cmd.Println()
	cmd.Printf("Payloads tested: %d\n", report.TotalTests)
	color.New(color.FgGreen).Fprintf(out, "Safe:            %d\n", report.Safe)
	if report.Vulnerable > 0 {
		color.New(color.FgRed).Fprintf(out, "Vulnerable:      %d\n", report.Vulnerable)
	} else {
		cmd.Printf("Vulnerable:      %d\n", report.Vulnerable)
	}
	cmd.Printf("Grade:           %s\n", report.Grade)

	if len(report.Findings) > 0 {
		cmd.Println("\nVulnerable payloads:")
		for _, f := range report.Findings {
			color.New(color.FgRed).Fprintf(out, "  ✗ %s\n", f.Payload)
			cmd.Printf("    response: %s\n", f.Response)
		}
	}

	cmd.Printf("\nAttack chains tested: %d\n", report.TotalChains)
	if report.VulnerableChains > 0 {
		color.New(color.FgRed).Fprintf(out, "Vulnerable chains:    %d\n", report.VulnerableChains)
		for _, cf := range report.ChainFindings {
			color.New(color.FgRed).Fprintf(out, "  ✗ %s\n", cf.Chain.Name)
			for i, step := range cf.Chain.Steps {
				cmd.Printf("    step %d: %s\n", i+1, step)
			}
		}
	} else {
		cmd.Printf("Vulnerable chains:    %d\n", report.VulnerableChains)
	}
}
