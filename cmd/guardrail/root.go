package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/guardrail-ai/guardrail/cmd/guardrail/internal"
	"github.com/guardrail-ai/guardrail/internal/config"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "guardrail",
	Short: "Guardrail - Runtime security monitoring for AI agents",
	Long: `Guardrail scans AI agent payloads (prompts, tool inputs, chain inputs)
for security threats, scores the risk, and decides whether the payload may
proceed, must be blocked, or needs human review.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose error output")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves the effective configuration: the --config file when
// given, the defaults otherwise.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, internal.WrapError(internal.ExitConfigError, "invalid configuration", err)
	}
	return cfg, nil
}
