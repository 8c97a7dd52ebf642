package main

import (
	"github.com/spf13/cobra"

	"github.com/guardrail-ai/guardrail/internal/catalog"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("guardrail %s\n", Version)
		if cat, err := catalog.Load(); err == nil {
			cmd.Printf("pattern catalog %s (%d patterns)\n", cat.Version(), cat.Len())
		}
		return nil
	},
}
