package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gitbot/internal/config"
	"github.com/fyrsmithlabs/gitbot/internal/onboard"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Run the first-time setup wizard",
	Long: `Set up gitbot: verify a GitHub token, pick an LLM provider and a
tool-calling model, and write the config file.

Examples:
  # First-time setup
  gitbot onboard

  # Re-run to change provider or model; existing values are kept as defaults
  gitbot onboard`,
	RunE: runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	// Seed the wizard with the current config when one exists; a broken or
	// missing file just means a fresh start.
	existing, err := config.LoadWithFile(path)
	if err != nil {
		existing = nil
	}

	return onboard.Run(path, existing)
}
