package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/gitbot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the effective configuration after file and environment merging.
Secrets are redacted; use the config file itself if you need the raw values.

Examples:
  # Show current config
  gitbot config

  # Show config from an alternate file
  gitbot config --config ./gitbot.yaml`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return err
	}

	// Secret fields marshal redacted.
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !cfg.Onboarded() {
		fmt.Fprintln(cmd.OutOrStdout(), "\nnot set up yet; run 'gitbot onboard'")
	}
	return nil
}
