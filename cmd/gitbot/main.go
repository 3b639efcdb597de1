// Package main implements the gitbot CLI: a natural-language assistant for
// git repositories and GitHub.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath overrides the config file location.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitbot",
	Short: "Natural-language assistant for git and GitHub",
	Long: `gitbot turns plain-English requests into git and GitHub operations.
It drives an LLM tool-calling loop: local repository work runs through the
git binary, GitHub work runs through the GitHub MCP server, and anything
destructive asks for your confirmation first.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/gitbot/config.yaml)")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(configCmd)
}
