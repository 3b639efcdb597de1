// Package config provides configuration loading for gitbot.
package config

import (
	"fmt"
	"strings"
)

// GitHubConfig identifies the user and authenticates the GitHub backend.
type GitHubConfig struct {
	Username string `koanf:"username" json:"username"`
	Email    string `koanf:"email" json:"email"`
	Token    Secret `koanf:"token" json:"token"`
}

// LLMConfig selects the reasoning provider. Exactly one provider is active
// per session; its model and credential fields must be consistent.
type LLMConfig struct {
	// Provider is one of "groq", "gemini", "ollama".
	Provider string `koanf:"provider" json:"provider"`

	// Model is the provider-specific model name. Must support tool calling.
	Model string `koanf:"model" json:"model"`

	GroqAPIKey   Secret `koanf:"groq_api_key" json:"groq_api_key"`
	GeminiAPIKey Secret `koanf:"gemini_api_key" json:"gemini_api_key"`

	// OllamaBaseURL overrides the local Ollama server URL.
	OllamaBaseURL string `koanf:"ollama_base_url" json:"ollama_base_url"`
}

// AgentConfig tunes the reasoning loop.
type AgentConfig struct {
	// TurnLimit bounds LLM round-trips per user turn.
	TurnLimit int `koanf:"turn_limit" json:"turn_limit"`

	// ConfirmTimeout bounds how long a destructive call waits for the
	// user's answer. Zero waits indefinitely.
	ConfirmTimeout Duration `koanf:"confirm_timeout" json:"confirm_timeout"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `koanf:"level" json:"level"`

	// Format is "console" or "json".
	Format string `koanf:"format" json:"format"`

	// File, when set, writes logs there instead of stderr so they do not
	// interleave with the chat UI.
	File string `koanf:"file" json:"file"`
}

// Config is the root configuration.
type Config struct {
	GitHub GitHubConfig `koanf:"github" json:"github"`
	LLM    LLMConfig    `koanf:"llm" json:"llm"`
	Agent  AgentConfig  `koanf:"agent" json:"agent"`
	Log    LogConfig    `koanf:"log" json:"log"`
}

var validProviders = map[string]bool{
	"groq":   true,
	"gemini": true,
	"ollama": true,
}

// Validate checks cross-field consistency. Loaders call it after defaults
// are applied.
func (c *Config) Validate() error {
	provider := strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if provider != "" && !validProviders[provider] {
		return fmt.Errorf("llm.provider: unknown provider %q (want groq, gemini, or ollama)", c.LLM.Provider)
	}

	switch provider {
	case "groq":
		if !c.LLM.GroqAPIKey.IsSet() {
			return fmt.Errorf("llm.groq_api_key: required when provider is groq")
		}
	case "gemini":
		if !c.LLM.GeminiAPIKey.IsSet() {
			return fmt.Errorf("llm.gemini_api_key: required when provider is gemini")
		}
	}

	if c.Agent.TurnLimit < 0 {
		return fmt.Errorf("agent.turn_limit: must not be negative")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}

	return nil
}

// Onboarded reports whether enough configuration exists to start a chat
// session: a provider and the GitHub identity.
func (c *Config) Onboarded() bool {
	return c.LLM.Provider != "" && c.LLM.Model != "" && c.GitHub.Username != ""
}

// APIKey returns the credential for the active provider.
func (c *Config) APIKey() Secret {
	switch strings.ToLower(c.LLM.Provider) {
	case "groq":
		return c.LLM.GroqAPIKey
	case "gemini":
		return c.LLM.GeminiAPIKey
	default:
		return ""
	}
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Agent.TurnLimit == 0 {
		cfg.Agent.TurnLimit = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.LLM.OllamaBaseURL == "" {
		cfg.LLM.OllamaBaseURL = "http://localhost:11434"
	}
}
