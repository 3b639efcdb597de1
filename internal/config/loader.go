package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	envPrefix = "GITBOT_"
)

// DefaultPath returns the standard config file location,
// ~/.config/gitbot/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gitbot", "config.yaml"), nil
}

// LoadWithFile loads configuration from a YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (GITBOT_GITHUB_TOKEN, GITBOT_LLM_PROVIDER, ...)
//  2. YAML config file (~/.config/gitbot/config.yaml)
//  3. Hardcoded defaults
//
// The config file holds the GitHub token and provider API keys, so it MUST
// have 0600 permissions (owner read/write only); files with weaker
// permissions are rejected. Files larger than 1MB are rejected. A missing
// file is not an error: env-only configuration is valid, and a fresh
// install has no file until 'gitbot onboard' writes one.
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		var err error
		configPath, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and validate through the descriptor to avoid a
		// TOCTOU race between the permission check and the read.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if err := validateConfigFileProperties(info); err != nil {
			return nil, fmt.Errorf("config file validation failed: %w", err)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment variables: GITBOT_<SECTION>_<FIELD_NAME>, underscores in
	// the field name preserved.
	//
	//	GITBOT_GITHUB_TOKEN        -> github.token
	//	GITBOT_LLM_PROVIDER        -> llm.provider
	//	GITBOT_LLM_GROQ_API_KEY    -> llm.groq_api_key
	//	GITBOT_AGENT_TURN_LIMIT    -> agent.turn_limit
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to path with 0600 permissions, creating the
// parent directory (0700) if needed. The onboarding wizard is the only
// writer; values are serialized raw, bypassing Secret redaction, because the
// file is the credential store.
func Save(configPath string, cfg *Config) error {
	if configPath == "" {
		var err error
		configPath, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := map[string]any{
		"github": map[string]any{
			"username": cfg.GitHub.Username,
			"email":    cfg.GitHub.Email,
			"token":    cfg.GitHub.Token.Value(),
		},
		"llm": map[string]any{
			"provider":        cfg.LLM.Provider,
			"model":           cfg.LLM.Model,
			"groq_api_key":    cfg.LLM.GroqAPIKey.Value(),
			"gemini_api_key":  cfg.LLM.GeminiAPIKey.Value(),
			"ollama_base_url": cfg.LLM.OllamaBaseURL,
		},
		"agent": map[string]any{
			"turn_limit":      cfg.Agent.TurnLimit,
			"confirm_timeout": cfg.Agent.ConfirmTimeout.Duration().String(),
		},
		"log": map[string]any{
			"level":  cfg.Log.Level,
			"format": cfg.Log.Format,
			"file":   cfg.Log.File,
		},
	}

	content, err := yaml.Parser().Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// validateConfigFileProperties checks file permissions and size using
// FileInfo from an already-opened descriptor.
func validateConfigFileProperties(info os.FileInfo) error {
	// Permission model differs on Windows; skip the check there.
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}
