package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand_RedactsSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `github:
  username: octocat
  token: ghp_verysecret
llm:
  provider: groq
  model: llama-3.3-70b-versatile
  groq_api_key: gsk_alsosecret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	oldPath := configPath
	configPath = path
	defer func() { configPath = oldPath }()

	var buf bytes.Buffer
	configCmd.SetOut(&buf)
	require.NoError(t, runConfig(configCmd, nil))

	out := buf.String()
	assert.Contains(t, out, "octocat")
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "verysecret")
	assert.NotContains(t, out, "alsosecret")
}

func TestChatCommand_RequiresOnboarding(t *testing.T) {
	oldPath := configPath
	configPath = filepath.Join(t.TempDir(), "absent.yaml")
	defer func() { configPath = oldPath }()

	err := runChat(chatCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gitbot onboard")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["chat"])
	assert.True(t, names["onboard"])
	assert.True(t, names["config"])
}
