package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1"

// defaultOllamaURL matches a stock local Ollama install.
const defaultOllamaURL = "http://localhost:11434"

// Options select and authenticate a provider. Resolved once from config at
// session start; the session never switches providers mid-flight.
type Options struct {
	// Provider is one of "groq", "gemini", "ollama".
	Provider string

	// Model is the provider-specific model name. Must support tool calling.
	Model string

	// APIKey authenticates groq and gemini. Unused for ollama.
	APIKey string

	// BaseURL overrides the Ollama server URL.
	BaseURL string
}

// NewModel builds the chat model for the configured provider. Failures are
// session-fatal: the caller reports them to the user and exits rather than
// starting a session that cannot reason.
func NewModel(ctx context.Context, opts Options) (llms.Model, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))

	switch provider {
	case "groq":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("groq API key is not configured; run 'gitbot onboard' first")
		}
		return openai.New(
			openai.WithToken(opts.APIKey),
			openai.WithModel(opts.Model),
			openai.WithBaseURL(groqBaseURL),
		)
	case "gemini":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is not configured; run 'gitbot onboard' first")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(opts.APIKey),
			googleai.WithDefaultModel(opts.Model),
		)
	case "ollama":
		base := opts.BaseURL
		if base == "" {
			base = defaultOllamaURL
		}
		return ollama.New(
			ollama.WithModel(opts.Model),
			ollama.WithServerURL(base),
		)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q; run 'gitbot onboard' first", opts.Provider)
	}
}
