package onboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Curated tool-calling models per hosted provider. Ollama models are
// discovered from the local server instead.
var (
	groqModels = []string{
		"llama-3.3-70b-versatile",
		"llama-3.1-8b-instant",
		"qwen/qwen3-32b",
		"moonshotai/kimi-k2-instruct",
	}

	geminiModels = []string{
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite",
		"gemini-1.5-pro",
	}
)

// ModelsFor returns the model choices for a hosted provider.
func ModelsFor(provider string) []string {
	switch strings.ToLower(provider) {
	case "groq":
		return append([]string(nil), groqModels...)
	case "gemini":
		return append([]string(nil), geminiModels...)
	default:
		return nil
	}
}

// ollamaTagsResponse is the shape of GET /api/tags.
type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// modelLister lets tests stub the Ollama round-trip.
type modelLister func(ctx context.Context, baseURL string) ([]string, error)

// FetchOllamaModels lists the models installed on a local Ollama server.
func FetchOllamaModels(ctx context.Context, baseURL string) ([]string, error) {
	url := strings.TrimRight(baseURL, "/") + "/api/tags"

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot reach ollama at %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("cannot decode ollama response: %w", err)
	}

	if len(tags.Models) == 0 {
		return nil, fmt.Errorf("no models installed; run 'ollama pull' first")
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
