package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/config"
)

// NewClient builds the generation and embedding clients for the configured
// provider, both wrapped with the shared usage tracker. The embedder may be
// nil when the provider has no embedding capability (claude).
func NewClient(ctx context.Context, cfg config.LLMConfig, tracker *UsageTracker) (LLMClient, EmbedderClient, error) {
	provider := strings.ToLower(cfg.Provider)

	var (
		client   LLMClient
		embedder EmbedderClient
	)

	switch provider {
	case "openai":
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL)
		client, embedder = c, c

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		client, embedder = c, c

	case "claude":
		// No embedding capability; callers must check for a nil embedder.
		client = NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)

	case "ollama":
		// Ollama speaks the OpenAI-compatible API; the key is a dummy.
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		c := NewOpenAIClient(apiKey, cfg.Model, cfg.EmbeddingModel, baseURL)
		client, embedder = c, c

	default:
		return nil, nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}

	if tracker != nil {
		client = TrackUsage(client, tracker)
		embedder = TrackEmbedderUsage(embedder, tracker)
	}
	return client, embedder, nil
}
