package llm

import (
	"context"
	"sync"
)

// UsageTracker accounts for calls made against a provider's rate/quota
// budget. It is constructed once per process and passed by reference to the
// clients that share the budget; it is never package-level state.
type UsageTracker struct {
	mu sync.Mutex

	provider      string
	generateCalls int64
	embedCalls    int64
	failures      int64
	promptChars   int64
	responseChars int64
}

type UsageSnapshot struct {
	Provider      string `json:"provider"`
	GenerateCalls int64  `json:"chamadas_geracao"`
	EmbedCalls    int64  `json:"chamadas_embedding"`
	Failures      int64  `json:"falhas"`
	PromptChars   int64  `json:"caracteres_prompt"`
	ResponseChars int64  `json:"caracteres_resposta"`
}

func NewUsageTracker(provider string) *UsageTracker {
	return &UsageTracker{provider: provider}
}

func (t *UsageTracker) recordGenerate(promptLen, responseLen int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generateCalls++
	t.promptChars += int64(promptLen)
	if err != nil {
		t.failures++
		return
	}
	t.responseChars += int64(responseLen)
}

func (t *UsageTracker) recordEmbed(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.embedCalls++
	if err != nil {
		t.failures++
	}
}

func (t *UsageTracker) Snapshot() UsageSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return UsageSnapshot{
		Provider:      t.provider,
		GenerateCalls: t.generateCalls,
		EmbedCalls:    t.embedCalls,
		Failures:      t.failures,
		PromptChars:   t.promptChars,
		ResponseChars: t.responseChars,
	}
}

// TrackUsage wraps a client so every Generate call is accounted for.
func TrackUsage(inner LLMClient, tracker *UsageTracker) LLMClient {
	return &trackedLLM{inner: inner, tracker: tracker}
}

// TrackEmbedderUsage wraps an embedder the same way. A nil inner embedder
// stays nil so callers can keep checking for the missing capability.
func TrackEmbedderUsage(inner EmbedderClient, tracker *UsageTracker) EmbedderClient {
	if inner == nil {
		return nil
	}
	return &trackedEmbedder{inner: inner, tracker: tracker}
}

type trackedLLM struct {
	inner   LLMClient
	tracker *UsageTracker
}

func (c *trackedLLM) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	response, err := c.inner.Generate(ctx, prompt, opts)
	c.tracker.recordGenerate(len(prompt), len(response), err)
	return response, err
}

type trackedEmbedder struct {
	inner   EmbedderClient
	tracker *UsageTracker
}

func (c *trackedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := c.inner.Embed(ctx, text)
	c.tracker.recordEmbed(err)
	return vec, err
}
