package llm

import (
	"context"
)

// GenerateOptions carries the per-call knobs the pipeline needs: a low
// temperature for structured-output requests, a higher one for the
// exploratory synthesis passes.
type GenerateOptions struct {
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

type LLMClient interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
