package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	return s.response, s.err
}

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vector, s.err
}

func TestUsageTracker_Generate(t *testing.T) {
	tracker := NewUsageTracker("openai")
	client := TrackUsage(&stubLLM{response: "ok"}, tracker)

	_, err := client.Generate(context.Background(), "prompt", GenerateOptions{})
	assert.NoError(t, err)

	snap := tracker.Snapshot()
	assert.Equal(t, "openai", snap.Provider)
	assert.Equal(t, int64(1), snap.GenerateCalls)
	assert.Equal(t, int64(6), snap.PromptChars)
	assert.Equal(t, int64(2), snap.ResponseChars)
	assert.Equal(t, int64(0), snap.Failures)
}

func TestUsageTracker_Failures(t *testing.T) {
	tracker := NewUsageTracker("ollama")
	client := TrackUsage(&stubLLM{err: errors.New("timeout")}, tracker)
	embedder := TrackEmbedderUsage(&stubEmbedder{err: errors.New("quota")}, tracker)

	_, genErr := client.Generate(context.Background(), "p", GenerateOptions{})
	_, embErr := embedder.Embed(context.Background(), "texto")
	assert.Error(t, genErr)
	assert.Error(t, embErr)

	snap := tracker.Snapshot()
	assert.Equal(t, int64(1), snap.GenerateCalls)
	assert.Equal(t, int64(1), snap.EmbedCalls)
	assert.Equal(t, int64(2), snap.Failures)
}

func TestTrackEmbedderUsage_NilStaysNil(t *testing.T) {
	assert.Nil(t, TrackEmbedderUsage(nil, NewUsageTracker("claude")))
}
