package verify

import (
	"context"
	"sync"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/llm"
)

type MockLLM struct {
	mu           sync.Mutex
	Response     string
	Err          error
	Calls        []string
	GenerateFunc func(prompt string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, prompt)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
