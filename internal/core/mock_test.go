package core

import (
	"context"
	"strings"
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

type MockEmbedder struct {
	Vector func(text string) []float32
	Err    error
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Vector != nil {
		return m.Vector(text), nil
	}
	return []float32{1, 0, 0}, nil
}

// scriptedLLM answers every stage of the pipeline with a coherent canned
// response so a full run can complete end to end.
func scriptedLLM() *MockLLM {
	m := &MockLLM{}
	m.GenerateFunc = func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Analise o bloco"):
			return `{
				"resumo": "bloco dominado por princípios administrativos",
				"padroes": [{"tipo": "reciclagem_de_temas", "descricao": "princípios cobrados repetidamente", "evidencias": ["q1"], "confianca": "alta"}],
				"questoes": [{"item_id": "q1", "dificuldade": "media", "justificativa": "exige doutrina", "nivel_cognitivo": "compreensao", "tem_pegadinha": false}]
			}`, nil
		case strings.Contains(prompt, "sintetize os padrões"):
			return `{
				"padroes": [{"tipo": "reciclagem_de_temas", "descricao": "princípios cobrados repetidamente", "evidencias": ["q1", "q2"], "confianca": "alta"}],
				"texto": "A banca repete princípios administrativos em todas as provas analisadas.",
				"recomendacoes": ["Dominar os princípios expressos e implícitos"]
			}`, nil
		case strings.Contains(prompt, "Extraia do relatório"):
			return `{"alegacoes": ["A banca repete princípios administrativos"]}`, nil
		case strings.Contains(prompt, "Gere uma pergunta"):
			return `{"pergunta": "A banca repete princípios administrativos?"}`, nil
		case strings.Contains(prompt, "Procure nas questões"):
			return `{"evidencias": ["q1", "q2"], "resumo": "q1 e q2 cobram princípios"}`, nil
		default:
			return `{"verificada": true, "confianca": "alta", "observacoes": ""}`, nil
		}
	}
	return m
}
