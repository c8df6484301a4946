package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleItems(n int) []model.Item {
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{
			ID:        fmt.Sprintf("q%d", i+1),
			Statement: fmt.Sprintf("Enunciado %d sobre princípios administrativos", i+1),
		}
	}
	return items
}

// chainMock routes each sub-step of the verification chain to its canned
// response based on the prompt.
func chainMock(claims string, verified bool) *MockLLM {
	verdict := "false"
	if verified {
		verdict = "true"
	}
	m := &MockLLM{}
	m.GenerateFunc = func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Extraia do relatório"):
			return claims, nil
		case strings.Contains(prompt, "Gere uma pergunta"):
			return `{"pergunta": "A banca cobra este tema todo ano?"}`, nil
		case strings.Contains(prompt, "Procure nas questões"):
			return `{"evidencias": ["q1", "q2"], "resumo": "questões q1 e q2 tratam do tema"}`, nil
		default:
			return fmt.Sprintf(`{"verificada": %s, "confianca": "alta", "observacoes": "julgado"}`, verdict), nil
		}
	}
	return m
}

func TestVerify_AllClaimsVerified(t *testing.T) {
	narrative := "A banca recicla princípios administrativos anualmente."
	mock := chainMock(`{"alegacoes": ["afirmação um", "afirmação dois"]}`, true)

	engine := NewEngine(mock, 15, 50, Prompts{}, nil)
	report := engine.Verify(context.Background(), narrative, sampleItems(3))

	assert.Equal(t, 2, report.OriginalClaims)
	assert.Equal(t, 2, report.VerifiedClaims)
	assert.Equal(t, 0, report.RejectedClaims)
	assert.Equal(t, report.OriginalClaims, report.VerifiedClaims+report.RejectedClaims)

	// Nothing rejected: the cleaned report is exactly the narrative.
	assert.Equal(t, narrative, report.CleanedReport)

	for _, r := range report.Results {
		assert.True(t, r.Verified)
		assert.Equal(t, model.ConfidenceHigh, r.Confidence)
		assert.Equal(t, []string{"q1", "q2"}, r.EvidenceIDs)
	}
}

func TestVerify_RejectedClaimsPrefixWarning(t *testing.T) {
	narrative := "A banca nunca repete temas."
	longClaim := strings.Repeat("afirmação extensa ", 20)
	mock := chainMock(fmt.Sprintf(`{"alegacoes": [%q]}`, longClaim), false)

	engine := NewEngine(mock, 15, 50, Prompts{}, nil)
	report := engine.Verify(context.Background(), narrative, sampleItems(3))

	assert.Equal(t, 1, report.RejectedClaims)
	assert.NotEqual(t, narrative, report.CleanedReport)
	assert.Contains(t, report.CleanedReport, "ATENÇÃO")
	assert.Contains(t, report.CleanedReport, narrative)
	// Preview truncated to ~100 chars of the claim.
	assert.NotContains(t, report.CleanedReport, longClaim)
}

func TestVerify_ExtractionFailureYieldsZeroClaims(t *testing.T) {
	mock := &MockLLM{Err: errors.New("rate limit")}
	engine := NewEngine(mock, 15, 50, Prompts{}, nil)

	report := engine.Verify(context.Background(), "narrativa qualquer", sampleItems(2))

	assert.Zero(t, report.OriginalClaims)
	assert.Empty(t, report.Results)
	assert.Equal(t, "narrativa qualquer", report.CleanedReport)
}

func TestVerify_SubStepFailureDefaultsClaim(t *testing.T) {
	mock := &MockLLM{GenerateFunc: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Extraia do relatório"):
			return `{"alegacoes": ["afirmação frágil"]}`, nil
		case strings.Contains(prompt, "Gere uma pergunta"):
			return `{"pergunta": "pergunta ok?"}`, nil
		default:
			// Evidence search fails.
			return "", errors.New("timeout")
		}
	}}

	engine := NewEngine(mock, 15, 50, Prompts{}, nil)
	report := engine.Verify(context.Background(), "narrativa", sampleItems(2))

	assert.Equal(t, 1, report.OriginalClaims)
	assert.Equal(t, 1, report.RejectedClaims)
	r := report.Results[0]
	assert.False(t, r.Verified)
	assert.Equal(t, model.ConfidenceLow, r.Confidence)
	assert.Contains(t, r.Notes, "evidências")
}

func TestVerify_MaxClaimsEnforced(t *testing.T) {
	var claims []string
	for i := 0; i < 30; i++ {
		claims = append(claims, fmt.Sprintf("%q", fmt.Sprintf("afirmação %d", i)))
	}
	mock := chainMock(fmt.Sprintf(`{"alegacoes": [%s]}`, strings.Join(claims, ",")), true)

	engine := NewEngine(mock, 15, 50, Prompts{}, nil)
	report := engine.Verify(context.Background(), "narrativa", sampleItems(2))
	assert.Equal(t, 15, report.OriginalClaims)
}

func TestVerify_EvidenceSampleBounded(t *testing.T) {
	mock := chainMock(`{"alegacoes": ["afirmação"]}`, true)
	engine := NewEngine(mock, 15, 50, Prompts{}, nil)

	engine.Verify(context.Background(), "narrativa", sampleItems(80))

	var evidencePrompt string
	for _, call := range mock.Calls {
		if strings.Contains(call, "Procure nas questões") {
			evidencePrompt = call
		}
	}
	assert.Contains(t, evidencePrompt, "q50:")
	assert.NotContains(t, evidencePrompt, "q51:")
}

func TestVerify_EmptyNarrative(t *testing.T) {
	mock := &MockLLM{}
	engine := NewEngine(mock, 15, 50, Prompts{}, nil)
	report := engine.Verify(context.Background(), "   ", sampleItems(2))

	assert.Zero(t, report.OriginalClaims)
	assert.Empty(t, mock.Calls, "no call should be made for an empty narrative")
}
