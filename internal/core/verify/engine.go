package verify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/common"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/model"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/llm"
)

const systemPrompt = "Você é um verificador rigoroso de afirmações sobre provas de concurso. " +
	"Raciocine silenciosamente antes de responder e emita exatamente um objeto JSON, sem texto adicional."

// maxNarrativeInput bounds how much of the narrative goes into the claim
// extraction call.
const maxNarrativeInput = 8000

// rejectedClaimPreview is how much of a rejected claim appears in the
// warning block.
const rejectedClaimPreview = 100

const defaultClaimExtractionPrompt = `Extraia do relatório abaixo até %d afirmações discretas que citem evidências e possam ser verificadas contra as questões originais.

%s

Retorne um objeto JSON: {"alegacoes": ["afirmação 1", "afirmação 2", ...]}`

const defaultQuestionPrompt = `Gere uma pergunta de verificação do tipo sim/não para a afirmação abaixo.

Afirmação: %s

Retorne um objeto JSON: {"pergunta": "..."}`

const defaultEvidenceSearchPrompt = `Procure nas questões abaixo evidências que respondam à pergunta.

Pergunta: %s

Questões:
%s

Retorne um objeto JSON: {"evidencias": ["id1", "id2"], "resumo": "resumo do que as questões mostram"}`

const defaultJudgmentPrompt = `Avalie com rigor se as evidências sustentam a afirmação. Seja estrito: na dúvida, rejeite.

Afirmação: %s

Evidências encontradas: %s

Retorne um objeto JSON: {"verificada": true|false, "confianca": "alta"|"media"|"baixa", "observacoes": "..."}`

type claimList struct {
	Claims []string `json:"alegacoes"`
}

type questionResponse struct {
	Question string `json:"pergunta"`
}

type evidenceResponse struct {
	EvidenceIDs []string `json:"evidencias"`
	Summary     string   `json:"resumo"`
}

type judgmentResponse struct {
	Verified   bool   `json:"verificada"`
	Confidence string `json:"confianca"`
	Notes      string `json:"observacoes"`
}

// Prompts are the four templates of the verification chain; empty fields use
// the in-code defaults.
type Prompts struct {
	ClaimExtraction string
	Question        string
	EvidenceSearch  string
	Judgment        string
}

// Engine runs the chain-of-verification phase: extract claims from the
// synthesized narrative, then check each one against the source items.
type Engine struct {
	LLM                llm.LLMClient
	MaxClaims          int
	EvidenceSampleSize int
	Prompts            Prompts
	Logger             *zap.Logger
}

func NewEngine(client llm.LLMClient, maxClaims, evidenceSampleSize int, prompts Prompts, logger *zap.Logger) *Engine {
	if prompts.ClaimExtraction == "" {
		prompts.ClaimExtraction = defaultClaimExtractionPrompt
	}
	if prompts.Question == "" {
		prompts.Question = defaultQuestionPrompt
	}
	if prompts.EvidenceSearch == "" {
		prompts.EvidenceSearch = defaultEvidenceSearchPrompt
	}
	if prompts.Judgment == "" {
		prompts.Judgment = defaultJudgmentPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		LLM:                client,
		MaxClaims:          maxClaims,
		EvidenceSampleSize: evidenceSampleSize,
		Prompts:            prompts,
		Logger:             logger,
	}
}

// Verify checks the narrative's claims against the items. Different claims
// are independent and verified in parallel; the three sub-calls of one claim
// are sequential. Counts always satisfy original == verified + rejected.
func (e *Engine) Verify(ctx context.Context, narrative string, items []model.Item) *model.VerifiedReport {
	claims := e.extractClaims(ctx, narrative)

	results := make([]model.VerificationResult, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, claim := range claims {
		g.Go(func() error {
			results[i] = e.verifyClaim(gctx, claim, items)
			return nil
		})
	}
	_ = g.Wait()

	report := &model.VerifiedReport{
		OriginalClaims: len(claims),
		Results:        results,
	}
	var rejected []string
	for _, r := range results {
		if r.Verified {
			report.VerifiedClaims++
		} else {
			report.RejectedClaims++
			rejected = append(rejected, r.Claim)
		}
	}
	report.CleanedReport = cleanReport(narrative, rejected)
	return report
}

// extractClaims issues the single extraction call. Failure yields zero
// claims, not an error.
func (e *Engine) extractClaims(ctx context.Context, narrative string) []string {
	if strings.TrimSpace(narrative) == "" {
		return nil
	}
	prompt := fmt.Sprintf(e.Prompts.ClaimExtraction, e.MaxClaims, common.Truncate(narrative, maxNarrativeInput))

	response, err := e.LLM.Generate(ctx, prompt, llm.GenerateOptions{
		SystemPrompt: systemPrompt,
		Temperature:  0.1,
		MaxTokens:    2000,
	})
	if err != nil {
		e.Logger.Warn("claim extraction call failed", zap.Error(err))
		return nil
	}
	parsed, err := common.ParseJSON[claimList](response)
	if err != nil {
		e.Logger.Warn("claim extraction response unparseable", zap.Error(err))
		return nil
	}
	claims := parsed.Claims
	if len(claims) > e.MaxClaims {
		claims = claims[:e.MaxClaims]
	}
	return claims
}

// verifyClaim runs the three dependent sub-calls for one claim. A failure at
// any sub-step defaults that claim to not-verified / low confidence.
func (e *Engine) verifyClaim(ctx context.Context, claim string, items []model.Item) model.VerificationResult {
	result := model.VerificationResult{
		Claim:      claim,
		Confidence: model.ConfidenceLow,
	}

	question, err := e.generateQuestion(ctx, claim)
	if err != nil {
		e.Logger.Warn("verification question failed", zap.Error(err))
		result.Notes = "falha ao gerar pergunta de verificação"
		return result
	}
	result.Question = question

	evidence, err := e.searchEvidence(ctx, question, items)
	if err != nil {
		e.Logger.Warn("evidence search failed", zap.Error(err))
		result.Notes = "falha ao buscar evidências"
		return result
	}
	result.EvidenceIDs = evidence.EvidenceIDs
	result.EvidenceSummary = evidence.Summary

	judgment, err := e.judge(ctx, claim, evidence.Summary)
	if err != nil {
		e.Logger.Warn("claim judgment failed", zap.Error(err))
		result.Notes = "falha ao julgar a afirmação"
		return result
	}
	result.Verified = judgment.Verified
	if judgment.Confidence != "" {
		result.Confidence = judgment.Confidence
	}
	result.Notes = judgment.Notes
	return result
}

func (e *Engine) generateQuestion(ctx context.Context, claim string) (string, error) {
	response, err := e.LLM.Generate(ctx, fmt.Sprintf(e.Prompts.Question, claim), llm.GenerateOptions{
		SystemPrompt: systemPrompt,
		Temperature:  0.1,
		MaxTokens:    500,
	})
	if err != nil {
		return "", err
	}
	parsed, err := common.ParseJSON[questionResponse](response)
	if err != nil {
		return "", err
	}
	return parsed.Question, nil
}

func (e *Engine) searchEvidence(ctx context.Context, question string, items []model.Item) (evidenceResponse, error) {
	sample := items
	if e.EvidenceSampleSize > 0 && len(sample) > e.EvidenceSampleSize {
		sample = sample[:e.EvidenceSampleSize]
	}

	var b strings.Builder
	for _, item := range sample {
		fmt.Fprintf(&b, "- %s: %s\n", item.ID, common.Truncate(item.Statement, 200))
	}

	response, err := e.LLM.Generate(ctx, fmt.Sprintf(e.Prompts.EvidenceSearch, question, b.String()), llm.GenerateOptions{
		SystemPrompt: systemPrompt,
		Temperature:  0.1,
		MaxTokens:    1500,
	})
	if err != nil {
		return evidenceResponse{}, err
	}
	return common.ParseJSON[evidenceResponse](response)
}

func (e *Engine) judge(ctx context.Context, claim, evidenceSummary string) (judgmentResponse, error) {
	if evidenceSummary == "" {
		evidenceSummary = "nenhuma evidência encontrada"
	}
	response, err := e.LLM.Generate(ctx, fmt.Sprintf(e.Prompts.Judgment, claim, evidenceSummary), llm.GenerateOptions{
		SystemPrompt: systemPrompt,
		Temperature:  0.1,
		MaxTokens:    800,
	})
	if err != nil {
		return judgmentResponse{}, err
	}
	return common.ParseJSON[judgmentResponse](response)
}

// cleanReport returns the narrative unchanged when nothing was rejected,
// otherwise prefixed with a warning block listing the rejected claims.
func cleanReport(narrative string, rejected []string) string {
	if len(rejected) == 0 {
		return narrative
	}
	var b strings.Builder
	b.WriteString("ATENÇÃO: as afirmações abaixo não puderam ser confirmadas pelas questões originais:\n")
	for _, claim := range rejected {
		fmt.Fprintf(&b, "- %s\n", common.Truncate(claim, rejectedClaimPreview))
	}
	b.WriteString("\n---\n\n")
	b.WriteString(narrative)
	return b.String()
}
