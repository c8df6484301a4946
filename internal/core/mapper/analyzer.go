package mapper

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

const systemPrompt = "Você é um analista de provas de concurso público. " +
	"Raciocine silenciosamente antes de responder e emita exatamente um objeto JSON, sem texto adicional."

const defaultChunkPrompt = `Analise o bloco de questões de %s (banca %s) abaixo.

%s

Retorne um objeto JSON com:
- "resumo": resumo do bloco em até 3 frases
- "padroes": lista de objetos {"tipo", "descricao", "evidencias" (ids das questões), "confianca" ("alta"|"media"|"baixa")}
  com tipos entre "reciclagem_de_temas", "tendencia_de_dificuldade", "pegadinha", "mudanca_temporal"
- "questoes": lista de objetos {"item_id", "dificuldade" ("facil"|"media"|"dificil"), "justificativa", "nivel_cognitivo", "tem_pegadinha", "descricao_pegadinha"}`

type chunkResponse struct {
	Summary  string                   `json:"resumo"`
	Findings []model.RawFinding       `json:"padroes"`
	Items    []model.QuestionAnalysis `json:"questoes"`
}

// Analyzer runs the Map phase: contiguous chunks of items, one structured
// digest per chunk.
type Analyzer struct {
	LLM       llm.LLMClient
	ChunkSize int
	Prompt    string
	Logger    *zap.Logger
}

func NewAnalyzer(client llm.LLMClient, chunkSize int, prompt string, logger *zap.Logger) *Analyzer {
	if prompt == "" {
		prompt = defaultChunkPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		LLM:       client,
		ChunkSize: chunkSize,
		Prompt:    prompt,
		Logger:    logger,
	}
}

// Chunk splits items into contiguous chunks of the given size; the last
// chunk may be shorter. Ordering is stable and reproducible.
func Chunk(items []model.Item, size int) [][]model.Item {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	var chunks [][]model.Item
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

// AnalyzeChunks produces one digest per chunk. Chunks are independent and
// analyzed in parallel; digests are assembled in original chunk order. A
// failed call or unparseable response degrades that chunk to an empty digest
// with an error-marker summary and never aborts the sequence.
func (a *Analyzer) AnalyzeChunks(ctx context.Context, items []model.Item, discipline, board string, clusterHints map[string]int) []model.ChunkDigest {
	chunks := Chunk(items, a.ChunkSize)
	digests := make([]model.ChunkDigest, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, chunk := range chunks {
		g.Go(func() error {
			digests[i] = a.analyzeChunk(gctx, i, chunk, discipline, board, clusterHints)
			return nil
		})
	}
	// Workers never return errors; failures are degraded digests.
	_ = g.Wait()

	return digests
}

func (a *Analyzer) analyzeChunk(ctx context.Context, chunkID int, chunk []model.Item, discipline, board string, clusterHints map[string]int) model.ChunkDigest {
	prompt := fmt.Sprintf(a.Prompt, discipline, board, formatItems(chunk, clusterHints))

	response, err := a.LLM.Generate(ctx, prompt, llm.GenerateOptions{
		SystemPrompt: systemPrompt,
		Temperature:  0.2,
		MaxTokens:    4000,
	})
	if err != nil {
		a.Logger.Warn("chunk analysis call failed",
			zap.Int("chunk", chunkID), zap.Error(err))
		return degradedDigest(chunkID)
	}

	parsed, err := common.ParseJSON[chunkResponse](response)
	if err != nil {
		a.Logger.Warn("chunk analysis response unparseable",
			zap.Int("chunk", chunkID), zap.Error(err))
		return degradedDigest(chunkID)
	}

	return model.ChunkDigest{
		ChunkID:  chunkID,
		Summary:  parsed.Summary,
		Findings: parsed.Findings,
		Items:    parsed.Items,
	}
}

func degradedDigest(chunkID int) model.ChunkDigest {
	return model.ChunkDigest{
		ChunkID:  chunkID,
		Summary:  "[analise do bloco indisponivel]",
		Findings: []model.RawFinding{},
		Items:    []model.QuestionAnalysis{},
	}
}

func formatItems(chunk []model.Item, clusterHints map[string]int) string {
	var b strings.Builder
	for _, item := range chunk {
		fmt.Fprintf(&b, "Questão %s", item.ID)
		if label, ok := clusterHints[item.ID]; ok && label != model.NoiseLabel {
			fmt.Fprintf(&b, " (grupo temático %d)", label)
		}
		fmt.Fprintf(&b, ": %s\n", item.Statement)
		for _, letter := range sortedLetters(item.Alternatives) {
			fmt.Fprintf(&b, "  %s) %s\n", letter, item.Alternatives[letter])
		}
		if item.Gabarito != "" {
			fmt.Fprintf(&b, "  Gabarito: %s\n", item.Gabarito)
		}
		b.WriteString("\n")
	}
	return b.String()
}
