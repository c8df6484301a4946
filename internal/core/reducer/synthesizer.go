package reducer

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

// narrativeDivider separates the texts of successful passes in the combined
// narrative.
const narrativeDivider = "\n\n========================================\n\n"

// maxNarrativeLen caps the combined narrative.
const maxNarrativeLen = 10000

const placeholderRecommendation = "Priorizar a revisão dos temas mais recorrentes identificados na análise."

const systemPrompt = "Você é um especialista em bancas de concurso público. " +
	"Raciocine silenciosamente antes de responder e emita exatamente um objeto JSON, sem texto adicional."

const defaultSynthesisPrompt = `Com base nos resumos de blocos abaixo, sintetize os padrões da disciplina %s (banca %s, anos %s).

%s

Retorne um objeto JSON com:
- "padroes": lista completa de objetos {"tipo", "descricao", "evidencias" (ids das questões), "confianca"}
  com tipos entre "reciclagem_de_temas", "tendencia_de_dificuldade", "pegadinha", "mudanca_temporal"
- "texto": narrativa completa da análise, citando as evidências
- "recomendacoes": lista de recomendações de estudo`

// Synthesizer runs the Reduce phase: N independent synthesis passes over all
// chunk digests plus the similarity/cluster summary, then majority-vote
// consolidation.
type Synthesizer struct {
	LLM         llm.LLMClient
	Passes      int
	Temperature float32
	Prompt      string
	Logger      *zap.Logger
}

func NewSynthesizer(client llm.LLMClient, passes int, temperature float32, prompt string, logger *zap.Logger) *Synthesizer {
	if prompt == "" {
		prompt = defaultSynthesisPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		LLM:         client,
		Passes:      passes,
		Temperature: temperature,
		Prompt:      prompt,
		Logger:      logger,
	}
}

// Synthesize produces the consolidated report. A pass that fails entirely
// (call error or parse error) contributes nothing and does not abort the
// remaining passes. Difficulty and trap distributions come straight from the
// digests; only patterns, narrative and recommendations come from the passes.
func (s *Synthesizer) Synthesize(ctx context.Context, digests []model.ChunkDigest, vect *model.VectorizationResult, discipline, board string, years []int) *model.AnalysisReport {
	prompt := fmt.Sprintf(s.Prompt, discipline, board, formatYears(years), s.digestSummary(digests, vect))

	passes := make([]*model.SynthesisPass, s.Passes)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := 0; i < s.Passes; i++ {
		g.Go(func() error {
			passes[i] = s.runPass(gctx, i, prompt)
			return nil
		})
	}
	_ = g.Wait()

	var (
		passFindings [][]model.RawFinding
		narratives   []string
		rawRecs      []string
	)
	for _, p := range passes {
		if p == nil {
			continue
		}
		passFindings = append(passFindings, p.Patterns)
		if strings.TrimSpace(p.Narrative) != "" {
			narratives = append(narratives, p.Narrative)
		}
		rawRecs = append(rawRecs, p.Recommendations...)
	}

	patterns := Consolidate(passFindings, s.Passes)
	byType := map[string][]model.PatternFinding{}
	for _, p := range patterns {
		byType[p.Type] = append(byType[p.Type], p)
	}

	difficultyDist, trapCount, totalItems := aggregateDigests(digests)

	return &model.AnalysisReport{
		Discipline:      discipline,
		TotalItems:      totalItems,
		PatternsByType:  byType,
		DifficultyDist:  difficultyDist,
		TrapCount:       trapCount,
		Recommendations: dedupeRecommendations(rawRecs),
		Narrative:       combineNarratives(narratives),
	}
}

func (s *Synthesizer) runPass(ctx context.Context, pass int, prompt string) *model.SynthesisPass {
	response, err := s.LLM.Generate(ctx, prompt, llm.GenerateOptions{
		SystemPrompt: systemPrompt,
		Temperature:  s.Temperature,
		MaxTokens:    8000,
	})
	if err != nil {
		s.Logger.Warn("synthesis pass call failed", zap.Int("pass", pass), zap.Error(err))
		return nil
	}
	parsed, err := common.ParseJSON[model.SynthesisPass](response)
	if err != nil {
		s.Logger.Warn("synthesis pass response unparseable", zap.Int("pass", pass), zap.Error(err))
		return nil
	}
	return &parsed
}

// digestSummary renders every chunk digest plus the phase 1 summary into the
// text the passes reason over.
func (s *Synthesizer) digestSummary(digests []model.ChunkDigest, vect *model.VectorizationResult) string {
	var b strings.Builder
	for _, d := range digests {
		fmt.Fprintf(&b, "Bloco %d: %s\n", d.ChunkID, d.Summary)
		for _, f := range d.Findings {
			fmt.Fprintf(&b, "  - [%s] %s (evidências: %s)\n", f.Type, f.Description, strings.Join(f.EvidenceIDs, ", "))
		}
	}
	if vect != nil {
		if vect.Clusters != nil {
			fmt.Fprintf(&b, "\nAgrupamento: %d grupos temáticos, %d questões sem grupo.\n",
				vect.Clusters.NumClusters(), vect.Clusters.NoiseCount)
		}
		if len(vect.Pairs) > 0 {
			b.WriteString("Pares de questões muito similares:\n")
			for _, p := range vect.Pairs {
				fmt.Fprintf(&b, "  - %s ~ %s (%.2f)\n", p.IDA, p.IDB, p.Score)
			}
		}
	}
	return b.String()
}

func aggregateDigests(digests []model.ChunkDigest) (map[string]int, int, int) {
	difficulty := map[string]int{}
	traps := 0
	total := 0
	for _, d := range digests {
		for _, q := range d.Items {
			total++
			if q.Difficulty != "" {
				difficulty[q.Difficulty]++
			}
			if q.HasTrap {
				traps++
			}
		}
	}
	return difficulty, traps, total
}

func dedupeRecommendations(recs []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range recs {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	if len(out) == 0 {
		out = []string{placeholderRecommendation}
	}
	return out
}

func combineNarratives(narratives []string) string {
	combined := strings.Join(narratives, narrativeDivider)
	if runes := []rune(combined); len(runes) > maxNarrativeLen {
		combined = string(runes[:maxNarrativeLen])
	}
	return combined
}

func formatYears(years []int) string {
	if len(years) == 0 {
		return "n/d"
	}
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprintf("%d", y)
	}
	return strings.Join(parts, ", ")
}
