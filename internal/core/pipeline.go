package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/config"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/cluster"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/mapper"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/model"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/reducer"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/similarity"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/verify"
	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/llm"
)

// Pipeline sequences the four analysis phases over an item corpus. Phases
// may be individually skipped; a phase failure is recorded and never aborts
// the run.
type Pipeline struct {
	LLM      llm.LLMClient
	Embedder llm.EmbedderClient
	Logger   *zap.Logger

	similarity *similarity.Engine
	cluster    *cluster.Engine
	mapper     *mapper.Analyzer
	reducer    *reducer.Synthesizer
	verifier   *verify.Engine
}

func NewPipeline(llmClient llm.LLMClient, embedder llm.EmbedderClient, cfg *config.Config, logger *zap.Logger) *Pipeline {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	p := cfg.Pipeline

	return &Pipeline{
		LLM:        llmClient,
		Embedder:   embedder,
		Logger:     logger,
		similarity: similarity.NewEngine(p.SimilarityThreshold, p.MaxSimilarPairs),
		cluster:    cluster.NewEngine(p.MinClusterSize, p.MinSamples, p.ClusterEps, p.ReductionTarget),
		mapper:     mapper.NewAnalyzer(llmClient, p.ChunkSize, cfg.Prompts.MapChunk, logger),
		reducer:    reducer.NewSynthesizer(llmClient, p.SynthesisPasses, p.SynthesisTemperature, cfg.Prompts.Synthesis, logger),
		verifier: verify.NewEngine(llmClient, p.MaxClaims, p.EvidenceSampleSize, verify.Prompts{
			ClaimExtraction: cfg.Prompts.ClaimExtraction,
			Question:        cfg.Prompts.VerificationQuestion,
			EvidenceSearch:  cfg.Prompts.EvidenceSearch,
			Judgment:        cfg.Prompts.ClaimJudgment,
		}, logger),
	}
}

// Run executes the pipeline over the given items. skipPhases holds phase
// numbers (1..4) to leave out. No error is ever fatal: the worst outcome is
// a result whose later phases are absent and whose error list explains why.
func (p *Pipeline) Run(ctx context.Context, items []model.Item, discipline, board string, years []int, skipPhases map[int]bool) *model.PipelineResult {
	result := &model.PipelineResult{
		RunID:           uuid.New().String(),
		Discipline:      discipline,
		Board:           board,
		Years:           years,
		TotalItems:      len(items),
		StartedAt:       time.Now().UTC(),
		PhasesCompleted: []string{},
		Errors:          []string{},
	}

	p.Logger.Info("pipeline run started",
		zap.String("run_id", result.RunID),
		zap.String("disciplina", discipline),
		zap.Int("total_questoes", len(items)))

	if !skipPhases[model.PhaseVectorization] {
		p.runPhase(result, model.PhaseVectorization, func() error {
			return p.runVectorization(ctx, items, result)
		})
	}

	if !skipPhases[model.PhaseMap] {
		p.runPhase(result, model.PhaseMap, func() error {
			hints := clusterHints(items, result.Vectorization)
			result.Digests = p.mapper.AnalyzeChunks(ctx, items, discipline, board, hints)
			return nil
		})
	}

	if !skipPhases[model.PhaseReduce] {
		if len(result.Digests) == 0 {
			p.recordError(result, model.PhaseReduce, fmt.Errorf("nenhum digest de bloco disponivel"))
		} else {
			p.runPhase(result, model.PhaseReduce, func() error {
				result.Report = p.reducer.Synthesize(ctx, result.Digests, result.Vectorization, discipline, board, years)
				return nil
			})
		}
	}

	if !skipPhases[model.PhaseVerification] {
		if result.Report == nil {
			p.recordError(result, model.PhaseVerification, fmt.Errorf("relatorio de sintese ausente"))
		} else {
			p.runPhase(result, model.PhaseVerification, func() error {
				result.Verification = p.verifier.Verify(ctx, result.Report.Narrative, items)
				return nil
			})
		}
	}

	result.FinishedAt = time.Now().UTC()
	p.Logger.Info("pipeline run finished",
		zap.String("run_id", result.RunID),
		zap.Strings("fases_concluidas", result.PhasesCompleted),
		zap.Int("erros", len(result.Errors)))
	return result
}

// runPhase executes one phase, converting an error or panic into a recorded
// error string prefixed with the phase name.
func (p *Pipeline) runPhase(result *model.PipelineResult, phase int, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			p.recordError(result, phase, fmt.Errorf("panico: %v", r))
		}
	}()

	start := time.Now()
	if err := fn(); err != nil {
		p.recordError(result, phase, err)
		return
	}
	result.PhasesCompleted = append(result.PhasesCompleted, model.PhaseName(phase))
	p.Logger.Info("phase completed",
		zap.String("fase", model.PhaseName(phase)),
		zap.Duration("duracao", time.Since(start)))
}

func (p *Pipeline) recordError(result *model.PipelineResult, phase int, err error) {
	msg := fmt.Sprintf("%s: %v", model.PhaseName(phase), err)
	result.Errors = append(result.Errors, msg)
	p.Logger.Warn("phase failed", zap.String("fase", model.PhaseName(phase)), zap.Error(err))
}

// runVectorization embeds every item and derives similar pairs and clusters.
func (p *Pipeline) runVectorization(ctx context.Context, items []model.Item, result *model.PipelineResult) error {
	if len(items) == 0 {
		result.Vectorization = &model.VectorizationResult{Pairs: []model.SimilarPair{}}
		return nil
	}
	if p.Embedder == nil {
		return fmt.Errorf("capacidade de embedding indisponivel para o provedor configurado")
	}

	vectors := make([][]float32, len(items))
	ids := make([]string, len(items))
	dim := -1
	for i, item := range items {
		vec, err := p.Embedder.Embed(ctx, embedText(item))
		if err != nil {
			return fmt.Errorf("embedding da questao %s: %w", item.ID, err)
		}
		if dim == -1 {
			dim = len(vec)
		} else if len(vec) != dim {
			return fmt.Errorf("dimensao de embedding inconsistente na questao %s: %d != %d", item.ID, len(vec), dim)
		}
		vectors[i] = vec
		ids[i] = item.ID
	}

	result.Vectorization = &model.VectorizationResult{
		Pairs:    p.similarity.TopPairs(vectors, ids),
		Clusters: p.cluster.Cluster(vectors),
	}
	return nil
}

// clusterHints maps item ids to cluster labels for the Map prompts. Absent
// phase 1 output yields an empty hint, which the analyzer tolerates.
func clusterHints(items []model.Item, vect *model.VectorizationResult) map[string]int {
	hints := map[string]int{}
	if vect == nil || vect.Clusters == nil {
		return hints
	}
	for i, label := range vect.Clusters.Labels {
		if i < len(items) {
			hints[items[i].ID] = label
		}
	}
	return hints
}

func embedText(item model.Item) string {
	text := item.Statement
	for _, letter := range []string{"A", "B", "C", "D", "E"} {
		if alt, ok := item.Alternatives[letter]; ok {
			text += "\n" + letter + ") " + alt
		}
	}
	return text
}
