package model

import "time"

// Pipeline phase numbers, used for skipping and error prefixes.
const (
	PhaseVectorization = 1
	PhaseMap           = 2
	PhaseReduce        = 3
	PhaseVerification  = 4
)

// PhaseName maps a phase number to its reported name.
func PhaseName(phase int) string {
	switch phase {
	case PhaseVectorization:
		return "vetorizacao"
	case PhaseMap:
		return "analise_map"
	case PhaseReduce:
		return "sintese_reduce"
	case PhaseVerification:
		return "verificacao"
	}
	return "desconhecida"
}

// PipelineResult accumulates phase outputs and errors as the run progresses.
// It is the only entity mutated after construction, and only by the
// orchestrator.
type PipelineResult struct {
	RunID           string               `json:"run_id"`
	Discipline      string               `json:"disciplina"`
	Board           string               `json:"banca"`
	Years           []int                `json:"anos,omitempty"`
	TotalItems      int                  `json:"total_questoes"`
	Vectorization   *VectorizationResult `json:"vetorizacao,omitempty"`
	Digests         []ChunkDigest        `json:"digests,omitempty"`
	Report          *AnalysisReport      `json:"relatorio,omitempty"`
	Verification    *VerifiedReport      `json:"verificacao,omitempty"`
	StartedAt       time.Time            `json:"inicio"`
	FinishedAt      time.Time            `json:"fim"`
	PhasesCompleted []string             `json:"fases_concluidas"`
	Errors          []string             `json:"erros"`
}
