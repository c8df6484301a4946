package model

// PatternFinding is a consolidated pattern after majority voting across
// synthesis passes. Never mutated after consolidation.
type PatternFinding struct {
	Type        string   `json:"tipo"`
	Description string   `json:"descricao"`
	EvidenceIDs []string `json:"evidencias"`
	Votes       int      `json:"votos"`
	Confidence  string   `json:"confianca"`
}

// AnalysisReport is the synthesized output of the Reduce phase.
type AnalysisReport struct {
	Discipline      string                      `json:"disciplina"`
	TotalItems      int                         `json:"total_questoes"`
	PatternsByType  map[string][]PatternFinding `json:"padroes_por_tipo"`
	DifficultyDist  map[string]int              `json:"distribuicao_dificuldade"`
	TrapCount       int                         `json:"total_pegadinhas"`
	Recommendations []string                    `json:"recomendacoes"`
	Narrative       string                      `json:"texto"`
}

// AllPatterns flattens PatternsByType preserving per-type vote ordering.
func (r *AnalysisReport) AllPatterns() []PatternFinding {
	var out []PatternFinding
	for _, t := range []string{PatternTopicRecycling, PatternDifficulty, PatternTrap, PatternTemporal} {
		out = append(out, r.PatternsByType[t]...)
	}
	for t, ps := range r.PatternsByType {
		switch t {
		case PatternTopicRecycling, PatternDifficulty, PatternTrap, PatternTemporal:
		default:
			out = append(out, ps...)
		}
	}
	return out
}
