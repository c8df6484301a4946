package model

// Confidence tiers used by pattern consolidation and claim verification.
const (
	ConfidenceHigh   = "alta"
	ConfidenceMedium = "media"
	ConfidenceLow    = "baixa"
)

// Pattern types the synthesis passes are asked to emit.
const (
	PatternTopicRecycling = "reciclagem_de_temas"
	PatternDifficulty     = "tendencia_de_dificuldade"
	PatternTrap           = "pegadinha"
	PatternTemporal       = "mudanca_temporal"
)

// QuestionAnalysis is the per-item portion of a chunk digest.
type QuestionAnalysis struct {
	ItemID          string `json:"item_id"`
	Difficulty      string `json:"dificuldade"`
	Rationale       string `json:"justificativa"`
	CognitiveLevel  string `json:"nivel_cognitivo"`
	HasTrap         bool   `json:"tem_pegadinha"`
	TrapDescription string `json:"descricao_pegadinha,omitempty"`
}

// RawFinding is a pattern candidate as emitted by a single Map chunk or a
// single Reduce pass, before consolidation.
type RawFinding struct {
	Type        string   `json:"tipo"`
	Description string   `json:"descricao"`
	EvidenceIDs []string `json:"evidencias"`
	Confidence  string   `json:"confianca,omitempty"`
}

// ChunkDigest is the structured result of analyzing one contiguous chunk of
// items. Immutable once returned by the map analyzer. A degraded digest
// (failed call or unparseable response) has no findings and an error-marker
// summary.
type ChunkDigest struct {
	ChunkID  int                `json:"chunk_id"`
	Summary  string             `json:"resumo"`
	Findings []RawFinding       `json:"padroes"`
	Items    []QuestionAnalysis `json:"questoes"`
}

// SynthesisPass is the parsed output of one independent Reduce pass.
type SynthesisPass struct {
	Patterns        []RawFinding `json:"padroes"`
	Narrative       string       `json:"texto"`
	Recommendations []string     `json:"recomendacoes"`
}
