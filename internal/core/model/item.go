package model

// Item is one exam question as extracted upstream. It is immutable input:
// the pipeline never mutates an Item.
type Item struct {
	ID           string            `json:"id"`
	Statement    string            `json:"enunciado"`
	Alternatives map[string]string `json:"alternativas"`
	Gabarito     string            `json:"gabarito,omitempty"`
	Discipline   string            `json:"disciplina"`
}

// EmbeddingVector is the fixed-dimension vector produced for one Item.
// Dimension must be uniform within a single run.
type EmbeddingVector = []float32
