package similarity

import (
	"math"
	"sort"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/model"
)

// Engine computes pairwise cosine similarity between item embeddings and
// keeps the strongest pairs.
type Engine struct {
	Threshold float64
	MaxPairs  int
}

func NewEngine(threshold float64, maxPairs int) *Engine {
	return &Engine{Threshold: threshold, MaxPairs: maxPairs}
}

// TopPairs scans the upper triangle of the similarity matrix (i < j) so each
// unordered pair is considered exactly once, keeps scores at or above the
// threshold, sorts descending and truncates. Deterministic for identical
// input; an empty input yields an empty result.
func (e *Engine) TopPairs(vectors [][]float32, ids []string) []model.SimilarPair {
	pairs := []model.SimilarPair{}
	if len(vectors) < 2 {
		return pairs
	}

	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = norm(v)
	}

	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			score := cosine(vectors[i], vectors[j], norms[i], norms[j])
			if score >= e.Threshold {
				pairs = append(pairs, model.SimilarPair{
					IDA:   ids[i],
					IDB:   ids[j],
					Score: score,
				})
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Score > pairs[b].Score
	})
	if e.MaxPairs > 0 && len(pairs) > e.MaxPairs {
		pairs = pairs[:e.MaxPairs]
	}
	return pairs
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}
