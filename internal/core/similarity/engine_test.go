package similarity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopPairs_Empty(t *testing.T) {
	engine := NewEngine(0.75, 20)
	pairs := engine.TopPairs(nil, nil)
	assert.Empty(t, pairs)

	pairs = engine.TopPairs([][]float32{{1, 0}}, []string{"q1"})
	assert.Empty(t, pairs)
}

func TestTopPairs_ThresholdAndOrder(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},       // q1
		{1, 0.01, 0},    // q2: quase idêntico a q1
		{0.7, 0.7, 0},   // q3: ~0.71 com q1, abaixo do limiar
		{0, 0, 1},       // q4: ortogonal a todos
	}
	ids := []string{"q1", "q2", "q3", "q4"}

	engine := NewEngine(0.9, 20)
	pairs := engine.TopPairs(vectors, ids)

	assert.Len(t, pairs, 1)
	assert.Equal(t, "q1", pairs[0].IDA)
	assert.Equal(t, "q2", pairs[0].IDB)
	assert.GreaterOrEqual(t, pairs[0].Score, 0.9)
}

func TestTopPairs_NoDuplicatesSortedDesc(t *testing.T) {
	// Three near-identical vectors: three unordered pairs.
	vectors := [][]float32{
		{1, 0},
		{0.99, 0.05},
		{0.98, 0.1},
	}
	ids := []string{"a", "b", "c"}

	engine := NewEngine(0.5, 20)
	pairs := engine.TopPairs(vectors, ids)

	assert.Len(t, pairs, 3)
	seen := map[string]bool{}
	for _, p := range pairs {
		key := fmt.Sprintf("%s|%s", p.IDA, p.IDB)
		assert.False(t, seen[key], "pair %s appeared twice", key)
		seen[key] = true
		assert.GreaterOrEqual(t, p.Score, 0.5)
	}
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, pairs[i-1].Score, pairs[i].Score)
	}
}

func TestTopPairs_Truncation(t *testing.T) {
	var vectors [][]float32
	var ids []string
	for i := 0; i < 10; i++ {
		vectors = append(vectors, []float32{1, float32(i) * 0.001})
		ids = append(ids, fmt.Sprintf("q%d", i))
	}

	engine := NewEngine(0.9, 5)
	pairs := engine.TopPairs(vectors, ids)
	assert.Len(t, pairs, 5)
}

func TestTopPairs_Deterministic(t *testing.T) {
	vectors := [][]float32{{1, 0}, {0.9, 0.1}, {0.8, 0.2}}
	ids := []string{"x", "y", "z"}

	engine := NewEngine(0.5, 20)
	first := engine.TopPairs(vectors, ids)
	second := engine.TopPairs(vectors, ids)
	assert.Equal(t, first, second)
}
