package cluster

import (
	"math"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/model"
)

// Engine groups item embeddings into density-based clusters, tolerating
// outliers: a point not reachable from any dense region is labeled noise.
type Engine struct {
	MinClusterSize  int
	MinSamples      int
	Eps             float64
	ReductionTarget int
}

func NewEngine(minClusterSize, minSamples int, eps float64, reductionTarget int) *Engine {
	return &Engine{
		MinClusterSize:  minClusterSize,
		MinSamples:      minSamples,
		Eps:             eps,
		ReductionTarget: reductionTarget,
	}
}

// Cluster assigns every vector a cluster label or model.NoiseLabel.
// Fewer points than MinClusterSize is a degenerate input, not an error:
// everything is noise and zero clusters are reported. When the embedding
// dimension exceeds ReductionTarget the vectors are projected down first,
// but centroids are always means of the original vectors so they remain
// comparable with other embeddings downstream.
func (e *Engine) Cluster(vectors [][]float32) *model.ClusterAssignment {
	n := len(vectors)
	assignment := &model.ClusterAssignment{
		Labels:    make([]int, n),
		Sizes:     map[int]int{},
		Centroids: map[int][]float32{},
	}

	if n == 0 {
		return assignment
	}
	if n < e.MinClusterSize {
		for i := range assignment.Labels {
			assignment.Labels[i] = model.NoiseLabel
		}
		assignment.NoiseCount = n
		return assignment
	}

	working := vectors
	if e.ReductionTarget > 0 && len(vectors[0]) > e.ReductionTarget {
		working = project(vectors, e.ReductionTarget)
	}

	labels := e.dbscan(working)

	// Demote clusters below the minimum size to noise, then relabel the
	// survivors compactly in order of first appearance.
	counts := map[int]int{}
	for _, l := range labels {
		if l != model.NoiseLabel {
			counts[l]++
		}
	}
	relabel := map[int]int{}
	next := 0
	for i, l := range labels {
		if l == model.NoiseLabel || counts[l] < e.MinClusterSize {
			assignment.Labels[i] = model.NoiseLabel
			assignment.NoiseCount++
			continue
		}
		mapped, ok := relabel[l]
		if !ok {
			mapped = next
			relabel[l] = mapped
			next++
		}
		assignment.Labels[i] = mapped
		assignment.Sizes[mapped]++
	}

	for label := range assignment.Sizes {
		assignment.Centroids[label] = centroid(vectors, assignment.Labels, label)
	}

	return assignment
}

// dbscan runs the classic density scan with cosine distance. MinSamples
// counts the point itself.
func (e *Engine) dbscan(vectors [][]float32) []int {
	const unvisited = -2

	n := len(vectors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	nextLabel := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		neighbors := e.regionQuery(vectors, i)
		if len(neighbors) < e.MinSamples {
			labels[i] = model.NoiseLabel
			continue
		}

		label := nextLabel
		nextLabel++
		labels[i] = label

		queue := append([]int{}, neighbors...)
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]

			if labels[p] == model.NoiseLabel {
				labels[p] = label // border point
			}
			if labels[p] != unvisited {
				continue
			}
			labels[p] = label

			pNeighbors := e.regionQuery(vectors, p)
			if len(pNeighbors) >= e.MinSamples {
				queue = append(queue, pNeighbors...)
			}
		}
	}

	for i := range labels {
		if labels[i] == unvisited {
			labels[i] = model.NoiseLabel
		}
	}
	return labels
}

func (e *Engine) regionQuery(vectors [][]float32, idx int) []int {
	var neighbors []int
	for j := range vectors {
		if cosineDistance(vectors[idx], vectors[j]) <= e.Eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

func centroid(vectors [][]float32, labels []int, label int) []float32 {
	dim := len(vectors[0])
	sum := make([]float64, dim)
	count := 0
	for i, l := range labels {
		if l != label {
			continue
		}
		for d, x := range vectors[i] {
			sum[d] += float64(x)
		}
		count++
	}
	out := make([]float32, dim)
	if count == 0 {
		return out
	}
	for d := range sum {
		out[d] = float32(sum[d] / float64(count))
	}
	return out
}

func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
