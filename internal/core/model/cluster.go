package model

// NoiseLabel marks an item that clustering could not assign to any cluster.
const NoiseLabel = -1

// ClusterAssignment holds one label per input embedding, in input order.
// Sizes and Centroids cover exactly the non-noise labels present in Labels.
// Centroids are means of the original (pre-reduction) vectors.
type ClusterAssignment struct {
	Labels     []int             `json:"labels"`
	Sizes      map[int]int       `json:"tamanhos"`
	Centroids  map[int][]float32 `json:"centroides"`
	NoiseCount int               `json:"ruido"`
}

// NumClusters returns the number of distinct non-noise clusters.
func (c *ClusterAssignment) NumClusters() int {
	return len(c.Sizes)
}

// SimilarPair is one unordered pair of items whose cosine similarity cleared
// the configured threshold. IDA always precedes IDB in input order.
type SimilarPair struct {
	IDA   string  `json:"id_a"`
	IDB   string  `json:"id_b"`
	Score float64 `json:"score"`
}

// VectorizationResult is the complete output of phase 1.
type VectorizationResult struct {
	Pairs    []SimilarPair      `json:"pares_similares"`
	Clusters *ClusterAssignment `json:"clusters,omitempty"`
}
