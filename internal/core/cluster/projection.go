package cluster

import "math/rand"

// projectionSeed is fixed so the same corpus always reduces the same way.
const projectionSeed = 42

// project applies a seeded Gaussian random projection down to target
// dimensions. Random projection approximately preserves angles between
// vectors, which keeps the cosine neighborhoods the density scan relies on.
func project(vectors [][]float32, target int) [][]float32 {
	dim := len(vectors[0])
	rng := rand.New(rand.NewSource(projectionSeed))

	matrix := make([][]float64, target)
	scale := 1.0 / float64(target)
	for r := range matrix {
		row := make([]float64, dim)
		for c := range row {
			row[c] = rng.NormFloat64() * scale
		}
		matrix[r] = row
	}

	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		reduced := make([]float32, target)
		for r := 0; r < target; r++ {
			var sum float64
			row := matrix[r]
			for c := 0; c < dim; c++ {
				sum += row[c] * float64(v[c])
			}
			reduced[r] = float32(sum)
		}
		out[i] = reduced
	}
	return out
}
