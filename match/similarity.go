package match

import (
	"fmt"
	"math"
)

// Similarity computes the cosine similarity of two embedding vectors and
// rescales it from [-1,1] to [0,1] via (cos+1)/2 so it combines directly
// with the other normalized scores. Vectors of different lengths yield
// ErrDimensionMismatch.
func Similarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		// A zero vector has no direction; treat it as orthogonal.
		return 0.5, nil
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Floating point can push the cosine a hair outside [-1,1].
	cos = math.Max(-1, math.Min(1, cos))
	return (cos + 1) / 2, nil
}
