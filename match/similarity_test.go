package match

import (
	"errors"
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	t.Run("Identical vectors score 1.0", func(t *testing.T) {
		v := []float64{0.3, -0.2, 0.9}
		got, err := Similarity(v, v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-1.0) > 1e-9 {
			t.Errorf("expected 1.0 for identical vectors, got %f", got)
		}
	})

	t.Run("Opposite vectors score 0.0", func(t *testing.T) {
		got, err := Similarity([]float64{1, 0}, []float64{-1, 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got) > 1e-9 {
			t.Errorf("expected 0.0 for opposite vectors, got %f", got)
		}
	})

	t.Run("Orthogonal vectors score 0.5", func(t *testing.T) {
		got, err := Similarity([]float64{1, 0}, []float64{0, 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-0.5) > 1e-9 {
			t.Errorf("expected 0.5 for orthogonal vectors, got %f", got)
		}
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := []float64{0.1, 0.7, -0.4}
		b := []float64{0.5, -0.2, 0.3}
		ab, _ := Similarity(a, b)
		ba, _ := Similarity(b, a)
		if ab != ba {
			t.Errorf("expected symmetric similarity, got %f vs %f", ab, ba)
		}
	})

	t.Run("Dimension mismatch is an error", func(t *testing.T) {
		_, err := Similarity([]float64{1, 0}, []float64{1, 0, 0})
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
	})

	t.Run("Zero vector is treated as orthogonal", func(t *testing.T) {
		got, err := Similarity([]float64{0, 0}, []float64{1, 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 0.5 {
			t.Errorf("expected 0.5 for zero vector, got %f", got)
		}
	})
}
