package similarity

import (
	"errors"
	"math"
)

// ErrDimensionMismatch is returned when two vectors differ in length
var ErrDimensionMismatch = errors.New("vectors must have same dimension")

// Calculator scores two embedding vectors
type Calculator interface {
	Calculate(a, b []float32) (float64, error)
}

// Cosine computes dot(a,b) / (|a|*|b|), accumulating in float64
type Cosine struct{}

// NewCosine creates a cosine similarity calculator
func NewCosine() *Cosine {
	return &Cosine{}
}

// Calculate returns a value in [-1, 1]; zero or empty vectors score 0
func (c *Cosine) Calculate(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	if len(a) == 0 {
		return 0, nil
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	// Handle zero vectors
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim)), nil
}
