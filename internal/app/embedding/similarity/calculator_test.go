package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineInterface(t *testing.T) {
	// Arrange
	var calculator Calculator = NewCosine()

	// Act
	sim, err := calculator.Calculate([]float32{1, 0, 0}, []float32{1, 0, 0})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestCosineCalculation(t *testing.T) {
	calculator := NewCosine()

	testCases := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{"identical vectors", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal vectors", []float32{1, 0, 0}, []float32{0, 1, 0}, 0.0},
		{"opposite vectors", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1.0},
		{"45 degree vectors", []float32{1, 0}, []float32{1, 1}, 1 / math.Sqrt2},
		{"scaled vectors", []float32{1, 2, 3}, []float32{2, 4, 6}, 1.0},
		{"partial overlap", []float32{1, 0}, []float32{0.8, 0.6}, 0.8},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0.0},
		{"empty vectors", []float32{}, []float32{}, 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			sim, err := calculator.Calculate(tc.a, tc.b)

			// Assert
			assert.NoError(t, err)
			assert.InDelta(t, tc.expected, sim, 1e-6)
		})
	}
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := NewCosine().Calculate([]float32{1, 2}, []float32{1, 2, 3})

	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
