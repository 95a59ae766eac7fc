package collinearity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparationScoreDisjoint(t *testing.T) {
	// Presence clustered high, background clustered low: fully separable.
	values := []float64{0.1, 0.2, 0.3, 0.4, 9.1, 9.2, 9.3, 9.4}
	response := []float64{0, 0, 0, 0, 1, 1, 1, 1}

	pair, err := SeparationScore("sst", values, response, 10)
	require.NoError(t, err)
	assert.Equal(t, "sst", pair.Predictor)
	assert.InDelta(t, 1.0, pair.Separation, 1e-12)
}

func TestSeparationScoreIdentical(t *testing.T) {
	// Same values in both groups: zero separation.
	values := []float64{1, 2, 3, 4, 1, 2, 3, 4}
	response := []float64{1, 1, 1, 1, 0, 0, 0, 0}

	pair, err := SeparationScore("sst", values, response, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, pair.Separation, 1e-12)
}

func TestSeparationScorePartialOverlap(t *testing.T) {
	values := []float64{1, 2, 3, 4, 3, 4, 5, 6}
	response := []float64{0, 0, 0, 0, 1, 1, 1, 1}

	pair, err := SeparationScore("sst", values, response, 5)
	require.NoError(t, err)
	assert.Greater(t, pair.Separation, 0.0)
	assert.Less(t, pair.Separation, 1.0)

	// Histograms are proportions.
	sum := 0.0
	for _, p := range pair.Presence {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestSeparationScoreSkipsNA(t *testing.T) {
	values := []float64{1, math.NaN(), 2, 9, 10, math.NaN()}
	response := []float64{0, 0, 0, 1, 1, 1}

	pair, err := SeparationScore("sst", values, response, 4)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pair.Separation, 1e-12)
}

func TestSeparationScoreConstantPredictor(t *testing.T) {
	values := []float64{3, 3, 3, 3}
	response := []float64{0, 0, 1, 1}

	pair, err := SeparationScore("sst", values, response, 10)
	require.NoError(t, err)
	assert.Equal(t, "sst", pair.Predictor, "constant path carries the name too")
	assert.Equal(t, 0.0, pair.Separation)
}

func TestSeparationScoreErrors(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := SeparationScore("sst", []float64{1, 2}, []float64{0}, 5)
		assert.Error(t, err)
	})

	t.Run("too few bins", func(t *testing.T) {
		_, err := SeparationScore("sst", []float64{1, 2}, []float64{0, 1}, 1)
		assert.Error(t, err)
	})

	t.Run("single group", func(t *testing.T) {
		_, err := SeparationScore("sst", []float64{1, 2, 3}, []float64{0, 0, 0}, 5)
		assert.Error(t, err)
	})
}
