package collinearity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAverageRanks(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected []float64
	}{
		{"no ties", []float64{30, 10, 20}, []float64{3, 1, 2}},
		{"pair tie", []float64{5, 6, 7, 8, 7}, []float64{1, 2, 3.5, 5, 3.5}},
		{"all equal", []float64{4, 4, 4}, []float64{2, 2, 2}},
		{"single", []float64{1}, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, averageRanks(tt.values))
		})
	}
}

func makeMatrix(cols ...[]float64) *mat.Dense {
	n := len(cols[0])
	m := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		for i, v := range col {
			m.Set(i, j, v)
		}
	}
	return m
}

func TestSpearmanMatrix(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	cubed := []float64{1, 8, 27, 64, 125}
	reversed := []float64{5, 4, 3, 2, 1}
	tied := []float64{5, 6, 7, 8, 7}

	corr, err := SpearmanMatrix(makeMatrix(x, cubed, reversed, tied), []string{"x", "cubed", "reversed", "tied"})
	require.NoError(t, err)

	rho, err := corr.At("x", "cubed")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rho, 1e-12, "monotone transform keeps rho at 1")

	rho, err = corr.At("x", "reversed")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, rho, 1e-12)

	rho, err = corr.At("x", "tied")
	require.NoError(t, err)
	// Hand-computed with average ranks: 8/sqrt(10*9.5).
	assert.InDelta(t, 0.820782681668124, rho, 1e-12)

	rho, err = corr.At("x", "x")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rho)

	_, err = corr.At("x", "nope")
	assert.Error(t, err)
}

func TestSpearmanMatrixErrors(t *testing.T) {
	m := makeMatrix([]float64{1, 2, 3}, []float64{4, 5, 6})

	_, err := SpearmanMatrix(m, []string{"only-one"})
	assert.Error(t, err)

	short := makeMatrix([]float64{1, 2}, []float64{3, 4})
	_, err = SpearmanMatrix(short, []string{"a", "b"})
	assert.Error(t, err, "fewer than 3 rows")
}

func TestHighPairsAndCounts(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	almostX := []float64{1, 2, 3, 4, 6, 5}   // strongly rank-correlated with x
	negative := []float64{6, 5, 4, 3, 1, 2}  // strongly negative
	scrambled := []float64{3, 1, 6, 2, 5, 4} // weak

	corr, err := SpearmanMatrix(
		makeMatrix(x, almostX, negative, scrambled),
		[]string{"x", "almost_x", "negative", "scrambled"})
	require.NoError(t, err)

	pairs := corr.HighPairs(0.75)
	require.NotEmpty(t, pairs)
	for _, p := range pairs {
		assert.NotEqual(t, "scrambled", p.A)
		assert.NotEqual(t, "scrambled", p.B)
	}
	// Strongest pair first.
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, abs(pairs[i-1].Rho), abs(pairs[i].Rho))
	}

	counts := corr.PairCounts(0.75)
	assert.Equal(t, 0, counts["scrambled"])
	assert.Greater(t, counts["x"], 0)
}

func TestCorrelationRecords(t *testing.T) {
	corr, err := SpearmanMatrix(
		makeMatrix([]float64{1, 2, 3}, []float64{3, 2, 1}),
		[]string{"a", "b"})
	require.NoError(t, err)

	header, records := corr.Records()
	assert.Equal(t, []string{"predictor", "a", "b"}, header)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0][0])
	assert.Equal(t, "1.000000", records[0][1])
	assert.Equal(t, "-1.000000", records[0][2])
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
