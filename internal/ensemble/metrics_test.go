package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMSE(t *testing.T) {
	tests := []struct {
		name      string
		predicted []float64
		observed  []float64
		expected  float64
	}{
		{"perfect", []float64{1, 0, 1}, []float64{1, 0, 1}, 0},
		{"constant error", []float64{1.5, 0.5}, []float64{1, 0}, 0.5},
		{"mixed", []float64{2, 0}, []float64{0, 0}, 1.4142135623730951},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rmse, err := RMSE(tt.predicted, tt.observed)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, rmse, 1e-12)
		})
	}

	t.Run("length mismatch", func(t *testing.T) {
		_, err := RMSE([]float64{1}, []float64{1, 2})
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := RMSE(nil, nil)
		assert.Error(t, err)
	})
}

func TestAUCROC(t *testing.T) {
	t.Run("perfect ranking", func(t *testing.T) {
		scores := []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1}
		labels := []float64{1, 1, 1, 0, 0, 0}
		auc, err := AUCROC(scores, labels)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, auc, 1e-12)
	})

	t.Run("inverted ranking", func(t *testing.T) {
		scores := []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9}
		labels := []float64{1, 1, 1, 0, 0, 0}
		auc, err := AUCROC(scores, labels)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, auc, 1e-12)
	})

	t.Run("all scores tied is random", func(t *testing.T) {
		scores := []float64{0.5, 0.5, 0.5, 0.5}
		labels := []float64{1, 1, 0, 0}
		auc, err := AUCROC(scores, labels)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, auc, 1e-12)
	})

	t.Run("hand-computed", func(t *testing.T) {
		// Positives at 0.8 and 0.4, negatives at 0.6 and 0.2:
		// pairs won 3 of 4.
		scores := []float64{0.8, 0.6, 0.4, 0.2}
		labels := []float64{1, 0, 1, 0}
		auc, err := AUCROC(scores, labels)
		require.NoError(t, err)
		assert.InDelta(t, 0.75, auc, 1e-12)
	})

	t.Run("single class", func(t *testing.T) {
		_, err := AUCROC([]float64{0.1, 0.2}, []float64{1, 1})
		assert.Error(t, err)
	})
}

func TestAUCPRG(t *testing.T) {
	t.Run("perfect ranking", func(t *testing.T) {
		scores := []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1}
		labels := []float64{1, 1, 1, 0, 0, 0}
		auc, err := AUCPRG(scores, labels)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, auc, 1e-9)
	})

	t.Run("better ranking scores higher", func(t *testing.T) {
		labels := []float64{1, 1, 1, 0, 0, 0}
		good := []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1}
		bad := []float64{0.9, 0.2, 0.1, 0.8, 0.7, 0.3}

		aucGood, err := AUCPRG(good, labels)
		require.NoError(t, err)
		aucBad, err := AUCPRG(bad, labels)
		require.NoError(t, err)
		assert.Greater(t, aucGood, aucBad)
	})

	t.Run("bounded above by 1", func(t *testing.T) {
		scores := []float64{0.8, 0.6, 0.4, 0.2, 0.7, 0.1}
		labels := []float64{1, 0, 1, 0, 1, 0}
		auc, err := AUCPRG(scores, labels)
		require.NoError(t, err)
		assert.LessOrEqual(t, auc, 1.0)
	})

	t.Run("single class", func(t *testing.T) {
		_, err := AUCPRG([]float64{0.1, 0.2}, []float64{0, 0})
		assert.Error(t, err)
	})
}

func TestPearsonCor(t *testing.T) {
	predicted := []float64{0.9, 0.8, 0.2, 0.1}
	observed := []float64{1, 1, 0, 0}

	r, err := PearsonCor(predicted, observed)
	require.NoError(t, err)
	assert.Greater(t, r, 0.9)

	_, err = PearsonCor([]float64{1, 2}, []float64{1, 2})
	assert.Error(t, err, "too few observations")
}

func TestComputeMetrics(t *testing.T) {
	predicted := []float64{0.9, 0.7, 0.6, 0.3, 0.2, 0.1}
	observed := []float64{1, 1, 1, 0, 0, 0}

	m, err := ComputeMetrics(GAM, predicted, observed)
	require.NoError(t, err)

	assert.Equal(t, GAM, m.Algorithm)
	assert.InDelta(t, 1.0, m.AUCROC, 1e-12)
	assert.InDelta(t, 1.0, m.AUCPRG, 1e-9)
	assert.Greater(t, m.PearsonCor, 0.9)
	assert.Greater(t, m.RMSE, 0.0)
}

func TestTiedRanks(t *testing.T) {
	assert.Equal(t, []float64{3, 1, 2}, tiedRanks([]float64{30, 10, 20}))
	assert.Equal(t, []float64{1.5, 1.5, 3}, tiedRanks([]float64{2, 2, 5}))
}
