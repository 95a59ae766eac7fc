package ensemble

import (
	"math"

	"sdmcli/internal/errors"
)

// NormalizeMetric rescales metric values to [0,1] by min-max and then to
// sum to 1. When every value is equal the weights degrade to uniform.
func NormalizeMetric(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, errors.NewComputeError("no metric values", nil)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			return nil, errors.NewComputeError("metric value is NA", nil)
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]float64, len(values))
	if hi == lo {
		for i := range out {
			out[i] = 1 / float64(len(values))
		}
		return out, nil
	}
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo)
	}
	return RescaleToSum(out)
}

// RescaleToSum rescales non-negative values so they sum to 1.
func RescaleToSum(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, errors.NewComputeError("no weight values", nil)
	}
	total := 0.0
	for _, v := range values {
		if v < 0 || math.IsNaN(v) {
			return nil, errors.NewComputeError("weights must be non-negative", nil)
		}
		total += v
	}
	if total == 0 {
		return nil, errors.NewComputeError("weights sum to zero", nil)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / total
	}
	return out, nil
}

// WeightedMean returns the per-row weighted mean of the prediction columns.
// Column order must match the weight order, and weights must sum to 1.
func WeightedMean(columns [][]float64, weights []float64) ([]float64, error) {
	if len(columns) == 0 {
		return nil, errors.NewComputeError("no prediction columns", nil)
	}
	if len(columns) != len(weights) {
		return nil, errors.NewComputeError("column and weight counts differ", nil)
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		return nil, errors.NewComputeError("weights must sum to 1", nil)
	}

	n := len(columns[0])
	for _, col := range columns {
		if len(col) != n {
			return nil, errors.NewComputeError("prediction columns have unequal lengths", nil)
		}
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		acc := 0.0
		for j, col := range columns {
			acc += weights[j] * col[i]
		}
		out[i] = acc
	}
	return out, nil
}

// UniformWeights returns equal weights that sum to 1.
func UniformWeights(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}

// ApplyNormalizedWeights fills the derived weight columns of a
// training-source group of evaluations in place. Weights are normalized
// within the group, one per algorithm.
func ApplyNormalizedWeights(group []Evaluation) ([]Evaluation, error) {
	if len(group) == 0 {
		return nil, errors.NewComputeError("empty evaluation group", nil)
	}
	prg := make([]float64, len(group))
	pearson := make([]float64, len(group))
	for i, ev := range group {
		prg[i] = ev.AUCPRG
		pearson[i] = ev.PearsonCor
	}

	prgNorm, err := NormalizeMetric(prg)
	if err != nil {
		return nil, err
	}
	pearsonNorm, err := NormalizeMetric(pearson)
	if err != nil {
		return nil, err
	}

	out := append([]Evaluation(nil), group...)
	for i := range out {
		out[i].WeightAUCPRGNorm = prgNorm[i]
		out[i].WeightPearsonNorm = pearsonNorm[i]
	}
	return out, nil
}
