package collinearity

import (
	"math"

	"sdmcli/internal/errors"
)

// DensityPair holds histogram estimates of a predictor's distribution for
// presence and background observations over a shared set of bins.
type DensityPair struct {
	Predictor  string
	BinEdges   []float64
	Presence   []float64 // proportion of presence rows per bin
	Background []float64 // proportion of background rows per bin
	Separation float64   // 1 - overlap coefficient
}

// SeparationScore estimates how well the named predictor separates
// presence from background records. Both groups are binned over the
// combined range and the overlap coefficient (sum of bin-wise minima of
// the two proportion histograms) is computed; the score is 1-overlap, so 0
// means identical distributions and 1 means disjoint ones.
func SeparationScore(predictor string, values, response []float64, bins int) (*DensityPair, error) {
	if len(values) != len(response) {
		return nil, errors.NewComputeError("values and response lengths differ", nil)
	}
	if bins < 2 {
		return nil, errors.NewComputeError("need at least 2 bins", nil)
	}

	var presence, background []float64
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if response[i] >= 0.5 {
			presence = append(presence, v)
		} else {
			background = append(background, v)
		}
	}
	if len(presence) == 0 || len(background) == 0 {
		return nil, errors.NewComputeError("need both presence and background observations", nil)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range append(append([]float64{}, presence...), background...) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		// Constant predictor: distributions fully overlap.
		return &DensityPair{
			Predictor:  predictor,
			BinEdges:   []float64{lo, hi},
			Presence:   []float64{1},
			Background: []float64{1},
			Separation: 0,
		}, nil
	}

	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}

	histogram := func(group []float64) []float64 {
		counts := make([]float64, bins)
		for _, v := range group {
			idx := int((v - lo) / width)
			if idx >= bins {
				idx = bins - 1
			}
			counts[idx]++
		}
		total := float64(len(group))
		for i := range counts {
			counts[i] /= total
		}
		return counts
	}

	p := histogram(presence)
	q := histogram(background)

	overlap := 0.0
	for i := 0; i < bins; i++ {
		overlap += math.Min(p[i], q[i])
	}

	return &DensityPair{
		Predictor:  predictor,
		BinEdges:   edges,
		Presence:   p,
		Background: q,
		Separation: 1 - overlap,
	}, nil
}
