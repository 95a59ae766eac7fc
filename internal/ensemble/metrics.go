package ensemble

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"sdmcli/internal/errors"
)

// RMSE returns the root mean square error of predicted against observed.
func RMSE(predicted, observed []float64) (float64, error) {
	if len(predicted) != len(observed) {
		return 0, errors.NewComputeError("predicted and observed lengths differ", nil)
	}
	if len(predicted) == 0 {
		return 0, errors.NewComputeError("no observations", nil)
	}
	sum := 0.0
	for i := range predicted {
		d := predicted[i] - observed[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted))), nil
}

// PearsonCor returns the Pearson correlation between predictions and the
// binary observations.
func PearsonCor(predicted, observed []float64) (float64, error) {
	if len(predicted) != len(observed) || len(predicted) < 3 {
		return 0, errors.NewComputeError("need at least 3 paired observations", nil)
	}
	return stat.Correlation(predicted, observed, nil), nil
}

// AUCROC computes the area under the ROC curve with the rank-sum
// (Mann-Whitney) formulation, averaging ranks across score ties.
func AUCROC(scores, labels []float64) (float64, error) {
	pos, neg, err := countClasses(labels)
	if err != nil {
		return 0, err
	}
	if len(scores) != len(labels) {
		return 0, errors.NewComputeError("scores and labels lengths differ", nil)
	}

	ranks := tiedRanks(scores)
	rankSum := 0.0
	for i, label := range labels {
		if label >= 0.5 {
			rankSum += ranks[i]
		}
	}
	return (rankSum - pos*(pos+1)/2) / (pos * neg), nil
}

// AUCPRG computes the area under the precision-recall-gain curve
// (Flach & Kull 2015). Gains are relative to the always-positive baseline:
// recall gain (rec-pi)/((1-pi)rec), precision gain (prec-pi)/((1-pi)prec),
// with pi the positive rate. The curve is swept from the highest score
// down, the recall-gain axis entered at 0 by linear interpolation, and the
// area accumulated by trapezoids up to recall gain 1.
func AUCPRG(scores, labels []float64) (float64, error) {
	pos, neg, err := countClasses(labels)
	if err != nil {
		return 0, err
	}
	if len(scores) != len(labels) {
		return 0, errors.NewComputeError("scores and labels lengths differ", nil)
	}
	pi := pos / (pos + neg)

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	type point struct{ rg, pg float64 }
	var points []point
	tp, fp := 0.0, 0.0
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if labels[order[j]] >= 0.5 {
				tp++
			} else {
				fp++
			}
			j++
		}
		i = j
		if tp == 0 {
			continue
		}
		rec := tp / pos
		prec := tp / (tp + fp)
		points = append(points, point{
			rg: (rec - pi) / ((1 - pi) * rec),
			pg: (prec - pi) / ((1 - pi) * prec),
		})
	}

	// Walk the curve over recall gain in [0,1].
	area := 0.0
	havePrev := false
	var prev point
	for _, p := range points {
		if p.rg < 0 {
			prev, havePrev = p, true
			continue
		}
		if !havePrev || prev.rg < 0 {
			// Enter the axis at rg=0, interpolating from the last
			// below-axis point when there is one.
			entry := point{rg: 0, pg: p.pg}
			if havePrev && p.rg != prev.rg {
				frac := (0 - prev.rg) / (p.rg - prev.rg)
				entry.pg = prev.pg + frac*(p.pg-prev.pg)
			}
			area += p.rg * (entry.pg + p.pg) / 2
		} else {
			area += (p.rg - prev.rg) * (prev.pg + p.pg) / 2
		}
		prev, havePrev = p, true
	}
	return area, nil
}

// ComputeMetrics evaluates one algorithm's predictions against the
// observed binary response.
func ComputeMetrics(algorithm Algorithm, predicted, observed []float64) (Metrics, error) {
	aucROC, err := AUCROC(predicted, observed)
	if err != nil {
		return Metrics{}, err
	}
	aucPRG, err := AUCPRG(predicted, observed)
	if err != nil {
		return Metrics{}, err
	}
	pearson, err := PearsonCor(predicted, observed)
	if err != nil {
		return Metrics{}, err
	}
	rmse, err := RMSE(predicted, observed)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{
		Algorithm:  algorithm,
		AUCROC:     aucROC,
		AUCPRG:     aucPRG,
		PearsonCor: pearson,
		RMSE:       rmse,
	}, nil
}

func countClasses(labels []float64) (pos, neg float64, err error) {
	for _, label := range labels {
		if label >= 0.5 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, 0, errors.NewComputeError("labels must contain both classes", nil)
	}
	return pos, neg, nil
}

// tiedRanks assigns 1-based ranks, averaging over tied runs.
func tiedRanks(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
