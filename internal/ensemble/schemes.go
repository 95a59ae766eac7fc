package ensemble

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"sdmcli/internal/errors"
)

// Scheme names one candidate weighting of the per-algorithm predictions.
type Scheme string

const (
	SchemeUnweighted  Scheme = "unweighted_mean"
	SchemeRawAUCPRG   Scheme = "auc_prg_raw"
	SchemeNormAUCPRG  Scheme = "auc_prg_normalized"
	SchemeRawPearson  Scheme = "pearson_raw"
	SchemeNormPearson Scheme = "pearson_normalized"
)

// Schemes lists the candidate schemes in report order.
func Schemes() []Scheme {
	return []Scheme{SchemeUnweighted, SchemeRawAUCPRG, SchemeNormAUCPRG, SchemeRawPearson, SchemeNormPearson}
}

// SchemeResult is one candidate scheme's weights, per-row ensemble mean
// and RMSE against the observed response.
type SchemeResult struct {
	Scheme   Scheme
	Weights  map[Algorithm]float64
	Ensemble []float64
	RMSE     float64
}

// Selection is the outcome of the weighting-scheme comparison.
type Selection struct {
	Results []SchemeResult
	Best    Scheme
}

// BestResult returns the result of the selected scheme.
func (s *Selection) BestResult() SchemeResult {
	for _, r := range s.Results {
		if r.Scheme == s.Best {
			return r
		}
	}
	return SchemeResult{}
}

// ResultFor returns the result of the named scheme.
func (s *Selection) ResultFor(scheme Scheme) (SchemeResult, error) {
	for _, r := range s.Results {
		if r.Scheme == scheme {
			return r, nil
		}
	}
	return SchemeResult{}, fmt.Errorf("scheme %q not evaluated", scheme)
}

// SelectScheme builds every candidate weighting from the group's
// evaluation metrics, computes each scheme's weighted ensemble mean over
// the held-out predictions, scores them by RMSE against the observed
// response and selects the minimum. A scheme whose metric cannot form a
// weight vector (a negative raw correlation, say) is skipped with a
// warning rather than failing the comparison. The unweighted mean is
// always among the candidates, so the selected scheme can never do worse
// than it.
func SelectScheme(ctx context.Context, predictions map[Algorithm][]float64, observed []float64, group []Evaluation, logger *slog.Logger) (*Selection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(predictions) == 0 {
		return nil, errors.NewValidationError("no prediction columns", nil)
	}
	if len(group) == 0 {
		return nil, errors.NewValidationError("no evaluation rows", nil)
	}

	// Stable algorithm order: evaluation-group order.
	algorithms := make([]Algorithm, 0, len(group))
	evalByAlg := make(map[Algorithm]Evaluation, len(group))
	for _, ev := range group {
		if _, dup := evalByAlg[ev.Algorithm]; dup {
			return nil, errors.NewValidationError(fmt.Sprintf("duplicate evaluation for %s", ev.Algorithm), nil)
		}
		evalByAlg[ev.Algorithm] = ev
		algorithms = append(algorithms, ev.Algorithm)
	}
	columns := make([][]float64, 0, len(algorithms))
	for _, alg := range algorithms {
		col, ok := predictions[alg]
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("no predictions for %s", alg), nil)
		}
		if len(col) != len(observed) {
			return nil, errors.NewValidationError(fmt.Sprintf("%s predictions and observations differ in length", alg), nil)
		}
		columns = append(columns, col)
	}

	group, err := ApplyNormalizedWeights(group)
	if err != nil {
		return nil, fmt.Errorf("normalize weights: %w", err)
	}

	candidates, failures := candidateWeights(group)

	selection := &Selection{}
	for _, scheme := range Schemes() {
		if reason, bad := failures[scheme]; bad {
			logger.WarnContext(ctx, "skipping weighting scheme, comparison continues",
				"scheme", scheme,
				"error", reason,
			)
			continue
		}
		weights := candidates[scheme]
		ensemble, err := WeightedMean(columns, orderedWeights(weights, algorithms))
		if err != nil {
			return nil, fmt.Errorf("scheme %s: %w", scheme, err)
		}
		rmse, err := RMSE(ensemble, observed)
		if err != nil {
			return nil, fmt.Errorf("scheme %s RMSE: %w", scheme, err)
		}
		selection.Results = append(selection.Results, SchemeResult{
			Scheme:   scheme,
			Weights:  weights,
			Ensemble: ensemble,
			RMSE:     rmse,
		})
		logger.InfoContext(ctx, "evaluated weighting scheme",
			"scheme", scheme,
			"rmse", rmse,
		)
	}

	sort.SliceStable(selection.Results, func(a, b int) bool {
		return selection.Results[a].RMSE < selection.Results[b].RMSE
	})
	selection.Best = selection.Results[0].Scheme

	logger.InfoContext(ctx, "selected weighting scheme",
		"scheme", selection.Best,
		"rmse", selection.Results[0].RMSE,
	)
	return selection, nil
}

// candidateWeights derives the per-algorithm weight vector of each scheme
// from the group's evaluations. Raw-metric schemes rescale the raw values
// to sum to 1, normalized schemes use the min-max weights. A scheme whose
// raw metric cannot form weights (a negative value, all zeros) gets an
// entry in the failure map instead of a weight vector; the remaining
// schemes are unaffected.
func candidateWeights(group []Evaluation) (map[Scheme]map[Algorithm]float64, map[Scheme]error) {
	out := make(map[Scheme]map[Algorithm]float64)
	failed := make(map[Scheme]error)
	assign := func(scheme Scheme, values []float64, err error) {
		if err != nil {
			failed[scheme] = fmt.Errorf("scheme %s weights unusable: %w", scheme, err)
			return
		}
		weights := make(map[Algorithm]float64, len(group))
		for i, ev := range group {
			weights[ev.Algorithm] = values[i]
		}
		out[scheme] = weights
	}

	rawPRG := make([]float64, len(group))
	rawPearson := make([]float64, len(group))
	normPRG := make([]float64, len(group))
	normPearson := make([]float64, len(group))
	for i, ev := range group {
		rawPRG[i] = ev.AUCPRG
		rawPearson[i] = ev.PearsonCor
		normPRG[i] = ev.WeightAUCPRGNorm
		normPearson[i] = ev.WeightPearsonNorm
	}

	assign(SchemeUnweighted, UniformWeights(len(group)), nil)
	rawPRGWeights, err := RescaleToSum(rawPRG)
	assign(SchemeRawAUCPRG, rawPRGWeights, err)
	rawPearsonWeights, err := RescaleToSum(rawPearson)
	assign(SchemeRawPearson, rawPearsonWeights, err)
	assign(SchemeNormAUCPRG, normPRG, nil)
	assign(SchemeNormPearson, normPearson, nil)
	return out, failed
}

func orderedWeights(weights map[Algorithm]float64, order []Algorithm) []float64 {
	out := make([]float64, len(order))
	for i, alg := range order {
		out[i] = weights[alg]
	}
	return out
}
