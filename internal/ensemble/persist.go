package ensemble

import (
	"fmt"
	"strconv"

	"sdmcli/internal/dataset"
	"sdmcli/internal/errors"
)

// Column names of the evaluation table.
const (
	ColAlgorithm      = "algorithm"
	ColTrainingSource = "training_source"
	ColAUCROC         = "auc_roc"
	ColAUCPRG         = "auc_prg"
	ColPearsonCor     = "pearson_cor"
)

// LoadEvaluations parses a model-evaluation table. Expected columns:
// algorithm, training_source, auc_roc, auc_prg, pearson_cor.
func LoadEvaluations(table *dataset.Table) ([]Evaluation, error) {
	algorithms, err := table.Label(ColAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("evaluation table: %w", err)
	}
	sources, err := table.Label(ColTrainingSource)
	if err != nil {
		return nil, fmt.Errorf("evaluation table: %w", err)
	}
	aucROC, err := table.Column(ColAUCROC)
	if err != nil {
		return nil, fmt.Errorf("evaluation table: %w", err)
	}
	aucPRG, err := table.Column(ColAUCPRG)
	if err != nil {
		return nil, fmt.Errorf("evaluation table: %w", err)
	}
	pearson, err := table.Column(ColPearsonCor)
	if err != nil {
		return nil, fmt.Errorf("evaluation table: %w", err)
	}

	evals := make([]Evaluation, 0, table.NumRows())
	for i := 0; i < table.NumRows(); i++ {
		alg, err := ParseAlgorithm(algorithms[i])
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("evaluation row %d", i+2), err)
		}
		evals = append(evals, Evaluation{
			Algorithm:      alg,
			TrainingSource: sources[i],
			AUCROC:         aucROC[i],
			AUCPRG:         aucPRG[i],
			PearsonCor:     pearson[i],
		})
	}
	if len(evals) == 0 {
		return nil, errors.NewValidationError("evaluation table has no rows", nil)
	}
	return evals, nil
}

// GroupBySource partitions evaluations by training-environment source.
func GroupBySource(evals []Evaluation) map[string][]Evaluation {
	groups := make(map[string][]Evaluation)
	for _, ev := range evals {
		groups[ev.TrainingSource] = append(groups[ev.TrainingSource], ev)
	}
	return groups
}

// LoadPredictions parses a prediction table into per-algorithm columns and
// the observed response. Every numeric column other than the response must
// be named after an algorithm.
func LoadPredictions(table *dataset.Table, responseColumn string) (map[Algorithm][]float64, []float64, error) {
	observed, err := table.Column(responseColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("prediction table: %w", err)
	}

	predictions := make(map[Algorithm][]float64)
	for _, name := range table.NumericColumns() {
		if name == responseColumn {
			continue
		}
		alg, err := ParseAlgorithm(name)
		if err != nil {
			return nil, nil, errors.NewParsingError(fmt.Sprintf("prediction column %q", name), err)
		}
		col, colErr := table.Column(name)
		if colErr != nil {
			return nil, nil, colErr
		}
		predictions[alg] = col
	}
	if len(predictions) == 0 {
		return nil, nil, errors.NewValidationError("prediction table has no algorithm columns", nil)
	}
	return predictions, observed, nil
}

// EvaluationRecords renders evaluations, including the derived normalized
// weights, as CSV header and rows.
func EvaluationRecords(evals []Evaluation) ([]string, [][]string) {
	header := []string{
		ColAlgorithm,
		ColTrainingSource,
		ColAUCROC,
		ColAUCPRG,
		ColPearsonCor,
		"weight_auc_prg_norm",
		"weight_pearson_norm",
	}
	records := make([][]string, len(evals))
	for i, ev := range evals {
		records[i] = []string{
			string(ev.Algorithm),
			ev.TrainingSource,
			formatMetric(ev.AUCROC),
			formatMetric(ev.AUCPRG),
			formatMetric(ev.PearsonCor),
			formatMetric(ev.WeightAUCPRGNorm),
			formatMetric(ev.WeightPearsonNorm),
		}
	}
	return header, records
}

// PredictionRecords renders the held-out predictions joined with every
// scheme's ensemble column.
func PredictionRecords(order []Algorithm, predictions map[Algorithm][]float64, observed []float64, selection *Selection) ([]string, [][]string) {
	header := []string{"observed"}
	for _, alg := range order {
		header = append(header, string(alg))
	}
	for _, r := range selection.Results {
		header = append(header, "ensemble_"+string(r.Scheme))
	}

	records := make([][]string, len(observed))
	for i := range observed {
		row := []string{formatMetric(observed[i])}
		for _, alg := range order {
			row = append(row, formatMetric(predictions[alg][i]))
		}
		for _, r := range selection.Results {
			row = append(row, formatMetric(r.Ensemble[i]))
		}
		records[i] = row
	}
	return header, records
}

// ComparisonRecords renders the scheme comparison, best first, marking the
// selected scheme.
func ComparisonRecords(selection *Selection) ([]string, [][]string) {
	header := []string{"scheme", "rmse", "selected"}
	records := make([][]string, len(selection.Results))
	for i, r := range selection.Results {
		selected := "false"
		if r.Scheme == selection.Best {
			selected = "true"
		}
		records[i] = []string{string(r.Scheme), formatMetric(r.RMSE), selected}
	}
	return header, records
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
