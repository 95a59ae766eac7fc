// Command ensemble-report derives ensemble weights from model evaluation
// metrics, scores the candidate weighting schemes against held-out
// observations and writes the weight tables, the combined predictions and
// the scheme comparison.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"

	"sdmcli/internal/config"
	"sdmcli/internal/dataset"
	"sdmcli/internal/ensemble"
	"sdmcli/internal/exporter"
	"sdmcli/internal/figures"
)

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	baseDir := flag.String("base", ".", "base directory for data, reports and figures")
	evalFile := flag.String("evaluations", "model_evaluations.csv", "evaluation CSV under the data directory")
	predFile := flag.String("predictions", "heldout_predictions.csv", "held-out prediction CSV under the data directory")
	source := flag.String("source", "", "training-environment source to score (defaults to the configured one)")
	recompute := flag.Bool("recompute", false, "recompute the scored source's metrics from the held-out predictions")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	runID := uuid.NewString()
	logger := cfg.Logging.NewLogger().With("run_id", runID)
	slog.SetDefault(logger)

	paths := config.NewPaths(*baseDir, cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to prepare directories", "error", err)
		os.Exit(1)
	}

	evalTable, err := dataset.LoadCSV(paths.DataPath(*evalFile))
	if err != nil {
		slog.Error("Failed to load evaluation table", "error", err)
		os.Exit(1)
	}
	evals, err := ensemble.LoadEvaluations(evalTable)
	if err != nil {
		slog.Error("Failed to parse evaluations", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded evaluations", "models", len(evals))

	groups := ensemble.GroupBySource(evals)
	chosen := *source
	if chosen == "" {
		chosen = cfg.Ensemble.TrainingSource
	}
	if chosen == "" && len(groups) == 1 {
		for name := range groups {
			chosen = name
		}
	}
	if _, ok := groups[chosen]; !ok {
		slog.Error("Unknown training source",
			"source", chosen,
			"available", strings.Join(sortedKeys(groups), ", "))
		os.Exit(1)
	}

	predTable, err := dataset.LoadCSV(paths.DataPath(*predFile))
	if err != nil {
		slog.Error("Failed to load prediction table", "error", err)
		os.Exit(1)
	}
	predTable, naRows := predTable.DropNARows()
	if naRows > 0 {
		slog.Info("Dropped incomplete prediction rows", "rows", naRows)
	}
	predictions, observed, err := ensemble.LoadPredictions(predTable, cfg.Ensemble.ResponseColumn)
	if err != nil {
		slog.Error("Failed to parse predictions", "error", err)
		os.Exit(1)
	}
	order := predictionOrder(predictions)

	if *recompute {
		group, err := recomputeGroup(chosen, order, predictions, observed)
		if err != nil {
			slog.Error("Failed to recompute metrics", "source", chosen, "error", err)
			os.Exit(1)
		}
		groups[chosen] = group
		slog.Info("Recomputed evaluation metrics from held-out predictions", "source", chosen)
	}

	// Weights are normalized within each training source so every group's
	// weights sum to one.
	var weighted []ensemble.Evaluation
	for _, name := range sortedKeys(groups) {
		g, err := ensemble.ApplyNormalizedWeights(groups[name])
		if err != nil {
			slog.Error("Failed to normalize weights", "source", name, "error", err)
			os.Exit(1)
		}
		weighted = append(weighted, g...)
		groups[name] = g
	}

	ctx := context.Background()
	selection, err := ensemble.SelectScheme(ctx, predictions, observed, groups[chosen], logger)
	if err != nil {
		slog.Error("Scheme selection failed", "error", err)
		os.Exit(1)
	}
	best := selection.BestResult()
	slog.Info("Selected weighting scheme",
		"scheme", best.Scheme,
		"rmse", best.RMSE,
		"source", chosen,
	)

	if err := writeReports(paths, runID, weighted, order, predictions, observed, selection); err != nil {
		slog.Error("Failed to write reports", "error", err)
		os.Exit(1)
	}

	rmsePlot, err := figures.RMSEBarChart(selection)
	if err != nil {
		slog.Error("Failed to build RMSE chart", "error", err)
		os.Exit(1)
	}
	width := vg.Length(cfg.Figures.WidthCentimeters) * vg.Centimeter
	height := vg.Length(cfg.Figures.HeightCentimeters) * vg.Centimeter
	if err := figures.SaveSingle(rmsePlot, width, height, paths.FigurePath("scheme_rmse.png")); err != nil {
		slog.Error("Failed to save RMSE chart", "error", err)
		os.Exit(1)
	}
	slog.Info("Ensemble report done", "reports_dir", paths.ReportsDir, "figures_dir", paths.FiguresDir)
}

// recomputeGroup rebuilds one training source's evaluation rows from its
// held-out predictions.
func recomputeGroup(source string, order []ensemble.Algorithm, predictions map[ensemble.Algorithm][]float64, observed []float64) ([]ensemble.Evaluation, error) {
	group := make([]ensemble.Evaluation, 0, len(order))
	for _, alg := range order {
		m, err := ensemble.ComputeMetrics(alg, predictions[alg], observed)
		if err != nil {
			return nil, fmt.Errorf("metrics for %s: %w", alg, err)
		}
		group = append(group, ensemble.Evaluation{
			Algorithm:      alg,
			TrainingSource: source,
			AUCROC:         m.AUCROC,
			AUCPRG:         m.AUCPRG,
			PearsonCor:     m.PearsonCor,
		})
	}
	return group, nil
}

func writeReports(paths *config.Paths, runID string, evals []ensemble.Evaluation, order []ensemble.Algorithm, predictions map[ensemble.Algorithm][]float64, observed []float64, selection *ensemble.Selection) error {
	writer := exporter.NewCSVWriter(paths.ReportsDir)

	weightHeader, weightRecords := ensemble.EvaluationRecords(evals)
	if err := writer.WriteSimpleCSV("model_weights.csv", weightHeader, weightRecords); err != nil {
		return fmt.Errorf("write model weights: %w", err)
	}

	predHeader, predRecords := ensemble.PredictionRecords(order, predictions, observed, selection)
	if err := writer.WriteSimpleCSV("ensemble_predictions.csv", predHeader, predRecords); err != nil {
		return fmt.Errorf("write ensemble predictions: %w", err)
	}

	compHeader, compRecords := ensemble.ComparisonRecords(selection)
	if err := writer.WriteSimpleCSV("weighting_schemes.csv", compHeader, compRecords); err != nil {
		return fmt.Errorf("write scheme comparison: %w", err)
	}

	workbook := exporter.NewWorkbookWriter(runID)
	sheets := []exporter.Sheet{
		{Name: "Weights", Headers: weightHeader, Records: weightRecords},
		{Name: "Schemes", Headers: compHeader, Records: compRecords},
		{Name: "Predictions", Headers: predHeader, Records: predRecords},
	}
	if err := workbook.Write(paths.ReportPath("ensemble_report.xlsx"), sheets); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// predictionOrder lists the algorithms present in the prediction table in
// their canonical order.
func predictionOrder(predictions map[ensemble.Algorithm][]float64) []ensemble.Algorithm {
	var order []ensemble.Algorithm
	for _, alg := range ensemble.Algorithms() {
		if _, ok := predictions[alg]; ok {
			order = append(order, alg)
		}
	}
	return order
}

func sortedKeys(groups map[string][]ensemble.Evaluation) []string {
	keys := make([]string, 0, len(groups))
	for name := range groups {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
